package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/security"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

type jobUsecase struct {
	jobRepo     domain.JobRepository
	companyRepo domain.CompanyRepository
	appRepo     domain.ApplicationRepository
	validate    *validator.Validate
}

func NewJobUsecase(
	jobRepo domain.JobRepository,
	companyRepo domain.CompanyRepository,
	appRepo domain.ApplicationRepository,
	validate *validator.Validate,
) domain.JobUsecase {
	return &jobUsecase{
		jobRepo:     jobRepo,
		companyRepo: companyRepo,
		appRepo:     appRepo,
		validate:    validate,
	}
}

func (u *jobUsecase) Create(ctx context.Context, userID string, input domain.CreateJobInput) (*domain.Job, error) {
	input.Title = strings.TrimSpace(input.Title)
	input.Description = strings.TrimSpace(input.Description)
	input.Location = strings.TrimSpace(input.Location)
	input.JobType = strings.TrimSpace(input.JobType)
	input.CompanyID = strings.TrimSpace(input.CompanyID)

	if err := u.validate.Struct(input); err != nil {
		return nil, invalidInput(err)
	}

	requirements := domain.SplitCommaList(input.Requirements)
	if len(requirements) == 0 {
		return nil, apperror.BadRequest("Requirements must list at least one item.")
	}

	company, err := u.companyRepo.GetByID(ctx, input.CompanyID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Company not found.")
		}
		return nil, apperror.Internal(err)
	}
	if company.UserID != userID {
		security.DefaultLogger().LogForbiddenAccess(ctx, userID, "company:"+company.ID)
		return nil, apperror.Forbidden("You can only post jobs for your own company.")
	}

	now := time.Now().UTC()
	job := &domain.Job{
		ID:              uuid.NewString(),
		Title:           input.Title,
		Description:     input.Description,
		Requirements:    requirements,
		Salary:          input.Salary,
		Location:        input.Location,
		JobType:         input.JobType,
		ExperienceLevel: *input.ExperienceLevel,
		Positions:       input.Positions,
		CompanyID:       company.ID,
		CreatedBy:       userID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := u.jobRepo.Create(ctx, job); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Company not found.")
		}
		return nil, apperror.Internal(err)
	}
	job.Company = company
	return job, nil
}

func (u *jobUsecase) Search(ctx context.Context, keyword string, page, limit int) ([]domain.Job, domain.Pagination, error) {
	page, limit = domain.NormalizePage(page, limit)
	offset := (page - 1) * limit

	jobs, total, err := u.jobRepo.Search(ctx, strings.TrimSpace(keyword), limit, offset)
	if err != nil {
		return nil, domain.Pagination{}, apperror.Internal(err)
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}
	return jobs, domain.NewPagination(page, limit, total), nil
}

func (u *jobUsecase) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found.")
		}
		return nil, apperror.Internal(err)
	}

	apps, err := u.appRepo.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	job.Applications = domain.WithApplicantCards(apps)
	return job, nil
}

func (u *jobUsecase) ListByCreator(ctx context.Context, userID string) ([]domain.Job, error) {
	jobs, err := u.jobRepo.ListByCreator(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if jobs == nil {
		jobs = []domain.Job{}
	}
	return jobs, nil
}
