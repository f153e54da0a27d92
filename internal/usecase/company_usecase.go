package usecase

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/logger"
	"go-jobboard-backend/pkg/security"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const errCompanyExists = "You can't register same company."

type companyUsecase struct {
	companyRepo domain.CompanyRepository
	userRepo    domain.UserRepository
	uploads     uploader
	validate    *validator.Validate
}

func NewCompanyUsecase(
	companyRepo domain.CompanyRepository,
	userRepo domain.UserRepository,
	files domain.FileStorage,
	maxUploadBytes int,
	validate *validator.Validate,
) domain.CompanyUsecase {
	return &companyUsecase{
		companyRepo: companyRepo,
		userRepo:    userRepo,
		uploads:     newUploader(files, maxUploadBytes),
		validate:    validate,
	}
}

func validCompanyName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= 2 && n <= 100
}

func (u *companyUsecase) Register(ctx context.Context, userID, name string) (*domain.Company, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperror.BadRequest("Company name is required.")
	}
	if !validCompanyName(name) {
		return nil, apperror.BadRequest("Company name must be between 2 and 100 characters.")
	}

	exists, err := u.companyRepo.ExistsByName(ctx, name)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if exists {
		return nil, apperror.BadRequest(errCompanyExists)
	}

	now := time.Now().UTC()
	company := &domain.Company{
		ID:        uuid.NewString(),
		Name:      name,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.companyRepo.Create(ctx, company); err != nil {
		if errors.Is(err, domain.ErrCompanyExists) {
			return nil, apperror.BadRequest(errCompanyExists)
		}
		return nil, apperror.Internal(err)
	}

	// The first company a recruiter registers becomes their profile company.
	if err := u.userRepo.SetCompanyIfEmpty(ctx, userID, company.ID); err != nil {
		logger.Log.Warn("Failed to link company to recruiter profile", "user_id", userID, "company_id", company.ID, "error", err)
	}

	return company, nil
}

func (u *companyUsecase) ListByOwner(ctx context.Context, userID string) ([]domain.Company, error) {
	companies, err := u.companyRepo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if companies == nil {
		companies = []domain.Company{}
	}
	return companies, nil
}

func (u *companyUsecase) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	company, err := u.companyRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Company not found.")
		}
		return nil, apperror.Internal(err)
	}
	return company, nil
}

func (u *companyUsecase) Update(ctx context.Context, userID, id string, input domain.UpdateCompanyInput) (*domain.Company, error) {
	update := domain.CompanyUpdate{
		Name:        trimmed(input.Name),
		Description: trimmed(input.Description),
		Location:    trimmed(input.Location),
		Website:     trimmed(input.Website),
	}
	if update.Name == nil && update.Description == nil && update.Location == nil && update.Website == nil && input.Logo == nil {
		return nil, apperror.BadRequest("At least one field is required to update the company.")
	}
	if err := u.validate.Struct(update); err != nil {
		return nil, invalidInput(err)
	}

	company, err := u.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if company.UserID != userID {
		security.DefaultLogger().LogForbiddenAccess(ctx, userID, "company:"+id)
		return nil, apperror.Forbidden("You are not allowed to update this company.")
	}

	if input.Logo != nil {
		url, err := u.uploads.store(ctx, security.KindImage, folderCompanyLogos, company.ID, input.Logo)
		if err != nil {
			return nil, err
		}
		update.LogoURL = &url
	}

	updated, err := u.companyRepo.Update(ctx, id, update)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCompanyExists):
			return nil, apperror.BadRequest(errCompanyExists)
		case errors.Is(err, domain.ErrNotFound):
			return nil, apperror.NotFound("Company not found.")
		}
		return nil, apperror.Internal(err)
	}
	return updated, nil
}

// trimmed returns nil for absent or blank values.
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
