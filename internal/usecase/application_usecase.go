package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/security"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

type applicationUsecase struct {
	appRepo domain.ApplicationRepository
	jobRepo domain.JobRepository
}

func NewApplicationUsecase(appRepo domain.ApplicationRepository, jobRepo domain.JobRepository) domain.ApplicationUsecase {
	return &applicationUsecase{
		appRepo: appRepo,
		jobRepo: jobRepo,
	}
}

func (u *applicationUsecase) getJob(ctx context.Context, jobID string) (*domain.Job, error) {
	job, err := u.jobRepo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Job not found.")
		}
		return nil, apperror.Internal(err)
	}
	return job, nil
}

// ownsJob reports whether the user posted the job or owns its company.
func ownsJob(job *domain.Job, userID string) bool {
	if job.CreatedBy == userID {
		return true
	}
	return job.Company != nil && job.Company.UserID == userID
}

func (u *applicationUsecase) withApplications(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	apps, err := u.appRepo.ListByJob(ctx, job.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if apps == nil {
		apps = []domain.Application{}
	}
	job.Applications = apps
	return job, nil
}

func (u *applicationUsecase) Apply(ctx context.Context, userID, jobID string) (*domain.Job, error) {
	if strings.TrimSpace(jobID) == "" {
		return nil, apperror.BadRequest("Job id is required.")
	}

	job, err := u.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	applied, err := u.appRepo.Exists(ctx, job.ID, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if applied {
		return nil, apperror.BadRequest("You have already applied for this job.")
	}

	now := time.Now().UTC()
	app := &domain.Application{
		ID:          uuid.NewString(),
		JobID:       job.ID,
		ApplicantID: userID,
		Status:      domain.ApplicationStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := u.appRepo.Create(ctx, app); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyApplied):
			return nil, apperror.BadRequest("You have already applied for this job.")
		case errors.Is(err, domain.ErrNotFound):
			return nil, apperror.NotFound("Job not found.")
		}
		return nil, apperror.Internal(err)
	}

	job, err = u.withApplications(ctx, job)
	if err != nil {
		return nil, err
	}
	job.Applications = domain.WithApplicantCards(job.Applications)
	return job, nil
}

func (u *applicationUsecase) ListForApplicant(ctx context.Context, userID string) ([]domain.Application, error) {
	apps, err := u.appRepo.ListByApplicant(ctx, userID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if apps == nil {
		apps = []domain.Application{}
	}
	return apps, nil
}

func (u *applicationUsecase) ListApplicants(ctx context.Context, userID, jobID string) (*domain.Job, error) {
	job, err := u.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if !ownsJob(job, userID) {
		security.DefaultLogger().LogForbiddenAccess(ctx, userID, "job:"+job.ID)
		return nil, apperror.Forbidden("You are not allowed to view applicants for this job.")
	}
	return u.withApplications(ctx, job)
}

func (u *applicationUsecase) UpdateStatus(ctx context.Context, userID, applicationID, status string) (*domain.Application, error) {
	status = strings.ToLower(strings.TrimSpace(status))
	if status == "" {
		return nil, apperror.BadRequest("Status is required.")
	}
	if !domain.IsValidApplicationStatus(status) {
		return nil, apperror.BadRequest("Invalid status. Allowed values: pending, accepted, rejected.")
	}

	app, err := u.appRepo.GetByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found.")
		}
		return nil, apperror.Internal(err)
	}

	job, err := u.getJob(ctx, app.JobID)
	if err != nil {
		return nil, err
	}
	if !ownsJob(job, userID) {
		security.DefaultLogger().LogForbiddenAccess(ctx, userID, "application:"+app.ID)
		return nil, apperror.Forbidden("You are not allowed to update this application.")
	}

	if app.Status == status {
		return app, nil
	}
	if app.Status != domain.ApplicationStatusPending {
		return nil, apperror.BadRequest("Application already " + app.Status + ".")
	}

	if err := u.appRepo.UpdateStatus(ctx, app.ID, status); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("Application not found.")
		}
		return nil, apperror.Internal(err)
	}
	app.Status = status
	app.UpdatedAt = time.Now().UTC()
	return app, nil
}

func (u *applicationUsecase) ExportApplicants(ctx context.Context, userID, jobID string) (*domain.ApplicantExport, error) {
	job, err := u.ListApplicants(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}

	data, err := exportApplicantsExcel(job.Applications)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.ApplicantExport{
		Filename: fmt.Sprintf("applicants_%s_%s.xlsx", job.ID, time.Now().Format("20060102_150405")),
		Data:     data,
	}, nil
}

var applicantColumns = []string{"NAME", "EMAIL", "PHONE NUMBER", "STATUS", "APPLIED AT", "RESUME", "SKILLS"}

func applicantRow(app domain.Application) []interface{} {
	row := []interface{}{"", "", "", strings.ToUpper(app.Status), app.CreatedAt.Format("2006-01-02 15:04"), "", ""}
	if p := app.Applicant; p != nil {
		row[0] = p.Name
		row[1] = p.Email
		row[2] = p.PhoneNumber
		row[5] = p.Profile.Resume
		row[6] = strings.Join(p.Profile.Skills, ", ")
	}
	return row
}

// exportApplicantsExcel renders one sheet with a styled header row.
func exportApplicantsExcel(apps []domain.Application) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Applicants"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	for i, name := range applicantColumns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, name); err != nil {
			return nil, err
		}
	}

	// Dark blue background with white text
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	endCell, err := excelize.CoordinatesToCellName(len(applicantColumns), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", endCell, headerStyle); err != nil {
		return nil, err
	}

	for rowIdx, app := range apps {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx+2)
		if err != nil {
			return nil, err
		}
		row := applicantRow(app)
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(applicantColumns))
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheetName, "A", lastCol, 24); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}
	return buf.Bytes(), nil
}
