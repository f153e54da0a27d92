package domain

import (
	"context"
	"time"
)

// Application status constants
const (
	ApplicationStatusPending  = "pending"
	ApplicationStatusAccepted = "accepted"
	ApplicationStatusRejected = "rejected"
)

func IsValidApplicationStatus(status string) bool {
	switch status {
	case ApplicationStatusPending, ApplicationStatusAccepted, ApplicationStatusRejected:
		return true
	}
	return false
}

// Application is a student's application to a job. Job and Applicant are
// populated only by the queries that join them.
type Application struct {
	ID          string      `json:"_id"`
	JobID       string      `json:"jobId"`
	ApplicantID string      `json:"applicantId"`
	Status      string      `json:"status"` // pending → accepted / rejected
	Job         *Job        `json:"job,omitempty"`
	Applicant   *PublicUser `json:"applicant,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// ApplicantExport is an XLSX document listing the applicants of one job.
// WithApplicantCards returns a copy of apps whose applicants only carry
// their Card. Used wherever the job is shown to someone other than its owner.
func WithApplicantCards(apps []Application) []Application {
	out := make([]Application, len(apps))
	for i, app := range apps {
		if app.Applicant != nil {
			app.Applicant = app.Applicant.Card()
		}
		out[i] = app
	}
	return out
}

type ApplicantExport struct {
	Filename string
	Data     []byte
}

type ApplicationRepository interface {
	Create(ctx context.Context, app *Application) error
	GetByID(ctx context.Context, id string) (*Application, error)
	Exists(ctx context.Context, jobID, applicantID string) (bool, error)
	// ListByJob returns applications newest first with the applicant joined.
	ListByJob(ctx context.Context, jobID string) ([]Application, error)
	// ListByApplicant returns applications newest first with job and company joined.
	ListByApplicant(ctx context.Context, applicantID string) ([]Application, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

type ApplicationUsecase interface {
	// Student operations
	Apply(ctx context.Context, userID, jobID string) (*Job, error)
	ListForApplicant(ctx context.Context, userID string) ([]Application, error)

	// Recruiter operations
	ListApplicants(ctx context.Context, userID, jobID string) (*Job, error)
	UpdateStatus(ctx context.Context, userID, applicationID, status string) (*Application, error)
	ExportApplicants(ctx context.Context, userID, jobID string) (*ApplicantExport, error)
}
