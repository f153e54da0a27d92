package domain

import (
	"context"
	"strings"
	"time"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Job struct {
	ID              string        `json:"_id"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Requirements    []string      `json:"requirements"`
	Salary          float64       `json:"salary"`
	Location        string        `json:"location"`
	JobType         string        `json:"jobType"`
	ExperienceLevel int           `json:"experienceLevel"`
	Positions       int           `json:"position"`
	CompanyID       string        `json:"companyId"`
	CreatedBy       string        `json:"created_by"`
	Company         *Company      `json:"company,omitempty"`
	Applications    []Application `json:"applications,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

type CreateJobInput struct {
	Title           string  `json:"title" validate:"required,max=200"`
	Description     string  `json:"description" validate:"required"`
	Requirements    string  `json:"requirements" validate:"required"`
	Salary          float64 `json:"salary" validate:"required,gt=0"`
	Location        string  `json:"location" validate:"required"`
	JobType         string  `json:"jobType" validate:"required"`
	ExperienceLevel *int    `json:"experience" validate:"required,min=0,max=5"`
	Positions       int     `json:"position" validate:"required,min=1"`
	CompanyID       string  `json:"companyId" validate:"required"`
}

// Pagination describes one page of a search result.
type Pagination struct {
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
	TotalJobs   int  `json:"totalJobs"`
	JobsPerPage int  `json:"jobsPerPage"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// NormalizePage clamps page and limit to their accepted ranges.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return page, limit
}

func NewPagination(page, limit, total int) Pagination {
	page, limit = NormalizePage(page, limit)
	totalPages := (total + limit - 1) / limit
	return Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalJobs:   total,
		JobsPerPage: limit,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}

// SplitCommaList turns "go, sql,,docker" into ["go", "sql", "docker"].
// Used for job requirements and profile skills.
func SplitCommaList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

type JobRepository interface {
	Create(ctx context.Context, job *Job) error
	// GetByID returns the job with its company joined.
	GetByID(ctx context.Context, id string) (*Job, error)
	Search(ctx context.Context, keyword string, limit, offset int) ([]Job, int, error)
	ListByCreator(ctx context.Context, userID string) ([]Job, error)
}

type JobUsecase interface {
	Create(ctx context.Context, userID string, input CreateJobInput) (*Job, error)
	Search(ctx context.Context, keyword string, page, limit int) ([]Job, Pagination, error)
	GetByID(ctx context.Context, id string) (*Job, error)
	ListByCreator(ctx context.Context, userID string) ([]Job, error)
}
