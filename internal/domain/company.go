package domain

import (
	"context"
	"time"
)

type Company struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Location    string    `json:"location"`
	Website     string    `json:"website"`
	LogoURL     string    `json:"logo"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// UpdateCompanyInput holds the optional company fields. At least one must be set.
type UpdateCompanyInput struct {
	Name        *string
	Description *string
	Location    *string
	Website     *string
	Logo        *Upload
}

// CompanyUpdate carries the columns to change; nil fields are left untouched.
type CompanyUpdate struct {
	Name        *string `validate:"omitempty,min=2,max=100"`
	Description *string
	Location    *string
	Website     *string `validate:"omitempty,website"`
	LogoURL     *string `validate:"-"`
}

type CompanyRepository interface {
	Create(ctx context.Context, company *Company) error
	GetByID(ctx context.Context, id string) (*Company, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	ListByOwner(ctx context.Context, userID string) ([]Company, error)
	Update(ctx context.Context, id string, update CompanyUpdate) (*Company, error)
}

type CompanyUsecase interface {
	Register(ctx context.Context, userID, name string) (*Company, error)
	ListByOwner(ctx context.Context, userID string) ([]Company, error)
	GetByID(ctx context.Context, id string) (*Company, error)
	Update(ctx context.Context, userID, id string, input UpdateCompanyInput) (*Company, error)
}
