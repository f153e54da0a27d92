package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRegisterCompany(t *testing.T) {
	ctx := context.Background()

	t.Run("creates and links the company to the recruiter", func(t *testing.T) {
		companies, users := new(MockCompanyRepo), new(MockUserRepo)
		uc := usecase.NewCompanyUsecase(companies, users, nil, testMaxUpload, validation.New())

		companies.On("ExistsByName", ctx, "Acme").Return(false, nil)
		companies.On("Create", ctx, mock.AnythingOfType("*domain.Company")).Return(nil)
		users.On("SetCompanyIfEmpty", ctx, "recruiter-1", mock.AnythingOfType("string")).Return(nil)

		company, err := uc.Register(ctx, "recruiter-1", "  Acme ")
		require.NoError(t, err)
		assert.Equal(t, "Acme", company.Name)
		assert.Equal(t, "recruiter-1", company.UserID)
		users.AssertExpectations(t)
	})

	t.Run("profile link failure does not fail registration", func(t *testing.T) {
		companies, users := new(MockCompanyRepo), new(MockUserRepo)
		uc := usecase.NewCompanyUsecase(companies, users, nil, testMaxUpload, validation.New())

		companies.On("ExistsByName", ctx, "Acme").Return(false, nil)
		companies.On("Create", ctx, mock.Anything).Return(nil)
		users.On("SetCompanyIfEmpty", ctx, "recruiter-1", mock.Anything).Return(errors.New("db down"))

		_, err := uc.Register(ctx, "recruiter-1", "Acme")
		assert.NoError(t, err)
	})

	t.Run("rejects duplicates", func(t *testing.T) {
		companies, users := new(MockCompanyRepo), new(MockUserRepo)
		uc := usecase.NewCompanyUsecase(companies, users, nil, testMaxUpload, validation.New())
		companies.On("ExistsByName", ctx, "Acme").Return(true, nil)

		_, err := uc.Register(ctx, "recruiter-1", "Acme")
		appErr := requireAppError(t, err, http.StatusBadRequest)
		assert.Equal(t, "You can't register same company.", appErr.Message)
	})

	t.Run("unique constraint is authoritative", func(t *testing.T) {
		companies, users := new(MockCompanyRepo), new(MockUserRepo)
		uc := usecase.NewCompanyUsecase(companies, users, nil, testMaxUpload, validation.New())
		companies.On("ExistsByName", ctx, "Acme").Return(false, nil)
		companies.On("Create", ctx, mock.Anything).Return(domain.ErrCompanyExists)

		_, err := uc.Register(ctx, "recruiter-1", "Acme")
		requireAppError(t, err, http.StatusBadRequest)
		users.AssertNotCalled(t, "SetCompanyIfEmpty", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("name length bounds", func(t *testing.T) {
		uc := usecase.NewCompanyUsecase(new(MockCompanyRepo), new(MockUserRepo), nil, testMaxUpload, validation.New())
		for _, name := range []string{"", " ", "A", strings.Repeat("x", 101)} {
			_, err := uc.Register(ctx, "recruiter-1", name)
			requireAppError(t, err, http.StatusBadRequest)
		}
	})
}

func TestUpdateCompany(t *testing.T) {
	ctx := context.Background()
	owned := &domain.Company{ID: "company-1", Name: "Acme", UserID: "recruiter-1"}

	t.Run("requires at least one field", func(t *testing.T) {
		uc := usecase.NewCompanyUsecase(new(MockCompanyRepo), new(MockUserRepo), nil, testMaxUpload, validation.New())
		_, err := uc.Update(ctx, "recruiter-1", "company-1", domain.UpdateCompanyInput{Name: strPtr("  ")})
		requireAppError(t, err, http.StatusBadRequest)
	})

	t.Run("validates the website", func(t *testing.T) {
		uc := usecase.NewCompanyUsecase(new(MockCompanyRepo), new(MockUserRepo), nil, testMaxUpload, validation.New())
		_, err := uc.Update(ctx, "recruiter-1", "company-1", domain.UpdateCompanyInput{Website: strPtr("not a url")})
		appErr := requireAppError(t, err, http.StatusBadRequest)
		assert.Equal(t, "website must be a valid URL", appErr.Message)
	})

	t.Run("validates the name length", func(t *testing.T) {
		uc := usecase.NewCompanyUsecase(new(MockCompanyRepo), new(MockUserRepo), nil, testMaxUpload, validation.New())
		_, err := uc.Update(ctx, "recruiter-1", "company-1", domain.UpdateCompanyInput{Name: strPtr("A")})
		appErr := requireAppError(t, err, http.StatusBadRequest)
		assert.Equal(t, "name must be at least 2 characters", appErr.Message)
	})

	t.Run("only the owner may update", func(t *testing.T) {
		companies := new(MockCompanyRepo)
		uc := usecase.NewCompanyUsecase(companies, new(MockUserRepo), nil, testMaxUpload, validation.New())
		companies.On("GetByID", ctx, "company-1").Return(owned, nil)

		_, err := uc.Update(ctx, "recruiter-2", "company-1", domain.UpdateCompanyInput{Location: strPtr("Pune")})
		requireAppError(t, err, http.StatusForbidden)
		companies.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown company", func(t *testing.T) {
		companies := new(MockCompanyRepo)
		uc := usecase.NewCompanyUsecase(companies, new(MockUserRepo), nil, testMaxUpload, validation.New())
		companies.On("GetByID", ctx, "missing").Return(nil, domain.ErrNotFound)

		_, err := uc.Update(ctx, "recruiter-1", "missing", domain.UpdateCompanyInput{Location: strPtr("Pune")})
		requireAppError(t, err, http.StatusNotFound)
	})

	t.Run("applies trimmed fields", func(t *testing.T) {
		companies := new(MockCompanyRepo)
		uc := usecase.NewCompanyUsecase(companies, new(MockUserRepo), nil, testMaxUpload, validation.New())
		companies.On("GetByID", ctx, "company-1").Return(owned, nil)
		companies.On("Update", ctx, "company-1", domain.CompanyUpdate{
			Website:  strPtr("https://acme.example.com"),
			Location: strPtr("Pune"),
		}).Return(owned, nil)

		_, err := uc.Update(ctx, "recruiter-1", "company-1", domain.UpdateCompanyInput{
			Website:  strPtr(" https://acme.example.com "),
			Location: strPtr("Pune"),
		})
		require.NoError(t, err)
		companies.AssertExpectations(t)
	})

	t.Run("rejects a logo that is not an image", func(t *testing.T) {
		companies, store := new(MockCompanyRepo), new(MockStorage)
		uc := usecase.NewCompanyUsecase(companies, new(MockUserRepo), store, testMaxUpload, validation.New())
		companies.On("GetByID", ctx, "company-1").Return(owned, nil)

		_, err := uc.Update(ctx, "recruiter-1", "company-1", domain.UpdateCompanyInput{
			Logo: &domain.Upload{Filename: "logo.pdf", Data: []byte("%PDF-1.4")},
		})
		requireAppError(t, err, http.StatusBadRequest)
		store.AssertNotCalled(t, "Upload", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejects an oversized logo", func(t *testing.T) {
		companies, store := new(MockCompanyRepo), new(MockStorage)
		uc := usecase.NewCompanyUsecase(companies, new(MockUserRepo), store, 16, validation.New())
		companies.On("GetByID", ctx, "company-1").Return(owned, nil)

		_, err := uc.Update(ctx, "recruiter-1", "company-1", domain.UpdateCompanyInput{
			Logo: &domain.Upload{Filename: "logo.png", Data: make([]byte, 17)},
		})
		requireAppError(t, err, http.StatusBadRequest)
	})
}
