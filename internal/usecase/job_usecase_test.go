package usecase_test

import (
	"context"
	"net/http"
	"testing"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/internal/usecase"
	"go-jobboard-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func validJobInput() domain.CreateJobInput {
	return domain.CreateJobInput{
		Title:           "  Backend Engineer ",
		Description:     "Build APIs",
		Requirements:    "Go, PostgreSQL , ,Docker",
		Salary:          12,
		Location:        "Bangalore",
		JobType:         "Full Time",
		ExperienceLevel: intPtr(2),
		Positions:       3,
		CompanyID:       "company-1",
	}
}

type jobFixture struct {
	jobs      *MockJobRepo
	companies *MockCompanyRepo
	apps      *MockApplicationRepo
	uc        domain.JobUsecase
}

func newJobFixture() jobFixture {
	f := jobFixture{jobs: new(MockJobRepo), companies: new(MockCompanyRepo), apps: new(MockApplicationRepo)}
	f.uc = usecase.NewJobUsecase(f.jobs, f.companies, f.apps, validation.New())
	return f
}

func TestCreateJob(t *testing.T) {
	ctx := context.Background()
	company := &domain.Company{ID: "company-1", Name: "Acme", UserID: "recruiter-1"}

	t.Run("splits requirements and records the creator", func(t *testing.T) {
		f := newJobFixture()
		f.companies.On("GetByID", ctx, "company-1").Return(company, nil)
		f.jobs.On("Create", ctx, mock.AnythingOfType("*domain.Job")).Return(nil)

		job, err := f.uc.Create(ctx, "recruiter-1", validJobInput())
		require.NoError(t, err)

		assert.Equal(t, []string{"Go", "PostgreSQL", "Docker"}, job.Requirements)
		assert.Equal(t, "Backend Engineer", job.Title)
		assert.Equal(t, "recruiter-1", job.CreatedBy)
		assert.Equal(t, 2, job.ExperienceLevel)
		assert.Equal(t, company, job.Company)
	})

	t.Run("rejects a non-positive salary", func(t *testing.T) {
		for _, salary := range []float64{0, -5} {
			f := newJobFixture()
			in := validJobInput()
			in.Salary = salary

			_, err := f.uc.Create(ctx, "recruiter-1", in)
			requireAppError(t, err, http.StatusBadRequest)
			f.jobs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		}
	})

	t.Run("rejects zero positions and missing experience", func(t *testing.T) {
		f := newJobFixture()
		in := validJobInput()
		in.Positions = 0
		in.ExperienceLevel = nil

		_, err := f.uc.Create(ctx, "recruiter-1", in)
		appErr := requireAppError(t, err, http.StatusBadRequest)
		assert.Len(t, appErr.Details, 2)
	})

	t.Run("accepts zero years of experience", func(t *testing.T) {
		f := newJobFixture()
		f.companies.On("GetByID", ctx, "company-1").Return(company, nil)
		f.jobs.On("Create", ctx, mock.Anything).Return(nil)
		in := validJobInput()
		in.ExperienceLevel = intPtr(0)

		job, err := f.uc.Create(ctx, "recruiter-1", in)
		require.NoError(t, err)
		assert.Equal(t, 0, job.ExperienceLevel)
	})

	t.Run("rejects requirements with only separators", func(t *testing.T) {
		f := newJobFixture()
		in := validJobInput()
		in.Requirements = " , ,"

		_, err := f.uc.Create(ctx, "recruiter-1", in)
		requireAppError(t, err, http.StatusBadRequest)
	})

	t.Run("unknown company", func(t *testing.T) {
		f := newJobFixture()
		f.companies.On("GetByID", ctx, "company-1").Return(nil, domain.ErrNotFound)

		_, err := f.uc.Create(ctx, "recruiter-1", validJobInput())
		requireAppError(t, err, http.StatusNotFound)
	})

	t.Run("someone else's company", func(t *testing.T) {
		f := newJobFixture()
		f.companies.On("GetByID", ctx, "company-1").Return(company, nil)

		_, err := f.uc.Create(ctx, "recruiter-2", validJobInput())
		requireAppError(t, err, http.StatusForbidden)
		f.jobs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestSearchJobs(t *testing.T) {
	ctx := context.Background()

	t.Run("third page of 25 results", func(t *testing.T) {
		f := newJobFixture()
		page := make([]domain.Job, 5)
		f.jobs.On("Search", ctx, "engineer", 10, 20).Return(page, 25, nil)

		jobs, p, err := f.uc.Search(ctx, " engineer ", 3, 10)
		require.NoError(t, err)

		assert.Len(t, jobs, 5)
		assert.Equal(t, domain.Pagination{
			CurrentPage: 3,
			TotalPages:  3,
			TotalJobs:   25,
			JobsPerPage: 10,
			HasNextPage: false,
			HasPrevPage: true,
		}, p)
	})

	t.Run("empty keyword and bad paging fall back to defaults", func(t *testing.T) {
		f := newJobFixture()
		f.jobs.On("Search", ctx, "", 10, 0).Return(make([]domain.Job, 10), 25, nil)

		_, p, err := f.uc.Search(ctx, "", 0, -1)
		require.NoError(t, err)
		assert.Equal(t, 1, p.CurrentPage)
		assert.True(t, p.HasNextPage)
		assert.False(t, p.HasPrevPage)
	})

	t.Run("limit is capped", func(t *testing.T) {
		f := newJobFixture()
		f.jobs.On("Search", ctx, "", domain.MaxPageSize, 0).Return([]domain.Job{}, 0, nil)

		_, p, err := f.uc.Search(ctx, "", 1, 1000)
		require.NoError(t, err)
		assert.Equal(t, domain.MaxPageSize, p.JobsPerPage)
	})

	t.Run("no match is an empty success", func(t *testing.T) {
		f := newJobFixture()
		f.jobs.On("Search", ctx, "cobol", 10, 0).Return(nil, 0, nil)

		jobs, p, err := f.uc.Search(ctx, "cobol", 1, 10)
		require.NoError(t, err)
		assert.NotNil(t, jobs)
		assert.Empty(t, jobs)
		assert.Equal(t, 0, p.TotalPages)
	})
}

func TestGetJobAttachesApplications(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture()
	f.jobs.On("GetByID", ctx, "job-1").Return(&domain.Job{ID: "job-1"}, nil)
	f.apps.On("ListByJob", ctx, "job-1").Return([]domain.Application{{ID: "app-2"}, {ID: "app-1"}}, nil)

	job, err := f.uc.GetByID(ctx, "job-1")
	require.NoError(t, err)
	assert.Len(t, job.Applications, 2)

	f.jobs.On("GetByID", ctx, "missing").Return(nil, domain.ErrNotFound)
	_, err = f.uc.GetByID(ctx, "missing")
	requireAppError(t, err, http.StatusNotFound)
}

func TestGetJobHidesApplicantContact(t *testing.T) {
	ctx := context.Background()
	f := newJobFixture()
	f.jobs.On("GetByID", ctx, "job-1").Return(&domain.Job{ID: "job-1"}, nil)
	f.apps.On("ListByJob", ctx, "job-1").Return([]domain.Application{applicationWithContact()}, nil)

	job, err := f.uc.GetByID(ctx, "job-1")
	require.NoError(t, err)
	require.Len(t, job.Applications, 1)

	app := job.Applications[0]
	assert.Equal(t, "student-1", app.ApplicantID)
	assert.Equal(t, domain.ApplicationStatusPending, app.Status)
	assert.Empty(t, app.Applicant.Email)
	assert.Empty(t, app.Applicant.PhoneNumber)
	assert.Empty(t, app.Applicant.Profile.Resume)
	assertNoContact(t, job)
}
