package postgres

import (
	"context"
	"fmt"

	"go-jobboard-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationColumns = `a.id, a.job_id, a.applicant_id, a.status, a.created_at, a.updated_at`

type applicationRepo struct {
	db *pgxpool.Pool
}

func NewApplicationRepository(db *pgxpool.Pool) domain.ApplicationRepository {
	return &applicationRepo{db: db}
}

func (r *applicationRepo) Create(ctx context.Context, app *domain.Application) error {
	query := `INSERT INTO applications (id, job_id, applicant_id, status, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.Exec(ctx, query, app.ID, app.JobID, app.ApplicantID, app.Status, app.CreatedAt, app.UpdatedAt)
	if err != nil {
		switch pgCode(err) {
		case pgUniqueViolation:
			return domain.ErrAlreadyApplied
		case pgForeignKeyViolation:
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (r *applicationRepo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	var a domain.Application
	err := r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications a WHERE a.id = $1`, id).
		Scan(&a.ID, &a.JobID, &a.ApplicantID, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *applicationRepo) Exists(ctx context.Context, jobID, applicantID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM applications WHERE job_id = $1 AND applicant_id = $2)`,
		jobID, applicantID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check application: %w", err)
	}
	return exists, nil
}

func (r *applicationRepo) ListByJob(ctx context.Context, jobID string) ([]domain.Application, error) {
	query := `
		SELECT ` + applicationColumns + `,
			u.id, u.name, u.email, u.phone_number, u.role, u.bio, u.skills,
			u.resume_url, u.resume_original_name, u.profile_photo_url, u.company_id
		FROM applications a
		JOIN users u ON u.id = a.applicant_id
		WHERE a.job_id = $1
		ORDER BY a.created_at DESC`

	rows, err := r.db.Query(ctx, query, jobID)
	if err != nil {
		return nil, fmt.Errorf("list applicants: %w", err)
	}
	defer rows.Close()

	apps := []domain.Application{}
	for rows.Next() {
		a, err := scanApplicant(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

// scanApplicant reads an application joined with its applicant.
func scanApplicant(row pgx.Row) (*domain.Application, error) {
	var a domain.Application
	var u domain.PublicUser
	var skills []string
	err := row.Scan(
		&a.ID, &a.JobID, &a.ApplicantID, &a.Status, &a.CreatedAt, &a.UpdatedAt,
		&u.ID, &u.Name, &u.Email, &u.PhoneNumber, &u.Role, &u.Profile.Bio, &skills,
		&u.Profile.Resume, &u.Profile.ResumeOriginalName, &u.Profile.ProfilePhoto, &u.Profile.CompanyID,
	)
	if err != nil {
		return nil, err
	}
	if skills == nil {
		skills = []string{}
	}
	u.Profile.Skills = skills
	a.Applicant = &u
	return &a, nil
}

func (r *applicationRepo) ListByApplicant(ctx context.Context, applicantID string) ([]domain.Application, error) {
	query, args, err := psql.Select(append([]string{applicationColumns}, jobWithCompanyColumns...)...).
		From("applications a").
		Join("jobs j ON j.id = a.job_id").
		Join("companies c ON c.id = j.company_id").
		Where("a.applicant_id = ?", applicantID).
		OrderBy("a.created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build applied jobs query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list applied jobs: %w", err)
	}
	defer rows.Close()

	apps := []domain.Application{}
	for rows.Next() {
		a, err := scanApplicationWithJob(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *a)
	}
	return apps, rows.Err()
}

func scanApplicationWithJob(row pgx.Row) (*domain.Application, error) {
	var a domain.Application
	var j domain.Job
	var c domain.Company
	var requirements []string
	dest := append([]interface{}{&a.ID, &a.JobID, &a.ApplicantID, &a.Status, &a.CreatedAt, &a.UpdatedAt},
		jobWithCompanyDest(&j, &c, &requirements)...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	attachCompany(&j, &c, requirements)
	a.Job = &j
	return &a, nil
}

func (r *applicationRepo) UpdateStatus(ctx context.Context, id, status string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE applications SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return notFound(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
