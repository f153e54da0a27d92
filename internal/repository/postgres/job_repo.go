package postgres

import (
	"context"
	"fmt"
	"strings"

	"go-jobboard-backend/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var jobWithCompanyColumns = []string{
	"j.id", "j.title", "j.description", "j.requirements", "j.salary", "j.location", "j.job_type",
	"j.experience_level", "j.positions", "j.company_id", "j.created_by", "j.created_at", "j.updated_at",
	"c.id", "c.name", "c.description", "c.location", "c.website", "c.logo_url", "c.user_id",
	"c.created_at", "c.updated_at",
}

type jobRepo struct {
	db *pgxpool.Pool
}

func NewJobRepository(db *pgxpool.Pool) domain.JobRepository {
	return &jobRepo{db: db}
}

// jobWithCompanyDest returns scan targets matching jobWithCompanyColumns.
func jobWithCompanyDest(j *domain.Job, c *domain.Company, requirements *[]string) []interface{} {
	return []interface{}{
		&j.ID, &j.Title, &j.Description, requirements, &j.Salary, &j.Location, &j.JobType,
		&j.ExperienceLevel, &j.Positions, &j.CompanyID, &j.CreatedBy, &j.CreatedAt, &j.UpdatedAt,
		&c.ID, &c.Name, &c.Description, &c.Location, &c.Website, &c.LogoURL, &c.UserID,
		&c.CreatedAt, &c.UpdatedAt,
	}
}

func attachCompany(j *domain.Job, c *domain.Company, requirements []string) {
	if requirements == nil {
		requirements = []string{}
	}
	j.Requirements = requirements
	j.Company = c
}

func scanJobWithCompany(row pgx.Row) (*domain.Job, error) {
	var j domain.Job
	var c domain.Company
	var requirements []string
	if err := row.Scan(jobWithCompanyDest(&j, &c, &requirements)...); err != nil {
		return nil, err
	}
	attachCompany(&j, &c, requirements)
	return &j, nil
}

func (r *jobRepo) selectJobs() sq.SelectBuilder {
	return psql.Select(jobWithCompanyColumns...).
		From("jobs j").
		Join("companies c ON c.id = j.company_id")
}

func (r *jobRepo) collect(ctx context.Context, builder sq.SelectBuilder) ([]domain.Job, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build job query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query jobs: %w", err)
	}
	defer rows.Close()

	jobs := []domain.Job{}
	for rows.Next() {
		job, err := scanJobWithCompany(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	return jobs, rows.Err()
}

func (r *jobRepo) Create(ctx context.Context, job *domain.Job) error {
	query := `INSERT INTO jobs (id, title, description, requirements, salary, location, job_type,
                  experience_level, positions, company_id, created_by, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.db.Exec(ctx, query,
		job.ID, job.Title, job.Description, job.Requirements, job.Salary, job.Location, job.JobType,
		job.ExperienceLevel, job.Positions, job.CompanyID, job.CreatedBy, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		if pgCode(err) == pgForeignKeyViolation {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert job: %w", err)
	}
	return nil
}

func (r *jobRepo) GetByID(ctx context.Context, id string) (*domain.Job, error) {
	query, args, err := r.selectJobs().Where(sq.Eq{"j.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build job query: %w", err)
	}
	job, err := scanJobWithCompany(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, notFound(err)
	}
	return job, nil
}

// EscapeLike escapes LIKE wildcards so the keyword matches literally.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func keywordFilter(keyword string) sq.Sqlizer {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil
	}
	pattern := "%" + EscapeLike(keyword) + "%"
	return sq.Or{
		sq.ILike{"j.title": pattern},
		sq.ILike{"j.description": pattern},
	}
}

func (r *jobRepo) Search(ctx context.Context, keyword string, limit, offset int) ([]domain.Job, int, error) {
	countQ := psql.Select("COUNT(*)").From("jobs j")
	listQ := r.selectJobs()
	if filter := keywordFilter(keyword); filter != nil {
		countQ = countQ.Where(filter)
		listQ = listQ.Where(filter)
	}

	query, args, err := countQ.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("build job count: %w", err)
	}
	var total int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	jobs, err := r.collect(ctx, listQ.
		OrderBy("j.created_at DESC", "j.id").
		Limit(uint64(limit)).
		Offset(uint64(offset)))
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *jobRepo) ListByCreator(ctx context.Context, userID string) ([]domain.Job, error) {
	return r.collect(ctx, r.selectJobs().
		Where(sq.Eq{"j.created_by": userID}).
		OrderBy("j.created_at DESC"))
}
