package postgres

import (
	"context"
	"fmt"

	"go-jobboard-backend/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const companyColumns = `id, name, description, location, website, logo_url, user_id, created_at, updated_at`

type companyRepo struct {
	db *pgxpool.Pool
}

func NewCompanyRepository(db *pgxpool.Pool) domain.CompanyRepository {
	return &companyRepo{db: db}
}

func scanCompany(row pgx.Row) (*domain.Company, error) {
	var c domain.Company
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Location, &c.Website, &c.LogoURL, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *companyRepo) Create(ctx context.Context, company *domain.Company) error {
	query := `INSERT INTO companies (id, name, description, location, website, logo_url, user_id, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		company.ID, company.Name, company.Description, company.Location, company.Website,
		company.LogoURL, company.UserID, company.CreatedAt, company.UpdatedAt,
	)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return domain.ErrCompanyExists
		}
		return fmt.Errorf("insert company: %w", err)
	}
	return nil
}

func (r *companyRepo) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	company, err := scanCompany(r.db.QueryRow(ctx, `SELECT `+companyColumns+` FROM companies WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return company, nil
}

func (r *companyRepo) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM companies WHERE name = $1)`, name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check company name: %w", err)
	}
	return exists, nil
}

func (r *companyRepo) ListByOwner(ctx context.Context, userID string) ([]domain.Company, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list companies: %w", err)
	}
	defer rows.Close()

	companies := []domain.Company{}
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, err
		}
		companies = append(companies, *c)
	}
	return companies, rows.Err()
}

func (r *companyRepo) Update(ctx context.Context, id string, update domain.CompanyUpdate) (*domain.Company, error) {
	set := map[string]interface{}{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Location != nil {
		set["location"] = *update.Location
	}
	if update.Website != nil {
		set["website"] = *update.Website
	}
	if update.LogoURL != nil {
		set["logo_url"] = *update.LogoURL
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	query, args, err := psql.Update("companies").
		SetMap(set).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + companyColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build company update: %w", err)
	}

	company, err := scanCompany(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return nil, domain.ErrCompanyExists
		}
		return nil, notFound(err)
	}
	return company, nil
}
