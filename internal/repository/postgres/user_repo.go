package postgres

import (
	"context"
	"fmt"

	"go-jobboard-backend/internal/domain"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, name, email, phone_number, password_hash, role, bio, skills,
	resume_url, resume_original_name, profile_photo_url, company_id, created_at, updated_at`

type userRepo struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepo{db: db}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	var skills []string
	err := row.Scan(
		&u.ID, &u.Name, &u.Email, &u.PhoneNumber, &u.PasswordHash, &u.Role,
		&u.Profile.Bio, &skills, &u.Profile.Resume, &u.Profile.ResumeOriginalName,
		&u.Profile.ProfilePhoto, &u.Profile.CompanyID, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if skills == nil {
		skills = []string{}
	}
	u.Profile.Skills = skills
	return &u, nil
}

// skillsOrEmpty keeps the NOT NULL text[] column from receiving a nil slice.
func skillsOrEmpty(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	return skills
}

func (r *userRepo) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (id, name, email, phone_number, password_hash, role, skills, created_at, updated_at)
              VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		user.ID, user.Name, user.Email, user.PhoneNumber, user.PasswordHash, user.Role,
		skillsOrEmpty(user.Profile.Skills), user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return domain.ErrDuplicateIdentity
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

func (r *userRepo) ExistsByEmailOrPhone(ctx context.Context, email, phone, excludeID string) (bool, error) {
	query := `SELECT EXISTS(
		SELECT 1 FROM users WHERE (email = $1 OR phone_number = $2) AND id::text <> $3
	)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, email, phone, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check user identity: %w", err)
	}
	return exists, nil
}

func (r *userRepo) Update(ctx context.Context, id string, update domain.UserUpdate) (*domain.User, error) {
	set := map[string]interface{}{}
	if update.Name != nil {
		set["name"] = *update.Name
	}
	if update.Email != nil {
		set["email"] = *update.Email
	}
	if update.PhoneNumber != nil {
		set["phone_number"] = *update.PhoneNumber
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.Skills != nil {
		set["skills"] = update.Skills
	}
	if update.Resume != nil {
		set["resume_url"] = *update.Resume
	}
	if update.ResumeOriginalName != nil {
		set["resume_original_name"] = *update.ResumeOriginalName
	}
	if update.ProfilePhoto != nil {
		set["profile_photo_url"] = *update.ProfilePhoto
	}
	if len(set) == 0 {
		return r.GetByID(ctx, id)
	}

	query, args, err := psql.Update("users").
		SetMap(set).
		Set("updated_at", sq.Expr("NOW()")).
		Where(sq.Eq{"id": id}).
		Suffix("RETURNING " + userColumns).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build user update: %w", err)
	}

	user, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return nil, domain.ErrDuplicateIdentity
		}
		return nil, notFound(err)
	}
	return user, nil
}

func (r *userRepo) SetCompanyIfEmpty(ctx context.Context, userID, companyID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET company_id = $2, updated_at = NOW() WHERE id = $1 AND company_id IS NULL`,
		userID, companyID,
	)
	if err != nil {
		return fmt.Errorf("link user company: %w", err)
	}
	return nil
}
