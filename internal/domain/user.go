package domain

import (
	"context"
	"time"
)

// User roles
const (
	RoleStudent   = "student"
	RoleRecruiter = "recruiter"
)

type UserProfile struct {
	Bio                string   `json:"bio"`
	Skills             []string `json:"skills"`
	Resume             string   `json:"resume"`
	ResumeOriginalName string   `json:"resumeOriginalName"`
	ProfilePhoto       string   `json:"profilePhoto"`
	CompanyID          *string  `json:"company,omitempty"` // recruiters only
}

type User struct {
	ID           string      `json:"_id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	PhoneNumber  string      `json:"phoneNumber"`
	PasswordHash string      `json:"-"`
	Role         string      `json:"role"`
	Profile      UserProfile `json:"profile"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// PublicUser is the applicant view shown to recruiters.
type PublicUser struct {
	ID          string      `json:"_id"`
	Name        string      `json:"name"`
	Email       string      `json:"email,omitempty"`
	PhoneNumber string      `json:"phoneNumber,omitempty"`
	Role        string      `json:"role"`
	Profile     UserProfile `json:"profile"`
}

// Card drops contact details and the resume, leaving what anyone may see.
func (u PublicUser) Card() *PublicUser {
	return &PublicUser{
		ID:   u.ID,
		Name: u.Name,
		Role: u.Role,
		Profile: UserProfile{
			Bio:          u.Profile.Bio,
			Skills:       u.Profile.Skills,
			ProfilePhoto: u.Profile.ProfilePhoto,
		},
	}
}

type RegisterInput struct {
	Name        string `json:"name" validate:"required,min=3,max=50,no_emoji"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phoneNumber" validate:"required,phone10"`
	Password    string `json:"password" validate:"required,min=6,max=72"`
	Role        string `json:"role" validate:"required,oneof=student recruiter"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=student recruiter"`
}

// Upload is a file attached to a request, already read into memory.
type Upload struct {
	Filename string
	Data     []byte
}

// UpdateProfileInput holds the optional profile fields; empty means "unchanged".
type UpdateProfileInput struct {
	Name         string  `validate:"omitempty,min=3,max=50,no_emoji"`
	Email        string  `validate:"omitempty,email"`
	PhoneNumber  string  `validate:"omitempty,phone10"`
	Bio          string  `validate:"omitempty,max=500"`
	Skills       string  `validate:"omitempty,max=1000"`
	Resume       *Upload `validate:"-"`
	ProfilePhoto *Upload `validate:"-"`
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

// SessionClaims identify the holder of a session credential.
type SessionClaims struct {
	UserID    string
	Role      string
	TokenID   string
	ExpiresAt time.Time
}

// UserUpdate carries the columns to change; nil fields are left untouched.
type UserUpdate struct {
	Name               *string
	Email              *string
	PhoneNumber        *string
	Bio                *string
	Skills             []string
	Resume             *string
	ResumeOriginalName *string
	ProfilePhoto       *string
}

func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.PhoneNumber == nil && u.Bio == nil &&
		u.Skills == nil && u.Resume == nil && u.ResumeOriginalName == nil && u.ProfilePhoto == nil
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// ExistsByEmailOrPhone reports whether any user other than excludeID uses email or phone.
	ExistsByEmailOrPhone(ctx context.Context, email, phone, excludeID string) (bool, error)
	Update(ctx context.Context, id string, update UserUpdate) (*User, error)
	// SetCompanyIfEmpty links a recruiter to a company unless one is already linked.
	SetCompanyIfEmpty(ctx context.Context, userID, companyID string) error
}

// SessionStore remembers revoked session credentials until they expire.
type SessionStore interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// FileStorage stores uploaded files and returns their public URL.
type FileStorage interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) error
	Authenticate(ctx context.Context, input LoginInput) (*Session, error)
	EndSession(ctx context.Context, token string) error
	GetProfile(ctx context.Context, userID string) (*User, error)
	UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*User, error)
	// ValidateSession verifies a session credential, rejects revoked ones and
	// confirms the subject still exists. The returned role is read from the store.
	ValidateSession(ctx context.Context, token string) (*SessionClaims, error)
}
