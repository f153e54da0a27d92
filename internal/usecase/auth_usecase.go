package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"go-jobboard-backend/internal/domain"
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/auth"
	"go-jobboard-backend/pkg/security"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var (
	// ErrInvalidCredentials is returned for an unknown email and for a wrong
	// password alike. Callers compare with errors.Is to count failed logins.
	ErrInvalidCredentials = apperror.BadRequest("Incorrect email or password.")
	ErrRoleMismatch       = apperror.BadRequest("Account doesn't exist with current role.")
)

const errIdentityTaken = "User already exists with this email or phone number."

type authUsecase struct {
	userRepo domain.UserRepository
	tokens   *auth.TokenManager
	sessions domain.SessionStore
	uploads  uploader
	validate *validator.Validate
}

func NewAuthUsecase(
	userRepo domain.UserRepository,
	tokens *auth.TokenManager,
	sessions domain.SessionStore,
	files domain.FileStorage,
	maxUploadBytes int,
	validate *validator.Validate,
) domain.AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		tokens:   tokens,
		sessions: sessions,
		uploads:  newUploader(files, maxUploadBytes),
		validate: validate,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *authUsecase) Register(ctx context.Context, input domain.RegisterInput) error {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	input.Role = strings.ToLower(strings.TrimSpace(input.Role))

	if err := u.validate.Struct(input); err != nil {
		return invalidInput(err)
	}

	taken, err := u.userRepo.ExistsByEmailOrPhone(ctx, input.Email, input.PhoneNumber, "")
	if err != nil {
		return apperror.Internal(err)
	}
	if taken {
		return apperror.BadRequest(errIdentityTaken)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return apperror.Internal(err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         input.Name,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: hash,
		Role:         input.Role,
		Profile:      domain.UserProfile{Skills: []string{}},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateIdentity) {
			return apperror.BadRequest(errIdentityTaken)
		}
		return apperror.Internal(err)
	}
	return nil
}

func (u *authUsecase) Authenticate(ctx context.Context, input domain.LoginInput) (*domain.Session, error) {
	input.Email = normalizeEmail(input.Email)
	input.Role = strings.ToLower(strings.TrimSpace(input.Role))

	if err := u.validate.Struct(input); err != nil {
		return nil, invalidInput(err)
	}

	user, err := u.userRepo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, apperror.Internal(err)
	}

	if !auth.CheckPassword(user.PasswordHash, input.Password) {
		return nil, ErrInvalidCredentials
	}
	if user.Role != input.Role {
		return nil, ErrRoleMismatch
	}

	token, claims, err := u.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	return &domain.Session{
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      user,
	}, nil
}

// EndSession revokes the token until it would have expired. Tokens that are
// already invalid need no revocation.
func (u *authUsecase) EndSession(ctx context.Context, token string) error {
	claims, err := u.tokens.Parse(token)
	if err != nil {
		return nil
	}

	if err := u.sessions.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time)); err != nil {
		return apperror.Internal(err)
	}
	security.DefaultLogger().LogSessionRevoked(ctx, claims.UserID)
	return nil
}

func (u *authUsecase) ValidateSession(ctx context.Context, token string) (*domain.SessionClaims, error) {
	claims, err := u.tokens.Parse(token)
	if err != nil {
		return nil, apperror.Unauthorized("User not authenticated")
	}

	revoked, err := u.sessions.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if revoked {
		return nil, apperror.Unauthorized("Session has ended, please log in again")
	}

	user, err := u.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Unauthorized("User not authenticated")
		}
		return nil, apperror.Internal(err)
	}

	return &domain.SessionClaims{
		UserID:    user.ID,
		Role:      user.Role,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

func (u *authUsecase) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("User not found.")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

func (u *authUsecase) UpdateProfile(ctx context.Context, userID string, input domain.UpdateProfileInput) (*domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = normalizeEmail(input.Email)
	input.PhoneNumber = strings.TrimSpace(input.PhoneNumber)
	input.Bio = strings.TrimSpace(input.Bio)

	if err := u.validate.Struct(input); err != nil {
		return nil, invalidInput(err)
	}

	current, err := u.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	var update domain.UserUpdate
	if input.Name != "" {
		update.Name = &input.Name
	}
	if input.Bio != "" {
		update.Bio = &input.Bio
	}
	if input.Skills != "" {
		update.Skills = domain.SplitCommaList(input.Skills)
	}

	var newEmail, newPhone string
	if input.Email != "" && input.Email != current.Email {
		newEmail = input.Email
		update.Email = &newEmail
	}
	if input.PhoneNumber != "" && input.PhoneNumber != current.PhoneNumber {
		newPhone = input.PhoneNumber
		update.PhoneNumber = &newPhone
	}
	if newEmail != "" || newPhone != "" {
		taken, err := u.userRepo.ExistsByEmailOrPhone(ctx, newEmail, newPhone, userID)
		if err != nil {
			return nil, apperror.Internal(err)
		}
		if taken {
			return nil, apperror.BadRequest(errIdentityTaken)
		}
	}

	if input.Resume != nil {
		url, err := u.uploads.store(ctx, security.KindResume, folderResumes, userID, input.Resume)
		if err != nil {
			return nil, err
		}
		original := input.Resume.Filename
		update.Resume = &url
		update.ResumeOriginalName = &original
	}
	if input.ProfilePhoto != nil {
		url, err := u.uploads.store(ctx, security.KindImage, folderProfilePhotos, userID, input.ProfilePhoto)
		if err != nil {
			return nil, err
		}
		update.ProfilePhoto = &url
	}

	if update.IsEmpty() {
		return current, nil
	}

	user, err := u.userRepo.Update(ctx, userID, update)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateIdentity):
			return nil, apperror.BadRequest(errIdentityTaken)
		case errors.Is(err, domain.ErrNotFound):
			return nil, apperror.NotFound("User not found.")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}
