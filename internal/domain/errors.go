package domain

import "errors"

// Repository-level errors. Usecases translate these into apperror values.
var (
	ErrNotFound          = errors.New("resource not found")
	ErrDuplicateIdentity = errors.New("user with this email or phone number already exists")
	ErrCompanyExists     = errors.New("company already registered")
	ErrAlreadyApplied    = errors.New("application already exists for this job")
)
