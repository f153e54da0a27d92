package usecase

import (
	"go-jobboard-backend/pkg/apperror"
	"go-jobboard-backend/pkg/validation"
)

// invalidInput turns a validator error into a 400 whose message is the first
// problem and whose details list all of them.
func invalidInput(err error) *apperror.AppError {
	msgs := validation.FormatValidationErrors(err)
	msg := "Invalid input"
	if len(msgs) > 0 {
		msg = msgs[0]
	}
	return apperror.BadRequest(msg).WithDetails(msgs)
}
