package handler

import (
	"errors"
	"net/http"

	"github.com/KittyEmmerich/PrivateInvestmentDecision/backend/model"
)

// statusForError maps workflow error kinds to HTTP statuses. Every
// precondition failure surfaces synchronously to the caller of the
// failing operation.
func statusForError(err error) int {
	switch {
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusForbidden
	case errors.Is(err, model.ErrInvalidParameter):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrDisclosureVerificationFailed):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrUnknownRequest):
		return http.StatusNotFound
	case errors.Is(err, model.ErrProjectNotActive),
		errors.Is(err, model.ErrEvaluationWindowClosed),
		errors.Is(err, model.ErrWindowStillOpen),
		errors.Is(err, model.ErrAlreadyDecided),
		errors.Is(err, model.ErrDuplicateEvaluation),
		errors.Is(err, model.ErrSelfEvaluationForbidden),
		errors.Is(err, model.ErrNoEvaluations):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
