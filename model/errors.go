package model

import "errors"

// Workflow error kinds. Every precondition violation aborts the whole
// operation with exactly one of these; callers match with errors.Is.
var (
	ErrUnauthorized                 = errors.New("caller lacks required role")
	ErrInvalidParameter             = errors.New("parameter out of range")
	ErrProjectNotActive             = errors.New("project is not active")
	ErrEvaluationWindowClosed       = errors.New("evaluation window has closed")
	ErrWindowStillOpen              = errors.New("evaluation window is still open")
	ErrAlreadyDecided               = errors.New("project already decided")
	ErrDuplicateEvaluation          = errors.New("account has already evaluated this project")
	ErrSelfEvaluationForbidden      = errors.New("proposer cannot evaluate own project")
	ErrNoEvaluations                = errors.New("project has no evaluations")
	ErrUnknownRequest               = errors.New("unknown disclosure request")
	ErrDisclosureVerificationFailed = errors.New("disclosure verification failed")
)
