package sessionerrors

import (
	"net/http"

	"github.com/mujabaralno/qr-absence/internal/shared/apperror"
)

var (
	// A cross-tenant or non-creator access reads as not-found so callers
	// cannot learn whether another tenant's session exists.
	ErrSessionNotFoundOrUnauthorized = apperror.New(
		apperror.CodeNotFound,
		"Session not found or you are not allowed to access it",
		http.StatusNotFound,
	)

	ErrSessionNotFound = apperror.New(
		apperror.CodeNotFound,
		"Session not found",
		http.StatusNotFound,
	)

	ErrInvalidSessionID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid session ID",
		http.StatusBadRequest,
	)

	ErrInvalidTimeRange = apperror.New(
		apperror.CodeInvalidInput,
		"Session end time must not be before start time",
		http.StatusBadRequest,
	)

	ErrCreatorNotInOrganization = apperror.New(
		apperror.CodeNotFound,
		"Session not found or you are not allowed to access it",
		http.StatusNotFound,
	)

	ErrInvalidCheckInToken = apperror.New(
		apperror.CodeInvalidInput,
		"Check-in token is invalid",
		http.StatusBadRequest,
	)
)
