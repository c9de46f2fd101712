package orgrequesterrors

import (
	"net/http"

	"github.com/mujabaralno/qr-absence/internal/shared/apperror"
)

var (
	ErrRequestNotFound = apperror.New(
		apperror.CodeNotFound,
		"Organization request not found",
		http.StatusNotFound,
	)

	ErrRequestAlreadyExists = apperror.New(
		apperror.CodeConflict,
		"An organization request with this email already exists",
		http.StatusConflict,
	)

	ErrRequestAlreadyFinalized = apperror.New(
		apperror.CodeInvalidState,
		"Organization request has already been finalized",
		http.StatusConflict,
	)

	ErrInvalidRequestID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid organization request ID",
		http.StatusBadRequest,
	)
)
