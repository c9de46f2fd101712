package organizationerrors

import (
	"net/http"

	"github.com/mujabaralno/qr-absence/internal/shared/apperror"
)

var (
	ErrOrganizationNotFound = apperror.New(
		apperror.CodeNotFound,
		"Organization not found",
		http.StatusNotFound,
	)

	ErrInvalidOrganizationID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid organization ID",
		http.StatusBadRequest,
	)

	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid organization status",
		http.StatusBadRequest,
	)

	ErrNotOwnOrganization = apperror.New(
		apperror.CodeNotFound,
		"Organization not found or you are not allowed to modify it",
		http.StatusNotFound,
	)
)
