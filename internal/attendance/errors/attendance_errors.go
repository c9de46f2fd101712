package attendanceerrors

import (
	"net/http"

	"github.com/mujabaralno/qr-absence/internal/shared/apperror"
)

var (
	ErrInvalidStatus = apperror.New(
		apperror.CodeInvalidInput,
		"Attendance status must be one of Hadir, Terlambat, Mangkir",
		http.StatusBadRequest,
	)

	// References into another tenant read as not-found, never forbidden.
	ErrSessionNotFoundOrUnauthorized = apperror.New(
		apperror.CodeNotFound,
		"Session not found or you are not allowed to access it",
		http.StatusNotFound,
	)

	ErrUserNotFoundOrUnauthorized = apperror.New(
		apperror.CodeNotFound,
		"User not found or you are not allowed to access it",
		http.StatusNotFound,
	)

	ErrRecordNotFound = apperror.New(
		apperror.CodeNotFound,
		"Attendance record not found",
		http.StatusNotFound,
	)

	ErrInvalidRecordID = apperror.New(
		apperror.CodeInvalidInput,
		"Invalid attendance record ID",
		http.StatusBadRequest,
	)
)
