package user

import (
	"errors"
	"strings"

	usererrors "github.com/mujabaralno/qr-absence/internal/user/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return usererrors.ErrUserNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case "uq_users_email", "uq_users_external_id":
				return usererrors.ErrUserAlreadyExists
			}
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") &&
		(strings.Contains(errMsg, "uq_users_email") || strings.Contains(errMsg, "uq_users_external_id")) {
		return usererrors.ErrUserAlreadyExists
	}

	return err
}
