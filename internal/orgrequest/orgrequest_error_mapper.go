package orgrequest

import (
	"errors"
	"strings"

	orgrequesterrors "github.com/mujabaralno/qr-absence/internal/orgrequest/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func mapRepositoryError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return orgrequesterrors.ErrRequestNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" && pgErr.ConstraintName == "uq_organization_requests_email" {
			return orgrequesterrors.ErrRequestAlreadyExists
		}
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "duplicate key value") &&
		strings.Contains(errMsg, "uq_organization_requests_email") {
		return orgrequesterrors.ErrRequestAlreadyExists
	}

	return err
}
