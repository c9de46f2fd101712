package attendance

import (
	"context"
	"database/sql"

	"github.com/mujabaralno/qr-absence/internal/shared/connection"
	"github.com/mujabaralno/qr-absence/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// upsertRecordQuery writes a check-in in one statement. The unique index on
// (user_id, session_id) turns a repeat write into an update of the existing
// row, so retries and corrections land on the same record and the version
// counter tracks every write.
const upsertRecordQuery = `
INSERT INTO attendance_records
	(organization_id, user_id, session_id, status, latitude, longitude, timestamp, version, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, 1, NOW(), NOW())
ON CONFLICT (user_id, session_id) DO UPDATE SET
	status     = EXCLUDED.status,
	latitude   = EXCLUDED.latitude,
	longitude  = EXCLUDED.longitude,
	timestamp  = EXCLUDED.timestamp,
	version    = attendance_records.version + 1,
	updated_at = NOW()
RETURNING id, version, created_at, updated_at
`

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Upsert(ctx context.Context, record *AttendanceRecord) error
	FindByID(ctx context.Context, organizationID, id uuid.UUID) (*AttendanceRecord, error)
	FindAllBySession(ctx context.Context, organizationID, sessionID uuid.UUID) ([]AttendanceRecord, error)
	FindAllByOrganization(ctx context.Context, organizationID uuid.UUID, page, limit int) ([]AttendanceRecord, int64, error)
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds statements to the caller's transaction so the upsert lands
// or rolls back together with its outbox event.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: connection.BindTx(r.db, tx)}
}

// Upsert writes the record and reads back the row identity and version the
// database settled on.
func (r *repository) Upsert(ctx context.Context, record *AttendanceRecord) error {
	row := struct {
		ID        uuid.UUID
		Version   int
		CreatedAt sql.NullTime
		UpdatedAt sql.NullTime
	}{}

	err := r.db.WithContext(ctx).Raw(upsertRecordQuery,
		record.OrganizationID,
		record.UserID,
		record.SessionID,
		record.Status,
		record.Latitude,
		record.Longitude,
		record.Timestamp,
	).Scan(&row).Error
	if err != nil {
		return err
	}

	record.ID = row.ID
	record.Version = row.Version
	if row.CreatedAt.Valid {
		record.CreatedAt = row.CreatedAt.Time
	}
	if row.UpdatedAt.Valid {
		record.UpdatedAt = row.UpdatedAt.Time
	}
	return nil
}

func (r *repository) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*AttendanceRecord, error) {
	var record AttendanceRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		First(&record, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindAllBySession(ctx context.Context, organizationID, sessionID uuid.UUID) ([]AttendanceRecord, error) {
	var records []AttendanceRecord
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Where("session_id = ?", sessionID).
		Order("timestamp ASC").
		Find(&records).Error
	return records, err
}

func (r *repository) FindAllByOrganization(ctx context.Context, organizationID uuid.UUID, page, limit int) ([]AttendanceRecord, int64, error) {
	base := r.db.WithContext(ctx).
		Model(&AttendanceRecord{}).
		Scopes(tenant.Scope(organizationID))

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []AttendanceRecord
	err := base.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&records).Error
	return records, total, err
}

func (r *repository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Delete(&AttendanceRecord{}, "id = ?", id).Error
}
