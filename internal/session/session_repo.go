package session

import (
	"context"
	"database/sql"

	"github.com/mujabaralno/qr-absence/internal/shared/connection"
	"github.com/mujabaralno/qr-absence/internal/tenant"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=session_repo.go -destination=mock/session_repo_mock.go -package=mock

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *AttendanceSession) error
	UpdateQRCode(ctx context.Context, id uuid.UUID, qrCode string) error
	FindByID(ctx context.Context, organizationID, id uuid.UUID) (*AttendanceSession, error)
	FindAllByOrganization(ctx context.Context, organizationID uuid.UUID, page, limit int) ([]AttendanceSession, int64, error)
	Update(ctx context.Context, s *AttendanceSession) error
	Delete(ctx context.Context, organizationID, id uuid.UUID) error
	DeleteRecordsBySession(ctx context.Context, sessionID uuid.UUID) error
	MemberExists(ctx context.Context, organizationID, userID uuid.UUID) (bool, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds every statement to the caller's transaction, so the
// two-phase create and the delete-with-records run atomically.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, s *AttendanceSession) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) UpdateQRCode(ctx context.Context, id uuid.UUID, qrCode string) error {
	return r.db.WithContext(ctx).
		Model(&AttendanceSession{}).
		Where("id = ?", id).
		Update("qr_code", qrCode).Error
}

func (r *repository) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*AttendanceSession, error) {
	var s AttendanceSession
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindAllByOrganization(ctx context.Context, organizationID uuid.UUID, page, limit int) ([]AttendanceSession, int64, error) {
	var sessions []AttendanceSession
	var total int64

	base := r.db.WithContext(ctx).
		Model(&AttendanceSession{}).
		Scopes(tenant.Scope(organizationID))

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Order("start_time DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, 0, err
	}

	return sessions, total, nil
}

func (r *repository) Update(ctx context.Context, s *AttendanceSession) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(s.OrganizationID)).
		Where("id = ?", s.ID).
		Save(s).Error
}

func (r *repository) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Where("id = ?", id).
		Delete(&AttendanceSession{}).Error
}

// DeleteRecordsBySession removes the check-in records tied to a session before
// the session row itself goes. Records never outlive their session.
func (r *repository) DeleteRecordsBySession(ctx context.Context, sessionID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Exec("DELETE FROM attendance_records WHERE session_id = ?", sessionID).Error
}

func (r *repository) MemberExists(ctx context.Context, organizationID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("users").
		Where("organization_id = ? AND id = ?", organizationID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
