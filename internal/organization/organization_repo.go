package organization

import (
	"context"
	"database/sql"

	"github.com/mujabaralno/qr-absence/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const memberCountSelect = "organizations.*, " +
	"(SELECT count(*) FROM users WHERE users.organization_id = organizations.id) AS member_count"

//go:generate mockgen -source=organization_repo.go -destination=mock/organization_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, org *Organization) error
	FindByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	FindAll(ctx context.Context, q ListOrganizationsQuery) ([]Organization, int64, error)
	Update(ctx context.Context, org *Organization) error
	Delete(ctx context.Context, id uuid.UUID) error
	PurgeDependents(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds statements to the caller's transaction so a cascade delete
// removes the tenant and its dependents atomically.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, org *Organization) error {
	return r.db.WithContext(ctx).Create(org).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*Organization, error) {
	var org Organization
	err := r.db.WithContext(ctx).
		Select(memberCountSelect).
		First(&org, "id = ?", id).Error
	return &org, err
}

func (r *repository) FindAll(ctx context.Context, q ListOrganizationsQuery) ([]Organization, int64, error) {
	base := r.db.WithContext(ctx).Model(&Organization{})
	if q.Query != "" {
		base = base.Where("name ILIKE ?", "%"+q.Query+"%")
	}
	if q.Status != "" && q.Status != "all" {
		base = base.Where("status = ?", q.Status)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orgs []Organization
	err := base.
		Select(memberCountSelect).
		Order("created_at DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&orgs).Error
	return orgs, total, err
}

func (r *repository) Update(ctx context.Context, org *Organization) error {
	return r.db.WithContext(ctx).
		Omit("member_count").
		Save(org).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Organization{}, "id = ?", id).Error
}

// PurgeDependents removes everything owned by the tenant. Only called when the
// cascade delete policy is configured; the store itself has no FK cascades.
func (r *repository) PurgeDependents(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`
		WITH del_records AS (
			DELETE FROM attendance_records WHERE organization_id = $1
		), del_sessions AS (
			DELETE FROM attendance_sessions WHERE organization_id = $1
		)
		DELETE FROM users WHERE organization_id = $1
	`, id).Error
}
