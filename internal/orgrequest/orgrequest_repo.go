package orgrequest

import (
	"context"
	"database/sql"

	"github.com/mujabaralno/qr-absence/internal/shared/connection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

//go:generate mockgen -source=orgrequest_repo.go -destination=mock/orgrequest_repo_mock.go -package=mock

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, r *OrganizationRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*OrganizationRequest, error)
	FindAll(ctx context.Context, status string, page, limit int) ([]OrganizationRequest, int64, error)
	MarkFinalized(ctx context.Context, id uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx rebinds statements to the caller's transaction so finalization and
// its outbox event commit together.
func (r *repository) WithTx(tx *sql.Tx) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, req *OrganizationRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*OrganizationRequest, error) {
	var req OrganizationRequest
	err := r.db.WithContext(ctx).First(&req, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *repository) FindAll(ctx context.Context, status string, page, limit int) ([]OrganizationRequest, int64, error) {
	var requests []OrganizationRequest
	var total int64

	base := r.db.WithContext(ctx).Model(&OrganizationRequest{})
	switch status {
	case "approved":
		base = base.Where("approved = TRUE")
	case "pending":
		base = base.Where("approved = FALSE")
	}

	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := base.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&requests).Error
	if err != nil {
		return nil, 0, err
	}

	return requests, total, nil
}

// MarkFinalized flips both workflow flags in one statement.
func (r *repository) MarkFinalized(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&OrganizationRequest{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"approved":             true,
			"organization_created": true,
		}).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&OrganizationRequest{}, "id = ?", id).Error
}
