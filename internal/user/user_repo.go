package user

import (
	"context"

	"github.com/mujabaralno/qr-absence/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=user_repo.go -destination=mock/user_repo_mock.go -package=mock
type Repository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, organizationID, id string) (*User, error)
	FindByExternalID(ctx context.Context, externalID string) (*User, error)
	FindAllByOrganization(ctx context.Context, organizationID string) ([]User, error)
	FindAll(ctx context.Context) ([]User, error)
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, organizationID, id string) error
	DeleteByExternalID(ctx context.Context, externalID string) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) FindByID(ctx context.Context, organizationID, id string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		First(&u, "id = ?", id).Error
	return &u, err
}

func (r *repository) FindByExternalID(ctx context.Context, externalID string) (*User, error) {
	var u User
	err := r.db.WithContext(ctx).First(&u, "external_id = ?", externalID).Error
	return &u, err
}

// FindAllByOrganization is the roster read. Ordered by created_at so the
// roster view is deterministic.
func (r *repository) FindAllByOrganization(ctx context.Context, organizationID string) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Order("created_at ASC").
		Find(&users).Error
	return users, err
}

func (r *repository) FindAll(ctx context.Context) ([]User, error) {
	var users []User
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error
	return users, err
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *repository) Delete(ctx context.Context, organizationID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(organizationID)).
		Delete(&User{}, "id = ?", id).Error
}

func (r *repository) DeleteByExternalID(ctx context.Context, externalID string) error {
	return r.db.WithContext(ctx).Delete(&User{}, "external_id = ?", externalID).Error
}
