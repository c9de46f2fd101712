package organization

import (
	"context"
	"database/sql"
	"time"

	organizationerrors "github.com/mujabaralno/qr-absence/internal/organization/errors"
	"github.com/mujabaralno/qr-absence/internal/rbac"
	"github.com/mujabaralno/qr-absence/internal/tenant"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=organization_service.go -destination=mock/organization_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateOrganizationRequest) (OrganizationResponse, error)
	GetByID(ctx context.Context, id string) (OrganizationResponse, error)
	GetAll(ctx context.Context, q ListOrganizationsQuery) ([]OrganizationResponse, int64, error)
	Update(ctx context.Context, actorOrgID string, actorRole rbac.Role, id string, req UpdateOrganizationRequest) (OrganizationResponse, error)
	UpdateStatus(ctx context.Context, id string, status string) (OrganizationResponse, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	db           *sql.DB
	repo         Repository
	deletePolicy tenant.DeletePolicy
	logger       *zap.Logger
}

func NewService(db *sql.DB, repo Repository, deletePolicy tenant.DeletePolicy, logger ...*zap.Logger) Service {
	l := zap.L().Named("organization.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("organization.service")
	}
	return &service{db: db, repo: repo, deletePolicy: deletePolicy, logger: l}
}

// Create registers a tenant directly. Conversion of an approved request into
// an organization also lands here; admin_email uniqueness is intentionally
// not enforced, matching the observed design.
func (s *service) Create(ctx context.Context, req CreateOrganizationRequest) (OrganizationResponse, error) {
	org := &Organization{
		ID:                uuid.New(),
		Name:              req.Name,
		Description:       req.Description,
		LogoURL:           req.LogoURL,
		ResponsiblePerson: req.ResponsiblePerson,
		AdminEmail:        req.AdminEmail,
		Origin:            req.Origin,
		Status:            StatusActive,
	}

	if err := s.repo.Create(ctx, org); err != nil {
		s.logger.Error("create organization persist failed", zap.Error(err))
		return OrganizationResponse{}, err
	}

	s.logger.Info("organization created",
		zap.String("organization_id", org.ID.String()),
		zap.String("name", org.Name),
	)
	return mapToResponse(*org), nil
}

func (s *service) GetByID(ctx context.Context, id string) (OrganizationResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return OrganizationResponse{}, organizationerrors.ErrInvalidOrganizationID
	}

	org, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return OrganizationResponse{}, err
	}
	return mapToResponse(*org), nil
}

func (s *service) GetAll(ctx context.Context, q ListOrganizationsQuery) ([]OrganizationResponse, int64, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 6
	}

	orgs, total, err := s.repo.FindAll(ctx, q)
	if err != nil {
		return nil, 0, err
	}

	resp := make([]OrganizationResponse, len(orgs))
	for i, o := range orgs {
		resp[i] = mapToResponse(o)
	}
	return resp, total, nil
}

// Update applies a partial patch. Admins may only edit their own tenant;
// superadmins may edit any. A cross-tenant admin attempt reads as not-found.
func (s *service) Update(ctx context.Context, actorOrgID string, actorRole rbac.Role, id string, req UpdateOrganizationRequest) (OrganizationResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return OrganizationResponse{}, organizationerrors.ErrInvalidOrganizationID
	}

	if actorRole != rbac.RoleSuperadmin && actorOrgID != id {
		return OrganizationResponse{}, organizationerrors.ErrNotOwnOrganization
	}

	org, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return OrganizationResponse{}, err
	}

	if req.Name != "" {
		org.Name = req.Name
	}
	if req.Description != "" {
		org.Description = req.Description
	}
	if req.LogoURL != "" {
		org.LogoURL = req.LogoURL
	}
	if req.ResponsiblePerson != "" {
		org.ResponsiblePerson = req.ResponsiblePerson
	}
	if req.AdminEmail != "" {
		org.AdminEmail = req.AdminEmail
	}
	if req.Origin != "" {
		org.Origin = req.Origin
	}

	if err := s.repo.Update(ctx, org); err != nil {
		s.logger.Error("update organization persist failed", zap.Error(err))
		return OrganizationResponse{}, err
	}
	return mapToResponse(*org), nil
}

func (s *service) UpdateStatus(ctx context.Context, id string, status string) (OrganizationResponse, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return OrganizationResponse{}, organizationerrors.ErrInvalidOrganizationID
	}

	switch status {
	case StatusPending, StatusActive, StatusInactive:
	default:
		return OrganizationResponse{}, organizationerrors.ErrInvalidStatus
	}

	org, err := s.repo.FindByID(ctx, uid)
	if err != nil {
		return OrganizationResponse{}, err
	}

	org.Status = status
	if err := s.repo.Update(ctx, org); err != nil {
		return OrganizationResponse{}, err
	}

	s.logger.Info("organization status updated",
		zap.String("organization_id", id),
		zap.String("status", status),
	)
	return mapToResponse(*org), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return organizationerrors.ErrInvalidOrganizationID
	}

	if _, err := s.repo.FindByID(ctx, uid); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if s.deletePolicy == tenant.DeleteCascade {
		if err := qtx.PurgeDependents(ctx, uid); err != nil {
			s.logger.Error("cascade delete dependents failed", zap.Error(err))
			return err
		}
	}

	if err := qtx.Delete(ctx, uid); err != nil {
		s.logger.Error("delete organization failed", zap.Error(err))
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("organization deleted",
		zap.String("organization_id", id),
		zap.String("delete_policy", string(s.deletePolicy)),
	)
	return nil
}

func mapToResponse(o Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:                o.ID.String(),
		Name:              o.Name,
		Description:       o.Description,
		LogoURL:           o.LogoURL,
		ResponsiblePerson: o.ResponsiblePerson,
		AdminEmail:        o.AdminEmail,
		Origin:            o.Origin,
		Status:            o.Status,
		MemberCount:       o.MemberCount,
		CreatedAt:         o.CreatedAt.Format(time.RFC3339),
	}
}
