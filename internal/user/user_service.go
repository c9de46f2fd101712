package user

import (
	"context"
	"time"

	"github.com/mujabaralno/qr-absence/internal/rbac"
	"github.com/mujabaralno/qr-absence/internal/shared/contextutil"
	usererrors "github.com/mujabaralno/qr-absence/internal/user/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

//go:generate mockgen -source=user_service.go -destination=mock/user_service_mock.go -package=mock
type Service interface {
	// Provider-driven lifecycle (webhook events).
	CreateFromProvider(ctx context.Context, params CreateFromProviderParams) (UserResponse, error)
	UpdateFromProvider(ctx context.Context, externalID string, params UpdateFromProviderParams) (UserResponse, error)
	DeleteFromProvider(ctx context.Context, externalID string) error

	// Tenant-scoped reads and admin edits.
	GetByID(ctx context.Context, organizationID, id string) (UserResponse, error)
	GetRoster(ctx context.Context, organizationID string) ([]UserResponse, error)
	GetAll(ctx context.Context) ([]UserResponse, error)
	UpdateMember(ctx context.Context, organizationID, id string, req UpdateMemberRequest) (UserResponse, error)
	Remove(ctx context.Context, organizationID, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("user.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("user.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) CreateFromProvider(ctx context.Context, params CreateFromProviderParams) (UserResponse, error) {
	l := contextutil.GetLogger(ctx, s.logger)

	orgUUID, err := uuid.Parse(params.OrganizationID)
	if err != nil {
		return UserResponse{}, usererrors.ErrInvalidOrganizationID
	}
	if params.ExternalID == "" || params.Email == "" {
		return UserResponse{}, usererrors.ErrMissingRequiredFields
	}

	u := &User{
		ID:             uuid.New(),
		ExternalID:     params.ExternalID,
		OrganizationID: orgUUID,
		Email:          params.Email,
		FirstName:      params.FirstName,
		LastName:       params.LastName,
		PhotoURL:       params.PhotoURL,
		Role:           rbac.ParseRole(params.Role).String(),
		Approved:       params.Approved,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		l.Error("create user from provider failed", zap.Error(err))
		return UserResponse{}, mapRepositoryError(err)
	}

	l.Info("user created from provider event",
		zap.String("external_id", u.ExternalID),
		zap.String("organization_id", params.OrganizationID),
	)
	return mapToResponse(*u), nil
}

func (s *service) UpdateFromProvider(ctx context.Context, externalID string, params UpdateFromProviderParams) (UserResponse, error) {
	u, err := s.repo.FindByExternalID(ctx, externalID)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	if params.FirstName != nil {
		u.FirstName = *params.FirstName
	}
	if params.LastName != nil {
		u.LastName = *params.LastName
	}
	if params.PhotoURL != nil {
		u.PhotoURL = *params.PhotoURL
	}
	if params.Approved != nil {
		u.Approved = *params.Approved
	}
	if params.Role != nil {
		u.Role = rbac.ParseRole(*params.Role).String()
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*u), nil
}

func (s *service) DeleteFromProvider(ctx context.Context, externalID string) error {
	if _, err := s.repo.FindByExternalID(ctx, externalID); err != nil {
		return mapRepositoryError(err)
	}
	return s.repo.DeleteByExternalID(ctx, externalID)
}

func (s *service) GetByID(ctx context.Context, organizationID, id string) (UserResponse, error) {
	u, err := s.repo.FindByID(ctx, organizationID, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*u), nil
}

func (s *service) GetRoster(ctx context.Context, organizationID string) ([]UserResponse, error) {
	users, err := s.repo.FindAllByOrganization(ctx, organizationID)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, nil
}

func (s *service) GetAll(ctx context.Context) ([]UserResponse, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, mapRepositoryError(err)
	}

	resp := make([]UserResponse, len(users))
	for i, u := range users {
		resp[i] = mapToResponse(u)
	}
	return resp, nil
}

func (s *service) UpdateMember(ctx context.Context, organizationID, id string, req UpdateMemberRequest) (UserResponse, error) {
	u, err := s.repo.FindByID(ctx, organizationID, id)
	if err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}

	if req.Role != nil {
		u.Role = rbac.ParseRole(*req.Role).String()
	}
	if req.Approved != nil {
		u.Approved = *req.Approved
	}

	if err := s.repo.Update(ctx, u); err != nil {
		return UserResponse{}, mapRepositoryError(err)
	}
	return mapToResponse(*u), nil
}

func (s *service) Remove(ctx context.Context, organizationID, id string) error {
	if _, err := s.repo.FindByID(ctx, organizationID, id); err != nil {
		return mapRepositoryError(err)
	}
	return s.repo.Delete(ctx, organizationID, id)
}

func mapToResponse(u User) UserResponse {
	return UserResponse{
		ID:             u.ID.String(),
		ExternalID:     u.ExternalID,
		OrganizationID: u.OrganizationID.String(),
		Email:          u.Email,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		PhotoURL:       u.PhotoURL,
		Role:           u.Role,
		Approved:       u.Approved,
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
	}
}
