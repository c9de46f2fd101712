package orgrequest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/mujabaralno/qr-absence/internal/events"
	"github.com/mujabaralno/qr-absence/internal/messaging/kafka"
	orgrequesterrors "github.com/mujabaralno/qr-absence/internal/orgrequest/errors"
	"github.com/mujabaralno/qr-absence/internal/shared/apperror"
	"github.com/mujabaralno/qr-absence/internal/shared/clock"
	"github.com/mujabaralno/qr-absence/internal/shared/contextutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"go.uber.org/zap"
)

type Service interface {
	Create(ctx context.Context, req CreateOrgRequestRequest) (*OrgRequestResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*OrgRequestResponse, error)
	GetAll(ctx context.Context, query ListOrgRequestsQuery) ([]OrgRequestResponse, int64, error)
	ApproveAndPrepare(ctx context.Context, id uuid.UUID) (*OrganizationDraft, error)
	FinalizeApproval(ctx context.Context, id uuid.UUID, req FinalizeApprovalRequest) (*OrgRequestResponse, error)
	Reject(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo       Repository
	outboxRepo kafka.OutboxRepository
	db         *sql.DB
	clock      clock.Clock
	logger     *zap.Logger
}

func NewService(repo Repository, outboxRepo kafka.OutboxRepository, db *sql.DB, clk clock.Clock) Service {
	return &service{
		repo:       repo,
		outboxRepo: outboxRepo,
		db:         db,
		clock:      clk,
		logger:     zap.L().Named("orgrequest.service"),
	}
}

// Create is the public intake. One pending request per email; a duplicate
// maps to a conflict.
func (s *service) Create(ctx context.Context, req CreateOrgRequestRequest) (*OrgRequestResponse, error) {
	request := &OrganizationRequest{
		Email:             req.Email,
		Subject:           req.Subject,
		OrganizationName:  req.OrganizationName,
		ResponsiblePerson: req.ResponsiblePerson,
		LogoURL:           req.LogoURL,
		Origin:            req.Origin,
		Description:       req.Description,
	}

	if err := s.repo.Create(ctx, request); err != nil {
		mapped := mapRepositoryError(err)
		if mapped != err {
			return nil, mapped
		}
		s.logger.Error("failed to create organization request", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to submit request", 500)
	}

	s.logger.Info("organization request submitted",
		zap.String("request_id", request.ID.String()),
		zap.String("organization_name", request.OrganizationName),
	)

	resp := toResponse(request)
	return &resp, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*OrgRequestResponse, error) {
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, orgrequesterrors.ErrRequestNotFound
		}
		s.logger.Error("failed to find organization request", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to get request", 500)
	}

	resp := toResponse(request)
	return &resp, nil
}

func (s *service) GetAll(ctx context.Context, query ListOrgRequestsQuery) ([]OrgRequestResponse, int64, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = 6
	}

	requests, total, err := s.repo.FindAll(ctx, query.Status, query.Page, query.Limit)
	if err != nil {
		s.logger.Error("failed to list organization requests", zap.Error(err))
		return nil, 0, apperror.Wrap(err, apperror.CodeInternalError, "Failed to list requests", 500)
	}

	responses := make([]OrgRequestResponse, 0, len(requests))
	for i := range requests {
		responses = append(responses, toResponse(&requests[i]))
	}
	return responses, total, nil
}

// ApproveAndPrepare returns the organization fields prefilled from the
// request. Read only; the request state does not change until the
// organization exists and FinalizeApproval runs.
func (s *service) ApproveAndPrepare(ctx context.Context, id uuid.UUID) (*OrganizationDraft, error) {
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, orgrequesterrors.ErrRequestNotFound
		}
		s.logger.Error("failed to find organization request", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to prepare approval", 500)
	}
	if request.Terminal() {
		return nil, orgrequesterrors.ErrRequestAlreadyFinalized
	}

	return &OrganizationDraft{
		Name:              request.OrganizationName,
		Description:       request.Description,
		LogoURL:           request.LogoURL,
		ResponsiblePerson: request.ResponsiblePerson,
		AdminEmail:        request.Email,
		Origin:            request.Origin,
	}, nil
}

// FinalizeApproval marks the request terminal and queues the approval
// notification in the outbox, both in one transaction.
func (s *service) FinalizeApproval(ctx context.Context, id uuid.UUID, req FinalizeApprovalRequest) (*OrgRequestResponse, error) {
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, orgrequesterrors.ErrRequestNotFound
		}
		s.logger.Error("failed to find organization request", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to finalize approval", 500)
	}
	if request.Terminal() {
		return nil, orgrequesterrors.ErrRequestAlreadyFinalized
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to finalize approval", 500)
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)
	if err := txRepo.MarkFinalized(ctx, id); err != nil {
		s.logger.Error("failed to finalize organization request", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to finalize approval", 500)
	}

	payload, err := json.Marshal(events.OrganizationApprovedEvent{
		EventType:        "organization.approved",
		RequestID:        request.ID.String(),
		OrganizationID:   req.OrganizationID,
		OrganizationName: request.OrganizationName,
		AdminEmail:       request.Email,
		OccurredAt:       s.clock.Now(),
	})
	if err != nil {
		s.logger.Error("failed to encode approval event", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to finalize approval", 500)
	}

	outboxEvent := kafka.NewEvent(
		events.OrganizationApprovedTopic,
		"organization_request", request.ID.String(),
		"organization.approved",
		contextutil.GetRequestID(ctx),
		payload,
	)
	if err := s.outboxRepo.WithTx(tx).Create(ctx, outboxEvent); err != nil {
		s.logger.Error("failed to queue approval event", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to finalize approval", 500)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit approval", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to finalize approval", 500)
	}

	request.Approved = true
	request.OrganizationCreated = true

	s.logger.Info("organization request finalized",
		zap.String("request_id", request.ID.String()),
		zap.String("organization_id", req.OrganizationID),
	)

	resp := toResponse(request)
	return &resp, nil
}

// Reject removes the request outright so the email can reapply later.
// Finalized requests stay.
func (s *service) Reject(ctx context.Context, id uuid.UUID) error {
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return orgrequesterrors.ErrRequestNotFound
		}
		s.logger.Error("failed to find organization request", zap.Error(err))
		return apperror.Wrap(err, apperror.CodeInternalError, "Failed to reject request", 500)
	}
	if request.Terminal() {
		return orgrequesterrors.ErrRequestAlreadyFinalized
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to reject organization request", zap.Error(err))
		return apperror.Wrap(err, apperror.CodeInternalError, "Failed to reject request", 500)
	}

	s.logger.Info("organization request rejected", zap.String("request_id", id.String()))
	return nil
}
