package session

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/mujabaralno/qr-absence/internal/rbac"
	sessionerrors "github.com/mujabaralno/qr-absence/internal/session/errors"
	"github.com/mujabaralno/qr-absence/internal/shared/apperror"
	"github.com/mujabaralno/qr-absence/internal/shared/clock"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, organizationID, createdBy uuid.UUID, req CreateSessionRequest) (*SessionResponse, error)
	GetByID(ctx context.Context, organizationID, id uuid.UUID) (*SessionResponse, error)
	GetAll(ctx context.Context, organizationID uuid.UUID, query ListSessionsQuery) ([]SessionResponse, int64, error)
	Update(ctx context.Context, organizationID, actorID, id uuid.UUID, req UpdateSessionRequest) (*SessionResponse, error)
	Delete(ctx context.Context, organizationID, actorID uuid.UUID, actorRole rbac.Role, id uuid.UUID) error
	ResolveToken(ctx context.Context, token string) (*AttendanceSession, error)
}

type service struct {
	repo   Repository
	issuer *TokenIssuer
	db     *sql.DB
	clock  clock.Clock
	logger *zap.Logger
}

func NewService(repo Repository, issuer *TokenIssuer, db *sql.DB, clk clock.Clock) Service {
	return &service{
		repo:   repo,
		issuer: issuer,
		db:     db,
		clock:  clk,
		logger: zap.L().Named("session.service"),
	}
}

// Create inserts the session, then derives the check-in payload from the new
// row's id and writes it back, all inside one transaction. The two writes are
// unavoidable because the token signs the id the database generated, but no
// reader ever observes a session without its QR payload.
func (s *service) Create(ctx context.Context, organizationID, createdBy uuid.UUID, req CreateSessionRequest) (*SessionResponse, error) {
	startTime, endTime, err := parseTimeRange(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	ok, err := s.repo.MemberExists(ctx, organizationID, createdBy)
	if err != nil {
		s.logger.Error("failed to verify session creator", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to create session", 500)
	}
	if !ok {
		return nil, sessionerrors.ErrCreatorNotInOrganization
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to create session", 500)
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)

	sess := &AttendanceSession{
		OrganizationID: organizationID,
		CreatedBy:      createdBy,
		Name:           req.Name,
		Description:    req.Description,
		Location: MeetingLocation{
			Address:   req.Address,
			Latitude:  req.Latitude,
			Longitude: req.Longitude,
		},
		StartTime: startTime,
		EndTime:   endTime,
		QRCode:    "",
	}

	if err := txRepo.Create(ctx, sess); err != nil {
		s.logger.Error("failed to insert session", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to create session", 500)
	}

	qrCode, err := s.issuer.Issue(sess.ID, organizationID, s.clock.Now())
	if err != nil {
		s.logger.Error("failed to issue check-in token", zap.String("session_id", sess.ID.String()), zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to create session", 500)
	}

	if err := txRepo.UpdateQRCode(ctx, sess.ID, qrCode); err != nil {
		s.logger.Error("failed to attach check-in token", zap.String("session_id", sess.ID.String()), zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to create session", 500)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit session create", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to create session", 500)
	}

	sess.QRCode = qrCode
	s.logger.Info("session created",
		zap.String("session_id", sess.ID.String()),
		zap.String("organization_id", organizationID.String()),
	)

	resp := toResponse(sess, s.clock.Now())
	return &resp, nil
}

func (s *service) GetByID(ctx context.Context, organizationID, id uuid.UUID) (*SessionResponse, error) {
	sess, err := s.repo.FindByID(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sessionerrors.ErrSessionNotFoundOrUnauthorized
		}
		s.logger.Error("failed to find session", zap.String("session_id", id.String()), zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to get session", 500)
	}

	resp := toResponse(sess, s.clock.Now())
	return &resp, nil
}

func (s *service) GetAll(ctx context.Context, organizationID uuid.UUID, query ListSessionsQuery) ([]SessionResponse, int64, error) {
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 {
		query.Limit = 6
	}

	sessions, total, err := s.repo.FindAllByOrganization(ctx, organizationID, query.Page, query.Limit)
	if err != nil {
		s.logger.Error("failed to list sessions", zap.Error(err))
		return nil, 0, apperror.Wrap(err, apperror.CodeInternalError, "Failed to list sessions", 500)
	}

	now := s.clock.Now()
	responses := make([]SessionResponse, 0, len(sessions))
	for i := range sessions {
		responses = append(responses, toResponse(&sessions[i], now))
	}

	return responses, total, nil
}

// Update patches a session in place. Only the creator may update, and the
// ownership failure is indistinguishable from the session not existing.
func (s *service) Update(ctx context.Context, organizationID, actorID, id uuid.UUID, req UpdateSessionRequest) (*SessionResponse, error) {
	sess, err := s.repo.FindByID(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sessionerrors.ErrSessionNotFoundOrUnauthorized
		}
		s.logger.Error("failed to find session", zap.String("session_id", id.String()), zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to update session", 500)
	}
	if sess.CreatedBy != actorID {
		return nil, sessionerrors.ErrSessionNotFoundOrUnauthorized
	}

	if req.Name != nil {
		sess.Name = *req.Name
	}
	if req.Description != nil {
		sess.Description = req.Description
	}
	if req.Address != nil {
		sess.Location.Address = *req.Address
	}
	if req.Latitude != nil {
		sess.Location.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		sess.Location.Longitude = *req.Longitude
	}
	if req.StartTime != nil {
		st, err := time.Parse(time.RFC3339, *req.StartTime)
		if err != nil {
			return nil, apperror.InvalidField("start_time")
		}
		sess.StartTime = st
	}
	if req.EndTime != nil {
		et, err := time.Parse(time.RFC3339, *req.EndTime)
		if err != nil {
			return nil, apperror.InvalidField("end_time")
		}
		sess.EndTime = et
	}
	if sess.EndTime.Before(sess.StartTime) {
		return nil, sessionerrors.ErrInvalidTimeRange
	}

	if err := s.repo.Update(ctx, sess); err != nil {
		s.logger.Error("failed to update session", zap.String("session_id", id.String()), zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to update session", 500)
	}

	resp := toResponse(sess, s.clock.Now())
	return &resp, nil
}

// Delete removes a session and its check-in records. The creator may delete
// their own session; organization admins may delete any session in their
// organization.
func (s *service) Delete(ctx context.Context, organizationID, actorID uuid.UUID, actorRole rbac.Role, id uuid.UUID) error {
	sess, err := s.repo.FindByID(ctx, organizationID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return sessionerrors.ErrSessionNotFoundOrUnauthorized
		}
		s.logger.Error("failed to find session", zap.String("session_id", id.String()), zap.Error(err))
		return apperror.Wrap(err, apperror.CodeInternalError, "Failed to delete session", 500)
	}
	if sess.CreatedBy != actorID && actorRole != rbac.RoleAdmin && actorRole != rbac.RoleSuperadmin {
		return sessionerrors.ErrSessionNotFoundOrUnauthorized
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return apperror.Wrap(err, apperror.CodeInternalError, "Failed to delete session", 500)
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)

	if err := txRepo.DeleteRecordsBySession(ctx, id); err != nil {
		s.logger.Error("failed to delete session records", zap.String("session_id", id.String()), zap.Error(err))
		return apperror.Wrap(err, apperror.CodeInternalError, "Failed to delete session", 500)
	}
	if err := txRepo.Delete(ctx, organizationID, id); err != nil {
		s.logger.Error("failed to delete session", zap.String("session_id", id.String()), zap.Error(err))
		return apperror.Wrap(err, apperror.CodeInternalError, "Failed to delete session", 500)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit session delete", zap.Error(err))
		return apperror.Wrap(err, apperror.CodeInternalError, "Failed to delete session", 500)
	}

	s.logger.Info("session deleted",
		zap.String("session_id", id.String()),
		zap.String("organization_id", organizationID.String()),
	)
	return nil
}

// ResolveToken validates a scanned check-in token and loads the session it
// points at.
func (s *service) ResolveToken(ctx context.Context, token string) (*AttendanceSession, error) {
	sessionID, organizationID, err := s.issuer.Resolve(token)
	if err != nil {
		return nil, err
	}

	sess, err := s.repo.FindByID(ctx, organizationID, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, sessionerrors.ErrSessionNotFound
		}
		s.logger.Error("failed to resolve session token", zap.String("session_id", sessionID.String()), zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to resolve check-in token", 500)
	}

	return sess, nil
}

func parseTimeRange(start, end string) (time.Time, time.Time, error) {
	startTime, err := time.Parse(time.RFC3339, start)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.InvalidField("start_time")
	}
	endTime, err := time.Parse(time.RFC3339, end)
	if err != nil {
		return time.Time{}, time.Time{}, apperror.InvalidField("end_time")
	}
	if endTime.Before(startTime) {
		return time.Time{}, time.Time{}, sessionerrors.ErrInvalidTimeRange
	}
	return startTime, endTime, nil
}
