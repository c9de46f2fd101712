package attendance

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	attendanceerrors "github.com/mujabaralno/qr-absence/internal/attendance/errors"
	"github.com/mujabaralno/qr-absence/internal/events"
	"github.com/mujabaralno/qr-absence/internal/messaging/kafka"
	"github.com/mujabaralno/qr-absence/internal/session"
	"github.com/mujabaralno/qr-absence/internal/shared/apperror"
	"github.com/mujabaralno/qr-absence/internal/shared/clock"
	"github.com/mujabaralno/qr-absence/internal/shared/contextutil"
	"github.com/mujabaralno/qr-absence/internal/user"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReportCacheInvalidator drops cached report aggregates after a write. Cache
// trouble never fails the write.
type ReportCacheInvalidator interface {
	InvalidateOrganization(ctx context.Context, organizationID string) error
}

type Service interface {
	Record(ctx context.Context, organizationID uuid.UUID, req RecordAttendanceRequest) (*RecordResponse, error)
	Scan(ctx context.Context, organizationID, userID uuid.UUID, req ScanRequest) (*RecordResponse, error)
	DeriveRoster(ctx context.Context, organizationID, sessionID uuid.UUID) ([]RosterEntry, error)
	ListBySession(ctx context.Context, organizationID, sessionID uuid.UUID) ([]RecordResponse, error)
	ListByOrganization(ctx context.Context, organizationID uuid.UUID, q ListRecordsQuery) ([]RecordResponse, int64, error)
}

type service struct {
	repo        Repository
	sessionRepo session.Repository
	userRepo    user.Repository
	resolver    *session.TokenIssuer
	outboxRepo  kafka.OutboxRepository
	reportCache ReportCacheInvalidator
	db          *sql.DB
	clock       clock.Clock
	logger      *zap.Logger
}

func NewService(
	repo Repository,
	sessionRepo session.Repository,
	userRepo user.Repository,
	resolver *session.TokenIssuer,
	outboxRepo kafka.OutboxRepository,
	reportCache ReportCacheInvalidator,
	db *sql.DB,
	clk clock.Clock,
) Service {
	return &service{
		repo:        repo,
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		resolver:    resolver,
		outboxRepo:  outboxRepo,
		reportCache: reportCache,
		db:          db,
		clock:       clk,
		logger:      zap.L().Named("attendance.service"),
	}
}

// Record writes one member's status for one session on behalf of an admin.
// Both the session and the member must belong to the caller's organization;
// either failing reads as not-found. Repeat writes for the same pair update
// the existing record.
func (s *service) Record(ctx context.Context, organizationID uuid.UUID, req RecordAttendanceRequest) (*RecordResponse, error) {
	status, err := ParseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return nil, apperror.InvalidField("user_id")
	}
	sessionID, err := uuid.Parse(req.SessionID)
	if err != nil {
		return nil, apperror.InvalidField("session_id")
	}

	if _, err := s.sessionRepo.FindByID(ctx, organizationID, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendanceerrors.ErrSessionNotFoundOrUnauthorized
		}
		s.logger.Error("failed to verify session", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to record attendance", 500)
	}

	ok, err := s.sessionRepo.MemberExists(ctx, organizationID, userID)
	if err != nil {
		s.logger.Error("failed to verify member", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to record attendance", 500)
	}
	if !ok {
		return nil, attendanceerrors.ErrUserNotFoundOrUnauthorized
	}

	record := &AttendanceRecord{
		OrganizationID: organizationID,
		UserID:         userID,
		SessionID:      sessionID,
		Status:         status,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Timestamp:      s.clock.Now(),
	}

	if err := s.writeRecord(ctx, record); err != nil {
		return nil, err
	}

	resp := toRecordResponse(record)
	return &resp, nil
}

// Scan is a member's self check-in through the session QR payload. The token
// names the session and its organization; a token minted for another tenant
// reads as not-found. Scans always mark Present, late corrections are an
// admin action.
func (s *service) Scan(ctx context.Context, organizationID, userID uuid.UUID, req ScanRequest) (*RecordResponse, error) {
	sessionID, tokenOrgID, err := s.resolver.Resolve(req.Token)
	if err != nil {
		return nil, err
	}
	if tokenOrgID != organizationID {
		return nil, attendanceerrors.ErrSessionNotFoundOrUnauthorized
	}

	if _, err := s.sessionRepo.FindByID(ctx, organizationID, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendanceerrors.ErrSessionNotFoundOrUnauthorized
		}
		s.logger.Error("failed to resolve scanned session", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to check in", 500)
	}

	record := &AttendanceRecord{
		OrganizationID: organizationID,
		UserID:         userID,
		SessionID:      sessionID,
		Status:         StatusPresent,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Timestamp:      s.clock.Now(),
	}

	if err := s.writeRecord(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("member checked in",
		zap.String("user_id", userID.String()),
		zap.String("session_id", sessionID.String()),
		zap.Int("version", record.Version),
	)

	resp := toRecordResponse(record)
	return &resp, nil
}

// writeRecord performs the upsert and queues the recorded event in the same
// transaction, then drops cached report aggregates best-effort.
func (s *service) writeRecord(ctx context.Context, record *AttendanceRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("failed to begin transaction", zap.Error(err))
		return apperror.Wrap(err, apperror.CodeInternalError, "Failed to record attendance", 500)
	}
	defer tx.Rollback()

	txRepo := s.repo.WithTx(tx)
	if err := txRepo.Upsert(ctx, record); err != nil {
		s.logger.Error("failed to upsert attendance record", zap.Error(err))
		return apperror.Wrap(err, apperror.CodeInternalError, "Failed to record attendance", 500)
	}

	payload, err := json.Marshal(events.AttendanceRecordedEvent{
		EventType:      "attendance.recorded",
		RecordID:       record.ID.String(),
		SessionID:      record.SessionID.String(),
		UserID:         record.UserID.String(),
		OrganizationID: record.OrganizationID.String(),
		Status:         string(record.Status),
		Version:        record.Version,
		OccurredAt:     record.Timestamp,
	})
	if err != nil {
		s.logger.Error("failed to encode attendance event", zap.Error(err))
		return apperror.Wrap(err, apperror.CodeInternalError, "Failed to record attendance", 500)
	}

	outboxEvent := kafka.NewEvent(
		events.AttendanceRecordedTopic,
		"attendance_record", record.ID.String(),
		"attendance.recorded",
		contextutil.GetRequestID(ctx),
		payload,
	)
	if err := s.outboxRepo.WithTx(tx).Create(ctx, outboxEvent); err != nil {
		s.logger.Error("failed to queue attendance event", zap.Error(err))
		return apperror.Wrap(err, apperror.CodeInternalError, "Failed to record attendance", 500)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("failed to commit attendance write", zap.Error(err))
		return apperror.Wrap(err, apperror.CodeInternalError, "Failed to record attendance", 500)
	}

	if s.reportCache != nil {
		if err := s.reportCache.InvalidateOrganization(ctx, record.OrganizationID.String()); err != nil {
			s.logger.Warn("failed to invalidate report cache", zap.Error(err))
		}
	}

	return nil
}

// DeriveRoster lists every member of the organization exactly once with their
// state for the session. Members without a stored record appear as Absent
// with no timestamp; nothing is written.
func (s *service) DeriveRoster(ctx context.Context, organizationID, sessionID uuid.UUID) ([]RosterEntry, error) {
	if _, err := s.sessionRepo.FindByID(ctx, organizationID, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendanceerrors.ErrSessionNotFoundOrUnauthorized
		}
		s.logger.Error("failed to verify session", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to derive roster", 500)
	}

	members, err := s.userRepo.FindAllByOrganization(ctx, organizationID.String())
	if err != nil {
		s.logger.Error("failed to load members", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to derive roster", 500)
	}

	records, err := s.repo.FindAllBySession(ctx, organizationID, sessionID)
	if err != nil {
		s.logger.Error("failed to load records", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to derive roster", 500)
	}

	return mergeRoster(members, records), nil
}

// mergeRoster joins the member list against the stored records. Records whose
// user is no longer a member are dropped from the view; the member list is
// the source of truth for who appears.
func mergeRoster(members []user.User, records []AttendanceRecord) []RosterEntry {
	byUser := make(map[uuid.UUID]*AttendanceRecord, len(records))
	for i := range records {
		byUser[records[i].UserID] = &records[i]
	}

	roster := make([]RosterEntry, 0, len(members))
	for _, m := range members {
		entry := RosterEntry{
			UserID:    m.ID,
			FirstName: m.FirstName,
			LastName:  m.LastName,
			Email:     m.Email,
			PhotoURL:  m.PhotoURL,
			Status:    StatusAbsent,
		}
		if rec, ok := byUser[m.ID]; ok {
			entry.Status = rec.Status
			ts := rec.Timestamp
			entry.Timestamp = &ts
			entry.Recorded = true
		}
		roster = append(roster, entry)
	}

	return roster
}

func (s *service) ListBySession(ctx context.Context, organizationID, sessionID uuid.UUID) ([]RecordResponse, error) {
	if _, err := s.sessionRepo.FindByID(ctx, organizationID, sessionID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendanceerrors.ErrSessionNotFoundOrUnauthorized
		}
		s.logger.Error("failed to verify session", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to list records", 500)
	}

	records, err := s.repo.FindAllBySession(ctx, organizationID, sessionID)
	if err != nil {
		s.logger.Error("failed to list records", zap.Error(err))
		return nil, apperror.Wrap(err, apperror.CodeInternalError, "Failed to list records", 500)
	}

	responses := make([]RecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, toRecordResponse(&records[i]))
	}
	return responses, nil
}

// ListByOrganization pages through every record in the tenant, newest first.
func (s *service) ListByOrganization(ctx context.Context, organizationID uuid.UUID, q ListRecordsQuery) ([]RecordResponse, int64, error) {
	records, total, err := s.repo.FindAllByOrganization(ctx, organizationID, q.Page, q.Limit)
	if err != nil {
		s.logger.Error("failed to list records", zap.Error(err))
		return nil, 0, apperror.Wrap(err, apperror.CodeInternalError, "Failed to list records", 500)
	}

	responses := make([]RecordResponse, 0, len(records))
	for i := range records {
		responses = append(responses, toRecordResponse(&records[i]))
	}
	return responses, total, nil
}
