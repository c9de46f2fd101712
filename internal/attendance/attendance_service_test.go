package attendance

import (
	"context"
	"database/sql"
	"testing"
	"time"

	attendanceerrors "github.com/mujabaralno/qr-absence/internal/attendance/errors"
	"github.com/mujabaralno/qr-absence/internal/messaging/kafka"
	"github.com/mujabaralno/qr-absence/internal/session"
	"github.com/mujabaralno/qr-absence/internal/shared/clock"
	"github.com/mujabaralno/qr-absence/internal/user"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type recordKey struct {
	userID    uuid.UUID
	sessionID uuid.UUID
}

// fakeRepo emulates the upsert semantics of the real table: one row per
// (user, session) pair, version bumped on every write.
type fakeRepo struct {
	rows map[recordKey]*AttendanceRecord
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[recordKey]*AttendanceRecord)}
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeRepo) Upsert(ctx context.Context, record *AttendanceRecord) error {
	key := recordKey{userID: record.UserID, sessionID: record.SessionID}
	if existing, ok := f.rows[key]; ok {
		existing.Status = record.Status
		existing.Latitude = record.Latitude
		existing.Longitude = record.Longitude
		existing.Timestamp = record.Timestamp
		existing.Version++
		*record = *existing
		return nil
	}

	record.ID = uuid.New()
	record.Version = 1
	stored := *record
	f.rows[key] = &stored
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*AttendanceRecord, error) {
	for _, r := range f.rows {
		if r.ID == id && r.OrganizationID == organizationID {
			copy := *r
			return &copy, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindAllBySession(ctx context.Context, organizationID, sessionID uuid.UUID) ([]AttendanceRecord, error) {
	var records []AttendanceRecord
	for _, r := range f.rows {
		if r.SessionID == sessionID && r.OrganizationID == organizationID {
			records = append(records, *r)
		}
	}
	return records, nil
}

func (f *fakeRepo) FindAllByOrganization(ctx context.Context, organizationID uuid.UUID, page, limit int) ([]AttendanceRecord, int64, error) {
	var records []AttendanceRecord
	for _, r := range f.rows {
		if r.OrganizationID == organizationID {
			records = append(records, *r)
		}
	}
	return records, int64(len(records)), nil
}

func (f *fakeRepo) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	for key, r := range f.rows {
		if r.ID == id {
			delete(f.rows, key)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*session.AttendanceSession
	members  map[uuid.UUID]bool
}

func (f *fakeSessionRepo) WithTx(tx *sql.Tx) session.Repository { return f }
func (f *fakeSessionRepo) Create(ctx context.Context, s *session.AttendanceSession) error {
	return nil
}
func (f *fakeSessionRepo) UpdateQRCode(ctx context.Context, id uuid.UUID, qrCode string) error {
	return nil
}
func (f *fakeSessionRepo) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*session.AttendanceSession, error) {
	s, ok := f.sessions[id]
	if !ok || s.OrganizationID != organizationID {
		return nil, gorm.ErrRecordNotFound
	}
	return s, nil
}
func (f *fakeSessionRepo) FindAllByOrganization(ctx context.Context, organizationID uuid.UUID, page, limit int) ([]session.AttendanceSession, int64, error) {
	return nil, 0, nil
}
func (f *fakeSessionRepo) Update(ctx context.Context, s *session.AttendanceSession) error { return nil }
func (f *fakeSessionRepo) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	return nil
}
func (f *fakeSessionRepo) DeleteRecordsBySession(ctx context.Context, sessionID uuid.UUID) error {
	return nil
}
func (f *fakeSessionRepo) MemberExists(ctx context.Context, organizationID, userID uuid.UUID) (bool, error) {
	return f.members[userID], nil
}

type fakeUserRepo struct {
	users []user.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *user.User) error { return nil }
func (f *fakeUserRepo) FindByID(ctx context.Context, organizationID, id string) (*user.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepo) FindByExternalID(ctx context.Context, externalID string) (*user.User, error) {
	return nil, gorm.ErrRecordNotFound
}
func (f *fakeUserRepo) FindAllByOrganization(ctx context.Context, organizationID string) ([]user.User, error) {
	return f.users, nil
}
func (f *fakeUserRepo) FindAll(ctx context.Context) ([]user.User, error)   { return f.users, nil }
func (f *fakeUserRepo) Update(ctx context.Context, u *user.User) error     { return nil }
func (f *fakeUserRepo) Delete(ctx context.Context, orgID, id string) error { return nil }
func (f *fakeUserRepo) DeleteByExternalID(ctx context.Context, externalID string) error {
	return nil
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error            { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, reason string) error  { return nil }

type fakeInvalidator struct {
	calls []string
}

func (f *fakeInvalidator) InvalidateOrganization(ctx context.Context, organizationID string) error {
	f.calls = append(f.calls, organizationID)
	return nil
}

type fixture struct {
	svc        Service
	repo       *fakeRepo
	outbox     *fakeOutbox
	cache      *fakeInvalidator
	issuer     *session.TokenIssuer
	mock       sqlmock.Sqlmock
	orgID      uuid.UUID
	sessionID  uuid.UUID
	memberID   uuid.UUID
	now        time.Time
	closeDB    func()
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	orgID := uuid.New()
	sessionID := uuid.New()
	memberID := uuid.New()
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	sessions := &fakeSessionRepo{
		sessions: map[uuid.UUID]*session.AttendanceSession{
			sessionID: {
				ID:             sessionID,
				OrganizationID: orgID,
				StartTime:      now.Add(-time.Hour),
				EndTime:        now.Add(time.Hour),
			},
		},
		members: map[uuid.UUID]bool{memberID: true},
	}

	users := &fakeUserRepo{users: []user.User{
		{ID: memberID, OrganizationID: orgID, FirstName: "Andi", Email: "andi@example.com"},
	}}

	repo := newFakeRepo()
	outbox := &fakeOutbox{}
	cache := &fakeInvalidator{}
	issuer := session.NewTokenIssuer("test-secret", "https://app.example.com")

	svc := NewService(repo, sessions, users, issuer, outbox, cache, db, clock.Fixed(now))

	return &fixture{
		svc:       svc,
		repo:      repo,
		outbox:    outbox,
		cache:     cache,
		issuer:    issuer,
		mock:      mock,
		orgID:     orgID,
		sessionID: sessionID,
		memberID:  memberID,
		now:       now,
		closeDB:   func() { db.Close() },
	}
}

func (fx *fixture) expectTx() {
	fx.mock.ExpectBegin()
	fx.mock.ExpectCommit()
}

func TestService_Record_UpsertIsIdempotent(t *testing.T) {
	fx := newFixture(t)
	defer fx.closeDB()
	ctx := context.Background()

	req := RecordAttendanceRequest{
		UserID:    fx.memberID.String(),
		SessionID: fx.sessionID.String(),
		Status:    "Hadir",
	}

	fx.expectTx()
	first, err := fx.svc.Record(ctx, fx.orgID, req)
	assert.NoError(t, err)
	assert.Equal(t, StatusPresent, first.Status)
	assert.Equal(t, 1, first.Version)

	req.Status = "Terlambat"
	fx.expectTx()
	second, err := fx.svc.Record(ctx, fx.orgID, req)
	assert.NoError(t, err)

	// Same row, updated in place.
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, StatusLate, second.Status)
	assert.Equal(t, 2, second.Version)
	assert.Len(t, fx.repo.rows, 1)
	assert.NoError(t, fx.mock.ExpectationsWereMet())
}

func TestService_Record_UnknownStatusRejected(t *testing.T) {
	fx := newFixture(t)
	defer fx.closeDB()

	_, err := fx.svc.Record(context.Background(), fx.orgID, RecordAttendanceRequest{
		UserID:    fx.memberID.String(),
		SessionID: fx.sessionID.String(),
		Status:    "maybe",
	})
	assert.ErrorIs(t, err, attendanceerrors.ErrInvalidStatus)
	assert.Empty(t, fx.repo.rows)
}

func TestService_Record_SessionFromAnotherTenantReadsAsNotFound(t *testing.T) {
	fx := newFixture(t)
	defer fx.closeDB()

	_, err := fx.svc.Record(context.Background(), uuid.New(), RecordAttendanceRequest{
		UserID:    fx.memberID.String(),
		SessionID: fx.sessionID.String(),
		Status:    "Hadir",
	})
	assert.ErrorIs(t, err, attendanceerrors.ErrSessionNotFoundOrUnauthorized)
}

func TestService_Record_NonMemberRejected(t *testing.T) {
	fx := newFixture(t)
	defer fx.closeDB()

	_, err := fx.svc.Record(context.Background(), fx.orgID, RecordAttendanceRequest{
		UserID:    uuid.New().String(),
		SessionID: fx.sessionID.String(),
		Status:    "Hadir",
	})
	assert.ErrorIs(t, err, attendanceerrors.ErrUserNotFoundOrUnauthorized)
}

func TestService_Record_QueuesOutboxEvent(t *testing.T) {
	fx := newFixture(t)
	defer fx.closeDB()

	fx.expectTx()
	_, err := fx.svc.Record(context.Background(), fx.orgID, RecordAttendanceRequest{
		UserID:    fx.memberID.String(),
		SessionID: fx.sessionID.String(),
		Status:    "Hadir",
	})
	assert.NoError(t, err)
	assert.Len(t, fx.outbox.created, 1)
	assert.Equal(t, "attendance.recorded", fx.outbox.created[0].EventType)
	assert.Equal(t, kafka.OutboxStatusPending, fx.outbox.created[0].Status)
	assert.Equal(t, []string{fx.orgID.String()}, fx.cache.calls)
}

func TestService_Scan_MarksPresent(t *testing.T) {
	fx := newFixture(t)
	defer fx.closeDB()

	tokenURL, err := fx.issuer.Issue(fx.sessionID, fx.orgID, fx.now)
	assert.NoError(t, err)
	token := tokenURL[len("https://app.example.com/scan?token="):]

	fx.expectTx()
	resp, err := fx.svc.Scan(context.Background(), fx.orgID, fx.memberID, ScanRequest{Token: token})
	assert.NoError(t, err)
	assert.Equal(t, StatusPresent, resp.Status)
	assert.Equal(t, fx.sessionID, resp.SessionID)
	assert.Equal(t, fx.now, resp.Timestamp)
}

func TestService_Scan_TokenForAnotherTenantRejected(t *testing.T) {
	fx := newFixture(t)
	defer fx.closeDB()

	tokenURL, err := fx.issuer.Issue(fx.sessionID, fx.orgID, fx.now)
	assert.NoError(t, err)
	token := tokenURL[len("https://app.example.com/scan?token="):]

	_, err = fx.svc.Scan(context.Background(), uuid.New(), fx.memberID, ScanRequest{Token: token})
	assert.ErrorIs(t, err, attendanceerrors.ErrSessionNotFoundOrUnauthorized)
	assert.Empty(t, fx.repo.rows)
}

func TestService_ScanThenAdminCorrection(t *testing.T) {
	fx := newFixture(t)
	defer fx.closeDB()
	ctx := context.Background()

	tokenURL, err := fx.issuer.Issue(fx.sessionID, fx.orgID, fx.now)
	assert.NoError(t, err)
	token := tokenURL[len("https://app.example.com/scan?token="):]

	fx.expectTx()
	scanned, err := fx.svc.Scan(ctx, fx.orgID, fx.memberID, ScanRequest{Token: token})
	assert.NoError(t, err)
	assert.Equal(t, StatusPresent, scanned.Status)

	fx.expectTx()
	corrected, err := fx.svc.Record(ctx, fx.orgID, RecordAttendanceRequest{
		UserID:    fx.memberID.String(),
		SessionID: fx.sessionID.String(),
		Status:    "Terlambat",
	})
	assert.NoError(t, err)
	assert.Equal(t, scanned.ID, corrected.ID)
	assert.Equal(t, StatusLate, corrected.Status)
	assert.Equal(t, 2, corrected.Version)
}
