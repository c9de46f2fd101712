package session

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	sessionerrors "github.com/mujabaralno/qr-absence/internal/session/errors"
	"github.com/mujabaralno/qr-absence/internal/rbac"
	"github.com/mujabaralno/qr-absence/internal/shared/clock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	sessions       map[uuid.UUID]*AttendanceSession
	members        map[uuid.UUID]bool
	deletedRecords []uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		sessions: make(map[uuid.UUID]*AttendanceSession),
		members:  make(map[uuid.UUID]bool),
	}
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, s *AttendanceSession) error {
	s.ID = uuid.New()
	stored := *s
	f.sessions[s.ID] = &stored
	return nil
}

func (f *fakeRepo) UpdateQRCode(ctx context.Context, id uuid.UUID, qrCode string) error {
	f.sessions[id].QRCode = qrCode
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, organizationID, id uuid.UUID) (*AttendanceSession, error) {
	s, ok := f.sessions[id]
	if !ok || s.OrganizationID != organizationID {
		return nil, gorm.ErrRecordNotFound
	}
	found := *s
	return &found, nil
}

func (f *fakeRepo) FindAllByOrganization(ctx context.Context, organizationID uuid.UUID, page, limit int) ([]AttendanceSession, int64, error) {
	var sessions []AttendanceSession
	for _, s := range f.sessions {
		if s.OrganizationID == organizationID {
			sessions = append(sessions, *s)
		}
	}
	return sessions, int64(len(sessions)), nil
}

func (f *fakeRepo) Update(ctx context.Context, s *AttendanceSession) error {
	stored := *s
	f.sessions[s.ID] = &stored
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, organizationID, id uuid.UUID) error {
	delete(f.sessions, id)
	return nil
}

func (f *fakeRepo) DeleteRecordsBySession(ctx context.Context, sessionID uuid.UUID) error {
	f.deletedRecords = append(f.deletedRecords, sessionID)
	return nil
}

func (f *fakeRepo) MemberExists(ctx context.Context, organizationID, userID uuid.UUID) (bool, error) {
	return f.members[userID], nil
}

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (Service, *fakeRepo, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := newFakeRepo()
	issuer := NewTokenIssuer("test-secret", "https://app.example.com")
	svc := NewService(repo, issuer, db, clock.Fixed(testNow))
	return svc, repo, mock, func() { db.Close() }
}

func TestService_Create_AttachesCheckInPayload(t *testing.T) {
	svc, repo, mock, closeDB := newTestService(t)
	defer closeDB()

	orgID := uuid.New()
	creator := uuid.New()
	repo.members[creator] = true

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.Create(context.Background(), orgID, creator, CreateSessionRequest{
		Name:      "Weekly standup",
		Address:   "Jl. Sudirman 1",
		Latitude:  -6.2,
		Longitude: 106.8,
		StartTime: testNow.Add(time.Hour).Format(time.RFC3339),
		EndTime:   testNow.Add(2 * time.Hour).Format(time.RFC3339),
	})
	assert.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.ID)
	assert.True(t, strings.HasPrefix(resp.QRCode, "https://app.example.com/scan?token="))
	assert.Equal(t, PhaseUpcoming, resp.Phase)

	// The stored row carries the payload too.
	stored := repo.sessions[resp.ID]
	assert.Equal(t, resp.QRCode, stored.QRCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_CreatorOutsideOrganizationRejected(t *testing.T) {
	svc, _, _, closeDB := newTestService(t)
	defer closeDB()

	_, err := svc.Create(context.Background(), uuid.New(), uuid.New(), CreateSessionRequest{
		Name:      "Weekly standup",
		Address:   "Jl. Sudirman 1",
		Latitude:  -6.2,
		Longitude: 106.8,
		StartTime: testNow.Format(time.RFC3339),
		EndTime:   testNow.Add(time.Hour).Format(time.RFC3339),
	})
	assert.ErrorIs(t, err, sessionerrors.ErrCreatorNotInOrganization)
}

func TestService_Create_EndBeforeStartRejected(t *testing.T) {
	svc, repo, _, closeDB := newTestService(t)
	defer closeDB()

	creator := uuid.New()
	repo.members[creator] = true

	_, err := svc.Create(context.Background(), uuid.New(), creator, CreateSessionRequest{
		Name:      "Backwards",
		Address:   "x",
		Latitude:  1,
		Longitude: 1,
		StartTime: testNow.Add(2 * time.Hour).Format(time.RFC3339),
		EndTime:   testNow.Format(time.RFC3339),
	})
	assert.ErrorIs(t, err, sessionerrors.ErrInvalidTimeRange)
	assert.Empty(t, repo.sessions)
}

func TestService_Update_OnlyCreatorMayPatch(t *testing.T) {
	svc, repo, _, closeDB := newTestService(t)
	defer closeDB()

	orgID := uuid.New()
	creator := uuid.New()
	id := uuid.New()
	repo.sessions[id] = &AttendanceSession{
		ID:             id,
		OrganizationID: orgID,
		CreatedBy:      creator,
		Name:           "Before",
		StartTime:      testNow,
		EndTime:        testNow.Add(time.Hour),
	}

	// Someone else in the same org gets a generic not-found.
	_, err := svc.Update(context.Background(), orgID, uuid.New(), id, UpdateSessionRequest{})
	assert.ErrorIs(t, err, sessionerrors.ErrSessionNotFoundOrUnauthorized)

	name := "After"
	resp, err := svc.Update(context.Background(), orgID, creator, id, UpdateSessionRequest{Name: &name})
	assert.NoError(t, err)
	assert.Equal(t, "After", resp.Name)
	assert.Equal(t, "After", repo.sessions[id].Name)
}

func TestService_Update_PatchCannotInvertTimeRange(t *testing.T) {
	svc, repo, _, closeDB := newTestService(t)
	defer closeDB()

	orgID := uuid.New()
	creator := uuid.New()
	id := uuid.New()
	repo.sessions[id] = &AttendanceSession{
		ID:             id,
		OrganizationID: orgID,
		CreatedBy:      creator,
		StartTime:      testNow,
		EndTime:        testNow.Add(time.Hour),
	}

	badEnd := testNow.Add(-time.Hour).Format(time.RFC3339)
	_, err := svc.Update(context.Background(), orgID, creator, id, UpdateSessionRequest{EndTime: &badEnd})
	assert.ErrorIs(t, err, sessionerrors.ErrInvalidTimeRange)
}

func TestService_Delete_CreatorAndAdminAllowed(t *testing.T) {
	svc, repo, mock, closeDB := newTestService(t)
	defer closeDB()

	orgID := uuid.New()
	creator := uuid.New()
	id := uuid.New()
	repo.sessions[id] = &AttendanceSession{ID: id, OrganizationID: orgID, CreatedBy: creator}

	// A plain member who is not the creator cannot delete.
	err := svc.Delete(context.Background(), orgID, uuid.New(), rbac.RoleUser, id)
	assert.ErrorIs(t, err, sessionerrors.ErrSessionNotFoundOrUnauthorized)

	// An org admin can, and the session's records go with it.
	mock.ExpectBegin()
	mock.ExpectCommit()
	err = svc.Delete(context.Background(), orgID, uuid.New(), rbac.RoleAdmin, id)
	assert.NoError(t, err)
	assert.Empty(t, repo.sessions)
	assert.Equal(t, []uuid.UUID{id}, repo.deletedRecords)
}

func TestService_GetByID_CrossTenantReadsAsNotFound(t *testing.T) {
	svc, repo, _, closeDB := newTestService(t)
	defer closeDB()

	id := uuid.New()
	repo.sessions[id] = &AttendanceSession{ID: id, OrganizationID: uuid.New()}

	_, err := svc.GetByID(context.Background(), uuid.New(), id)
	assert.ErrorIs(t, err, sessionerrors.ErrSessionNotFoundOrUnauthorized)
}
