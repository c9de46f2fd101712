package orgrequest

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/mujabaralno/qr-absence/internal/events"
	"github.com/mujabaralno/qr-absence/internal/messaging/kafka"
	orgrequesterrors "github.com/mujabaralno/qr-absence/internal/orgrequest/errors"
	"github.com/mujabaralno/qr-absence/internal/shared/clock"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	rows map[uuid.UUID]*OrganizationRequest
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[uuid.UUID]*OrganizationRequest)}
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, r *OrganizationRequest) error {
	r.ID = uuid.New()
	stored := *r
	f.rows[r.ID] = &stored
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*OrganizationRequest, error) {
	r, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *r
	return &found, nil
}

func (f *fakeRepo) FindAll(ctx context.Context, status string, page, limit int) ([]OrganizationRequest, int64, error) {
	var requests []OrganizationRequest
	for _, r := range f.rows {
		switch status {
		case "approved":
			if !r.Approved {
				continue
			}
		case "pending":
			if r.Approved {
				continue
			}
		}
		requests = append(requests, *r)
	}
	return requests, int64(len(requests)), nil
}

func (f *fakeRepo) MarkFinalized(ctx context.Context, id uuid.UUID) error {
	f.rows[id].Approved = true
	f.rows[id].OrganizationCreated = true
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.rows, id)
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
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error           { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, reason string) error { return nil }

var testNow = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestService(t *testing.T) (Service, *fakeRepo, *fakeOutbox, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)

	repo := newFakeRepo()
	outbox := &fakeOutbox{}
	svc := NewService(repo, outbox, db, clock.Fixed(testNow))
	return svc, repo, outbox, mock, func() { db.Close() }
}

func seedRequest(repo *fakeRepo) uuid.UUID {
	id := uuid.New()
	repo.rows[id] = &OrganizationRequest{
		ID:                id,
		Email:             "admin@example.com",
		Subject:           "New organization",
		OrganizationName:  "Sekolah Harapan",
		ResponsiblePerson: "Ibu Sari",
	}
	return id
}

func TestService_ApproveAndPrepare_ReturnsDraftWithoutMutation(t *testing.T) {
	svc, repo, _, _, closeDB := newTestService(t)
	defer closeDB()

	id := seedRequest(repo)

	draft, err := svc.ApproveAndPrepare(context.Background(), id)
	assert.NoError(t, err)
	assert.Equal(t, "Sekolah Harapan", draft.Name)
	assert.Equal(t, "admin@example.com", draft.AdminEmail)

	// The request itself is untouched.
	assert.False(t, repo.rows[id].Approved)
	assert.False(t, repo.rows[id].OrganizationCreated)
}

func TestService_FinalizeApproval_MarksTerminalAndQueuesEvent(t *testing.T) {
	svc, repo, outbox, mock, closeDB := newTestService(t)
	defer closeDB()

	id := seedRequest(repo)
	orgID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectCommit()

	resp, err := svc.FinalizeApproval(context.Background(), id, FinalizeApprovalRequest{
		OrganizationID: orgID.String(),
	})
	assert.NoError(t, err)
	assert.True(t, resp.Approved)
	assert.True(t, resp.OrganizationCreated)
	assert.True(t, repo.rows[id].Terminal())

	assert.Len(t, outbox.created, 1)
	assert.Equal(t, events.OrganizationApprovedTopic, outbox.created[0].Topic)

	var event events.OrganizationApprovedEvent
	assert.NoError(t, json.Unmarshal(outbox.created[0].Payload, &event))
	assert.Equal(t, orgID.String(), event.OrganizationID)
	assert.Equal(t, "admin@example.com", event.AdminEmail)
	assert.Equal(t, testNow, event.OccurredAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_FinalizeApproval_TerminalRequestRejected(t *testing.T) {
	svc, repo, outbox, _, closeDB := newTestService(t)
	defer closeDB()

	id := seedRequest(repo)
	repo.rows[id].Approved = true
	repo.rows[id].OrganizationCreated = true

	_, err := svc.FinalizeApproval(context.Background(), id, FinalizeApprovalRequest{
		OrganizationID: uuid.NewString(),
	})
	assert.ErrorIs(t, err, orgrequesterrors.ErrRequestAlreadyFinalized)
	assert.Empty(t, outbox.created)
}

func TestService_ApproveAndPrepare_TerminalRequestRejected(t *testing.T) {
	svc, repo, _, _, closeDB := newTestService(t)
	defer closeDB()

	id := seedRequest(repo)
	repo.rows[id].Approved = true
	repo.rows[id].OrganizationCreated = true

	_, err := svc.ApproveAndPrepare(context.Background(), id)
	assert.ErrorIs(t, err, orgrequesterrors.ErrRequestAlreadyFinalized)
}

func TestService_Reject_DeletesPendingRequest(t *testing.T) {
	svc, repo, _, _, closeDB := newTestService(t)
	defer closeDB()

	id := seedRequest(repo)

	assert.NoError(t, svc.Reject(context.Background(), id))
	assert.Empty(t, repo.rows)

	// A second reject finds nothing.
	err := svc.Reject(context.Background(), id)
	assert.ErrorIs(t, err, orgrequesterrors.ErrRequestNotFound)
}

func TestService_Reject_TerminalRequestRejected(t *testing.T) {
	svc, repo, _, _, closeDB := newTestService(t)
	defer closeDB()

	id := seedRequest(repo)
	repo.rows[id].Approved = true
	repo.rows[id].OrganizationCreated = true

	err := svc.Reject(context.Background(), id)
	assert.ErrorIs(t, err, orgrequesterrors.ErrRequestAlreadyFinalized)
	assert.Len(t, repo.rows, 1)
}

func TestService_Create_ReturnsPendingRequest(t *testing.T) {
	svc, _, _, _, closeDB := newTestService(t)
	defer closeDB()

	resp, err := svc.Create(context.Background(), CreateOrgRequestRequest{
		Email:             "new@example.com",
		Subject:           "Signup",
		OrganizationName:  "Komunitas Coding",
		ResponsiblePerson: "Pak Budi",
	})
	assert.NoError(t, err)
	assert.False(t, resp.Approved)
	assert.False(t, resp.OrganizationCreated)
}
