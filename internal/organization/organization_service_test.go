package organization

import (
	"context"
	"database/sql"
	"testing"

	organizationerrors "github.com/mujabaralno/qr-absence/internal/organization/errors"
	"github.com/mujabaralno/qr-absence/internal/rbac"
	"github.com/mujabaralno/qr-absence/internal/tenant"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	rows   map[uuid.UUID]*Organization
	purged []uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: make(map[uuid.UUID]*Organization)}
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }

func (f *fakeRepo) Create(ctx context.Context, org *Organization) error {
	stored := *org
	f.rows[org.ID] = &stored
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, id uuid.UUID) (*Organization, error) {
	org, ok := f.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *org
	return &found, nil
}

func (f *fakeRepo) FindAll(ctx context.Context, q ListOrganizationsQuery) ([]Organization, int64, error) {
	var orgs []Organization
	for _, o := range f.rows {
		orgs = append(orgs, *o)
	}
	return orgs, int64(len(orgs)), nil
}

func (f *fakeRepo) Update(ctx context.Context, org *Organization) error {
	stored := *org
	f.rows[org.ID] = &stored
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeRepo) PurgeDependents(ctx context.Context, id uuid.UUID) error {
	f.purged = append(f.purged, id)
	return nil
}

func TestService_Create_StartsActive(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	repo := newFakeRepo()
	svc := NewService(db, repo, tenant.DeleteOrphan)

	resp, err := svc.Create(context.Background(), CreateOrganizationRequest{
		Name:              "Sekolah Harapan",
		ResponsiblePerson: "Ibu Sari",
		AdminEmail:        "admin@example.com",
	})
	assert.NoError(t, err)
	assert.Equal(t, StatusActive, resp.Status)
	assert.Len(t, repo.rows, 1)
}

func TestService_Update_AdminLimitedToOwnTenant(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	repo := newFakeRepo()
	svc := NewService(db, repo, tenant.DeleteOrphan)

	id := uuid.New()
	repo.rows[id] = &Organization{ID: id, Name: "Before", Status: StatusActive}

	_, err := svc.Update(context.Background(), uuid.NewString(), rbac.RoleAdmin, id.String(), UpdateOrganizationRequest{Name: "After"})
	assert.ErrorIs(t, err, organizationerrors.ErrNotOwnOrganization)

	// Superadmin may edit any tenant.
	resp, err := svc.Update(context.Background(), uuid.NewString(), rbac.RoleSuperadmin, id.String(), UpdateOrganizationRequest{Name: "After"})
	assert.NoError(t, err)
	assert.Equal(t, "After", resp.Name)
}

func TestService_UpdateStatus_RejectsUnknownValue(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()
	repo := newFakeRepo()
	svc := NewService(db, repo, tenant.DeleteOrphan)

	id := uuid.New()
	repo.rows[id] = &Organization{ID: id, Status: StatusActive}

	_, err := svc.UpdateStatus(context.Background(), id.String(), "archived")
	assert.ErrorIs(t, err, organizationerrors.ErrInvalidStatus)

	resp, err := svc.UpdateStatus(context.Background(), id.String(), StatusInactive)
	assert.NoError(t, err)
	assert.Equal(t, StatusInactive, resp.Status)
}

func TestService_Delete_OrphanPolicyLeavesDependents(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := newFakeRepo()
	svc := NewService(db, repo, tenant.DeleteOrphan)

	id := uuid.New()
	repo.rows[id] = &Organization{ID: id}

	mock.ExpectBegin()
	mock.ExpectCommit()
	assert.NoError(t, svc.Delete(context.Background(), id.String()))
	assert.Empty(t, repo.rows)
	assert.Empty(t, repo.purged)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Delete_CascadePolicyPurgesDependents(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()
	repo := newFakeRepo()
	svc := NewService(db, repo, tenant.DeleteCascade)

	id := uuid.New()
	repo.rows[id] = &Organization{ID: id}

	mock.ExpectBegin()
	mock.ExpectCommit()
	assert.NoError(t, svc.Delete(context.Background(), id.String()))
	assert.Equal(t, []uuid.UUID{id}, repo.purged)
}
