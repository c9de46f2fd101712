package user

import (
	"context"
	"testing"

	usererrors "github.com/mujabaralno/qr-absence/internal/user/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	byID       map[string]*User
	byExternal map[string]*User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byID:       make(map[string]*User),
		byExternal: make(map[string]*User),
	}
}

func (f *fakeRepo) put(u User) {
	stored := u
	f.byID[u.ID.String()] = &stored
	f.byExternal[u.ExternalID] = &stored
}

func (f *fakeRepo) Create(ctx context.Context, u *User) error {
	if _, ok := f.byExternal[u.ExternalID]; ok {
		return gorm.ErrDuplicatedKey
	}
	f.put(*u)
	return nil
}

func (f *fakeRepo) FindByID(ctx context.Context, organizationID, id string) (*User, error) {
	u, ok := f.byID[id]
	if !ok || u.OrganizationID.String() != organizationID {
		return nil, gorm.ErrRecordNotFound
	}
	found := *u
	return &found, nil
}

func (f *fakeRepo) FindByExternalID(ctx context.Context, externalID string) (*User, error) {
	u, ok := f.byExternal[externalID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	found := *u
	return &found, nil
}

func (f *fakeRepo) FindAllByOrganization(ctx context.Context, organizationID string) ([]User, error) {
	var users []User
	for _, u := range f.byID {
		if u.OrganizationID.String() == organizationID {
			users = append(users, *u)
		}
	}
	return users, nil
}

func (f *fakeRepo) FindAll(ctx context.Context) ([]User, error) {
	var users []User
	for _, u := range f.byID {
		users = append(users, *u)
	}
	return users, nil
}

func (f *fakeRepo) Update(ctx context.Context, u *User) error {
	f.put(*u)
	return nil
}

func (f *fakeRepo) Delete(ctx context.Context, organizationID, id string) error {
	u, ok := f.byID[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.byExternal, u.ExternalID)
	delete(f.byID, id)
	return nil
}

func (f *fakeRepo) DeleteByExternalID(ctx context.Context, externalID string) error {
	u, ok := f.byExternal[externalID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.byID, u.ID.String())
	delete(f.byExternal, externalID)
	return nil
}

func TestService_CreateFromProvider_NormalizesRole(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	orgID := uuid.NewString()
	resp, err := svc.CreateFromProvider(context.Background(), CreateFromProviderParams{
		ExternalID:     "ext_1",
		OrganizationID: orgID,
		Email:          "andi@example.com",
		Role:           "OWNER",
	})
	assert.NoError(t, err)
	assert.Equal(t, "user", resp.Role)
}

func TestService_CreateFromProvider_RequiresIdentityFields(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.CreateFromProvider(context.Background(), CreateFromProviderParams{
		OrganizationID: uuid.NewString(),
		Email:          "x@example.com",
	})
	assert.ErrorIs(t, err, usererrors.ErrMissingRequiredFields)

	_, err = svc.CreateFromProvider(context.Background(), CreateFromProviderParams{
		ExternalID:     "ext_1",
		OrganizationID: "not-a-uuid",
		Email:          "x@example.com",
	})
	assert.ErrorIs(t, err, usererrors.ErrInvalidOrganizationID)
}

func TestService_GetByID_CrossTenantReadsAsNotFound(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	orgID := uuid.New()
	u := User{ID: uuid.New(), ExternalID: "ext_1", OrganizationID: orgID, Email: "a@example.com"}
	repo.put(u)

	_, err := svc.GetByID(context.Background(), uuid.NewString(), u.ID.String())
	assert.ErrorIs(t, err, usererrors.ErrUserNotFound)

	resp, err := svc.GetByID(context.Background(), orgID.String(), u.ID.String())
	assert.NoError(t, err)
	assert.Equal(t, "a@example.com", resp.Email)
}

func TestService_DeleteFromProvider(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	u := User{ID: uuid.New(), ExternalID: "ext_1", OrganizationID: uuid.New()}
	repo.put(u)

	assert.NoError(t, svc.DeleteFromProvider(context.Background(), "ext_1"))
	assert.Empty(t, repo.byID)

	err := svc.DeleteFromProvider(context.Background(), "ext_1")
	assert.ErrorIs(t, err, usererrors.ErrUserNotFound)
}

func TestService_UpdateMember_ChangesRoleAndApproval(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo)

	orgID := uuid.New()
	u := User{ID: uuid.New(), ExternalID: "ext_1", OrganizationID: orgID, Role: "user"}
	repo.put(u)

	role := "admin"
	approved := true
	resp, err := svc.UpdateMember(context.Background(), orgID.String(), u.ID.String(), UpdateMemberRequest{
		Role:     &role,
		Approved: &approved,
	})
	assert.NoError(t, err)
	assert.Equal(t, "admin", resp.Role)
	assert.True(t, resp.Approved)
}
