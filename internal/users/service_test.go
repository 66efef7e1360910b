package users

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/student-records/student-api/internal/rbac"
	"github.com/student-records/student-api/internal/shared"
)

// ============================================================================
// MOCK REPOSITORY
// ============================================================================

type mockRepository struct {
	users  map[string]*User
	hashes map[string]string
}

func newMockRepository() *mockRepository {
	return &mockRepository{users: map[string]*User{}, hashes: map[string]string{}}
}

func (m *mockRepository) ListUsers(ctx context.Context, page shared.PageRequest) ([]User, int, error) {
	all := make([]User, 0, len(m.users))
	for _, u := range m.users {
		all = append(all, *u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	start := min(page.Offset(), len(all))
	end := min(start+page.Limit, len(all))
	return all[start:end], len(all), nil
}

func (m *mockRepository) GetUser(ctx context.Context, id string) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return u, nil
}

func (m *mockRepository) CreateUser(ctx context.Context, nu NewUser) (*User, error) {
	for _, u := range m.users {
		if u.Email == strings.ToLower(nu.Email) {
			return nil, shared.ErrConflict
		}
	}
	u := &User{
		ID:        uuid.NewString(),
		Email:     strings.ToLower(nu.Email),
		FirstName: nu.FirstName,
		LastName:  nu.LastName,
		Role:      nu.Role,
		IsActive:  true,
		CreatedAt: time.Now().Add(time.Duration(len(m.users)) * time.Second),
	}
	m.users[u.ID] = u
	m.hashes[u.ID] = nu.PasswordHash
	return u, nil
}

func (m *mockRepository) UpdateUser(ctx context.Context, id string, c UserChanges) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	if c.FirstName != nil {
		u.FirstName = *c.FirstName
	}
	if c.LastName != nil {
		u.LastName = *c.LastName
	}
	if c.Role != nil {
		u.Role = *c.Role
	}
	if c.IsActive != nil {
		u.IsActive = *c.IsActive
	}
	return u, nil
}

func createInput(email string) CreateUserInput {
	return CreateUserInput{Email: email, Password: "s3cret-pass", FirstName: "Grace", LastName: "Hopper", Role: "TEACHER"}
}

// ============================================================================
// TESTS
// ============================================================================

func TestCreateUserHashesPassword(t *testing.T) {
	repo := newMockRepository()
	svc := NewService(repo, bcrypt.MinCost)

	user, err := svc.CreateUser(context.Background(), createInput("grace@school.test"))
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleTeacher, user.Role)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.hashes[user.ID]), []byte("s3cret-pass")))
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	svc := NewService(newMockRepository(), bcrypt.MinCost)
	_, err := svc.CreateUser(context.Background(), createInput("grace@school.test"))
	require.NoError(t, err)

	_, err = svc.CreateUser(context.Background(), createInput("GRACE@school.test"))
	assert.ErrorIs(t, err, shared.ErrConflict)
	assert.Equal(t, ErrEmailTaken, err)
}

func TestCreateUserRejectsUnknownRole(t *testing.T) {
	svc := NewService(newMockRepository(), bcrypt.MinCost)
	in := createInput("x@school.test")
	in.Role = "OWNER"
	_, err := svc.CreateUser(context.Background(), in)
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestUpdateUserChangesRole(t *testing.T) {
	svc := NewService(newMockRepository(), bcrypt.MinCost)
	user, err := svc.CreateUser(context.Background(), createInput("grace@school.test"))
	require.NoError(t, err)

	role := "admin"
	inactive := false
	updated, err := svc.UpdateUser(context.Background(), user.ID, UpdateUserInput{Role: &role, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, rbac.RoleAdmin, updated.Role)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Grace", updated.FirstName)

	_, err = svc.UpdateUser(context.Background(), "missing", UpdateUserInput{})
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestListUsersPaginates(t *testing.T) {
	svc := NewService(newMockRepository(), bcrypt.MinCost)
	for i := 0; i < 3; i++ {
		_, err := svc.CreateUser(context.Background(), createInput(uuid.NewString()+"@school.test"))
		require.NoError(t, err)
	}

	page, err := svc.ListUsers(context.Background(), shared.PageRequest{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Data, 1)
	assert.Equal(t, 3, page.Pagination.Total)
	assert.Equal(t, 2, page.Pagination.TotalPages)
}
