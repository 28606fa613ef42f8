package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"backoffice/internal/domain"
	"backoffice/internal/dto"
	apperrors "backoffice/internal/errors"
	"backoffice/internal/security"
)

type mockUserRepository struct {
	FindByIDFunc      func(ctx context.Context, id int64) (*domain.User, error)
	ListByCompanyFunc func(ctx context.Context, company string) ([]domain.User, error)
	UpdateFunc        func(ctx context.Context, user domain.User) error
}

func (m *mockUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return m.FindByIDFunc(ctx, id)
}

func (m *mockUserRepository) ListByCompany(ctx context.Context, company string) ([]domain.User, error) {
	return m.ListByCompanyFunc(ctx, company)
}

func (m *mockUserRepository) Update(ctx context.Context, user domain.User) error {
	return m.UpdateFunc(ctx, user)
}

func newTestUserService(repo UserRepository) *UserService {
	return NewUserService(repo, zap.NewNop())
}

var (
	admin    = security.Principal{UserID: 1, Role: domain.RoleAdmin, Company: "Acme"}
	employee = security.Principal{UserID: 2, Role: domain.RoleEmployee, Company: "Acme"}
)

func usersByID() map[int64]domain.User {
	return map[int64]domain.User{
		1: {ID: 1, Name: "Ana", Email: "ana@acme.com", Role: domain.RoleAdmin, Company: "Acme"},
		2: {ID: 2, Name: "Bruno", Email: "bruno@acme.com", Role: domain.RoleEmployee, Company: "Acme"},
		3: {ID: 3, Name: "Carla", Email: "carla@acme.com", Role: domain.RoleEmployee, Company: "Acme"},
		9: {ID: 9, Name: "Zeca", Email: "zeca@other.com", Role: domain.RoleAdmin, Company: "Other"},
	}
}

func newRepoWithUsers(updated *[]domain.User) *mockUserRepository {
	users := usersByID()
	return &mockUserRepository{
		FindByIDFunc: func(ctx context.Context, id int64) (*domain.User, error) {
			u, ok := users[id]
			if !ok {
				return nil, apperrors.NewNotFoundError("user not found")
			}
			return &u, nil
		},
		UpdateFunc: func(ctx context.Context, user domain.User) error {
			*updated = append(*updated, user)
			return nil
		},
	}
}

func TestUserService_List_ScopedToCompany(t *testing.T) {
	var gotCompany string
	repo := &mockUserRepository{
		ListByCompanyFunc: func(ctx context.Context, company string) ([]domain.User, error) {
			gotCompany = company
			return []domain.User{{ID: 1}, {ID: 2}}, nil
		},
	}

	users, err := newTestUserService(repo).List(context.Background(), employee)
	require.NoError(t, err)
	assert.Len(t, users, 2)
	assert.Equal(t, "Acme", gotCompany)
}

func TestUserService_Get_OtherCompanyForbidden(t *testing.T) {
	var updated []domain.User
	svc := newTestUserService(newRepoWithUsers(&updated))

	_, err := svc.Get(context.Background(), admin, 9)

	_, ok := apperrors.IsForbiddenError(err)
	assert.True(t, ok)
}

func TestUserService_Update(t *testing.T) {
	tests := []struct {
		name     string
		caller   security.Principal
		targetID int64
		req      dto.UpdateUserRequest
		wantErr  func(error) bool
		wantRole domain.Role
	}{
		{
			name:     "admin promotes colleague",
			caller:   admin,
			targetID: 3,
			req:      dto.UpdateUserRequest{Name: "Carla", Email: "carla@acme.com", Role: "admin"},
			wantRole: domain.RoleAdmin,
		},
		{
			name:     "employee edits own profile",
			caller:   employee,
			targetID: 2,
			req:      dto.UpdateUserRequest{Name: "Bruno S.", Email: "Bruno@Acme.com "},
			wantRole: domain.RoleEmployee,
		},
		{
			name:     "employee keeps own role explicitly",
			caller:   employee,
			targetID: 2,
			req:      dto.UpdateUserRequest{Name: "Bruno", Email: "bruno@acme.com", Role: "employee"},
			wantRole: domain.RoleEmployee,
		},
		{
			name:     "employee cannot promote self",
			caller:   employee,
			targetID: 2,
			req:      dto.UpdateUserRequest{Name: "Bruno", Email: "bruno@acme.com", Role: "admin"},
			wantErr:  func(err error) bool { _, ok := apperrors.IsForbiddenError(err); return ok },
		},
		{
			name:     "employee cannot edit colleague",
			caller:   employee,
			targetID: 3,
			req:      dto.UpdateUserRequest{Name: "Carla", Email: "carla@acme.com"},
			wantErr:  func(err error) bool { _, ok := apperrors.IsForbiddenError(err); return ok },
		},
		{
			name:     "admin cannot edit other company",
			caller:   admin,
			targetID: 9,
			req:      dto.UpdateUserRequest{Name: "Zeca", Email: "zeca@other.com"},
			wantErr:  func(err error) bool { _, ok := apperrors.IsForbiddenError(err); return ok },
		},
		{
			name:     "unknown user",
			caller:   admin,
			targetID: 42,
			req:      dto.UpdateUserRequest{Name: "X", Email: "x@acme.com"},
			wantErr:  func(err error) bool { _, ok := apperrors.IsNotFoundError(err); return ok },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var updated []domain.User
			svc := newTestUserService(newRepoWithUsers(&updated))

			user, err := svc.Update(context.Background(), tt.caller, tt.targetID, tt.req)

			if tt.wantErr != nil {
				assert.True(t, tt.wantErr(err), "unexpected error %v", err)
				assert.Empty(t, updated)
				return
			}
			require.NoError(t, err)
			require.Len(t, updated, 1)
			assert.Equal(t, tt.wantRole, user.Role)
			assert.Equal(t, tt.wantRole, updated[0].Role)
		})
	}
}

func TestUserService_Update_NormalizesEmail(t *testing.T) {
	var updated []domain.User
	svc := newTestUserService(newRepoWithUsers(&updated))

	_, err := svc.Update(context.Background(), employee, 2, dto.UpdateUserRequest{Name: " Bruno ", Email: " Bruno@Acme.COM "})
	require.NoError(t, err)

	assert.Equal(t, "Bruno", updated[0].Name)
	assert.Equal(t, "bruno@acme.com", updated[0].Email)
}

func TestUserService_Update_RepositoryError(t *testing.T) {
	repo := newRepoWithUsers(new([]domain.User))
	repo.UpdateFunc = func(ctx context.Context, user domain.User) error {
		return errors.New("connection reset")
	}

	_, err := newTestUserService(repo).Update(context.Background(), admin, 1, dto.UpdateUserRequest{Name: "Ana", Email: "ana@acme.com"})
	assert.EqualError(t, err, "connection reset")
}
