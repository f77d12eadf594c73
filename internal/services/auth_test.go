package services

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dcodingdev/gearguard/internal/dto"
	"github.com/dcodingdev/gearguard/internal/entities"
	"github.com/dcodingdev/gearguard/pkg/constants"
	apperrors "github.com/dcodingdev/gearguard/pkg/errors"
	"github.com/dcodingdev/gearguard/pkg/service"
	"github.com/dcodingdev/gearguard/pkg/types"
	"github.com/dcodingdev/gearguard/pkg/utils"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]entities.User
}

func newMemUserRepo(users ...entities.User) *memUserRepo {
	r := &memUserRepo{users: map[string]entities.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *memUserRepo) FindByID(_ context.Context, _ pgx.Tx, id string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (r *memUserRepo) FindByEmail(_ context.Context, email string) (*entities.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (r *memUserRepo) GetAll(_ context.Context, _ types.Filter) ([]entities.User, uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []entities.User
	for _, u := range r.users {
		out = append(out, u)
	}
	return out, uint64(len(out)), nil
}

func (r *memUserRepo) Create(_ context.Context, _ pgx.Tx, u *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = *u
	return nil
}

func (r *memUserRepo) Update(_ context.Context, _ pgx.Tx, u *entities.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.users[u.ID] = *u
	return nil
}

func (r *memUserRepo) Delete(_ context.Context, _ pgx.Tx, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.users, id)
	return nil
}

func seededUser(t *testing.T, id, email, password, role string, active bool) entities.User {
	t.Helper()
	hash, err := utils.HashPassword(password)
	require.NoError(t, err)
	return entities.User{ID: id, Email: email, Name: "User " + id, Password: hash, Role: role, IsActive: active}
}

func TestAuthService_Login(t *testing.T) {
	repo := newMemUserRepo(
		seededUser(t, "user-1", "admin@gearguard.com", "admin123", constants.RoleAdmin, true),
		seededUser(t, "user-9", "gone@gearguard.com", "tech123", constants.RoleTechnician, false),
	)
	jwtSvc := service.NewJWTService("test-secret", time.Hour, zap.NewNop())
	svc := NewAuthService(repo, jwtSvc, zap.NewNop())

	res, err := svc.Login(t.Context(), dto.LoginDTO{Email: "admin@gearguard.com", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", res.User.ID)
	claims, err := jwtSvc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleAdmin, claims.Actor().Role)

	_, err = svc.Login(t.Context(), dto.LoginDTO{Email: "admin@gearguard.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(t.Context(), dto.LoginDTO{Email: "nobody@gearguard.com", Password: "admin123"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	_, err = svc.Login(t.Context(), dto.LoginDTO{Email: "gone@gearguard.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials, "password is checked before the active flag")

	_, err = svc.Login(t.Context(), dto.LoginDTO{Email: "gone@gearguard.com", Password: "tech123"})
	assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
}

func TestAuthService_Register(t *testing.T) {
	repo := newMemUserRepo(seededUser(t, "user-1", "admin@gearguard.com", "admin123", constants.RoleAdmin, true))
	svc := NewAuthService(repo, service.NewJWTService("test-secret", time.Hour, zap.NewNop()), zap.NewNop())

	res, err := svc.Register(t.Context(), dto.RegisterDTO{Name: "New Tech", Email: " New@GearGuard.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "new@gearguard.com", res.User.Email)
	assert.Equal(t, constants.RoleTechnician, res.User.Role)
	assert.NotEmpty(t, res.AccessToken)

	_, err = svc.Register(t.Context(), dto.RegisterDTO{Name: "Dup", Email: "ADMIN@gearguard.com", Password: "secret1"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestUserService_SelfEditRules(t *testing.T) {
	repo := newMemUserRepo(seededUser(t, "user-3", "tech1@gearguard.com", "tech123", constants.RoleTechnician, true))
	svc := NewUserService(&fakeTxManager{}, repo, newMockActivity(), zap.NewNop())
	self := technicianCtx(strPtr("team-1"))

	updated, err := svc.UpdateUser(self, "user-3", dto.UpdateUserDTO{Name: strPtr("Mike T.")})
	require.NoError(t, err)
	assert.Equal(t, "Mike T.", updated.Name)

	_, err = svc.UpdateUser(self, "user-3", dto.UpdateUserDTO{Role: strPtr(constants.RoleAdmin)})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	promoted, err := svc.UpdateUser(adminCtx(), "user-3", dto.UpdateUserDTO{Role: strPtr(constants.RoleManager)})
	require.NoError(t, err)
	assert.Equal(t, constants.RoleManager, promoted.Role)

	_, err = svc.UpdateUser(managerCtx(), "user-3", dto.UpdateUserDTO{Name: strPtr("Nope")})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}
