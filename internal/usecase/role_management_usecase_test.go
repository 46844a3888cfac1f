package usecase

import (
	"context"
	"io"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carewell-health/carewell/internal/delivery/dto"
	"github.com/carewell-health/carewell/internal/domain/entity"
	"github.com/carewell-health/carewell/internal/domain/repository"
	"github.com/carewell-health/carewell/internal/rbac"
	"github.com/carewell-health/carewell/internal/service"
)

type stubDirectory struct {
	list      []repository.DirectoryUser
	byID      map[uuid.UUID]*repository.DirectoryUser
	updated   map[uuid.UUID]rbac.Role
	listCalls int
}

func newStubDirectory() *stubDirectory {
	return &stubDirectory{
		byID:    make(map[uuid.UUID]*repository.DirectoryUser),
		updated: make(map[uuid.UUID]rbac.Role),
	}
}

func (s *stubDirectory) ListUsers(ctx context.Context, page, limit int) ([]repository.DirectoryUser, int64, error) {
	s.listCalls++
	return s.list, int64(len(s.list)), nil
}

func (s *stubDirectory) GetUser(ctx context.Context, id uuid.UUID) (*repository.DirectoryUser, error) {
	return s.byID[id], nil
}

func (s *stubDirectory) UpdateUserRole(ctx context.Context, id uuid.UUID, role rbac.Role) error {
	s.updated[id] = role
	return nil
}

type stubAuditRepo struct {
	created []*entity.AuditLog
}

func (s *stubAuditRepo) Create(ctx context.Context, log *entity.AuditLog) error {
	s.created = append(s.created, log)
	return nil
}

func (s *stubAuditRepo) FindPage(ctx context.Context, page, limit int) ([]entity.AuditLog, int64, error) {
	return nil, 0, nil
}

func (s *stubAuditRepo) FindByID(ctx context.Context, id int64) (*entity.AuditLog, error) {
	return nil, nil
}

func (s *stubAuditRepo) lastAction() string {
	if len(s.created) == 0 {
		return ""
	}
	return s.created[len(s.created)-1].Action
}

func newRoleUsecase(t *testing.T, directory *stubDirectory, audit *stubAuditRepo) (RoleManagementUsecase, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	log := logrus.New()
	log.SetOutput(io.Discard)

	recorder := service.NewAuditRecorder(log, audit)
	return NewRoleManagementUsecase(log, directory, recorder, redisClient), redisClient
}

func sessionFor(role rbac.Role) *repository.Session {
	return &repository.Session{
		UserID: uuid.New(),
		Email:  "actor@carewell.test",
		Role:   string(role),
	}
}

func addDirectoryUser(directory *stubDirectory, role rbac.Role) uuid.UUID {
	id := uuid.New()
	user := repository.DirectoryUser{
		ID:       id,
		Email:    "target@carewell.test",
		FullName: "Target User",
		Role:     string(role),
	}
	directory.byID[id] = &user
	directory.list = append(directory.list, user)
	return id
}

func TestChangeRole(t *testing.T) {
	directory := newStubDirectory()
	audit := &stubAuditRepo{}
	uc, redisClient := newRoleUsecase(t, directory, audit)

	targetID := addDirectoryUser(directory, rbac.RolePatient)
	actor := sessionFor(rbac.RoleAdmin)

	// A cached listing must not survive the role change.
	require.NoError(t, redisClient.Set(context.Background(), "directory:users:page:1:limit:20", "stale", 0).Err())

	resp, err := uc.ChangeRole(context.Background(), actor, targetID, &dto.ChangeRoleRequest{Role: "doctor"})
	require.NoError(t, err)

	assert.Equal(t, "doctor", resp.Role)
	assert.Equal(t, "/doctor", resp.Dashboard)
	assert.Equal(t, rbac.RoleDoctor, directory.updated[targetID])

	require.Len(t, audit.created, 1)
	record := audit.created[0]
	assert.Equal(t, entity.AuditActionRoleChange, record.Action)
	assert.Equal(t, actor.UserID, *record.ActorID)
	assert.Equal(t, targetID, *record.TargetID)
	assert.Equal(t, "patient", record.Metadata["old_role"])
	assert.Equal(t, "doctor", record.Metadata["new_role"])

	err = redisClient.Get(context.Background(), "directory:users:page:1:limit:20").Err()
	assert.ErrorIs(t, err, redis.Nil, "user list cache must be invalidated")
}

func TestChangeRoleUnknownRole(t *testing.T) {
	directory := newStubDirectory()
	uc, _ := newRoleUsecase(t, directory, &stubAuditRepo{})

	targetID := addDirectoryUser(directory, rbac.RolePatient)
	_, err := uc.ChangeRole(context.Background(), sessionFor(rbac.RoleAdmin), targetID, &dto.ChangeRoleRequest{Role: "nurse"})

	assert.ErrorIs(t, err, ErrUnknownRole)
	assert.Empty(t, directory.updated)
}

func TestChangeRoleWithoutManagePermission(t *testing.T) {
	directory := newStubDirectory()
	audit := &stubAuditRepo{}
	uc, _ := newRoleUsecase(t, directory, audit)

	targetID := addDirectoryUser(directory, rbac.RolePatient)

	for _, role := range []rbac.Role{rbac.RolePatient, rbac.RoleDoctor, rbac.RoleLocationAdmin} {
		_, err := uc.ChangeRole(context.Background(), sessionFor(role), targetID, &dto.ChangeRoleRequest{Role: "doctor"})
		assert.ErrorIs(t, err, ErrPermissionDenied, "role %s", role)
	}
	assert.Empty(t, directory.updated)
	assert.Equal(t, entity.AuditActionRoleChangeDenied, audit.lastAction())
}

func TestChangeRoleNotAssignable(t *testing.T) {
	directory := newStubDirectory()
	audit := &stubAuditRepo{}
	uc, _ := newRoleUsecase(t, directory, audit)

	targetID := addDirectoryUser(directory, rbac.RolePatient)

	// Nobody can hand out super_admin, not even super_admin.
	_, err := uc.ChangeRole(context.Background(), sessionFor(rbac.RoleSuperAdmin), targetID, &dto.ChangeRoleRequest{Role: "super_admin"})
	assert.ErrorIs(t, err, ErrRoleNotAssignable)
	assert.Empty(t, directory.updated)
	assert.Equal(t, entity.AuditActionRoleChangeDenied, audit.lastAction())
}

func TestChangeRoleCannotManageTarget(t *testing.T) {
	directory := newStubDirectory()
	uc, _ := newRoleUsecase(t, directory, &stubAuditRepo{})

	// admin cannot manage another admin.
	targetID := addDirectoryUser(directory, rbac.RoleAdmin)
	_, err := uc.ChangeRole(context.Background(), sessionFor(rbac.RoleAdmin), targetID, &dto.ChangeRoleRequest{Role: "doctor"})

	assert.ErrorIs(t, err, ErrCannotManageUser)
	assert.Empty(t, directory.updated)
}

func TestChangeRoleSelf(t *testing.T) {
	directory := newStubDirectory()
	uc, _ := newRoleUsecase(t, directory, &stubAuditRepo{})

	actor := sessionFor(rbac.RoleSuperAdmin)
	_, err := uc.ChangeRole(context.Background(), actor, actor.UserID, &dto.ChangeRoleRequest{Role: "patient"})

	assert.ErrorIs(t, err, ErrSelfRoleChange)
}

func TestChangeRoleTargetMissing(t *testing.T) {
	directory := newStubDirectory()
	uc, _ := newRoleUsecase(t, directory, &stubAuditRepo{})

	_, err := uc.ChangeRole(context.Background(), sessionFor(rbac.RoleAdmin), uuid.New(), &dto.ChangeRoleRequest{Role: "doctor"})

	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestListUsersCaches(t *testing.T) {
	directory := newStubDirectory()
	uc, _ := newRoleUsecase(t, directory, &stubAuditRepo{})

	addDirectoryUser(directory, rbac.RolePatient)
	actor := sessionFor(rbac.RoleAdmin)

	first, err := uc.ListUsers(context.Background(), actor, 1, 20)
	require.NoError(t, err)
	second, err := uc.ListUsers(context.Background(), actor, 1, 20)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, directory.listCalls, "second page read must come from cache")
}

func TestAssignableRoles(t *testing.T) {
	uc, _ := newRoleUsecase(t, newStubDirectory(), &stubAuditRepo{})

	resp := uc.AssignableRoles(sessionFor(rbac.RoleAdmin))
	require.Equal(t, 3, resp.Total)
	assert.Equal(t, "location_admin", resp.Roles[0].Name)
	assert.Equal(t, "Location Administrator", resp.Roles[0].Label)

	resp = uc.AssignableRoles(sessionFor(rbac.RolePatient))
	assert.Zero(t, resp.Total)
}

func TestAllRoles(t *testing.T) {
	uc, _ := newRoleUsecase(t, newStubDirectory(), &stubAuditRepo{})

	resp := uc.AllRoles()
	require.Equal(t, len(rbac.Hierarchy), resp.Total)
	assert.Equal(t, "patient", resp.Roles[0].Name)
	assert.Equal(t, "super_admin", resp.Roles[len(resp.Roles)-1].Name)
}
