package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/carewell-health/carewell/internal/converter"
	"github.com/carewell-health/carewell/internal/delivery/dto"
	"github.com/carewell-health/carewell/internal/domain/repository"
	"github.com/carewell-health/carewell/internal/rbac"
	"github.com/carewell-health/carewell/internal/service"
)

var (
	ErrUnknownRole       = errors.New("unknown role")
	ErrRoleNotAssignable = errors.New("role is not assignable by the caller")
	ErrCannotManageUser  = errors.New("caller cannot manage the target user")
	ErrSelfRoleChange    = errors.New("cannot change own role")
	ErrPermissionDenied  = errors.New("permission denied")
	ErrUserNotFound      = errors.New("user not found")
)

const (
	userListCachePrefix = "directory:users:"
	userListCacheTTL    = time.Minute
)

type RoleManagementUsecase interface {
	ListUsers(ctx context.Context, actor *repository.Session, page, limit int) (*dto.UserListResponse, error)
	AssignableRoles(actor *repository.Session) *dto.RoleListResponse
	AllRoles() *dto.RoleListResponse
	ChangeRole(ctx context.Context, actor *repository.Session, targetID uuid.UUID, req *dto.ChangeRoleRequest) (*dto.UserResponse, error)
}

type roleManagementUsecase struct {
	log         *logrus.Logger
	directory   repository.UserDirectory
	audit       service.AuditRecorder
	redisClient *redis.Client
}

func NewRoleManagementUsecase(
	log *logrus.Logger,
	directory repository.UserDirectory,
	audit service.AuditRecorder,
	redisClient *redis.Client,
) RoleManagementUsecase {
	return &roleManagementUsecase{
		log:         log,
		directory:   directory,
		audit:       audit,
		redisClient: redisClient,
	}
}

func (u *roleManagementUsecase) ListUsers(ctx context.Context, actor *repository.Session, page, limit int) (*dto.UserListResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	cacheKey := fmt.Sprintf("%spage:%d:limit:%d", userListCachePrefix, page, limit)
	if cached, err := u.redisClient.Get(ctx, cacheKey).Result(); err == nil {
		var resp dto.UserListResponse
		if err := json.Unmarshal([]byte(cached), &resp); err == nil {
			return &resp, nil
		}
	}

	users, total, err := u.directory.ListUsers(ctx, page, limit)
	if err != nil {
		u.log.Warnf("Failed to list directory users: %+v", err)
		return nil, err
	}

	resp := &dto.UserListResponse{
		Users: converter.UsersToResponses(users),
		Total: total,
	}

	if payload, err := json.Marshal(resp); err == nil {
		if err := u.redisClient.Set(ctx, cacheKey, payload, userListCacheTTL).Err(); err != nil {
			u.log.Warnf("Failed to cache user list: %+v", err)
		}
	}

	return resp, nil
}

func (u *roleManagementUsecase) AssignableRoles(actor *repository.Session) *dto.RoleListResponse {
	roles := rbac.AssignableRoles(actor.ParsedRole())
	return &dto.RoleListResponse{
		Roles: converter.RolesToResponses(roles),
		Total: len(roles),
	}
}

func (u *roleManagementUsecase) AllRoles() *dto.RoleListResponse {
	return &dto.RoleListResponse{
		Roles: converter.RolesToResponses(rbac.Hierarchy),
		Total: len(rbac.Hierarchy),
	}
}

func (u *roleManagementUsecase) ChangeRole(ctx context.Context, actor *repository.Session, targetID uuid.UUID, req *dto.ChangeRoleRequest) (*dto.UserResponse, error) {
	actorRole := actor.ParsedRole()

	newRole, ok := rbac.Parse(req.Role)
	if !ok {
		return nil, ErrUnknownRole
	}

	// The route middleware already checks this; the usecase re-checks so
	// the invariant holds for every caller, not just the HTTP path.
	if !rbac.HasPermission(actorRole, rbac.PermissionManageUsers) {
		u.audit.RecordRoleChangeDenied(ctx, actor, targetID, newRole, "missing manage_users permission")
		return nil, ErrPermissionDenied
	}

	if targetID == actor.UserID {
		u.audit.RecordRoleChangeDenied(ctx, actor, targetID, newRole, "self role change")
		return nil, ErrSelfRoleChange
	}

	if !rbac.CanAssign(actorRole, newRole) {
		u.audit.RecordRoleChangeDenied(ctx, actor, targetID, newRole, "role not assignable")
		return nil, ErrRoleNotAssignable
	}

	target, err := u.directory.GetUser(ctx, targetID)
	if err != nil {
		u.log.Warnf("Failed to fetch target user: %+v", err)
		return nil, err
	}
	if target == nil {
		return nil, ErrUserNotFound
	}

	targetRole, ok := rbac.Parse(target.Role)
	if !ok {
		targetRole = rbac.RolePatient
	}
	if !rbac.CanManage(actorRole, targetRole) {
		u.audit.RecordRoleChangeDenied(ctx, actor, targetID, newRole, "cannot manage target role")
		return nil, ErrCannotManageUser
	}

	if err := u.directory.UpdateUserRole(ctx, targetID, newRole); err != nil {
		u.log.Warnf("Failed to update user role: %+v", err)
		return nil, err
	}

	u.audit.RecordRoleChange(ctx, actor, targetID, targetRole, newRole)
	u.invalidateUserListCache(ctx)

	target.Role = string(newRole)
	return converter.UserToResponse(target), nil
}

func (u *roleManagementUsecase) invalidateUserListCache(ctx context.Context) {
	iter := u.redisClient.Scan(ctx, 0, userListCachePrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := u.redisClient.Del(ctx, iter.Val()).Err(); err != nil {
			u.log.Warnf("Failed to invalidate user list cache key %s: %+v", iter.Val(), err)
		}
	}
	if err := iter.Err(); err != nil {
		u.log.Warnf("Failed to scan user list cache keys: %+v", err)
	}
}
