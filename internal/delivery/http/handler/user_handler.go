package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/carewell-health/carewell/internal/delivery/dto"
	"github.com/carewell-health/carewell/internal/delivery/http/middleware"
	"github.com/carewell-health/carewell/internal/usecase"
	"github.com/carewell-health/carewell/pkg/response"
	"github.com/carewell-health/carewell/pkg/validator"
)

type UserHandler struct {
	roleUsecase usecase.RoleManagementUsecase
	validator   *validator.CustomValidator
}

func NewUserHandler(roleUsecase usecase.RoleManagementUsecase, validator *validator.CustomValidator) *UserHandler {
	return &UserHandler{
		roleUsecase: roleUsecase,
		validator:   validator,
	}
}

func (h *UserHandler) GetUsers(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Session information not found")
		return
	}

	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	users, err := h.roleUsecase.ListUsers(r.Context(), sess, page, limit)
	if err != nil {
		response.InternalServerError(w, "Failed to list users")
		return
	}

	response.Success(w, http.StatusOK, "Users retrieved successfully", users)
}

func (h *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Session information not found")
		return
	}

	vars := mux.Vars(r)
	targetID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid user ID", nil)
		return
	}

	var req dto.ChangeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	user, err := h.roleUsecase.ChangeRole(r.Context(), sess, targetID, &req)
	if err != nil {
		switch err {
		case usecase.ErrUnknownRole:
			response.Error(w, http.StatusBadRequest, "Unknown role", nil)
		case usecase.ErrSelfRoleChange:
			response.Error(w, http.StatusConflict, "Cannot change own role", nil)
		case usecase.ErrRoleNotAssignable:
			response.Forbidden(w, "Role is not assignable by your role")
		case usecase.ErrCannotManageUser:
			response.Forbidden(w, "You cannot manage this user")
		case usecase.ErrPermissionDenied:
			response.Forbidden(w, "You don't have permission to manage users")
		case usecase.ErrUserNotFound:
			response.NotFound(w, "User not found")
		default:
			response.InternalServerError(w, "Failed to change role")
		}
		return
	}

	response.Success(w, http.StatusOK, "Role changed successfully", user)
}

func (h *UserHandler) GetAssignableRoles(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		response.Unauthorized(w, "Session information not found")
		return
	}

	response.Success(w, http.StatusOK, "Assignable roles retrieved successfully", h.roleUsecase.AssignableRoles(sess))
}

func (h *UserHandler) GetRoles(w http.ResponseWriter, r *http.Request) {
	response.Success(w, http.StatusOK, "Roles retrieved successfully", h.roleUsecase.AllRoles())
}

func queryInt(r *http.Request, key string, fallback int) int {
	value := r.URL.Query().Get(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
