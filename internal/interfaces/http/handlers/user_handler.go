package handlers

import (
	"context"
	"net/http"
	"strings"

	"escrow-broker.backend/internal/domain/entities"
	"escrow-broker.backend/internal/interfaces/http/response"
	"escrow-broker.backend/internal/usecases"
	"escrow-broker.backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type userService interface {
	GetMe(ctx context.Context, userID uuid.UUID) (*entities.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, input *entities.UpdateProfileInput) (*entities.User, error)
	ListUsers(ctx context.Context, filter entities.UserFilter, page utils.PaginationParams) ([]*entities.User, int64, error)
	GetUser(ctx context.Context, id uuid.UUID) (*entities.User, error)
	SetRole(ctx context.Context, admin entities.Actor, id uuid.UUID, role entities.UserRole) (*entities.User, error)
}

// UserHandler handles profile and admin user endpoints
type UserHandler struct {
	userUsecase userService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userUsecase *usecases.UserUsecase) *UserHandler {
	return &UserHandler{userUsecase: userUsecase}
}

// GetMe GET /api/v1/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	user, err := h.userUsecase.GetMe(c.Request.Context(), actor.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// UpdateMe PUT /api/v1/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	var input entities.UpdateProfileInput
	if !bindJSON(c, &input) {
		return
	}
	user, err := h.userUsecase.UpdateProfile(c.Request.Context(), actor.UserID, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// ListUsers GET /api/v1/users?search=&role=
func (h *UserHandler) ListUsers(c *gin.Context) {
	filter := entities.UserFilter{
		Search: strings.TrimSpace(c.Query("search")),
		Role:   entities.UserRole(strings.ToUpper(c.Query("role"))),
	}
	page := pageParams(c)

	users, total, err := h.userUsecase.ListUsers(c.Request.Context(), filter, page)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, users, total, page)
}

// GetUser GET /api/v1/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	id, ok := uuidParam(c, "id", "user")
	if !ok {
		return
	}
	user, err := h.userUsecase.GetUser(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}

// SetRole PUT /api/v1/users/:id/role
func (h *UserHandler) SetRole(c *gin.Context) {
	actor, ok := actorOrAbort(c)
	if !ok {
		return
	}
	id, ok := uuidParam(c, "id", "user")
	if !ok {
		return
	}
	var input entities.UpdateRoleInput
	if !bindJSON(c, &input) {
		return
	}
	user, err := h.userUsecase.SetRole(c.Request.Context(), actor, id, input.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, user)
}
