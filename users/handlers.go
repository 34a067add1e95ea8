package users

import (
	"api/domain"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// UserStore is the persistence collaborator contract the handlers need.
type UserStore interface {
	CreateUser(ctx context.Context, name, role string) (int64, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	DeleteUsers(ctx context.Context) error
}

type UsersHandler struct {
	store UserStore
}

func NewUsersHandler(store UserStore) *UsersHandler {
	return &UsersHandler{store: store}
}

type createUserRequest struct {
	Name string `json:"name" binding:"required"`
	Role string `json:"role" binding:"required"`
}

func (h *UsersHandler) CreateHandler(ctx *gin.Context) {
	var req createUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid-body"})
		return
	}

	id, err := h.store.CreateUser(ctx.Request.Context(), req.Name, req.Role)
	if err != nil {
		log.Error().Err(err).Msg("create user")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"id": id})
}

func (h *UsersHandler) ListHandler(ctx *gin.Context) {
	users, err := h.store.ListUsers(ctx.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("list users")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		return
	}
	ctx.JSON(http.StatusOK, users)
}

func (h *UsersHandler) DeleteAllHandler(ctx *gin.Context) {
	if err := h.store.DeleteUsers(ctx.Request.Context()); err != nil {
		log.Error().Err(err).Msg("delete users")
		ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "unknown-error"})
		return
	}
	ctx.Status(http.StatusNoContent)
}
