package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"users-api/internal/repository"
	"users-api/internal/service"
)

// UserHandler mantiene dependencias para los endpoints de usuarios.
type UserHandler struct {
	logger *zap.Logger
	users  *service.UserService
}

func NewUserHandler(logger *zap.Logger, users *service.UserService) *UserHandler {
	return &UserHandler{
		logger: logger,
		users:  users,
	}
}

// List maneja GET /api/v1/users.
func (h *UserHandler) List(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 10)

	result, err := h.users.List(c.Request.Context(), page, limit)
	if err != nil {
		h.logger.Error("list users failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not list users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": result})
}

// Get maneja GET /api/v1/users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.respondLifecycleError(c, "get user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": user})
}

// Update maneja PUT /api/v1/users/:id. Solo cambia los campos
// presentes en el body; los omitidos conservan su valor.
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	var req struct {
		Name *string `json:"name" binding:"omitempty,min=2"`
		Age  *int    `json:"age" binding:"omitempty,gte=0,lte=150"`
		City *string `json:"city"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request", "errors": []string{err.Error()}})
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, service.UpdateUserInput{
		Name: req.Name,
		Age:  req.Age,
		City: req.City,
	})
	if err != nil {
		h.respondLifecycleError(c, "update user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "user updated successfully", "data": user})
}

// Delete maneja DELETE /api/v1/users/:id. El borrado es permanente.
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		h.respondLifecycleError(c, "delete user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "user deleted successfully"})
}

func (h *UserHandler) respondLifecycleError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid user id format"})
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "user not found"})
	case errors.Is(err, repository.ErrForeignKey):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "referenced record does not exist"})
	default:
		h.logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "could not " + op})
	}
}

// paramID parsea el id de la ruta. Un id no numérico se rechaza antes
// de tocar el repositorio.
func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid user id format"})
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	value, err := strconv.Atoi(c.DefaultQuery(key, strconv.Itoa(fallback)))
	if err != nil {
		return fallback
	}
	return value
}
