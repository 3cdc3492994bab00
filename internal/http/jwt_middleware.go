package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"users-api/internal/domain"
	"users-api/internal/repository"
	"users-api/internal/service"
)

const currentUserKey = "current_user"

// AuthRequired valida el bearer token y resuelve el usuario actual
// contra el repositorio. Un token vigente cuyo sujeto ya no existe o
// está desactivado también es 401: la emisión no sobrevive al borrado.
func AuthRequired(logger *zap.Logger, jwtSvc *service.JWTService, users repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := strings.TrimSpace(c.GetHeader("Authorization"))
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "not authorized to access this route"})
			c.Abort()
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		userID, err := jwtSvc.Parse(token)
		if err != nil {
			logger.Warn("token rejected", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "not authorized to access this route"})
			c.Abort()
			return
		}

		user, err := users.GetByID(c.Request.Context(), userID)
		if err != nil {
			if !pgxNoRows(err) {
				logger.Error("resolve token subject failed", zap.Int64("user_id", userID), zap.Error(err))
			}
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "not authorized to access this route"})
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// OwnerRequired exige que el id del recurso coincida con el usuario
// autenticado. Hay exactamente un rol: dueño del propio registro.
func OwnerRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil || id <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid user id format"})
			c.Abort()
			return
		}

		user, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "not authorized to access this route"})
			c.Abort()
			return
		}

		if user.ID != id {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "message": "you do not have permission to perform this action"})
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser obtiene el usuario autenticado desde el contexto.
func CurrentUser(c *gin.Context) (domain.User, bool) {
	val, ok := c.Get(currentUserKey)
	if !ok {
		return domain.User{}, false
	}
	user, ok := val.(domain.User)
	return user, ok
}

func pgxNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
