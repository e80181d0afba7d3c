package handlers

import (
	"net/http"
	"strconv"

	"marketplace/internal/models"
	"marketplace/internal/services"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// IdentityMiddleware resolves the acting user from the X-User-ID header and
// stores it in the request context. Requests without a valid user are
// rejected before they reach a handler.
func IdentityMiddleware(userService services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("X-User-ID")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "X-User-ID header is required",
			})
			return
		}
		userID, err := strconv.ParseUint(header, 10, 32)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Invalid X-User-ID header",
			})
			return
		}
		user, err := userService.GetUserByID(uint(userID))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "User not found",
			})
			return
		}
		c.Set(currentUserKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *models.User {
	return c.MustGet(currentUserKey).(*models.User)
}

func paramID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Invalid " + name,
		})
		return 0, false
	}
	return uint(id), true
}
