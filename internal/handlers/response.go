package handlers

import (
	"net/http"

	"marketplace/internal/apperrors"

	"github.com/gin-gonic/gin"
)

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func respondError(c *gin.Context, err error) {
	c.JSON(apperrors.StatusCode(err), gin.H{
		"success": false,
		"message": err.Error(),
	})
}

func respondBindError(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Invalid request format",
	})
}
