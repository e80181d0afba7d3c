package handlers

import (
	"marketplace/internal/services"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Register(c *gin.Context) {
	var input services.RegisterUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c)
		return
	}

	user, err := h.userService.RegisterUser(input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "User registered", user)
}

func (h *UserHandler) GetMe(c *gin.Context) {
	respondOK(c, "Current user", currentUser(c))
}

func (h *UserHandler) SetAvailability(c *gin.Context) {
	var req struct {
		IsAvailable *bool `json:"is_available"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.IsAvailable == nil {
		respondBindError(c)
		return
	}

	user, err := h.userService.SetDriverAvailability(currentUser(c), *req.IsAvailable)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Availability updated", user)
}
