package handlers

import (
	"marketplace/internal/models"
	"marketplace/internal/services"

	"github.com/gin-gonic/gin"
)

type DeliveryHandler struct {
	deliveryService services.DeliveryService
}

func NewDeliveryHandler(deliveryService services.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

func (h *DeliveryHandler) GetDeliveries(c *gin.Context) {
	deliveries, err := h.deliveryService.GetUserDeliveries(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Deliveries retrieved", deliveries)
}

func (h *DeliveryHandler) GetDelivery(c *gin.Context) {
	deliveryID, ok := paramID(c, "id")
	if !ok {
		return
	}

	delivery, err := h.deliveryService.GetDelivery(currentUser(c), deliveryID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Delivery retrieved", delivery)
}

func (h *DeliveryHandler) UpdateDeliveryStatus(c *gin.Context) {
	deliveryID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status models.DeliveryStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}

	delivery, err := h.deliveryService.UpdateDeliveryStatus(currentUser(c), deliveryID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Delivery status updated", delivery)
}

func (h *DeliveryHandler) AssignDriver(c *gin.Context) {
	deliveryID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		DriverID uint `json:"driver_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}

	delivery, err := h.deliveryService.AssignDriverToDelivery(currentUser(c), deliveryID, req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Driver assigned to delivery", delivery)
}

func (h *DeliveryHandler) SetManualDriver(c *gin.Context) {
	deliveryID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input services.ManualDriverInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c)
		return
	}

	delivery, err := h.deliveryService.SetManualDriver(currentUser(c), deliveryID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Manual driver set", delivery)
}

func (h *DeliveryHandler) GetAvailableDeliveries(c *gin.Context) {
	deliveries, err := h.deliveryService.GetAvailableDeliveries(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Available deliveries retrieved", deliveries)
}

func (h *DeliveryHandler) AcceptDelivery(c *gin.Context) {
	deliveryID, ok := paramID(c, "id")
	if !ok {
		return
	}

	delivery, err := h.deliveryService.AcceptDelivery(currentUser(c), deliveryID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Delivery accepted", delivery)
}
