package handlers

import (
	"marketplace/internal/models"
	"marketplace/internal/services"

	"github.com/gin-gonic/gin"
)

type DealHandler struct {
	dealService services.DealService
}

func NewDealHandler(dealService services.DealService) *DealHandler {
	return &DealHandler{dealService: dealService}
}

func (h *DealHandler) CreateDeal(c *gin.Context) {
	var input services.CreateDealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c)
		return
	}

	deal, err := h.dealService.CreateDeal(currentUser(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "Deal created", deal)
}

func (h *DealHandler) GetDeals(c *gin.Context) {
	deals, err := h.dealService.GetUserDeals(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Deals retrieved", deals)
}

func (h *DealHandler) GetDeal(c *gin.Context) {
	dealID, ok := paramID(c, "id")
	if !ok {
		return
	}

	deal, err := h.dealService.GetDeal(currentUser(c), dealID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Deal retrieved", deal)
}

func (h *DealHandler) UpdateDeal(c *gin.Context) {
	dealID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input services.UpdateDealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c)
		return
	}

	deal, err := h.dealService.UpdateDeal(currentUser(c), dealID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Deal updated", deal)
}

func (h *DealHandler) ApproveDeal(c *gin.Context) {
	dealID, ok := paramID(c, "id")
	if !ok {
		return
	}

	deal, err := h.dealService.ApproveDeal(currentUser(c), dealID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Deal approved", deal)
}

func (h *DealHandler) UpdateDealStatus(c *gin.Context) {
	dealID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status models.DealStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}

	deal, err := h.dealService.UpdateDealStatus(currentUser(c), dealID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Deal status updated", deal)
}

func (h *DealHandler) AssignDriver(c *gin.Context) {
	dealID, ok := paramID(c, "id")
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

	deal, err := h.dealService.AssignDriverToDeal(currentUser(c), dealID, req.DriverID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Driver assigned", deal)
}

func (h *DealHandler) RequestDriver(c *gin.Context) {
	dealID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		DriverID       uint    `json:"driver_id"`
		RequestedPrice float64 `json:"requested_price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}

	request, err := h.dealService.RequestDriverForDeal(currentUser(c), dealID, req.DriverID, req.RequestedPrice)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "Driver request created", request)
}

func (h *DealHandler) CompleteDeal(c *gin.Context) {
	dealID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var input services.CompleteDealInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c)
		return
	}

	deliveries, err := h.dealService.CompleteDeal(currentUser(c), dealID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "Deliveries created", deliveries)
}

func (h *DealHandler) GetFeeSplit(c *gin.Context) {
	dealID, ok := paramID(c, "id")
	if !ok {
		return
	}

	deal, err := h.dealService.GetDeal(currentUser(c), dealID)
	if err != nil {
		respondError(c, err)
		return
	}
	split, err := h.dealService.DeliveryFeeSplit(deal)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Delivery fee split", split)
}

func (h *DealHandler) AddItem(c *gin.Context) {
	dealID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req services.DealItemInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}

	deal, err := h.dealService.AddDealItem(currentUser(c), dealID, req.ProductID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondCreated(c, "Deal item added", deal)
}

func (h *DealHandler) UpdateItem(c *gin.Context) {
	itemID, ok := paramID(c, "item_id")
	if !ok {
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}

	deal, err := h.dealService.UpdateDealItem(currentUser(c), itemID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Deal item updated", deal)
}

func (h *DealHandler) RemoveItem(c *gin.Context) {
	itemID, ok := paramID(c, "item_id")
	if !ok {
		return
	}

	deal, err := h.dealService.RemoveDealItem(currentUser(c), itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Deal item removed", deal)
}
