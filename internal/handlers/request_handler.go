package handlers

import (
	"marketplace/internal/services"

	"github.com/gin-gonic/gin"
)

type RequestToDriverHandler struct {
	requestService services.RequestToDriverService
}

func NewRequestToDriverHandler(requestService services.RequestToDriverService) *RequestToDriverHandler {
	return &RequestToDriverHandler{requestService: requestService}
}

func (h *RequestToDriverHandler) GetRequests(c *gin.Context) {
	requests, err := h.requestService.GetUserRequests(currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Driver requests retrieved", requests)
}

func (h *RequestToDriverHandler) GetRequest(c *gin.Context) {
	requestID, ok := paramID(c, "id")
	if !ok {
		return
	}

	request, err := h.requestService.GetRequest(currentUser(c), requestID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Driver request retrieved", request)
}

func (h *RequestToDriverHandler) ProposePrice(c *gin.Context) {
	requestID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		ProposedPrice float64 `json:"proposed_price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c)
		return
	}

	request, err := h.requestService.ProposePrice(currentUser(c), requestID, req.ProposedPrice)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Price proposed", request)
}

func (h *RequestToDriverHandler) ApproveRequest(c *gin.Context) {
	requestID, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req struct {
		FinalPrice *float64 `json:"final_price"`
	}
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		respondBindError(c)
		return
	}

	request, err := h.requestService.ApproveRequest(currentUser(c), requestID, req.FinalPrice)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Driver request approved", request)
}

func (h *RequestToDriverHandler) RejectRequest(c *gin.Context) {
	requestID, ok := paramID(c, "id")
	if !ok {
		return
	}

	request, err := h.requestService.RejectRequest(currentUser(c), requestID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, "Driver request rejected", request)
}
