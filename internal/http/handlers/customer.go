package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/pricing-engine/internal/http/response"
	"github.com/yungbote/pricing-engine/internal/platform/apierr"
	"github.com/yungbote/pricing-engine/internal/services"
)

type CustomerHandler struct {
	svc services.ProfileService
}

func NewCustomerHandler(svc services.ProfileService) *CustomerHandler {
	return &CustomerHandler{svc: svc}
}

type ensureCustomerRequest struct {
	Phone string `json:"phone" binding:"required"`
	Name  string `json:"name"`
}

// POST /api/customers resolves the gateway's phone number to a customer record.
func (h *CustomerHandler) EnsureCustomer(c *gin.Context) {
	var req ensureCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, err)
		return
	}
	customer, err := h.svc.EnsureCustomer(c.Request.Context(), req.Phone, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, customer)
}

type signalRequest struct {
	Message string `json:"message" binding:"required"`
}

// POST /api/customers/:id/signals
func (h *CustomerHandler) RecordSignal(c *gin.Context) {
	customerID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req signalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, err)
		return
	}
	res, err := h.svc.RecordSignal(c.Request.Context(), customerID, req.Message)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, res)
}
