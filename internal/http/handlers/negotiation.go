package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/pricing-engine/internal/http/response"
	"github.com/yungbote/pricing-engine/internal/platform/apierr"
	"github.com/yungbote/pricing-engine/internal/services"
)

type NegotiationHandler struct {
	svc services.NegotiationService
}

func NewNegotiationHandler(svc services.NegotiationService) *NegotiationHandler {
	return &NegotiationHandler{svc: svc}
}

type negotiateRequest struct {
	ProductID    string   `json:"product_id" binding:"required"`
	CustomerID   string   `json:"customer_id"`
	OfferedPrice *float64 `json:"offered_price"`
	Message      string   `json:"message"`
}

// POST /api/negotiations takes either an explicit offered_price or a free-text message.
func (h *NegotiationHandler) Negotiate(c *gin.Context) {
	var req negotiateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, err)
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, errors.New("invalid product_id"))
		return
	}
	customerID, err := parseOptionalUUID(req.CustomerID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, errors.New("invalid customer_id"))
		return
	}

	var res *services.NegotiationResult
	switch {
	case req.OfferedPrice != nil:
		res, err = h.svc.Negotiate(c.Request.Context(), services.NegotiateRequest{
			ProductID:    productID,
			CustomerID:   customerID,
			OfferedPrice: *req.OfferedPrice,
		})
	case strings.TrimSpace(req.Message) != "":
		res, err = h.svc.NegotiateText(c.Request.Context(), productID, customerID, req.Message)
	default:
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, errors.New("offered_price or message is required"))
		return
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, res)
}
