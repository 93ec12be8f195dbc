package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/pricing-engine/internal/flashcode"
	"github.com/yungbote/pricing-engine/internal/http/response"
	"github.com/yungbote/pricing-engine/internal/platform/apierr"
	"github.com/yungbote/pricing-engine/internal/services"
)

type DecisionHandler struct {
	svc services.DecisionService
}

func NewDecisionHandler(svc services.DecisionService) *DecisionHandler {
	return &DecisionHandler{svc: svc}
}

type decideRequest struct {
	ProductID  string   `json:"product_id" binding:"required"`
	CustomerID string   `json:"customer_id"`
	Claim      *float64 `json:"claim"`
}

// POST /api/decisions
func (h *DecisionHandler) Decide(c *gin.Context) {
	var req decideRequest
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

	res, err := h.svc.Decide(c.Request.Context(), services.DecideRequest{
		ProductID:  productID,
		CustomerID: customerID,
		Claim:      req.Claim,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, res)
}

// GET /api/products/:id/decisions
func (h *DecisionHandler) ListDecisions(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, errors.New("limit must be a positive integer"))
			return
		}
		limit = n
	}
	rows, err := h.svc.ListDecisions(c.Request.Context(), productID, limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"decisions": rows})
}

type redeemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// POST /api/flash-codes/:code/redeem
func (h *DecisionHandler) RedeemFlashCode(c *gin.Context) {
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, err)
		return
	}
	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, errors.New("invalid product_id"))
		return
	}

	red, err := h.svc.RedeemFlashCode(c.Request.Context(), c.Param("code"), productID)
	switch {
	case errors.Is(err, flashcode.ErrNotFound), errors.Is(err, flashcode.ErrProductMismatch):
		response.RespondOK(c, gin.H{"valid": false})
		return
	case err != nil:
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{
		"valid":       true,
		"price":       red.Price,
		"decision_id": red.DecisionID,
	})
}
