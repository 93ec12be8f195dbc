package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/pricing-engine/internal/domain"
	"github.com/yungbote/pricing-engine/internal/http/response"
	"github.com/yungbote/pricing-engine/internal/platform/apierr"
	"github.com/yungbote/pricing-engine/internal/services"
)

var errEmptyBatch = errors.New("observations must not be empty")

type ObservationHandler struct {
	svc services.ObservationService
}

func NewObservationHandler(svc services.ObservationService) *ObservationHandler {
	return &ObservationHandler{svc: svc}
}

type observationInput struct {
	ProductID      string     `json:"product_id"`
	Source         string     `json:"source"`
	URL            string     `json:"url"`
	Price          float64    `json:"price"`
	Tier           string     `json:"tier"`
	OutOfStock     bool       `json:"out_of_stock"`
	SellerVerified bool       `json:"seller_verified"`
	SellerJoinedAt *time.Time `json:"seller_joined_at"`
	ObservedAt     *time.Time `json:"observed_at"`
}

type ingestRequest struct {
	Observations []observationInput `json:"observations" binding:"required"`
}

// POST /api/observations
func (h *ObservationHandler) Ingest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, err)
		return
	}
	if len(req.Observations) == 0 {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, errEmptyBatch)
		return
	}
	rows := make([]*types.PriceObservation, 0, len(req.Observations))
	for i, in := range req.Observations {
		productID, err := uuid.Parse(in.ProductID)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, fmt.Errorf("observation %d: invalid product_id", i))
			return
		}
		o := &types.PriceObservation{
			ProductID:      productID,
			Source:         in.Source,
			URL:            in.URL,
			Price:          in.Price,
			Tier:           types.Tier(in.Tier),
			OutOfStock:     in.OutOfStock,
			SellerVerified: in.SellerVerified,
			SellerJoinedAt: in.SellerJoinedAt,
		}
		if in.ObservedAt != nil {
			o.ObservedAt = *in.ObservedAt
		}
		rows = append(rows, o)
	}

	n, err := h.svc.Ingest(c.Request.Context(), rows)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"inserted": n})
}

// GET /api/products/:id/market
func (h *ObservationHandler) MarketIntel(c *gin.Context) {
	productID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	intel, err := h.svc.MarketIntel(c.Request.Context(), productID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, intel)
}
