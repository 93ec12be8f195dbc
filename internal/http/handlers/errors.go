package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/pricing-engine/internal/http/response"
	"github.com/yungbote/pricing-engine/internal/platform/apierr"
	"github.com/yungbote/pricing-engine/internal/pricing"
	"github.com/yungbote/pricing-engine/internal/services"
)

func toAPIError(err error) *apierr.Error {
	switch {
	case errors.Is(err, services.ErrProductNotFound), errors.Is(err, services.ErrCustomerNotFound):
		return apierr.NotFound(err)
	case errors.Is(err, services.ErrInvalidOffer),
		errors.Is(err, services.ErrInvalidTier),
		errors.Is(err, services.ErrInvalidInput),
		errors.Is(err, pricing.ErrNoOffer):
		return apierr.BadRequest(err)
	case errors.Is(err, services.ErrDecisionLog):
		return apierr.New(http.StatusInternalServerError, apierr.CodeDecisionLogFailed, err)
	default:
		return apierr.From(err)
	}
}

func respondServiceError(c *gin.Context, err error) {
	response.RespondAPIError(c, toAPIError(err))
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, apierr.CodeInvalidRequest, errors.New("invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

func parseOptionalUUID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
