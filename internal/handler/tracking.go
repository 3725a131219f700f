package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Fer-Psy/tr4cking/internal/apierror"
	"github.com/Fer-Psy/tr4cking/internal/dto"
	"github.com/Fer-Psy/tr4cking/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

const trackingCacheTTL = 5 * time.Minute

// TrackingHandler serves the public parcel tracking endpoint.
// No authentication required; the response exposes state and route only.
type TrackingHandler struct {
	svc service.EncomiendaService
	rdb *redis.Client
}

func NewTrackingHandler(svc service.EncomiendaService, rdb *redis.Client) *TrackingHandler {
	return &TrackingHandler{svc: svc, rdb: rdb}
}

// Rastrear godoc
// @Summary Consulta pública del estado de una encomienda por código
// @Tags tracking
// @Produce json
// @Param codigo path string true "Código de encomienda"
// @Success 200 {object} dto.TrackingResponse
// @Failure 404 {object} apierror.APIError
// @Router /v1/tracking/{codigo} [get]
func (h *TrackingHandler) Rastrear(c *gin.Context) {
	codigo := c.Param("codigo")
	ctx := c.Request.Context()
	cacheKey := "tracking:" + codigo

	// 1. Redis cache first; tracking pages poll aggressively
	if cached, err := h.rdb.Get(ctx, cacheKey).Bytes(); err == nil {
		var resp dto.TrackingResponse
		if jsonErr := json.Unmarshal(cached, &resp); jsonErr == nil {
			c.JSON(http.StatusOK, resp)
			return
		}
	}

	// 2. Cache miss: query DB
	resp, err := h.svc.Rastrear(ctx, codigo)
	if err != nil {
		c.JSON(http.StatusNotFound, apierror.New("Encomienda no encontrada"))
		return
	}

	// 3. Populate cache, best effort
	if b, jsonErr := json.Marshal(resp); jsonErr == nil {
		_ = h.rdb.Set(context.Background(), cacheKey, b, trackingCacheTTL).Err()
	}

	c.JSON(http.StatusOK, resp)
}
