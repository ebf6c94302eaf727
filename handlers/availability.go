package handlers

import (
	"net/http"
	"time"

	"studiobook/services/scheduling"
	"studiobook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AvailabilityHandler serves the derived per-date slot view. Reads are
// advisory snapshots; booking commit re-validates transactionally.
type AvailabilityHandler struct {
	Service scheduling.AvailabilityService
	Logger  *zap.Logger
}

func NewAvailabilityHandler(svc scheduling.AvailabilityService, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc, Logger: logger}
}

// GetAvailabilityHandler handles GET /api/availability/:date. A malformed
// date would compute a plausible all-open view, so it is rejected up front.
func (h *AvailabilityHandler) GetAvailabilityHandler(c *gin.Context) {
	date := c.Param("date")
	if _, err := time.Parse(utils.DateFormat, date); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "date must be in "+utils.DateFormat+" form")
		return
	}

	view, err := h.Service.Availability(c.Request.Context(), date)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
