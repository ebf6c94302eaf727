package handlers

import (
	"net/http"

	"studiobook/services/scheduling"
	"studiobook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BlackoutHandler exposes the blackout registry over HTTP.
type BlackoutHandler struct {
	Service scheduling.Service
	Logger  *zap.Logger
}

func NewBlackoutHandler(svc scheduling.Service, logger *zap.Logger) *BlackoutHandler {
	return &BlackoutHandler{Service: svc, Logger: logger}
}

// BlockDateHandler handles POST /api/blackouts. A DuplicateBlockError comes
// back as 409 with the existing reason so the UI can offer a confirmable
// no-op instead of silently overwriting.
func (h *BlackoutHandler) BlockDateHandler(c *gin.Context) {
	var input struct {
		Date   string `json:"date" binding:"required"`
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	blackout, err := h.Service.BlockDate(c.Request.Context(), input.Date, input.Reason)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, blackout)
}

// UnblockDateHandler handles DELETE /api/blackouts/:date.
func (h *BlackoutHandler) UnblockDateHandler(c *gin.Context) {
	if err := h.Service.UnblockDate(c.Request.Context(), c.Param("date")); err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"unblocked": true})
}

// ListBlackoutsHandler handles GET /api/blackouts?from=...&to=...
func (h *BlackoutHandler) ListBlackoutsHandler(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" || to == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "from and to query parameters are required")
		return
	}
	blackouts, err := h.Service.ListBlackouts(c.Request.Context(), from, to)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blackouts": blackouts})
}
