package handlers

import (
	"net/http"
	"time"

	"studiobook/config"
	"studiobook/services/scheduling"
	"studiobook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReconcileHandler triggers an on-demand consistency sweep, the same pass
// the background worker runs on its schedule.
type ReconcileHandler struct {
	Reconciler *scheduling.Reconciler
	Logger     *zap.Logger
}

func NewReconcileHandler(rec *scheduling.Reconciler, logger *zap.Logger) *ReconcileHandler {
	return &ReconcileHandler{Reconciler: rec, Logger: logger}
}

// RunReconcileHandler handles POST /api/reconcile. Range defaults to today
// through the configured horizon.
func (h *ReconcileHandler) RunReconcileHandler(c *gin.Context) {
	from := c.Query("from")
	to := c.Query("to")
	if from == "" {
		from = time.Now().Format(utils.DateFormat)
	}
	if to == "" {
		horizon := config.AppConfig.ReconcileHorizonDays
		to = time.Now().AddDate(0, 0, horizon).Format(utils.DateFormat)
	}

	report, err := h.Reconciler.Reconcile(c.Request.Context(), from, to)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
