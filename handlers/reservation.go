package handlers

import (
	"errors"
	"net/http"

	blackoutRepo "studiobook/database/repository/blackout"
	ledgerRepo "studiobook/database/repository/ledger"
	"studiobook/models"
	"studiobook/services/scheduling"
	"studiobook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReservationHandler exposes the ledger operations over HTTP.
type ReservationHandler struct {
	Service scheduling.Service
	Logger  *zap.Logger
}

func NewReservationHandler(svc scheduling.Service, logger *zap.Logger) *ReservationHandler {
	return &ReservationHandler{Service: svc, Logger: logger}
}

// CreateReservationHandler handles POST /api/reservations.
func (h *ReservationHandler) CreateReservationHandler(c *gin.Context) {
	var input models.ReservationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	res, err := h.Service.CreateReservation(c.Request.Context(), input)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GetReservationHandler handles GET /api/reservations/:id.
func (h *ReservationHandler) GetReservationHandler(c *gin.Context) {
	res, err := h.Service.GetReservation(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// ListReservationsHandler handles GET /api/reservations?date=2006-01-02.
func (h *ReservationHandler) ListReservationsHandler(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", "date query parameter is required")
		return
	}
	reservations, err := h.Service.ListReservations(c.Request.Context(), date)
	if err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "reservations": reservations})
}

// UpdateStatusHandler handles PUT /api/reservations/:id/status.
func (h *ReservationHandler) UpdateStatusHandler(c *gin.Context) {
	var input struct {
		Status models.ReservationStatus `json:"status" binding:"required"`
		Reason string                   `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if err := h.Service.UpdateStatus(c.Request.Context(), c.Param("id"), input.Status, input.Reason); err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": input.Status})
}

// UpdatePaymentHandler handles PUT /api/reservations/:id/payment.
func (h *ReservationHandler) UpdatePaymentHandler(c *gin.Context) {
	var payment models.PaymentBreakdown
	if err := c.ShouldBindJSON(&payment); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if err := h.Service.UpdatePayment(c.Request.Context(), c.Param("id"), payment); err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// DeleteReservationHandler handles DELETE /api/reservations/:id.
func (h *ReservationHandler) DeleteReservationHandler(c *gin.Context) {
	if err := h.Service.DeleteReservation(c.Request.Context(), c.Param("id")); err != nil {
		respondSchedulingError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// respondSchedulingError maps the scheduling error taxonomy onto HTTP.
func respondSchedulingError(c *gin.Context, err error) {
	var taken *scheduling.SlotTakenError
	var dup *scheduling.DuplicateBlockError
	var transition *scheduling.InvalidTransitionError
	var transient *scheduling.TransientStoreError

	switch {
	case errors.As(err, &taken):
		utils.JSONError(c, http.StatusConflict, "slot taken", err.Error())
	case errors.As(err, &dup):
		utils.JSONError(c, http.StatusConflict, "date already blocked", err.Error())
	case errors.Is(err, scheduling.ErrDateBlocked):
		utils.JSONError(c, http.StatusConflict, "date blocked", err.Error())
	case errors.As(err, &transition):
		utils.JSONError(c, http.StatusUnprocessableEntity, "invalid status transition", err.Error())
	case errors.Is(err, scheduling.ErrInvalidInput):
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
	case errors.Is(err, ledgerRepo.ErrNotFound), errors.Is(err, blackoutRepo.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "not found", err.Error())
	case errors.As(err, &transient):
		utils.JSONError(c, http.StatusServiceUnavailable, "store temporarily unavailable", err.Error())
	default:
		utils.JSONError(c, http.StatusInternalServerError, "internal error", err.Error())
	}
}
