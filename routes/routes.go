package routes

import (
	"studiobook/handlers"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all endpoints for the booking engine.
func RegisterRoutes(
	r *gin.Engine,
	reservations *handlers.ReservationHandler,
	availability *handlers.AvailabilityHandler,
	blackouts *handlers.BlackoutHandler,
	imports *handlers.ImportHandler,
	reconcile *handlers.ReconcileHandler,
) {
	api := r.Group("/api")
	{
		res := api.Group("/reservations")
		{
			res.POST("", reservations.CreateReservationHandler)
			res.GET("", reservations.ListReservationsHandler)
			res.GET("/:id", reservations.GetReservationHandler)
			res.PUT("/:id/status", reservations.UpdateStatusHandler)
			res.PUT("/:id/payment", reservations.UpdatePaymentHandler)
			res.DELETE("/:id", reservations.DeleteReservationHandler)
		}

		api.GET("/availability/:date", availability.GetAvailabilityHandler)

		blk := api.Group("/blackouts")
		{
			blk.POST("", blackouts.BlockDateHandler)
			blk.GET("", blackouts.ListBlackoutsHandler)
			blk.DELETE("/:date", blackouts.UnblockDateHandler)
		}

		imp := api.Group("/import")
		{
			imp.POST("/prepare", imports.PrepareImportHandler)
			imp.POST("/commit", imports.CommitImportHandler)
		}

		api.POST("/reconcile", reconcile.RunReconcileHandler)
	}
}
