package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kusa331/ORBIT/internal/bell"
	"github.com/Kusa331/ORBIT/internal/config"
	"github.com/Kusa331/ORBIT/internal/db"
	"github.com/Kusa331/ORBIT/internal/logging"
	"github.com/Kusa331/ORBIT/internal/notification"
)

func NewRouter(database *db.DB, bellSvc *bell.Service, notif *notification.Service, logger *logging.Logger, cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLoggingMiddleware(logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := NewHandler(database, bellSvc, notif, logger)
	api := r.Group(cfg.API.BasePath)
	api.Use(ViewerMiddleware())
	{
		// Facilities
		api.GET("/facilities", h.GetFacilities)

		// Bookings
		api.POST("/bookings", h.CreateBooking)
		api.GET("/bookings/my", h.GetMyBookings)
		api.GET("/bookings", AdminOnly(), h.GetAllBookings)
		api.POST("/bookings/:id/approve", AdminOnly(), h.ApproveBooking)
		api.POST("/bookings/:id/reject", AdminOnly(), h.RejectBooking)

		// Equipment requests
		api.POST("/equipment-requests", h.CreateEquipmentRequest)
		api.GET("/equipment-requests/my", h.GetMyEquipmentRequests)
		api.GET("/equipment-requests", AdminOnly(), h.GetAllEquipmentRequests)
		api.POST("/equipment-requests/:id/respond", AdminOnly(), h.RespondEquipmentRequest)

		// Notification bell
		api.GET("/bell", h.GetBell)
		api.POST("/bell/:id/read", h.MarkAlertRead)
		api.POST("/bell/:id/hide", h.HideAlert)

		// Live updates
		api.GET("/ws", h.BellSocket)
	}
	return r
}
