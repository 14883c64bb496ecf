package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

func NewRouter(events *EventHandler, bookings *BookingHandler, webhooks *WebhookHandler, log logrus.FieldLogger) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(Logger(log))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"time":   time.Now().UTC(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api/v1")
	{
		api.POST("/webhooks/payment", webhooks.HandlePayment)

		authed := api.Group("", Identity())

		eventsGroup := authed.Group("/events")
		{
			eventsGroup.POST("", events.CreateEvent)
			eventsGroup.GET("/:id/availability", events.GetAvailability)
			eventsGroup.POST("/:id/bookings", bookings.Reserve)
		}

		bookingsGroup := authed.Group("/bookings")
		{
			bookingsGroup.GET("/:id", bookings.GetBooking)
			bookingsGroup.DELETE("/:id", bookings.Cancel)
		}
	}

	return router
}
