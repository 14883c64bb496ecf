package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/seat_reservation/internal/core/domain"
	"github.com/srgjo27/seat_reservation/internal/core/services"
)

type EventService interface {
	CreateEvent(ctx context.Context, req services.CreateEventRequest) (*domain.Event, error)
	GetAvailability(ctx context.Context, eventID string) (*domain.Availability, error)
}

type EventHandler struct {
	events EventService
	log    logrus.FieldLogger
}

func NewEventHandler(events EventService, log logrus.FieldLogger) *EventHandler {
	return &EventHandler{
		events: events,
		log:    log,
	}
}

func (h *EventHandler) CreateEvent(c *gin.Context) {
	var req services.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}

	event, err := h.events.CreateEvent(c.Request.Context(), req)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) GetAvailability(c *gin.Context) {
	availability, err := h.events.GetAvailability(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, availability)
}
