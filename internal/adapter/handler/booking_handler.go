package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/seat_reservation/internal/core/domain"
	"github.com/srgjo27/seat_reservation/internal/core/services"
)

type BookingService interface {
	Reserve(ctx context.Context, req services.ReserveRequest) (*services.ReserveResponse, error)
	GetBookingDetails(ctx context.Context, bookingID string) (*domain.BookingDetails, error)
}

type CancellationService interface {
	Cancel(ctx context.Context, bookingID, userID string) error
}

type BookingHandler struct {
	bookings BookingService
	cancel   CancellationService
	log      logrus.FieldLogger
}

func NewBookingHandler(bookings BookingService, cancel CancellationService, log logrus.FieldLogger) *BookingHandler {
	return &BookingHandler{
		bookings: bookings,
		cancel:   cancel,
		log:      log,
	}
}

type reserveBody struct {
	SelectedSeats []int `json:"selectedSeats"`
}

func (h *BookingHandler) Reserve(c *gin.Context) {
	var body reserveBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
		return
	}

	resp, err := h.bookings.Reserve(c.Request.Context(), services.ReserveRequest{
		UserID:      userID(c),
		EventID:     c.Param("id"),
		SeatNumbers: body.SelectedSeats,
	})
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *BookingHandler) GetBooking(c *gin.Context) {
	details, err := h.bookings.GetBookingDetails(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	if details.Booking.UserID.String() != userID(c) {
		writeError(c, h.log, domain.NewError(domain.KindForbidden, "you are not authorized to view this booking"))
		return
	}

	c.JSON(http.StatusOK, details)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	if err := h.cancel.Cancel(c.Request.Context(), c.Param("id"), userID(c)); err != nil {
		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled"})
}
