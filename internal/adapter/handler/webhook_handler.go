package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/srgjo27/seat_reservation/internal/adapter/payment"
	"github.com/srgjo27/seat_reservation/internal/core/domain"
)

const maxWebhookBody = 1 << 20

type Reconciler interface {
	HandleOutcome(ctx context.Context, outcome domain.PaymentOutcome) error
}

type WebhookHandler struct {
	verifier   *payment.WebhookVerifier
	reconciler Reconciler
	log        logrus.FieldLogger
}

func NewWebhookHandler(verifier *payment.WebhookVerifier, reconciler Reconciler, log logrus.FieldLogger) *WebhookHandler {
	return &WebhookHandler{
		verifier:   verifier,
		reconciler: reconciler,
		log:        log,
	}
}

func (h *WebhookHandler) HandlePayment(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read body"})
		return
	}

	if err := h.verifier.Verify(payload, c.GetHeader(payment.SignatureHeader)); err != nil {
		h.log.WithError(err).Warn("payment webhook signature rejected")
		writeError(c, h.log, err)
		return
	}

	outcome, handled, err := payment.ParseOutcome(payload)
	if err != nil {
		writeError(c, h.log, err)
		return
	}

	if !handled {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if err := h.reconciler.HandleOutcome(c.Request.Context(), *outcome); err != nil {
		// retrying an unknown booking will never succeed, so acknowledge it
		if domain.KindOf(err) == domain.KindNotFound {
			c.JSON(http.StatusOK, gin.H{"received": true})
			return
		}

		writeError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
