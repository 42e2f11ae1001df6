package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/studiodesk/internal/domain/errors"
	"github.com/polkiloo/studiodesk/internal/server/http/dto"
)

const (
	// SignatureHeader carries the processor's webhook signature.
	SignatureHeader = "Stripe-Signature"
	// MaxWebhookBody bounds accepted webhook payloads.
	MaxWebhookBody = 64 << 10
)

// WebhookHandler receives processor notifications.
type WebhookHandler struct {
	facade WebhookFacade
}

// NewWebhookHandler constructs WebhookHandler.
func NewWebhookHandler(facade WebhookFacade) *WebhookHandler {
	return &WebhookHandler{facade: facade}
}

// Receive handles POST /api/payments/webhook. The body is passed on byte for byte
// since the signature covers the raw payload.
func (h *WebhookHandler) Receive(c *gin.Context) {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxWebhookBody))
	if err != nil {
		if isBodyTooLarge(err) {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusBadRequest)
		return
	}

	if err := h.facade.ProcessWebhook(c.Request.Context(), payload, c.GetHeader(SignatureHeader)); err != nil {
		switch {
		case errors.Is(err, domainErrors.ErrInvalidSignature):
			abortWithError(c, http.StatusBadRequest, "invalid signature")
		case errors.Is(err, domainErrors.ErrMalformedEvent), errors.Is(err, domainErrors.ErrValidation):
			abortWithError(c, http.StatusBadRequest, "malformed event")
		default:
			c.Status(http.StatusInternalServerError)
		}
		return
	}

	c.JSON(http.StatusOK, dto.WebhookResponse{Received: true})
}
