package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"konv/config"
	deliverycontext "konv/internal/delivery/context"
	"konv/internal/infra/gateway/beyonic"
	"konv/internal/usecase"

	"github.com/labstack/echo/v4"
)

// signatureHeader carries the gateway's HMAC of the delivery body.
const signatureHeader = "X-Beyonic-Signature"

// beyonicWebhookBody is the gateway's delivery format. The transaction id
// arrives as a JSON number on some gateway versions, hence json.Number.
type beyonicWebhookBody struct {
	ID       json.Number `json:"id"`
	Status   string      `json:"status"`
	Metadata struct {
		PaymentID string `json:"payment_id"`
	} `json:"metadata"`
}

// WebhookHandler terminates gateway callbacks. It answers with the gateway's
// expected acknowledgment formats and never with a 5xx, so delivery retries
// stay under the gateway's control.
type WebhookHandler struct {
	uc            usecase.PaymentUsecase
	webhookSecret string
	logger        *slog.Logger
}

// NewWebhookHandler is the constructor for WebhookHandler, injected by Fx.
func NewWebhookHandler(uc usecase.PaymentUsecase, cfg *config.Config, logger *slog.Logger) *WebhookHandler {
	secret := ""
	if cfg.Beyonic != nil {
		secret = cfg.Beyonic.WebhookSecret
	}

	return &WebhookHandler{uc: uc, webhookSecret: secret, logger: logger}
}

// HandleBeyonicWebhook reconciles a collection outcome pushed by the gateway.
func (h *WebhookHandler) HandleBeyonicWebhook(c echo.Context) error {
	log := deliverycontext.GetLoggerOrDefault(c.Request().Context(), h.logger)

	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return h.reject(c)
	}

	if !beyonic.VerifySignature(h.webhookSecret, body, c.Request().Header.Get(signatureHeader)) {
		log.Warn("webhook signature verification failed")

		return h.reject(c)
	}

	var decoded beyonicWebhookBody
	if err := json.Unmarshal(body, &decoded); err != nil {
		return h.reject(c)
	}

	payload := &usecase.GatewayWebhookPayload{
		RemoteTransactionID: decoded.ID.String(),
		Status:              decoded.Status,
	}
	payload.Metadata.PaymentID = decoded.Metadata.PaymentID

	if err := h.uc.HandleGatewayWebhook(c.Request().Context(), payload); err != nil {
		log.Warn("webhook rejected", slog.Any("error", err), slog.String("remote_id", payload.RemoteTransactionID))

		return h.reject(c)
	}

	return c.String(http.StatusCreated, "ACCEPT "+payload.RemoteTransactionID)
}

func (h *WebhookHandler) reject(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, map[string]int{"error": http.StatusBadRequest})
}
