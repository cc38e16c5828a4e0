package handler

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"konv/config"
	domainerrors "konv/internal/domain/errors"
	"konv/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPaymentUsecase struct {
	usecase.PaymentUsecase

	lastPayload *usecase.GatewayWebhookPayload
	err         error
}

func (s *stubPaymentUsecase) HandleGatewayWebhook(_ context.Context, payload *usecase.GatewayWebhookPayload) error {
	s.lastPayload = payload

	return s.err
}

func newWebhookHandler(uc usecase.PaymentUsecase, secret string) *WebhookHandler {
	cfg := &config.Config{}
	cfg.Beyonic = &config.BeyonicConfig{WebhookSecret: secret}

	return NewWebhookHandler(uc, cfg, slog.New(slog.DiscardHandler))
}

func postWebhook(t *testing.T, h *WebhookHandler, body string, signature string) *httptest.ResponseRecorder {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/beyonic_webhook", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if signature != "" {
		req.Header.Set(signatureHeader, signature)
	}
	rec := httptest.NewRecorder()

	require.NoError(t, h.HandleBeyonicWebhook(e.NewContext(req, rec)))

	return rec
}

func TestWebhookHandler_AcceptsSuccessfulDelivery(t *testing.T) {
	uc := &stubPaymentUsecase{}
	h := newWebhookHandler(uc, "")

	body := `{"id": 91823, "status": "successful", "metadata": {"payment_id": "7e0b4c9a-0000-4000-8000-000000000001"}}`
	rec := postWebhook(t, h, body, "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ACCEPT 91823", rec.Body.String())

	require.NotNil(t, uc.lastPayload)
	assert.Equal(t, "91823", uc.lastPayload.RemoteTransactionID)
	assert.Equal(t, "successful", uc.lastPayload.Status)
	assert.Equal(t, "7e0b4c9a-0000-4000-8000-000000000001", uc.lastPayload.Metadata.PaymentID)
}

func TestWebhookHandler_RejectsMalformedBody(t *testing.T) {
	uc := &stubPaymentUsecase{}
	h := newWebhookHandler(uc, "")

	rec := postWebhook(t, h, `{"id":`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":400}`, rec.Body.String())
	assert.Nil(t, uc.lastPayload)
}

func TestWebhookHandler_RejectsUsecaseFailure(t *testing.T) {
	uc := &stubPaymentUsecase{err: domainerrors.ErrMalformedWebhook}
	h := newWebhookHandler(uc, "")

	body := `{"id": "txn-1", "status": "successful", "metadata": {}}`
	rec := postWebhook(t, h, body, "")

	// The gateway retries on non-2xx, so failures answer 400, never 5xx.
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":400}`, rec.Body.String())
}

func TestWebhookHandler_SignatureVerification(t *testing.T) {
	const secret = "webhook-secret"
	body := `{"id": "txn-2", "status": "failed", "metadata": {"payment_id": "7e0b4c9a-0000-4000-8000-000000000002"}}`

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	signature := hex.EncodeToString(mac.Sum(nil))

	t.Run("valid signature accepted", func(t *testing.T) {
		uc := &stubPaymentUsecase{}
		rec := postWebhook(t, newWebhookHandler(uc, secret), body, signature)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "ACCEPT txn-2", rec.Body.String())
	})

	t.Run("missing signature rejected", func(t *testing.T) {
		uc := &stubPaymentUsecase{}
		rec := postWebhook(t, newWebhookHandler(uc, secret), body, "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, uc.lastPayload)
	})

	t.Run("tampered body rejected", func(t *testing.T) {
		uc := &stubPaymentUsecase{}
		tampered := strings.Replace(body, "failed", "successful", 1)
		rec := postWebhook(t, newWebhookHandler(uc, secret), tampered, signature)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Nil(t, uc.lastPayload)
	})
}
