// Package beyonic implements the outbound mobile-money collection gateway.
package beyonic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"konv/config"
	"konv/internal/domain/service"

	"github.com/pkg/errors"
)

const defaultTimeout = 30 * time.Second

// client implements CollectionGateway against the Beyonic HTTP API.
type client struct {
	baseURL     string
	apiKey      string
	callbackURL string
	httpClient  *http.Client
	logger      *slog.Logger
}

// collectionRequestBody is the gateway's wire format for a collection request.
// Amounts are sent in major units; metadata is echoed back on the webhook.
type collectionRequestBody struct {
	PhoneNumber    string            `json:"phonenumber"`
	Amount         string            `json:"amount"`
	Currency       string            `json:"currency"`
	Description    string            `json:"description"`
	CallbackURL    string            `json:"callback_url,omitempty"`
	SendInstructed bool              `json:"send_instructions"`
	Metadata       map[string]string `json:"metadata"`
}

type collectionResponseBody struct {
	ID     json.Number `json:"id"`
	Status string      `json:"status"`
}

// NewClient is the constructor for the Beyonic collection gateway.
func NewClient(cfg *config.Config, logger *slog.Logger) (service.CollectionGateway, error) {
	if cfg.Beyonic == nil || cfg.Beyonic.BaseURL == "" {
		return nil, errors.New("beyonic base URL must be provided")
	}

	timeout := cfg.Beyonic.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &client{
		baseURL:     cfg.Beyonic.BaseURL,
		apiKey:      cfg.Beyonic.APIKey,
		callbackURL: cfg.Beyonic.CallbackURL,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
	}, nil
}

// RequestCollection submits a collection request for a customer phone. The
// customer receives a prompt on their handset; the outcome arrives later on
// the webhook, never on this response.
func (c *client) RequestCollection(ctx context.Context, req *service.CollectionRequest) (*service.CollectionResponse, error) {
	body := collectionRequestBody{
		PhoneNumber:    req.PhoneNumber,
		Amount:         fmt.Sprintf("%d.%02d", req.Amount/100, req.Amount%100),
		Currency:       req.Currency,
		Description:    req.Description,
		CallbackURL:    c.callbackURL,
		SendInstructed: true,
		Metadata: map[string]string{
			"payment_id": req.PaymentID.String(),
		},
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/collectionrequests", bytes.NewReader(payload))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Token "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, "collection request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("collection request rejected",
			slog.Int("status", resp.StatusCode),
			slog.String("payment_id", req.PaymentID.String()),
			slog.String("body", string(snippet)),
		)

		return nil, errors.Errorf("collection request rejected with status %d", resp.StatusCode)
	}

	var decoded collectionResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, errors.Wrap(err, "failed to decode collection response")
	}

	c.logger.Info("collection request accepted",
		slog.String("payment_id", req.PaymentID.String()),
		slog.String("remote_id", decoded.ID.String()),
		slog.String("status", decoded.Status),
	)

	return &service.CollectionResponse{
		RemoteID: decoded.ID.String(),
		Status:   decoded.Status,
	}, nil
}
