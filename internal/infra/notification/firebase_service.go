// Package notification implements customer push notifications.
package notification

import (
	"context"
	"fmt"
	"log/slog"

	"konv/config"
	"konv/internal/domain/service"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"
)

type firebaseService struct {
	client *messaging.Client
}

// noopService drops notifications when Firebase is not configured.
type noopService struct {
	logger *slog.Logger
}

func (s *noopService) NotifyCustomer(_ context.Context, customerID string, title, _ string, _ map[string]string) error {
	s.logger.Debug("firebase not configured, dropping notification",
		slog.String("customer_id", customerID),
		slog.String("title", title),
	)

	return nil
}

// NewNotificationService creates the push notification service. Without
// Firebase configuration notifications are silently dropped, which keeps
// development environments free of cloud credentials.
func NewNotificationService(ctx context.Context, cfg *config.Config, logger *slog.Logger) (service.NotificationService, error) {
	if cfg.Firebase == nil || cfg.Firebase.CredentialsPath == "" {
		logger.Info("Firebase not configured, using no-op notification service")

		return &noopService{logger: logger}, nil
	}

	opt := option.WithCredentialsFile(cfg.Firebase.CredentialsPath)
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.Firebase.ProjectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get messaging client: %w", err)
	}

	return &firebaseService{client: client}, nil
}

// NotifyCustomer pushes a message to the customer's notification topic.
// Devices subscribe to their owner's topic at login, so no token bookkeeping
// happens server side.
func (s *firebaseService) NotifyCustomer(ctx context.Context, customerID string, title, body string, data map[string]string) error {
	message := &messaging.Message{
		Topic: "customer-" + customerID,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	_, err := s.client.Send(ctx, message)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	return nil
}
