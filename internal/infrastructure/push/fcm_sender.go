// Package push delivers tenant push notifications.
package push

import (
	"context"
	"errors"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/salehub/backend/internal/domain/notification"
	infraconfig "github.com/salehub/backend/internal/infrastructure/config"
)

// fcmMaxTokens is the FCM limit for a single multicast
const fcmMaxTokens = 500

type multicastClient interface {
	SendEachForMulticast(ctx context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error)
}

// FCMSender sends web push notifications through Firebase Cloud Messaging
type FCMSender struct {
	client multicastClient
	logger *zap.Logger
}

// NewFCMSender creates a sender authenticated with a service account file
func NewFCMSender(ctx context.Context, cfg *infraconfig.PushConfig, logger *zap.Logger) (*FCMSender, error) {
	if cfg == nil || cfg.CredentialsFile == "" {
		return nil, errors.New("push credentials file is required")
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.ProjectID}, option.WithCredentialsFile(cfg.CredentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create messaging client: %w", err)
	}
	return newFCMSender(client, logger), nil
}

func newFCMSender(client multicastClient, logger *zap.Logger) *FCMSender {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FCMSender{client: client, logger: logger}
}

// Send delivers msg to every token, batching per the FCM multicast limit.
// A batch error aborts the remaining batches.
func (s *FCMSender) Send(ctx context.Context, msg notification.PushMessage) (notification.PushReport, error) {
	var report notification.PushReport

	for start := 0; start < len(msg.Tokens); start += fcmMaxTokens {
		end := min(start+fcmMaxTokens, len(msg.Tokens))
		batch := msg.Tokens[start:end]

		resp, err := s.client.SendEachForMulticast(ctx, buildMulticast(msg, batch))
		if err != nil {
			report.FailureCount += len(msg.Tokens) - start
			return report, fmt.Errorf("fcm multicast: %w", err)
		}
		report.SuccessCount += resp.SuccessCount
		report.FailureCount += resp.FailureCount

		for i, r := range resp.Responses {
			if r.Success || r.Error == nil {
				continue
			}
			s.logger.Debug("Push delivery failed",
				zap.Int("token_index", start+i),
				zap.Bool("unregistered", messaging.IsUnregistered(r.Error)),
				zap.Error(r.Error),
			)
		}
	}
	return report, nil
}

func buildMulticast(msg notification.PushMessage, tokens []string) *messaging.MulticastMessage {
	m := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: msg.Title,
			Body:  msg.Body,
		},
	}
	if msg.Link != "" || msg.Icon != "" {
		m.Webpush = &messaging.WebpushConfig{
			Notification: &messaging.WebpushNotification{Icon: msg.Icon},
		}
		if msg.Link != "" {
			m.Webpush.FCMOptions = &messaging.WebpushFCMOptions{Link: msg.Link}
		}
	}
	return m
}

var _ notification.PushSender = (*FCMSender)(nil)
