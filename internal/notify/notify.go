// Package notify posts best-effort chat notifications. Failures are logged
// and reported as false, never retried; a missed notification must not
// block or fail a clock event.
package notify

import (
	"context"
	"time"

	"github.com/slack-go/slack"
	"go.uber.org/zap"
)

const webhookTimeout = 10 * time.Second

//go:generate mockgen -source=notify.go -destination=mock/notify_mock.go -package=mock
type Notifier interface {
	Send(ctx context.Context, text string) bool
}

type slackNotifier struct {
	webhookURL string
	logger     *zap.Logger
}

func NewSlackNotifier(webhookURL string) Notifier {
	return &slackNotifier{
		webhookURL: webhookURL,
		logger:     zap.L().Named("notify"),
	}
}

func (n *slackNotifier) Send(ctx context.Context, text string) bool {
	if n.webhookURL == "" {
		n.logger.Info("no webhook URL configured, dropping notification", zap.String("text", text))
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, webhookTimeout)
	defer cancel()

	err := slack.PostWebhookContext(ctx, n.webhookURL, &slack.WebhookMessage{Text: text})
	if err != nil {
		n.logger.Warn("slack notification failed", zap.Error(err))
		return false
	}
	return true
}
