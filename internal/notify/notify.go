// Package notify delivers maintenance digests to chat platforms (Slack,
// Discord).
package notify

import (
	"context"
	"fmt"

	"github.com/vkarpov/plantmind/internal/config"
)

// Notifier sends one text message to the configured channel.
type Notifier interface {
	Send(ctx context.Context, text string) error
}

// NewFromConfig builds the Notifier for the configured platform. Returns
// (nil, nil) when notifications are disabled.
func NewFromConfig(cfg config.NotifyConfig) (Notifier, error) {
	switch cfg.Platform {
	case "":
		return nil, nil
	case "slack":
		return NewSlack(SlackOpts{Token: cfg.Token, Channel: cfg.Channel})
	case "discord":
		return NewDiscord(DiscordOpts{Token: cfg.Token, ChannelID: cfg.Channel})
	default:
		return nil, fmt.Errorf("notify: unknown platform %q", cfg.Platform)
	}
}
