package senders

import (
	"context"
	"errors"
	"net/http"

	"github.com/fiffu/matchwatch/config"
	"github.com/fiffu/matchwatch/lib/models"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ErrTransport marks a failed send or edit. The poller leaves message-id
// state untouched on transport failure so the next sweep retries.
var ErrTransport = errors.New("notification transport failed")

// Sender delivers to one platform. Send returns an id usable later for
// editing the same message in place; editing the same id twice is safe.
type Sender interface {
	Send(ctx context.Context, recipient string, text string) (int64, error)
	Edit(ctx context.Context, recipient string, messageID int64, text string) error
}

type Registry map[string]Sender

func NewSenderRegistry(lc fx.Lifecycle, log *zap.Logger, cfg *config.Config, transport http.RoundTripper) Registry {
	base := base{log, cfg, transport}
	return Registry{
		models.PlatformTelegram: &telegramSender{base: base},
		models.PlatformEmail:    &mailgunSender{base},
	}
}

type base struct {
	log       *zap.Logger
	cfg       *config.Config
	transport http.RoundTripper
}
