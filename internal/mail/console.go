// AngelaMos | 2026
// console.go

package mail

import (
	"context"
	"log/slog"
	"net/mail"
)

// ConsoleSender logs messages instead of delivering them. It is the
// development default.
type ConsoleSender struct {
	from       mail.Address
	subjPrefix string
	logger     *slog.Logger
}

func NewConsoleSender(from mail.Address, subjPrefix string, logger *slog.Logger) *ConsoleSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &ConsoleSender{from: from, subjPrefix: subjPrefix, logger: logger}
}

func (s *ConsoleSender) Send(ctx context.Context, msg Message) error {
	s.logger.InfoContext(ctx, "mail",
		"from", s.from.String(),
		"to", msg.To.String(),
		"subject", s.subjPrefix+msg.Subject,
		"body", msg.Text,
	)
	return nil
}
