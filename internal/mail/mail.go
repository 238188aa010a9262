// AngelaMos | 2026
// mail.go

// Package mail delivers plain-text e-mail through a configured provider.
package mail

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"

	"github.com/carterperez-dev/gym-crm/internal/config"
)

const (
	ProviderConsole  = "console"
	ProviderSendgrid = "sendgrid"
)

type Message struct {
	To      mail.Address
	Subject string
	Text    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// New picks the backend named in cfg. It returns nil when mail is
// disabled, which callers treat as "do not send".
func New(cfg config.MailConfig, appName string, logger *slog.Logger) (Sender, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	from := mail.Address{Name: cfg.FromName, Address: cfg.FromAddress}
	if from.Name == "" {
		from.Name = appName
	}

	prefix := cfg.SubjectPrefix
	if prefix == "" {
		prefix = "[" + appName + "] "
	}

	switch cfg.Provider {
	case ProviderSendgrid:
		if cfg.SendgridAPIKey == "" {
			return nil, fmt.Errorf("mail: sendgrid api key is required")
		}
		return NewSendgridSender(cfg.SendgridAPIKey, from, prefix), nil
	case ProviderConsole, "":
		return NewConsoleSender(from, prefix, logger), nil
	default:
		return nil, fmt.Errorf("mail: unknown provider %q", cfg.Provider)
	}
}
