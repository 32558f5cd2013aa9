package notify

import (
	"context"

	"go.uber.org/zap"
)

// EmailSender email transport
type EmailSender interface {
	Send(ctx context.Context, to []string, subject, body string) error
}

// TelegramSender Telegram transport
type TelegramSender interface {
	SendMessage(ctx context.Context, chatID, text string) error
}

// Deliverer routes a message to its channel transport.
// A missing transport logs the message and reports success.
type Deliverer struct {
	email    EmailSender
	telegram TelegramSender
	logger   *zap.Logger
}

// NewDeliverer either transport may be nil
func NewDeliverer(email EmailSender, telegram TelegramSender, logger *zap.Logger) *Deliverer {
	return &Deliverer{email: email, telegram: telegram, logger: logger}
}

// Deliver one attempt, no retry
func (d *Deliverer) Deliver(ctx context.Context, msg Message) error {
	switch msg.Channel {
	case ChannelEmail:
		if d.email == nil {
			d.logDiscard(msg)
			return nil
		}
		return d.email.Send(ctx, msg.Recipients, msg.Subject, msg.Body)

	case ChannelTelegram:
		if d.telegram == nil {
			d.logDiscard(msg)
			return nil
		}
		for _, chatID := range msg.Recipients {
			if err := d.telegram.SendMessage(ctx, chatID, msg.Body); err != nil {
				return err
			}
		}
		return nil
	}
	return ErrUnknownChannel
}

func (d *Deliverer) logDiscard(msg Message) {
	d.logger.Info("notification transport not configured, message logged only",
		zap.String("channel", string(msg.Channel)),
		zap.Strings("recipients", msg.Recipients),
		zap.String("subject", msg.Subject),
	)
}
