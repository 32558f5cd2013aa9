package notify

import (
	"context"
	"errors"
	"strings"
)

// Channel delivery medium
type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelTelegram Channel = "telegram"
)

var (
	ErrNoRecipients   = errors.New("notification has no recipients")
	ErrUnknownChannel = errors.New("unknown notification channel")
)

// Message one notification job; also the queue wire format
type Message struct {
	Channel    Channel  `json:"channel"`
	Recipients []string `json:"recipients"`
	Subject    string   `json:"subject,omitempty"`
	Body       string   `json:"body"`
}

// Email builds an email message
func Email(to []string, subject, body string) Message {
	return Message{Channel: ChannelEmail, Recipients: to, Subject: subject, Body: body}
}

// Telegram builds a message for a single chat id
func Telegram(chatID, body string) Message {
	return Message{Channel: ChannelTelegram, Recipients: []string{chatID}, Body: body}
}

// normalize drops blank recipients and rejects unusable messages
func (m Message) normalize() (Message, error) {
	switch m.Channel {
	case ChannelEmail, ChannelTelegram:
	default:
		return m, ErrUnknownChannel
	}
	out := m.Recipients[:0:0]
	for _, r := range m.Recipients {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return m, ErrNoRecipients
	}
	m.Recipients = out
	return m, nil
}

// Dispatcher accepts a message for eventual delivery.
// A nil error means the message was accepted, not that it was delivered.
type Dispatcher interface {
	Dispatch(ctx context.Context, msg Message) error
}
