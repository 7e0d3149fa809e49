// Package email delivers rendered messages through an external provider.
package email

import (
	"context"
	"errors"
	"time"
)

// ErrNoRecipients is returned when a request has nobody to deliver to.
var ErrNoRecipients = errors.New("email has no recipients")

// SendRequest contains the data needed to send an email via an external provider.
type SendRequest struct {
	To      []string // Recipient email addresses
	From    string   // Sender address; empty uses the sender's default (e.g. "Studio <reports@studio.example>")
	Subject string
	HTML    string // HTML body
	ReplyTo string // Reply-to address; empty uses the sender's default
}

// Validate checks the request can be handed to a provider.
func (r SendRequest) Validate() error {
	if len(r.To) == 0 {
		return ErrNoRecipients
	}
	if r.Subject == "" {
		return errors.New("email subject cannot be empty")
	}
	return nil
}

// SendResult contains the response from the email provider.
type SendResult struct {
	MessageID string    // Provider's message ID for tracking
	SentAt    time.Time // When the send was accepted
}

// Sender is the interface for sending emails via an external provider.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
	SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error)
}
