package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/smtp"
	"time"

	"go.uber.org/zap"

	"github.com/hospshop/procurement-api/internal/models"
)

// Notifier delivers one rendered message over a concrete channel.
type Notifier interface {
	Send(ctx context.Context, msg models.NotificationMessage) error
}

// NoopNotifier logs messages instead of delivering them. Used in
// development and whenever no provider is configured.
type NoopNotifier struct {
	logger *zap.Logger
}

// NewNoopNotifier constructs a NoopNotifier.
func NewNoopNotifier(logger *zap.Logger) *NoopNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoopNotifier{logger: logger}
}

// Send logs the message and succeeds.
func (n *NoopNotifier) Send(_ context.Context, msg models.NotificationMessage) error {
	n.logger.Info("notification suppressed (noop provider)",
		zap.String("channel", string(msg.Channel)),
		zap.String("recipient", msg.Recipient),
		zap.String("subject", msg.Subject))
	return nil
}

// SMTPConfig carries the SMTP connection parameters.
type SMTPConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	FromAddress string
}

// SMTPNotifier delivers email through a plain-auth SMTP relay.
type SMTPNotifier struct {
	cfg SMTPConfig
}

// NewSMTPNotifier constructs an SMTPNotifier.
func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{cfg: cfg}
}

// Send delivers the message as a plain-text email.
func (n *SMTPNotifier) Send(_ context.Context, msg models.NotificationMessage) error {
	addr := fmt.Sprintf("%s:%d", n.cfg.Host, n.cfg.Port)
	var auth smtp.Auth
	if n.cfg.User != "" {
		auth = smtp.PlainAuth("", n.cfg.User, n.cfg.Password, n.cfg.Host)
	}

	body := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		n.cfg.FromAddress, msg.Recipient, msg.Subject, msg.Body)

	if err := smtp.SendMail(addr, auth, n.cfg.FromAddress, []string{msg.Recipient}, []byte(body)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", msg.Recipient, err)
	}
	return nil
}

// WhatsAppNotifier posts messages to an external WhatsApp gateway.
type WhatsAppNotifier struct {
	apiURL string
	apiKey string
	client *http.Client
}

// NewWhatsAppNotifier constructs a WhatsAppNotifier.
func NewWhatsAppNotifier(apiURL, apiKey string) *WhatsAppNotifier {
	return &WhatsAppNotifier{
		apiURL: apiURL,
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts the message payload to the gateway.
func (n *WhatsAppNotifier) Send(ctx context.Context, msg models.NotificationMessage) error {
	payload, err := json.Marshal(map[string]string{
		"to":   msg.Recipient,
		"text": fmt.Sprintf("%s\n\n%s", msg.Subject, msg.Body),
	})
	if err != nil {
		return fmt.Errorf("marshal whatsapp payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.apiURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build whatsapp request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if n.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+n.apiKey)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp send to %s: %w", msg.Recipient, err)
	}
	defer resp.Body.Close() //nolint:errcheck
	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("whatsapp gateway returned %d", resp.StatusCode)
	}
	return nil
}
