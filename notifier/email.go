package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// EmailNotifier delivers events through an HTTP transactional-mail provider.
// It owns its connection lifecycle: the underlying client is rebuilt after an
// authentication failure, and sends are retried with exponential backoff.
type EmailNotifier struct {
	baseURL    string
	apiKey     string
	sender     string
	maxRetries int

	mu     sync.Mutex
	client *http.Client
}

// NewEmailNotifierFromEnv builds an EmailNotifier from MAIL_API_URL,
// MAIL_API_KEY and MAIL_SENDER. Returns an error when the provider is not
// configured; callers then fall back to the log notifier.
func NewEmailNotifierFromEnv() (*EmailNotifier, error) {
	baseURL := os.Getenv("MAIL_API_URL")
	apiKey := os.Getenv("MAIL_API_KEY")
	sender := os.Getenv("MAIL_SENDER")
	if baseURL == "" || apiKey == "" || sender == "" {
		return nil, fmt.Errorf("MAIL_API_URL, MAIL_API_KEY or MAIL_SENDER is not set")
	}

	maxRetries := 3
	if s := os.Getenv("MAIL_MAX_RETRIES"); s != "" {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			maxRetries = v
		}
	}

	return &EmailNotifier{
		baseURL:    baseURL,
		apiKey:     apiKey,
		sender:     sender,
		maxRetries: maxRetries,
		client:     newMailClient(),
	}, nil
}

func newMailClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}

type mailPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func (n *EmailNotifier) Notify(ctx context.Context, ev Event) error {
	subject, body := renderEmail(ev)
	payload, err := json.Marshal(mailPayload{
		From:    n.sender,
		To:      ev.Recipient,
		Subject: subject,
		Text:    body,
	})
	if err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= n.maxRetries; attempt++ {
		lastErr = n.send(ctx, payload)
		if lastErr == nil {
			return nil
		}

		if isAuthError(lastErr) {
			// Credentials were rejected mid-flight: drop idle connections and
			// start from a fresh client before the next attempt.
			n.resetClient()
		}

		if attempt < n.maxRetries {
			delay := time.Duration(1<<(attempt-1)) * time.Second
			if delay > 5*time.Second {
				delay = 5 * time.Second
			}
			logrus.WithFields(logrus.Fields{"event": ev.Name, "attempt": attempt}).
				WithError(lastErr).Warn("mail send failed, retrying")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
	return lastErr
}

func (n *EmailNotifier) send(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.baseURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+n.apiKey)

	n.mu.Lock()
	client := n.client
	n.mu.Unlock()

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return &authError{status: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("mail provider returned status %d", resp.StatusCode)
	}
	return nil
}

func (n *EmailNotifier) resetClient() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.client.CloseIdleConnections()
	n.client = newMailClient()
}

type authError struct {
	status int
}

func (e *authError) Error() string {
	return fmt.Sprintf("mail provider rejected credentials (status %d)", e.status)
}

func isAuthError(err error) bool {
	_, ok := err.(*authError)
	return ok
}

// renderEmail turns an event into a plain-text message. Formatting stays
// deliberately simple; the provider handles branding.
func renderEmail(ev Event) (subject, body string) {
	d := ev.Data
	switch ev.Name {
	case EventApplicationSubmitted:
		subject = fmt.Sprintf("Investment Application Received - %s", d["reference"])
		body = fmt.Sprintf(
			"Dear %s,\n\nWe have received your investment application.\n\n"+
				"Application ID: %s\nInvestment: %s\nAmount: %s\n\n"+
				"Our team will review your application and get back to you shortly.\n",
			d["full_name"], d["reference"], d["investment_name"], d["amount"])
	case EventApplicationApproved:
		subject = fmt.Sprintf("Application Approved - Awaiting Payment - %s", d["reference"])
		body = fmt.Sprintf(
			"Dear %s,\n\nYour investment application has been approved.\n\n"+
				"Application ID: %s\nInvestment: %s\nAmount: %s\nPayment Method: %s\n\n"+
				"Please complete your payment to proceed.\n\nNotes: %s\n",
			d["full_name"], d["reference"], d["investment_name"], d["amount"], d["payment_method"], d["admin_notes"])
	case EventPaymentConfirmed:
		subject = fmt.Sprintf("Payment Received - %s", d["reference"])
		body = fmt.Sprintf(
			"Dear %s,\n\nWe have received your payment.\n\n"+
				"Application ID: %s\nInvestment: %s\nAmount: %s\n\n"+
				"Your application is now awaiting final approval.\n",
			d["full_name"], d["reference"], d["investment_name"], d["amount"])
	case EventFinalApproval:
		subject = fmt.Sprintf("Investment Confirmed - %s", d["reference"])
		body = fmt.Sprintf(
			"Dear %s,\n\nCongratulations! Your investment is now active.\n\n"+
				"Application ID: %s\nInvestment: %s\nAmount: %s\n\n"+
				"You can track your investment from your portfolio dashboard.\n",
			d["full_name"], d["reference"], d["investment_name"], d["amount"])
	default:
		subject = fmt.Sprintf("Notification - %s", ev.Name)
		body = fmt.Sprintf("Event %s for application %s.\n", ev.Name, d["reference"])
	}
	return subject, body
}
