package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/abylaikhan/upcheck/internal/metrics"
)

const (
	twilioBaseURL = "https://api.twilio.com"

	maxMessageLength = 1600
)

// Sender delivers an SMS to a user's phone number. CRUD correctness never
// depends on it; callers treat failures as best-effort.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// LogSender logs messages instead of sending them — used in ENV=local.
type LogSender struct {
	logger *slog.Logger
}

func (s *LogSender) Send(ctx context.Context, phone, message string) error {
	s.logger.InfoContext(ctx, "sms (local dev)", "to", phone, "message", message)
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
	return nil
}

// TwilioSender sends SMS through the Twilio messages API — used in
// staging/production.
type TwilioSender struct {
	client     *http.Client
	baseURL    string
	accountSID string
	authToken  string
	fromPhone  string
}

func (s *TwilioSender) Send(ctx context.Context, phone, message string) error {
	phone = strings.TrimSpace(phone)
	message = strings.TrimSpace(message)
	if len(phone) != 10 {
		return errors.New("phone must be 10 characters")
	}
	if message == "" || len(message) > maxMessageLength {
		return fmt.Errorf("message must be 1 to %d characters", maxMessageLength)
	}

	form := url.Values{
		"From": {s.fromPhone},
		"To":   {"+1" + phone},
		"Body": {message},
	}

	endpoint := s.baseURL + "/2010-04-01/Accounts/" + s.accountSID + "/Messages.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.accountSID, s.authToken)

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("send sms: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		metrics.NotificationsTotal.WithLabelValues("failed").Inc()
		return fmt.Errorf("send sms: status code %d", resp.StatusCode)
	}
	metrics.NotificationsTotal.WithLabelValues("sent").Inc()
	return nil
}

// NewSender returns a LogSender for ENV=local, TwilioSender otherwise.
func NewSender(env, accountSID, authToken, fromPhone string, logger *slog.Logger) Sender {
	if env == "local" {
		return &LogSender{logger: logger.With("component", "notify")}
	}
	return &TwilioSender{
		client:     &http.Client{},
		baseURL:    twilioBaseURL,
		accountSID: accountSID,
		authToken:  authToken,
		fromPhone:  fromPhone,
	}
}
