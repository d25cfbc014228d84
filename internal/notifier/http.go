package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// HTTPSender posts composed emails to the notification collaborator:
// confirmation payloads to /email/confirm, plain mails to /email/send.
type HTTPSender struct {
	baseURL string
	client  *http.Client
}

func NewHTTPSender(baseURL string, timeout time.Duration) *HTTPSender {
	return &HTTPSender{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (s *HTTPSender) SendConfirmation(ctx context.Context, mail ConfirmationMail) error {
	return s.post(ctx, "/email/confirm", mail)
}

func (s *HTTPSender) SendMail(ctx context.Context, mail Mail) error {
	return s.post(ctx, "/email/send", mail)
}

func (s *HTTPSender) post(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("notification service returned %s for %s", resp.Status, path)
	}

	return nil
}
