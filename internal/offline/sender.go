package offline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPSender delivers queued submissions to the upstream invoicing API.
type HTTPSender struct {
	url    string
	client *http.Client
}

// NewHTTPSender builds a sender posting to url. An empty url yields a sender
// that fails every delivery, which keeps items queued until the upstream is
// configured.
func NewHTTPSender(url string, timeout time.Duration) *HTTPSender {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &HTTPSender{url: url, client: &http.Client{Timeout: timeout}}
}

// Send posts the queued payload upstream. Non-2xx responses count as delivery
// failures and bump the retry counter.
func (s *HTTPSender) Send(ctx context.Context, item Item) error {
	if s.url == "" {
		return fmt.Errorf("offline: upstream url not configured")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(item.Payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("offline: upstream responded %d for invoice %s", resp.StatusCode, item.InvoiceNumber)
	}
	return nil
}
