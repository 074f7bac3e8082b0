package paperless

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kirillkom/paperless-date-normalizer/internal/core/domain"
)

const maxErrorBody = 4096

type HTTPStatusError struct {
	Operation  string
	StatusCode int
	Status     string
	Body       string
}

func (e *HTTPStatusError) Error() string {
	if e == nil {
		return "paperless status error"
	}
	hint := "something unexpected happened"
	if e.StatusCode == http.StatusUnauthorized {
		hint = "got a 401 response - it seems the api token does not work"
	}
	if strings.TrimSpace(e.Body) == "" {
		return fmt.Sprintf("paperless %s status: %s: %s", e.Operation, e.Status, hint)
	}
	return fmt.Sprintf("paperless %s status: %s: %s: %s", e.Operation, e.Status, hint, strings.TrimSpace(e.Body))
}

func (c *Client) doJSON(ctx context.Context, method, url string, payload any, out any, operation string) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal %s request: %w", operation, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return domain.WrapError(domain.ErrConfig, "create "+operation+" request", err)
	}
	req.Header.Set("Authorization", "Token "+c.token)
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.record(operation, 0, started)
		return domain.WrapError(domain.ErrTransport, "paperless "+operation+" request", err)
	}
	defer resp.Body.Close()
	c.record(operation, resp.StatusCode, started)

	if resp.StatusCode != http.StatusOK {
		return statusError(operation, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.WrapError(domain.ErrTransport, "read "+operation+" response", err)
	}
	// Unmarshal rejects trailing data after the document, a Decoder does not.
	if err := json.Unmarshal(raw, out); err != nil {
		return domain.WrapError(domain.ErrUnexpectedResponse, "decode "+operation+" response", err)
	}
	return nil
}

func (c *Client) record(operation string, status int, started time.Time) {
	if c.observe != nil {
		c.observe(operation, status, time.Since(started))
	}
}

func statusError(operation string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	statusErr := &HTTPStatusError{
		Operation:  operation,
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		Body:       string(raw),
	}
	kind := domain.ErrUnexpectedResponse
	if resp.StatusCode == http.StatusUnauthorized {
		kind = domain.ErrUnauthorized
	}
	return domain.WrapError(kind, "paperless "+operation, statusErr)
}
