// File: internal/telegram/client.go
package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"telegram-mini-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

const apiHost = "https://api.telegram.org"

// Client performs single synchronous Bot API calls. Every failure is routed
// to the reporter and surfaces to the caller as an absent result; nothing is
// retried and no error ever propagates.
type Client struct {
	apiURL   string
	client   *http.Client
	reporter *Reporter
	logger   *zerolog.Logger
}

// NewClient builds the transport for token. The http.Client carries no
// timeout of its own: getUpdates long-polls may legitimately block for up to
// the configured server-side timeout.
func NewClient(token string, reporter *Reporter, logger *zerolog.Logger) *Client {
	return &Client{
		apiURL:   fmt.Sprintf("%s/bot%s", apiHost, token),
		client:   &http.Client{},
		reporter: reporter,
		logger:   logger,
	}
}

// SendRequest posts method with urlencoded fields and returns the envelope's
// result verbatim, or nil when anything at all went wrong.
func (c *Client) SendRequest(ctx context.Context, method string, fields url.Values) json.RawMessage {
	info := CallInfo{Method: method}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/"+method,
		strings.NewReader(fields.Encode()))
	if err != nil {
		metrics.IncAPIRequest(method, metrics.OutcomeTransportError)
		c.reporter.ReportError(info, err)
		return nil
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		metrics.IncAPIRequest(method, metrics.OutcomeTransportError)
		c.reporter.ReportError(info, err)
		return nil
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.IncAPIRequest(method, metrics.OutcomeTransportError)
		c.reporter.ReportError(info, err)
		return nil
	}

	var envelope APIResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		metrics.IncAPIRequest(method, metrics.OutcomeTransportError)
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			// Non-2xx without a parseable envelope: the path (token
			// redacted) and the raw body are the diagnostic.
			c.reporter.ReportHTTPStatus(info, "/bot***/"+method, string(body))
		} else {
			c.reporter.ReportError(info, err)
		}
		return nil
	}

	if !envelope.OK {
		metrics.IncAPIRequest(method, metrics.OutcomeAPIError)
		c.reporter.ReportEnvelope(info, &envelope)
		return nil
	}

	metrics.IncAPIRequest(method, metrics.OutcomeOK)
	c.logger.Debug().Str("method", method).Msg("api request ok")
	return envelope.Result
}

// sendRaw is the reporter's notification path: a best-effort sendMessage
// that never feeds its own failure back into the reporter.
func (c *Client) sendRaw(chatID int64, text string) error {
	fields := url.Values{}
	fields.Set("chat_id", strconv.FormatInt(chatID, 10))
	fields.Set("text", text)

	resp, err := c.client.Post(c.apiURL+"/sendMessage",
		"application/x-www-form-urlencoded", strings.NewReader(fields.Encode()))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("sendMessage status %d", resp.StatusCode)
	}
	return nil
}
