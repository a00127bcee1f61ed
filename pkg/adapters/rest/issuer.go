// Package rest provides the HTTP implementation of ports.CallIssuer.
// It replays recorded calls against a live REST API: JSON in, JSON out.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/remaclabs/remac/internal/logging"
	"github.com/remaclabs/remac/pkg/domain"
)

// Issuer sends recorded calls to a REST API over HTTP.
type Issuer struct {
	baseURL   string
	apiKey    string
	keyHeader string
	client    *http.Client
	logger    *slog.Logger
}

// Option configures the Issuer.
type Option func(*Issuer)

// WithAPIKey sets the API key sent with every request.
func WithAPIKey(key string) Option {
	return func(i *Issuer) {
		i.apiKey = key
	}
}

// WithKeyHeader overrides the header used for the API key.
func WithKeyHeader(header string) Option {
	return func(i *Issuer) {
		i.keyHeader = header
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(i *Issuer) {
		i.client = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Issuer) {
		i.logger = logger
	}
}

// New creates an Issuer targeting the given base URL.
func New(baseURL string, opts ...Option) *Issuer {
	issuer := &Issuer{
		baseURL:   strings.TrimRight(baseURL, "/"),
		keyHeader: "X-API-Key",
		client:    &http.Client{Timeout: 30 * time.Second},
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(issuer)
	}
	return issuer
}

// Issue implements ports.CallIssuer. The call's Params become query string
// values; the Payload, when present, is sent as a JSON body. Responses with
// JSON object bodies are decoded into Response.Data; anything else is kept
// under the "body" key so callers still see it.
func (i *Issuer) Issue(ctx context.Context, call domain.Call) (*domain.Response, error) {
	target, err := i.buildURL(call)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if call.Payload != nil {
		data, err := json.Marshal(call.Payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, string(call.Method), target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if call.Payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if i.apiKey != "" {
		req.Header.Set(i.keyHeader, i.apiKey)
	}

	i.logger.Debug("issuing call", "method", call.Method, "url", target)

	resp, err := i.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	out := &domain.Response{Status: resp.StatusCode}
	if len(raw) > 0 {
		var data map[string]any
		if err := json.Unmarshal(raw, &data); err == nil {
			out.Data = data
		} else {
			out.Data = map[string]any{"body": string(raw)}
		}
	}

	if resp.StatusCode >= 400 {
		return out, fmt.Errorf("api returned status %d for %s %s", resp.StatusCode, call.Method, call.Path)
	}
	return out, nil
}

func (i *Issuer) buildURL(call domain.Call) (string, error) {
	target, err := url.Parse(i.baseURL + "/" + strings.TrimLeft(call.Path, "/"))
	if err != nil {
		return "", fmt.Errorf("invalid call path %q: %w", call.Path, err)
	}
	if len(call.Params) > 0 {
		q := target.Query()
		for k, v := range call.Params {
			q.Set(k, fmt.Sprint(v))
		}
		target.RawQuery = q.Encode()
	}
	return target.String(), nil
}
