// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package polish sends text to the OpenRouter chat-completions API and
// returns the polished version.
//
// A call makes at most one HTTP attempt. Every failure comes back as a
// *Error carrying a Kind, so callers branch on the kind instead of parsing
// messages. Cancellation through the context is reported as KindCancelled
// and takes precedence over anything the server sent.
package polish

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jeranaias/polishit/internal/catalog"
	"github.com/jeranaias/polishit/internal/util"
)

// Configuration constants for the OpenRouter API.
const (
	// DefaultBaseURL is the OpenRouter API root.
	DefaultBaseURL = "https://openrouter.ai/api/v1"

	// DefaultReferer identifies the application to OpenRouter.
	DefaultReferer = "Polish.It/1.0"

	// DefaultTimeout is the HTTP client timeout. Zero disables it.
	DefaultTimeout = 60 * time.Second

	// MaxResponseSize caps how much of a response body is read.
	MaxResponseSize = 10 * 1024 * 1024

	// Temperature and MaxTokens are fixed for every polish request.
	Temperature = 0.7
	MaxTokens   = 1000

	// previewRunes bounds the body preview written to the debug log.
	previewRunes = 200

	userAgent = "polishit/1.0"
)

// ChatMessage is a single message in a chat completion request.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body sent to /chat/completions.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

// chatChoice mirrors the part of a completion choice we read. Pointers let
// us tell a missing field from an empty one.
type chatChoice struct {
	Message *struct {
		Content *string `json:"content"`
	} `json:"message"`
}

// apiErrorBody is the provider's error object.
type apiErrorBody struct {
	Message string `json:"message"`
}

// Request is one polish invocation. It lives only as long as the call.
type Request struct {
	// ID correlates log lines; generated when empty.
	ID     string
	Text   string
	APIKey string
	Model  catalog.Model
}

// Client talks to the chat-completions endpoint.
type Client struct {
	baseURL    string
	referer    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a client for the public OpenRouter endpoint.
func NewClient() *Client {
	return &Client{
		baseURL:    DefaultBaseURL,
		referer:    DefaultReferer,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zerolog.Nop(),
	}
}

// WithBaseURL sets a custom API root (tests, proxies).
func (c *Client) WithBaseURL(url string) *Client {
	c.baseURL = strings.TrimSuffix(url, "/")
	return c
}

// WithReferer sets the HTTP-Referer header value.
func (c *Client) WithReferer(referer string) *Client {
	if referer != "" {
		c.referer = referer
	}
	return c
}

// WithTimeout sets the HTTP client timeout. Zero disables it.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	c.httpClient.Timeout = timeout
	return c
}

// WithHTTPClient replaces the underlying HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	if hc != nil {
		c.httpClient = hc
	}
	return c
}

// WithLogger sets the logger.
func (c *Client) WithLogger(logger zerolog.Logger) *Client {
	c.logger = logger.With().Str("component", "polish").Logger()
	return c
}

// Endpoint returns the full chat-completions URL.
func (c *Client) Endpoint() string {
	return c.baseURL + "/chat/completions"
}

// Polish sends req.Text for polishing and returns the trimmed result.
//
// The key is validated as given: substituting a free-tier key for free
// models is the caller's job. Any returned error is an *Error.
func (c *Client) Polish(ctx context.Context, req Request) (string, error) {
	if req.Text == "" {
		return "", newError(KindInvalidInput, 0, "Text is empty", nil)
	}
	if req.APIKey == "" {
		return "", newError(KindUnauthorized, http.StatusUnauthorized, "API key is missing", nil)
	}
	if req.ID == "" {
		req.ID = uuid.NewString()
	}

	log := c.logger.With().
		Str("request_id", req.ID).
		Str("model", req.Model.ID).
		Logger()

	httpReq, err := c.newHTTPRequest(ctx, req)
	if err != nil {
		// Only a malformed base URL gets here.
		return "", newError(KindInvalidInput, 0, err.Error(), err)
	}

	log.Info().
		Int("text_len", len(req.Text)).
		Str("key_fingerprint", util.Fingerprint(req.APIKey)).
		Msg("sending polish request")

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if cerr := cancelled(ctx); cerr != nil {
			log.Info().Msg("polish request cancelled")
			return "", cerr
		}
		log.Error().Err(err).Msg("network error")
		return "", newError(KindNetwork, 0, describeTransportError(err), err)
	}
	defer resp.Body.Close()

	body, readErr := readResponse(resp)
	if cerr := cancelled(ctx); cerr != nil {
		log.Info().Int("status", resp.StatusCode).Msg("response discarded after cancellation")
		return "", cerr
	}
	if readErr != nil {
		log.Error().Err(readErr).Int("status", resp.StatusCode).Msg("failed to read response")
		return "", newError(KindNetwork, resp.StatusCode, readErr.Error(), readErr)
	}

	log.Info().
		Int("status", resp.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("received response")
	log.Debug().Str("body", util.TruncateRunes(string(body), previewRunes)).Msg("response body")

	text, err := parseResponse(resp.StatusCode, body)
	if err != nil {
		log.Error().Err(err).Int("status", resp.StatusCode).Msg("polish failed")
		return "", err
	}
	log.Info().Int("polished_len", len(text)).Msg("successfully received polished text")
	return text, nil
}

// newHTTPRequest builds the POST with the body and headers the provider expects.
func (c *Client) newHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	payload := ChatRequest{
		Model:       req.Model.ID,
		Messages:    []ChatMessage{{Role: "user", Content: BuildPrompt(req.Text)}},
		Temperature: Temperature,
		MaxTokens:   MaxTokens,
	}
	bodyBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+req.APIKey)
	httpReq.Header.Set("HTTP-Referer", c.referer)
	httpReq.Header.Set("User-Agent", userAgent)
	return httpReq, nil
}

// parseResponse turns a status and body into the polished text or an *Error.
func parseResponse(status int, body []byte) (string, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		if !json.Valid(body) {
			return "", newError(KindMalformedResponse, status, err.Error(), err)
		}
		// Valid JSON of another shape: treat like an object without the fields.
		envelope = nil
	}

	if status >= http.StatusBadRequest {
		var apiErr apiErrorBody
		if raw, ok := envelope["error"]; ok && json.Unmarshal(raw, &apiErr) == nil {
			return "", apiError(status, apiErr.Message)
		}
		return "", apiError(status, "")
	}

	var choices []chatChoice
	if err := json.Unmarshal(envelope["choices"], &choices); err != nil ||
		len(choices) == 0 ||
		choices[0].Message == nil ||
		choices[0].Message.Content == nil {
		return "", newError(KindMalformedResponse, status, parseFailedMessage, err)
	}
	return strings.TrimSpace(*choices[0].Message.Content), nil
}

// readResponse reads the body, refusing anything larger than MaxResponseSize.
func readResponse(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if len(body) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}

// cancelled returns a KindCancelled error once ctx was cancelled. A passed
// deadline is not a cancellation; the transport error reports it.
func cancelled(ctx context.Context) *Error {
	if err := ctx.Err(); errors.Is(err, context.Canceled) {
		return newError(KindCancelled, 0, "Request cancelled", err)
	}
	return nil
}

// describeTransportError produces a short message for a failed round trip.
func describeTransportError(err error) string {
	var timeout interface{ Timeout() bool }
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &timeout) && timeout.Timeout()) {
		return "The request timed out"
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Sprintf("Network error: %v", urlErr.Err)
	}
	return fmt.Sprintf("Network error: %v", err)
}
