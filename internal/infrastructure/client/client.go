// Package client implements the JSON-over-HTTPS acquiring API client. Every
// request is token-signed over its root-level scalar parameters; business
// failures surface as *acquiring.APIError.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/moneyport/acquiring-go/internal/domain/acquiring"
)

const defaultTimeout = 40 * time.Second

// Config carries the terminal credentials and endpoint of one terminal.
type Config struct {
	BaseURL     string
	TerminalKey string
	Password    string
}

type Client struct {
	baseURL     string
	terminalKey string
	httpClient  *http.Client
	signer      TokenSigner
	logger      *zap.Logger
}

type Option func(*Client)

// WithHTTPClient overrides the transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSigner swaps the request signing strategy.
func WithTokenSigner(s TokenSigner) Option {
	return func(c *Client) { c.signer = s }
}

func NewClient(cfg Config, logger *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:     cfg.BaseURL,
		terminalKey: cfg.TerminalKey,
		httpClient:  &http.Client{Timeout: defaultTimeout},
		signer:      NewPasswordSigner(cfg.Password),
		logger:      logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TerminalKey returns the terminal this client is bound to.
func (c *Client) TerminalKey() string {
	return c.terminalKey
}

// call signs the request, posts it to {baseURL}/{method} and decodes the
// response into out. out must embed BaseResponse so the Success/ErrorCode
// envelope can be checked.
func (c *Client) call(ctx context.Context, method string, req any, out responseEnvelope) error {
	body, err := c.signedBody(req)
	if err != nil {
		return err
	}

	respBody, err := c.post(ctx, method, body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%s: failed to parse response: %w", method, err)
	}

	base := out.base()
	if !base.Success || (base.ErrorCode != "" && base.ErrorCode != "0") {
		c.logger.Warn("acquiring api returned a business error",
			zap.String("method", method),
			zap.String("error_code", base.ErrorCode),
			zap.String("message", base.Message))
		return &acquiring.APIError{
			Code:    base.ErrorCode,
			Message: base.Message,
			Details: base.Details,
		}
	}

	return nil
}

// callList is the GetCardList shape: the API answers with a bare JSON array
// on success and with the usual error envelope on failure.
func (c *Client) callList(ctx context.Context, method string, req any, out any) error {
	body, err := c.signedBody(req)
	if err != nil {
		return err
	}

	respBody, err := c.post(ctx, method, body)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(respBody, out); err == nil {
		return nil
	}

	var envelope BaseResponse
	if err := json.Unmarshal(respBody, &envelope); err != nil {
		return fmt.Errorf("%s: failed to parse response: %w", method, err)
	}
	return &acquiring.APIError{
		Code:    envelope.ErrorCode,
		Message: envelope.Message,
		Details: envelope.Details,
	}
}

func (c *Client) post(ctx context.Context, method string, body []byte) ([]byte, error) {
	url := fmt.Sprintf("%s/%s", c.baseURL, method)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", method, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Debug("calling acquiring api", zap.String("method", method))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("acquiring api request failed",
			zap.String("method", method),
			zap.Error(err))
		return nil, fmt.Errorf("%s: request failed: %w", method, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to read response: %w", method, err)
	}

	if resp.StatusCode != http.StatusOK {
		c.logger.Error("acquiring api returned non-200",
			zap.String("method", method),
			zap.Int("status_code", resp.StatusCode))
		return nil, &acquiring.APIError{
			Code:    strconv.Itoa(resp.StatusCode),
			Message: "acquiring api request failed",
			Details: string(respBody),
		}
	}

	return respBody, nil
}

// signedBody serializes the request, computes the token over its root-level
// scalar fields and injects it as the Token parameter. Nested objects such as
// Receipt and DATA do not participate in signing.
func (c *Client) signedBody(req any) ([]byte, error) {
	raw, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	var fields map[string]any
	if err := decoder.Decode(&fields); err != nil {
		return nil, fmt.Errorf("failed to decode request fields: %w", err)
	}

	fields["Token"] = c.signer.Sign(scalarParams(fields))

	return json.Marshal(fields)
}

func scalarParams(fields map[string]any) map[string]string {
	params := make(map[string]string, len(fields))
	for k, v := range fields {
		if k == "Token" {
			continue
		}
		switch val := v.(type) {
		case string:
			params[k] = val
		case json.Number:
			params[k] = val.String()
		case bool:
			params[k] = strconv.FormatBool(val)
		}
	}
	return params
}
