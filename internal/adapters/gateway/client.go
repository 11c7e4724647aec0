// Package gateway talks to the agency's HTTP gateways: the messaging
// provider, the workload service and the workflow engine.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Config addresses one gateway.
type Config struct {
	BaseURL    string
	Token      string
	Timeout    time.Duration
	RetryCount int
}

// Client is a JSON client for one gateway.
type Client struct {
	http   *resty.Client
	name   string
	logger *zap.Logger
}

// NewClient creates a client named for log output.
func NewClient(name string, cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(500 * time.Millisecond).
		SetRetryMaxWaitTime(5 * time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if cfg.Token != "" {
		rc.SetAuthToken(cfg.Token)
	}

	return &Client{http: rc, name: name, logger: logger.With(zap.String("gateway", name))}
}

// StatusError is a non-2xx gateway reply.
type StatusError struct {
	Gateway    string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s gateway %s returned %d: %s", e.Gateway, e.Path, e.StatusCode, e.Body)
}

// post sends body to path and decodes a 2xx reply into result, if non-nil.
func (c *Client) post(ctx context.Context, path string, body, result any) error {
	req := c.http.R().SetContext(ctx).SetBody(body)
	if result != nil {
		req.SetResult(result)
	}

	resp, err := req.Post(path)
	if err != nil {
		c.logger.Error("gateway call failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("failed to call %s gateway: %w", c.name, err)
	}
	if resp.IsError() {
		c.logger.Warn("gateway returned error",
			zap.String("path", path),
			zap.Int("status_code", resp.StatusCode()))
		return &StatusError{Gateway: c.name, Path: path, StatusCode: resp.StatusCode(), Body: resp.String()}
	}

	c.logger.Debug("gateway call succeeded", zap.String("path", path), zap.Int("status_code", resp.StatusCode()))
	return nil
}
