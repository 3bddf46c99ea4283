// Package client calls the /generate endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"novel_tweet_copywriter/generator"
)

const (
	DefaultTimeout  = 120 * time.Second
	maxResponseSize = 4 << 20
	RequestIDHeader = "X-Request-ID"
)

// Client issues one generation request at a time and never retries.
type Client struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
	verbose  bool
	logger   *log.Logger
}

// Option configures a Client.
type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(logger *log.Logger, verbose bool) Option {
	return func(c *Client) {
		c.logger = logger
		c.verbose = verbose
	}
}

func New(endpoint string, opts ...Option) (*Client, error) {
	if endpoint == "" {
		return nil, errors.New("generation endpoint is required")
	}
	c := &Client{
		endpoint: endpoint,
		http:     &http.Client{},
		timeout:  DefaultTimeout,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout <= 0 {
		return nil, errors.New("timeout must be positive")
	}
	return c, nil
}

func (c *Client) infof(format string, args ...interface{}) {
	if !c.verbose {
		return
	}
	c.logger.Printf("[INFO] "+format, args...)
}

// Generate posts the request and decodes the result.
func (c *Client) Generate(ctx context.Context, req generator.Request) (generator.Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return generator.Result{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return generator.Result{}, err
	}
	requestID := uuid.NewString()
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)

	start := time.Now()
	c.infof("generate request_id=%s style=%s count=%d", requestID, req.Style, req.Count)
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return generator.Result{}, c.mapTransportErr(ctx, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSize))
		c.infof("generate request_id=%s status=%d", requestID, resp.StatusCode)
		return generator.Result{}, &ServerError{StatusCode: resp.StatusCode}
	}

	var payload generator.Response
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseSize)).Decode(&payload); err != nil {
		return generator.Result{}, c.mapTransportErr(ctx, fmt.Errorf("decode response: %w", err))
	}
	// 超时和响应可能同时到达，这里以截止时间为准。
	if ctx.Err() != nil {
		return generator.Result{}, c.mapTransportErr(ctx, ctx.Err())
	}
	if !payload.Success {
		msg := payload.Error
		if msg == "" {
			msg = "生成失败"
		}
		return generator.Result{}, &ApplicationError{Message: msg}
	}

	c.infof("generate request_id=%s done in %s", requestID, time.Since(start).Round(time.Millisecond))
	return payload.Result, nil
}

func (c *Client) mapTransportErr(ctx context.Context, err error) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{After: c.timeout}
	}
	return err
}
