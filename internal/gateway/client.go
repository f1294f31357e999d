package gateway

import (
	"ai_authoring_backend/internal/config"
	"ai_authoring_backend/internal/util"
	"ai_authoring_backend/pkg/logger"
	"ai_authoring_backend/pkg/monitoring"
	"ai_authoring_backend/pkg/tracing"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// StatusError 上游返回非 2xx
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream %s error (status %d): %s", e.Endpoint, e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	return util.ErrUpstream
}

// Client 上游内容后端的 HTTP 实现
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(cfg config.UpstreamConfig) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP 使用自定义 http.Client，主要用于测试
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: hc}
}

// do 发起一次请求并返回响应体，所有请求都带禁止缓存的请求头
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body interface{}) (respBody []byte, err error) {
	started := time.Now()
	ctx, span := tracing.StartUpstreamSpan(ctx, method, endpoint)
	outcome := "ok"
	defer func() {
		tracing.EndSpan(span, err)
		monitoring.ObserveUpstream(endpoint, outcome, started)
	}()

	target := c.baseURL + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			outcome = "encode_error"
			return nil, fmt.Errorf("encode %s request: %w", endpoint, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		outcome = "encode_error"
		return nil, err
	}
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Expires", "0")
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		outcome = "transport_error"
		logger.Log.Warn("Upstream request failed",
			zap.String("endpoint", endpoint), zap.String("method", method), zap.Error(err))
		return nil, fmt.Errorf("%w: %s: %v", util.ErrUpstream, endpoint, err)
	}
	defer resp.Body.Close()

	respBody, err = io.ReadAll(resp.Body)
	if err != nil {
		outcome = "transport_error"
		return nil, fmt.Errorf("%w: read %s response: %v", util.ErrUpstream, endpoint, err)
	}

	logger.Log.Debug("Upstream request",
		zap.String("endpoint", endpoint),
		zap.String("method", method),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(started)))

	if resp.StatusCode/100 != 2 {
		outcome = "http_error"
		serr := &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: truncate(string(respBody), 512)}
		logger.Log.Warn("Upstream returned error status",
			zap.String("endpoint", endpoint), zap.Int("status", resp.StatusCode))
		return nil, serr
	}

	return respBody, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	body, err := c.do(ctx, http.MethodGet, endpoint, query, nil)
	if err != nil {
		return err
	}
	return decode(endpoint, body, out)
}

func (c *Client) postJSON(ctx context.Context, endpoint string, in, out interface{}) error {
	body, err := c.do(ctx, http.MethodPost, endpoint, nil, in)
	if err != nil {
		return err
	}
	return decode(endpoint, body, out)
}

// postOpaque 响应结构未知的接口原样透传
func (c *Client) postOpaque(ctx context.Context, endpoint string, in interface{}) (json.RawMessage, error) {
	body, err := c.do(ctx, http.MethodPost, endpoint, nil, in)
	if err != nil {
		return nil, err
	}
	return opaque(body), nil
}

func decode(endpoint string, body []byte, out interface{}) error {
	if err := json.Unmarshal(body, out); err != nil {
		monitoring.UpstreamRequests.WithLabelValues(endpoint, "decode_error").Inc()
		return fmt.Errorf("%w: decode %s response: %v", util.ErrUpstream, endpoint, err)
	}
	return nil
}

// opaque 合法 JSON 原样返回，空响应为 null，非 JSON 文本包装为字符串
func opaque(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(trimmed) {
		return json.RawMessage(trimmed)
	}
	quoted, _ := json.Marshal(string(trimmed))
	return json.RawMessage(quoted)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
