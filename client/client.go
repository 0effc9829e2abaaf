package client

import (
	// Go Internal Packages
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	// Local Packages
	errors "paybot-console/errors"
	metrics "paybot-console/metrics"
	session "paybot-console/session"

	// External Packages
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Config struct {
	BaseURL string
	// Timeout applies to every request except the wallet transfer listing.
	Timeout time.Duration
	// WalletTimeout applies to the wallet transfer listing, whose upstream explorer
	// queries are slow.
	WalletTimeout time.Duration
}

// Client talks to the payment bot backend REST API.
type Client struct {
	baseURL    string
	http       *http.Client
	walletHTTP *http.Client
	session    *session.Session
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

func New(conf Config, sess *session.Session, logger *zap.Logger, m *metrics.Metrics) *Client {
	return &Client{
		baseURL:    strings.TrimRight(conf.BaseURL, "/"),
		http:       &http.Client{Timeout: conf.Timeout},
		walletHTTP: &http.Client{Timeout: conf.WalletTimeout},
		session:    sess,
		logger:     logger,
		metrics:    m,
	}
}

type request struct {
	endpoint string
	method   string
	path     string
	params   url.Values
	body     any
	slow     bool
	anon     bool
}

type remoteError struct {
	Error   string `json:"error"`
	Details string `json:"details"`
	Message string `json:"message"`
}

// send performs the request and returns the raw response body of a 2xx response.
func (c *Client) send(ctx context.Context, r request) ([]byte, error) {
	target := c.baseURL + r.path
	if len(r.params) > 0 {
		target += "?" + r.params.Encode()
	}

	var body io.Reader
	if r.body != nil {
		jsonBody, err := json.Marshal(r.body)
		if err != nil {
			return nil, errors.E(errors.Invalid, "failed to marshal request body", err)
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, body)
	if err != nil {
		return nil, errors.E(errors.Invalid, "failed to create request", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if r.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if !r.anon {
		if token := c.session.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	httpClient := c.http
	if r.slow {
		httpClient = c.walletHTTP
	}

	start := time.Now()
	resp, err := httpClient.Do(req)
	c.metrics.RequestDuration.WithLabelValues(r.endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.Requests.WithLabelValues(r.endpoint, "transport_error").Inc()
		c.logger.Error("request failed", zap.String("endpoint", r.endpoint), zap.String("request_id", requestID), zap.Error(err))
		return nil, errors.E(errors.Remote, "failed to send request", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.Requests.WithLabelValues(r.endpoint, "transport_error").Inc()
		return nil, errors.E(errors.Remote, "failed to read response body", err)
	}
	c.metrics.Requests.WithLabelValues(r.endpoint, strconv.Itoa(resp.StatusCode)).Inc()

	c.logger.Debug("request completed",
		zap.String("endpoint", r.endpoint),
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)),
	)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return payload, nil
	}

	if !r.anon && (resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden) {
		c.session.Invalidate(ctx)
		return nil, &errors.Error{Kind: errors.Unauthorized, Msg: "credential rejected by backend", Status: resp.StatusCode}
	}

	var re remoteError
	_ = json.Unmarshal(payload, &re)
	detail := re.Error
	if detail == "" {
		detail = re.Details
	}
	if detail == "" {
		detail = re.Message
	}
	return nil, errors.RemoteErr(resp.StatusCode, detail, nil)
}

// sendJSON performs the request and decodes a 2xx JSON response into out.
func (c *Client) sendJSON(ctx context.Context, r request, out any) error {
	payload, err := c.send(ctx, r)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return errors.InvalidBodyErr(fmt.Errorf("%s: %w", r.endpoint, err))
	}
	return nil
}
