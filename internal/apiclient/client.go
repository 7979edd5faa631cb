// Package apiclient talks to the directory REST API over fasthttp, attaching
// the session credential as a bearer token.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/spec-kit/directory-client/internal/observability"
	apperrors "github.com/spec-kit/directory-client/pkg/util/errorutil"
)

// HeaderRequestID correlates a call with API-side logs.
const HeaderRequestID = "X-Request-ID"

// CredentialSource supplies the bearer credential for outgoing calls.
type CredentialSource interface {
	Credential() (string, bool)
}

// Options configures a Client.
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	Credentials CredentialSource
	Logger      *zap.Logger
	Metrics     *observability.Metrics
	// OnUnauthorized runs when the API answers 401 to a call that carried a
	// credential.
	OnUnauthorized func(ctx context.Context)
	// HTTPClient overrides the transport, mostly for tests.
	HTTPClient *fasthttp.Client
}

// Client is safe for concurrent use.
type Client struct {
	baseURL        string
	timeout        time.Duration
	http           *fasthttp.Client
	credentials    CredentialSource
	logger         *zap.Logger
	metrics        *observability.Metrics
	onUnauthorized func(ctx context.Context)
}

// New constructs a Client.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &fasthttp.Client{
			Name:                "directory-client",
			ReadTimeout:         opts.Timeout,
			WriteTimeout:        opts.Timeout,
			MaxIdleConnDuration: 30 * time.Second,
		}
	}
	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		timeout:        opts.Timeout,
		http:           httpClient,
		credentials:    opts.Credentials,
		logger:         opts.Logger,
		metrics:        opts.Metrics,
		onUnauthorized: opts.OnUnauthorized,
	}
}

type call struct {
	method string
	path   string
	query  url.Values
	body   any
	out    any
	// anonymous calls never carry the credential.
	anonymous bool
}

func (c *Client) do(ctx context.Context, cl call) error {
	if err := ctx.Err(); err != nil {
		return apperrors.NewNetworkFailure(err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	uri := c.baseURL + cl.path
	if len(cl.query) > 0 {
		uri += "?" + cl.query.Encode()
	}
	req.SetRequestURI(uri)
	req.Header.SetMethod(cl.method)
	req.Header.Set(fasthttp.HeaderAccept, "application/json")

	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)

	var credential string
	var authed bool
	if c.credentials != nil && !cl.anonymous {
		credential, authed = c.credentials.Credential()
	}
	if authed {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+credential)
	}

	if cl.body != nil {
		payload, err := json.Marshal(cl.body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", cl.method, cl.path, err)
		}
		req.Header.SetContentType("application/json")
		req.SetBody(payload)
	}

	start := time.Now()
	err := c.http.DoDeadline(req, resp, c.deadline(ctx))
	elapsed := time.Since(start)
	if err != nil {
		c.metrics.RecordError(cl.path, cl.method, apperrors.CodeNetworkFailure)
		c.logger.Warn("directory api unreachable",
			zap.String("request_id", requestID),
			zap.String("method", cl.method),
			zap.String("path", cl.path),
			zap.Error(err))
		return apperrors.NewNetworkFailure(err)
	}

	status := resp.StatusCode()
	c.metrics.RecordRequest(cl.path, cl.method, status, elapsed)
	c.logger.Debug("directory api call",
		zap.String("request_id", requestID),
		zap.String("method", cl.method),
		zap.String("path", cl.path),
		zap.Int("status", status),
		zap.Duration("latency", elapsed))

	if status == fasthttp.StatusUnauthorized && authed && c.onUnauthorized != nil {
		c.onUnauthorized(ctx)
	}

	if status < 200 || status >= 300 {
		domainErr := apperrors.FromStatus(status, errorMessage(resp.Body()))
		c.metrics.RecordError(cl.path, cl.method, apperrors.ToDomainError(domainErr).Code)
		return domainErr
	}

	if cl.out == nil || len(resp.Body()) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), cl.out); err != nil {
		return apperrors.NewRequestFailed(status, fmt.Sprintf("unexpected response from %s %s: %v", cl.method, cl.path, err))
	}
	return nil
}

func (c *Client) deadline(ctx context.Context) time.Time {
	deadline := time.Now().Add(c.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		return d
	}
	return deadline
}

// errorMessage extracts the API's message from either {"error": "..."} or
// {"error": {"message": "..."}}.
func errorMessage(body []byte) string {
	var envelope struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	if len(envelope.Error) > 0 {
		var text string
		if err := json.Unmarshal(envelope.Error, &text); err == nil {
			return text
		}
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(envelope.Error, &nested); err == nil && nested.Message != "" {
			return nested.Message
		}
	}
	return envelope.Message
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
