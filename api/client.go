/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package api is the gateway to the Annapurna Veneer REST backend. Every
// method issues exactly one HTTP request and reports failures as apierror.APIError.
package api

import (
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
	"github.com/nitesh7079/veneer/internal/apierror"
	"github.com/nitesh7079/veneer/internal/request"
	"github.com/nitesh7079/veneer/model"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultTimeout = 15 * time.Second
	// UnreadTimeout bounds the frequent unread-notification poll.
	UnreadTimeout = 5 * time.Second
	// SlowTimeout is used by the full notification list and authentication.
	SlowTimeout = 10 * time.Second

	RequestIDHeader = "X-Request-Id"
	UserIDHeader    = "x-user-id"
)

// SessionLoader provides the identity attached to requests. A nil session
// or an error means the request is sent anonymously.
type SessionLoader interface {
	Load(ctx context.Context) (*model.Session, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	sessions   SessionLoader
	timeout    time.Duration
	tracer     trace.Tracer
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

func WithSession(s SessionLoader) Option {
	return func(c *Client) {
		c.sessions = s
	}
}

// WithTimeout overrides the default per-request timeout. Operations with
// their own fixed timeout keep it.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func NewClient(baseURL string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q", baseURL)
	}
	c := &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		timeout:    DefaultTimeout,
		tracer:     otel.Tracer("veneer.api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// HTTPClient exposes the underlying client, mainly so tests can mock its transport.
func (c *Client) HTTPClient() *http.Client {
	return c.httpClient
}

// operation describes one backend call for logging, tracing and error text.
type operation struct {
	name     string
	fallback string
	timeout  time.Duration
}

type call struct {
	op     operation
	method string
	path   string
	query  url.Values
	body   interface{}
	out    interface{}
}

func (c *Client) do(ctx context.Context, cl call) error {
	ctx, span := c.tracer.Start(ctx, cl.op.name, trace.WithAttributes(
		attribute.String("http.method", cl.method),
		attribute.String("veneer.path", cl.path),
	))
	defer span.End()

	timeout := cl.op.timeout
	if timeout == 0 {
		timeout = c.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	target := c.baseURL + cl.path
	if len(cl.query) > 0 {
		target += "?" + cl.query.Encode()
	}

	var payload io.Reader
	if cl.body != nil {
		buf, err := request.ToJsonReq(cl.body)
		if err != nil {
			return c.fail(span, apierror.Validation(cl.op.fallback, err.Error()))
		}
		payload = buf
	}

	req, err := http.NewRequestWithContext(ctx, cl.method, target, payload)
	if err != nil {
		return c.fail(span, apierror.NewAPIError(apierror.ErrTransport, apierror.ConnectivityMessage, err.Error()))
	}

	requestID := uuid.NewString()
	req.Header.Set(RequestIDHeader, requestID)
	c.authorize(ctx, req)

	started := time.Now()
	resp, err := request.Call(c.httpClient, req, cl.out)
	fields := logrus.Fields{
		"method":     cl.method,
		"path":       cl.path,
		"request_id": requestID,
		"duration":   time.Since(started).String(),
	}
	if resp != nil {
		fields["status"] = resp.StatusCode
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	}

	if err != nil {
		apiErr := translate(ctx, cl.op, err)
		logrus.WithFields(fields).WithField("code", apiErr.Code).Warn(apiErr.Message)
		return c.fail(span, apiErr)
	}

	logrus.WithFields(fields).Debug(cl.op.name)
	return nil
}

func (c *Client) authorize(ctx context.Context, req *http.Request) {
	if c.sessions == nil {
		return
	}
	s, err := c.sessions.Load(ctx)
	if err != nil || s == nil {
		return
	}
	if s.Token != "" {
		req.Header.Set("Authorization", request.BearerAuth(s.Token))
	}
	if s.UserID != "" {
		req.Header.Set(UserIDHeader, s.UserID)
	}
}

func (c *Client) fail(span trace.Span, err apierror.APIError) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Message)
	return err
}

// translate maps a request failure onto the error taxonomy. The server's own
// message wins over the per-operation fallback.
func translate(ctx context.Context, op operation, err error) apierror.APIError {
	var statusErr *request.StatusError
	if errors.As(err, &statusErr) {
		var body model.ErrorBody
		msg := op.fallback
		if jsonErr := json.Unmarshal(statusErr.Body, &body); jsonErr == nil {
			if text := body.Text(); text != "" {
				msg = text
			}
		}
		return apierror.FromStatus(statusErr.StatusCode, msg, body)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return apierror.NewAPIError(apierror.ErrTimeout, "Request timed out. Please try again.", err.Error())
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return apierror.NewAPIError(apierror.ErrTimeout, "Request timed out. Please try again.", err.Error())
		}
		return apierror.NewAPIError(apierror.ErrTransport, apierror.ConnectivityMessage, err.Error())
	}

	// a 2xx answer that could not be decoded
	return apierror.NewAPIError(apierror.ErrBackend, op.fallback, err.Error())
}
