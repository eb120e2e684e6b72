package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"promptstudio-go/internal/constants"
	apierrors "promptstudio-go/internal/errors"
	"promptstudio-go/internal/monitoring/tracing"
)

const maxResponseBytes = 4 << 20

// Options configures the HTTP transport and request defaults shared by
// every per-key client.
type Options struct {
	Endpoint    string
	Model       string
	ProxyURL    string
	Temperature float64
	MaxTokens   int

	DialTimeout           time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration
	RequestTimeout        time.Duration
}

func (o Options) withDefaults() Options {
	if o.Endpoint == "" {
		o.Endpoint = constants.DefaultEndpoint
	}
	o.Endpoint = strings.TrimRight(o.Endpoint, "/")
	if o.Model == "" {
		o.Model = constants.DefaultModel
	}
	if o.DialTimeout <= 0 {
		o.DialTimeout = constants.DefaultDialTimeout
	}
	if o.TLSHandshakeTimeout <= 0 {
		o.TLSHandshakeTimeout = constants.DefaultTLSHandshakeTimeout
	}
	if o.ResponseHeaderTimeout <= 0 {
		o.ResponseHeaderTimeout = constants.DefaultResponseHeaderTimeout
	}
	if o.RequestTimeout <= 0 {
		o.RequestTimeout = constants.UpstreamGenerateTimeout
	}
	return o
}

// Dialer owns the shared transport and hands out one Client per API key.
type Dialer struct {
	opts Options
	cli  *http.Client
}

// NewDialer builds the shared HTTP client from opts.
func NewDialer(opts Options) *Dialer {
	opts = opts.withDefaults()
	tr := &http.Transport{
		Proxy: getProxyFunc(opts.ProxyURL),
		DialContext: (&net.Dialer{
			Timeout:   opts.DialTimeout,
			KeepAlive: constants.DefaultKeepAlive,
		}).DialContext,
		TLSHandshakeTimeout:   opts.TLSHandshakeTimeout,
		ResponseHeaderTimeout: opts.ResponseHeaderTimeout,
		ExpectContinueTimeout: constants.DefaultExpectContinueTimeout,
		MaxIdleConns:          constants.BaseMaxIdleConns,
		MaxIdleConnsPerHost:   constants.BaseMaxIdleConnsPerHost,
		IdleConnTimeout:       constants.BaseIdleConnTimeout,
	}
	return &Dialer{opts: opts, cli: &http.Client{Transport: tr}}
}

// NewDialerWithHTTPClient is used by tests to inject a stub transport.
func NewDialerWithHTTPClient(opts Options, cli *http.Client) *Dialer {
	return &Dialer{opts: opts.withDefaults(), cli: cli}
}

// Dial returns a client bound to apiKey.
func (d *Dialer) Dial(apiKey string) *Client {
	return &Client{opts: d.opts, cli: d.cli, apiKey: apiKey}
}

// Model returns the configured model name.
func (d *Dialer) Model() string { return d.opts.Model }

// getProxyFunc returns appropriate proxy function based on configuration
func getProxyFunc(proxyURL string) func(*http.Request) (*url.URL, error) {
	if proxyURL != "" {
		if parsedURL, err := url.Parse(proxyURL); err == nil {
			return http.ProxyURL(parsedURL)
		}
	}
	return http.ProxyFromEnvironment
}

// Client talks to generateContent with exactly one API key.
type Client struct {
	opts   Options
	cli    *http.Client
	apiKey string
}

// Generate sends req and returns the concatenated text of the first candidate.
// Non-2xx answers become *apierrors.BackendError, transport failures
// *apierrors.TransportError, and an answer without text wraps apierrors.ErrShape.
func (c *Client) Generate(ctx context.Context, req *Request) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}
	body = applyGenerationDefaults(body, c.opts.Temperature, c.opts.MaxTokens)

	raw, err := c.postJSON(ctx, c.opts.Endpoint+BuildGeneratePath(c.opts.Model), body)
	if err != nil {
		return "", err
	}
	text := extractText(raw)
	if strings.TrimSpace(text) == "" {
		if reason := blockReason(raw); reason != "" {
			return "", fmt.Errorf("%w: no text in response (%s)", apierrors.ErrShape, reason)
		}
		return "", fmt.Errorf("%w: no text in response", apierrors.ErrShape)
	}
	return text, nil
}

// postJSON sends one POST and returns the body of a 2xx answer.
func (c *Client) postJSON(ctx context.Context, target string, body []byte) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.opts.RequestTimeout)
	defer cancel()

	ctx, span := tracing.StartSpan(ctx, "upstream/gemini", "Gemini.GenerateContent",
		trace.WithAttributes(
			attribute.String("http.method", http.MethodPost),
			attribute.String("upstream.model", c.opts.Model),
		))
	defer span.End()

	status, raw, err := c.do(ctx, target, body)
	span.SetAttributes(attribute.Int("http.status_code", status))
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	case status >= 400:
		span.SetStatus(codes.Error, fmt.Sprintf("http_status=%d", status))
		return nil, apierrors.FromResponse(status, raw)
	default:
		span.SetStatus(codes.Ok, "")
		return raw, nil
	}
}

func (c *Client) do(ctx context.Context, target string, body []byte) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	c.applyDefaultHeaders(req)

	resp, err := c.cli.Do(req)
	if err != nil {
		return 0, nil, &apierrors.TransportError{Kind: classifyErr(err), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, &apierrors.TransportError{Kind: classifyErr(err), Err: err}
	}
	return resp.StatusCode, raw, nil
}

func classifyErr(err error) string {
	if ue, ok := err.(*url.Error); ok && ue.Timeout() {
		return apierrors.KindTimeout
	}
	return apierrors.ClassifyTransport(err)
}
