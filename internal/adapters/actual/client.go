package actual

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/bnema/actual-mcp/internal/log"
	"github.com/bnema/actual-mcp/internal/ports"
	"github.com/cenkalti/backoff/v4"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
)

const (
	loginPath      = "/account/login"
	rpcPath        = "/api/rpc"
	tokenHeader    = "X-ACTUAL-TOKEN"
	shutdownMethod = "shutdown"

	defaultTimeout = 30 * time.Second
	dataDirMode    = 0o700
	maxErrorBody   = 2048
)

type Options struct {
	HTTPClient *http.Client
	// Timeout bounds each HTTP request. Ignored when HTTPClient is set.
	Timeout time.Duration
	Logger  log.Logger
	// LoginBackOff builds the retry policy for transient login failures.
	LoginBackOff func() backoff.BackOff
	// TracerProvider receives the HTTP client spans. Nil uses the global provider.
	TracerProvider trace.TracerProvider
}

// Client talks JSON-RPC to the bridge that hosts the finance library next to
// the finance server.
type Client struct {
	http         *http.Client
	logger       log.Logger
	loginBackOff func() backoff.BackOff

	mu      sync.RWMutex
	baseURL *url.URL
	token   string

	nextID atomic.Int64
}

var _ ports.FinanceClient = (*Client)(nil)

func NewClient(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		var transportOpts []otelhttp.Option
		if opts.TracerProvider != nil {
			transportOpts = append(transportOpts, otelhttp.WithTracerProvider(opts.TracerProvider))
		}
		httpClient = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport, transportOpts...),
		}
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.Nop
	}

	loginBackOff := opts.LoginBackOff
	if loginBackOff == nil {
		loginBackOff = defaultLoginBackOff
	}

	return &Client{http: httpClient, logger: logger, loginBackOff: loginBackOff}
}

func defaultLoginBackOff() backoff.BackOff {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = 250 * time.Millisecond
	policy.MaxElapsedTime = 15 * time.Second
	return backoff.WithMaxRetries(policy, 4)
}

func (c *Client) Init(ctx context.Context, opts ports.InitOptions) error {
	base, err := parseServerURL(opts.ServerURL)
	if err != nil {
		return err
	}

	if opts.DataDir != "" {
		if err := os.MkdirAll(opts.DataDir, dataDirMode); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}

	token := ""
	if opts.Password != "" {
		token, err = c.login(ctx, base, opts.Password)
		if err != nil {
			return err
		}
	}

	c.mu.Lock()
	c.baseURL = base
	c.token = token
	c.mu.Unlock()

	c.logger.Debugw("finance bridge ready", "server_url", base.String(), "authenticated", token != "")
	return nil
}

func (c *Client) Call(ctx context.Context, method string, args []any) (any, error) {
	base, token := c.session()
	if base == nil {
		return nil, domain.NewUnderlyingError("finance client is not initialized", nil, nil)
	}
	if args == nil {
		args = []any{}
	}

	started := time.Now()
	request := rpcRequest{
		JSONRPC: jsonRPCVersion,
		ID:      c.nextID.Add(1),
		Method:  method,
		Params:  args,
	}

	var response rpcResponse
	status, raw, err := c.postJSON(ctx, base.JoinPath(rpcPath), token, request, &response)
	if err != nil {
		return nil, err
	}

	c.logger.Debugw("rpc call", "method", method, "id", request.ID, "status", status, "duration", time.Since(started))

	if response.Error != nil {
		return nil, domain.NewUnderlyingError(response.Error.Message, response.Error.details(), response.Error)
	}
	if status == http.StatusUnauthorized {
		return nil, &domain.Error{
			Kind:    domain.ErrUnderlying,
			Message: "finance server rejected the session token",
			Hint:    "check the configured password and restart the server",
		}
	}
	if !isSuccess(status) {
		return nil, statusError(status, raw, nil)
	}
	if len(response.Result) == 0 || bytes.Equal(response.Result, []byte("null")) {
		return nil, nil
	}

	var result any
	if err := json.Unmarshal(response.Result, &result); err != nil {
		return nil, domain.NewUnderlyingError(fmt.Sprintf("decode %s result", method), nil, err)
	}
	return result, nil
}

// Shutdown asks the bridge to close the budget and forgets the session. It is
// safe to call on a client that was never initialised.
func (c *Client) Shutdown(ctx context.Context) error {
	base, _ := c.session()
	if base == nil {
		return nil
	}

	_, err := c.Call(ctx, shutdownMethod, nil)

	c.mu.Lock()
	c.baseURL = nil
	c.token = ""
	c.mu.Unlock()

	if err != nil {
		return fmt.Errorf("shutdown finance bridge: %w", err)
	}
	return nil
}

func (c *Client) session() (*url.URL, string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL, c.token
}

func (c *Client) login(ctx context.Context, base *url.URL, password string) (string, error) {
	var token string
	attempt := 0

	operation := func() error {
		attempt++

		var response loginResponse
		status, raw, err := c.postJSON(ctx, base.JoinPath(loginPath), "", loginRequest{LoginMethod: "password", Password: password}, &response)
		switch {
		case status >= http.StatusInternalServerError:
			if err == nil {
				err = statusError(status, raw, nil)
			}
			c.logger.Warnw("login attempt failed", "attempt", attempt, "status", status, "error", err)
			return err
		case err != nil && status != 0:
			return backoff.Permanent(err)
		case err != nil:
			c.logger.Warnw("login attempt failed", "attempt", attempt, "error", err)
			return err
		}

		if response.Status != "ok" || response.Data.Token == "" {
			reason := response.Reason
			if reason == "" {
				reason = "no token returned"
			}
			return backoff.Permanent(&domain.Error{
				Kind:    domain.ErrConfiguration,
				Message: fmt.Sprintf("login to %s failed: %s", base.Host, reason),
				Hint:    "check ACTUAL_PASSWORD or the secret named by password_ref",
			})
		}

		token = response.Data.Token
		return nil
	}

	if err := backoff.Retry(operation, backoff.WithContext(c.loginBackOff(), ctx)); err != nil {
		return "", fmt.Errorf("log in to finance server: %w", err)
	}
	return token, nil
}

// postJSON sends body and decodes the reply into out. It returns the HTTP
// status and raw body alongside transport or decoding failures; a non-2xx
// reply that still decodes is left for the caller to interpret.
func (c *Client) postJSON(ctx context.Context, endpoint *url.URL, token string, body any, out any) (int, []byte, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return 0, nil, domain.NewInvalidArgumentError("encode request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set(tokenHeader, token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		return 0, nil, domain.NewUnderlyingError(fmt.Sprintf("reach finance server at %s", endpoint.Host), nil, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, domain.NewUnderlyingError("read finance server response", nil, err)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return resp.StatusCode, raw, statusError(resp.StatusCode, raw, err)
	}
	return resp.StatusCode, raw, nil
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

func statusError(status int, raw []byte, cause error) *domain.Error {
	return domain.NewUnderlyingError(
		fmt.Sprintf("finance server returned %d %s", status, http.StatusText(status)),
		map[string]any{"status": status, "body": truncate(string(raw), maxErrorBody)},
		cause,
	)
}

func parseServerURL(raw string) (*url.URL, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, domain.NewConfigurationError("server URL is empty")
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return nil, domain.NewConfigurationError("server URL %q is invalid: %v", raw, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, domain.NewConfigurationError("server URL %q must use http or https", raw)
	}
	if parsed.Host == "" {
		return nil, domain.NewConfigurationError("server URL %q has no host", raw)
	}

	parsed.Path = strings.TrimRight(parsed.Path, "/")
	parsed.RawQuery = ""
	parsed.Fragment = ""
	return parsed, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
