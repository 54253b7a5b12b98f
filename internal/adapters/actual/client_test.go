package actual

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/bnema/actual-mcp/internal/ports"
	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBridge struct {
	t          *testing.T
	password   string
	token      string
	loginFails atomic.Int32
	logins     atomic.Int32
	handle     func(req rpcRequest) rpcResponse
}

func (b *fakeBridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.t.Helper()
	assert.Equal(b.t, http.MethodPost, r.Method)
	assert.Equal(b.t, "application/json", r.Header.Get("Content-Type"))

	switch r.URL.Path {
	case "/account/login":
		b.logins.Add(1)
		if b.loginFails.Load() > 0 {
			b.loginFails.Add(-1)
			http.Error(w, "upstream unavailable", http.StatusServiceUnavailable)
			return
		}

		var req loginRequest
		require.NoError(b.t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(b.t, "password", req.LoginMethod)
		if req.Password != b.password {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"status":"error","reason":"invalid-password"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok","data":{"token":"` + b.token + `"}}`))
	case "/api/rpc":
		if r.Header.Get(tokenHeader) != b.token {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":0}`))
			return
		}
		var req rpcRequest
		require.NoError(b.t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(b.t, "2.0", req.JSONRPC)
		require.NoError(b.t, json.NewEncoder(w).Encode(b.handle(req)))
	default:
		http.NotFound(w, r)
	}
}

func newTestClient(t *testing.T, bridge *fakeBridge) (*Client, ports.InitOptions) {
	t.Helper()

	server := httptest.NewServer(bridge)
	t.Cleanup(server.Close)

	client := NewClient(Options{
		HTTPClient: server.Client(),
		LoginBackOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 3)
		},
	})
	return client, ports.InitOptions{
		ServerURL: server.URL + "/",
		Password:  bridge.password,
		DataDir:   filepath.Join(t.TempDir(), "cache"),
	}
}

func resultOf(t *testing.T, id int64, value any) rpcResponse {
	t.Helper()
	raw, err := json.Marshal(value)
	require.NoError(t, err)
	return rpcResponse{JSONRPC: "2.0", ID: id, Result: raw}
}

func TestClientInitLogsInAndCallsWithToken(t *testing.T) {
	bridge := &fakeBridge{t: t, password: "hunter2", token: "tok-1"}
	bridge.handle = func(req rpcRequest) rpcResponse {
		assert.Equal(t, "getAccounts", req.Method)
		assert.Equal(t, []any{}, req.Params)
		return resultOf(t, req.ID, []map[string]any{{"id": "a1", "name": "Checking"}})
	}
	client, opts := newTestClient(t, bridge)

	require.NoError(t, client.Init(context.Background(), opts))

	info, err := os.Stat(opts.DataDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	result, err := client.Call(context.Background(), "getAccounts", nil)
	require.NoError(t, err)
	assert.Equal(t, []any{map[string]any{"id": "a1", "name": "Checking"}}, result)
}

func TestClientSendsPositionalParams(t *testing.T) {
	bridge := &fakeBridge{t: t, password: "hunter2", token: "tok-1"}
	bridge.handle = func(req rpcRequest) rpcResponse {
		assert.Equal(t, []any{"2026-10", "cat-1", float64(2500)}, req.Params)
		return rpcResponse{JSONRPC: "2.0", ID: req.ID}
	}
	client, opts := newTestClient(t, bridge)
	require.NoError(t, client.Init(context.Background(), opts))

	result, err := client.Call(context.Background(), "setBudgetAmount", []any{"2026-10", "cat-1", 2500})
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestClientMapsRPCErrors(t *testing.T) {
	bridge := &fakeBridge{t: t, password: "hunter2", token: "tok-1"}
	bridge.handle = func(req rpcRequest) rpcResponse {
		return rpcResponse{JSONRPC: "2.0", ID: req.ID, Error: &RPCError{
			Code:    -32000,
			Message: "Account not found",
			Data:    map[string]any{"stack": "Error: Account not found\n    at getAccount", "type": "APIError"},
		}}
	}
	client, opts := newTestClient(t, bridge)
	require.NoError(t, client.Init(context.Background(), opts))

	_, err := client.Call(context.Background(), "getAccountBalance", []any{"missing"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnderlying)

	domainErr := domain.AsError(err)
	assert.Equal(t, "Account not found", domainErr.Message)
	assert.Equal(t, -32000, domainErr.Details["code"])
	assert.Equal(t, "APIError", domainErr.Details["type"])
	assert.Contains(t, domainErr.Details["stack"], "at getAccount")
}

func TestClientRetriesTransientLoginFailures(t *testing.T) {
	bridge := &fakeBridge{t: t, password: "hunter2", token: "tok-1"}
	bridge.loginFails.Store(2)
	client, opts := newTestClient(t, bridge)

	require.NoError(t, client.Init(context.Background(), opts))
	assert.Equal(t, int32(3), bridge.logins.Load())
}

func TestClientDoesNotRetryRejectedPassword(t *testing.T) {
	bridge := &fakeBridge{t: t, password: "hunter2", token: "tok-1"}
	client, opts := newTestClient(t, bridge)
	opts.Password = "wrong"

	err := client.Init(context.Background(), opts)
	require.Error(t, err)
	assert.Equal(t, int32(1), bridge.logins.Load())

	_, err = client.Call(context.Background(), "getAccounts", nil)
	assert.ErrorContains(t, err, "not initialized")
}

func TestClientRejectsInvalidServerURL(t *testing.T) {
	client := NewClient(Options{})

	for _, raw := range []string{"", "finance.example.com", "ftp://finance.example.com", "http://"} {
		err := client.Init(context.Background(), ports.InitOptions{ServerURL: raw})
		assert.ErrorIs(t, err, domain.ErrConfiguration, "url %q", raw)
	}
}

func TestClientReportsNonJSONReplies(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)

	client := NewClient(Options{HTTPClient: server.Client()})
	require.NoError(t, client.Init(context.Background(), ports.InitOptions{ServerURL: server.URL}))

	_, err := client.Call(context.Background(), "getAccounts", nil)
	require.Error(t, err)

	domainErr := domain.AsError(err)
	assert.Contains(t, domainErr.Message, "502")
	assert.Equal(t, http.StatusBadGateway, domainErr.Details["status"])
}

func TestClientReportsServerErrorsWithJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"status":"error","reason":"internal-error"}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(Options{HTTPClient: server.Client()})
	require.NoError(t, client.Init(context.Background(), ports.InitOptions{ServerURL: server.URL}))

	result, err := client.Call(context.Background(), "getAccounts", nil)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrUnderlying)

	domainErr := domain.AsError(err)
	assert.Equal(t, "finance server returned 500 Internal Server Error", domainErr.Message)
	assert.Equal(t, http.StatusInternalServerError, domainErr.Details["status"])
	assert.Contains(t, domainErr.Details["body"], "internal-error")
}

func TestClientRetriesLoginOnServerErrorWithJSONBody(t *testing.T) {
	var logins atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if logins.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"error","reason":"starting"}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok","data":{"token":"tok-1"}}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(Options{
		HTTPClient: server.Client(),
		LoginBackOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 3)
		},
	})

	require.NoError(t, client.Init(context.Background(), ports.InitOptions{ServerURL: server.URL, Password: "hunter2"}))
	assert.Equal(t, int32(2), logins.Load())

	_, token := client.session()
	assert.Equal(t, "tok-1", token)
}

func TestClientGivesUpLoginAfterPersistentServerErrors(t *testing.T) {
	var logins atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		logins.Add(1)
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"status":"error","reason":"upstream"}`))
	}))
	t.Cleanup(server.Close)

	client := NewClient(Options{
		HTTPClient: server.Client(),
		LoginBackOff: func() backoff.BackOff {
			return backoff.WithMaxRetries(backoff.NewConstantBackOff(time.Millisecond), 2)
		},
	})

	err := client.Init(context.Background(), ports.InitOptions{ServerURL: server.URL, Password: "hunter2"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnderlying)
	assert.NotErrorIs(t, err, domain.ErrConfiguration)
	assert.Equal(t, int32(3), logins.Load())
}

func TestClientShutdownSendsShutdownAndForgetsSession(t *testing.T) {
	var methods []string
	bridge := &fakeBridge{t: t, password: "hunter2", token: "tok-1"}
	bridge.handle = func(req rpcRequest) rpcResponse {
		methods = append(methods, req.Method)
		return rpcResponse{JSONRPC: "2.0", ID: req.ID}
	}
	client, opts := newTestClient(t, bridge)
	require.NoError(t, client.Init(context.Background(), opts))

	require.NoError(t, client.Shutdown(context.Background()))
	assert.Equal(t, []string{"shutdown"}, methods)

	require.NoError(t, client.Shutdown(context.Background()), "second shutdown is a no-op")
	_, err := client.Call(context.Background(), "getAccounts", nil)
	assert.Error(t, err)
}

func TestClientAppliesRequestTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
			_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":[]}`))
		}
	}))
	t.Cleanup(server.Close)

	client := NewClient(Options{Timeout: 50 * time.Millisecond})
	require.NoError(t, client.Init(context.Background(), ports.InitOptions{ServerURL: server.URL}))

	started := time.Now()
	_, err := client.Call(context.Background(), "getAccounts", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnderlying)
	assert.Less(t, time.Since(started), time.Second)
}
