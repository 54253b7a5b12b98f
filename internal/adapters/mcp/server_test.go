package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handle(t *testing.T, deps Dependencies, message string) map[string]any {
	t.Helper()

	s := NewServer("test", deps, Options{})
	response := s.HandleMessage(context.Background(), json.RawMessage(message))
	require.NotNil(t, response)

	data, err := json.Marshal(response)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	return decoded
}

func TestServerListsFiveTools(t *testing.T) {
	response := handle(t, Dependencies{}, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)

	result := response["result"].(map[string]any)
	var names []string
	for _, raw := range result["tools"].([]any) {
		names = append(names, raw.(map[string]any)["name"].(string))
	}
	assert.Equal(t, []string{"call_method", "execute_query", "get_rules", "get_schema", "list_methods"}, names)
}

func TestServerCallMethodRequiresMethod(t *testing.T) {
	response := handle(t, Dependencies{}, `{"jsonrpc":"2.0","id":1,"method":"tools/list"}`)
	tools := response["result"].(map[string]any)["tools"].([]any)

	for _, raw := range tools {
		tool := raw.(map[string]any)
		if tool["name"] != callMethodName {
			continue
		}
		schema := tool["inputSchema"].(map[string]any)
		assert.Equal(t, []any{"method"}, schema["required"])
		return
	}
	t.Fatal("call_method not registered")
}

func TestServerRoutesToolCalls(t *testing.T) {
	invoker := &fakeInvoker{result: "24.10.0"}
	deps := Dependencies{Invoker: invoker}

	response := handle(t, deps, `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"call_method","arguments":{"method":"getServerVersion"}}}`)

	assert.Equal(t, "getServerVersion", invoker.method)
	result := response["result"].(map[string]any)
	assert.NotEqual(t, true, result["isError"])
	content := result["content"].([]any)[0].(map[string]any)
	assert.Contains(t, content["text"], `"result": "24.10.0"`)
}
