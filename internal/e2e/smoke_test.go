package e2e

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmokeFlow(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	stdout, stderr, err := runBinary(t, binaryPath, home, "", "methods", "--summary", "--json")
	require.NoError(t, err, "stderr: %s", stderr)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, `"total"`)
}

func TestServeSpeaksMCPOverStdio(t *testing.T) {
	home := t.TempDir()
	binaryPath := buildBinary(t)

	input := strings.Join([]string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{"protocolVersion":"2025-03-26","capabilities":{},"clientInfo":{"name":"smoke","version":"0"}}}`,
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`,
	}, "\n") + "\n"

	stdout, stderr, err := runBinary(t, binaryPath, home, input,
		"serve", "--server-url", "http://127.0.0.1:1")
	require.NoError(t, err, "stderr: %s", stderr)

	responses := map[float64]map[string]any{}
	scanner := bufio.NewScanner(strings.NewReader(stdout))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		var msg map[string]any
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &msg), "line: %s", scanner.Text())
		if id, ok := msg["id"].(float64); ok {
			responses[id] = msg
		}
	}
	require.NoError(t, scanner.Err())

	require.Contains(t, responses, float64(1))
	serverInfo := responses[1]["result"].(map[string]any)["serverInfo"].(map[string]any)
	assert.Equal(t, "actual-mcp", serverInfo["name"])

	require.Contains(t, responses, float64(2))
	tools := responses[2]["result"].(map[string]any)["tools"].([]any)
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		names = append(names, tool.(map[string]any)["name"].(string))
	}
	assert.Equal(t, []string{"call_method", "execute_query", "get_rules", "get_schema", "list_methods"}, names)
}

func buildBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "actual-mcp-e2e")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/actual-mcp")
	cmd.Dir = repoRoot(t)

	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "build actual-mcp binary: %s", string(output))
	return binaryPath
}

func runBinary(t *testing.T, binaryPath, home, input string, args ...string) (string, string, error) {
	t.Helper()

	cmd := exec.Command(binaryPath, args...)
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"XDG_CONFIG_HOME="+filepath.Join(home, "config"),
		"XDG_CACHE_HOME="+filepath.Join(home, "cache"),
		"PATH="+home,
		"ACTUAL_SERVER_URL=",
		"ACTUAL_BUDGET_ID=",
		"ACTUAL_PASSWORD=",
	)
	cmd.Stdin = strings.NewReader(input)

	var stdout bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func repoRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	require.NoError(t, err)
	return filepath.Clean(filepath.Join(wd, "..", ".."))
}
