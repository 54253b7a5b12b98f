package mcp

import (
	"encoding/json"
	"math"
	"strings"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/bnema/actual-mcp/internal/domain"
)

func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return "", nil
	}
	value, ok := raw.(string)
	if !ok {
		return "", domain.NewInvalidArgumentError("%s must be a string", key)
	}
	return strings.TrimSpace(value), nil
}

func boolArg(args map[string]any, key string, fallback bool) (bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return fallback, nil
	}
	switch value := raw.(type) {
	case bool:
		return value, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true":
			return true, nil
		case "false":
			return false, nil
		}
	}
	return false, domain.NewInvalidArgumentError("%s must be a boolean", key)
}

// intArg returns nil when the argument is absent.
func intArg(args map[string]any, key string) (*int, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}

	var f float64
	switch value := raw.(type) {
	case float64:
		f = value
	case int:
		f = float64(value)
	case int64:
		f = float64(value)
	case json.Number:
		parsed, err := value.Float64()
		if err != nil {
			return nil, domain.NewInvalidArgumentError("%s must be an integer", key)
		}
		f = parsed
	default:
		return nil, domain.NewInvalidArgumentError("%s must be an integer", key)
	}
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return nil, domain.NewInvalidArgumentError("%s must be an integer", key)
	}

	n := int(f)
	return &n, nil
}

// objectArg accepts an object or a string holding a JSON object, since some
// clients serialise nested arguments.
func objectArg(args map[string]any, key string) (map[string]any, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch value := raw.(type) {
	case map[string]any:
		return value, nil
	case string:
		if strings.TrimSpace(value) == "" {
			return nil, nil
		}
		var decoded map[string]any
		if err := json.Unmarshal([]byte(value), &decoded); err != nil {
			return nil, domain.NewInvalidArgumentError("%s must be an object: %v", key, err)
		}
		return decoded, nil
	default:
		return nil, domain.NewInvalidArgumentError("%s must be an object", key)
	}
}

// expressionArg passes query expressions through, decoding JSON text when a
// client sent one as a string.
func expressionArg(args map[string]any, key string) any {
	raw, ok := args[key]
	if !ok {
		return nil
	}
	text, ok := raw.(string)
	if !ok {
		return raw
	}
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		var decoded any
		if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
			return decoded
		}
	}
	return text
}

func arguments(req mcpgo.CallToolRequest) map[string]any {
	if args := req.GetArguments(); args != nil {
		return args
	}
	return map[string]any{}
}
