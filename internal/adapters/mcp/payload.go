package mcp

import (
	"encoding/json"
	"fmt"

	mcpgo "github.com/mark3labs/mcp-go/mcp"

	"github.com/bnema/actual-mcp/internal/application"
	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/bnema/actual-mcp/internal/log"
)

type errorPayload struct {
	Error        string         `json:"error"`
	Code         string         `json:"code"`
	Hint         string         `json:"hint,omitempty"`
	Alternatives []string       `json:"alternatives,omitempty"`
	Method       string         `json:"method,omitempty"`
	Params       map[string]any `json:"params,omitempty"`
	Details      map[string]any `json:"details,omitempty"`
}

type errorRenderer struct {
	debug  bool
	logger log.Logger
}

// render converts any failure into an error tool result. Go errors never cross
// the tool boundary.
func (r errorRenderer) render(tool, method string, params map[string]any, err error) *mcpgo.CallToolResult {
	domainErr := domain.AsError(err)
	payload := errorPayload{
		Error:        domainErr.Error(),
		Code:         domainErr.Code(),
		Hint:         domainErr.Hint,
		Alternatives: domainErr.Alternatives,
		Method:       method,
		Params:       params,
	}

	diagnostics := application.Diagnostics(domainErr)
	if r.debug {
		payload.Details = diagnostics
	}
	r.logger.Debugw("tool failed", "tool", tool, "method", method, "code", payload.Code, "error", payload.Error, "details", diagnostics)

	text, encodeErr := encode(payload)
	if encodeErr != nil {
		// Params may hold values json cannot encode; drop them rather than the error.
		payload.Params = nil
		payload.Details = nil
		text, encodeErr = encode(payload)
		if encodeErr != nil {
			return mcpgo.NewToolResultError(payload.Error)
		}
	}
	return mcpgo.NewToolResultError(text)
}

func jsonResult(v any) (*mcpgo.CallToolResult, error) {
	text, err := encode(v)
	if err != nil {
		return nil, err
	}
	return mcpgo.NewToolResultText(text), nil
}

func encode(v any) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode tool payload: %w", err)
	}
	return string(data), nil
}
