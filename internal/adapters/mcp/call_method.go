package mcp

import (
	"context"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
)

const callMethodName = "call_method"

type callMethodTool struct {
	invoker MethodInvoker
	errs    errorRenderer
}

func newCallMethodTool(invoker MethodInvoker, errs errorRenderer) *callMethodTool {
	return &callMethodTool{invoker: invoker, errs: errs}
}

type callResult struct {
	Success bool   `json:"success"`
	Method  string `json:"method"`
	Result  any    `json:"result"`
}

func (t *callMethodTool) Definition() mcpgo.Tool {
	return mcpgo.NewTool(callMethodName,
		mcpgo.WithDescription("Call any finance API method from list_methods by name. "+
			"Parameters are named as in the method listing; parameters ending in Id accept a UUID or the entity name."),
		mcpgo.WithString("method",
			mcpgo.Required(),
			mcpgo.Description("Method name, for example getAccounts"),
		),
		mcpgo.WithObject("params",
			mcpgo.Description("Named parameters for the method"),
		),
	)
}

func (t *callMethodTool) Handle(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	args := arguments(req)

	method, err := stringArg(args, "method")
	if err != nil {
		return t.errs.render(callMethodName, "", nil, err), nil
	}
	params, err := objectArg(args, "params")
	if err != nil {
		return t.errs.render(callMethodName, method, nil, err), nil
	}
	if params == nil {
		params = map[string]any{}
	}

	result, err := t.invoker.Invoke(ctx, method, params)
	if err != nil {
		return t.errs.render(callMethodName, method, params, err), nil
	}

	return jsonResult(callResult{Success: true, Method: method, Result: result})
}
