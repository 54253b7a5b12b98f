package ports

import "context"

type InitOptions struct {
	ServerURL string
	Password  string
	DataDir   string
}

// FinanceClient is the remote finance application's data API. Every operation
// named in the manifest is reachable through Call with positional arguments.
type FinanceClient interface {
	Init(ctx context.Context, opts InitOptions) error
	Call(ctx context.Context, method string, args []any) (any, error)
	Shutdown(ctx context.Context) error
}
