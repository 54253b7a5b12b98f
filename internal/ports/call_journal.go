package ports

import (
	"context"

	"github.com/bnema/actual-mcp/internal/domain"
)

type CallJournal interface {
	Record(ctx context.Context, record domain.CallRecord) error
}

// CallObserver brackets an invocation; the returned func is called once with the
// finished record.
type CallObserver interface {
	Start(ctx context.Context, method string) (context.Context, func(record domain.CallRecord))
}
