package ports

import (
	"context"

	"github.com/bnema/actual-mcp/internal/domain"
)

// MethodRepository loads the manifest table. It is read once at startup.
type MethodRepository interface {
	List(ctx context.Context) ([]domain.MethodDescriptor, error)
}
