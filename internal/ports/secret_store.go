package ports

import "context"

// SecretStore holds credentials for the finance server, keyed by reference.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
