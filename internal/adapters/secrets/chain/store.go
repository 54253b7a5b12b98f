package chain

import (
	"context"
	"errors"
	"fmt"

	filestore "github.com/bnema/actual-mcp/internal/adapters/secrets/file"
	passstore "github.com/bnema/actual-mcp/internal/adapters/secrets/pass"
	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/bnema/actual-mcp/internal/ports"
)

// Store tries the primary backend and falls back to the secondary one. A
// cancelled context never falls through.
type Store struct {
	primary  ports.SecretStore
	fallback ports.SecretStore
}

var _ ports.SecretStore = (*Store)(nil)

var (
	errNilPrimaryStore  = errors.New("primary secret store is nil")
	errNilFallbackStore = errors.New("fallback secret store is nil")
)

func NewStore(primary ports.SecretStore, fallback ports.SecretStore) (*Store, error) {
	if primary == nil {
		return nil, errNilPrimaryStore
	}
	if fallback == nil {
		return nil, errNilFallbackStore
	}

	return &Store{primary: primary, fallback: fallback}, nil
}

// NewPassFirstWithFileFallback reads from pass and falls back to plain files
// under fileRoot. An empty passDir keeps the pass default store.
func NewPassFirstWithFileFallback(fileRoot string, passDir string) (*Store, error) {
	return NewStore(passstore.NewStore(passstore.WithStoreDir(passDir)), filestore.NewStore(fileRoot))
}

func (s *Store) Put(ctx context.Context, key string, value string) error {
	return s.each(ctx, "put", func(store ports.SecretStore) error {
		return store.Put(ctx, key, value)
	})
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.each(ctx, "get", func(store ports.SecretStore) error {
		got, err := store.Get(ctx, key)
		if err == nil {
			value = got
		}
		return err
	})
	return value, err
}

// Delete removes the key from both backends so a stale copy cannot shadow a
// later Put.
func (s *Store) Delete(ctx context.Context, key string) error {
	primaryErr := s.primary.Delete(ctx, key)
	if isContextError(primaryErr) {
		return primaryErr
	}
	fallbackErr := s.fallback.Delete(ctx, key)
	if primaryErr != nil && fallbackErr != nil {
		return fmt.Errorf("delete secret %q: %w", key, errors.Join(primaryErr, fallbackErr))
	}
	return nil
}

func (s *Store) each(ctx context.Context, op string, fn func(ports.SecretStore) error) error {
	primaryErr := fn(s.primary)
	if primaryErr == nil {
		return nil
	}
	if isContextError(primaryErr) || ctx.Err() != nil {
		return primaryErr
	}

	fallbackErr := fn(s.fallback)
	if fallbackErr == nil {
		return nil
	}

	if errors.Is(primaryErr, domain.ErrSecretNotFound) || errors.Is(primaryErr, passstore.ErrUnavailable) {
		if errors.Is(fallbackErr, domain.ErrSecretNotFound) {
			return fmt.Errorf("%s secret: %w", op, fallbackErr)
		}
	}

	return fmt.Errorf("primary backend %s failed: %w; fallback backend %s failed: %w", op, primaryErr, op, fallbackErr)
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
