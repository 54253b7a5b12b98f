package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const passwordKey = "actual-mcp/finance.example.com/password"

func fakeRun(t *testing.T, wantArgs []string, wantInput string, stdout string, stderr string, err error) runFunc {
	t.Helper()
	return func(_ context.Context, input string, args ...string) (string, string, error) {
		assert.Equal(t, wantArgs, args)
		assert.Equal(t, wantInput, input)
		return stdout, stderr, err
	}
}

func TestStorePutInsertsMultiline(t *testing.T) {
	t.Parallel()

	store := &Store{run: fakeRun(t, []string{"insert", "-m", "-f", passwordKey}, "hunter2\n", "", "", nil)}

	require.NoError(t, store.Put(context.Background(), passwordKey, "hunter2"))
}

func TestStoreGetReturnsFirstLine(t *testing.T) {
	t.Parallel()

	store := &Store{run: fakeRun(t, []string{"show", passwordKey}, "", "hunter2\nurl: https://finance.example.com\n", "", nil)}

	value, err := store.Get(context.Background(), passwordKey)
	require.NoError(t, err)
	assert.Equal(t, "hunter2", value)
}

func TestStoreGetMapsMissingEntryToNotFound(t *testing.T) {
	t.Parallel()

	store := &Store{run: fakeRun(t, []string{"show", passwordKey}, "",
		"", "Error: "+passwordKey+" is not in the password store.", errors.New("exit status 1"))}

	_, err := store.Get(context.Background(), passwordKey)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreGetIncludesStderr(t *testing.T) {
	t.Parallel()

	store := &Store{run: fakeRun(t, []string{"show", passwordKey}, "", "", "gpg: decryption failed", errors.New("exit status 2"))}

	_, err := store.Get(context.Background(), passwordKey)
	require.Error(t, err)
	assert.ErrorContains(t, err, "gpg: decryption failed")
	assert.NotErrorIs(t, err, domain.ErrSecretNotFound)
}

func TestStoreDeleteIgnoresMissingEntry(t *testing.T) {
	t.Parallel()

	store := &Store{run: fakeRun(t, []string{"rm", "-f", passwordKey}, "",
		"", "Error: "+passwordKey+" is not in the password store.", errors.New("exit status 1"))}

	require.NoError(t, store.Delete(context.Background(), passwordKey))
}

func TestStoreReportsUnavailableBinary(t *testing.T) {
	t.Parallel()

	store := &Store{run: func(context.Context, string, ...string) (string, string, error) {
		return "", "", ErrUnavailable
	}}

	_, err := store.Get(context.Background(), passwordKey)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewStoreWithoutBinaryOnPathIsUnavailable(t *testing.T) {
	t.Setenv("PATH", t.TempDir())

	store := NewStore(WithStoreDir(t.TempDir()))

	_, err := store.Get(context.Background(), passwordKey)
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestWithStoreDirSetsEnvironment(t *testing.T) {
	t.Parallel()

	c := &command{binary: "pass"}
	WithStoreDir("  /srv/secrets  ")(c)
	WithStoreDir("")(c)

	assert.Equal(t, []string{"PASSWORD_STORE_DIR=/srv/secrets"}, c.env)
}
