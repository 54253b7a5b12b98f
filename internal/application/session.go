package application

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/bnema/actual-mcp/internal/log"
	"github.com/bnema/actual-mcp/internal/ports"
)

// Session owns the process-wide client state: whether the client has been
// initialised and which budget is active. First-time initialisation and budget
// activation are serialised by lifecycleMu; state reads only take mu.
type Session struct {
	client ports.FinanceClient
	opts   ports.InitOptions
	loader *Loader
	logger log.Logger

	lifecycleMu sync.Mutex

	mu          sync.RWMutex
	initialized bool
	active      *domain.ActiveBudget
}

func NewSession(client ports.FinanceClient, opts ports.InitOptions, loader *Loader, logger log.Logger) *Session {
	if logger == nil {
		logger = log.Nop
	}
	return &Session{client: client, opts: opts, loader: loader, logger: logger}
}

func (s *Session) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

// Active returns the active budget, if any.
func (s *Session) Active() (domain.ActiveBudget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.active == nil {
		return domain.ActiveBudget{}, false
	}
	return *s.active, true
}

// EnsureInitialized initialises the client once. Concurrent callers wait for
// the first attempt; a failed attempt leaves the session uninitialised.
func (s *Session) EnsureInitialized(ctx context.Context) error {
	if s.Initialized() {
		return nil
	}

	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	if s.Initialized() {
		return nil
	}

	if err := s.client.Init(ctx, s.opts); err != nil {
		return fmt.Errorf("initialize finance client: %w", err)
	}

	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()

	s.logger.Infow("finance client initialized", "server_url", s.opts.ServerURL, "data_dir", s.opts.DataDir)
	return nil
}

// EnsureActive makes sure a budget is active. With an empty ref the current
// budget is reused; a ref equal to the active id is a no-op; any other ref is
// loaded through the Loader.
func (s *Session) EnsureActive(ctx context.Context, ref string) error {
	if ref == "" {
		if _, ok := s.Active(); ok {
			return nil
		}
		return domain.NewPreconditionError("no budget is active; supply a budget id or name, or activate one first")
	}

	if s.isActive(ref) {
		return nil
	}

	if err := s.EnsureInitialized(ctx); err != nil {
		return err
	}

	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()

	if s.isActive(ref) {
		return nil
	}

	budget, err := s.loader.Activate(ctx, ref)
	if err != nil {
		return err
	}

	s.setActive(budget)
	return nil
}

// MarkActive records a budget activated outside EnsureActive, e.g. by a direct
// loadBudget invocation.
func (s *Session) MarkActive(budget domain.ActiveBudget) {
	if budget.ID == "" {
		return
	}
	s.setActive(budget)
}

func (s *Session) isActive(id string) bool {
	active, ok := s.Active()
	return ok && active.ID == id
}

func (s *Session) setActive(budget domain.ActiveBudget) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = &budget
}

// runExclusive holds the lifecycle lock around fn so direct activation calls do
// not interleave with EnsureActive.
func (s *Session) runExclusive(fn func() error) error {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()
	return fn()
}
