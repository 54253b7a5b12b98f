package application

import (
	"context"

	"github.com/bnema/actual-mcp/internal/domain"
)

// Invoker calls any manifest method by name with a named parameter bag.
type Invoker struct {
	registry *Registry
	resolver *Resolver
	session  *Session
	loader   *Loader
	recorder *CallRecorder
}

func NewInvoker(registry *Registry, resolver *Resolver, session *Session, loader *Loader, recorder *CallRecorder) *Invoker {
	if recorder == nil {
		recorder = NewCallRecorder(session, RecorderOptions{})
	}

	return &Invoker{
		registry: registry,
		resolver: resolver,
		session:  session,
		loader:   loader,
		recorder: recorder,
	}
}

// Invoke validates the call against the manifest, resolves identifiers, runs
// the remote operation and returns its result. Every returned error is a
// *domain.Error.
func (i *Invoker) Invoke(ctx context.Context, method string, params map[string]any) (any, error) {
	return recordCall(ctx, i.recorder, method, func(ctx context.Context) (any, error) {
		return i.invoke(ctx, method, params)
	})
}

func (i *Invoker) invoke(ctx context.Context, name string, params map[string]any) (any, error) {
	method, ok := i.registry.Lookup(name)
	if !ok {
		return nil, domain.NewUnknownMethodError(name)
	}
	if requiresFunctionArg(name) {
		return nil, domain.NewUnsupportedError(name)
	}

	if !isSessionIndependent(name) {
		if _, ok := i.session.Active(); !ok {
			return nil, domain.NewPreconditionError("no budget is active; supply a budget id or name, or activate one first")
		}
	}

	if err := i.session.EnsureInitialized(ctx); err != nil {
		return nil, err
	}

	if params == nil {
		params = map[string]any{}
	}
	resolved, err := i.resolver.ResolveParams(ctx, params, method.Descriptor.ParamNames())
	if err != nil {
		return nil, err
	}

	args := PositionalArgs(method.Descriptor, resolved)

	activationParam, activates := activatingMethods[name]
	if !activates {
		return method.Handler(ctx, args)
	}

	var result any
	err = i.session.runExclusive(func() error {
		var callErr error
		result, callErr = method.Handler(ctx, args)
		if callErr != nil {
			return callErr
		}
		i.markActivated(ctx, name, resolved, activationParam)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// markActivated updates the session after a successful activating call.
// downloadBudget does not return the local id, so it is looked up by sync id;
// when that fails the session is left as it was.
func (i *Invoker) markActivated(ctx context.Context, name string, params map[string]any, param string) {
	ref, _ := params[param].(string)
	if ref == "" {
		return
	}

	if name != methodDownloadBudget {
		i.session.MarkActive(domain.ActiveBudget{ID: ref})
		return
	}

	budget, ok, err := i.loader.localIDForSync(ctx, ref)
	if err != nil {
		i.recorder.logger.Warnw("could not find local copy after download", "sync_id", ref, "error", err)
		return
	}
	if ok {
		i.session.MarkActive(budget)
	}
}

// PositionalArgs maps named params onto the descriptor's declared order.
// Missing params become nil; trailing missing params are dropped so the remote
// side sees them as absent rather than null.
func PositionalArgs(descriptor domain.MethodDescriptor, params map[string]any) []any {
	args := make([]any, len(descriptor.Params))
	last := -1
	for idx, param := range descriptor.Params {
		value, ok := params[param.Name]
		if !ok {
			continue
		}
		args[idx] = value
		last = idx
	}
	return args[:last+1]
}
