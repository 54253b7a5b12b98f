package application

import (
	"context"

	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/bnema/actual-mcp/internal/log"
	"github.com/bnema/actual-mcp/internal/ports"
	"github.com/google/uuid"
)

type RecorderOptions struct {
	Observer ports.CallObserver
	Journal  ports.CallJournal
	Clock    ports.Clock
	Logger   log.Logger
}

// CallRecorder reports every tool call to the observer and the journal.
type CallRecorder struct {
	session  *Session
	observer ports.CallObserver
	journal  ports.CallJournal
	clock    ports.Clock
	logger   log.Logger
}

func NewCallRecorder(session *Session, opts RecorderOptions) *CallRecorder {
	if opts.Clock == nil {
		opts.Clock = ports.SystemClock{}
	}
	if opts.Logger == nil {
		opts.Logger = log.Nop
	}
	if opts.Observer == nil {
		opts.Observer = nopObserver{}
	}

	return &CallRecorder{
		session:  session,
		observer: opts.Observer,
		journal:  opts.Journal,
		clock:    opts.Clock,
		logger:   opts.Logger,
	}
}

// recordCall runs fn as the call named method. Every returned error is a
// *domain.Error.
func recordCall[T any](ctx context.Context, r *CallRecorder, method string, fn func(context.Context) (T, error)) (T, error) {
	record := domain.CallRecord{
		ID:        uuid.NewString(),
		Method:    method,
		StartedAt: r.clock.Now(),
	}

	ctx, finish := r.observer.Start(ctx, method)

	result, err := fn(ctx)

	record.Duration = r.clock.Now().Sub(record.StartedAt)
	if active, ok := r.session.Active(); ok {
		record.BudgetID = active.ID
	}

	var failure *domain.Error
	if err != nil {
		failure = domain.AsError(err)
		record.ErrorCode = failure.Code()
		record.Message = failure.Error()
		record.Diagnostic = Diagnostics(failure)
		r.logger.Warnw("invocation failed",
			"call_id", record.ID,
			"method", method,
			"code", record.ErrorCode,
			"error", record.Message,
			"diagnostic", record.Diagnostic,
		)
	} else {
		record.Success = true
		r.logger.Debugw("invocation succeeded", "call_id", record.ID, "method", method, "duration", record.Duration)
	}

	finish(record)
	r.recordJournal(ctx, record)

	if failure != nil {
		var zero T
		return zero, failure
	}
	return result, nil
}

func (r *CallRecorder) recordJournal(ctx context.Context, record domain.CallRecord) {
	if r.journal == nil {
		return
	}
	if err := r.journal.Record(context.WithoutCancel(ctx), record); err != nil {
		r.logger.Warnw("journal write failed", "call_id", record.ID, "error", err)
	}
}

// Diagnostics collects the parts of an error that are for operators only.
func Diagnostics(err *domain.Error) map[string]any {
	if err == nil {
		return nil
	}

	diagnostic := make(map[string]any, len(err.Details)+1)
	for key, value := range err.Details {
		diagnostic[key] = value
	}
	if err.Cause != nil && err.Cause.Error() != err.Error() {
		diagnostic["cause"] = err.Cause.Error()
	}
	if len(diagnostic) == 0 {
		return nil
	}
	return diagnostic
}

type nopObserver struct{}

func (nopObserver) Start(ctx context.Context, _ string) (context.Context, func(domain.CallRecord)) {
	return ctx, func(domain.CallRecord) {}
}
