package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/bnema/actual-mcp/internal/ports"
)

// QueryRequest carries loosely-typed expressions as received from the caller.
// Filter, GroupBy and OrderBy accept a single expression or a list; Select also
// accepts a bare field name.
type QueryRequest struct {
	BudgetRef    string
	Table        string
	TableOptions map[string]any
	Filter       any
	Select       any
	GroupBy      any
	OrderBy      any
	Limit        *int
	Offset       *int
	Calculate    bool
	RawMode      bool
	WithDead     bool
}

type QueryService struct {
	client   ports.FinanceClient
	session  *Session
	recorder *CallRecorder
}

func NewQueryService(client ports.FinanceClient, session *Session, recorder *CallRecorder) *QueryService {
	if recorder == nil {
		recorder = NewCallRecorder(session, RecorderOptions{})
	}
	return &QueryService{client: client, session: session, recorder: recorder}
}

// Execute runs the query against the active budget and returns the rows. The
// call is recorded as execute_query.
func (s *QueryService) Execute(ctx context.Context, req QueryRequest) (any, error) {
	return recordCall(ctx, s.recorder, toolExecuteQuery, func(ctx context.Context) (any, error) {
		return s.execute(ctx, req)
	})
}

func (s *QueryService) execute(ctx context.Context, req QueryRequest) (any, error) {
	query, err := BuildQuery(req)
	if err != nil {
		return nil, err
	}

	if err := s.session.EnsureActive(ctx, req.BudgetRef); err != nil {
		return nil, err
	}

	raw, err := s.client.Call(ctx, methodQuery, []any{query})
	if err != nil {
		return nil, fmt.Errorf("run query on %s: %w", query.Table, err)
	}

	if envelope, ok := raw.(map[string]any); ok {
		if data, ok := envelope["data"]; ok {
			return data, nil
		}
	}
	return raw, nil
}

// BuildQuery normalises a request into the serialized query shape.
func BuildQuery(req QueryRequest) (domain.Query, error) {
	table := strings.TrimSpace(req.Table)
	if table == "" {
		return domain.Query{}, domain.NewInvalidArgumentError("table is required")
	}
	if req.Limit != nil && *req.Limit < 0 {
		return domain.Query{}, domain.NewInvalidArgumentError("limit must not be negative")
	}
	if req.Offset != nil && *req.Offset < 0 {
		return domain.Query{}, domain.NewInvalidArgumentError("offset must not be negative")
	}

	selects := expressionList(req.Select)
	if len(selects) == 0 {
		selects = []any{"*"}
	}

	tableOptions := req.TableOptions
	if tableOptions == nil {
		tableOptions = map[string]any{}
	}

	return domain.Query{
		Table:             table,
		TableOptions:      tableOptions,
		FilterExpressions: expressionList(req.Filter),
		SelectExpressions: selects,
		GroupExpressions:  expressionList(req.GroupBy),
		OrderExpressions:  expressionList(req.OrderBy),
		Calculation:       req.Calculate,
		RawMode:           req.RawMode,
		WithDead:          req.WithDead,
		ValidateRefs:      true,
		Limit:             req.Limit,
		Offset:            req.Offset,
	}, nil
}

func expressionList(value any) []any {
	switch v := value.(type) {
	case nil:
		return []any{}
	case []any:
		return v
	case []string:
		out := make([]any, 0, len(v))
		for _, s := range v {
			out = append(out, s)
		}
		return out
	case string:
		if strings.TrimSpace(v) == "" {
			return []any{}
		}
		return []any{v}
	case map[string]any:
		if len(v) == 0 {
			return []any{}
		}
		return []any{v}
	default:
		return []any{v}
	}
}
