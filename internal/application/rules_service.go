package application

import (
	"context"
	"fmt"

	"github.com/bnema/actual-mcp/internal/domain"
	"github.com/bnema/actual-mcp/internal/log"
	"github.com/bnema/actual-mcp/internal/ports"
)

type RulesRequest struct {
	BudgetRef    string
	Stage        domain.StageFilter
	ResolveNames bool
}

type RulesResult struct {
	Rules []domain.Rule
	// Names is nil unless name resolution was requested.
	Names *domain.NameMaps
}

type RulesService struct {
	client   ports.FinanceClient
	session  *Session
	recorder *CallRecorder
	logger   log.Logger
}

func NewRulesService(client ports.FinanceClient, session *Session, recorder *CallRecorder, logger log.Logger) *RulesService {
	if logger == nil {
		logger = log.Nop
	}
	if recorder == nil {
		recorder = NewCallRecorder(session, RecorderOptions{Logger: logger})
	}
	return &RulesService{client: client, session: session, recorder: recorder, logger: logger}
}

// Rules lists the active budget's rules, recorded as a get_rules call.
func (s *RulesService) Rules(ctx context.Context, req RulesRequest) (RulesResult, error) {
	return recordCall(ctx, s.recorder, toolGetRules, func(ctx context.Context) (RulesResult, error) {
		return s.rules(ctx, req)
	})
}

func (s *RulesService) rules(ctx context.Context, req RulesRequest) (RulesResult, error) {
	stage := req.Stage
	if stage == "" {
		stage = domain.StageFilterAll
	}
	if !stage.Valid() {
		return RulesResult{}, domain.NewInvalidArgumentError("unknown stage %q; use pre, run, post or all", stage)
	}

	if err := s.session.EnsureActive(ctx, req.BudgetRef); err != nil {
		return RulesResult{}, err
	}

	raw, err := s.client.Call(ctx, methodGetRules, nil)
	if err != nil {
		return RulesResult{}, fmt.Errorf("list rules: %w", err)
	}

	var rules []domain.Rule
	if err := decodeInto(raw, &rules); err != nil {
		return RulesResult{}, domain.NewUnderlyingError("getRules returned an unexpected shape", nil, err)
	}

	filtered := make([]domain.Rule, 0, len(rules))
	for _, rule := range rules {
		if stage.Accepts(rule.Stage) {
			filtered = append(filtered, rule)
		}
	}

	result := RulesResult{Rules: filtered}
	if req.ResolveNames {
		names := s.nameMaps(ctx)
		result.Names = &names
	}
	return result, nil
}

// nameMaps builds id -> name lookups. Names are cosmetic, so a failed listing
// leaves its map empty instead of failing the call.
func (s *RulesService) nameMaps(ctx context.Context) domain.NameMaps {
	return domain.NameMaps{
		Payees:     s.names(ctx, methodGetPayees),
		Categories: s.names(ctx, methodGetCategories),
		Accounts:   s.names(ctx, methodGetAccounts),
	}
}

func (s *RulesService) names(ctx context.Context, method string) map[string]string {
	names := map[string]string{}

	raw, err := s.client.Call(ctx, method, nil)
	if err != nil {
		s.logger.Warnw("name lookup failed", "method", method, "error", err)
		return names
	}

	entities, err := entityList(raw)
	if err != nil {
		s.logger.Warnw("name lookup returned an unexpected shape", "method", method, "error", err)
		return names
	}

	for _, entity := range entities {
		id := stringField(entity, "id")
		name := stringField(entity, "name")
		if id != "" && name != "" {
			names[id] = name
		}
	}
	return names
}
