package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type Stage string

const (
	StagePre     Stage = "pre"
	StageDefault Stage = ""
	StagePost    Stage = "post"
)

// MarshalJSON encodes the default stage as null, matching the remote shape.
func (s Stage) MarshalJSON() ([]byte, error) {
	if s == StageDefault {
		return []byte("null"), nil
	}
	return json.Marshal(string(s))
}

func (s *Stage) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = StageDefault
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode rule stage: %w", err)
	}
	*s = Stage(raw)
	return nil
}

// StageFilter selects rules by stage; StageFilterRun selects the default stage.
type StageFilter string

const (
	StageFilterAll  StageFilter = "all"
	StageFilterPre  StageFilter = "pre"
	StageFilterRun  StageFilter = "run"
	StageFilterPost StageFilter = "post"
)

func (f StageFilter) Valid() bool {
	switch f {
	case StageFilterAll, StageFilterPre, StageFilterRun, StageFilterPost:
		return true
	default:
		return false
	}
}

func (f StageFilter) Accepts(stage Stage) bool {
	switch f {
	case StageFilterAll, "":
		return true
	case StageFilterPre:
		return stage == StagePre
	case StageFilterRun:
		return stage == StageDefault
	case StageFilterPost:
		return stage == StagePost
	default:
		return false
	}
}

type ConditionsOp string

const (
	ConditionsAnd ConditionsOp = "and"
	ConditionsOr  ConditionsOp = "or"
)

type Condition struct {
	Field   string         `json:"field"`
	Op      string         `json:"op"`
	Value   any            `json:"value"`
	Options map[string]any `json:"options,omitempty"`
	Type    string         `json:"type,omitempty"`
}

type Action struct {
	Op      string         `json:"op"`
	Field   string         `json:"field,omitempty"`
	Value   any            `json:"value"`
	Options map[string]any `json:"options,omitempty"`
	Type    string         `json:"type,omitempty"`
}

// Rule is passed through from the finance client untouched; the core only
// filters and serialises it.
type Rule struct {
	ID           string       `json:"id"`
	Stage        Stage        `json:"stage"`
	ConditionsOp ConditionsOp `json:"conditionsOp"`
	Conditions   []Condition  `json:"conditions"`
	Actions      []Action     `json:"actions"`
}

// NameMaps translate entity ids to display names for rule rendering.
type NameMaps struct {
	Payees     map[string]string
	Categories map[string]string
	Accounts   map[string]string
}
