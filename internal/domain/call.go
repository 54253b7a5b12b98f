package domain

import "time"

// CallRecord is one invocation as seen by diagnostics (journal, observer).
type CallRecord struct {
	ID         string
	Method     string
	BudgetID   string
	StartedAt  time.Time
	Duration   time.Duration
	Success    bool
	ErrorCode  string
	Message    string
	Diagnostic map[string]any
}
