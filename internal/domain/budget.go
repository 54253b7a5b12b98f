package domain

// Budget is a data-set as reported by the budget listing. ID is only set once a
// local copy exists; GroupID is the remote sync handle.
type Budget struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	GroupID string `json:"groupId,omitempty"`
}

func (b Budget) IsLocal() bool {
	return b.ID != ""
}

func (b Budget) IsRemoteOnly() bool {
	return b.ID == "" && b.GroupID != ""
}

// Matches reports whether ref names this budget by local id, name or sync id.
func (b Budget) Matches(ref string) bool {
	if ref == "" {
		return false
	}
	return b.ID == ref || b.Name == ref || b.GroupID == ref
}

// ActiveBudget is the data-set currently loaded in the session.
type ActiveBudget struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
