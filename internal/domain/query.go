package domain

// Query is the declarative query handed to the finance client's query
// capability. Field names follow the client's serialized query shape.
type Query struct {
	Table             string         `json:"table"`
	TableOptions      map[string]any `json:"tableOptions"`
	FilterExpressions []any          `json:"filterExpressions"`
	SelectExpressions []any          `json:"selectExpressions"`
	GroupExpressions  []any          `json:"groupExpressions"`
	OrderExpressions  []any          `json:"orderExpressions"`
	Calculation       bool           `json:"calculation"`
	RawMode           bool           `json:"rawMode"`
	WithDead          bool           `json:"withDead"`
	ValidateRefs      bool           `json:"validateRefs"`
	Limit             *int           `json:"limit"`
	Offset            *int           `json:"offset"`
}

// SchemaReference is the static document describing what queries can touch.
type SchemaReference struct {
	Tables    []SchemaTable    `json:"tables,omitempty" yaml:"tables"`
	Operators []SchemaOperator `json:"operators,omitempty" yaml:"operators"`
	Functions []SchemaFunction `json:"functions,omitempty" yaml:"functions"`
}

type SchemaTable struct {
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description" yaml:"description"`
	Fields      []SchemaField `json:"fields" yaml:"fields"`
}

type SchemaField struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Ref         string `json:"ref,omitempty" yaml:"ref,omitempty"`
}

type SchemaOperator struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Example     string `json:"example,omitempty" yaml:"example,omitempty"`
}

type SchemaFunction struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Example     string `json:"example,omitempty" yaml:"example,omitempty"`
}
