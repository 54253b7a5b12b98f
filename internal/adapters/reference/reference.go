package reference

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/bnema/actual-mcp/internal/domain"
	"gopkg.in/yaml.v3"
)

type Section string

const (
	SectionAll       Section = "all"
	SectionTables    Section = "tables"
	SectionOperators Section = "operators"
	SectionFunctions Section = "functions"
)

func (s Section) Valid() bool {
	switch s {
	case SectionAll, SectionTables, SectionOperators, SectionFunctions:
		return true
	default:
		return false
	}
}

//go:embed schema.yaml
var document []byte

// Library is the static query reference. It is parsed once and never mutated.
type Library struct {
	schema domain.SchemaReference
}

func Load() (*Library, error) {
	return Parse(document)
}

func Parse(data []byte) (*Library, error) {
	var schema domain.SchemaReference
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("decode query reference: %w", err)
	}
	return &Library{schema: schema}, nil
}

// Lookup returns the requested section. A non-empty table narrows the tables
// section to that table; an unknown table lists the valid names.
func (l *Library) Lookup(section Section, table string) (domain.SchemaReference, error) {
	if section == "" {
		section = SectionAll
	}
	if !section.Valid() {
		return domain.SchemaReference{}, domain.NewInvalidArgumentError("unknown section %q; use all, tables, operators or functions", section)
	}

	var out domain.SchemaReference
	if section == SectionAll || section == SectionTables {
		tables, err := l.tables(table)
		if err != nil {
			return domain.SchemaReference{}, err
		}
		out.Tables = tables
	}
	if section == SectionAll || section == SectionOperators {
		out.Operators = l.schema.Operators
	}
	if section == SectionAll || section == SectionFunctions {
		out.Functions = l.schema.Functions
	}
	return out, nil
}

func (l *Library) tables(name string) ([]domain.SchemaTable, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return l.schema.Tables, nil
	}

	names := make([]string, 0, len(l.schema.Tables))
	for _, table := range l.schema.Tables {
		if strings.EqualFold(table.Name, name) {
			return []domain.SchemaTable{table}, nil
		}
		names = append(names, table.Name)
	}
	return nil, domain.NewNotFoundError(fmt.Sprintf("no table named %q", name), names)
}
