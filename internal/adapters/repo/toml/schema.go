package toml

import "fmt"

const currentSchemaVersion = 1

type manifestSchema struct {
	Version int            `toml:"version"`
	Methods []methodSchema `toml:"methods"`
}

func (s *manifestSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s manifestSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported manifest schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type methodSchema struct {
	Name        string        `toml:"name"`
	Category    string        `toml:"category"`
	Description string        `toml:"description"`
	Returns     returnsSchema `toml:"returns"`
	Params      []paramSchema `toml:"params,omitempty"`
}

type returnsSchema struct {
	Type        string `toml:"type"`
	Description string `toml:"description,omitempty"`
}

type paramSchema struct {
	Name        string `toml:"name"`
	Type        string `toml:"type"`
	Required    bool   `toml:"required,omitempty"`
	Description string `toml:"description,omitempty"`
}
