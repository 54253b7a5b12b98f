package application

import (
	"encoding/json"
	"fmt"
)

// decodeInto reshapes a loosely-typed client payload into dst.
func decodeInto(src any, dst any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encode client payload: %w", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode client payload: %w", err)
	}
	return nil
}

func entityList(result any) ([]map[string]any, error) {
	if result == nil {
		return nil, nil
	}
	if items, ok := result.([]any); ok {
		entities := make([]map[string]any, 0, len(items))
		for _, item := range items {
			entity, ok := item.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("listing entry has type %T, want object", item)
			}
			entities = append(entities, entity)
		}
		return entities, nil
	}

	var entities []map[string]any
	if err := decodeInto(result, &entities); err != nil {
		return nil, err
	}
	return entities, nil
}

func stringField(entity map[string]any, key string) string {
	value, _ := entity[key].(string)
	return value
}
