package store

import (
	"encoding/json"
	"fmt"
	"strings"

	"tally/internal/core"
)

// Encode serializes the collection into the stored blob format: a JSON array
// of {id, description, amount, category, date} objects.
func Encode(expenses []core.Expense) (string, error) {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	data, err := json.Marshal(expenses)
	if err != nil {
		return "", fmt.Errorf("encode expenses: %w", err)
	}
	return string(data), nil
}

// Decode parses a stored blob. An empty blob or JSON null is an empty
// collection. Unknown fields are ignored and missing fields stay zero, but
// every record needs a non-empty, unique id.
func Decode(blob string) ([]core.Expense, error) {
	if strings.TrimSpace(blob) == "" {
		return nil, nil
	}

	var expenses []core.Expense
	if err := json.Unmarshal([]byte(blob), &expenses); err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrDeserialization, err)
	}

	seen := make(map[string]struct{}, len(expenses))
	for i, e := range expenses {
		if e.ID == "" {
			return nil, fmt.Errorf("%w: record %d has no id", core.ErrDeserialization, i)
		}
		if _, dup := seen[e.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", core.ErrDeserialization, e.ID)
		}
		seen[e.ID] = struct{}{}
	}
	return expenses, nil
}
