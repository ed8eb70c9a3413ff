package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Changes is a partial update: JSON field name -> raw JSON value.
// Only the keys present are applied.
type Changes map[string]json.RawMessage

// Merge applies changes onto a copy of existing. Protected fields (identity,
// ownership and audit columns) are skipped even when present. Unknown field
// names are rejected. existing is never mutated.
func Merge[E any](existing E, changes Changes) (E, error) {
	out := existing
	if len(changes) == 0 {
		return out, nil
	}

	known, err := jsonFields(existing)
	if err != nil {
		return out, err
	}

	patch := make(map[string]json.RawMessage, len(changes))
	nulls := make(map[string]json.RawMessage, len(changes))
	for k, v := range changes {
		if IsProtectedField(k) {
			continue
		}
		if _, ok := known[k]; !ok {
			return existing, invalid(k, "unknown field")
		}
		patch[k] = v
		nulls[k] = json.RawMessage("null")
	}
	if len(patch) == 0 {
		return out, nil
	}

	// Reset touched fields first so decoding allocates fresh values instead of
	// writing through pointers and slices shared with existing.
	if err := roundTrip(nulls, &out); err != nil {
		return existing, err
	}
	if err := roundTrip(patch, &out); err != nil {
		return existing, err
	}
	return out, nil
}

func jsonFields(v any) (map[string]struct{}, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("merge: %w", err)
	}
	out := make(map[string]struct{}, len(m))
	for k := range m {
		out[k] = struct{}{}
	}
	return out, nil
}

func roundTrip(fields map[string]json.RawMessage, dst any) error {
	b, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			return invalid(te.Field, "expected "+te.Type.String())
		}
		return invalid("body", err.Error())
	}
	return nil
}
