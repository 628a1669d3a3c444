package storage

import (
	"encoding/json"
	"fmt"
	"maps"
)

// EncodeFields converts a JSON-tagged value into document fields
func EncodeFields(v any) (Fields, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode fields: %w", err)
	}
	return UnmarshalFields(data)
}

// DecodeFields fills a JSON-tagged value from document fields
func DecodeFields(fields Fields, v any) error {
	data, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("decode fields: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode fields: %w", err)
	}
	return nil
}

// MarshalFields serializes fields for backends that store raw JSON
func MarshalFields(fields Fields) ([]byte, error) {
	if fields == nil {
		fields = Fields{}
	}
	return json.Marshal(fields)
}

// UnmarshalFields parses raw JSON stored by MarshalFields
func UnmarshalFields(data []byte) (Fields, error) {
	fields := Fields{}
	if len(data) == 0 {
		return fields, nil
	}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("unmarshal fields: %w", err)
	}
	return fields, nil
}

// Merge returns base overlaid with the top-level entries of patch
func Merge(base, patch Fields) Fields {
	out := make(Fields, len(base)+len(patch))
	maps.Copy(out, base)
	maps.Copy(out, patch)
	return out
}
