package persistence

import (
	"encoding/json"
	"fmt"
)

// MarshalAuthorityState serializes AuthorityState to JSON bytes.
func MarshalAuthorityState(s *AuthorityState) ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("cannot marshal nil AuthorityState")
	}

	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal AuthorityState to JSON: %w", err)
	}
	return data, nil
}

// UnmarshalAuthorityState deserializes AuthorityState from JSON bytes.
func UnmarshalAuthorityState(data []byte) (*AuthorityState, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var s AuthorityState
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to AuthorityState: %w", err)
	}
	return &s, nil
}

// MarshalIssuanceRecord serializes an IssuanceRecord to JSON bytes.
func MarshalIssuanceRecord(r *IssuanceRecord) ([]byte, error) {
	if r == nil {
		return nil, fmt.Errorf("cannot marshal nil IssuanceRecord")
	}
	return json.Marshal(r)
}

// UnmarshalIssuanceRecord deserializes an IssuanceRecord from JSON bytes.
func UnmarshalIssuanceRecord(data []byte) (*IssuanceRecord, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("cannot unmarshal empty data")
	}

	var r IssuanceRecord
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to unmarshal JSON to IssuanceRecord: %w", err)
	}
	return &r, nil
}
