package scenario

import (
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
)

// ErrParse marks a persisted collection blob that could not be decoded.
// Callers recover by seeding DefaultCollection instead of failing.
var ErrParse = errors.New("malformed scenario data")

// Serialize encodes a collection as a single JSON array blob, order preserved.
func Serialize(collection []*Scenario) ([]byte, error) {
	if collection == nil {
		collection = []*Scenario{}
	}
	blob, err := json.Marshal(collection)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize collection: %w", err)
	}
	return blob, nil
}

// Deserialize decodes a collection blob produced by Serialize. Structural
// damage yields an error wrapping ErrParse; recoverable gaps in individual
// records (missing IDs, absent pricing variants, nil lists) are repaired
// in place.
func Deserialize(blob []byte) ([]*Scenario, error) {
	if len(blob) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrParse)
	}

	var collection []*Scenario
	if err := json.Unmarshal(blob, &collection); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	for i, sc := range collection {
		if sc == nil {
			return nil, fmt.Errorf("%w: null record at index %d", ErrParse, i)
		}
		sc.normalize()
	}
	return collection, nil
}

// DefaultCollection returns the two seeded scenarios used whenever no stored
// collection exists or the stored blob fails to parse.
func DefaultCollection() []*Scenario {
	base := New("Base Case")

	aggressive := New("Aggressive Growth")
	aggressive.GrowthFactor = 4
	aggressive.ManualPct = 20

	return []*Scenario{base, aggressive}
}
