package scenario

import (
	"errors"
	"reflect"
	"testing"
)

func TestSerializeRoundTrip(t *testing.T) {
	first := New("first")
	first.CustomSavings = append(first.CustomSavings, LineItem{ID: 1, Label: "Vendor retired", Amount: 8000})
	first.SavingSeq = 1
	first.Pricing.Kind = PricingHybrid

	second := New("second")
	second.GrowthFactor = 4
	second.UseEscalationRate = true

	collection := []*Scenario{first, second}

	blob, err := Serialize(collection)
	if err != nil {
		t.Fatalf("Serialize failed: %v", err)
	}

	restored, err := Deserialize(blob)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}

	if len(restored) != 2 {
		t.Fatalf("Restored %d scenarios, want 2", len(restored))
	}
	if restored[0].ID != first.ID || restored[1].ID != second.ID {
		t.Error("Expected collection order preserved")
	}
	if !reflect.DeepEqual(collection, restored) {
		t.Error("Round-tripped collection differs from the original")
	}
}

func TestDeserializeMalformed(t *testing.T) {
	tests := []struct {
		name string
		blob string
	}{
		{"Empty", ""},
		{"Truncated", `[{"id": "x"`},
		{"WrongShape", `{"id": "x"}`},
		{"NotJSON", "disputes: lots"},
		{"NullRecord", `[null]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Deserialize([]byte(tt.blob)); !errors.Is(err, ErrParse) {
				t.Errorf("Deserialize(%q) error = %v, want ErrParse", tt.blob, err)
			}
		})
	}
}

func TestDeserializeRepairsSparseRecords(t *testing.T) {
	blob := []byte(`[{"name": "minimal", "disputes_per_day": 100}]`)

	restored, err := Deserialize(blob)
	if err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}
	sc := restored[0]

	if sc.ID == "" {
		t.Error("Expected a generated ID for a record without one")
	}
	if sc.DisputesPerDay != 100 {
		t.Errorf("DisputesPerDay = %v, want 100", sc.DisputesPerDay)
	}
	if sc.Pricing.Kind != PricingFlat {
		t.Errorf("Pricing kind = %q, want flat fallback", sc.Pricing.Kind)
	}
	if sc.Pricing.Flat == nil || sc.Pricing.Hybrid == nil {
		t.Error("Expected pricing variants backfilled")
	}
	if sc.CustomSavings == nil || sc.CustomCosts == nil {
		t.Error("Expected line-item lists backfilled")
	}
}

func TestDefaultCollection(t *testing.T) {
	collection := DefaultCollection()

	if len(collection) != 2 {
		t.Fatalf("DefaultCollection() returned %d scenarios, want 2", len(collection))
	}

	base, aggressive := collection[0], collection[1]
	if base.Name != "Base Case" {
		t.Errorf("First scenario = %q, want %q", base.Name, "Base Case")
	}
	if aggressive.Name != "Aggressive Growth" {
		t.Errorf("Second scenario = %q, want %q", aggressive.Name, "Aggressive Growth")
	}
	if aggressive.GrowthFactor != 4 || aggressive.ManualPct != 20 {
		t.Errorf("Aggressive overrides = growth %v, manual %v, want 4 and 20",
			aggressive.GrowthFactor, aggressive.ManualPct)
	}

	// Everything else matches the documented defaults.
	if aggressive.DisputesPerDay != base.DisputesPerDay || aggressive.LoadedRate != base.LoadedRate {
		t.Error("Expected non-overridden fields to match the base defaults")
	}
	if base.GrowthFactor != 2.5 || base.ManualPct != 12.5 {
		t.Error("Expected the base scenario to carry unmodified defaults")
	}
}
