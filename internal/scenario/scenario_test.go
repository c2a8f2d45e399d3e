package scenario

import "testing"

func TestNewPopulatesDefaults(t *testing.T) {
	sc := New("Base Case")

	if sc.ID == "" {
		t.Fatal("Expected a generated ID")
	}
	if sc.Name != "Base Case" {
		t.Errorf("Name = %q, want %q", sc.Name, "Base Case")
	}
	if sc.DisputesPerDay != 250 || sc.BusinessDays != 260 {
		t.Errorf("Volume defaults = %v/%v, want 250/260", sc.DisputesPerDay, sc.BusinessDays)
	}
	if sc.GrowthFactor != 2.5 || sc.ManualPct != 12.5 {
		t.Errorf("Growth/manual defaults = %v/%v, want 2.5/12.5", sc.GrowthFactor, sc.ManualPct)
	}
	if sc.Pricing.Kind != PricingFlat {
		t.Errorf("Pricing kind = %q, want %q", sc.Pricing.Kind, PricingFlat)
	}
	if sc.Pricing.Flat == nil || sc.Pricing.Flat.AnnualCost != 60000 {
		t.Error("Expected flat pricing default of 60000")
	}
	if sc.Pricing.Hybrid == nil || sc.Pricing.Hybrid.MinimumAnnual != 50000 {
		t.Error("Expected hybrid minimum default of 50000")
	}
	if sc.CustomSavings == nil || sc.CustomCosts == nil {
		t.Error("Expected empty, non-nil line-item lists")
	}
	if !sc.UseProjectedVolume {
		t.Error("Expected projected volume enabled by default")
	}
	if sc.SafetyMarginPct != 10 {
		t.Errorf("SafetyMarginPct = %v, want 10", sc.SafetyMarginPct)
	}
}

func TestNewGeneratesUniqueIDs(t *testing.T) {
	a := New("a")
	b := New("b")
	if a.ID == b.ID {
		t.Fatalf("Expected distinct IDs, both were %q", a.ID)
	}
}

func TestCloneIsDeep(t *testing.T) {
	src := New("original")
	src.CustomSavings = append(src.CustomSavings, LineItem{ID: 1, Label: "Chargeback tooling", Amount: 4000})
	src.CustomCosts = append(src.CustomCosts, LineItem{ID: 1, Label: "API fees", Amount: 1200})

	cp := src.Clone()

	cp.CustomSavings[0].Amount = 9999
	cp.CustomCosts = append(cp.CustomCosts, LineItem{ID: 2, Label: "extra", Amount: 1})
	cp.Pricing.Flat.AnnualCost = 123
	cp.Pricing.Hybrid.MinimumAnnual = 1

	if src.CustomSavings[0].Amount != 4000 {
		t.Errorf("Original savings amount mutated to %v", src.CustomSavings[0].Amount)
	}
	if len(src.CustomCosts) != 1 {
		t.Errorf("Original cost list length mutated to %d", len(src.CustomCosts))
	}
	if src.Pricing.Flat.AnnualCost != 60000 {
		t.Errorf("Original flat pricing mutated to %v", src.Pricing.Flat.AnnualCost)
	}
	if src.Pricing.Hybrid.MinimumAnnual != 50000 {
		t.Errorf("Original hybrid minimum mutated to %v", src.Pricing.Hybrid.MinimumAnnual)
	}
}

func TestNormalizeRepairsRecord(t *testing.T) {
	sc := &Scenario{
		Name: "loaded",
		CustomSavings: []LineItem{
			{ID: 5, Label: "a", Amount: 1},
			{ID: 9, Label: "b", Amount: 2},
		},
	}

	sc.normalize()

	if sc.ID == "" {
		t.Error("Expected normalize to assign an ID")
	}
	if sc.Pricing.Kind != PricingFlat {
		t.Errorf("Pricing kind = %q, want flat fallback", sc.Pricing.Kind)
	}
	if sc.Pricing.Flat == nil || sc.Pricing.PerDispute == nil || sc.Pricing.SuccessFee == nil || sc.Pricing.Hybrid == nil {
		t.Error("Expected all pricing variants backfilled")
	}
	if sc.CustomCosts == nil {
		t.Error("Expected nil cost list replaced with empty slice")
	}
	if sc.SavingSeq != 9 {
		t.Errorf("SavingSeq = %d, want 9 (highest existing item ID)", sc.SavingSeq)
	}
	if got := sc.nextSavingID(); got != 10 {
		t.Errorf("nextSavingID() = %d, want 10", got)
	}
}

func TestPricingKindValid(t *testing.T) {
	tests := []struct {
		kind  PricingKind
		valid bool
	}{
		{PricingFlat, true},
		{PricingPerDispute, true},
		{PricingSuccessFee, true},
		{PricingHybrid, true},
		{PricingKind(""), false},
		{PricingKind("subscription"), false},
	}

	for _, tt := range tests {
		if got := tt.kind.Valid(); got != tt.valid {
			t.Errorf("Valid(%q) = %v, want %v", tt.kind, got, tt.valid)
		}
	}
}
