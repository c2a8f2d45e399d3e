package scenario

import (
	"slices"

	"github.com/google/uuid"
)

// PricingKind selects which vendor pricing model is active for a scenario.
type PricingKind string

const (
	// PricingFlat is a fixed annual subscription.
	PricingFlat PricingKind = "flat"
	// PricingPerDispute prices each dispute processed.
	PricingPerDispute PricingKind = "per_dispute"
	// PricingSuccessFee takes a percentage of counted savings.
	PricingSuccessFee PricingKind = "success_fee"
	// PricingHybrid takes the greater of a fixed minimum and the success fee.
	PricingHybrid PricingKind = "hybrid"
)

// Valid reports whether k is one of the four recognized pricing kinds.
func (k PricingKind) Valid() bool {
	switch k {
	case PricingFlat, PricingPerDispute, PricingSuccessFee, PricingHybrid:
		return true
	}
	return false
}

// FlatPricing is a fixed annual subscription amount.
type FlatPricing struct {
	AnnualCost float64 `json:"annual_cost"`
}

// PerDisputePricing charges per dispute processed in the year.
type PerDisputePricing struct {
	PricePerDispute float64 `json:"price_per_dispute"`
}

// SuccessFeePricing charges a percentage of counted savings.
type SuccessFeePricing struct {
	Pct float64 `json:"pct"`
}

// HybridPricing charges the greater of a minimum annual floor and a
// percentage-of-savings success fee.
type HybridPricing struct {
	MinimumAnnual float64 `json:"minimum_annual"`
	Pct           float64 `json:"pct"`
}

// PricingModel is a tagged union over the four pricing kinds. All variants
// stay populated regardless of the active kind so switching kinds never
// discards previously entered parameters.
type PricingModel struct {
	Kind       PricingKind        `json:"kind"`
	Flat       *FlatPricing       `json:"flat,omitempty"`
	PerDispute *PerDisputePricing `json:"per_dispute,omitempty"`
	SuccessFee *SuccessFeePricing `json:"success_fee,omitempty"`
	Hybrid     *HybridPricing     `json:"hybrid,omitempty"`
}

// DefaultPricing returns the pricing model a freshly created scenario starts with.
func DefaultPricing() PricingModel {
	return PricingModel{
		Kind:       PricingFlat,
		Flat:       &FlatPricing{AnnualCost: 60000},
		PerDispute: &PerDisputePricing{PricePerDispute: 0.35},
		SuccessFee: &SuccessFeePricing{Pct: 20},
		Hybrid:     &HybridPricing{MinimumAnnual: 50000, Pct: 20},
	}
}

func (p PricingModel) clone() PricingModel {
	c := p
	if p.Flat != nil {
		v := *p.Flat
		c.Flat = &v
	}
	if p.PerDispute != nil {
		v := *p.PerDispute
		c.PerDispute = &v
	}
	if p.SuccessFee != nil {
		v := *p.SuccessFee
		c.SuccessFee = &v
	}
	if p.Hybrid != nil {
		v := *p.Hybrid
		c.Hybrid = &v
	}
	return c
}

// ensureVariants backfills missing variants with zero values so field access
// and patching never hit a nil pointer. Deserialized blobs from older saves
// may omit variants entirely.
func (p *PricingModel) ensureVariants() {
	if p.Flat == nil {
		p.Flat = &FlatPricing{}
	}
	if p.PerDispute == nil {
		p.PerDispute = &PerDisputePricing{}
	}
	if p.SuccessFee == nil {
		p.SuccessFee = &SuccessFeePricing{}
	}
	if p.Hybrid == nil {
		p.Hybrid = &HybridPricing{}
	}
	if p.Kind == "" {
		p.Kind = PricingFlat
	}
}

// LineItem is one custom savings or ongoing-cost row. Negative amounts are
// valid and represent deliberate offsets against the rest of the list.
type LineItem struct {
	ID     int64   `json:"id"`
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Scenario is the unit of what-if analysis: one named set of operational,
// risk, and pricing assumptions for a dispute-automation rollout.
type Scenario struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// Volume and handling mix
	DisputesPerDay    float64 `json:"disputes_per_day"`
	BusinessDays      float64 `json:"business_days"`
	GrowthFactor      float64 `json:"growth_factor"`       // multiplier for projected volume
	ManualPct         float64 `json:"manual_pct"`          // share of disputes handled manually today
	ResidualManualPct float64 `json:"residual_manual_pct"` // share still manual after automation
	ImageHeavyPct     float64 `json:"image_heavy_pct"`     // share of manual work that is image-heavy
	MinutesSimple     float64 `json:"minutes_simple"`
	MinutesImage      float64 `json:"minutes_image"`

	// Labor
	LoadedRate float64 `json:"loaded_rate"` // hourly wage including overhead

	// Non-labor savings
	CompliancePenalties float64    `json:"compliance_penalties"`
	EscalationFees      float64    `json:"escalation_fees"` // flat amount, used when the rate model is off
	UseEscalationRate   bool       `json:"use_escalation_rate"`
	EscalationRatePct   float64    `json:"escalation_rate_pct"`
	CostPerEscalation   float64    `json:"cost_per_escalation"`
	LegacyLicensing     float64    `json:"legacy_licensing"`
	CustomSavings       []LineItem `json:"custom_savings"`
	CustomCosts         []LineItem `json:"custom_costs"`

	// Statutory claim exposure
	ClaimsPerYear       float64 `json:"claims_per_year"`
	DamagesPerClaim     float64 `json:"damages_per_claim"`
	ClaimProbabilityPct float64 `json:"claim_probability_pct"`

	// Regulatory exposure
	RegulatoryTier    int     `json:"regulatory_tier"` // 1-3, selects the daily penalty amount
	RegDaysAtRisk     float64 `json:"reg_days_at_risk"`
	RegEnforcementPct float64 `json:"reg_enforcement_pct"`

	// Vendor pricing
	Pricing     PricingModel `json:"pricing"`
	OneTimeCost float64      `json:"one_time_cost"` // implementation cost, excluded from annual cost

	// Calculation options
	UseProjectedVolume bool    `json:"use_projected_volume"` // compute ROI against grown volume
	SafetyMarginPct    float64 `json:"safety_margin_pct"`

	// Monotonic ID sequences for the two line-item lists. Persisted so that
	// reloaded collections keep issuing fresh IDs.
	SavingSeq int64 `json:"saving_seq"`
	CostSeq   int64 `json:"cost_seq"`
}

// newID mints an opaque scenario identity.
func newID() string {
	return uuid.New().String()
}

// New returns a Scenario populated with the documented defaults and a fresh identity.
func New(name string) *Scenario {
	return &Scenario{
		ID:   newID(),
		Name: name,

		DisputesPerDay:    250,
		BusinessDays:      260,
		GrowthFactor:      2.5,
		ManualPct:         12.5,
		ResidualManualPct: 0,
		ImageHeavyPct:     30,
		MinutesSimple:     3,
		MinutesImage:      5,

		LoadedRate: 39,

		CompliancePenalties: 25000,
		EscalationFees:      18000,
		UseEscalationRate:   false,
		EscalationRatePct:   1.5,
		CostPerEscalation:   35,
		LegacyLicensing:     12000,
		CustomSavings:       []LineItem{},
		CustomCosts:         []LineItem{},

		ClaimsPerYear:       3,
		DamagesPerClaim:     1000,
		ClaimProbabilityPct: 25,

		RegulatoryTier:    1,
		RegDaysAtRisk:     10,
		RegEnforcementPct: 5,

		Pricing:     DefaultPricing(),
		OneTimeCost: 15000,

		UseProjectedVolume: true,
		SafetyMarginPct:    10,
	}
}

// Clone returns a deep copy sharing no mutable state with the receiver.
// The copy keeps the same ID; callers duplicating a scenario must assign
// a fresh one.
func (s *Scenario) Clone() *Scenario {
	c := *s
	c.CustomSavings = slices.Clone(s.CustomSavings)
	c.CustomCosts = slices.Clone(s.CustomCosts)
	c.Pricing = s.Pricing.clone()
	return &c
}

// normalize repairs a scenario after deserialization: missing identity,
// missing pricing variants, nil line-item lists, and ID sequences that
// lag behind the items already present.
func (s *Scenario) normalize() {
	if s.ID == "" {
		s.ID = newID()
	}
	s.Pricing.ensureVariants()
	if s.CustomSavings == nil {
		s.CustomSavings = []LineItem{}
	}
	if s.CustomCosts == nil {
		s.CustomCosts = []LineItem{}
	}
	for _, it := range s.CustomSavings {
		if it.ID > s.SavingSeq {
			s.SavingSeq = it.ID
		}
	}
	for _, it := range s.CustomCosts {
		if it.ID > s.CostSeq {
			s.CostSeq = it.ID
		}
	}
}

// nextSavingID reserves the next line-item ID for the custom savings list.
func (s *Scenario) nextSavingID() int64 {
	s.SavingSeq++
	return s.SavingSeq
}

// nextCostID reserves the next line-item ID for the custom costs list.
func (s *Scenario) nextCostID() int64 {
	s.CostSeq++
	return s.CostSeq
}
