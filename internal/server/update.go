package server

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"dare-mcp/internal/scenario"
)

// updateInput is the flattened patch surface of scenario_update. Field names
// deliberately match the scenario_get output so an agent can read a value and
// write it back under the same key.
type updateInput struct {
	ScenarioID string `json:"scenario_id,omitempty"`

	Name *string `json:"name,omitempty"`

	DisputesPerDay    *float64 `json:"disputes_per_day,omitempty"`
	BusinessDays      *float64 `json:"business_days,omitempty"`
	GrowthFactor      *float64 `json:"growth_factor,omitempty"`
	ManualPct         *float64 `json:"manual_pct,omitempty"`
	ResidualManualPct *float64 `json:"residual_manual_pct,omitempty"`
	ImageHeavyPct     *float64 `json:"image_heavy_pct,omitempty"`
	MinutesSimple     *float64 `json:"minutes_simple,omitempty"`
	MinutesImage      *float64 `json:"minutes_image,omitempty"`

	LoadedRate *float64 `json:"loaded_rate,omitempty"`

	CompliancePenalties *float64 `json:"compliance_penalties,omitempty"`
	EscalationFees      *float64 `json:"escalation_fees,omitempty"`
	UseEscalationRate   *bool    `json:"use_escalation_rate,omitempty"`
	EscalationRatePct   *float64 `json:"escalation_rate_pct,omitempty"`
	CostPerEscalation   *float64 `json:"cost_per_escalation,omitempty"`
	LegacyLicensing     *float64 `json:"legacy_licensing,omitempty"`

	ClaimsPerYear       *float64 `json:"claims_per_year,omitempty"`
	DamagesPerClaim     *float64 `json:"damages_per_claim,omitempty"`
	ClaimProbabilityPct *float64 `json:"claim_probability_pct,omitempty"`

	RegulatoryTier    *int     `json:"regulatory_tier,omitempty"`
	RegDaysAtRisk     *float64 `json:"reg_days_at_risk,omitempty"`
	RegEnforcementPct *float64 `json:"reg_enforcement_pct,omitempty"`

	PricingKind     *string  `json:"pricing_kind,omitempty"`
	FlatAnnualCost  *float64 `json:"flat_annual_cost,omitempty"`
	PricePerDispute *float64 `json:"price_per_dispute,omitempty"`
	SuccessFeePct   *float64 `json:"success_fee_pct,omitempty"`
	HybridMinimum   *float64 `json:"hybrid_minimum,omitempty"`
	HybridPct       *float64 `json:"hybrid_pct,omitempty"`

	OneTimeCost        *float64 `json:"one_time_cost,omitempty"`
	UseProjectedVolume *bool    `json:"use_projected_volume,omitempty"`
	SafetyMarginPct    *float64 `json:"safety_margin_pct,omitempty"`
}

// patch validates the pricing kind and converts the flat input into the
// store's patch shape.
func (in updateInput) patch() (scenario.Patch, error) {
	p := scenario.Patch{
		Name:                in.Name,
		DisputesPerDay:      in.DisputesPerDay,
		BusinessDays:        in.BusinessDays,
		GrowthFactor:        in.GrowthFactor,
		ManualPct:           in.ManualPct,
		ResidualManualPct:   in.ResidualManualPct,
		ImageHeavyPct:       in.ImageHeavyPct,
		MinutesSimple:       in.MinutesSimple,
		MinutesImage:        in.MinutesImage,
		LoadedRate:          in.LoadedRate,
		CompliancePenalties: in.CompliancePenalties,
		EscalationFees:      in.EscalationFees,
		UseEscalationRate:   in.UseEscalationRate,
		EscalationRatePct:   in.EscalationRatePct,
		CostPerEscalation:   in.CostPerEscalation,
		LegacyLicensing:     in.LegacyLicensing,
		ClaimsPerYear:       in.ClaimsPerYear,
		DamagesPerClaim:     in.DamagesPerClaim,
		ClaimProbabilityPct: in.ClaimProbabilityPct,
		RegulatoryTier:      in.RegulatoryTier,
		RegDaysAtRisk:       in.RegDaysAtRisk,
		RegEnforcementPct:   in.RegEnforcementPct,
		OneTimeCost:         in.OneTimeCost,
		UseProjectedVolume:  in.UseProjectedVolume,
		SafetyMarginPct:     in.SafetyMarginPct,
	}

	var kind *scenario.PricingKind
	if in.PricingKind != nil {
		k := scenario.PricingKind(*in.PricingKind)
		if !k.Valid() {
			return scenario.Patch{}, fmt.Errorf("unknown pricing kind %q: must be 'flat', 'per_dispute', 'success_fee' or 'hybrid'", *in.PricingKind)
		}
		kind = &k
	}

	if kind != nil || in.FlatAnnualCost != nil || in.PricePerDispute != nil ||
		in.SuccessFeePct != nil || in.HybridMinimum != nil || in.HybridPct != nil {
		p.Pricing = &scenario.PricingPatch{
			Kind:            kind,
			FlatAnnualCost:  in.FlatAnnualCost,
			PricePerDispute: in.PricePerDispute,
			SuccessFeePct:   in.SuccessFeePct,
			HybridMinimum:   in.HybridMinimum,
			HybridPct:       in.HybridPct,
		}
	}

	return p, nil
}

// updateSchema spells out the patch surface by hand. The generated schema
// would mark nothing as a percentage or currency amount, and agents pick
// field values far more reliably with units in the descriptions.
func updateSchema() *jsonschema.Schema {
	num := func(desc string) *jsonschema.Schema {
		return &jsonschema.Schema{Type: "number", Description: desc}
	}
	flag := func(desc string) *jsonschema.Schema {
		return &jsonschema.Schema{Type: "boolean", Description: desc}
	}

	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"scenario_id": {Type: "string", Description: "Scenario ID. Defaults to the selected scenario."},
			"name":        {Type: "string", Description: "Rename the scenario."},

			"disputes_per_day":    num("Current dispute volume per business day."),
			"business_days":       num("Business days per year (default 260)."),
			"growth_factor":       num("Volume multiplier for the projected case (e.g. 2.5 = 2.5x growth)."),
			"manual_pct":          num("Percent of disputes handled manually today (0-100)."),
			"residual_manual_pct": num("Percent of disputes still needing manual review after automation (0-100)."),
			"image_heavy_pct":     num("Percent of manual reviews that are image-heavy (0-100)."),
			"minutes_simple":      num("Minutes per simple manual review."),
			"minutes_image":       num("Minutes per image-heavy manual review."),

			"loaded_rate": num("Loaded hourly rate for review staff, in dollars."),

			"compliance_penalties": num("Annual compliance penalties avoided, in dollars."),
			"escalation_fees":      num("Flat annual escalation fees avoided, used when use_escalation_rate is false."),
			"use_escalation_rate":  flag("If true, escalation savings are volume x rate x cost instead of the flat amount."),
			"escalation_rate_pct":  num("Percent of annual volume that escalates (0-100)."),
			"cost_per_escalation":  num("Cost per escalated dispute, in dollars."),
			"legacy_licensing":     num("Annual legacy tooling spend retired, in dollars."),

			"claims_per_year":       num("Expected statutory claims per year."),
			"damages_per_claim":     num("Expected damages per claim, in dollars."),
			"claim_probability_pct": num("Probability that a claim succeeds (0-100)."),

			"regulatory_tier":     {Type: "integer", Description: "Regulatory exposure tier, 1 to 3. Out-of-range values fall back to tier 1."},
			"reg_days_at_risk":    num("Days per year at risk of regulatory penalties."),
			"reg_enforcement_pct": num("Probability of enforcement on an at-risk day (0-100)."),

			"pricing_kind": {
				Type:        "string",
				Enum:        []any{"flat", "per_dispute", "success_fee", "hybrid"},
				Description: "Active vendor pricing model. Parameters of inactive models are kept, not discarded.",
			},
			"flat_annual_cost":  num("Flat model: annual subscription, in dollars."),
			"price_per_dispute": num("Per-dispute model: price per processed dispute, in dollars."),
			"success_fee_pct":   num("Success-fee model: percent of counted savings (0-100)."),
			"hybrid_minimum":    num("Hybrid model: minimum annual floor, in dollars."),
			"hybrid_pct":        num("Hybrid model: percent of counted savings (0-100)."),

			"one_time_cost":        num("One-time implementation cost, in dollars. Excluded from annual cost, included in payback."),
			"use_projected_volume": flag("If true, labor savings and volume pricing use the grown volume; if false, today's volume."),
			"safety_margin_pct":    num("Percent of gross savings held back before ROI (0-100)."),
		},
	}
}
