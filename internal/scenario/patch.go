package scenario

// Patch holds the fields a partial update may change. Nil fields are left
// untouched; set fields win last-write per field.
type Patch struct {
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

	Pricing     *PricingPatch `json:"pricing,omitempty"`
	OneTimeCost *float64      `json:"one_time_cost,omitempty"`

	UseProjectedVolume *bool    `json:"use_projected_volume,omitempty"`
	SafetyMarginPct    *float64 `json:"safety_margin_pct,omitempty"`
}

// PricingPatch updates the active pricing kind and any variant parameters.
// Variant parameters can be set without switching to that variant.
type PricingPatch struct {
	Kind            *PricingKind `json:"kind,omitempty"`
	FlatAnnualCost  *float64     `json:"flat_annual_cost,omitempty"`
	PricePerDispute *float64     `json:"price_per_dispute,omitempty"`
	SuccessFeePct   *float64     `json:"success_fee_pct,omitempty"`
	HybridMinimum   *float64     `json:"hybrid_minimum,omitempty"`
	HybridPct       *float64     `json:"hybrid_pct,omitempty"`
}

// LineItemPatch updates the label and/or amount of one line item.
type LineItemPatch struct {
	Label  *string  `json:"label,omitempty"`
	Amount *float64 `json:"amount,omitempty"`
}

// Apply merges the set fields of p into s.
func (s *Scenario) Apply(p Patch) {
	if p.Name != nil {
		s.Name = *p.Name
	}

	if p.DisputesPerDay != nil {
		s.DisputesPerDay = *p.DisputesPerDay
	}
	if p.BusinessDays != nil {
		s.BusinessDays = *p.BusinessDays
	}
	if p.GrowthFactor != nil {
		s.GrowthFactor = *p.GrowthFactor
	}
	if p.ManualPct != nil {
		s.ManualPct = *p.ManualPct
	}
	if p.ResidualManualPct != nil {
		s.ResidualManualPct = *p.ResidualManualPct
	}
	if p.ImageHeavyPct != nil {
		s.ImageHeavyPct = *p.ImageHeavyPct
	}
	if p.MinutesSimple != nil {
		s.MinutesSimple = *p.MinutesSimple
	}
	if p.MinutesImage != nil {
		s.MinutesImage = *p.MinutesImage
	}

	if p.LoadedRate != nil {
		s.LoadedRate = *p.LoadedRate
	}

	if p.CompliancePenalties != nil {
		s.CompliancePenalties = *p.CompliancePenalties
	}
	if p.EscalationFees != nil {
		s.EscalationFees = *p.EscalationFees
	}
	if p.UseEscalationRate != nil {
		s.UseEscalationRate = *p.UseEscalationRate
	}
	if p.EscalationRatePct != nil {
		s.EscalationRatePct = *p.EscalationRatePct
	}
	if p.CostPerEscalation != nil {
		s.CostPerEscalation = *p.CostPerEscalation
	}
	if p.LegacyLicensing != nil {
		s.LegacyLicensing = *p.LegacyLicensing
	}

	if p.ClaimsPerYear != nil {
		s.ClaimsPerYear = *p.ClaimsPerYear
	}
	if p.DamagesPerClaim != nil {
		s.DamagesPerClaim = *p.DamagesPerClaim
	}
	if p.ClaimProbabilityPct != nil {
		s.ClaimProbabilityPct = *p.ClaimProbabilityPct
	}

	if p.RegulatoryTier != nil {
		s.RegulatoryTier = *p.RegulatoryTier
	}
	if p.RegDaysAtRisk != nil {
		s.RegDaysAtRisk = *p.RegDaysAtRisk
	}
	if p.RegEnforcementPct != nil {
		s.RegEnforcementPct = *p.RegEnforcementPct
	}

	if p.Pricing != nil {
		s.Pricing.apply(*p.Pricing)
	}
	if p.OneTimeCost != nil {
		s.OneTimeCost = *p.OneTimeCost
	}

	if p.UseProjectedVolume != nil {
		s.UseProjectedVolume = *p.UseProjectedVolume
	}
	if p.SafetyMarginPct != nil {
		s.SafetyMarginPct = *p.SafetyMarginPct
	}
}

func (m *PricingModel) apply(p PricingPatch) {
	m.ensureVariants()
	if p.Kind != nil && p.Kind.Valid() {
		m.Kind = *p.Kind
	}
	if p.FlatAnnualCost != nil {
		m.Flat.AnnualCost = *p.FlatAnnualCost
	}
	if p.PricePerDispute != nil {
		m.PerDispute.PricePerDispute = *p.PricePerDispute
	}
	if p.SuccessFeePct != nil {
		m.SuccessFee.Pct = *p.SuccessFeePct
	}
	if p.HybridMinimum != nil {
		m.Hybrid.MinimumAnnual = *p.HybridMinimum
	}
	if p.HybridPct != nil {
		m.Hybrid.Pct = *p.HybridPct
	}
}

// Apply merges the set fields of p into the line item.
func (it *LineItem) Apply(p LineItemPatch) {
	if p.Label != nil {
		it.Label = *p.Label
	}
	if p.Amount != nil {
		it.Amount = *p.Amount
	}
}
