package roi

// FeeSavings breaks annual non-labor savings into named components.
type FeeSavings struct {
	// Compliance is the flat compliance-penalty avoidance amount.
	Compliance float64 `json:"compliance"`
	// LegacyLicensing is the flat amount recovered by retiring legacy tooling.
	LegacyLicensing float64 `json:"legacy_licensing"`
	// CustomItems is the sum of the scenario's custom savings line items.
	CustomItems float64 `json:"custom_items"`
	// Escalation is either the flat escalation-fee amount or the rate-based
	// expectation, depending on the scenario's escalation flag.
	Escalation float64 `json:"escalation"`
	// Statutory is the expected annual statutory damages avoided.
	Statutory float64 `json:"statutory"`
	// Regulatory is the expected annual regulatory penalties avoided.
	Regulatory float64 `json:"regulatory"`

	// Base is Compliance + LegacyLicensing + CustomItems.
	Base float64 `json:"base"`
	// Total is Base + Escalation + Statutory + Regulatory.
	Total float64 `json:"total"`
}

// SuggestedPricing holds the pricing thresholds that would hit the caller's
// target ROI under each model.
type SuggestedPricing struct {
	MaxAnnualCost float64 `json:"max_annual_cost"`
	Flat          float64 `json:"flat"`
	PerDispute    float64 `json:"per_dispute"`
	SuccessFeePct float64 `json:"success_fee_pct"`
	HybridMinimum float64 `json:"hybrid_minimum"`
}

// CurvePoint is one sample of the price-sensitivity curve.
type CurvePoint struct {
	Multiplier float64 `json:"multiplier"`
	Price      float64 `json:"price"`
	ROI        float64 `json:"roi"`
}

// SavingsBucket is one display category of the savings breakdown, rounded
// to whole currency units.
type SavingsBucket struct {
	Label  string  `json:"label"`
	Amount float64 `json:"amount"`
}

// Metrics is the full derived output of one compute call. It is transient,
// never persisted, and recomputed from scratch on every request.
type Metrics struct {
	AnnualVolume float64 `json:"annual_volume"`

	BaselineLaborCost     float64 `json:"baseline_labor_cost"`
	ProjectedLaborCost    float64 `json:"projected_labor_cost"`
	InterventionLaborCost float64 `json:"intervention_labor_cost"`
	LaborSavings          float64 `json:"labor_savings"`

	Fees FeeSavings `json:"fee_savings"`

	GrossSavings   float64 `json:"gross_savings"`
	CountedSavings float64 `json:"counted_savings"`
	MarginHeld     float64 `json:"margin_held"`

	AnnualCost float64 `json:"annual_cost"`
	CostBasis  string  `json:"cost_basis"`

	ROI float64 `json:"roi"`
	// PaybackMonths is nil when counted savings are not positive; payback is
	// undefined there, not zero.
	PaybackMonths *float64 `json:"payback_months"`

	Suggested SuggestedPricing `json:"suggested_pricing"`
	Curve     []CurvePoint     `json:"price_roi_curve"`
	Breakdown []SavingsBucket  `json:"savings_breakdown"`
}
