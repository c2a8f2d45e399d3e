package roi

import (
	"math"

	"dare-mcp/internal/scenario"
)

// Compute derives the full metrics set for one scenario against the default
// regulatory tier table. It is pure: no state, no I/O, deterministic for a
// given input, and safe to call concurrently on distinct scenarios. The
// scenario is never mutated.
func Compute(sc *scenario.Scenario, targetROI float64) Metrics {
	return ComputeWithTiers(sc, targetROI, DefaultTierTable())
}

// ComputeWithTiers is Compute with an explicit tier table.
func ComputeWithTiers(sc *scenario.Scenario, targetROI float64, tiers TierTable) Metrics {
	var m Metrics

	// Volume projection. The projected figure always reflects growth; the
	// working volume follows the scenario's toggle.
	baseDaily := num(sc.DisputesPerDay)
	days := num(sc.BusinessDays)
	projDaily := baseDaily * num(sc.GrowthFactor)
	workDaily := baseDaily
	if sc.UseProjectedVolume {
		workDaily = projDaily
	}
	m.AnnualVolume = workDaily * days

	// Blended manual handling time per case, in hours.
	imageShare := pct(sc.ImageHeavyPct)
	blended := (1-imageShare)*num(sc.MinutesSimple)/60 + imageShare*num(sc.MinutesImage)/60

	manual := pct(sc.ManualPct)
	residual := pct(sc.ResidualManualPct)
	rate := num(sc.LoadedRate)
	m.BaselineLaborCost = baseDaily * manual * blended * rate * days
	m.ProjectedLaborCost = projDaily * manual * blended * rate * days
	m.InterventionLaborCost = workDaily * residual * blended * rate * days

	laborBase := m.BaselineLaborCost
	if sc.UseProjectedVolume {
		laborBase = m.ProjectedLaborCost
	}
	m.LaborSavings = math.Max(0, laborBase-m.InterventionLaborCost)

	m.Fees = feeSavings(sc, m.AnnualVolume, tiers)

	m.GrossSavings = m.LaborSavings + m.Fees.Total

	// Safety margin: the held-back amount is reported, never silently dropped.
	m.CountedSavings = m.GrossSavings * (1 - pct(sc.SafetyMarginPct))
	m.MarginHeld = m.GrossSavings - m.CountedSavings

	m.AnnualCost, m.CostBasis = annualCost(sc, m.AnnualVolume, m.CountedSavings)

	// A zero-cost scenario reports ROI 0 by convention rather than signaling
	// a division error.
	if m.AnnualCost > 0 {
		m.ROI = m.CountedSavings / m.AnnualCost
	}

	if m.CountedSavings > 0 {
		payback := (m.AnnualCost + num(sc.OneTimeCost)) / (m.CountedSavings / 12)
		m.PaybackMonths = &payback
	}

	m.Suggested = suggestPricing(sc, targetROI, m.AnnualVolume, m.CountedSavings)
	m.Curve = priceCurve(m.Suggested.Flat, m.AnnualCost, m.CountedSavings)
	m.Breakdown = breakdown(m)

	return m
}

// feeSavings computes the non-labor savings components independently and
// sums them.
func feeSavings(sc *scenario.Scenario, annualVolume float64, tiers TierTable) FeeSavings {
	var f FeeSavings

	f.Compliance = num(sc.CompliancePenalties)
	f.LegacyLicensing = num(sc.LegacyLicensing)
	for _, it := range sc.CustomSavings {
		f.CustomItems += num(it.Amount)
	}
	f.Base = f.Compliance + f.LegacyLicensing + f.CustomItems

	if sc.UseEscalationRate {
		f.Escalation = annualVolume * pct(sc.EscalationRatePct) * num(sc.CostPerEscalation)
	} else {
		f.Escalation = num(sc.EscalationFees)
	}

	f.Statutory = num(sc.ClaimsPerYear) * num(sc.DamagesPerClaim) * pct(sc.ClaimProbabilityPct)
	f.Regulatory = num(sc.RegDaysAtRisk) * tiers.DailyAmount(sc.RegulatoryTier) * pct(sc.RegEnforcementPct)

	f.Total = f.Base + f.Escalation + f.Statutory + f.Regulatory
	return f
}

// breakdown groups the computed savings into the five display buckets,
// rounded to whole currency units.
func breakdown(m Metrics) []SavingsBucket {
	return []SavingsBucket{
		{Label: "Labor savings", Amount: math.Round(m.LaborSavings)},
		{Label: "Fees & tooling avoided", Amount: math.Round(m.Fees.Base + m.Fees.Escalation)},
		{Label: "Statutory damages avoided", Amount: math.Round(m.Fees.Statutory)},
		{Label: "Regulatory penalties avoided", Amount: math.Round(m.Fees.Regulatory)},
		{Label: "Safety margin (not counted)", Amount: math.Round(m.MarginHeld)},
	}
}

// num coerces NaN and infinities to zero so a damaged field degrades to a
// zero-valued term instead of poisoning the whole computation.
func num(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// pct converts a percentage field to a fraction, clamped to [0,1] at the
// point of use.
func pct(v float64) float64 {
	v = num(v)
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 1
	}
	return v / 100
}
