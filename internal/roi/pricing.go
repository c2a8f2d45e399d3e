package roi

import (
	"fmt"
	"math"

	"dare-mcp/internal/scenario"
)

// annualCost evaluates the scenario's active pricing model and returns the
// annual cost together with a human-readable explanation carrying the
// literal inputs. Custom ongoing costs are added to every model's result.
// An unrecognized pricing kind is costed as flat.
func annualCost(sc *scenario.Scenario, annualVolume, countedSavings float64) (float64, string) {
	var ongoing float64
	for _, it := range sc.CustomCosts {
		ongoing += num(it.Amount)
	}

	var cost float64
	var basis string

	switch sc.Pricing.Kind {
	case scenario.PricingPerDispute:
		var price float64
		if sc.Pricing.PerDispute != nil {
			price = num(sc.Pricing.PerDispute.PricePerDispute)
		}
		cost = price * annualVolume
		basis = fmt.Sprintf("$%.2f per dispute x %.0f disputes/yr", price, annualVolume)

	case scenario.PricingSuccessFee:
		var fee float64
		if sc.Pricing.SuccessFee != nil {
			fee = pct(sc.Pricing.SuccessFee.Pct)
		}
		cost = fee * countedSavings
		basis = fmt.Sprintf("%.1f%% success fee on $%.0f counted savings", fee*100, countedSavings)

	case scenario.PricingHybrid:
		var minimum, fee float64
		if sc.Pricing.Hybrid != nil {
			minimum = num(sc.Pricing.Hybrid.MinimumAnnual)
			fee = pct(sc.Pricing.Hybrid.Pct)
		}
		feeAmount := fee * countedSavings
		cost = math.Max(minimum, feeAmount)
		basis = fmt.Sprintf("greater of $%.0f minimum and %.1f%% success fee ($%.0f)",
			minimum, fee*100, feeAmount)

	default:
		var flat float64
		if sc.Pricing.Flat != nil {
			flat = num(sc.Pricing.Flat.AnnualCost)
		}
		cost = flat
		basis = fmt.Sprintf("flat subscription of $%.0f/yr", flat)
	}

	if ongoing != 0 {
		cost += ongoing
		basis += fmt.Sprintf(" + $%.0f ongoing line items", ongoing)
	}
	return cost, basis
}

// suggestPricing derives, for each pricing model, the threshold that would
// hit the caller-supplied target ROI given the scenario's counted savings.
func suggestPricing(sc *scenario.Scenario, targetROI, annualVolume, countedSavings float64) SuggestedPricing {
	var s SuggestedPricing

	if t := num(targetROI); t > 0 {
		s.MaxAnnualCost = countedSavings / t
	}
	s.Flat = s.MaxAnnualCost
	if annualVolume > 0 {
		s.PerDispute = s.MaxAnnualCost / annualVolume
	}
	if countedSavings > 0 {
		s.SuccessFeePct = s.MaxAnnualCost / countedSavings * 100
	}

	var configuredMin float64
	if sc.Pricing.Hybrid != nil {
		configuredMin = num(sc.Pricing.Hybrid.MinimumAnnual)
	}
	s.HybridMinimum = math.Min(s.MaxAnnualCost, configuredMin)

	return s
}

// priceCurve samples ROI at 16 price points from 0.5x to 2.0x of a base
// price in 0.1 steps. The base falls back from the suggested flat price to
// the actual annual cost to a fixed 50000 so the curve always has a
// non-degenerate axis.
func priceCurve(suggestedFlat, annualCost, countedSavings float64) []CurvePoint {
	base := suggestedFlat
	if base == 0 {
		base = annualCost
	}
	if base == 0 {
		base = 50000
	}

	points := make([]CurvePoint, 0, 16)
	for i := 0; i <= 15; i++ {
		mult := float64(5+i) / 10
		price := base * mult
		var r float64
		if price != 0 {
			r = countedSavings / price
		}
		points = append(points, CurvePoint{Multiplier: mult, Price: price, ROI: r})
	}
	return points
}
