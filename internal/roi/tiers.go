package roi

// TierTable maps the three regulatory tiers to their per-day civil penalty
// amounts. It is an explicit input to the calculator so updated compliance
// figures can be supplied through configuration rather than a code change.
type TierTable [3]float64

// DefaultTierTable returns the current inflation-adjusted daily penalty
// amounts for tiers 1 through 3.
func DefaultTierTable() TierTable {
	return TierTable{7217, 36083, 1443275}
}

// DailyAmount returns the per-day penalty for the given tier. Out-of-range
// tiers fall back to tier 1.
func (t TierTable) DailyAmount(tier int) float64 {
	if tier < 1 || tier > len(t) {
		return t[0]
	}
	return t[tier-1]
}
