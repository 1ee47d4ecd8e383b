package domain

import "math"

// PricingTier is a payable item from the host application's contribution
// type catalog: a membership type or a donation. The catalog owns and
// mutates tiers; the bridge only reads and filters them.
type PricingTier struct {
	ID            int
	Amount        float64 // minimum or fixed amount, major currency units
	Name          string
	DonationExtra bool // tier is a donation, payable without being logged in
	Extension     bool // tier extends an existing membership
}

// MinimumCents returns the tier minimum in minor currency units.
func (t PricingTier) MinimumCents() int64 {
	return int64(math.Round(t.Amount * 100))
}

// ContainsDonation reports whether a checkout for this tier must be
// flagged as containing a donation. Membership extensions are the only
// tiers that never do.
func (t PricingTier) ContainsDonation() bool {
	return !t.Extension
}

// FilterTiers returns the tiers a payer may select: inactive ids and
// non-positive amounts are dropped, and anonymous visitors only see
// donation tiers.
func FilterTiers(tiers []PricingTier, inactive []int, loggedIn bool) []PricingTier {
	inactiveSet := make(map[int]struct{}, len(inactive))
	for _, id := range inactive {
		inactiveSet[id] = struct{}{}
	}

	var out []PricingTier
	for _, t := range tiers {
		if _, ok := inactiveSet[t.ID]; ok || t.Amount <= 0 {
			continue
		}
		if !loggedIn && !t.DonationExtra {
			continue
		}
		out = append(out, t)
	}
	return out
}
