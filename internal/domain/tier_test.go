package domain_test

import (
	"testing"

	"github.com/avigneau/helloasso-bridge/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestFilterTiers(t *testing.T) {
	tiers := []domain.PricingTier{
		{ID: 1, Amount: 30, Name: "Annual membership"},
		{ID: 2, Amount: 10, Name: "Reduced membership"},
		{ID: 3, Amount: 5, Name: "Donation", DonationExtra: true},
		{ID: 4, Amount: 0, Name: "Free tier"},
		{ID: 5, Amount: 15, Name: "Extension", Extension: true},
	}

	t.Run("logged in sees all active payable tiers", func(t *testing.T) {
		got := domain.FilterTiers(tiers, []int{2}, true)
		ids := tierIDs(got)
		assert.Equal(t, []int{1, 3, 5}, ids)
	})

	t.Run("anonymous only sees donation tiers", func(t *testing.T) {
		got := domain.FilterTiers(tiers, nil, false)
		assert.Equal(t, []int{3}, tierIDs(got))
	})

	t.Run("zero amount tiers are never payable", func(t *testing.T) {
		got := domain.FilterTiers(tiers, nil, true)
		assert.NotContains(t, tierIDs(got), 4)
	})
}

func TestPricingTier_MinimumCents(t *testing.T) {
	assert.Equal(t, int64(1000), domain.PricingTier{Amount: 10}.MinimumCents())
	assert.Equal(t, int64(1050), domain.PricingTier{Amount: 10.50}.MinimumCents())
	assert.Equal(t, int64(1999), domain.PricingTier{Amount: 19.99}.MinimumCents())
}

func TestPricingTier_ContainsDonation(t *testing.T) {
	assert.True(t, domain.PricingTier{}.ContainsDonation())
	assert.False(t, domain.PricingTier{Extension: true}.ContainsDonation())
}

func tierIDs(tiers []domain.PricingTier) []int {
	ids := make([]int, len(tiers))
	for i, tier := range tiers {
		ids[i] = tier.ID
	}
	return ids
}
