package domain_test

import (
	"testing"

	"github.com/avigneau/helloasso-bridge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettings_Complete(t *testing.T) {
	s := domain.Settings{
		OrganizationSlug: "my-org",
		ClientID:         "id",
		ClientSecret:     "secret",
	}

	ok, _ := s.Complete()
	assert.True(t, ok)

	s.ClientSecret = ""
	ok, missing := s.Complete()
	assert.False(t, ok)
	assert.Equal(t, "client secret", missing)

	ok, missing = (domain.Settings{}).Complete()
	assert.False(t, ok)
	assert.Equal(t, "organization slug", missing)
}

func TestParseInactiveTierIDs(t *testing.T) {
	ids, err := domain.ParseInactiveTierIDs("1,2, 5")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 5}, ids)

	ids, err = domain.ParseInactiveTierIDs("")
	require.NoError(t, err)
	assert.Nil(t, ids)

	_, err = domain.ParseInactiveTierIDs("1,abc")
	assert.Error(t, err)
}

func TestFormatInactiveTierIDs_RoundTrip(t *testing.T) {
	raw := domain.FormatInactiveTierIDs([]int{3, 7})
	assert.Equal(t, "3,7", raw)

	ids, err := domain.ParseInactiveTierIDs(raw)
	require.NoError(t, err)
	assert.Equal(t, []int{3, 7}, ids)
}

func TestSettings_TierInactive(t *testing.T) {
	s := domain.Settings{InactiveTierIDs: []int{2, 4}}
	assert.True(t, s.TierInactive(2))
	assert.False(t, s.TierInactive(3))
}
