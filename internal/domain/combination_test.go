package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridian-travel/itinerary-api/internal/domain"
)

func TestNormalizeCombinationKey_PairIsSymmetric(t *testing.T) {
	t.Parallel()

	ab, err := domain.NormalizeCombinationKey([]domain.DestinationID{"paris", "lyon"})
	require.NoError(t, err)
	ba, err := domain.NormalizeCombinationKey([]domain.DestinationID{"lyon", "paris"})
	require.NoError(t, err)

	assert.Equal(t, ab, ba)
	assert.Equal(t, domain.DestinationID("lyon"), ab.Low)
	assert.Equal(t, domain.DestinationID("paris"), ab.High)
	assert.False(t, ab.IsDiagonal())
}

func TestNormalizeCombinationKey_Diagonal(t *testing.T) {
	t.Parallel()

	k, err := domain.NormalizeCombinationKey([]domain.DestinationID{"paris"})
	require.NoError(t, err)
	assert.True(t, k.IsDiagonal())
	assert.Equal(t, domain.DestinationID("paris"), k.Low)
	assert.Empty(t, k.High)
}

func TestNormalizeCombinationKey_DiagonalNeverEqualsPair(t *testing.T) {
	t.Parallel()

	diag, err := domain.NormalizeCombinationKey([]domain.DestinationID{"paris"})
	require.NoError(t, err)
	pair, err := domain.NormalizeCombinationKey([]domain.DestinationID{"paris", "lyon"})
	require.NoError(t, err)
	assert.NotEqual(t, diag, pair)
}

func TestNormalizeCombinationKey_Invalid(t *testing.T) {
	t.Parallel()

	cases := [][]domain.DestinationID{
		nil,
		{},
		{""},
		{"a", "a"},
		{"a", ""},
		{"a", "b", "c"},
	}
	for _, ids := range cases {
		_, err := domain.NormalizeCombinationKey(ids)
		assert.ErrorIs(t, err, domain.ErrInvalidDestinations, "ids=%v", ids)
	}
}
