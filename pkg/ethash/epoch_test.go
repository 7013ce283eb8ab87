package ethash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSeedHashOfMatchesEpochBoundaries(t *testing.T) {
	r := NewResolver()
	for _, n := range []uint64{0, 1, 29999, 30000, 30001, 59999, 60000, 12345678} {
		seed := r.SeedHashOf(n)
		block, err := r.BlockNumberOf(seed)
		require.NoError(t, err)
		require.LessOrEqual(t, block, n)
		require.Less(t, n, block+EpochLength)
	}
}

func TestSeedHashChainsByKeccak(t *testing.T) {
	r := NewResolver()
	seed0 := r.SeedHashOf(0)
	require.True(t, seed0.IsZero())

	seed1 := r.SeedHashOf(EpochLength)
	require.Equal(t, keccak256(seed0[:]), seed1)

	// Same epoch as n=1 -> identical seed hash as epoch 0.
	require.Equal(t, seed0, r.SeedHashOf(1))
}

func TestEpochOfRoundTrips(t *testing.T) {
	r := NewResolver()
	for epoch := uint64(0); epoch < 5; epoch++ {
		seed := r.SeedHashOf(epoch * EpochLength)
		got, err := r.EpochOf(seed)
		require.NoError(t, err)
		require.Equal(t, epoch, got)
	}
}

func TestEpochOfOutOfRange(t *testing.T) {
	r := NewResolver()
	var bogus Hash256
	bogus[0] = 0xff // never appears in the keccak chain from the zero seed
	_, err := r.EpochOf(bogus)
	require.ErrorIs(t, err, ErrEpochOutOfRange)
}

func TestResolverStats(t *testing.T) {
	r := NewResolver()
	r.SeedHashOf(3 * EpochLength)
	seeds, epochs := r.Stats()
	require.Equal(t, 4, seeds) // epochs 0..3 inclusive
	require.Equal(t, 0, epochs)

	_, err := r.EpochOf(r.SeedHashOf(0))
	require.NoError(t, err)
	_, epochs = r.Stats()
	require.Greater(t, epochs, 0)
}
