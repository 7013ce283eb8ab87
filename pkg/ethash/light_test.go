package ethash

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeIsDeterministic(t *testing.T) {
	r := NewResolver()
	v := NewVerifier(r)

	seed := r.SeedHashOf(0)
	header := Hash256{1, 2, 3}

	result1, mix1, err := v.Compute(seed, header, 42)
	require.NoError(t, err)

	result2, mix2, err := v.Compute(seed, header, 42)
	require.NoError(t, err)

	require.Equal(t, result1, result2)
	require.Equal(t, mix1, mix2)
}

func TestComputeDiffersByNonce(t *testing.T) {
	r := NewResolver()
	v := NewVerifier(r)

	seed := r.SeedHashOf(0)
	header := Hash256{9, 9, 9}

	result1, _, err := v.Compute(seed, header, 1)
	require.NoError(t, err)
	result2, _, err := v.Compute(seed, header, 2)
	require.NoError(t, err)

	require.NotEqual(t, result1, result2)
}

func TestEvaluateNeverPanics(t *testing.T) {
	r := NewResolver()
	v := NewVerifier(r)

	var bogusSeed Hash256
	bogusSeed[0] = 0xaa // not on the keccak chain from zero -> EpochOf fails inside Compute

	require.NotPanics(t, func() {
		result, mix := v.Evaluate(bogusSeed, Hash256{1}, 7)
		require.Equal(t, sentinelResult, result)
		require.Equal(t, sentinelMix, mix)
	})
}

func TestEvaluateKnownEpochSucceeds(t *testing.T) {
	r := NewResolver()
	v := NewVerifier(r)
	seed := r.SeedHashOf(0)

	result, _ := v.Evaluate(seed, Hash256{1, 2, 3}, 99)
	require.NotEqual(t, sentinelResult, result)
}

func TestLightForSharesCacheAcrossCalls(t *testing.T) {
	r := NewResolver()
	v := NewVerifier(r)
	seed := r.SeedHashOf(0)

	c1, err := v.LightFor(seed)
	require.NoError(t, err)
	c2, err := v.LightFor(seed)
	require.NoError(t, err)
	require.Same(t, c1, c2)
}
