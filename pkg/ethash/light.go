package ethash

import (
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// maxCachedEpochs bounds how many verification caches stay resident at
// once. A stratum session only ever needs the current epoch plus the
// one ahead of it (mirroring the teacher's lru helper in
// consensus/kawpow/kawpow.go, which always keeps a "future item" hot).
// The table is an LRU: once a fourth epoch is requested, the least
// recently used epoch's cache is dropped and is regenerated from
// scratch if that epoch is requested again.
const maxCachedEpochs = 3

// LightCache is the small (~16 MiB at mainnet epoch range) Ethash
// verification cache for one epoch. It is generated lazily, once, the
// first time it's needed.
type LightCache struct {
	epoch       uint64
	datasetSize uint64

	once  sync.Once
	cache []uint32
	err   error
}

func newLightCache(epoch uint64) *LightCache {
	return &LightCache{epoch: epoch, datasetSize: calcDatasetSize(epoch)}
}

// generate builds the cache on first use; safe for concurrent callers,
// all of whom block on the same generation.
func (c *LightCache) generate(seed []byte) error {
	c.once.Do(func() {
		defer func() {
			if r := recover(); r != nil {
				c.err = fmt.Errorf("%w: panic generating cache for epoch %d: %v", ErrVerify, c.epoch, r)
			}
		}()
		size := calcCacheSize(c.epoch)
		dest := make([]uint32, size/4)
		generateCache(dest, seed)
		c.cache = dest
	})
	return c.err
}

// compute runs hashimotoLight against this epoch's cache.
func (c *LightCache) compute(header []byte, nonce uint64) (result, mixHash Hash256) {
	digest, res := hashimotoLight(c.datasetSize, c.cache, header, nonce)
	return res, digest
}

// Verifier lazily allocates and caches per-epoch light caches, and
// computes (result, mixHash) for a (seed, header, nonce) triple on
// behalf of a mining engine that wants to self-check a share before
// trusting the pool's accept/reject.
type Verifier struct {
	resolver *Resolver
	caches   *lru.Cache[uint64, *LightCache]
}

// NewVerifier returns a Verifier backed by resolver for seed<->epoch
// lookups.
func NewVerifier(resolver *Resolver) *Verifier {
	caches, _ := lru.New[uint64, *LightCache](maxCachedEpochs)
	return &Verifier{resolver: resolver, caches: caches}
}

// LightFor returns the (possibly not-yet-generated) cache handle for
// seedHash's epoch, allocating an entry on first request.
func (v *Verifier) LightFor(seedHash Hash256) (*LightCache, error) {
	epoch, err := v.resolver.EpochOf(seedHash)
	if err != nil {
		return nil, err
	}
	if c, ok := v.caches.Get(epoch); ok {
		return c, nil
	}
	c := newLightCache(epoch)
	if prev, ok, _ := v.caches.PeekOrAdd(epoch, c); ok {
		return prev, nil
	}
	return c, nil
}

// Compute returns (result, mixHash) for (headerHash, nonce) against
// seedHash's epoch. It returns the Resolver's ErrEpochOutOfRange if
// seedHash matches no epoch, and an error wrapping ErrVerify if cache
// generation panicked.
func (v *Verifier) Compute(seedHash, headerHash Hash256, nonce uint64) (result, mixHash Hash256, err error) {
	cache, err := v.LightFor(seedHash)
	if err != nil {
		return Hash256{}, Hash256{}, err
	}
	if err := cache.generate(seedHash.Bytes()); err != nil {
		return Hash256{}, Hash256{}, err
	}
	result, mixHash = cache.compute(headerHash.Bytes(), nonce)
	return result, mixHash, nil
}

// sentinelResult and sentinelMix are the infallible Evaluate contract:
// "definitely not a valid share" — an all-ones result can never be
// <= a real boundary, so callers treating it as invalid never produce
// a false accept.
var (
	sentinelResult = func() Hash256 {
		var h Hash256
		for i := range h {
			h[i] = 0xff
		}
		return h
	}()
	sentinelMix = Hash256{}
)

// Evaluate is the noexcept counterpart to Compute used on the hot
// miner path: any internal failure is swallowed and reported as the
// sentinel (all-ones result, zero mix), which can never satisfy a
// boundary check.
func (v *Verifier) Evaluate(seedHash, headerHash Hash256, nonce uint64) (result, mixHash Hash256) {
	defer func() {
		if recover() != nil {
			result, mixHash = sentinelResult, sentinelMix
		}
	}()
	result, mixHash, err := v.Compute(seedHash, headerHash, nonce)
	if err != nil {
		return sentinelResult, sentinelMix
	}
	return result, mixHash
}
