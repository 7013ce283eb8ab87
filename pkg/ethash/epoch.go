package ethash

import "sync"

// EpochLength is the number of blocks sharing one Ethash epoch (cache
// and DAG generation).
const EpochLength = 30000

// MaxEpoch is the hard ceiling on how far the Resolver will walk
// forward from epoch 0 while trying to match an unknown seed hash.
// Chains beyond this range (≈61.44M blocks at EpochLength=30000) must
// have their epoch supplied directly by the caller.
const MaxEpoch = 2048

// Resolver maps Ethash seed hashes to epoch numbers and back. Both
// directions are memoized; a Resolver is safe for concurrent use.
type Resolver struct {
	mu     sync.Mutex
	seeds  []Hash256          // seeds[epoch] == seedHash for that epoch
	epochs map[Hash256]uint64 // reverse lookup, populated lazily
}

// NewResolver returns an empty Resolver. The zero value is also ready
// to use.
func NewResolver() *Resolver {
	return &Resolver{epochs: make(map[Hash256]uint64)}
}

// SeedHashOf returns the seed hash for the epoch containing
// blockNumber, extending the memoized sequence by repeated Keccak-256
// chaining from the last known seed if needed.
func (r *Resolver) SeedHashOf(blockNumber uint64) Hash256 {
	epoch := blockNumber / EpochLength
	r.mu.Lock()
	defer r.mu.Unlock()
	r.extendLocked(epoch)
	return r.seeds[epoch]
}

// extendLocked grows r.seeds so that index epoch is valid, chaining
// keccak256 forward from the last known seed (epoch 0's seed is the
// all-zero hash). Must be called with r.mu held.
func (r *Resolver) extendLocked(epoch uint64) {
	if uint64(len(r.seeds)) > epoch {
		return
	}
	var next Hash256
	start := 0
	if len(r.seeds) > 0 {
		next = r.seeds[len(r.seeds)-1]
		start = len(r.seeds)
	}
	grown := make([]Hash256, epoch+1)
	copy(grown, r.seeds)
	for n := uint64(start); n <= epoch; n++ {
		if n > 0 {
			next = keccak256(next[:])
		}
		grown[n] = next
	}
	r.seeds = grown
}

// EpochOf returns the epoch number for seedHash, walking forward from
// epoch 0 and populating both memoization tables on a cache miss. It
// returns ErrEpochOutOfRange if no match is found within MaxEpoch
// iterations.
func (r *Resolver) EpochOf(seedHash Hash256) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if epoch, ok := r.epochs[seedHash]; ok {
		return epoch, nil
	}
	if r.epochs == nil {
		r.epochs = make(map[Hash256]uint64)
	}

	var cur Hash256 // epoch 0 seed is all-zero
	for epoch := uint64(0); epoch < MaxEpoch; epoch++ {
		if _, known := r.epochs[cur]; !known {
			r.epochs[cur] = epoch
		}
		if cur == seedHash {
			return epoch, nil
		}
		cur = keccak256(cur[:])
	}
	return 0, ErrEpochOutOfRange
}

// BlockNumberOf returns the first block number of the epoch
// identified by seedHash.
func (r *Resolver) BlockNumberOf(seedHash Hash256) (uint64, error) {
	epoch, err := r.EpochOf(seedHash)
	if err != nil {
		return 0, err
	}
	return epoch * EpochLength, nil
}

// Stats reports how many epochs are currently memoized in each
// direction, for status/debug reporting.
func (r *Resolver) Stats() (seedsKnown, epochsKnown int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.seeds), len(r.epochs)
}
