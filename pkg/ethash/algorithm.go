package ethash

import (
	"encoding/binary"
	"hash"

	"golang.org/x/crypto/sha3"
)

// Algorithm constants, matching upstream Ethash (the same values the
// teacher's consensus/kawpow/algorithm.go inherits verbatim for cache
// generation before applying KawPow-specific dataset mixing).
const (
	datasetInitBytes   = 1 << 30 // Bytes in dataset at epoch 0
	datasetGrowthBytes = 1 << 23 // Dataset growth per epoch
	cacheInitBytes     = 1 << 24 // Bytes in cache at epoch 0
	cacheGrowthBytes   = 1 << 17 // Cache growth per epoch

	mixBytes     = 128 // Width of mix
	hashBytes    = 64  // Hash length in bytes
	hashWords    = 16  // Number of 32 bit ints in a hash
	datasetParents = 256 // Number of parents of each dataset element
	cacheRounds    = 3   // Number of rounds in cache production
	loopAccesses   = 64  // Number of accesses in hashimoto loop
)

// isPrime reports whether n is prime, by trial division. Cache and
// dataset sizes are chosen to make len/hashBytes (or len/mixBytes)
// prime, the same way upstream Ethash avoids periodicity artifacts.
func isPrime(n uint64) bool {
	if n < 2 {
		return false
	}
	if n%2 == 0 {
		return n == 2
	}
	for d := uint64(3); d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}
	return true
}

// calcCacheSize returns the verification cache size for the given
// epoch, rounded down so that size/hashBytes is prime.
func calcCacheSize(epoch uint64) uint64 {
	size := cacheInitBytes + cacheGrowthBytes*epoch - hashBytes
	for !isPrime(size / hashBytes) {
		size -= 2 * hashBytes
	}
	return size
}

// calcDatasetSize returns the full mining dataset size for the given
// epoch. The light client never allocates a dataset this large; the
// value is only used as the modulus for the hashimoto access loop.
func calcDatasetSize(epoch uint64) uint64 {
	size := datasetInitBytes + datasetGrowthBytes*epoch - mixBytes
	for !isPrime(size / mixBytes) {
		size -= 2 * mixBytes
	}
	return size
}

// hasher hashes data into dest, matching the keccak512/keccak256
// helper shape used throughout the generation and mix routines so a
// single sync.Pool-free hash.Hash can be reused across calls.
type hasher func(dest, data []byte)

func makeHasher(h hash.Hash) hasher {
	return func(dest, data []byte) {
		h.Reset()
		h.Write(data)
		h.Sum(dest[:0])
	}
}

// xorBytes XORs a and b into dest, byte by byte.
func xorBytes(dest, a, b []byte) {
	for i := range dest {
		dest[i] = a[i] ^ b[i]
	}
}

// fnv is the 32-bit Fowler/Noll/Vo hash mix used throughout Ethash;
// note this is a variant (multiply-then-xor) distinct from any
// standard hash/fnv package function.
func fnv(a, b uint32) uint32 {
	return a*0x01000193 ^ b
}

// fnvHash mixes data into mix in place using fnv, word by word.
func fnvHash(mix, data []uint32) {
	for i := range mix {
		mix[i] = fnv(mix[i], data[i])
	}
}

// generateCache produces the epoch's verification cache into dest,
// sized in 32-bit words (len(dest)*4 == calcCacheSize(epoch)). This
// is the unmodified "randmemohash" construction: a sequential
// Keccak-512 chain seeded from the epoch's seed hash, scrambled by a
// handful of low-round passes of pseudo-random XOR-then-hash.
func generateCache(dest []uint32, seed []byte) {
	rows := len(dest) / hashWords
	buf := make([]byte, len(dest)*4)

	keccak512 := makeHasher(sha3.NewLegacyKeccak512())

	keccak512(buf[:hashBytes], seed)
	for offset := hashBytes; offset < len(buf); offset += hashBytes {
		keccak512(buf[offset:offset+hashBytes], buf[offset-hashBytes:offset])
	}

	temp := make([]byte, hashBytes)
	for i := 0; i < cacheRounds; i++ {
		for j := 0; j < rows; j++ {
			srcOff := ((j - 1 + rows) % rows) * hashBytes
			dstOff := j * hashBytes
			xorOff := int(binary.LittleEndian.Uint32(buf[dstOff:])%uint32(rows)) * hashBytes

			xorBytes(temp, buf[srcOff:srcOff+hashBytes], buf[xorOff:xorOff+hashBytes])
			keccak512(buf[dstOff:dstOff+hashBytes], temp)
		}
	}

	for i := range dest {
		dest[i] = binary.LittleEndian.Uint32(buf[i*4:])
	}
}

// generateDatasetItem recomputes a single 64-byte dataset row on
// demand from the light cache, the core trick that lets a verifier
// avoid holding the multi-gigabyte mining dataset.
func generateDatasetItem(cache []uint32, index uint32, keccak512 hasher) []byte {
	rows := uint32(len(cache)) / hashWords

	mix := make([]byte, hashBytes)
	binary.LittleEndian.PutUint32(mix, cache[(index%rows)*hashWords]^index)
	for i := 1; i < hashWords; i++ {
		binary.LittleEndian.PutUint32(mix[i*4:], cache[(index%rows)*hashWords+uint32(i)])
	}
	keccak512(mix, mix)

	intMix := make([]uint32, hashWords)
	for i := range intMix {
		intMix[i] = binary.LittleEndian.Uint32(mix[i*4:])
	}
	for i := uint32(0); i < datasetParents; i++ {
		parent := fnv(index^i, intMix[i%16]) % rows
		fnvHash(intMix, cache[parent*hashWords:parent*hashWords+hashWords])
	}
	for i, val := range intMix {
		binary.LittleEndian.PutUint32(mix[i*4:], val)
	}
	keccak512(mix, mix)
	return mix
}

// hashimoto aggregates data from the full dataset (produced lazily by
// lookup) in fixed steps, producing a verification mix digest and
// final result hash for (hash, nonce).
func hashimoto(hash []byte, nonce uint64, size uint64, lookup func(index uint32) []uint32) (digest, result Hash256) {
	rows := uint32(size / mixBytes)

	seed := make([]byte, 40)
	copy(seed, hash)
	binary.LittleEndian.PutUint64(seed[32:], nonce)

	keccak512 := makeHasher(sha3.NewLegacyKeccak512())
	keccak256 := makeHasher(sha3.NewLegacyKeccak256())

	seedHash := make([]byte, 64)
	keccak512(seedHash, seed)
	seedHead := binary.LittleEndian.Uint32(seedHash)

	mix := make([]uint32, mixBytes/4)
	for i := range mix {
		mix[i] = binary.LittleEndian.Uint32(seedHash[(i%16)*4:])
	}

	temp := make([]uint32, len(mix))
	for i := 0; i < loopAccesses; i++ {
		parent := fnv(uint32(i)^seedHead, mix[i%len(mix)]) % rows
		for j := uint32(0); j < mixBytes/hashBytes; j++ {
			copy(temp[j*hashWords:], lookup(2*parent+j))
		}
		fnvHash(mix, temp)
	}

	for i := 0; i < len(mix); i += 4 {
		mix[i/4] = fnv(fnv(fnv(mix[i], mix[i+1]), mix[i+2]), mix[i+3])
	}
	mix = mix[:len(mix)/4]

	for i, val := range mix {
		binary.LittleEndian.PutUint32(digest[i*4:], val)
	}

	final := make([]byte, len(seedHash)+len(digest))
	copy(final, seedHash)
	copy(final[len(seedHash):], digest[:])
	keccak256(result[:0], final)
	return digest, result
}

// hashimotoLight runs hashimoto with dataset rows regenerated on the
// fly from cache, the routine a stratum session uses to self-check a
// solution before (or instead of) trusting the pool's accept/reject.
func hashimotoLight(datasetSize uint64, cache []uint32, header []byte, nonce uint64) (digest, result Hash256) {
	keccak512 := makeHasher(sha3.NewLegacyKeccak512())
	lookup := func(index uint32) []uint32 {
		raw := generateDatasetItem(cache, index, keccak512)
		out := make([]uint32, len(raw)/4)
		for i := range out {
			out[i] = binary.LittleEndian.Uint32(raw[i*4:])
		}
		return out
	}
	return hashimoto(header, nonce, datasetSize, lookup)
}
