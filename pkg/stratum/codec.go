package stratum

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/ddobreff/miner/pkg/ethash"
)

// inboundFrame is the envelope every line off the wire is unmarshalled
// into before id/method dispatch happens in session.go. All three
// dialects share this shape; only the interpretation of Result/Params
// differs per dialect.
type inboundFrame struct {
	ID     *int            `json:"id"`
	Method string          `json:"method"`
	Params json.RawMessage `json:"params"`
	Result json.RawMessage `json:"result"`
	Error  json.RawMessage `json:"error"`
}

// dialectState carries the small bit of protocol state that differs
// by dialect but outlives any single frame: the pool-assigned
// extranonce prefix and, for ETHEREUMSTRATUM, the current share
// difficulty used to derive the boundary for every subsequent job.
// STRATUM and ETHPROXY never touch this; their jobs carry the
// boundary directly.
type dialectState struct {
	difficulty    float64 // ETHEREUMSTRATUM only, default 1
	extraNonceHex string  // raw hex as received, right-padded on use
	startNonce    uint64
	exSizeBits    uint8
}

func newDialectState() *dialectState {
	return &dialectState{difficulty: 1}
}

// dialectCodec is the pure, stateless encode/decode surface for one
// Stratum wire dialect. Implementations live in codec_stratum.go,
// codec_ethproxy.go and codec_ethereumstratum.go. Every frame string
// a codec returns is newline-terminated and ready to write directly
// to the transport.
type dialectCodec interface {
	// Name identifies the dialect for logging.
	Name() string

	// LoginFrame builds the id=1 frame that opens a session: a bare
	// mining.subscribe for STRATUM, a mining.subscribe carrying the
	// agent and protocol version for ETHEREUMSTRATUM, or an
	// eth_submitLogin for ETHPROXY. worker is the ".worker1" suffix
	// split off spec.User for ETHPROXY (empty for the other dialects).
	LoginFrame(spec ConnectionSpec, email, agentVersion string) (frame, worker string)

	// LoginImpliesAuth reports whether a successful id=1 response
	// already authorizes the worker (ETHPROXY), versus requiring a
	// follow-up mining.authorize (STRATUM, ETHEREUMSTRATUM).
	LoginImpliesAuth() bool

	// PostLoginFrame is sent once, immediately after a successful
	// id=1 response: mining.extranonce.subscribe (id=2) for
	// ETHEREUMSTRATUM, the eth_getWork kick (id=5) for ETHPROXY, and
	// nothing for STRATUM.
	PostLoginFrame() string

	// AuthorizeFrame builds the id=3 mining.authorize frame. Never
	// called when LoginImpliesAuth is true.
	AuthorizeFrame(spec ConnectionSpec) string

	// ParseSubscribeResult inspects the id=1 response's "result"
	// field for a dialect-carried extranonce. A no-op for dialects
	// that don't carry one (STRATUM, ETHPROXY).
	ParseSubscribeResult(result json.RawMessage, st *dialectState) error

	// SubmitFrame builds the id=4 solution-submission frame.
	// extraNonceHexLen is the length of the pool-assigned extranonce
	// prefix in hex characters (0 for dialects without one).
	SubmitFrame(spec ConnectionSpec, worker string, sol Solution, extraNonceHexLen int) string

	// HandleMessage interprets one server-initiated message (a
	// mining.notify, or an ETHEREUMSTRATUM mining.set_difficulty /
	// mining.set_extranonce) and reports whether it produced a new
	// Work the owner should be notified about.
	HandleMessage(method string, payload json.RawMessage, st *dialectState, current Work) (work Work, updated bool, err error)
}

func codecFor(d Dialect) (dialectCodec, error) {
	switch d {
	case DialectStratum:
		return stratumCodec{}, nil
	case DialectEthProxy:
		return ethProxyCodec{}, nil
	case DialectEthereumStratum:
		return ethereumStratumCodec{}, nil
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownDialect, d)
	}
}

// validateFrame reports whether line looks like a complete JSON
// object frame: it begins with '{' and ends with '}'. Anything else
// is discarded per spec §4.3 ("a frame is accepted only if...").
func validateFrame(line string) bool {
	line = strings.TrimSpace(line)
	return len(line) >= 2 && line[0] == '{' && line[len(line)-1] == '}'
}

// diffToTarget is a bit-exact port of EthStratumClient.cpp's
// diffToTarget: given a share difficulty, produce the 256-bit
// boundary below which a result hash must fall. diff is clamped to a
// minimum of 0.0001 by the caller before this is invoked.
func diffToTarget(diff float64) ethash.Hash256 {
	var target2 [8]uint32
	k := 6
	for ; k > 0 && diff > 1.0; k-- {
		diff /= 4294967296.0
	}
	// A non-finite quotient (diff == 0 or NaN) has no defined uint64
	// conversion; treat it as m == 0 so it takes the all-ones fallback.
	var m uint64
	if q := 4294901760.0 / diff; !math.IsInf(q, 0) && !math.IsNaN(q) {
		m = uint64(q)
	}

	var out ethash.Hash256
	if m == 0 && k == 6 {
		for i := range out {
			out[i] = 0xff
		}
		return out
	}

	target2[k] = uint32(m)
	target2[k+1] = uint32(m >> 32)

	var le [32]byte
	for i, word := range target2 {
		le[i*4+0] = byte(word)
		le[i*4+1] = byte(word >> 8)
		le[i*4+2] = byte(word >> 16)
		le[i*4+3] = byte(word >> 24)
	}
	for i := 0; i < 32; i++ {
		out[31-i] = le[i]
	}
	return out
}

// processExtranonce derives startNonce and exSizeBits from a raw
// extranonce hex string: right-padded to 16 hex chars, interpreted as
// an 8-byte big-endian value, then byte-swapped, matching
// EthStratumClient.cpp's processExtranonce + ethash_swap_u64 pairing.
func processExtranonce(hex string) (startNonce uint64, exSizeBits uint8, err error) {
	if len(hex) > 16 {
		return 0, 0, fmt.Errorf("%w: extranonce %q longer than 16 hex chars", ErrProtocol, hex)
	}
	exSizeBits = uint8(len(hex) * 4)
	padded := hex + strings.Repeat("0", 16-len(hex))
	h64, err := ethash.HexToHash64(padded)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: extranonce %q: %v", ErrProtocol, hex, err)
	}
	raw := h64.Uint64()
	startNonce = byteSwap64(raw)
	return startNonce, exSizeBits, nil
}

func byteSwap64(v uint64) uint64 {
	var out uint64
	for i := 0; i < 8; i++ {
		out |= ((v >> (uint(i) * 8)) & 0xff) << (uint(7-i) * 8)
	}
	return out
}
