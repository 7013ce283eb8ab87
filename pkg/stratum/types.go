package stratum

import (
	"fmt"

	"github.com/ddobreff/miner/pkg/ethash"
)

// SecureLevel selects whether and how a Session wraps its transport in
// TLS, matching the scheme table a Pool URI resolves to.
type SecureLevel int

const (
	SecureNone SecureLevel = iota
	SecureTLS
	SecureTLS12
)

func (s SecureLevel) String() string {
	switch s {
	case SecureNone:
		return "none"
	case SecureTLS:
		return "tls"
	case SecureTLS12:
		return "tls12"
	default:
		return fmt.Sprintf("SecureLevel(%d)", int(s))
	}
}

// Dialect selects which of the three JSON wire dialects a Session
// speaks with the pool.
type Dialect int

const (
	DialectStratum Dialect = iota
	DialectEthProxy
	DialectEthereumStratum
)

func (d Dialect) String() string {
	switch d {
	case DialectStratum:
		return "stratum"
	case DialectEthProxy:
		return "ethproxy"
	case DialectEthereumStratum:
		return "ethereumstratum"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// ConnectionSpec is the connection parameter bundle a pool-manager
// collaborator supplies to bootstrap a Session; it is the Go shape of
// spec §3's ConnectionSpec and is what a Pool URI resolves to.
type ConnectionSpec struct {
	Host        string
	Port        uint16
	User        string
	Password    string
	WorkerHint  string
	SecureLevel SecureLevel
	Dialect     Dialect
}

// Work is an immutable snapshot of a mining job pushed by the pool.
type Work struct {
	JobID      ethash.Hash256
	SeedHash   ethash.Hash256
	HeaderHash ethash.Hash256
	Boundary   ethash.Hash256
	StartNonce uint64
	ExSizeBits uint8
	JobLen     uint8
}

// Solution is a candidate share produced by the mining engine and
// handed to the Session for submission.
type Solution struct {
	Nonce   uint64
	Header  ethash.Hash256
	MixHash ethash.Hash256
	Job     Work
	Stale   bool
}

// SessionState is a node in the state machine described in spec §4.4.
type SessionState int

const (
	StateDisconnected SessionState = iota
	StateResolving
	StateConnecting
	StateHandshaking
	StateSubscribing
	StateAuthorizing
	StateActive
	StateStopping
)

func (s SessionState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateResolving:
		return "resolving"
	case StateConnecting:
		return "connecting"
	case StateHandshaking:
		return "handshaking"
	case StateSubscribing:
		return "subscribing"
	case StateAuthorizing:
		return "authorizing"
	case StateActive:
		return "active"
	case StateStopping:
		return "stopping"
	default:
		return fmt.Sprintf("SessionState(%d)", int(s))
	}
}

// SessionCallbacks are the upward notifications a Session owner
// registers before calling Connect. Plain function fields, the
// idiomatic Go equivalent of the source's std::function members and
// consistent with the teacher's preference for struct configuration
// over interface-heavy indirection (stratum/server.go's session type).
type SessionCallbacks struct {
	OnConnected        func(remoteAddr string)
	OnDisconnected     func()
	OnWorkReceived     func(Work)
	OnSolutionAccepted func(stale bool)
	OnSolutionRejected func(stale bool)
}
