package stratum

import "errors"

var (
	ErrConnect          = errors.New("stratum: connect failed")
	ErrHandshake        = errors.New("stratum: TLS handshake failed")
	ErrRead             = errors.New("stratum: transport read failed")
	ErrWrite            = errors.New("stratum: transport write failed")
	ErrParse            = errors.New("stratum: frame parse failed")
	ErrProtocol         = errors.New("stratum: protocol violation")
	ErrAuth             = errors.New("stratum: worker not authorized")
	ErrWorkTimeout      = errors.New("stratum: no work received within timeout")
	ErrResponseTimeout  = errors.New("stratum: no response to submission within timeout")
	ErrNotActive        = errors.New("stratum: session is not active")
	ErrUnknownDialect   = errors.New("stratum: unknown dialect")
	ErrUnknownSecLevel  = errors.New("stratum: unknown secure level")
)
