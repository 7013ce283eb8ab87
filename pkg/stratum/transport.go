package stratum

import (
	"bufio"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

const keepAlivePeriod = 10 * time.Second

// defaultCABundle is the fallback CA bundle path used when
// SSL_CERT_FILE is unset, matching EthStratumClient.cpp's hardcoded
// default.
const defaultCABundle = "/etc/ssl/certs/ca-certificates.crt"

// Transport is the Session's connection to the pool. Go's net.Conn
// interface already satisfies the Design Note's call for a uniform
// read_line/write_all/close surface over both plain and TLS sockets —
// *tls.Conn implements net.Conn, so there is no separate Plain/Secure
// tagged union to maintain or manually delete; Transport simply holds
// whichever net.Conn dial produced.
type Transport struct {
	conn       net.Conn
	reader     *bufio.Reader
	remoteAddr string
}

// dialTransport resolves and connects to spec's host:port, optionally
// establishing a TLS session on top, and returns a ready Transport.
// warn receives zero or more non-fatal diagnostics (e.g. "could not
// load CA bundle") the caller should log.
func dialTransport(ctx context.Context, spec ConnectionSpec, warn func(string)) (*Transport, error) {
	addr := net.JoinHostPort(spec.Host, strconv.Itoa(int(spec.Port)))

	dialer := &net.Dialer{}
	raw, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConnect, addr, err)
	}
	if tcp, ok := raw.(*net.TCPConn); ok {
		_ = tcp.SetKeepAlive(true)
		_ = tcp.SetKeepAlivePeriod(keepAlivePeriod)
	}

	conn := net.Conn(raw)
	if spec.SecureLevel != SecureNone {
		tlsCfg := buildTLSConfig(spec.SecureLevel, spec.Host, warn)
		tlsConn := tls.Client(raw, tlsCfg)
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			raw.Close()
			return nil, fmt.Errorf("%w: %v", ErrHandshake, err)
		}
		conn = tlsConn
	}

	return &Transport{
		conn:       conn,
		reader:     bufio.NewReader(conn),
		remoteAddr: raw.RemoteAddr().String(),
	}, nil
}

// buildTLSConfig resolves the CA bundle from SSL_CERT_FILE or
// defaultCABundle and enables peer verification, matching spec §4.4's
// Handshaking state. A bundle load failure is reported through warn
// (actionable diagnostics, matching the source's multi-line guidance)
// but is not fatal here: the handshake itself will fail cleanly with
// ErrHandshake if verification can't succeed.
func buildTLSConfig(level SecureLevel, serverName string, warn func(string)) *tls.Config {
	cfg := &tls.Config{
		ServerName: serverName,
		MinVersion: tls.VersionTLS12,
	}
	if level == SecureTLS12 {
		cfg.MaxVersion = tls.VersionTLS12
	}

	path := os.Getenv("SSL_CERT_FILE")
	if path == "" {
		path = defaultCABundle
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if warn != nil {
			warn(fmt.Sprintf(
				"failed to load CA certificates from %q: %v; "+
					"set SSL_CERT_FILE or install the ca-certificates package; "+
					"falling back to the system root pool", path, err))
		}
		return cfg
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		if warn != nil {
			warn(fmt.Sprintf("no usable certificates found in %q; falling back to the system root pool", path))
		}
		return cfg
	}
	cfg.RootCAs = pool
	return cfg
}

// ReadLine blocks until a newline-terminated frame arrives, returning
// the line with the trailing newline stripped.
func (t *Transport) ReadLine() (string, error) {
	line, err := t.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRead, err)
	}
	return strings.TrimSuffix(line, "\n"), nil
}

// WriteLine writes line (which must already end in '\n') to the
// transport.
func (t *Transport) WriteLine(line string) error {
	if _, err := t.conn.Write([]byte(line)); err != nil {
		return fmt.Errorf("%w: %v", ErrWrite, err)
	}
	return nil
}

// RemoteAddr reports the remote endpoint's address string.
func (t *Transport) RemoteAddr() string { return t.remoteAddr }

// Close releases the underlying socket. Safe to call more than once.
func (t *Transport) Close() error {
	return t.conn.Close()
}
