// Package config loads the miner's TOML configuration file and layers
// command-line flag overrides on top of it, the same two-stage
// approach the teacher's cmd/go-quai uses (a config file read at
// startup, cobra/viper flags bound over it) scaled down to the single
// pool connection this client manages.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml"
)

// Config is the full set of startup parameters for a mining session.
// WorkTimeoutSeconds is plain seconds, not a time.Duration: TOML has
// no duration type, and go-toml's decoder has no special case for
// one, so durations are carried as integers (the same convention the
// pack's goPool config uses for its *_duration_seconds fields).
type Config struct {
	Pool               string `toml:"pool"`
	Email              string `toml:"email"`
	SubmitHashrate     bool   `toml:"submit_hashrate"`
	WorkTimeoutSeconds int    `toml:"work_timeout_seconds"`
	AgentVersion       string `toml:"agent_version"`
	ClientVersion      string `toml:"client_version"`
	LogLevel           string `toml:"log_level"`
}

// WorkTimeout converts WorkTimeoutSeconds to a time.Duration for
// SessionConfig.
func (c Config) WorkTimeout() time.Duration {
	return time.Duration(c.WorkTimeoutSeconds) * time.Second
}

// Default returns a Config with fallbacks for every field a config
// file may leave out, so it only needs to name what it wants to
// override. The 150s work timeout is the same one NewSession falls
// back to; the client version and log level defaults exist only here.
func Default() Config {
	return Config{
		WorkTimeoutSeconds: 150,
		ClientVersion:      "ethminer-stratum/1.0.0",
		LogLevel:           "info",
	}
}

// Load reads and parses a TOML config file at path into cfg, which
// the caller should have pre-populated with Default() so unset fields
// in the file keep their defaults.
func Load(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %q: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parsing %q: %w", path, err)
	}
	return nil
}

// Validate reports whether cfg carries enough to attempt a
// connection.
func (c Config) Validate() error {
	if c.Pool == "" {
		return fmt.Errorf("config: no pool URI given (set \"pool\" or pass --pool)")
	}
	if c.WorkTimeoutSeconds <= 0 {
		return fmt.Errorf("config: work_timeout_seconds must be positive, got %d", c.WorkTimeoutSeconds)
	}
	return nil
}
