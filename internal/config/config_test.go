package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "miner.toml")
	contents := `
pool = "stratum+tcp://alice:x@pool.example.com:4444"
submit_hashrate = true
work_timeout_seconds = 60
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	cfg := Default()
	require.NoError(t, Load(path, &cfg))

	require.Equal(t, "stratum+tcp://alice:x@pool.example.com:4444", cfg.Pool)
	require.True(t, cfg.SubmitHashrate)
	require.Equal(t, 60*time.Second, cfg.WorkTimeout())
	require.Equal(t, "ethminer-stratum/1.0.0", cfg.ClientVersion, "unset fields keep their default")
}

func TestValidateRejectsMissingPool(t *testing.T) {
	cfg := Default()
	require.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveTimeout(t *testing.T) {
	cfg := Default()
	cfg.Pool = "stratum+tcp://alice@pool.example.com:4444"
	cfg.WorkTimeoutSeconds = 0
	require.Error(t, cfg.Validate())
}

func TestLoadMissingFileErrors(t *testing.T) {
	cfg := Default()
	require.Error(t, Load("/nonexistent/path/miner.toml", &cfg))
}
