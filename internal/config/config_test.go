package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte("database:\n  host: localhost\n"))
	require.NoError(t, err)

	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, []string{"A", "HK"}, cfg.Harvest.Markets)
	assert.Equal(t, []string{"688"}, cfg.Harvest.ExcludePrefixes)
	assert.Equal(t, 4, cfg.Harvest.Concurrency)
	assert.Equal(t, 3, cfg.Harvest.Retry.MaxAttempts)
	assert.Equal(t, time.Second, cfg.Harvest.Retry.InitialBackoff)
	assert.Equal(t, 30*time.Second, cfg.Harvest.TaskTimeout)
	assert.Equal(t, 24*time.Hour, cfg.Schedule.Interval)
	assert.Equal(t, OverlapSkip, cfg.Schedule.OverlapPolicy)
	assert.Equal(t, CheckpointPostgres, cfg.Checkpoint.Backend)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParse_CronLeavesIntervalUnset(t *testing.T) {
	cfg, err := Parse([]byte("schedule:\n  cron: \"0 30 18 * * 1-5\"\n"))
	require.NoError(t, err)

	assert.Zero(t, cfg.Schedule.Interval)
	assert.Equal(t, "0 30 18 * * 1-5", cfg.Schedule.Cron)
}

func TestParse_Overrides(t *testing.T) {
	yml := `
harvest:
  markets: [HK]
  exclude_prefixes: []
  concurrency: 8
  task_timeout: 5s
  rate_limit:
    global_rps: 2.5
    per_source:
      detail: 1
  retry:
    max_attempts: 5
    initial_backoff: 200ms
    max_backoff: 3s
schedule:
  interval: 1h
  overlap_policy: queue
checkpoint:
  backend: redis
`
	cfg, err := Parse([]byte(yml))
	require.NoError(t, err)

	assert.Equal(t, []string{"HK"}, cfg.Harvest.Markets)
	assert.Empty(t, cfg.Harvest.ExcludePrefixes)
	assert.Equal(t, 8, cfg.Harvest.Concurrency)
	assert.Equal(t, 5*time.Second, cfg.Harvest.TaskTimeout)
	assert.Equal(t, 2.5, cfg.Harvest.RateLimit.GlobalRPS)
	assert.Equal(t, 1.0, cfg.Harvest.RateLimit.PerSource["detail"])
	assert.Equal(t, 5, cfg.Harvest.Retry.MaxAttempts)
	assert.Equal(t, 200*time.Millisecond, cfg.Harvest.Retry.InitialBackoff)
	assert.Equal(t, time.Hour, cfg.Schedule.Interval)
	assert.Equal(t, OverlapQueue, cfg.Schedule.OverlapPolicy)
	assert.Equal(t, CheckpointRedis, cfg.Checkpoint.Backend)
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"market":   "harvest:\n  markets: [US]\n",
		"policy":   "schedule:\n  overlap_policy: drop\n",
		"backend":  "checkpoint:\n  backend: etcd\n",
		"negative": "harvest:\n  concurrency: -1\n",
		"attempts": "harvest:\n  retry:\n    max_attempts: -1\n",
		"backoff":  "harvest:\n  retry:\n    initial_backoff: 10s\n    max_backoff: 1s\n",
		"bad yaml": "harvest: [",
	}
	for name, yml := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(yml))
			assert.Error(t, err)
		})
	}
}

func TestLoad_ExpandsEnv(t *testing.T) {
	t.Setenv("HARVEST_DB_PASSWORD", "s3cret")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("database:\n  password: ${HARVEST_DB_PASSWORD}\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Contains(t, cfg.Database.DSN(), "password=s3cret")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config file")
}
