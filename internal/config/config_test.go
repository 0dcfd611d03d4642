package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/agit/internal/engine"
	"github.com/danielpatrickdp/agit/internal/scl"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 30*time.Second, cfg.Interval())
}

func TestWriteDefaultThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", DefaultFileName)
	require.NoError(t, WriteDefault(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestWriteDefaultRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, os.WriteFile(path, []byte("repo:\n  path: /src\n"), 0o644))

	require.Error(t, WriteDefault(path, false))
	require.NoError(t, WriteDefault(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ".", cfg.Repo.Path)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)
	body := `
scoring:
  mode: fusion
  commit_threshold: 0.8
scl:
  enabled: true
  locale: ja
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "fusion", cfg.Scoring.Mode)
	assert.InDelta(t, 0.8, cfg.Scoring.CommitThreshold, 1e-12)
	assert.InDelta(t, 0.4, cfg.Scoring.GhostThreshold, 1e-12)
	assert.Equal(t, 5000, cfg.Scoring.SplitBytes)

	ec := cfg.Engine()
	assert.Equal(t, engine.ModeFusion, ec.Mode)
	assert.True(t, ec.SCL)
	assert.Equal(t, scl.Japanese, ec.Locale)
	assert.InDelta(t, 0.8, ec.Gate.CommitThreshold, 1e-12)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("AGIT_SCORING_COMMIT_THRESHOLD", "0.9")
	t.Setenv("AGIT_REPO_AUTO_PUSH", "true")

	cfg, err := Load(filepath.Join(writeEmpty(t), DefaultFileName))
	require.NoError(t, err)

	assert.InDelta(t, 0.9, cfg.Scoring.CommitThreshold, 1e-12)
	assert.True(t, cfg.Repo.AutoPush)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), *cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown mode", func(c *Config) { c.Scoring.Mode = "neural" }},
		{"commit above one", func(c *Config) { c.Scoring.CommitThreshold = 1.5 }},
		{"ghost above commit", func(c *Config) { c.Scoring.GhostThreshold = 0.9 }},
		{"zero split", func(c *Config) { c.Scoring.SplitBytes = 0 }},
		{"zero learning rate", func(c *Config) { c.Scoring.LearningRate = 0 }},
		{"negative tolerance", func(c *Config) { c.Scoring.SumTolerance = -1 }},
		{"zero interval", func(c *Config) { c.Repo.IntervalSeconds = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestResolvePath(t *testing.T) {
	cfg := Default()
	cfg.Repo.Path = "/work/repo"

	assert.Equal(t, filepath.Join("/work/repo", ".git/agit.db"), cfg.ResolvePath(".git/agit.db"))
	assert.Equal(t, "/abs/db", cfg.ResolvePath("/abs/db"))
	assert.Equal(t, "", cfg.ResolvePath(""))
	assert.Equal(t, filepath.Join("/work/repo", ".git/fitness_state.json"), cfg.Engine().StateFile)
}

func writeEmpty(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultFileName), []byte("{}\n"), 0o644))
	return dir
}
