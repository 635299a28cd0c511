package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "microsite.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ".", cfg.Root)
	assert.Equal(t, "pages", cfg.PagesDir)
	assert.Equal(t, "public", cfg.PublicDir)
	assert.Equal(t, "dist", cfg.DistDir)
	assert.Equal(t, "global.ts", cfg.GlobalEntry)
	assert.Equal(t, runtime.NumCPU(), cfg.Jobs)
	assert.True(t, cfg.PrettyOutput())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "microsite.yaml")
	content := `
root: site
pages_dir: content
dist_dir: out
global_entry: src/global.ts
jobs: 2
pretty: false
base_title: My Site
log:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("site", "content"), cfg.PagesPath())
	assert.Equal(t, filepath.Join("site", "out"), cfg.DistPath())
	assert.Equal(t, filepath.Join("site", ".microsite", "staging"), cfg.StagingPath())
	assert.Equal(t, 2, cfg.Jobs)
	assert.False(t, cfg.PrettyOutput())
	assert.Equal(t, "My Site", cfg.BaseTitle)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "microsite.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pages_dir: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateRejectsOverlappingDirs(t *testing.T) {
	cfg := &Config{PagesDir: "pages", DistDir: "pages", PublicDir: "public"}
	cfg.Normalize()
	assert.Error(t, cfg.Validate())

	cfg = &Config{DistDir: "."}
	cfg.Normalize()
	assert.Error(t, cfg.Validate())
}

func TestEnvOverridesLogLevel(t *testing.T) {
	t.Setenv("MICROSITE_LOG_LEVEL", "error")
	cfg := &Config{}
	cfg.Normalize()
	assert.Equal(t, "error", cfg.Log.Level)
}

func TestNormalizeLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelWarn, NormalizeLogLevel("WARNING"))
	assert.Equal(t, LogLevelInfo, NormalizeLogLevel("nonsense"))
	assert.Equal(t, LogLevelDebug, NormalizeLogLevel(" debug "))
}

func TestShellPath(t *testing.T) {
	cfg := &Config{Root: "site"}
	cfg.Normalize()
	assert.Equal(t, "", cfg.ShellPath())

	cfg.Shell = "shell.tsx"
	assert.Equal(t, filepath.Join("site", "shell.tsx"), cfg.ShellPath())
}
