package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(Flags{Config: dir})
	require.NoError(t, err)
	assert.Equal(t, DefaultHost, cfg.Host)
	assert.Empty(t, cfg.OrgID)
	assert.Equal(t, dir, cfg.ConfigDir)
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "host: https://selfhosted.example.com\norg_id: org_file\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0600))

	cfg, err := Load(Flags{Config: dir})
	require.NoError(t, err)
	assert.Equal(t, "https://selfhosted.example.com", cfg.Host)
	assert.Equal(t, "org_file", cfg.OrgID)
}

func TestEnvOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "host: https://selfhosted.example.com\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0600))

	t.Setenv(EnvHost, "https://env.example.com")
	t.Setenv(EnvOrgID, "org_env")

	cfg, err := Load(Flags{Config: dir})
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.Host)
	assert.Equal(t, "org_env", cfg.OrgID)
}

func TestFlagsWinOverEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvHost, "https://env.example.com")

	cfg, err := Load(Flags{Config: dir, Host: "https://flag.example.com", OrgID: "org_flag"})
	require.NoError(t, err)
	assert.Equal(t, "https://flag.example.com", cfg.Host)
	assert.Equal(t, "org_flag", cfg.OrgID)
}

func TestConfigDirFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)

	cfg, err := Load(Flags{})
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.ConfigDir)
}

func TestMalformedConfigFileErrors(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("host: [unclosed"), 0600))

	_, err := Load(Flags{Config: dir})
	assert.Error(t, err)
}

func TestCredentialsFromEnv(t *testing.T) {
	t.Setenv(EnvEmail, "a@b.c")
	t.Setenv(EnvPassword, "hunter2")

	cfg, err := Load(Flags{Config: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, "a@b.c", cfg.Email)
	assert.Equal(t, "hunter2", cfg.Password)
}
