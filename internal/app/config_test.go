package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	pkgerrors "github.com/haierkeys/obsidian-halo-publisher/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, ".halo-publisher", "config.yaml")
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

const validConfig = `
vault:
  path: ..
halo:
  url: https://blog.example.com
  token: pat_1234567890
  default-tags: [obsidian]
archive:
  enable: true
  folder: ""
storage:
  type: upyun
image:
  cache-ttl: 12h
`

func TestLoadConfig_Defaults(t *testing.T) {
	p := writeConfig(t, validConfig)

	cfg, realpath, err := LoadConfig(p)
	require.NoError(t, err)

	assert.Equal(t, p, realpath)
	assert.Equal(t, "en", cfg.Lang)
	assert.Equal(t, "Archives", cfg.Archive.Folder)
	assert.Equal(t, "obsidian-images", cfg.Storage.CustomPath)
	assert.Equal(t, "https://v0.api.upyun.com", cfg.Storage.APIEndpoint)
	assert.Equal(t, []string{"obsidian"}, cfg.Halo.DefaultTags)
	assert.Equal(t, "warn", cfg.Log.Level)

	assert.Equal(t, filepath.Dir(filepath.Dir(p)), cfg.VaultPath())
	assert.Equal(t, 30*time.Second, cfg.GetHaloTimeout())
	assert.Equal(t, time.Second, cfg.GetSettleDelay())
	assert.Equal(t, 12*time.Hour, cfg.GetImageCacheTTL())

	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_Missing(t *testing.T) {
	_, _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *AppConfig)
		want   []string
	}{
		{
			name:   "missing halo url and token",
			mutate: func(c *AppConfig) { c.Halo.URL = ""; c.Halo.Token = "" },
			want:   []string{"url", "token"},
		},
		{
			name:   "short token",
			mutate: func(c *AppConfig) { c.Halo.Token = "short" },
			want:   []string{"token"},
		},
		{
			name:   "archive folder required when enabled",
			mutate: func(c *AppConfig) { c.Archive.Folder = "" },
			want:   []string{"folder"},
		},
		{
			name:   "unknown language",
			mutate: func(c *AppConfig) { c.Lang = "fr" },
			want:   []string{"lang"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, _, err := LoadConfig(writeConfig(t, validConfig))
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.True(t, pkgerrors.Is(err, pkgerrors.KindConfiguration))
			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}
		})
	}
}

func TestConfig_ValidateChinese(t *testing.T) {
	cfg, _, err := LoadConfig(writeConfig(t, validConfig))
	require.NoError(t, err)
	cfg.Lang = "zh"
	cfg.Halo.URL = ""

	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "必填")
}

func TestNewApp(t *testing.T) {
	p := writeConfig(t, validConfig)
	cfg, _, err := LoadConfig(p)
	require.NoError(t, err)

	a, err := NewApp(cfg, zap.NewNop())
	require.NoError(t, err)

	// upyun without bucket / operator is treated as not configured
	assert.Nil(t, a.Storager)
	assert.False(t, a.ImageService.Enabled())
	assert.Equal(t, cfg.VaultPath(), a.Vault.BasePath())
	assert.Equal(t, "Archives", a.ArchiveService.Folder())
	assert.NotNil(t, a.PublishService)

	b, err := NewApp(cfg, zap.NewNop(), WithPublishCache(a.PublishCache))
	require.NoError(t, err)
	assert.Same(t, a.PublishCache, b.PublishCache)

	_, err = NewApp(nil, zap.NewNop())
	assert.Error(t, err)
}
