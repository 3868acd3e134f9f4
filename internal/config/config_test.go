package config

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/blacktop/ipa-archive/pkg/search"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
daemon:
  host: 0.0.0.0
  port: 3993
database:
  driver: postgres
  host: db
  port: "5432"
  user: ipa
  name: archive
  batch_size: 50
catalog:
  urls: https://example.org/data/urls.json
  ipas: https://example.org/data/ipa.json
  bundle_match: prefix
plist:
  server: https://plist.example.org/
  cache_size: 16
`

func TestLoadConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	viper.SetConfigType("yaml")
	require.NoError(t, viper.ReadConfig(strings.NewReader(testConfig)))

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0", c.Daemon.Host)
	assert.Equal(t, 3993, c.Daemon.Port)
	assert.Equal(t, "postgres", c.Database.Driver)
	assert.Equal(t, 50, c.Database.BatchSize)
	assert.Equal(t, 30, c.Catalog.PageSize)
	assert.Equal(t, search.MatchPrefix, c.MatchMode())
	assert.Equal(t, 16, c.Plist.CacheSize)
	assert.Equal(t, "https://itunes.apple.com/lookup", c.Plist.Lookup)
	assert.Equal(t, 8, c.Indexer.Workers)
}

func TestVerify(t *testing.T) {
	tests := []struct {
		name    string
		conf    Config
		wantErr bool
		check   func(t *testing.T, c *Config)
	}{
		{
			name: "defaults",
			check: func(t *testing.T, c *Config) {
				assert.True(t, strings.HasSuffix(c.Daemon.Socket, filepath.Join(".config", "ipa-archive", "ipa-archive.sock")))
				assert.Equal(t, "sqlite", c.Database.Driver)
				assert.Equal(t, filepath.Join("data", "ipa_cache.db"), c.Database.Path)
				assert.Equal(t, search.MatchSubstring, c.MatchMode())
			},
		},
		{
			name: "port only",
			conf: Config{Daemon: daemon{Port: 8080}},
			check: func(t *testing.T, c *Config) {
				assert.Equal(t, "localhost", c.Daemon.Host)
			},
		},
		{name: "host and socket", conf: Config{Daemon: daemon{Host: "h", Socket: "s"}}, wantErr: true},
		{name: "host without port", conf: Config{Daemon: daemon{Host: "h"}}, wantErr: true},
		{name: "bad match mode", conf: Config{Catalog: catalog{BundleMatch: "regex"}}, wantErr: true},
		{name: "negative page size", conf: Config{Catalog: catalog{PageSize: -1}}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.conf
			err := c.verify()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, &c)
			}
		})
	}
}
