// Package config is used to load the configuration file
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/blacktop/ipa-archive/internal/db"
	"github.com/blacktop/ipa-archive/internal/download"
	"github.com/blacktop/ipa-archive/pkg/paginate"
	"github.com/blacktop/ipa-archive/pkg/search"
	"github.com/spf13/viper"
)

type daemon struct {
	Host   string `json:"host"`
	Port   int    `json:"port"`
	Socket string `json:"socket"`
	Debug  bool   `json:"debug"`
}

type catalog struct {
	URLs        string `json:"urls"`
	IPAs        string `json:"ipas"`
	Images      string `json:"images"`
	PageSize    int    `json:"page_size" mapstructure:"page_size"`
	BundleMatch string `json:"bundle_match" mapstructure:"bundle_match"`
}

type plist struct {
	Server    string `json:"server"`
	Lookup    string `json:"lookup"`
	CacheSize int    `json:"cache_size" mapstructure:"cache_size"`
}

type indexer struct {
	Data    string `json:"data"`
	Workers int    `json:"workers"`
	Proxy   string `json:"proxy"`
}

// Config is the configuration struct
type Config struct {
	Daemon   daemon    `json:"daemon"`
	Database db.Config `json:"database"`
	Catalog  catalog   `json:"catalog"`
	Plist    plist     `json:"plist"`
	Indexer  indexer   `json:"indexer"`
}

func defaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("config: failed to get user home directory: %v", err)
	}
	return filepath.Join(home, ".config", "ipa-archive"), nil
}

// MatchMode returns the configured bundle id match mode.
func (c *Config) MatchMode() search.MatchMode {
	m, _ := search.ParseMatchMode(c.Catalog.BundleMatch)
	return m
}

func (c *Config) verify() error {
	if c.Daemon.Host == "" && c.Daemon.Port == 0 && c.Daemon.Socket == "" {
		dir, err := defaultDir()
		if err != nil {
			return err
		}
		c.Daemon.Socket = filepath.Join(dir, "ipa-archive.sock")
	} else if c.Daemon.Host != "" && c.Daemon.Socket != "" {
		return fmt.Errorf("config: host and socket cannot be set at the same time")
	} else if c.Daemon.Host != "" && c.Daemon.Port == 0 {
		return fmt.Errorf("config: port must be set if host is set")
	} else if c.Daemon.Host == "" && c.Daemon.Port != 0 {
		c.Daemon.Host = "localhost"
	}

	if c.Catalog.PageSize < 0 {
		return fmt.Errorf("config: catalog.page_size must be positive")
	}
	if c.Catalog.PageSize == 0 {
		c.Catalog.PageSize = paginate.DefaultPageSize
	}
	if _, err := search.ParseMatchMode(c.Catalog.BundleMatch); err != nil {
		return fmt.Errorf("config: %v", err)
	}

	if c.Plist.Lookup == "" {
		c.Plist.Lookup = download.DefaultLookupURL
	}
	if c.Plist.CacheSize <= 0 {
		c.Plist.CacheSize = download.DefaultLookupCacheSize
	}

	if c.Database.Driver == "" {
		c.Database.Driver = "sqlite"
	}
	if c.Indexer.Data == "" {
		c.Indexer.Data = "data"
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = filepath.Join(c.Indexer.Data, "ipa_cache.db")
	}
	if c.Indexer.Workers <= 0 {
		c.Indexer.Workers = 8
	}

	return nil
}

// LoadConfig loads the configuration file
func LoadConfig() (*Config, error) {
	var c *Config

	if err := viper.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %v", err)
	}
	if c == nil {
		c = &Config{}
	}

	if err := c.verify(); err != nil {
		return nil, fmt.Errorf("config: failed to verify: %v", err)
	}

	return c, nil
}
