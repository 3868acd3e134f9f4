/*
Copyright © 2025 blacktop

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/blacktop/ipa-archive/internal/config"
	"github.com/blacktop/ipa-archive/internal/db"
	"github.com/blacktop/ipa-archive/internal/indexer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(dbCmd)

	dbCmd.PersistentFlags().String("driver", "", "Database driver (sqlite or postgres)")
	dbCmd.PersistentFlags().String("db-path", "", "Sqlite database path (default <data>/ipa_cache.db)")
	dbCmd.PersistentFlags().String("data", "", "Indexer data directory (default data)")
	dbCmd.PersistentFlags().IntP("workers", "w", 0, "Concurrent ipa downloads (default 8)")
	viper.BindPFlag("database.driver", dbCmd.PersistentFlags().Lookup("driver"))
	viper.BindPFlag("database.path", dbCmd.PersistentFlags().Lookup("db-path"))
	viper.BindPFlag("indexer.data", dbCmd.PersistentFlags().Lookup("data"))
	viper.BindPFlag("indexer.workers", dbCmd.PersistentFlags().Lookup("workers"))
}

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the indexer cache database",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// openIndexer connects the cache database and returns an indexer using it.
// Callers must close ix.DB.
func openIndexer() (*config.Config, *indexer.Indexer, error) {
	conf, err := setup()
	if err != nil {
		return nil, nil, err
	}
	if conf.Database.Driver == "sqlite" {
		if err := os.MkdirAll(filepath.Dir(conf.Database.Path), 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create database directory: %v", err)
		}
	}
	database, err := db.New(&conf.Database)
	if err != nil {
		return nil, nil, err
	}
	if err := database.Connect(); err != nil {
		return nil, nil, err
	}
	ix := indexer.New(database, conf.Indexer.Data, newClient(conf))
	ix.Workers = conf.Indexer.Workers
	if conf.Database.BatchSize > 0 {
		ix.BatchSize = conf.Database.BatchSize
	}
	return conf, ix, nil
}

func parseKeys(args []string) ([]uint, error) {
	ids := make([]uint, 0, len(args))
	for _, arg := range args {
		id, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid key %q: %v", arg, err)
		}
		ids = append(ids, uint(id))
	}
	return ids, nil
}
