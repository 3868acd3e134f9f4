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
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/ipa-archive/internal/colors"
	"github.com/blacktop/ipa-archive/pkg/catalog"
	"github.com/blacktop/ipa-archive/pkg/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/hashicorp/go-version"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(versionsCmd)
}

type build struct {
	entry   *catalog.Entry
	version *version.Version
}

// sortBuilds orders builds by semantic version, unparsable labels last
func sortBuilds(builds []build) {
	sort.SliceStable(builds, func(i, j int) bool {
		a, b := builds[i].version, builds[j].version
		switch {
		case a == nil && b == nil:
			return builds[i].entry.Version < builds[j].entry.Version
		case a == nil:
			return false
		case b == nil:
			return true
		}
		return a.LessThan(b)
	})
}

// versionsCmd represents the versions command
var versionsCmd = &cobra.Command{
	Use:           "versions <BUNDLE_ID>",
	Short:         "List every archived build of a bundle id",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: heredoc.Doc(`
		$ ipa-archive versions com.headcasegames.180
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := setup()
		if err != nil {
			return err
		}
		store, err := loadStore(context.Background(), conf)
		if err != nil {
			return err
		}

		var builds []build
		store.Each(func(idx int, r catalog.Record) bool {
			if !strings.EqualFold(r.BundleID, args[0]) {
				return true
			}
			e, err := store.Entry(idx)
			if err != nil {
				log.WithError(err).Warnf("skipping record %d", r.Key)
				return true
			}
			b := build{entry: e}
			if v, err := version.NewVersion(r.ShortVersion()); err == nil {
				b.version = v
			}
			builds = append(builds, b)
			return true
		})
		if len(builds) == 0 {
			return fmt.Errorf("no builds found for %s", args[0])
		}
		sortBuilds(builds)

		log.Infof("%s (%d builds)", colors.Bundle(args[0]), len(builds))
		tbl := table.New("Idx", "Version", "Title", "Min OS", "Platforms", "Size")
		tbl.SetColumnAlignment(0, lipgloss.Right)
		tbl.SetColumnAlignment(5, lipgloss.Right)
		for _, b := range builds {
			tbl.AppendRow(
				fmt.Sprint(b.entry.Index),
				b.entry.Version,
				colors.Title(b.entry.DisplayTitle()),
				catalog.FormatVersion(b.entry.MinOS),
				colors.Platforms(b.entry.Platforms),
				humanize.Bytes(uint64(max(b.entry.Size, 0))),
			)
		}
		fmt.Println(tbl.Render())
		return nil
	},
}
