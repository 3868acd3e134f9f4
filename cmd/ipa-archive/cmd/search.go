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
	"encoding/json"
	"fmt"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/ipa-archive/api/types"
	"github.com/blacktop/ipa-archive/internal/colors"
	"github.com/blacktop/ipa-archive/pkg/catalog"
	"github.com/blacktop/ipa-archive/pkg/paginate"
	"github.com/blacktop/ipa-archive/pkg/search"
	"github.com/blacktop/ipa-archive/pkg/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(searchCmd)

	addFilterFlags(searchCmd, "search")
	searchCmd.Flags().IntP("page", "p", 0, "Result page (starting at 0)")
	searchCmd.Flags().String("state", "", "Filter state fragment (e.g. 'search=tetris&device=1')")
	searchCmd.Flags().Bool("json", false, "Output as JSON")
	searchCmd.Flags().Bool("all", false, "Print every result instead of one page")
	viper.BindPFlag("search.page", searchCmd.Flags().Lookup("page"))
	viper.BindPFlag("search.state", searchCmd.Flags().Lookup("state"))
	viper.BindPFlag("search.json", searchCmd.Flags().Lookup("json"))
	viper.BindPFlag("search.all", searchCmd.Flags().Lookup("all"))
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:           "search [TERM]",
	Aliases:       []string{"s"},
	Short:         "Search the catalog",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: heredoc.Doc(`
		# Search by title, bundle id or file name
		$ ipa-archive search tetris

		# Only iPad apps that run on iOS 4.3 or older
		$ ipa-archive search --device ipad --max-os 4.3

		# Reuse a shared filter state
		$ ipa-archive search --state 'search=tetris&unique=true&page=1'

		# Pipe JSON to jq
		$ ipa-archive search tetris --json --no-color | jq .
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := setup()
		if err != nil {
			return err
		}

		var state search.State
		if fragment := viper.GetString("search.state"); fragment != "" {
			state = search.ParseState(fragment)
			state.Filter.BundleMatch = conf.MatchMode()
		} else {
			var term string
			if len(args) > 0 {
				term = args[0]
			}
			if state.Filter, err = filterFromFlags(conf, "search", term); err != nil {
				return err
			}
			state.Page = viper.GetInt("search.page")
		}

		store, err := loadStore(context.Background(), conf)
		if err != nil {
			return err
		}

		results := search.Evaluate(store, state.Filter)
		size := conf.Catalog.PageSize
		if viper.GetBool("search.all") {
			size = max(len(results), 1)
		}
		state.Page = paginate.Clamp(state.Page, paginate.PageCount(len(results), size))
		page := paginate.Paginate(results, size, state.Page)

		if viper.GetBool("search.json") {
			entries := make([]types.Entry, 0, len(page.Items))
			for _, idx := range page.Items {
				e, err := store.Entry(idx)
				if err != nil {
					return err
				}
				entries = append(entries, types.NewEntry(e))
			}
			out, err := json.MarshalIndent(types.SearchResponse{
				State: state.Encode(),
				Results: paginate.Page[types.Entry]{
					Items:  entries,
					Number: page.Number,
					Count:  page.Count,
					Total:  page.Total,
					Size:   page.Size,
					Prev:   page.Prev,
					Next:   page.Next,
				},
			}, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal results: %v", err)
			}
			fmt.Println(string(out))
			return nil
		}

		log.Infof("Results: %d", page.Total)
		tbl := table.New("Idx", "Title", "Version", "Bundle", "Min OS", "Platforms", "Size")
		tbl.SetColumnAlignment(0, lipgloss.Right)
		tbl.SetColumnAlignment(6, lipgloss.Right)
		for _, idx := range page.Items {
			e, err := store.Entry(idx)
			if err != nil {
				return err
			}
			if Verbose {
				printEntry(e, true)
				continue
			}
			tbl.AppendRow(
				fmt.Sprint(e.Index),
				colors.Title(e.DisplayTitle()),
				e.Version,
				colors.Bundle(e.BundleID),
				catalog.FormatVersion(e.MinOS),
				colors.Platforms(e.Platforms),
				humanize.Bytes(uint64(max(e.Size, 0))),
			)
		}
		if tbl.Len() > 0 {
			fmt.Println(tbl.Render())
		}
		if page.ShowControls() {
			fmt.Println()
			log.WithFields(log.Fields{
				"page":  fmt.Sprintf("%d/%d", page.Number+1, page.Count),
				"state": state.Encode(),
			}).Info(strings.TrimSpace(navigation(page)))
		}
		return nil
	},
}

func navigation(p paginate.Page[int]) string {
	var nav []string
	if p.Prev {
		nav = append(nav, fmt.Sprintf("--page %d for previous", p.Number-1))
	}
	if p.Next {
		nav = append(nav, fmt.Sprintf("--page %d for next", p.Number+1))
	}
	return strings.Join(nav, ", ")
}
