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

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/ipa-archive/pkg/search"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(randomCmd)
	addFilterFlags(randomCmd, "random")
}

// randomCmd represents the random command
var randomCmd = &cobra.Command{
	Use:           "random [TERM]",
	Short:         "Pick a random catalog entry",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: heredoc.Doc(`
		# Any app
		$ ipa-archive random

		# A random iPad game from the current search
		$ ipa-archive random game --device ipad
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := setup()
		if err != nil {
			return err
		}
		var term string
		if len(args) > 0 {
			term = args[0]
		}
		filter, err := filterFromFlags(conf, "random", term)
		if err != nil {
			return err
		}

		store, err := loadStore(context.Background(), conf)
		if err != nil {
			return err
		}

		var results search.Results
		if !filter.IsZero() {
			if results = search.Evaluate(store, filter); len(results) == 0 {
				log.Warn("No results for the filter, picking from the whole catalog")
			}
		}
		idx, err := search.Random(store, results, nil)
		if err != nil {
			return err
		}
		e, err := store.Entry(idx)
		if err != nil {
			return err
		}
		printEntry(e, true)
		return nil
	},
}
