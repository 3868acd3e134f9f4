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
	"os/signal"
	"syscall"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/ipa-archive/internal/colors"
	"github.com/blacktop/ipa-archive/internal/download"
	"github.com/blacktop/ipa-archive/internal/utils"
	"github.com/spf13/cobra"
)

func init() {
	dbCmd.AddCommand(dbAddCmd)
	dbCmd.AddCommand(dbRunCmd)
}

// dbAddCmd represents the db add command
var dbAddCmd = &cobra.Command{
	Use:           "add <ARCHIVE_URL>...",
	Short:         "Queue every ipa of archive.org items",
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: heredoc.Doc(`
		$ ipa-archive db add https://archive.org/details/ios-ipa-collection
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, ix, err := openIndexer()
		if err != nil {
			return err
		}
		defer ix.DB.Close()

		archive := download.NewArchive(newClient(conf))
		for _, u := range args {
			added, total, err := ix.Add(context.Background(), archive, u)
			if err != nil {
				return err
			}
			log.WithField("url", u).Info("Added")
			utils.Indent(log.Info, 2)(colors.Field("new: ") + colors.Title(added) + colors.Field(" of ") + colors.Title(total))
		}
		return nil
	},
}

// dbRunCmd represents the db run command
var dbRunCmd = &cobra.Command{
	Use:           "run [KEY...]",
	Short:         "Download and index pending ipas",
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: heredoc.Doc(`
		# Process the whole queue
		$ ipa-archive db run

		# Re-process specific ipas, overwriting their cached files
		$ ipa-archive db run 17 42
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, ix, err := openIndexer()
		if err != nil {
			return err
		}
		defer ix.DB.Close()

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if len(args) > 0 {
			ids, err := parseKeys(args)
			if err != nil {
				return err
			}
			return ix.Reprocess(ctx, ids)
		}

		processed, err := ix.Run(ctx)
		log.WithField("count", processed).Info("Processed")
		return err
	},
}
