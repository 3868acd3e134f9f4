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
	"strconv"
	"strings"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/ipa-archive/internal/download"
	"github.com/blacktop/ipa-archive/internal/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(infoCmd)

	infoCmd.Flags().BoolP("lookup", "l", false, "Show App Store metadata")
	viper.BindPFlag("info.lookup", infoCmd.Flags().Lookup("lookup"))
}

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:           "info <IDX>",
	Short:         "Show a catalog entry",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: heredoc.Doc(`
		# Show entry 42
		$ ipa-archive info 42

		# Include the current App Store listing
		$ ipa-archive info 42 --lookup
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := setup()
		if err != nil {
			return err
		}
		idx, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q: %v", args[0], err)
		}

		ctx := context.Background()
		store, err := loadStore(ctx, conf)
		if err != nil {
			return err
		}
		e, err := store.Entry(idx)
		if err != nil {
			return err
		}
		printEntry(e, true)

		if !viper.GetBool("info.lookup") {
			return nil
		}
		lookup, err := download.NewLookup(conf.Plist.Lookup, newClient(conf), conf.Plist.CacheSize)
		if err != nil {
			return err
		}
		app, err := lookup.Get(ctx, e.BundleID)
		if err != nil {
			log.WithError(err).Warn("App Store lookup failed")
			return nil
		}
		if app == nil {
			log.Warn("No iTunes results.")
			return nil
		}
		log.Info("App Store:")
		utils.Indent(log.Info, 2)(fmt.Sprintf("Current version: %s", app.Version))
		utils.Indent(log.Info, 2)(fmt.Sprintf("Price:           %s", app.FormattedPrice))
		utils.Indent(log.Info, 2)(fmt.Sprintf("Rating:          %.1f (%d)", app.Rating, app.RatingCount))
		utils.Indent(log.Info, 2)(fmt.Sprintf("Age rating:      %s", app.ContentAdvisory))
		utils.Indent(log.Info, 2)(fmt.Sprintf("Released:        %s", app.ReleaseDate))
		utils.Indent(log.Info, 2)(fmt.Sprintf("Genres:          %s", strings.Join(app.Genres, ", ")))
		utils.Indent(log.Info, 2)(fmt.Sprintf("URL:             %s", app.TrackViewURL))
		return nil
	},
}
