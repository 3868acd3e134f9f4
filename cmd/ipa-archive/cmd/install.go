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

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/ipa-archive/internal/colors"
	"github.com/blacktop/ipa-archive/internal/download"
	"github.com/blacktop/ipa-archive/pkg/render"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	rootCmd.AddCommand(installCmd)

	installCmd.Flags().StringP("plist-server", "s", "", "Plist generator url")
	installCmd.Flags().Bool("verify", false, "Check the plist generator before printing the link")
	viper.BindPFlag("plist.server", installCmd.Flags().Lookup("plist-server"))
	viper.BindPFlag("install.verify", installCmd.Flags().Lookup("verify"))
}

// installCmd represents the install command
var installCmd = &cobra.Command{
	Use:           "install <IDX>",
	Short:         "Print the OTA install link of a catalog entry",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: heredoc.Doc(`
		# Open the printed itms-services:// link on the device
		$ ipa-archive install 42 --plist-server https://example.org/plist
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := setup()
		if err != nil {
			return err
		}
		if conf.Plist.Server == "" {
			return fmt.Errorf("you must provide --plist-server (or set plist.server)")
		}
		if conf.Catalog.Images == "" {
			log.Warn("catalog.images is not set, the install dialog will show no icon")
		}
		idx, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid index %q: %v", args[0], err)
		}

		ctx := context.Background()
		if viper.GetBool("install.verify") {
			if err := download.VerifyPlistServer(ctx, newClient(conf), conf.Plist.Server); err != nil {
				return err
			}
		}

		store, err := loadStore(ctx, conf)
		if err != nil {
			return err
		}
		e, err := store.Entry(idx)
		if err != nil {
			return err
		}
		payload, err := render.NewManifest(e, conf.Catalog.Images).Encode()
		if err != nil {
			return err
		}
		printEntry(e, false)
		log.WithField("plist", render.PlistURL(conf.Plist.Server, payload)).Debug("Manifest")
		fmt.Println(colors.URL(render.InstallURL(conf.Plist.Server, payload)))
		return nil
	},
}
