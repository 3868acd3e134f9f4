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
	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	dbCmd.AddCommand(dbExportCmd)

	dbExportCmd.Flags().StringP("output", "o", ".", "Folder to write ipa.json and urls.json to")
	viper.BindPFlag("db.export.output", dbExportCmd.Flags().Lookup("output"))
}

// dbExportCmd represents the db export command
var dbExportCmd = &cobra.Command{
	Use:           "export",
	Short:         "Write the catalog files from the processed ipas",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: heredoc.Doc(`
		$ ipa-archive db export --output site/data
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, ix, err := openIndexer()
		if err != nil {
			return err
		}
		defer ix.DB.Close()

		out := viper.GetString("db.export.output")
		exp, err := ix.Export(out)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{
			"records":   len(exp.Records),
			"base_urls": len(exp.BaseURLs),
			"folder":    out,
		}).Info("Exported catalog")
		return nil
	},
}
