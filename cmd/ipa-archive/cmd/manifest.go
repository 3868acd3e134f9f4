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

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/blacktop/ipa-archive/internal/colors"
	"github.com/blacktop/ipa-archive/pkg/render"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(manifestCmd)
	manifestCmd.AddCommand(manifestDecodeCmd)
	manifestCmd.AddCommand(manifestPlistCmd)
}

// manifestCmd represents the manifest command
var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Inspect install manifest payloads",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// manifestDecodeCmd represents the manifest decode command
var manifestDecodeCmd = &cobra.Command{
	Use:           "decode <PAYLOAD>",
	Short:         "Decode a base64 manifest payload",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: heredoc.Doc(`
		# Decode the d= parameter of a plist url
		$ ipa-archive manifest decode eyJ1IjoiaHR0cHM6Ly9leGFtcGxlLm9yZy9BcHAuaXBhIn0
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := setup(); err != nil {
			return err
		}
		m, err := render.DecodeManifest(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("%s %s\n", colors.Field("title:  "), colors.Title(m.Title))
		fmt.Printf("%s %s\n", colors.Field("bundle: "), colors.Bundle(m.BundleID))
		fmt.Printf("%s %s\n", colors.Field("version:"), m.Version)
		fmt.Printf("%s %s\n", colors.Field("url:    "), colors.URL(m.URL))
		fmt.Printf("%s %s\n", colors.Field("image:  "), m.Image)
		return nil
	},
}

// manifestPlistCmd represents the manifest plist command
var manifestPlistCmd = &cobra.Command{
	Use:           "plist <PAYLOAD>",
	Short:         "Generate the install plist for a manifest payload",
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := setup(); err != nil {
			return err
		}
		m, err := render.DecodeManifest(args[0])
		if err != nil {
			return err
		}
		data, err := render.Plist(m)
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	},
}
