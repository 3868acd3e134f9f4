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

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/apex/log"
	"github.com/blacktop/ipa-archive/internal/model"
	"github.com/blacktop/ipa-archive/internal/utils"
	"github.com/spf13/cobra"
)

func init() {
	dbCmd.AddCommand(dbErrCmd)
	dbErrCmd.AddCommand(dbErrResetCmd)
	dbCmd.AddCommand(dbSetCmd)
	dbSetCmd.AddCommand(dbSetErrCmd)
	dbCmd.AddCommand(dbGetCmd)
	dbGetCmd.AddCommand(dbGetURLCmd)
	dbGetCmd.AddCommand(dbGetImgCmd)
}

// dbErrCmd represents the db err command
var dbErrCmd = &cobra.Command{
	Use:   "err",
	Short: "Manage failed ipas",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// dbErrResetCmd represents the db err reset command
var dbErrResetCmd = &cobra.Command{
	Use:           "reset",
	Short:         "Queue every failed ipa again",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, ix, err := openIndexer()
		if err != nil {
			return err
		}
		defer ix.DB.Close()

		n, err := ix.DB.ResetState(model.Failed)
		if err != nil {
			return err
		}
		log.WithField("count", n).Info("Reset failed ipas to pending")
		return nil
	},
}

// dbSetCmd represents the db set command
var dbSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change the state of ipas",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// dbSetErrCmd represents the db set err command
var dbSetErrCmd = &cobra.Command{
	Use:           "err <KEY>...",
	Short:         "Mark ipas as permanently broken",
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	Example: heredoc.Doc(`
		$ ipa-archive db set err 17 42
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseKeys(args)
		if err != nil {
			return err
		}
		_, ix, err := openIndexer()
		if err != nil {
			return err
		}
		defer ix.DB.Close()

		for _, id := range ids {
			if err := ix.SetPermanentError(id); err != nil {
				return err
			}
			log.WithField("key", id).Info("Marked as permanent error")
		}
		return nil
	},
}

// dbGetCmd represents the db get command
var dbGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Read ipas from the cache database",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// dbGetURLCmd represents the db get url command
var dbGetURLCmd = &cobra.Command{
	Use:           "url <KEY>...",
	Short:         "Print the download url of ipas",
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseKeys(args)
		if err != nil {
			return err
		}
		_, ix, err := openIndexer()
		if err != nil {
			return err
		}
		defer ix.DB.Close()

		for _, id := range ids {
			u, err := ix.URL(id)
			if err != nil {
				return err
			}
			fmt.Println(u)
		}
		return nil
	},
}

// dbGetImgCmd represents the db get img command
var dbGetImgCmd = &cobra.Command{
	Use:           "img <KEY>...",
	Short:         "Download the icons of ipas again",
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ids, err := parseKeys(args)
		if err != nil {
			return err
		}
		_, ix, err := openIndexer()
		if err != nil {
			return err
		}
		defer ix.DB.Close()

		return ix.Images(context.Background(), ids)
	},
}

func init() {
	dbCmd.AddCommand(dbStatusCmd)
}

// dbStatusCmd represents the db status command
var dbStatusCmd = &cobra.Command{
	Use:           "status",
	Short:         "Count ipas per processing state",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, ix, err := openIndexer()
		if err != nil {
			return err
		}
		defer ix.DB.Close()

		for _, state := range []model.DoneState{model.Pending, model.Done, model.Failed, model.PermanentError} {
			n, err := ix.DB.Count(state)
			if err != nil {
				return err
			}
			utils.Indent(log.Info, 2)(fmt.Sprintf("%-16s %d", state.String()+":", n))
		}
		return nil
	},
}
