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
	"net/http"
	"os"
	"time"

	"github.com/apex/log"
	"github.com/blacktop/ipa-archive/internal/colors"
	"github.com/blacktop/ipa-archive/internal/config"
	"github.com/blacktop/ipa-archive/internal/download"
	"github.com/blacktop/ipa-archive/pkg/catalog"
	"github.com/blacktop/ipa-archive/pkg/search"
	"github.com/briandowns/spinner"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

func setup() (*config.Config, error) {
	if Verbose {
		log.SetLevel(log.DebugLevel)
	}
	if viper.GetBool("no-color") {
		noColor := false
		colors.Init(&noColor)
	}
	return config.LoadConfig()
}

func newClient(conf *config.Config) *http.Client {
	return download.NewClient(&download.Config{Proxy: conf.Indexer.Proxy})
}

func loadStore(ctx context.Context, conf *config.Config) (*catalog.Store, error) {
	if conf.Catalog.URLs == "" || conf.Catalog.IPAs == "" {
		return nil, fmt.Errorf("you must provide --urls and --ipas (or set catalog.urls and catalog.ipas)")
	}
	stop := func() {}
	if term.IsTerminal(int(os.Stderr.Fd())) {
		s := spinner.New(spinner.CharSets[38], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
		s.Prefix = color.BlueString("   • Loading catalog... ")
		s.Start()
		stop = s.Stop
	}
	store, err := download.LoadCatalog(ctx, newClient(conf), conf.Catalog.URLs, conf.Catalog.IPAs)
	stop()
	if err != nil {
		return nil, err
	}
	log.WithField("records", store.Len()).Debug("Loaded catalog")
	return store, nil
}

// addFilterFlags adds the search filter flags to cmd and binds them below prefix
func addFilterFlags(cmd *cobra.Command, prefix string) {
	cmd.Flags().StringP("bundle-id", "b", "", "Bundle id filter")
	cmd.Flags().String("min-os", "", "Minimum OS version (e.g. 9.3)")
	cmd.Flags().String("max-os", "", "Maximum OS version (e.g. 12.0)")
	cmd.Flags().StringP("device", "d", "", "Device family (iPhone, iPad, TV, Watch or 1-4)")
	cmd.Flags().Int("min-id", 0, "Smallest record key")
	cmd.Flags().BoolP("unique", "u", false, "Only show the first build of each bundle id")
	cmd.Flags().Bool("prefix", false, "Match the bundle id as a prefix")
	for _, name := range []string{"bundle-id", "min-os", "max-os", "device", "min-id", "unique", "prefix"} {
		viper.BindPFlag(prefix+"."+name, cmd.Flags().Lookup(name))
	}
}

func filterFromFlags(conf *config.Config, prefix, term string) (search.Filter, error) {
	platform, ok := catalog.ParsePlatform(viper.GetString(prefix + ".device"))
	if !ok {
		return search.Filter{}, fmt.Errorf("invalid --device %q", viper.GetString(prefix+".device"))
	}
	mode := conf.MatchMode()
	if viper.GetBool(prefix + ".prefix") {
		mode = search.MatchPrefix
	}
	return search.Filter{
		Term:        term,
		BundleID:    viper.GetString(prefix + ".bundle-id"),
		BundleMatch: mode,
		MinOS:       viper.GetString(prefix + ".min-os"),
		MaxOS:       viper.GetString(prefix + ".max-os"),
		Platform:    platform,
		MinKey:      viper.GetInt(prefix + ".min-id"),
		Unique:      viper.GetBool(prefix + ".unique"),
	}, nil
}

func printEntry(e *catalog.Entry, verbose bool) {
	fmt.Printf("%s %s %s\n", colors.Field(fmt.Sprintf("[%d]", e.Index)), colors.Title(e.DisplayTitle()), e.Version)
	if !verbose {
		return
	}
	fmt.Printf("    %s %s\n", colors.Field("bundle:   "), colors.Bundle(e.BundleID))
	fmt.Printf("    %s %d\n", colors.Field("key:      "), e.Key)
	fmt.Printf("    %s %s\n", colors.Field("min os:   "), catalog.FormatVersion(e.MinOS))
	fmt.Printf("    %s %s\n", colors.Field("platforms:"), colors.Platforms(e.Platforms))
	fmt.Printf("    %s %s\n", colors.Field("size:     "), humanize.Bytes(uint64(max(e.Size, 0))))
	fmt.Printf("    %s %s\n", colors.Field("url:      "), colors.URL(catalog.EscapeURL(e.DownloadURL)))
}
