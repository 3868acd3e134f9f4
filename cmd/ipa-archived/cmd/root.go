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
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/apex/log"
	clihander "github.com/apex/log/handlers/cli"
	"github.com/blacktop/ipa-archive/internal/config"
	"github.com/blacktop/ipa-archive/internal/daemon"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	// Verbose boolean flag for verbose logging
	Verbose bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "ipa-archived",
	Short:         "ipa-archive daemon",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Verbose {
			log.SetLevel(log.DebugLevel)
		}
		conf, err := config.LoadConfig()
		if err != nil {
			return err
		}
		return run(daemon.NewDaemon(conf))
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func init() {
	log.SetHandler(clihander.Default)
	cobra.OnInitialize(initConfig)
	// Flags
	var defaultConfg string
	switch runtime.GOOS {
	case "darwin":
		if os.Getenv("IPA_ARCHIVE_IN_HOMEBREW") != "" {
			defaultConfg = "/opt/homebrew/etc/ipa-archive/config.yml"
		} else {
			defaultConfg = filepath.Join("$HOME", ".config", "ipa-archive", "config.yml")
		}
	case "windows":
		defaultConfg = filepath.Join("$AppData", "ipa-archive", "config.yml")
	case "linux":
		defaultConfg = "/etc/ipa-archive/config.yml"
	}
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", fmt.Sprintf("config file (default is %s)", defaultConfg))
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "V", false, "verbose output")
	rootCmd.Flags().String("host", "", "Listen host (default localhost when --port is set)")
	rootCmd.Flags().IntP("port", "p", 0, "Listen port")
	rootCmd.Flags().String("socket", "", "Unix socket (default $HOME/.config/ipa-archive/ipa-archive.sock)")
	rootCmd.Flags().Bool("debug", false, "Enable gin debug mode and request logging")
	rootCmd.Flags().String("urls", "", "base url source (path or url of urls.json)")
	rootCmd.Flags().String("ipas", "", "catalog source (path or url of ipa.json)")
	viper.BindPFlag("daemon.host", rootCmd.Flags().Lookup("host"))
	viper.BindPFlag("daemon.port", rootCmd.Flags().Lookup("port"))
	viper.BindPFlag("daemon.socket", rootCmd.Flags().Lookup("socket"))
	viper.BindPFlag("daemon.debug", rootCmd.Flags().Lookup("debug"))
	viper.BindPFlag("catalog.urls", rootCmd.Flags().Lookup("urls"))
	viper.BindPFlag("catalog.ipas", rootCmd.Flags().Lookup("ipas"))
	// Settings
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		switch runtime.GOOS {
		case "darwin":
			viper.AddConfigPath(filepath.Join(home, ".config", "ipa-archive"))
			if os.Getenv("IPA_ARCHIVE_IN_HOMEBREW") != "" {
				viper.AddConfigPath("/opt/homebrew/etc/ipa-archive")
			}
		case "windows":
			dir := os.Getenv("AppData")
			if dir == "" {
				log.Error("init config: %AppData% is not defined")
			}
			viper.AddConfigPath(filepath.Join(dir, "ipa-archive"))
		case "linux":
			viper.AddConfigPath(filepath.Join(home, ".config", "ipa-archive"))
			viper.AddConfigPath(filepath.Join("/etc", "ipa-archive"))
		}
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("ipa_archive")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		log.WithField("config", viper.ConfigFileUsed()).Debug("using config file")
	}
}
