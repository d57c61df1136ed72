package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/creamcroissant/subconv/internal/config"
	"github.com/creamcroissant/subconv/internal/convert"
)

// Build info - injected via ldflags
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

var (
	configPath string
	logLevel   string

	cfg     *config.Config
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:           "subconv",
	Short:         "Convert proxy share links into Clash configuration",
	Long:          `subconv turns vmess://, vless:// and trojan:// share links into a Clash "proxies" document.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, used, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if logLevel != "" {
			loaded.Log.Level = logLevel
		}
		cfg, cfgFile = loaded, used
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ./subconv.yaml or /etc/subconv/subconv.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}

// statusError ends the process with a status-specific exit code.
type statusError struct {
	status convert.Status
}

func (e *statusError) Error() string {
	return e.status.Message()
}

func exitCode(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		switch se.status {
		case convert.StatusEmpty:
			return 2
		case convert.StatusAllFailed:
			return 3
		}
	}
	return 1
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}
