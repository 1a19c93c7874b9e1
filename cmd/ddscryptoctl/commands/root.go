// Package commands implements the ddscryptoctl command tree.
package commands

import (
	"github.com/secdds/ddscrypto/internal/logger"
	"github.com/spf13/cobra"
)

var (
	// Version information injected at build time.
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"

	cfgFile   string
	logLevel  string
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "ddscryptoctl",
	Short: "Inspect and exercise the DDS Security AES-GCM-GMAC crypto core",
	Long: `ddscryptoctl drives the builtin AES-GCM-GMAC crypto key factory and
its wire codecs from the command line: register and unregister
participants/endpoints against an in-process registry, decode or encode
the builtin wire types, and run a metrics/audit-backed registry for
scripted interaction.

Use "ddscryptoctl [command] --help" for more information about a command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Init(logger.Config{Level: logLevel, Format: logFormat, Output: "stderr"})
	},
}

// Execute runs the root command. main() translates the returned error
// into the process exit code convention: 0 success, 1 for a CryptoError,
// 2 for usage errors.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to config file (default: built-in defaults)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "log level (DEBUG|INFO|WARN|ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text|json)")

	rootCmd.AddCommand(registerCmd)
	rootCmd.AddCommand(unregisterCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// ConfigFile returns the --config flag value.
func ConfigFile() string {
	return cfgFile
}
