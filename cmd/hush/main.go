package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"hush/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "hush",
	Short: "Bulk diagnostic suppression for multi-language workspaces",
	Long:  `Hush scans a workspace of mixed-language projects for diagnostics and suppresses them in bulk, either in-source or via per-project suppression lists`,
}

// main initializes the CLI: sets the version, registers subcommands and
// persistent flags, and executes the root command. A command error exits
// with status code 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(suppressCmd)
	rootCmd.AddCommand(unsuppressCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("max-diagnostics", 1000, "maximum number of diagnostics to collect")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
