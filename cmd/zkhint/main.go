package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	logLevel string
	quiet    bool
)

var rootCmd = &cobra.Command{
	Use:   "zkhint",
	Short: "Hint-execution core for a Cairo-style VM",
	Long: "zkhint compiles and executes VM hints against a relocatable memory,\n" +
		"for debugging hint sessions outside a full run.\n\n" +
		"Use --log-level trace to follow reference resolution step by step.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(sessionLogLevel())
	},
}

// sessionLogLevel picks the effective level from the flags; --quiet wins
// over --log-level so scripted runs only see failures.
func sessionLogLevel() zerolog.Level {
	if quiet {
		return zerolog.ErrorLevel
	}
	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level '%s', using 'info'\n", logLevel)
		return zerolog.InfoLevel
	}
	return level
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace logs each hint step, then debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Only log errors, overriding --log-level")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
