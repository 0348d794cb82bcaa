package main

import (
	"fmt"
	"os"

	"github.com/gookit/color"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/zkhint-dev/zkhint/runner"
)

var (
	dumpPath string
)

var runCmd = &cobra.Command{
	Use:   "run SESSIONFILE",
	Short: "Run a hint session",
	Args:  cobra.MinimumNArgs(1),
	Run:   runCommand,
}

func init() {
	runCmd.Flags().StringVar(&dumpPath, "dump", "", "Write a msgpack memory snapshot to this file after the session")
}

func runCommand(cmd *cobra.Command, args []string) {
	filename := args[0]
	spec, err := runner.LoadSpecFromFile(filename)
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't load session file")
	}
	session, err := spec.BuildSession()
	if err != nil {
		log.Fatal().Err(err).Msg("Couldn't build session")
	}
	fmt.Fprintln(os.Stderr, color.Cyan.Sprint("Running hint session..."))

	if err := session.Run(); err != nil {
		log.Fatal().Err(err).Str("session", session.ID).Msg("Hint session failed")
	}
	log.Info().Str("session", session.ID).Int("segments", session.Machine.Memory.NumSegments()).Msg("Session finished")
	fmt.Fprintln(os.Stderr, color.Green.Sprint("✓ All hints executed"))

	if dumpPath != "" {
		f, err := os.Create(dumpPath)
		if err != nil {
			log.Fatal().Err(err).Msg("Couldn't create dump file")
		}
		defer f.Close()
		if err := session.DumpMemory(f); err != nil {
			log.Fatal().Err(err).Msg("Couldn't write memory snapshot")
		}
	}
}
