package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

const appName = "titanguardian"

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Deterministic trading decision gate between a neural policy and order execution",
		Long: `titanguardian runs the Math Guardian engine, symbolic arbitration, and
risk invariant rule engine described by this project's signal pipeline: every
proposed trade is scored against bounded market history, reconciled against an
optional neural verdict, checked against a fixed set of risk invariants, and
written to a signed, append-only audit trail before it can execute.`,
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newReplayCmd())
	rootCmd.AddCommand(newKillSwitchCmd())

	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
