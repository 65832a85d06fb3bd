package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sawpanic/titanguardian/internal/clock"
	"github.com/sawpanic/titanguardian/internal/config"
	"github.com/sawpanic/titanguardian/internal/domain/guardian"
)

// replayTick is the on-disk shape of one entry in a replay file.
type replayTick struct {
	Price       float64 `json:"price"`
	BidVolume   float64 `json:"bid_volume"`
	AskVolume   float64 `json:"ask_volume"`
	TimestampMs int64   `json:"timestamp_ms"`
}

func newReplayCmd() *cobra.Command {
	var configPath string
	var latencyMs int

	cmd := &cobra.Command{
		Use:   "replay <ticks.json>",
		Short: "Feed a recorded tick tape through the Guardian and print the resulting signal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(args[0], configPath, latencyMs)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config/guardian.yaml", "path to the guard profile config file")
	cmd.Flags().IntVar(&latencyMs, "latency-ms", 0, "simulated network latency for the final GenerateSignal call")
	return cmd
}

func runReplay(path, configPath string, latencyMs int) error {
	profile, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading tick file: %w", err)
	}

	var ticks []replayTick
	if err := json.Unmarshal(data, &ticks); err != nil {
		return fmt.Errorf("parsing tick file: %w", err)
	}

	g := guardian.New(clock.System{}, profile.Safety)
	for _, t := range ticks {
		g.IngestTick(t.Price, t.BidVolume, t.AskVolume, t.TimestampMs)
	}

	sig := g.GenerateSignal(latencyMs, nil)

	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Printf("replayed %d ticks from %s\n", len(ticks), path)
		fmt.Printf("action=%s confidence=%.2f source=%s can_execute=%v\n", sig.Action, sig.Confidence, sig.Source, sig.CanExecute)
		fmt.Printf("reasoning: %s\n", sig.Reasoning)
		return nil
	}

	return json.NewEncoder(os.Stdout).Encode(sig)
}
