package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/sawpanic/titanguardian/internal/clock"
	"github.com/sawpanic/titanguardian/internal/config"
	"github.com/sawpanic/titanguardian/internal/domain/guardian"
	"github.com/sawpanic/titanguardian/internal/domain/portfolio"
	ihttp "github.com/sawpanic/titanguardian/internal/interfaces/http"
)

func newServeCmd() *cobra.Command {
	var configPath string
	var redisAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP/WebSocket decision-gate surface",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(configPath, redisAddr)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config/guardian.yaml", "path to the guard profile config file")
	cmd.Flags().StringVar(&redisAddr, "redis-addr", "", "Redis address for the portfolio store (defaults to an in-memory store)")
	return cmd
}

func runServe(configPath, redisAddr string) error {
	profile, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var store portfolio.Store
	if redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		store = portfolio.NewRedisStore(client, "titanguardian:positions")
		log.Info().Str("addr", redisAddr).Msg("portfolio store backed by redis")
	} else {
		store = portfolio.NewMemoryStore()
		log.Info().Msg("portfolio store backed by in-process memory")
	}

	g := guardian.New(clock.System{}, profile.Safety)
	reg := prometheus.NewRegistry()

	srv := ihttp.NewServer(g, store, profile.Risk, ihttp.Config{
		Addr:            profile.HTTP.Addr,
		TickIngestRPS:   profile.HTTP.TickIngestRPS,
		TickIngestBurst: profile.HTTP.TickIngestBurst,
	}, log.Logger, reg)

	if term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Printf("titanguardian serving profile %q on %s\n", profile.Name, profile.HTTP.Addr)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return srv.ListenAndServe(ctx)
}
