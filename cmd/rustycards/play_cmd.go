package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TrevorCOConnor/rusty-cards/internal/cli"
	"github.com/TrevorCOConnor/rusty-cards/internal/config"
	"github.com/TrevorCOConnor/rusty-cards/internal/game"
	"github.com/TrevorCOConnor/rusty-cards/internal/journal"
	"github.com/TrevorCOConnor/rusty-cards/internal/metrics"
)

var (
	playGameID  string
	playPlayers []string
	playFirst   string
	playScript  string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game from the terminal",
	Long: `Starts a game between the given players and reads commands from stdin
(or --script). Every player uses the configured hero and deck.

  <hero> play <card> [target]
  <hero> pitch <card>
  <hero> pass
  <hero> block [cards...]
  end`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		in := io.Reader(os.Stdin)
		if playScript != "" {
			f, err := os.Open(playScript)
			if err != nil {
				return fmt.Errorf("open script: %w", err)
			}
			defer f.Close()
			in = f
		}
		return play(ctx, cfg, logger, in, cmd.OutOrStdout())
	},
}

func init() {
	playCmd.Flags().StringVar(&playGameID, "game", "", "game ID (generated when empty)")
	playCmd.Flags().StringSliceVar(&playPlayers, "players", []string{"alice", "bob"}, "player names")
	playCmd.Flags().StringVar(&playFirst, "first", "", "player who takes the first turn (rolled when empty)")
	playCmd.Flags().StringVar(&playScript, "script", "", "read commands from a file instead of stdin")
}

func play(ctx context.Context, cfg *config.Config, logger *zap.Logger, in io.Reader, out io.Writer) error {
	cat, err := loadCatalog(cfg)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	opts := []game.Option{
		game.WithCatalog(cat),
		game.WithDefaults(game.Options{
			StartingHealth:      cfg.Game.StartingHealth,
			Intellect:           cfg.Game.Intellect,
			ActionPointsPerTurn: cfg.Game.ActionPointsPerTurn,
			Seed:                cfg.Game.Seed,
		}),
	}

	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		opts = append(opts, game.WithMetrics(metrics.New(reg)))
		srv := startMetricsServer(cfg.Metrics, reg, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	if cfg.Journal.Enabled {
		store, err := journal.NewStore(cfg.Journal.Path)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer store.Close()
		opts = append(opts, game.WithJournal(store))
		logger.Info("journal enabled", zap.String("path", cfg.Journal.Path))
	}

	if cfg.Replay.Enabled {
		opts = append(opts, game.WithReplayRecorder(game.NewReplayRecorder(logger, cfg.Replay.Dir)))
	}

	engine, err := game.NewEngine(logger, opts...)
	if err != nil {
		return err
	}

	players := make([]game.PlayerSetup, 0, len(playPlayers))
	for _, name := range playPlayers {
		players = append(players, game.PlayerSetup{
			Name: name,
			Hero: cfg.Game.Hero,
			Deck: cfg.Game.Deck,
		})
	}
	view, err := engine.StartGame(playGameID, players, game.Options{FirstPlayer: playFirst})
	if err != nil {
		return fmt.Errorf("start game: %w", err)
	}
	fmt.Fprintf(out, "game %s: %s goes first\n", view.GameID, view.TurnPlayer)

	driver := &cli.Driver{
		Engine: engine,
		GameID: view.GameID,
		In:     in,
		Out:    out,
		Logger: logger,
	}
	runErr := driver.Run(ctx)
	if err := engine.EndGame(view.GameID); err != nil {
		logger.Warn("failed to end game", zap.String("game_id", view.GameID), zap.Error(err))
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}

func startMetricsServer(cfg config.MetricsConfig, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	srv := &http.Server{
		Addr:              cfg.Address,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("starting metrics server", zap.String("address", cfg.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", zap.Error(err))
		}
	}()
	return srv
}
