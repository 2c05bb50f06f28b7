package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/sandbox/config"
	"github.com/pthm-cable/sandbox/game"
	"github.com/pthm-cable/sandbox/terrain"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	realtime := flag.Bool("realtime", false, "Headless: tick at the configured rate instead of as fast as possible")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int64("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	sims := flag.String("sim", "all", "Simulations to run: all, or a comma-separated list of fire, water, wind")
	debug := flag.Bool("debug", false, "Enable debug logging")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	simSet, err := game.ParseSimSet(*sims)
	if err != nil {
		slog.Error("invalid --sim", "error", err)
		os.Exit(1)
	}

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:      rngSeed,
		Sims:      simSet,
		OutputDir: *outputDir,
		LogStats:  *logStats,
	}

	field := terrain.NewNoiseField(cfg.Terrain)
	sb, err := game.NewSandbox(cfg, field, opts)
	if err != nil {
		slog.Error("failed to create sandbox", "error", err)
		os.Exit(1)
	}
	defer func() {
		if err := sb.Close(); err != nil {
			slog.Error("failed to close sandbox", "error", err)
		}
	}()

	if err := sb.Start(); err != nil {
		slog.Error("failed to start sandbox", "error", err)
		return
	}

	if *headless {
		runHeadless(sb, rngSeed, *maxTicks, *realtime)
		return
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Sandbox")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g := game.NewGame(sb, cfg)
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && g.Tick() >= *maxTicks {
			break
		}
	}
}

// runHeadless steps the sandbox without raylib until max ticks or an
// interrupt.
func runHeadless(sb *game.Sandbox, seed, maxTicks int64, realtime bool) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	slog.Info("starting headless simulation",
		"seed", seed,
		"max_ticks", maxTicks,
		"realtime", realtime,
	)

	if realtime {
		if err := sb.Run(ctx, maxTicks); err != nil {
			slog.Error("run failed", "error", err)
		}
		slog.Info("stopped", "tick", sb.Tick())
		return
	}

	for ctx.Err() == nil {
		sb.Step()
		if maxTicks > 0 && sb.Tick() >= maxTicks {
			slog.Info("max ticks reached", "tick", sb.Tick())
			return
		}
	}
	slog.Info("interrupted", "tick", sb.Tick())
}
