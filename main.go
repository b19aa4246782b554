package main

import (
	"flag"
	"log/slog"
	"os"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/wishtree/config"
	"github.com/pthm-cable/wishtree/game"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	gestureScript := flag.String("gesture-script", "", "CSV gesture timeline to replay instead of the virtual hand")
	wishEvery := flag.Float64("wish-every", 0, "Submit a wish every N seconds (0 = off)")
	watch := flag.Bool("watch", false, "Reload -config when the file changes")
	mute := flag.Bool("mute", false, "Disable chimes")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	opts := game.Options{
		Seed:           rngSeed,
		LogStats:       *logStats,
		StatsWindowSec: *statsWindow,
		OutputDir:      *outputDir,
		Headless:       *headless,
		ConfigPath:     *configPath,
		Watch:          *watch,
		GestureScript:  *gestureScript,
		WishEvery:      *wishEvery,
		Mute:           *mute,
	}

	if *headless {
		// Headless mode - fixed steps, no raylib window
		g, err := game.NewGameWithOptions(opts)
		if err != nil {
			slog.Error("failed to create scene", "error", err)
			os.Exit(1)
		}
		defer g.Close()

		slog.Info("starting headless run",
			"seed", rngSeed,
			"max_ticks", *maxTicks,
			"wish_every", *wishEvery,
		)

		for {
			g.UpdateHeadless()

			if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
				slog.Info("max ticks reached", "tick", g.Tick(), "active_wishes", g.ActiveWishes())
				return
			}
		}
	}

	// Graphical mode
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Wish Tree")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))

	g, err := game.NewGameWithOptions(opts)
	if err != nil {
		slog.Error("failed to create scene", "error", err)
		return
	}
	defer g.Unload()

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()

		if *maxTicks > 0 && int(g.Tick()) >= *maxTicks {
			break
		}
	}
}
