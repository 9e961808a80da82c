package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/fractallands/simcore/internal/audio"
	"github.com/fractallands/simcore/internal/config"
	"github.com/fractallands/simcore/internal/core/event"
	"github.com/fractallands/simcore/internal/data"
	"github.com/fractallands/simcore/internal/persist"
	"github.com/fractallands/simcore/internal/scripting"
	"github.com/fractallands/simcore/internal/system"
	"github.com/fractallands/simcore/internal/world"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(mapName string) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m           Fractal Lands simcore           \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m        headless map simulation host       \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mStart map:\033[0m %s\n\n", mapName)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Host loop ──────────────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfg, err := config.Load(config.Path())
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Simulation.StartMap)

	// 3. Map storage
	printSection("Storage")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	storage, err := persist.Open(ctx, cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("storage: %w", err)
	}
	defer storage.Close()
	if storage.Driver == "postgres" {
		printOK("PostgreSQL connected")
		printStat("Schema version", int(storage.Schema))
		if cfg.Storage.SeedFromDir {
			printStat("Maps imported", storage.Seeded)
		}
	} else {
		printOK(fmt.Sprintf("Map directory %s", cfg.Storage.MapDir))
	}
	fmt.Println()

	// 4. Data catalogs and rules
	printSection("Data")
	populations, err := data.LoadPopulationTable(cfg.Data.Populations)
	if err != nil {
		return fmt.Errorf("load populations: %w", err)
	}
	printStat("Populated maps", populations.Count())

	destinations, err := data.LoadDestinationTable(cfg.Data.Destinations)
	if err != nil {
		return fmt.Errorf("load destinations: %w", err)
	}
	printStat("Transition destinations", destinations.Count())

	var hits system.HitCalculator = scripting.FixedHits{}
	if cfg.Data.ScriptsDir != "" {
		engine, err := scripting.NewEngine(cfg.Data.ScriptsDir, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer engine.Close()
		hits = engine
		printOK("Lua hit rules loaded")
	}
	fmt.Println()

	// 5. Metrics and audio
	var metrics *system.Metrics
	if cfg.Metrics.Enabled {
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics = system.NewMetrics(reg)
		srv := serveMetrics(cfg.Metrics.BindAddress, reg, log)
		defer srv.Close()
	}

	var speaker system.Speaker = audio.Nop{}
	if cfg.Audio.Enabled {
		mixer := audio.NewMixer(cfg.Audio.SampleRate, cfg.Audio.Volume, log)
		if err := mixer.Start(cfg.Audio.Buffer); err != nil {
			log.Warn("audio disabled", zap.Error(err))
		} else {
			defer mixer.Close()
			speaker = mixer
		}
	}

	// 6. World and simulation
	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	m := world.New(world.Header{}, cfg.Simulation.ParticleCapacity, log)
	sim := system.New(m, system.Options{
		HitRadius:       cfg.Simulation.HitRadius,
		RemovalDuration: cfg.Simulation.RemovalDuration,
		Hits:            hits,
		Store:           storage.Store,
		Populations:     populations,
		Destinations:    destinations,
		Metrics:         metrics,
		Log:             log,
	})
	subscribeLogging(sim.Bus(), log)

	printSection("World")
	if err := sim.Load(ctx, cfg.Simulation.StartMap, rng); err != nil {
		return fmt.Errorf("load start map: %w", err)
	}
	counts := m.Count()
	printStat("Ground objects", counts[world.LayerGround])
	printStat("Map objects", counts[world.LayerObject])
	printStat("Clouds", counts[world.LayerCloud])
	printStat("Mob groups", len(sim.AI().Groups()))
	printStat("Transitions", len(m.Transitions()))
	fmt.Println()

	// 7. Start game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	tickRate := cfg.Simulation.TickRate
	ticker := time.NewTicker(tickRate)
	defer ticker.Stop()

	printSection("Ready")
	if cfg.Metrics.Enabled {
		printReady(fmt.Sprintf("Metrics on http://%s/metrics", cfg.Metrics.BindAddress))
	}
	printReady(fmt.Sprintf("Game loop running (tick: %s, seed: %d)", tickRate, seed))
	fmt.Println()

	// dt is fixed so a seed replays the same run regardless of host jitter
	dt := tickRate.Seconds()
	var elapsed time.Duration
	for {
		select {
		case <-ticker.C:
			sim.Update(dt, rng, speaker)
			elapsed += tickRate
			if cfg.Simulation.Duration > 0 && elapsed >= cfg.Simulation.Duration {
				log.Info("simulated duration reached", zap.Duration("elapsed", elapsed))
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			log.Info("simulation stopped",
				zap.String("map", sim.CurrentMap()),
				zap.Duration("simulated", elapsed))
			return nil
		}
	}
}

func serveMetrics(addr string, reg *prometheus.Registry, log *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server", zap.Error(err))
		}
	}()
	return srv
}

// subscribeLogging reports gameplay events at debug level.
func subscribeLogging(bus *event.Bus, log *zap.Logger) {
	event.Subscribe(bus, func(e event.ProjectileHit) {
		log.Debug("projectile hit",
			zap.Uint64("projectile", uint64(e.Projectile)),
			zap.Uint64("target", uint64(e.Target)),
			zap.Int("damage", e.Damage),
			zap.Int("target_hp", e.TargetHP))
	})
	event.Subscribe(bus, func(e event.MapChanged) {
		log.Debug("map changed", zap.String("from", e.From), zap.String("to", e.To))
	})
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
