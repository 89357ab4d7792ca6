package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/pkg/profile"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cudagame/cudasim/internal/character"
	"github.com/cudagame/cudasim/internal/component"
	"github.com/cudagame/cudasim/internal/config"
	"github.com/cudagame/cudasim/internal/core/ecs"
	coresys "github.com/cudagame/cudasim/internal/core/system"
	"github.com/cudagame/cudasim/internal/data"
	"github.com/cudagame/cudasim/internal/persist"
	"github.com/cudagame/cudasim/internal/scripting"
	"github.com/cudagame/cudasim/internal/system"
	"github.com/cudagame/cudasim/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Main simulation logic ─────────────────────────────────────────

func run() error {
	// 1. Load config ($CUDASIM_CONFIG overrides the path)
	cfg, err := config.Load("config/cudasim.toml")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	label := fmt.Sprintf("cudasim-%d", cfg.Simulation.StartTime)
	printBanner(label, cfg.Simulation.TickRate)

	// 3. Optional profiling for soak runs
	switch cfg.Profile.Mode {
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath(cfg.Profile.Path), profile.NoShutdownHook).Stop()
	case "mem":
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath(cfg.Profile.Path), profile.NoShutdownHook).Stop()
	}

	// 4. Load tuning
	printSection("Data")
	tuning := character.DefaultTuning()
	if cfg.Character.Tuning != "" {
		tuning, err = data.LoadTuning(cfg.Character.Tuning)
		if err != nil {
			return fmt.Errorf("tuning: %w", err)
		}
		printOK(fmt.Sprintf("tuning loaded from %s", cfg.Character.Tuning))
	}
	printStat("abilities", len(tuning.Abilities))

	// 5. Combat rules (Lua or built-in)
	var rules character.Rules = character.BaseRules{Tuning: tuning}
	var lua *scripting.Engine
	if cfg.Scripting.Enabled {
		lua, err = scripting.NewEngine(cfg.Scripting.Dir, rules, log)
		if err != nil {
			return fmt.Errorf("scripting: %w", err)
		}
		defer lua.Close()
		rules = lua
		printStat("lua scripts", len(lua.Scripts()))
	}
	fmt.Println()

	// 6. Optional run log database
	var runLog *persist.RunLog
	if cfg.Database.Enabled {
		printSection("Database")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			cancel()
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("PostgreSQL connected")

		version, err := db.Migrate(ctx)
		if err != nil {
			cancel()
			return fmt.Errorf("migrations: %w", err)
		}
		printOK(fmt.Sprintf("migrations applied (schema v%d)", version))

		runID, err := persist.NewRunRepo(db).Start(ctx, label, cfg.Simulation.TickRate)
		cancel()
		if err != nil {
			return fmt.Errorf("run log: %w", err)
		}
		runLog = persist.NewRunLog(persist.NewRunRepo(db), runID)
		printStat("run id", runID)
		fmt.Println()
	}

	// 7. World, systems and characters
	ws := world.New(world.Options{
		Tuning:     tuning,
		Rules:      rules,
		DoubleJump: cfg.Character.DoubleJump,
		Log:        log,
	})
	opts := system.Options{
		SpawnPerTick:  cfg.Simulation.SpawnPerTick,
		SpawnLifetime: cfg.Simulation.SpawnLifetime,
		RunLogEvery:   snapshotEvery(cfg.Simulation.TickRate),
	}
	if runLog != nil {
		opts.RunLog = runLog
	}
	systems := system.Install(ws, opts)

	heroes := make([]ecs.EntityID, 0, cfg.Simulation.Characters)
	for i := 0; i < cfg.Simulation.Characters; i++ {
		pos := component.Transform{X: float64(i) * 2}
		heroes = append(heroes, ws.SpawnCharacter(fmt.Sprintf("hero-%d", i+1), pos))
	}
	pilot := newAutopilot(ws, cfg.Simulation.StartTime, heroes)
	ws.Runner.AddFunc(coresys.PriorityInput, "autopilot", pilot.Update)

	// 8. Hot reload of tuning and scripts
	var reload <-chan string
	var reloadErrs <-chan error
	if cfg.Reload.Enabled {
		var files []string
		if cfg.Character.Tuning != "" {
			files = append(files, cfg.Character.Tuning)
		}
		if lua != nil {
			files = append(files, lua.Scripts()...)
		}
		w, err := data.NewWatcher(files...)
		if err != nil {
			return fmt.Errorf("watcher: %w", err)
		}
		defer w.Close()
		reload, reloadErrs = w.Events, w.Errors
	}

	// 9. Start simulation loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()

	printSection("Running")
	printReady(fmt.Sprintf("%d characters, %d systems", len(heroes), ws.Runner.Len()))
	if cfg.Simulation.SpawnPerTick > 0 {
		printReady(fmt.Sprintf("stress: %d entities/tick, lifetime %s", cfg.Simulation.SpawnPerTick, cfg.Simulation.SpawnLifetime))
	}
	fmt.Println()

	tuningPath := absPath(cfg.Character.Tuning)
	for {
		select {
		case <-ticker.C:
			if err := ws.Update(cfg.Simulation.TickRate); err != nil {
				log.Warn("tick failed", zap.Uint64("tick", ws.Tick()), zap.Error(err))
			}
			if cfg.Simulation.MaxTicks > 0 && ws.Tick() >= cfg.Simulation.MaxTicks {
				log.Info("tick limit reached", zap.Uint64("ticks", ws.Tick()))
				return shutdown(ws, systems, runLog, log)
			}
		case path, ok := <-reload:
			if !ok {
				reload = nil
				continue
			}
			if path == tuningPath {
				reloadTuning(ws, lua, path, log)
			} else if lua != nil {
				if err := lua.Reload(); err != nil {
					log.Error("lua reload failed", zap.String("file", path), zap.Error(err))
				}
			}
		case err, ok := <-reloadErrs:
			if !ok {
				reloadErrs = nil
				continue
			}
			log.Warn("file watcher", zap.Error(err))
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			return shutdown(ws, systems, runLog, log)
		}
	}
}

func reloadTuning(ws *world.State, lua *scripting.Engine, path string, log *zap.Logger) {
	t, err := data.LoadTuning(path)
	if err != nil {
		log.Error("tuning reload failed, keeping current tuning", zap.String("file", path), zap.Error(err))
		return
	}
	base := character.BaseRules{Tuning: t}
	if lua != nil {
		lua.SetFallback(base)
		ws.Retune(t, lua)
	} else {
		ws.Retune(t, base)
	}
	log.Info("tuning reloaded", zap.String("file", path), zap.Int("abilities", len(t.Abilities)))
}

// shutdown flushes the run log and prints the final summary.
func shutdown(ws *world.State, systems system.Systems, runLog *persist.RunLog, log *zap.Logger) error {
	var errs error
	if systems.RunLog != nil {
		if err := systems.RunLog.Flush(); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	if runLog != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := runLog.Finish(ctx, ws.Tick()); err != nil {
			errs = multierr.Append(errs, err)
		}
		cancel()
	}

	st := ws.Stats()
	fmt.Println()
	printSection("Summary")
	printStat("ticks", st.Tick)
	printStat("characters alive", fmt.Sprintf("%d/%d", st.Alive, st.Characters))
	printStat("entities spawned", st.Spawned)
	printStat("entities destroyed", st.Destroyed)
	printStat("failed ticks", st.Failures)
	log.Info("simulation stopped", zap.Uint64("ticks", st.Tick), zap.Uint64("failures", st.Failures))
	if errs != nil {
		return fmt.Errorf("shutdown: %w", errs)
	}
	return nil
}

// snapshotEvery converts the one-second snapshot interval to ticks.
func snapshotEvery(tickRate time.Duration) int {
	n := int(time.Second / tickRate)
	if n < 1 {
		return 1
	}
	return n
}

func absPath(p string) string {
	if p == "" {
		return ""
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
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
