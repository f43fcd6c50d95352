package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/text/language"

	"github.com/arenacore/arena/internal/config"
	"github.com/arenacore/arena/internal/core/event"
	"github.com/arenacore/arena/internal/data"
	"github.com/arenacore/arena/internal/dispatch"
	"github.com/arenacore/arena/internal/frontend"
	"github.com/arenacore/arena/internal/hud"
	"github.com/arenacore/arena/internal/persist"
	"github.com/arenacore/arena/internal/save"
	"github.com/arenacore/arena/internal/scripting"
	"github.com/arenacore/arena/internal/system"
	"github.com/arenacore/arena/internal/world"
)

// maxFrameStep caps the simulated time of one frame after a stall.
const maxFrameStep = 250 * time.Millisecond

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

type flags struct {
	load   string
	frames int
	save   bool
}

func parseFlags() flags {
	var f flags
	set := flag.NewFlagSet("arena", flag.ExitOnError)
	set.StringVar(&f.load, "load", os.Getenv("ARENA_LOAD"), "save slot to resume, or \"latest\"")
	set.IntVar(&f.frames, "frames", 0, "run this many frames headless and print the result")
	set.BoolVar(&f.save, "save", false, "with -frames, write the final state to the next slot")
	_ = set.Parse(os.Args[1:])
	return f
}

func run() error {
	args := parseFlags()

	// 1. Load config
	cfgPath := "config/arena.toml"
	if p := os.Getenv("ARENA_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 3. Tuning: Lua scripts and entity templates
	engine, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return fmt.Errorf("scripting: %w", err)
	}
	defer engine.Close()

	templates := data.DefaultEntityTable()
	if cfg.Data.EntityList != "" {
		if templates, err = data.LoadEntityTable(cfg.Data.EntityList); err != nil {
			return fmt.Errorf("entity templates: %w", err)
		}
	}
	opts := worldOptions(cfg, templates, engine)
	tuning := system.Tuning{
		FireCooldown:  engine.GetFireCooldown(),
		SpawnInterval: engine.GetSpawnInterval(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 4. Save backend
	repo, closeRepo, err := openRepo(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeRepo()

	g := &game{
		cfg:    cfg,
		opts:   opts,
		tuning: tuning,
		repo:   repo,
		bus:    event.NewBus(),
		pool:   dispatch.NewPool(cfg.Sim.Workers, cfg.Sim.SerialThreshold, log),
		hud:    hud.New(language.English),
		log:    log,
	}

	if args.frames > 0 {
		return g.headless(ctx, args)
	}
	return g.interactive(ctx, args)
}

// worldOptions builds the scene options. The wander range comes from Lua when
// a script defines get_wander_tuning, otherwise from the enemy template, and
// only then from the built-in defaults.
func worldOptions(cfg *config.Config, templates *data.EntityTable, engine *scripting.Engine) world.Options {
	opts := world.Options{
		Width:     cfg.World.Width,
		Height:    cfg.World.Height,
		Seed:      cfg.World.Seed,
		Templates: templates,
	}
	if wt, ok := engine.GetWanderTuning(); ok {
		opts.Wander = &data.WanderTemplate{
			IntervalMin: wt.IntervalMin,
			IntervalMax: wt.IntervalMax,
			SpeedMin:    wt.SpeedMin,
			SpeedMax:    wt.SpeedMax,
		}
	}
	return opts
}

// openRepo returns the configured save backend and its cleanup.
func openRepo(ctx context.Context, cfg *config.Config, log *zap.Logger) (persist.SaveRepo, func(), error) {
	if cfg.Saves.Backend != "postgres" {
		return persist.NewFileRepo(cfg.Saves.Dir, log), func() {}, nil
	}

	dbCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(dbCtx, cfg.Database, log)
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	if err := persist.RunMigrations(dbCtx, db.Pool, log); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	return persist.NewPGSaveRepo(db), db.Close, nil
}

// game owns everything that outlives a single world.State.
type game struct {
	cfg    *config.Config
	opts   world.Options
	tuning system.Tuning
	repo   persist.SaveRepo
	bus    *event.Bus
	pool   *dispatch.Pool
	hud    *hud.HUD
	sim    *system.Simulation
	log    *zap.Logger
}

// newScene builds a fresh scene: the player at the centre plus the
// configured enemies and decorations.
func (g *game) newScene() *world.State {
	ws := world.New(g.opts, g.log)
	ws.Populate(g.cfg.Spawn.Enemies, g.cfg.Spawn.Decorations)
	g.log.Info("new game",
		zap.String("run", ws.RunID.String()),
		zap.Int64("seed", ws.Seed()),
	)
	return ws
}

// loadScene resumes slot name. "latest" picks the highest numbered slot.
// A missing or unreadable save starts a default scene with just the player.
func (g *game) loadScene(ctx context.Context, name string) *world.State {
	if name == "latest" {
		latest, err := persist.Latest(ctx, g.repo)
		if err != nil {
			g.log.Warn("no save to resume", zap.Error(err))
			return g.newScene()
		}
		name = latest
	}
	snap, err := g.repo.Read(ctx, name)
	if err != nil {
		g.log.Warn("save unreadable, starting empty scene", zap.String("name", name), zap.Error(err))
		ws := world.New(g.opts, g.log)
		save.Restore(ws, nil)
		return ws
	}
	ws := save.NewFromSave(snap, g.opts, g.log)
	g.log.Info("save loaded",
		zap.String("name", name),
		zap.Int("entities", len(snap.Entities)),
		zap.String("digest", snap.Digest()),
	)
	return ws
}

func (g *game) start(ctx context.Context, load string, input system.Input) {
	ws := g.newSceneOrLoad(ctx, load)
	g.sim = system.NewSimulation(ws, g.pool, g.bus, input, g.tuning, g.log)
	if g.cfg.Saves.AutosaveInterval > 0 {
		g.sim.EnableAutosave(g.repo, g.cfg.Saves.AutosaveInterval)
	}
}

func (g *game) newSceneOrLoad(ctx context.Context, load string) *world.State {
	if load == "" {
		return g.newScene()
	}
	return g.loadScene(ctx, load)
}

// saveNext writes the current state to the next free slot.
func (g *game) saveNext(ctx context.Context) (string, error) {
	snap := save.Capture(g.sim.State())
	name, err := persist.SaveNext(ctx, g.repo, snap)
	event.Emit(g.bus, event.Saved{Name: name, Err: err})
	return name, err
}

func (g *game) headless(ctx context.Context, args flags) error {
	g.start(ctx, args.load, nil)
	dt := g.cfg.Sim.TickRate
	for i := range args.frames {
		if ctx.Err() != nil {
			g.log.Info("interrupted", zap.Int("frame", i))
			break
		}
		g.sim.Step(dt)
	}
	ws := g.sim.State()
	fmt.Printf("frames=%d score=%d lives=%d entities=%d game_over=%t\n",
		args.frames, ws.Score(), ws.Lives(), ws.ECS.Len(), ws.GameOver())
	if !args.save {
		return nil
	}
	name, err := g.saveNext(ctx)
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	fmt.Println(g.hud.Saved(name, nil))
	return nil
}

func (g *game) interactive(ctx context.Context, args flags) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	defer screen.Fini()
	screen.EnableMouse()
	screen.HideCursor()

	renderer := frontend.NewRenderer(screen)
	g.opts.Width, g.opts.Height = renderer.WorldSize()

	term := frontend.NewTerminal(screen, g.cfg.Frontend.KeyHold)
	term.Listen()

	sound := frontend.NewSound(g.cfg.Frontend.Audio, g.log)
	defer sound.Close()
	sound.Subscribe(g.bus)
	event.Subscribe(g.bus, func(e event.Saved) {
		if e.Auto && e.Err == nil {
			return
		}
		g.hud.Notify(g.hud.Saved(e.Name, e.Err))
	})

	g.start(ctx, args.load, term)

	ticker := time.NewTicker(g.cfg.Sim.TickRate)
	defer ticker.Stop()
	last := time.Now()
	paused := false

	for {
		select {
		case <-ctx.Done():
			g.shutdown()
			return nil
		case now := <-ticker.C:
			dt := min(now.Sub(last), maxFrameStep)
			last = now

			for _, cmd := range term.Frame(now) {
				switch cmd {
				case frontend.CmdQuit:
					g.shutdown()
					return nil
				case frontend.CmdPause:
					paused = !paused && !g.sim.GameOver()
				case frontend.CmdSave:
					if _, err := g.saveNext(ctx); err != nil {
						g.log.Error("save failed", zap.Error(err))
					}
				case frontend.CmdRestart:
					if g.sim.GameOver() {
						g.sim.Load(g.newScene())
						paused = false
					}
				case frontend.CmdResize:
					screen.Sync()
				}
			}

			g.sim.SetWorldSize(renderer.WorldSize())
			if !paused {
				g.sim.Step(dt)
			} else {
				// Saved notices still need delivering while the world is frozen.
				g.bus.SwapBuffers()
				g.bus.DispatchAll()
			}
			g.hud.Tick(dt)

			renderer.Draw(frontend.Frame{
				State: g.sim.State(),
				HUD:   g.hud,
				Status: hud.Status{
					Score:    g.sim.Score(),
					Lives:    g.sim.Lives(),
					GameOver: g.sim.GameOver(),
					Paused:   paused,
				},
				Aim:    g.sim.AimPosition(),
				Aiming: g.sim.IsAiming(),
			})
		}
	}
}

// shutdown flushes the autosave slot before exit.
func (g *game) shutdown() {
	if a := g.sim.Autosave(); a != nil && !g.sim.GameOver() {
		_ = a.SaveNow()
	}
	g.log.Info("arena stopped",
		zap.Int("score", g.sim.Score()),
		zap.Int("lives", g.sim.Lives()),
	)
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
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	// The terminal UI owns stdout; logs go to a file unless none is set.
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
		zapCfg.ErrorOutputPaths = []string{cfg.File}
	}

	return zapCfg.Build()
}
