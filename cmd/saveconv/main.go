// saveconv inspects save slots and copies them between backends.
//
// Usage:
//
//	go run ./cmd/saveconv <command> [-config path] [flags]
//
// Commands: list, show, copy
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/arenacore/arena/internal/config"
	"github.com/arenacore/arena/internal/persist"
	"github.com/arenacore/arena/internal/save"
)

// summaryYAML is the human-readable view printed by show.
type summaryYAML struct {
	Name     string         `yaml:"name"`
	Version  int            `yaml:"version"`
	Digest   string         `yaml:"digest"`
	Score    int            `yaml:"score"`
	Lives    int            `yaml:"lives"`
	Seed     int64          `yaml:"seed"`
	Timers   timersYAML     `yaml:"timers"`
	Entities map[string]int `yaml:"entities"`
}

type timersYAML struct {
	Spawn float64 `yaml:"spawn"`
	Shot  float64 `yaml:"shot"`
}

func summarize(name string, s *save.State) summaryYAML {
	counts := make(map[string]int)
	for _, e := range s.Entities {
		counts[e.Type]++
	}
	return summaryYAML{
		Name:     name,
		Version:  s.Version,
		Digest:   s.Digest(),
		Score:    s.Score,
		Lives:    s.Lives,
		Seed:     s.Seed,
		Timers:   timersYAML{Spawn: s.Spawn, Shot: s.Shot},
		Entities: counts,
	}
}

func printUsage() {
	fmt.Println("Usage: saveconv <command> [-config path] [flags]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  list                       list numbered slots of a backend")
	fmt.Println("  show -name saveN.json      print a slot summary as YAML")
	fmt.Println("  copy -from file -to postgres [-name saveN.json]")
	fmt.Println("                             copy one slot, or every slot, between backends")
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	cmd := os.Args[1]
	if cmd == "-h" || cmd == "--help" || cmd == "help" {
		printUsage()
		return
	}

	set := flag.NewFlagSet(cmd, flag.ExitOnError)
	cfgPath := set.String("config", "config/arena.toml", "config file")
	backend := set.String("backend", "", "backend for list/show (default: saves.backend)")
	name := set.String("name", "", "slot name")
	from := set.String("from", "file", "copy source backend")
	to := set.String("to", "postgres", "copy target backend")
	_ = set.Parse(os.Args[2:])

	cfg, err := config.Load(*cfgPath)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = config.Default(), nil
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
	if *backend == "" {
		*backend = cfg.Saves.Backend
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	switch cmd {
	case "list":
		err = withRepo(ctx, cfg, *backend, func(r persist.SaveRepo) error { return list(ctx, r) })
	case "show":
		err = withRepo(ctx, cfg, *backend, func(r persist.SaveRepo) error { return show(ctx, r, *name) })
	case "copy":
		err = withRepo(ctx, cfg, *from, func(src persist.SaveRepo) error {
			return withRepo(ctx, cfg, *to, func(dst persist.SaveRepo) error {
				return copySlots(ctx, src, dst, *name)
			})
		})
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", cmd)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

// withRepo opens backend, runs fn, and closes it.
func withRepo(ctx context.Context, cfg *config.Config, backend string, fn func(persist.SaveRepo) error) error {
	log := zap.NewNop()
	switch backend {
	case "file":
		return fn(persist.NewFileRepo(cfg.Saves.Dir, log))
	case "postgres":
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		if err := persist.RunMigrations(ctx, db.Pool, log); err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		return fn(persist.NewPGSaveRepo(db))
	}
	return fmt.Errorf("unknown backend %q", backend)
}

func list(ctx context.Context, r persist.SaveRepo) error {
	names, err := r.List(ctx)
	if err != nil {
		return err
	}
	if len(names) == 0 {
		fmt.Println("no saves")
		return nil
	}
	for _, n := range names {
		fmt.Println(n)
	}
	return nil
}

func show(ctx context.Context, r persist.SaveRepo, name string) error {
	if name == "" {
		latest, err := persist.Latest(ctx, r)
		if err != nil {
			return err
		}
		name = latest
	}
	s, err := r.Read(ctx, name)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(summarize(name, s))
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

// copySlots copies one slot, or every numbered slot when name is empty,
// keeping slot names.
func copySlots(ctx context.Context, src, dst persist.SaveRepo, name string) error {
	names := []string{name}
	if name == "" {
		var err error
		if names, err = src.List(ctx); err != nil {
			return err
		}
	}
	for _, n := range names {
		s, err := src.Read(ctx, n)
		if err != nil {
			return err
		}
		if err := dst.Write(ctx, n, s); err != nil {
			return err
		}
		fmt.Printf("  %s  %s\n", n, s.Digest())
	}
	fmt.Printf("Copied %d save(s)\n", len(names))
	return nil
}
