// Command userstyles manages a directory of per-site user stylesheets: it
// lists and toggles them, answers which would apply to a given page address,
// and can watch the directory for changes.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/usercss/userstyles/internal/styles/common/log"
	"github.com/usercss/userstyles/internal/styles/config"
	"github.com/usercss/userstyles/internal/styles/gateways/inject"
	"github.com/usercss/userstyles/internal/styles/gateways/watch"
	"github.com/usercss/userstyles/internal/styles/repos/matchcache"
	"github.com/usercss/userstyles/internal/styles/repos/sheets"
	"github.com/usercss/userstyles/internal/styles/repos/state/bolt"
	"github.com/usercss/userstyles/internal/styles/services/matcher"
	"github.com/usercss/userstyles/internal/styles/services/registry"
)

const (
	version = "0.1.0-dev"
	appName = "userstyles"
)

// app bundles one fully wired engine instance for a CLI invocation.
type app struct {
	cfg      *config.AppConfig
	store    *bolt.Store
	registry *registry.Registry
	injector *inject.Memory
}

// buildApp loads configuration, configures logging, and wires the engine.
func buildApp(configPath string) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		return nil, fmt.Errorf("logging configuration error: %w", err)
	}
	store, err := bolt.New(cfg.StateFile)
	if err != nil {
		return nil, err
	}
	cache, err := matchcache.New(cfg.CacheSize)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	injector := inject.NewMemory()
	reg := registry.New(registry.Options{
		Source:   sheets.DirSource{Dir: cfg.StylesDir, Ext: cfg.FileExt},
		State:    store,
		Injector: injector,
		Matcher:  matcher.New(cache),
	})
	return &app{cfg: cfg, store: store, registry: reg, injector: injector}, nil
}

func (a *app) close() {
	a.registry.Close()
	_ = a.store.Close()
}

func main() {
	root := &cli.Command{
		Name:    appName,
		Usage:   "manage per-site user stylesheets",
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "configuration file (yaml, toml, or json)",
			},
		},
		Commands: []*cli.Command{
			listCommand(),
			toggleCommand(),
			matchCommand(),
			reloadCommand(),
			watchCommand(),
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "list discovered stylesheets and their enabled state",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := buildApp(cmd.String("config"))
			if err != nil {
				return err
			}
			defer a.close()
			report := a.registry.Reload()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FILE\tENABLED\tBLOCKS")
			for _, s := range a.registry.Sheets() {
				fmt.Fprintf(w, "%s\t%t\t%d\n", s.FileID, s.Enabled, s.Blocks)
			}
			w.Flush()
			for _, f := range report.Failed {
				fmt.Fprintf(os.Stderr, "skipped %s: %v\n", f.FileID, f.Err)
			}
			return nil
		},
	}
}

func toggleCommand() *cli.Command {
	return &cli.Command{
		Name:      "toggle",
		Usage:     "flip a stylesheet's enabled flag",
		ArgsUsage: "<file>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			fileID := cmd.Args().First()
			if fileID == "" {
				return fmt.Errorf("usage: %s toggle <file>", appName)
			}
			a, err := buildApp(cmd.String("config"))
			if err != nil {
				return err
			}
			defer a.close()
			if report := a.registry.Reload(); len(report.Loaded) == 0 && report.Err() != nil {
				return report.Err()
			}
			enabled, err := a.registry.Toggle(fileID)
			if err != nil {
				return err
			}
			fmt.Printf("%s: enabled=%t\n", fileID, enabled)
			return nil
		},
	}
}

func matchCommand() *cli.Command {
	return &cli.Command{
		Name:      "match",
		Usage:     "show which stylesheets apply to a page address",
		ArgsUsage: "<url>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			uri := cmd.Args().First()
			if uri == "" {
				return fmt.Errorf("usage: %s match <url>", appName)
			}
			a, err := buildApp(cmd.String("config"))
			if err != nil {
				return err
			}
			defer a.close()
			a.registry.Reload()
			a.registry.OnNavigate("cli", uri)
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "FILE\tENABLED\tMATCHED\tACTIVE")
			for _, row := range a.registry.Menu("cli") {
				if row.Matched == 0 {
					continue
				}
				fmt.Fprintf(w, "%s\t%t\t%d/%d\t%d\n", row.FileID, row.Enabled, row.Matched, row.Blocks, row.Active)
			}
			return w.Flush()
		},
	}
}

func reloadCommand() *cli.Command {
	return &cli.Command{
		Name:  "reload",
		Usage: "load every stylesheet once and report failures",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := buildApp(cmd.String("config"))
			if err != nil {
				return err
			}
			defer a.close()
			report := a.registry.Reload()
			fmt.Printf("loaded %d stylesheet(s), %d failure(s)\n", len(report.Loaded), len(report.Failed))
			return report.Err()
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "reload stylesheets whenever the styles directory changes",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			a, err := buildApp(cmd.String("config"))
			if err != nil {
				return err
			}
			defer a.close()
			a.registry.Reload()
			w := watch.New(a.cfg.StylesDir, time.Duration(a.cfg.DebounceMs)*time.Millisecond, func() {
				report := a.registry.Reload()
				if err := report.Err(); err != nil {
					log.Warn(map[string]any{"error": err}, "Reload completed with failures")
				}
			})
			log.Info(map[string]any{"dir": a.cfg.StylesDir}, "Watching stylesheet directory")
			return w.Run(ctx)
		},
	}
}
