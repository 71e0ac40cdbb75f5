package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/urfave/cli/v3"

	"github.com/ethiapath/djmusicorganizer/config"
	"github.com/ethiapath/djmusicorganizer/internal/batch"
	"github.com/ethiapath/djmusicorganizer/internal/engine"
	"github.com/ethiapath/djmusicorganizer/internal/library"
	"github.com/ethiapath/djmusicorganizer/internal/server"
	"github.com/ethiapath/djmusicorganizer/internal/watch"
)

func main() {
	cmd := &cli.Command{
		Name:  "djconvert",
		Usage: "Convert DJ library files between Traktor NML and rekordbox XML",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file",
				Sources: cli.EnvVars("DJCONVERT_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			convertCommand(),
			batchCommand(),
			watchCommand(),
			serveCommand(),
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func loadConfig(cmd *cli.Command) (*config.Config, error) {
	path := cmd.String("config")
	if path == "" {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func setupLogging(cfg *config.Config) {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(cfg.LogLevel),
	})
	slog.SetDefault(slog.New(handler))
}

func convertCommand() *cli.Command {
	return &cli.Command{
		Name:  "convert",
		Usage: "Convert a single library file",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "input", Aliases: []string{"i"}, Usage: "Input document path", Required: true},
			&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output document path", Required: true},
			&cli.StringFlag{Name: "from", Usage: "Source schema (traktor, rekordbox)", Required: true},
			&cli.StringFlag{Name: "to", Usage: "Target schema (traktor, rekordbox)", Required: true},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cfg)

			source, err := engine.ParseSchema(cmd.String("from"))
			if err != nil {
				return err
			}
			target, err := engine.ParseSchema(cmd.String("to"))
			if err != nil {
				return err
			}

			doc, err := os.ReadFile(cmd.String("input"))
			if err != nil {
				return err
			}
			out, warnings, err := engine.Convert(doc, source, target)
			if err != nil {
				return err
			}
			if err := os.WriteFile(cmd.String("output"), out, 0644); err != nil {
				return err
			}

			printWarnings(warnings)
			return nil
		},
	}
}

func batchCommand() *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "Convert several library files concurrently",
		ArgsUsage: "FILE...",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "output-dir", Aliases: []string{"d"}, Usage: "Directory for converted documents", Value: "output"},
			&cli.IntFlag{Name: "workers", Aliases: []string{"w"}, Usage: "Maximum concurrent conversions"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cfg)

			paths := cmd.Args().Slice()
			if len(paths) == 0 {
				return fmt.Errorf("no input files given")
			}
			outputDir := cmd.String("output-dir")
			if err := os.MkdirAll(outputDir, 0755); err != nil {
				return err
			}

			var jobs []batch.Job
			for _, p := range paths {
				route, ok := watch.RouteFor(p)
				if !ok {
					return fmt.Errorf("cannot infer schema for %s: expected a .nml or .xml file", p)
				}
				base := strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
				jobs = append(jobs, batch.Job{
					InputPath:  p,
					OutputPath: filepath.Join(outputDir, base+route.OutputExt),
					Source:     route.Source,
					Target:     route.Target,
				})
			}

			workers := int(cmd.Int("workers"))
			if workers == 0 {
				workers = cfg.Batch.Workers
			}
			results, err := batch.Process(ctx, jobs, batch.Options{
				MaxConcurrentTasks: workers,
				ShowProgress:       true,
			})
			if err != nil {
				return err
			}

			failed := 0
			for _, res := range results {
				if res.Err != nil {
					failed++
					fmt.Fprintf(os.Stderr, "%s: %v\n", res.Job.InputPath, res.Err)
					continue
				}
				printWarnings(res.Warnings)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d conversions failed", failed, len(results))
			}
			return nil
		},
	}
}

func watchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Watch a directory and convert library files as they appear",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cfg)
			return watch.Run(ctx, cfg.Watch, slog.Default())
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP conversion API",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			setupLogging(cfg)

			slog.Info("starting server", "port", cfg.Server.Port)
			return server.New(cfg).Start()
		},
	}
}

func printWarnings(warnings library.Warnings) {
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, w.String())
	}
}
