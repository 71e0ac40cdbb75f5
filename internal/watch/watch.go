// Package watch converts library files as they appear in a watched
// directory: .nml files become rekordbox XML and .xml files become NML.
// Output goes to a separate directory so the watcher never re-triggers on
// its own output.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ethiapath/djmusicorganizer/config"
	"github.com/ethiapath/djmusicorganizer/internal/engine"
	"github.com/ethiapath/djmusicorganizer/internal/library"
)

// Route decides schemas and output naming from a file extension.
type Route struct {
	Source    library.Schema
	Target    library.Schema
	OutputExt string
}

// Routes maps input extensions to conversion directions.
var Routes = map[string]Route{
	".nml": {Source: library.SchemaTraktor, Target: library.SchemaRekordbox, OutputExt: ".xml"},
	".xml": {Source: library.SchemaRekordbox, Target: library.SchemaTraktor, OutputExt: ".nml"},
}

// RouteFor returns the conversion route for a path, if one applies.
func RouteFor(path string) (Route, bool) {
	r, ok := Routes[strings.ToLower(filepath.Ext(path))]
	return r, ok
}

// Run watches cfg.InputDir and converts newly written library files into
// cfg.OutputDir until ctx is cancelled. Writes are debounced per file so a
// half-copied document is not parsed mid-transfer.
func Run(ctx context.Context, cfg config.WatchConfig, logger *slog.Logger) error {
	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(cfg.InputDir); err != nil {
		return fmt.Errorf("watch %s: %w", cfg.InputDir, err)
	}

	settle := time.Duration(cfg.SettleMillis) * time.Millisecond
	logger.Info("watcher: started", "input", cfg.InputDir, "output", cfg.OutputDir)

	// One settle timer per in-flight file; resets on every write event.
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()
	ready := make(chan string)

	for {
		select {
		case <-ctx.Done():
			logger.Info("watcher: stopped")
			return nil

		case path := <-ready:
			delete(timers, path)
			convertFile(path, cfg.OutputDir, logger)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			if _, ok := RouteFor(ev.Name); !ok {
				continue
			}
			path := ev.Name
			if t, exists := timers[path]; exists {
				t.Reset(settle)
				continue
			}
			timers[path] = time.AfterFunc(settle, func() {
				select {
				case ready <- path:
				case <-ctx.Done():
				}
			})

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", "error", watchErr)
		}
	}
}

func convertFile(path, outputDir string, logger *slog.Logger) {
	route, ok := RouteFor(path)
	if !ok {
		return
	}

	doc, err := os.ReadFile(path)
	if err != nil {
		logger.Warn("watcher: read failed", "path", path, "error", err)
		return
	}

	out, warnings, err := engine.Convert(doc, route.Source, route.Target)
	if err != nil {
		logger.Warn("watcher: conversion failed", "path", path, "error", err)
		return
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	outPath := filepath.Join(outputDir, base+route.OutputExt)
	if err := os.WriteFile(outPath, out, 0644); err != nil {
		logger.Warn("watcher: write failed", "path", outPath, "error", err)
		return
	}

	logger.Info("watcher: converted",
		"input", path,
		"output", outPath,
		"warnings", len(warnings))
	for _, warning := range warnings {
		logger.Debug("watcher: conversion warning", "path", path, "warning", warning.String())
	}
}
