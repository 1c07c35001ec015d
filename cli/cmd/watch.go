package cmd

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ardnew/cadl/log"
	"github.com/ardnew/cadl/pkg"
)

// Watch re-runs the export pipeline whenever a watched source file
// changes.
type Watch struct {
	evalFlags `embed:""`

	Output   string        `help:"Output file (.stl, .svg, .ply, or .json)" required:"" short:"o" type:"path"`
	Debounce time.Duration `default:"250ms" help:"Delay before re-exporting after a change"`

	Source []string `arg:"" help:"Model source file(s) to watch" name:"source"`
}

// Run executes the watch command. It blocks until the context is
// canceled.
func (w *Watch) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	dirs := searchPathFrom(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, dir := range watchDirs(w.Source, dirs) {
		if err := watcher.Add(dir); err != nil {
			return err
		}

		log.DebugContext(ctx, "watching directory", slog.String("dir", dir))
	}

	w.export(ctx)

	// Editors produce bursts of writes and renames for one save, so a
	// change only arms the debounce timer and the timer does the work.
	debounce := time.NewTimer(w.Debounce)
	if !debounce.Stop() {
		<-debounce.C
	}

	for {
		select {
		case <-ctx.Done():
			return context.Cause(ctx)

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !relevant(event) {
				continue
			}

			log.DebugContext(ctx, "source changed",
				slog.String("path", event.Name),
				slog.String("op", event.Op.String()),
			)

			debounce.Reset(w.Debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			log.ErrorContext(ctx, "watch failed", slog.Any("error", err))

		case <-debounce.C:
			w.export(ctx)
		}
	}
}

// export runs one export pass, logging failures instead of aborting the
// watch loop.
func (w *Watch) export(ctx context.Context) {
	start := time.Now()

	err := exportOnce(ctx, w.Source, w.evalFlags, w.Output)
	if err != nil {
		log.ErrorContext(ctx, "export failed", slog.Any("error", err))

		return
	}

	log.InfoContext(ctx, "export complete",
		slog.Duration("elapsed", time.Since(start)),
	)
}

// relevant reports whether a filesystem event should trigger a
// re-export: content changes to model source files.
func relevant(event fsnotify.Event) bool {
	const ops = fsnotify.Write | fsnotify.Create |
		fsnotify.Rename | fsnotify.Remove

	return event.Op&ops != 0 && filepath.Ext(event.Name) == pkg.Ext
}

// watchDirs returns the unique directories containing the named sources.
// Watching directories instead of files survives the delete-and-rename
// save strategy most editors use.
func watchDirs(sources, searchDirs []string) []string {
	unique := make(map[string]struct{})

	for _, src := range sources {
		if src == stdinSource {
			continue
		}

		path := src
		if found, err := locate(src, searchDirs); err == nil {
			path = found
		}

		unique[filepath.Dir(path)] = struct{}{}
	}

	dirs := make([]string, 0, len(unique))
	for dir := range unique {
		dirs = append(dirs, dir)
	}

	return dirs
}
