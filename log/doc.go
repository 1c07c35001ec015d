// Package log provides a concurrency-safe simplified logging interface
// based on [log/slog], with an additional trace level below debug and
// an optional colorized pretty handler for terminals.
//
// Loggers are values configured with functional options:
//
//	logger := log.Make(os.Stderr,
//		log.WithLevel(log.LevelDebug),
//		log.WithFormat(log.FormatText),
//		log.WithCaller(true))
//	logger.Info("model loaded", slog.String("path", path))
//
// [Logger.Wrap] derives a new logger with options layered over the
// current configuration, and [Logger.With] attaches attributes included
// in every subsequent message:
//
//	logger = logger.With(slog.String("source", name))
//
// Every level has a context-aware variant ([Logger.InfoContext] and so
// on). The context-unaware methods obtain their context from
// [DefaultContextProvider], which returns [context.TODO] unless
// replaced.
//
// The package also maintains a process-wide logger for code without a
// logger in hand. [Config] layers options onto it, which is how the CLI
// applies --log-* flags as they are parsed:
//
//	log.Config(log.WithLevel(log.LevelTrace), log.WithPretty(false))
//	log.Debug("cache hit", slog.Uint64("key", key))
//
// Timestamps format through [WithTimeLayout], accepting named layouts
// from the [time] package ("RFC3339", "Kitchen", ...) or a custom
// layout string; an empty layout omits timestamps entirely.
package log
