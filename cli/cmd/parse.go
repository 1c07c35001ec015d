package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/cadl/log"
	"github.com/ardnew/cadl/syntax"
)

// Parse parses source files and prints their syntax trees as formatted
// source on stdout.
type Parse struct {
	Source []string `arg:"" default:"-" help:"Model source file(s) or '-' for stdin" name:"source" optional:""`
}

// Run executes the parse command.
func (p *Parse) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	files, err := loadSources(ctx, p.Source, searchPathFrom(ctx))
	if err != nil {
		return err
	}

	for _, file := range files {
		log.TraceContext(ctx, "parsed source",
			slog.String("path", file.Path),
			slog.Int("statements", len(file.Statements)),
		)

		syntax.Print(os.Stdout, file)
	}

	return nil
}
