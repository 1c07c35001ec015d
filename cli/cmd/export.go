package cmd

import (
	"context"
	"log/slog"
	"os"

	"github.com/ardnew/cadl/diag"
	"github.com/ardnew/cadl/export"
	"github.com/ardnew/cadl/kernel"
	"github.com/ardnew/cadl/log"
	"github.com/ardnew/cadl/model"
	"github.com/ardnew/cadl/render"
)

// Export evaluates source files, renders the models, and writes geometry
// to the output file in the format chosen by its extension.
type Export struct {
	evalFlags `embed:""`

	Output string `help:"Output file (.stl, .svg, .ply, or .json)" required:"" short:"o" type:"path"`

	Source []string `arg:"" default:"-" help:"Model source file(s) or '-' for stdin" name:"source" optional:""`
}

// Run executes the export command.
func (e *Export) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	return exportOnce(ctx, e.Source, e.evalFlags, e.Output)
}

// exportOnce runs the full evaluate-render-write pipeline. It is shared
// with the watch command, which re-runs it on source changes.
func exportOnce(
	ctx context.Context,
	sources []string,
	flags evalFlags,
	output string,
) error {
	models, sink, err := evalModels(ctx, sources, flags)
	if err != nil {
		return err
	}

	var geometry render.Geometry

	if !sink.HasErrors() {
		geometry, err = renderModels(ctx, models, sink, flags.Resolution)
		if err != nil {
			return err
		}
	}

	if err := sink.Print(os.Stderr, diag.SeverityWarning); err != nil {
		return err
	}

	if sink.HasErrors() {
		return ErrDiagnostics.With(
			slog.Int("errors", sink.Count(diag.SeverityError)),
		)
	}

	return writeGeometry(ctx, output, geometry)
}

// renderModels materializes the model list as one merged geometry.
func renderModels(
	ctx context.Context,
	models model.Models,
	sink *diag.Sink,
	resolution int,
) (render.Geometry, error) {
	opts := []render.Option{
		render.WithSink(sink),
		render.WithLogger(log.Default()),
		render.WithCache(render.NewCache()),
	}
	if resolution > 0 {
		opts = append(opts, render.WithResolution(resolution))
	}

	r := render.New(kernel.New(), opts...)

	return r.Render(ctx, model.NewGroup(models...))
}

// writeGeometry writes geometry to the named file with the exporter
// selected by its extension.
func writeGeometry(
	ctx context.Context,
	path string,
	geometry render.Geometry,
) error {
	exporter, err := export.ForPath(path)
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("path", path))
	}
	defer out.Close()

	if err := exporter.Export(out, geometry); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("path", path))
	}

	log.InfoContext(ctx, "exported geometry",
		slog.String("path", path),
		slog.String("format", exporter.Format()),
		slog.String("kind", geometry.Kind.String()),
	)

	return nil
}
