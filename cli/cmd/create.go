package cmd

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/ardnew/cadl/log"
	"github.com/ardnew/cadl/pkg"
)

// Create scaffolds a new model source file from a named template.
type Create struct {
	Template string `default:"part" enum:"part,plate,box" help:"Template to scaffold" short:"t"`
	Force    bool   `help:"Overwrite an existing file" short:"f"`

	Path string `arg:"" help:"Path of the file to create" name:"path" type:"path"`
}

// templates maps template names to scaffold source text.
var templates = map[string]string{
	"part": `use std::geo3d::cube;

part main(size: Length = 10mm) {
	cube(size = size);
}

main();
`,

	"plate": `use std::geo2d::rect;
use std::geo2d::circle;
use std::ops::difference;

sketch plate(width: Length = 40mm, height: Length = 20mm, bore: Length = 3mm) {
	difference() {
		rect(width = width, height = height);
		circle(radius = bore, x = width / 2, y = height / 2);
	}
}

plate();
`,

	"box": `use std::geo3d::cube;
use std::transform::translate;
use std::ops::difference;

part box(size: Length = 20mm, wall: Length = 2mm) {
	difference() {
		cube(size = size);
		translate(x = wall, y = wall, z = wall) {
			cube(size = size - 2 * wall);
		}
	}
}

box();
`,
}

// Run executes the create command.
func (c *Create) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	content, ok := templates[c.Template]
	if !ok {
		return ErrUnknownTemplate.With(slog.String("template", c.Template))
	}

	path := c.Path
	if !strings.HasSuffix(path, pkg.Ext) {
		path += pkg.Ext
	}

	if _, err := os.Stat(path); err == nil && !c.Force {
		return ErrFileExists.With(slog.String("path", path))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return ErrWriteOutput.Wrap(err).With(slog.String("path", path))
		}
	}

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return ErrWriteOutput.Wrap(err).With(slog.String("path", path))
	}

	log.InfoContext(ctx, "created model source",
		slog.String("path", path),
		slog.String("template", c.Template),
	)

	return nil
}
