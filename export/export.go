// Package export writes rendered geometry to interchange formats. The
// format is chosen by file extension: STL and PLY for solids, SVG for
// planar geometry, JSON for either.
package export

import (
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/ardnew/cadl/diag"
	"github.com/ardnew/cadl/render"
)

var (
	// ErrUnsupportedFormat indicates a file extension with no exporter.
	ErrUnsupportedFormat = diag.NewError("unsupported export format")

	// ErrWrongDimension indicates geometry dimensionality the format
	// cannot represent.
	ErrWrongDimension = diag.NewError(
		"geometry dimensionality unsupported by format")

	// ErrInvalidGeometry indicates an attempt to export invalid
	// geometry.
	ErrInvalidGeometry = diag.NewError("cannot export invalid geometry")
)

// Exporter writes one geometry to one stream.
type Exporter interface {
	// Export writes g to w.
	Export(w io.Writer, g render.Geometry) error

	// Format returns the short format name.
	Format() string
}

// ForPath selects an exporter by the path's extension.
func ForPath(path string) (Exporter, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".stl":
		return STL{}, nil
	case ".svg":
		return SVG{}, nil
	case ".ply":
		return PLY{}, nil
	case ".json":
		return JSON{}, nil
	default:
		return nil, ErrUnsupportedFormat.With(
			slog.String("path", path),
			slog.String("supported", "stl, svg, ply, json"),
		)
	}
}

// check validates geometry against the dimensionality a format accepts.
func check(g render.Geometry, format string, want render.OutputKind) error {
	if g.Kind == render.OutputInvalid {
		return ErrInvalidGeometry
	}

	if g.Kind != want && g.Kind != render.OutputNone {
		return ErrWrongDimension.With(
			slog.String("format", format),
			slog.String("want", want.String()),
			slog.String("got", g.Kind.String()),
		)
	}

	return nil
}
