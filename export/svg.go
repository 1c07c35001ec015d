package export

import (
	"bufio"
	"fmt"
	"io"

	"github.com/ardnew/cadl/render"
)

// SVG writes planar geometry as an SVG document. The Y axis is flipped
// so the model's +Y renders upward.
type SVG struct{}

// Format returns "svg".
func (SVG) Format() string { return "svg" }

// Export writes the polygons as an SVG document sized to their bounds.
func (SVG) Export(w io.Writer, g render.Geometry) error {
	if err := check(g, "svg", render.Output2D); err != nil {
		return err
	}

	b := g.Bounds()
	width := b.Max.X - b.Min.X
	height := b.Max.Y - b.Min.Y

	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw,
		`<svg xmlns="http://www.w3.org/2000/svg" viewBox="%g %g %g %g">`+"\n",
		b.Min.X, -b.Max.Y, width, height)

	for _, poly := range g.Polygons {
		fmt.Fprint(bw, `  <polygon points="`)

		for i, p := range poly.Points {
			if i > 0 {
				fmt.Fprint(bw, " ")
			}

			fmt.Fprintf(bw, "%g,%g", p.X, -p.Y)
		}

		fmt.Fprintln(bw, `" fill="none" stroke="black"/>`)
	}

	fmt.Fprintln(bw, "</svg>")

	return bw.Flush()
}
