package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Styles used by the pretty handlers. Keys render dim so the values carry
// the visual weight.
var (
	styleKey      = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleString   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	styleNumber   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	styleTrue     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	styleFalse    = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	styleDuration = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	styleTime     = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	styleNull     = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// levelStyle selects the color for a level token.
func levelStyle(level slog.Level) lipgloss.Style {
	switch {
	case level >= slog.LevelError:
		return styleFalse
	case level >= slog.LevelWarn:
		return styleNumber
	case level >= slog.LevelInfo:
		return styleTrue
	default:
		return styleTime
	}
}

// prettyCore holds the state shared by both pretty handlers.
type prettyCore struct {
	opts   slog.HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	groups []string
}

func makeCore(w io.Writer, opts *slog.HandlerOptions) prettyCore {
	return prettyCore{opts: *opts, mu: &sync.Mutex{}, w: w}
}

func (c *prettyCore) enabled(level slog.Level) bool {
	return level >= c.opts.Level.Level()
}

// record flattens the built-in and handler attributes of r in output
// order, resolving values and funneling each attribute through the
// configured ReplaceAttr. The level attribute bypasses ReplaceAttr so it
// reaches the renderer as a [slog.Level] and keeps its color.
func (c *prettyCore) record(r slog.Record) []slog.Attr {
	attrs := make([]slog.Attr, 0, r.NumAttrs()+len(c.attrs)+4)

	add := func(a slog.Attr) {
		a.Value = a.Value.Resolve()

		if c.opts.ReplaceAttr != nil {
			a = c.opts.ReplaceAttr(c.groups, a)
		}

		if !a.Equal(slog.Attr{}) {
			attrs = append(attrs, a)
		}
	}

	if !r.Time.IsZero() {
		add(slog.Time(slog.TimeKey, r.Time))
	}

	attrs = append(attrs, slog.Any(slog.LevelKey, r.Level))

	if c.opts.AddSource {
		if src := r.Source(); src != nil {
			add(slog.String(
				slog.SourceKey,
				fmt.Sprintf("%s:%d", src.File, src.Line),
			))
		}
	}

	add(slog.String(slog.MessageKey, r.Message))

	for _, a := range c.attrs {
		add(a)
	}

	r.Attrs(func(a slog.Attr) bool {
		add(a)

		return true
	})

	return attrs
}

// flush writes one rendered record and its trailing newline.
func (c *prettyCore) flush(buf *bytes.Buffer) error {
	buf.WriteByte('\n')

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err := c.w.Write(buf.Bytes())

	return err
}

func (c prettyCore) withAttrs(attrs []slog.Attr) prettyCore {
	c.attrs = append(c.attrs[:len(c.attrs):len(c.attrs)], attrs...)

	return c
}

func (c prettyCore) withGroup(name string) prettyCore {
	c.groups = append(c.groups[:len(c.groups):len(c.groups)], name)

	return c
}

// renderValue writes one colorized value token.
func renderValue(buf *bytes.Buffer, v slog.Value) {
	switch v.Kind() {
	case slog.KindString:
		buf.WriteString(styleString.Render(v.String()))

	case slog.KindInt64:
		buf.WriteString(styleNumber.Render(strconv.FormatInt(v.Int64(), 10)))

	case slog.KindUint64:
		buf.WriteString(styleNumber.Render(strconv.FormatUint(v.Uint64(), 10)))

	case slog.KindFloat64:
		buf.WriteString(
			styleNumber.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64)),
		)

	case slog.KindBool:
		if v.Bool() {
			buf.WriteString(styleTrue.Render("true"))
		} else {
			buf.WriteString(styleFalse.Render("false"))
		}

	case slog.KindDuration:
		buf.WriteString(styleDuration.Render(v.Duration().String()))

	case slog.KindTime:
		buf.WriteString(styleTime.Render(v.Time().String()))

	case slog.KindAny:
		switch val := v.Any().(type) {
		case slog.Level:
			name := strings.ToUpper(Level(val).String())
			buf.WriteString(levelStyle(val).Render(name))

		case nil:
			buf.WriteString(styleNull.Render("null"))

		default:
			buf.WriteString(styleString.Render(v.String()))
		}

	default:
		buf.WriteString(styleString.Render(v.String()))
	}
}

// prettyTextHandler renders records as colorized key=value lines.
type prettyTextHandler struct {
	prettyCore
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyTextHandler {
	return &prettyTextHandler{makeCore(w, opts)}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	for i, a := range h.record(r) {
		if i > 0 {
			buf.WriteByte(' ')
		}

		buf.WriteString(styleKey.Render(a.Key))
		buf.WriteByte('=')
		renderValue(buf, a.Value)
	}

	return h.flush(buf)
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyTextHandler{h.withAttrs(attrs)}
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	return &prettyTextHandler{h.withGroup(name)}
}

// prettyJSONHandler renders records as an indented multiline object with
// colorized keys and values. The output is for terminals, not parsers.
type prettyJSONHandler struct {
	prettyCore
}

func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) *prettyJSONHandler {
	return &prettyJSONHandler{makeCore(w, opts)}
}

func (h *prettyJSONHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.enabled(level)
}

func (h *prettyJSONHandler) Handle(_ context.Context, r slog.Record) error {
	buf := new(bytes.Buffer)

	buf.WriteString("{\n")

	for i, a := range h.record(r) {
		if i > 0 {
			buf.WriteString(",\n")
		}

		buf.WriteString("  ")
		buf.WriteString(styleKey.Render(a.Key))
		buf.WriteString(": ")
		renderValue(buf, a.Value)
	}

	buf.WriteString("\n}")

	return h.flush(buf)
}

func (h *prettyJSONHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &prettyJSONHandler{h.withAttrs(attrs)}
}

func (h *prettyJSONHandler) WithGroup(name string) slog.Handler {
	return &prettyJSONHandler{h.withGroup(name)}
}
