// Package diag carries the error and diagnostic machinery shared by every
// stage of the pipeline: a structured error type with slog attributes, and
// the per-source-file diagnostic sink that evaluation appends to instead of
// aborting.
//
// Severity is ordered Trace < Info < Warning < Error. Most evaluation errors
// are recoverable: the stage records a diagnostic and substitutes an empty
// value so evaluation of sibling statements continues. A run that recorded
// any Error-level diagnostic is considered failed even though a (possibly
// partial) model tree is still produced for inspection.
package diag

import (
	"fmt"
	"io"
	"iter"
	"strings"
)

// Severity classifies a diagnostic message.
type Severity uint8

const (
	SeverityTrace Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
)

// String returns the lowercase name of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityTrace:
		return "trace"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// ParseSeverity parses a severity name. Unknown names map to SeverityError
// so a bad filter never hides errors.
func ParseSeverity(s string) Severity {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return SeverityTrace
	case "info":
		return SeverityInfo
	case "warning", "warn":
		return SeverityWarning
	default:
		return SeverityError
	}
}

// SrcRef locates a position in a source file by path, line, and column.
// The zero value refers to no location.
type SrcRef struct {
	Path string
	Line int
	Col  int
}

// IsZero reports whether the reference points nowhere.
func (r SrcRef) IsZero() bool { return r.Path == "" && r.Line == 0 }

// String formats the reference as path:line:col.
func (r SrcRef) String() string {
	if r.IsZero() {
		return "<unknown>"
	}

	return fmt.Sprintf("%s:%d:%d", r.Path, r.Line, r.Col)
}

// Diagnostic is a single recorded message tied to a source location.
type Diagnostic struct {
	Severity Severity
	Message  string
	Src      SrcRef
	// Err carries the originating error for errors.Is inspection, if any.
	Err error
}

// String formats the diagnostic for terminal output.
func (d Diagnostic) String() string {
	var sb strings.Builder

	sb.WriteString(d.Severity.String())
	sb.WriteString(": ")
	sb.WriteString(d.Message)

	if !d.Src.IsZero() {
		sb.WriteString(" (")
		sb.WriteString(d.Src.String())
		sb.WriteString(")")
	}

	return sb.String()
}

// Sink accumulates diagnostics grouped by source file path.
// Diagnostics are never silently dropped; the sink is owned by the
// evaluation context and threaded through evaluation calls rather than held
// as ambient global state, so independent evaluations never interfere.
type Sink struct {
	byFile map[string][]Diagnostic
	order  []string // file paths in first-seen order
	count  [SeverityError + 1]int
}

// NewSink creates an empty diagnostic sink.
func NewSink() *Sink {
	return &Sink{byFile: make(map[string][]Diagnostic)}
}

// Add appends a diagnostic to the list for its source file.
// Diagnostics without a source location are grouped under the empty path.
func (s *Sink) Add(d Diagnostic) {
	if _, ok := s.byFile[d.Src.Path]; !ok {
		s.order = append(s.order, d.Src.Path)
	}

	s.byFile[d.Src.Path] = append(s.byFile[d.Src.Path], d)

	if d.Severity <= SeverityError {
		s.count[d.Severity]++
	}
}

// Record is a convenience wrapper building a Diagnostic from an error.
func (s *Sink) Record(sev Severity, src SrcRef, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}

	s.Add(Diagnostic{Severity: sev, Message: msg, Src: src, Err: err})
}

// Errorf records an Error-level diagnostic with a formatted message.
func (s *Sink) Errorf(src SrcRef, format string, args ...any) {
	s.Add(Diagnostic{
		Severity: SeverityError,
		Message:  fmt.Sprintf(format, args...),
		Src:      src,
	})
}

// Warningf records a Warning-level diagnostic with a formatted message.
func (s *Sink) Warningf(src SrcRef, format string, args ...any) {
	s.Add(Diagnostic{
		Severity: SeverityWarning,
		Message:  fmt.Sprintf(format, args...),
		Src:      src,
	})
}

// HasErrors reports whether any Error-level diagnostic was recorded.
// A run with only Warning-or-lower diagnostics is considered successful.
func (s *Sink) HasErrors() bool { return s.count[SeverityError] > 0 }

// Count returns the number of diagnostics recorded at the given severity.
func (s *Sink) Count(sev Severity) int {
	if int(sev) >= len(s.count) {
		return 0
	}

	return s.count[sev]
}

// Len returns the total number of recorded diagnostics.
func (s *Sink) Len() int {
	n := 0
	for _, c := range s.count {
		n += c
	}

	return n
}

// File returns the diagnostics recorded for the given source file path.
func (s *Sink) File(path string) []Diagnostic { return s.byFile[path] }

// All returns an iterator over every diagnostic in file order, then
// insertion order within each file.
func (s *Sink) All() iter.Seq[Diagnostic] {
	return func(yield func(Diagnostic) bool) {
		for _, path := range s.order {
			for _, d := range s.byFile[path] {
				if !yield(d) {
					return
				}
			}
		}
	}
}

// Print writes every diagnostic at or above min to w, one per line.
func (s *Sink) Print(w io.Writer, min Severity) error {
	for d := range s.All() {
		if d.Severity < min {
			continue
		}

		if _, err := io.WriteString(w, d.String()+"\n"); err != nil {
			return err
		}
	}

	return nil
}
