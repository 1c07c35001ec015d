package syntax

import (
	"fmt"
	"strings"

	"github.com/ardnew/cadl/diag"
)

// ErrReadInput indicates the source input could not be read.
var ErrReadInput = diag.NewError("failed to read source input")

// ParseError describes a syntax error with its location and a snippet of
// the offending line.
type ParseError struct {
	Msg  string
	Src  diag.SrcRef
	Line string
}

// Error formats the error with a caret marking the failing column:
//
//	file.cadl:3:7: expected ";"
//	  3 | width = 10
//	            ^
func (e *ParseError) Error() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s: %s", e.Src, e.Msg)

	if e.Line != "" {
		prefix := fmt.Sprintf("  %d | ", e.Src.Line)

		fmt.Fprintf(&sb, "\n%s%s\n", prefix, e.Line)

		pad := len(prefix) + e.Src.Col - 1
		if pad < len(prefix) {
			pad = len(prefix)
		}

		sb.WriteString(strings.Repeat(" ", pad))
		sb.WriteString("^")
	}

	return sb.String()
}

// Diagnostic converts the error to a diagnostic record.
func (e *ParseError) Diagnostic() diag.Diagnostic {
	return diag.Diagnostic{
		Severity: diag.SeverityError,
		Message:  e.Msg,
		Src:      e.Src,
		Err:      e,
	}
}

// errorf constructs a ParseError at the current cursor position.
func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{
		Msg:  fmt.Sprintf(format, args...),
		Src:  p.src(),
		Line: p.currentLine(),
	}
}

// currentLine returns the text of the line under the cursor, without its
// terminating newline.
func (p *parser) currentLine() string {
	start := strings.LastIndexByte(p.input[:p.pos], '\n') + 1

	end := strings.IndexByte(p.input[p.pos:], '\n')
	if end < 0 {
		end = len(p.input)
	} else {
		end += p.pos
	}

	return p.input[start:end]
}
