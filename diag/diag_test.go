package diag

import (
	"errors"
	"strings"
	"testing"
)

func TestSinkCounts(t *testing.T) {
	s := NewSink()

	s.Errorf(SrcRef{Path: "a.cadl", Line: 1, Col: 1}, "bad thing")
	s.Warningf(SrcRef{Path: "a.cadl", Line: 2, Col: 5}, "odd thing")
	s.Errorf(SrcRef{Path: "b.cadl", Line: 3, Col: 1}, "worse thing")

	if !s.HasErrors() {
		t.Error("expected HasErrors")
	}

	if got := s.Count(SeverityError); got != 2 {
		t.Errorf("expected 2 errors, got %d", got)
	}

	if got := s.Count(SeverityWarning); got != 1 {
		t.Errorf("expected 1 warning, got %d", got)
	}

	if got := s.Len(); got != 3 {
		t.Errorf("expected 3 diagnostics, got %d", got)
	}

	if got := len(s.File("a.cadl")); got != 2 {
		t.Errorf("expected 2 diagnostics for a.cadl, got %d", got)
	}
}

func TestSinkOrder(t *testing.T) {
	s := NewSink()

	s.Errorf(SrcRef{Path: "b.cadl", Line: 1}, "first")
	s.Errorf(SrcRef{Path: "a.cadl", Line: 1}, "second")
	s.Errorf(SrcRef{Path: "b.cadl", Line: 9}, "third")

	var msgs []string
	for d := range s.All() {
		msgs = append(msgs, d.Message)
	}

	// File order is first-seen, insertion order within each file.
	want := []string{"first", "third", "second"}
	for i, msg := range want {
		if msgs[i] != msg {
			t.Fatalf("position %d: expected %q, got %v", i, msg, msgs)
		}
	}
}

func TestRecordKeepsErrorForIs(t *testing.T) {
	sentinel := NewError("no such thing")

	s := NewSink()
	s.Record(SeverityError, SrcRef{Path: "a.cadl", Line: 4, Col: 2},
		sentinel.With())

	for d := range s.All() {
		if !errors.Is(d.Err, sentinel) {
			t.Errorf("expected errors.Is to match the sentinel, got %v", d.Err)
		}
	}
}

func TestPrintFilter(t *testing.T) {
	s := NewSink()

	s.Warningf(SrcRef{Path: "a.cadl", Line: 1, Col: 1}, "minor")
	s.Errorf(SrcRef{Path: "a.cadl", Line: 2, Col: 1}, "major")

	var buf strings.Builder
	if err := s.Print(&buf, SeverityError); err != nil {
		t.Fatal(err)
	}

	out := buf.String()

	if strings.Contains(out, "minor") {
		t.Error("warning printed above the error threshold")
	}

	if !strings.Contains(out, "error: major (a.cadl:2:1)") {
		t.Errorf("unexpected output:\n%s", out)
	}
}

func TestSeverityParse(t *testing.T) {
	tests := map[string]Severity{
		"trace":   SeverityTrace,
		"INFO":    SeverityInfo,
		"warn":    SeverityWarning,
		"warning": SeverityWarning,
		"error":   SeverityError,
		"bogus":   SeverityError,
	}

	for name, want := range tests {
		if got := ParseSeverity(name); got != want {
			t.Errorf("%q: expected %v, got %v", name, want, got)
		}
	}
}
