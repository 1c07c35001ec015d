package cli

import (
	"strings"
	"testing"

	"github.com/alecthomas/kong"
)

func resolveFlag(t *testing.T, r kong.Resolver, name string) any {
	t.Helper()

	flag := &kong.Flag{Value: &kong.Value{Name: name}}

	v, err := r.Resolve(nil, nil, flag)
	if err != nil {
		t.Fatalf("resolve %s failed: %v", name, err)
	}

	return v
}

func TestResolveYAMLNested(t *testing.T) {
	doc := `
log:
  level: debug
  pretty: true
resolution: 64
`

	r, err := resolveYAML(strings.NewReader(doc))
	if err != nil {
		t.Fatal(err)
	}

	if got := resolveFlag(t, r, "log-level"); got != "debug" {
		t.Errorf("log-level: expected debug, got %v", got)
	}

	if got := resolveFlag(t, r, "log-pretty"); got != true {
		t.Errorf("log-pretty: expected true, got %v", got)
	}

	// Numbers resolve as strings so kong can reparse them per flag type.
	if got := resolveFlag(t, r, "resolution"); got != "64" {
		t.Errorf("resolution: expected \"64\", got %v (%T)", got, got)
	}
}

func TestResolveYAMLUnderscoreAlias(t *testing.T) {
	r, err := resolveYAML(strings.NewReader(`log_format: text`))
	if err != nil {
		t.Fatal(err)
	}

	if got := resolveFlag(t, r, "log-format"); got != "text" {
		t.Errorf("expected text, got %v", got)
	}
}

func TestResolveYAMLUnknownFlag(t *testing.T) {
	r, err := resolveYAML(strings.NewReader(`log: {level: info}`))
	if err != nil {
		t.Fatal(err)
	}

	if got := resolveFlag(t, r, "no-such-flag"); got != nil {
		t.Errorf("expected nil for unknown flag, got %v", got)
	}
}

func TestResolveYAMLInvalid(t *testing.T) {
	// A malformed config contributes nothing rather than failing the
	// command.
	r, err := resolveYAML(strings.NewReader("log: [unclosed"))
	if err != nil {
		t.Fatal(err)
	}

	if got := resolveFlag(t, r, "log-level"); got != nil {
		t.Errorf("expected nil from invalid config, got %v", got)
	}
}
