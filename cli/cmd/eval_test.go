package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/ardnew/cadl/model"
	"github.com/ardnew/cadl/value"
)

func TestParseArgs(t *testing.T) {
	args, err := parseArgs([]string{
		"width=2*5",
		"name=\"gear\"",
		"solid=true",
		"teeth=[4, 6, 8]",
		"ratio=1.5",
	})
	if err != nil {
		t.Fatal(err)
	}

	width := args["width"]
	if width.Kind != value.KindInteger || width.Int != 10 {
		t.Errorf("width: expected integer 10, got %v", width)
	}

	if name := args["name"]; name.Kind != value.KindString || name.Str != "gear" {
		t.Errorf("name: expected string gear, got %v", name)
	}

	if solid := args["solid"]; solid.Kind != value.KindBool || !solid.Bool {
		t.Errorf("solid: expected true, got %v", solid)
	}

	teeth := args["teeth"]
	if teeth.Kind != value.KindList || len(teeth.List) != 3 {
		t.Fatalf("teeth: expected 3-element list, got %v", teeth)
	}

	if teeth.List[1].Int != 6 {
		t.Errorf("teeth[1]: expected 6, got %v", teeth.List[1])
	}

	ratio := args["ratio"]
	if ratio.Kind != value.KindScalar || ratio.Num != 1.5 ||
		ratio.Quantity != value.Dimensionless {
		t.Errorf("ratio: expected dimensionless 1.5, got %v", ratio)
	}
}

func TestParseArgsErrors(t *testing.T) {
	// Division is float division in argument expressions, so 1/0 and 0/0
	// produce Inf and NaN instead of a runtime error.
	malformed := [][]string{
		{"no-equals"},
		{"x=1 +"},
		{"x=1/0"},
		{"x=0/0"},
		{"x=[1, 2/0]"},
	}

	for _, specs := range malformed {
		if _, err := parseArgs(specs); !errors.Is(err, ErrArgument) {
			t.Errorf("%v: expected ErrArgument, got %v", specs, err)
		}
	}
}

func TestDescribeModel(t *testing.T) {
	args := value.NewTuple(
		value.Field{Name: "size", Value: value.Scalar(2, value.Length)},
	).Tuple

	m := model.NewPrimitive(nil, "cube", args)
	m.Resolution = 48

	got := describeModel(m)

	for _, want := range []string{"primitive", "size = 2mm", "resolution=48"} {
		if !strings.Contains(got, want) {
			t.Errorf("expected %q in %q", want, got)
		}
	}

	if strings.Contains(got, "impure") {
		t.Errorf("pure model described as impure: %q", got)
	}
}
