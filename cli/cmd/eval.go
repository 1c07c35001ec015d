package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/ardnew/cadl/builtin"
	"github.com/ardnew/cadl/diag"
	"github.com/ardnew/cadl/eval"
	"github.com/ardnew/cadl/log"
	"github.com/ardnew/cadl/model"
	"github.com/ardnew/cadl/value"
)

// evalFlags are the evaluation options shared by the eval, export, and
// watch commands.
type evalFlags struct {
	Name       string   `help:"Workbench to instantiate instead of the file's top-level statements" short:"n"`
	Arg        []string `help:"Bind name=expr to a parameter of --name (repeatable; list values expand)" name:"arg" short:"a"`
	Resolution int      `default:"0" help:"Tessellation resolution override"`
}

// Eval evaluates source files and prints the resulting model tree.
type Eval struct {
	evalFlags `embed:""`

	Source []string `arg:"" default:"-" help:"Model source file(s) or '-' for stdin" name:"source" optional:""`
}

// Run executes the eval command.
func (e *Eval) Run(ctx context.Context) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	models, sink, err := evalModels(ctx, e.Source, e.evalFlags)
	if err != nil {
		return err
	}

	printModels(os.Stdout, models)

	if err := sink.Print(os.Stderr, diag.SeverityWarning); err != nil {
		return err
	}

	if sink.HasErrors() {
		return ErrDiagnostics.With(
			slog.Int("errors", sink.Count(diag.SeverityError)),
		)
	}

	return nil
}

// evalModels loads the named sources and evaluates them to a model list.
// With a --name target, it instantiates that workbench with the --arg
// bindings instead of evaluating top-level statements.
func evalModels(
	ctx context.Context,
	sources []string,
	flags evalFlags,
) (model.Models, *diag.Sink, error) {
	files, err := loadSources(ctx, sources, searchPathFrom(ctx))
	if err != nil {
		return nil, nil, err
	}

	sink := diag.NewSink()

	opts := []eval.Option{
		eval.WithSink(sink),
		eval.WithLogger(log.Default()),
	}
	if flags.Resolution > 0 {
		opts = append(opts, eval.WithResolution(flags.Resolution))
	}

	ectx := eval.New(builtin.Std(), opts...)

	for _, file := range files {
		ectx.Load(file)
	}

	ectx.Bind()

	if flags.Name != "" {
		args, err := parseArgs(flags.Arg)
		if err != nil {
			return nil, nil, err
		}

		models, err := ectx.Call(ctx, strings.Split(flags.Name, "::"), args)
		if err != nil && ctx.Err() != nil {
			return nil, nil, err
		}

		return models, sink, nil
	}

	var models model.Models

	for _, file := range files {
		ms, err := ectx.EvalFile(ctx, file)
		if err != nil {
			return nil, nil, err
		}

		models = append(models, ms...)
	}

	return models, sink, nil
}

// parseArgs evaluates each name=expr binding through expr-lang and
// converts the result to a language value. A list result expands the
// target parameter across the list elements.
func parseArgs(specs []string) (map[string]value.Value, error) {
	args := make(map[string]value.Value, len(specs))

	for _, spec := range specs {
		name, src, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, ErrArgument.With(slog.String("arg", spec))
		}

		program, err := expr.Compile(src)
		if err != nil {
			return nil, ErrArgument.Wrap(err).
				With(slog.String("arg", spec))
		}

		out, err := vm.Run(program, map[string]any{})
		if err != nil {
			return nil, ErrArgument.Wrap(err).
				With(slog.String("arg", spec))
		}

		v, err := convertArg(out)
		if err != nil {
			return nil, ErrArgument.Wrap(err).
				With(slog.String("arg", spec))
		}

		args[strings.TrimSpace(name)] = v
	}

	return args, nil
}

// convertArg maps an expr-lang result to a language value. Numbers are
// dimensionless; the matcher coerces them to the declared parameter
// quantity.
func convertArg(out any) (value.Value, error) {
	switch v := out.(type) {
	case bool:
		return value.NewBool(v), nil

	case int:
		return value.NewInt(int64(v)), nil

	case int64:
		return value.NewInt(v), nil

	case float64:
		// expr-lang divides through floats, so 1/0 arrives here as +Inf
		// rather than a VM error.
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return value.None(), fmt.Errorf("non-finite result %v", v)
		}

		return value.Scalar(v, value.Dimensionless), nil

	case string:
		return value.NewString(v), nil

	case []any:
		items := make([]value.Value, len(v))

		for i, item := range v {
			converted, err := convertArg(item)
			if err != nil {
				return value.None(), err
			}

			items[i] = converted
		}

		return value.NewList(items...), nil

	default:
		return value.None(), fmt.Errorf("unsupported result type %T", out)
	}
}

// printModels writes an indented listing of each model tree.
func printModels(w io.Writer, models model.Models) {
	for _, m := range models {
		m.Walk(func(n *model.Model, depth int) bool {
			fmt.Fprintf(w, "%s%s\n",
				strings.Repeat("  ", depth), describeModel(n))

			return true
		})
	}
}

func describeModel(m *model.Model) string {
	var b strings.Builder

	b.WriteString(m.Name())

	if m.Origin.Args != nil {
		b.WriteString(value.Value{
			Kind:  value.KindTuple,
			Tuple: m.Origin.Args,
		}.String())
	}

	if m.Resolution > 0 {
		fmt.Fprintf(&b, " resolution=%d", m.Resolution)
	}

	if !m.Pure {
		b.WriteString(" impure")
	}

	if len(m.Attributes) > 0 {
		names := make([]string, 0, len(m.Attributes))
		for name := range m.Attributes {
			names = append(names, name)
		}

		sort.Strings(names)

		for _, name := range names {
			fmt.Fprintf(&b, " %s=%s", name, m.Attributes[name])
		}
	}

	return b.String()
}
