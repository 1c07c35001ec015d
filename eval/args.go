package eval

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ardnew/cadl/diag"
	"github.com/ardnew/cadl/sym"
	"github.com/ardnew/cadl/value"
)

var (
	// ErrUnknownArgument indicates a named argument matching no
	// parameter.
	ErrUnknownArgument = diag.NewError("unknown argument")

	// ErrDuplicateArgument indicates a parameter bound more than once.
	ErrDuplicateArgument = diag.NewError("argument bound twice")

	// ErrTooManyArguments indicates positional arguments beyond the
	// parameter count.
	ErrTooManyArguments = diag.NewError("too many positional arguments")

	// ErrMissingArgument indicates a required parameter left unbound.
	ErrMissingArgument = diag.NewError("missing required argument")

	// ErrArgumentType indicates an argument value incompatible with the
	// parameter's declared type.
	ErrArgumentType = diag.NewError("argument type mismatch")
)

// boundArg is one evaluated call argument.
type boundArg struct {
	name string
	val  value.Value
	src  diag.SrcRef
}

// match binds call arguments to parameters and returns the complete
// argument tuple in parameter declaration order. Named arguments bind
// first, then positional arguments fill the remaining parameters in
// order. Unbound parameters take their defaults, evaluated in the
// calling context. All binding failures for one call are reported
// together.
func (c *Context) match(
	ctx context.Context,
	s *sym.Symbol,
	params []sym.Param,
	bound []boundArg,
	src diag.SrcRef,
) (*value.Tuple, error) {
	index := make(map[string]int, len(params))
	for i, p := range params {
		index[p.Name] = i
	}

	values := make([]value.Value, len(params))
	set := make([]bool, len(params))

	var errs []error

	fail := func(base *diag.Error, attrs ...slog.Attr) {
		attrs = append(attrs, slog.String("callee", s.FullName()))
		errs = append(errs, base.With(attrs...))
	}

	for _, arg := range bound {
		if arg.name == "" {
			continue
		}

		i, ok := index[arg.name]
		if !ok {
			attrs := []slog.Attr{
				slog.String("argument", arg.name),
				slog.String("expected", paramNames(params)),
			}
			if hints := sym.SuggestNames(arg.name, paramList(params)); len(hints) > 0 {
				attrs = append(attrs,
					slog.String("did_you_mean", strings.Join(hints, ", ")),
				)
			}

			fail(ErrUnknownArgument, attrs...)

			continue
		}

		if set[i] {
			fail(ErrDuplicateArgument, slog.String("argument", arg.name))

			continue
		}

		values[i] = arg.val
		set[i] = true
	}

	next := 0

	for _, arg := range bound {
		if arg.name != "" {
			continue
		}

		for next < len(params) && set[next] {
			next++
		}

		if next >= len(params) {
			fail(ErrTooManyArguments,
				slog.Int("parameter_count", len(params)),
			)

			break
		}

		values[next] = arg.val
		set[next] = true
	}

	for i, p := range params {
		if set[i] {
			continue
		}

		switch {
		case p.Default != nil:
			v, err := c.evalValue(ctx, p.Default)
			if err != nil {
				errs = append(errs, err)

				continue
			}

			values[i] = v
			set[i] = true

		case p.HasValue:
			values[i] = p.Value
			set[i] = true

		default:
			fail(ErrMissingArgument, slog.String("parameter", p.Name))
		}
	}

	for i, p := range params {
		if !set[i] {
			continue
		}

		coerced, ok := coerceArg(values[i], p.Type)
		if !ok {
			fail(ErrArgumentType,
				slog.String("parameter", p.Name),
				slog.String("expected", p.Type.String()),
				slog.String("got", value.TypeOf(values[i]).String()),
			)

			continue
		}

		values[i] = coerced
	}

	if len(errs) > 0 {
		for _, err := range errs {
			c.sink.Record(diag.SeverityError, src, err)
		}

		return nil, errors.Join(append(errs, errReported)...)
	}

	fields := make([]value.Field, len(params))
	for i, p := range params {
		fields[i] = value.Field{Name: p.Name, Value: values[i]}
	}

	return &value.Tuple{Fields: fields}, nil
}

// coerceArg coerces an argument to a parameter type. Lists bound to a
// non-list parameter are coerced elementwise; the list itself survives
// for multiplicity expansion.
func coerceArg(v value.Value, t value.Type) (value.Value, bool) {
	if v.Kind != value.KindList {
		return value.Coerce(v, t)
	}

	items := make([]value.Value, len(v.List))

	for i, item := range v.List {
		coerced, ok := value.Coerce(item, t)
		if !ok {
			return value.None(), false
		}

		items[i] = coerced
	}

	return value.NewList(items...), true
}

func paramList(params []sym.Param) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}

	return names
}

func paramNames(params []sym.Param) string {
	return strings.Join(paramList(params), ", ")
}
