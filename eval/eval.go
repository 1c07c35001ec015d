package eval

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/ardnew/cadl/diag"
	"github.com/ardnew/cadl/model"
	"github.com/ardnew/cadl/sym"
	"github.com/ardnew/cadl/syntax"
	"github.com/ardnew/cadl/value"
)

var (
	// ErrNotCallable indicates a call to a symbol that is not a
	// workbench or builtin.
	ErrNotCallable = diag.NewError("symbol is not callable")

	// ErrRecursionLimit indicates workbench instantiation exceeded the
	// call depth bound.
	ErrRecursionLimit = diag.NewError("recursion limit exceeded")

	// ErrModelInValueContext indicates a model-producing call appeared
	// where a value was required.
	ErrModelInValueContext = diag.NewError(
		"model-producing call in value context")

	// ErrConstCycle indicates a constant initializer depends on itself.
	ErrConstCycle = diag.NewError("constant initializer cycle")

	// ErrMixedList indicates a list literal with elements of differing
	// kinds.
	ErrMixedList = diag.NewError("list elements must share one kind")

	// ErrBundledUnit indicates a tuple suffix unit applied over a field
	// that is not a unitless number.
	ErrBundledUnit = diag.NewError(
		"bundled unit requires unitless numeric fields")

	// ErrUnexpectedChildren indicates a trailing body on a call that
	// cannot take children.
	ErrUnexpectedChildren = diag.NewError("call does not accept children")

	// ErrChildrenOutsideOp indicates an @children marker outside an
	// operator workbench body.
	ErrChildrenOutsideOp = diag.NewError(
		"@children is only valid inside an op body")
)

// errReported marks errors whose diagnostics were already recorded at a
// finer granularity, so callers do not record them again.
var errReported = errors.New("diagnostics reported")

// result carries the outcome of evaluating an expression: either a value
// or a sequence of models, never both.
type result struct {
	val    value.Value
	models model.Models
}

// EvalFile evaluates the top-level statements of a file and returns the
// models they produce. Errors are recorded in the diagnostics sink;
// evaluation continues past failed statements. The returned error is
// non-nil only for cancellation.
func (c *Context) EvalFile(
	ctx context.Context,
	file *syntax.SourceFile,
) (model.Models, error) {
	c.push(frameFile, c.root)
	defer c.pop()

	models, err := c.evalStatements(ctx, file.Statements)
	if err != nil {
		return nil, err
	}

	models = c.rejectMarkers(models, diag.SrcRef{Path: file.Path})

	c.logger.TraceContext(ctx, "file evaluated",
		slog.String("path", file.Path),
		slog.Int("model_count", len(models)),
	)

	return models, nil
}

// Call instantiates a workbench or builtin by qualified name with named
// argument values. List-valued arguments trigger multiplicity expansion.
func (c *Context) Call(
	ctx context.Context,
	path []string,
	args map[string]value.Value,
) (model.Models, error) {
	c.push(frameFile, c.root)
	defer c.pop()

	call := &syntax.Call{Name: path}
	for name := range args {
		call.Args = append(call.Args, &syntax.Arg{Name: name})
	}

	bound := make([]boundArg, 0, len(args))
	for _, arg := range call.Args {
		bound = append(bound, boundArg{name: arg.Name, val: args[arg.Name]})
	}

	r, err := c.dispatch(ctx, call, bound, diag.SrcRef{}, nil)
	if err != nil {
		if !errors.Is(err, errReported) {
			c.sink.Record(diag.SeverityError, diag.SrcRef{}, err)
		}

		return nil, err
	}

	if r.models == nil && !r.val.IsNone() {
		return nil, ErrModelInValueContext.With(
			slog.String("name", syntax.QualifiedName(path)),
			slog.String("kind", "value"),
		)
	}

	return r.models, nil
}

// evalStatements evaluates a statement list in the current frame and
// returns the models produced by its expression statements, in order.
func (c *Context) evalStatements(
	ctx context.Context,
	body []*syntax.Statement,
) (model.Models, error) {
	var models model.Models

	for _, st := range body {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		produced, err := c.evalStatement(ctx, st)
		if err != nil {
			if !errors.Is(err, errReported) {
				c.sink.Record(diag.SeverityError, st.Src, err)
			}

			continue
		}

		models = append(models, produced...)
	}

	return models, nil
}

func (c *Context) evalStatement(
	ctx context.Context,
	st *syntax.Statement,
) (model.Models, error) {
	switch st.Kind {
	case syntax.StmtUse:
		return nil, c.evalUse(st)

	case syntax.StmtConst:
		v, err := c.evalValue(ctx, st.Const.Value)
		if err != nil {
			return nil, err
		}

		c.top().values[st.Const.Name] = v

		return nil, nil

	case syntax.StmtAssign:
		v, err := c.evalValue(ctx, st.Assign.Value)
		if err != nil {
			return nil, err
		}

		c.top().values[st.Assign.Name] = v

		return nil, nil

	case syntax.StmtModule, syntax.StmtWorkbench:
		// Declarations were registered during Load.
		return nil, nil

	case syntax.StmtChildren:
		return model.Models{model.NewChildrenMarker()}, nil

	case syntax.StmtExpr:
		return c.evalExprStatement(ctx, st)

	default:
		return nil, nil
	}
}

func (c *Context) evalUse(st *syntax.Statement) error {
	target, err := c.root.Navigate(st.Use.Path)
	if err != nil {
		return err
	}

	name := st.Use.Alias
	if name == "" {
		name = st.Use.Path[len(st.Use.Path)-1]
	}

	c.top().syms[name] = target

	return nil
}

func (c *Context) evalExprStatement(
	ctx context.Context,
	st *syntax.Statement,
) (model.Models, error) {
	var children model.Models

	if st.Body != nil {
		c.push(frameBody, c.scopeSymbol())

		var err error

		children, err = c.evalStatements(ctx, st.Body)

		c.pop()

		if err != nil {
			return nil, err
		}
	}

	r, err := c.evalExprChildren(ctx, st.Expr, children)
	if err != nil {
		return nil, err
	}

	if r.models == nil {
		if !r.val.IsNone() {
			c.sink.Record(diag.SeverityWarning, st.Src,
				diag.NewError("expression result unused").With(
					slog.String("value", r.val.String()),
				))
		}

		return nil, nil
	}

	c.applyAttributes(ctx, r.models, st.Attributes)

	return r.models, nil
}

// applyAttributes applies statement attributes to the produced models.
// The resolution attribute sets tessellation quality; all others are
// recorded verbatim for downstream consumers.
func (c *Context) applyAttributes(
	ctx context.Context,
	ms model.Models,
	attrs []*syntax.Attribute,
) {
	for _, attr := range attrs {
		val := value.NewBool(true)

		if attr.Value != nil {
			var err error

			val, err = c.evalValue(ctx, attr.Value)
			if err != nil {
				c.sink.Record(diag.SeverityError, attr.Src, err)

				continue
			}
		}

		for _, m := range ms {
			if attr.Name == "resolution" {
				if mag, ok := val.Magnitude(); ok && mag > 0 {
					m.Resolution = int(mag)

					continue
				}

				c.sink.Errorf(attr.Src,
					"resolution attribute requires a positive number")

				continue
			}

			if m.Attributes == nil {
				m.Attributes = make(map[string]value.Value)
			}

			m.Attributes[attr.Name] = val
		}
	}
}

// rejectMarkers strips stray children markers, recording a diagnostic
// for each.
func (c *Context) rejectMarkers(
	ms model.Models,
	src diag.SrcRef,
) model.Models {
	kept := ms[:0]

	for _, m := range ms {
		if m.Origin.Kind == model.OriginChildren {
			c.sink.Record(diag.SeverityError, src, ErrChildrenOutsideOp)

			continue
		}

		kept = append(kept, m)
	}

	return kept
}

// evalValue evaluates an expression that must produce a value.
func (c *Context) evalValue(
	ctx context.Context,
	e *syntax.Expr,
) (value.Value, error) {
	r, err := c.evalExprChildren(ctx, e, nil)
	if err != nil {
		return value.None(), err
	}

	if r.models != nil {
		return value.None(), ErrModelInValueContext
	}

	return r.val, nil
}

func (c *Context) evalExprChildren(
	ctx context.Context,
	e *syntax.Expr,
	children model.Models,
) (result, error) {
	if e.Kind != syntax.ExprCall && len(children) > 0 {
		return result{}, ErrUnexpectedChildren
	}

	switch e.Kind {
	case syntax.ExprNumber:
		v, err := c.evalNumber(e)

		return result{val: v}, err

	case syntax.ExprString:
		return result{val: value.NewString(e.Str)}, nil

	case syntax.ExprBool:
		return result{val: value.NewBool(e.Bool)}, nil

	case syntax.ExprList:
		v, err := c.evalList(ctx, e)

		return result{val: v}, err

	case syntax.ExprTuple:
		v, err := c.evalTuple(ctx, e)

		return result{val: v}, err

	case syntax.ExprName:
		v, err := c.evalName(ctx, e)

		return result{val: v}, err

	case syntax.ExprUnary:
		x, err := c.evalValue(ctx, e.X)
		if err != nil {
			return result{}, err
		}

		v, err := value.Neg(x)

		return result{val: v}, err

	case syntax.ExprBinary:
		v, err := c.evalBinary(ctx, e)

		return result{val: v}, err

	case syntax.ExprCall:
		return c.evalCall(ctx, e, children)

	default:
		return result{}, diag.NewError("unsupported expression")
	}
}

func (c *Context) evalNumber(e *syntax.Expr) (value.Value, error) {
	if e.Unit != "" {
		return value.ScalarFromLiteral(e.Num, e.Unit)
	}

	if e.IsInt {
		return value.NewInt(int64(e.Num)), nil
	}

	return value.Scalar(e.Num, value.Dimensionless), nil
}

// evalList builds a list value, promoting integers to scalars when the
// list mixes the two, and rejecting any other kind mixture.
func (c *Context) evalList(
	ctx context.Context,
	e *syntax.Expr,
) (value.Value, error) {
	items := make([]value.Value, 0, len(e.List))

	hasScalar := false
	hasInt := false

	for _, item := range e.List {
		v, err := c.evalValue(ctx, item)
		if err != nil {
			return value.None(), err
		}

		switch v.Kind {
		case value.KindScalar:
			hasScalar = true
		case value.KindInteger:
			hasInt = true
		}

		items = append(items, v)
	}

	if hasScalar && hasInt {
		for i, v := range items {
			if v.Kind == value.KindInteger {
				items[i] = value.Scalar(float64(v.Int), value.Dimensionless)
			}
		}
	}

	for i := 1; i < len(items); i++ {
		if items[i].Kind != items[0].Kind {
			return value.None(), ErrMixedList.With(
				slog.String("first", items[0].Kind.String()),
				slog.String("mismatch", items[i].Kind.String()),
			)
		}
	}

	return value.NewList(items...), nil
}

// evalTuple builds a tuple value. A bundled unit suffix applies to every
// field, each of which must be a unitless number.
func (c *Context) evalTuple(
	ctx context.Context,
	e *syntax.Expr,
) (value.Value, error) {
	fields := make([]value.Field, 0, len(e.Fields))

	for _, field := range e.Fields {
		v, err := c.evalValue(ctx, field.Value)
		if err != nil {
			return value.None(), err
		}

		fields = append(fields, value.Field{Name: field.Name, Value: v})
	}

	if e.TupleUnit != "" {
		unit, ok := value.LookupUnit(e.TupleUnit)
		if !ok {
			return value.None(), value.ErrUnknownUnit.With(
				slog.String("unit", e.TupleUnit),
			)
		}

		for i, field := range fields {
			var mag float64

			switch {
			case field.Value.Kind == value.KindInteger:
				mag = float64(field.Value.Int)

			case field.Value.Kind == value.KindScalar &&
				field.Value.Quantity == value.Dimensionless:
				mag = field.Value.Num

			default:
				return value.None(), ErrBundledUnit.With(
					slog.String("field", field.Name),
					slog.String("kind", field.Value.Kind.String()),
					slog.String("unit", e.TupleUnit),
				)
			}

			fields[i].Value = value.Scalar(mag*unit.Factor, unit.Quantity)
		}
	}

	return value.NewTuple(fields...), nil
}

// evalName resolves a possibly qualified name to a value. Lexical value
// bindings shadow the symbol tree. Constants evaluate their initializer
// once; callables yield symbol references.
func (c *Context) evalName(
	ctx context.Context,
	e *syntax.Expr,
) (value.Value, error) {
	if len(e.Name) == 1 {
		if v, ok := c.lookupValue(e.Name[0]); ok {
			return v, nil
		}
	}

	s, err := c.navigate(e.Name)
	if err != nil {
		return value.None(), err
	}

	if s.Kind == sym.Constant {
		return c.constValue(ctx, s)
	}

	return value.NewSymbol(s.FullName()), nil
}

// constValue evaluates a constant initializer in its definition scope,
// memoizing the result. In-flight constants are marked with a nil entry
// so initializer cycles fail instead of recursing.
func (c *Context) constValue(
	ctx context.Context,
	s *sym.Symbol,
) (value.Value, error) {
	if v, ok := c.consts[s]; ok {
		if v == nil {
			return value.None(), ErrConstCycle.With(
				slog.String("name", s.FullName()),
			)
		}

		return *v, nil
	}

	c.consts[s] = nil

	c.push(frameWorkbench, s.Parent())
	v, err := c.evalValue(ctx, s.Expr)
	c.pop()

	if err != nil {
		delete(c.consts, s)

		return value.None(), err
	}

	c.consts[s] = &v

	return v, nil
}

func (c *Context) evalBinary(
	ctx context.Context,
	e *syntax.Expr,
) (value.Value, error) {
	x, err := c.evalValue(ctx, e.X)
	if err != nil {
		return value.None(), err
	}

	y, err := c.evalValue(ctx, e.Y)
	if err != nil {
		return value.None(), err
	}

	switch e.Op {
	case '+':
		return value.Add(x, y)
	case '-':
		return value.Sub(x, y)
	case '*':
		return value.Mul(x, y)
	case '/':
		return value.Div(x, y)
	default:
		return value.None(), diag.NewError("unsupported operator").With(
			slog.String("op", string(e.Op)),
		)
	}
}

// evalCall evaluates argument expressions and dispatches the call.
func (c *Context) evalCall(
	ctx context.Context,
	e *syntax.Expr,
	children model.Models,
) (result, error) {
	bound := make([]boundArg, 0, len(e.Call.Args))

	for _, arg := range e.Call.Args {
		v, err := c.evalValue(ctx, arg.Value)
		if err != nil {
			return result{}, err
		}

		bound = append(bound, boundArg{name: arg.Name, val: v, src: arg.Src})
	}

	return c.dispatch(ctx, e.Call, bound, e.Src, children)
}

// dispatch resolves the callee, matches arguments, applies multiplicity,
// and instantiates.
func (c *Context) dispatch(
	ctx context.Context,
	call *syntax.Call,
	bound []boundArg,
	src diag.SrcRef,
	children model.Models,
) (result, error) {
	target, err := c.resolveCallee(call.Name)
	if err != nil {
		return result{}, err
	}

	switch target.Kind {
	case sym.BuiltinSym:
		return c.dispatchBuiltin(ctx, target, bound, src, children)

	case sym.Workbench:
		return c.dispatchWorkbench(ctx, target, bound, src, children)

	default:
		return result{}, ErrNotCallable.With(
			slog.String("name", target.FullName()),
			slog.String("kind", target.Kind.String()),
		)
	}
}

// resolveCallee resolves a call target, following symbol-valued lexical
// bindings so workbench references can be passed as arguments and called.
func (c *Context) resolveCallee(path []string) (*sym.Symbol, error) {
	if len(path) == 1 {
		if v, ok := c.lookupValue(path[0]); ok && v.Kind == value.KindSymbol {
			return c.root.Navigate(strings.Split(v.Symbol, "::"))
		}
	}

	return c.navigate(path)
}

func (c *Context) dispatchBuiltin(
	ctx context.Context,
	s *sym.Symbol,
	bound []boundArg,
	src diag.SrcRef,
	children model.Models,
) (result, error) {
	b := s.Builtin

	args, err := c.match(ctx, s, b.Params, bound, src)
	if err != nil {
		return result{}, err
	}

	if b.Fn != nil {
		if len(children) > 0 {
			return result{}, ErrUnexpectedChildren.With(
				slog.String("name", s.FullName()),
			)
		}

		v, err := b.Fn(args)
		if err != nil {
			return result{}, diag.NewError("builtin call failed").Wrap(err).With(
				slog.String("name", s.FullName()),
			)
		}

		if !b.Pure {
			c.top().impure = true
		}

		return result{val: v}, nil
	}

	combos := expand(b.Params, args)

	models := make(model.Models, 0, len(combos))

	for _, combo := range combos {
		m, err := c.instantiateBuiltin(s, combo, children)
		if err != nil {
			return result{}, err
		}

		models = append(models, m)
	}

	return result{models: models}, nil
}

func (c *Context) instantiateBuiltin(
	s *sym.Symbol,
	args *value.Tuple,
	children model.Models,
) (*model.Model, error) {
	b := s.Builtin

	switch {
	case b.Primitive != "":
		if len(children) > 0 {
			return nil, ErrUnexpectedChildren.With(
				slog.String("name", s.FullName()),
			)
		}

		m := model.NewPrimitive(s, b.Primitive, args)
		m.Pure = m.Pure && !c.top().impure

		return m, nil

	case b.Transform != nil:
		matrix, err := b.Transform(args)
		if err != nil {
			return nil, diag.NewError("transform failed").Wrap(err).With(
				slog.String("name", s.FullName()),
			)
		}

		return model.NewTransform(s, args, matrix, children), nil

	case b.Operation != "":
		return model.NewOperation(s, args, b.Operation, children), nil

	default:
		return nil, ErrNotCallable.With(slog.String("name", s.FullName()))
	}
}

func (c *Context) dispatchWorkbench(
	ctx context.Context,
	s *sym.Symbol,
	bound []boundArg,
	src diag.SrcRef,
	children model.Models,
) (result, error) {
	params, err := workbenchParams(s.Workbench)
	if err != nil {
		return result{}, err
	}

	args, err := c.match(ctx, s, params, bound, src)
	if err != nil {
		return result{}, err
	}

	combos := expand(params, args)

	models := make(model.Models, 0, len(combos))

	for _, combo := range combos {
		m, err := c.instantiateWorkbench(ctx, s, combo, children)
		if err != nil {
			return result{}, err
		}

		models = append(models, m)
	}

	return result{models: models}, nil
}

// workbenchParams converts a definition's parameter list into matcher
// parameters.
func workbenchParams(wb *syntax.WorkbenchDef) ([]sym.Param, error) {
	params := make([]sym.Param, len(wb.Params))

	for i, p := range wb.Params {
		t := value.Any

		if p.Type != "" {
			var err error

			t, err = value.ParseType(p.Type)
			if err != nil {
				return nil, err
			}
		}

		params[i] = sym.Param{Name: p.Name, Type: t, Default: p.Default}
	}

	return params, nil
}

// instantiateWorkbench evaluates a workbench body with its parameters
// bound and wraps the produced models in a workbench node. Operator
// workbenches splice caller children at their @children markers; other
// kinds append caller children after the body's own models.
func (c *Context) instantiateWorkbench(
	ctx context.Context,
	s *sym.Symbol,
	args *value.Tuple,
	children model.Models,
) (*model.Model, error) {
	if c.depth >= maxCallDepth {
		return nil, ErrRecursionLimit.With(
			slog.String("name", s.FullName()),
			slog.Int("depth", c.depth),
		)
	}

	c.depth++
	defer func() { c.depth-- }()

	wb := s.Workbench

	f := c.push(frameWorkbench, s.Parent())

	for _, field := range args.Fields {
		f.values[field.Name] = field.Value
	}

	body, err := c.evalStatements(ctx, wb.Body)

	impure := f.impure

	c.pop()

	if err != nil {
		return nil, err
	}

	if wb.Kind == syntax.Op {
		body = spliceChildren(body, children)
	} else {
		body = c.rejectMarkers(body, s.Src)
		body = append(body, children...)
	}

	node := model.NewWorkbench(s, args, body)
	node.Pure = node.Pure && !impure

	c.logger.TraceContext(ctx, "workbench instantiated",
		slog.String("name", s.FullName()),
		slog.Int("children", len(node.Children)),
	)

	return node, nil
}

// spliceChildren substitutes caller children at every marker in the body
// models. Bodies without markers drop the children.
func spliceChildren(body, children model.Models) model.Models {
	var out model.Models

	for _, m := range body {
		out = append(out, m.SubstituteChildren(children)...)
	}

	return out
}
