package syntax

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/zeebo/xxh3"

	"github.com/ardnew/cadl/diag"
	"github.com/ardnew/cadl/log"
)

// Option configures parsing behavior.
type Option func(*parser)

// WithLogger sets the structured logger for trace-level parser debugging.
// If not provided, the logger is zero-valued and all logging is a no-op.
func WithLogger(logger log.Logger) Option {
	return func(p *parser) {
		p.logger = logger
	}
}

// ParseReader parses a source file from an io.Reader.
func ParseReader(
	ctx context.Context,
	path string,
	r io.Reader,
	opts ...Option,
) (*SourceFile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err).
			With(slog.String("path", path))
	}

	return ParseString(ctx, path, string(data), opts...)
}

// ParseString parses a source file from a string. The path is recorded in
// source references for diagnostics; it need not name an existing file.
func ParseString(
	ctx context.Context,
	path, input string,
	opts ...Option,
) (*SourceFile, error) {
	p := &parser{
		path:  path,
		input: input,
		line:  1,
		col:   1,
	}

	for _, opt := range opts {
		opt(p)
	}

	p.logger.TraceContext(ctx, "parse start",
		slog.String("path", path),
		slog.Int("source_length", len(input)),
	)

	stmts, err := p.parseStatements(0)
	if err != nil {
		return nil, err
	}

	if !p.eof() {
		return nil, p.errorf("unexpected %q", p.peekRune())
	}

	file := &SourceFile{
		Path:       path,
		Hash:       xxh3.Hash([]byte(input)),
		Statements: stmts,
	}

	p.logger.TraceContext(ctx, "parse complete",
		slog.String("path", path),
		slog.Int("statement_count", len(stmts)),
	)

	return file, nil
}

// parser holds lexical state. There is no separate token stream; the
// grammar is small enough to scan in place, as lang-style hand parsers do.
type parser struct {
	path   string
	input  string
	pos    int
	line   int
	col    int
	logger log.Logger
}

func (p *parser) eof() bool { return p.pos >= len(p.input) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}

	return p.input[p.pos]
}

func (p *parser) peekRune() rune {
	if p.eof() {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(p.input[p.pos:])

	return r
}

// advance consumes one rune and tracks line/column.
func (p *parser) advance() rune {
	r, size := utf8.DecodeRuneInString(p.input[p.pos:])
	p.pos += size

	if r == '\n' {
		p.line++
		p.col = 1
	} else {
		p.col++
	}

	return r
}

func (p *parser) src() diag.SrcRef {
	return diag.SrcRef{Path: p.path, Line: p.line, Col: p.col}
}

// has reports whether the input at the cursor begins with s.
func (p *parser) has(s string) bool {
	return strings.HasPrefix(p.input[p.pos:], s)
}

// accept consumes s if the input begins with it.
func (p *parser) accept(s string) bool {
	if !p.has(s) {
		return false
	}

	for range s {
		p.advance()
	}

	return true
}

// expect consumes s or fails with a parse error.
func (p *parser) expect(s string) error {
	if !p.accept(s) {
		return p.errorf("expected %q", s)
	}

	return nil
}

// skipSpace consumes whitespace and comments ("//" to end of line and
// "/* */" blocks).
func (p *parser) skipSpace() {
	for !p.eof() {
		switch {
		case unicode.IsSpace(p.peekRune()):
			p.advance()

		case p.has("//"):
			for !p.eof() && p.peek() != '\n' {
				p.advance()
			}

		case p.has("/*"):
			p.advance()
			p.advance()

			for !p.eof() && !p.has("*/") {
				p.advance()
			}

			p.accept("*/")

		default:
			return
		}
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// parseIdent consumes an identifier.
func (p *parser) parseIdent() (string, error) {
	if p.eof() || !isIdentStart(p.peekRune()) {
		return "", p.errorf("expected identifier")
	}

	start := p.pos
	for !p.eof() && isIdentPart(p.peekRune()) {
		p.advance()
	}

	return p.input[start:p.pos], nil
}

// peekKeyword reports whether the next token is the given keyword followed
// by a non-identifier rune.
func (p *parser) peekKeyword(kw string) bool {
	if !p.has(kw) {
		return false
	}

	rest := p.input[p.pos+len(kw):]
	if rest == "" {
		return true
	}

	r, _ := utf8.DecodeRuneInString(rest)

	return !isIdentPart(r)
}

// acceptKeyword consumes the keyword if present.
func (p *parser) acceptKeyword(kw string) bool {
	if !p.peekKeyword(kw) {
		return false
	}

	for range kw {
		p.advance()
	}

	return true
}

// parseStatements parses statements until EOF (depth 0) or a closing '}'.
func (p *parser) parseStatements(depth int) ([]*Statement, error) {
	var stmts []*Statement

	for {
		p.skipSpace()

		if p.eof() || (depth > 0 && p.peek() == '}') {
			return stmts, nil
		}

		st, err := p.parseStatement(depth)
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, st)
	}
}

func (p *parser) parseStatement(depth int) (*Statement, error) {
	attrs, err := p.parseAttributes()
	if err != nil {
		return nil, err
	}

	p.skipSpace()
	src := p.src()

	var st *Statement

	switch {
	case p.peekKeyword("use"):
		st, err = p.parseUse()

	case p.peekKeyword("mod"):
		st, err = p.parseModule(depth)

	case p.peekKeyword("sketch"):
		st, err = p.parseWorkbench(Sketch, depth)

	case p.peekKeyword("part"):
		st, err = p.parseWorkbench(Part, depth)

	case p.peekKeyword("op"):
		st, err = p.parseWorkbench(Op, depth)

	case p.peekKeyword("const"):
		st, err = p.parseConst()

	case p.has("@children"):
		for range "@children" {
			p.advance()
		}

		p.skipSpace()
		p.accept(";")

		st = &Statement{Kind: StmtChildren}

	default:
		st, err = p.parseSimpleStatement(depth)
	}

	if err != nil {
		return nil, err
	}

	st.Src = src
	st.Attributes = attrs

	return st, nil
}

// parseAttributes parses zero or more '#[...]' attribute lists preceding a
// statement. Multiple lists concatenate.
func (p *parser) parseAttributes() ([]*Attribute, error) {
	var attrs []*Attribute

	for {
		p.skipSpace()

		if !p.accept("#[") {
			return attrs, nil
		}

		for {
			p.skipSpace()
			src := p.src()

			name, err := p.parseIdent()
			if err != nil {
				return nil, err
			}

			attr := &Attribute{Name: name, Src: src}

			p.skipSpace()

			if p.accept("=") {
				attr.Value, err = p.parseExpr()
				if err != nil {
					return nil, err
				}
			}

			attrs = append(attrs, attr)

			p.skipSpace()

			if p.accept(",") {
				continue
			}

			if err := p.expect("]"); err != nil {
				return nil, err
			}

			break
		}
	}
}

func (p *parser) parseUse() (*Statement, error) {
	p.acceptKeyword("use")
	p.skipSpace()

	path, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}

	use := &UseDecl{Path: path}

	p.skipSpace()

	if p.acceptKeyword("as") {
		p.skipSpace()

		use.Alias, err = p.parseIdent()
		if err != nil {
			return nil, err
		}

		p.skipSpace()
	}

	if err := p.expect(";"); err != nil {
		return nil, err
	}

	return &Statement{Kind: StmtUse, Use: use}, nil
}

func (p *parser) parseModule(depth int) (*Statement, error) {
	p.acceptKeyword("mod")
	p.skipSpace()

	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock(depth)
	if err != nil {
		return nil, err
	}

	return &Statement{
		Kind:   StmtModule,
		Module: &ModuleDef{Name: name, Body: body},
	}, nil
}

func (p *parser) parseWorkbench(
	kind WorkbenchKind,
	depth int,
) (*Statement, error) {
	p.acceptKeyword(kind.String())
	p.skipSpace()

	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if err := p.expect("("); err != nil {
		return nil, err
	}

	params, err := p.parseParams()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBlock(depth)
	if err != nil {
		return nil, err
	}

	return &Statement{
		Kind: StmtWorkbench,
		Workbench: &WorkbenchDef{
			Kind:   kind,
			Name:   name,
			Params: params,
			Body:   body,
		},
	}, nil
}

// parseParams parses the parameter list after '(' up to and including ')'.
func (p *parser) parseParams() ([]*Param, error) {
	var params []*Param

	p.skipSpace()

	if p.accept(")") {
		return params, nil
	}

	for {
		p.skipSpace()
		src := p.src()

		name, err := p.parseIdent()
		if err != nil {
			return nil, err
		}

		param := &Param{Name: name, Src: src}

		p.skipSpace()

		if p.accept(":") {
			p.skipSpace()

			param.Type, err = p.parseIdent()
			if err != nil {
				return nil, err
			}

			p.skipSpace()
		}

		if p.accept("=") {
			param.Default, err = p.parseExpr()
			if err != nil {
				return nil, err
			}

			p.skipSpace()
		}

		params = append(params, param)

		if p.accept(",") {
			continue
		}

		if err := p.expect(")"); err != nil {
			return nil, err
		}

		return params, nil
	}
}

// parseBlock parses '{' Statement* '}'.
func (p *parser) parseBlock(depth int) ([]*Statement, error) {
	p.skipSpace()

	if err := p.expect("{"); err != nil {
		return nil, err
	}

	body, err := p.parseStatements(depth + 1)
	if err != nil {
		return nil, err
	}

	if err := p.expect("}"); err != nil {
		return nil, err
	}

	return body, nil
}

func (p *parser) parseConst() (*Statement, error) {
	p.acceptKeyword("const")
	p.skipSpace()

	name, err := p.parseIdent()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if err := p.expect("="); err != nil {
		return nil, err
	}

	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if err := p.expect(";"); err != nil {
		return nil, err
	}

	return &Statement{Kind: StmtConst, Const: &ConstDecl{Name: name, Value: val}}, nil
}

// parseSimpleStatement parses an assignment or an expression statement with
// an optional trailing body.
func (p *parser) parseSimpleStatement(depth int) (*Statement, error) {
	// Lookahead for 'ident =' which marks an assignment.
	if isIdentStart(p.peekRune()) {
		save := *p

		name, err := p.parseIdent()
		if err == nil {
			p.skipSpace()

			if p.peek() == '=' && !p.has("==") {
				p.advance()

				val, err := p.parseExpr()
				if err != nil {
					return nil, err
				}

				p.skipSpace()

				if err := p.expect(";"); err != nil {
					return nil, err
				}

				return &Statement{
					Kind:   StmtAssign,
					Assign: &Assignment{Name: name, Value: val},
				}, nil
			}
		}

		*p = save
	}

	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	st := &Statement{Kind: StmtExpr, Expr: expr}

	p.skipSpace()

	if p.peek() == '{' {
		st.Body, err = p.parseBlock(depth)
		if err != nil {
			return nil, err
		}

		p.skipSpace()
	}

	p.accept(";")

	return st, nil
}

// parseQualifiedName parses 'ident (:: ident)*'.
func (p *parser) parseQualifiedName() ([]string, error) {
	seg, err := p.parseIdent()
	if err != nil {
		return nil, err
	}

	path := []string{seg}

	for p.has("::") {
		p.advance()
		p.advance()

		seg, err = p.parseIdent()
		if err != nil {
			return nil, err
		}

		path = append(path, seg)
	}

	return path, nil
}

// Expression parsing, by descending precedence.

func (p *parser) parseExpr() (*Expr, error) {
	return p.parseAdditive()
}

func (p *parser) parseAdditive() (*Expr, error) {
	lhs, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for {
		p.skipSpace()

		op := p.peek()
		if op != '+' && op != '-' {
			return lhs, nil
		}

		src := p.src()
		p.advance()

		rhs, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}

		lhs = &Expr{Kind: ExprBinary, Src: src, Op: op, X: lhs, Y: rhs}
	}
}

func (p *parser) parseMultiplicative() (*Expr, error) {
	lhs, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		p.skipSpace()

		op := p.peek()
		if op != '*' && op != '/' || p.has("//") || p.has("/*") {
			return lhs, nil
		}

		src := p.src()
		p.advance()

		rhs, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		lhs = &Expr{Kind: ExprBinary, Src: src, Op: op, X: lhs, Y: rhs}
	}
}

func (p *parser) parseUnary() (*Expr, error) {
	p.skipSpace()

	if p.peek() == '-' {
		src := p.src()
		p.advance()

		x, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &Expr{Kind: ExprUnary, Src: src, Op: '-', X: x}, nil
	}

	return p.parsePrimary()
}

func (p *parser) parsePrimary() (*Expr, error) {
	p.skipSpace()
	src := p.src()

	switch {
	case p.eof():
		return nil, p.errorf("unexpected end of input")

	case p.peek() >= '0' && p.peek() <= '9' || p.peek() == '.':
		return p.parseNumber()

	case p.peek() == '"':
		return p.parseString()

	case p.peek() == '[':
		return p.parseList()

	case p.peek() == '(':
		return p.parseTupleOrGroup()

	case p.peekKeyword("true"):
		p.acceptKeyword("true")

		return &Expr{Kind: ExprBool, Src: src, Bool: true}, nil

	case p.peekKeyword("false"):
		p.acceptKeyword("false")

		return &Expr{Kind: ExprBool, Src: src, Bool: false}, nil

	case isIdentStart(p.peekRune()):
		return p.parseNameOrCall()

	default:
		return nil, p.errorf("unexpected %q", p.peekRune())
	}
}

// parseNumber parses a numeric literal with an optional unit suffix written
// immediately after the digits (10mm, 2.5in, 90deg, 50%).
func (p *parser) parseNumber() (*Expr, error) {
	src := p.src()
	start := p.pos
	isInt := true

	for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
		p.advance()
	}

	if p.peek() == '.' {
		isInt = false

		p.advance()

		for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
			p.advance()
		}
	}

	if p.peek() == 'e' || p.peek() == 'E' {
		isInt = false

		p.advance()

		if p.peek() == '+' || p.peek() == '-' {
			p.advance()
		}

		for !p.eof() && p.peek() >= '0' && p.peek() <= '9' {
			p.advance()
		}
	}

	text := p.input[start:p.pos]

	num, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errorf("invalid number %q", text)
	}

	unit := p.parseUnitSuffix()
	if unit != "" {
		isInt = false
	}

	return &Expr{Kind: ExprNumber, Src: src, Num: num, IsInt: isInt, Unit: unit}, nil
}

// parseUnitSuffix consumes a unit suffix immediately at the cursor: a run
// of letters (including µ) or '%', optionally followed by a power digit
// (mm2, cm3). Returns "" when the cursor is not on a suffix.
func (p *parser) parseUnitSuffix() string {
	start := p.pos

	for !p.eof() {
		r := p.peekRune()
		if unicode.IsLetter(r) || r == '%' || r == 'µ' {
			p.advance()

			continue
		}

		break
	}

	if p.pos == start {
		return ""
	}

	for !p.eof() && p.peek() >= '2' && p.peek() <= '3' {
		p.advance()
	}

	return p.input[start:p.pos]
}

func (p *parser) parseString() (*Expr, error) {
	src := p.src()
	start := p.pos

	p.advance() // opening quote

	for !p.eof() && p.peek() != '"' {
		if p.peek() == '\\' {
			p.advance()
		}

		if !p.eof() {
			p.advance()
		}
	}

	if p.eof() {
		return nil, p.errorf("unterminated string")
	}

	p.advance() // closing quote

	text, err := strconv.Unquote(p.input[start:p.pos])
	if err != nil {
		return nil, p.errorf("invalid string literal")
	}

	return &Expr{Kind: ExprString, Src: src, Str: text}, nil
}

func (p *parser) parseList() (*Expr, error) {
	src := p.src()

	p.advance() // '['
	p.skipSpace()

	list := &Expr{Kind: ExprList, Src: src}

	if p.accept("]") {
		return list, nil
	}

	for {
		item, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		list.List = append(list.List, item)

		p.skipSpace()

		if p.accept(",") {
			continue
		}

		if err := p.expect("]"); err != nil {
			return nil, err
		}

		return list, nil
	}
}

// parseTupleOrGroup parses '( ... )'. A single unnamed element with no
// trailing unit suffix is a parenthesized expression; anything else is a
// tuple literal. A unit suffix written immediately after ')' bundles onto
// the tuple's unitless numeric fields.
func (p *parser) parseTupleOrGroup() (*Expr, error) {
	src := p.src()

	p.advance() // '('
	p.skipSpace()

	var fields []*TupleField

	named := false

	if !p.accept(")") {
		for {
			field, err := p.parseTupleField()
			if err != nil {
				return nil, err
			}

			if field.Name != "" {
				named = true
			}

			fields = append(fields, field)

			p.skipSpace()

			if p.accept(",") {
				p.skipSpace()

				continue
			}

			if err := p.expect(")"); err != nil {
				return nil, err
			}

			break
		}
	}

	unit := p.parseUnitSuffix()

	if len(fields) == 1 && !named && unit == "" {
		return fields[0].Value, nil
	}

	return &Expr{
		Kind:      ExprTuple,
		Src:       src,
		Fields:    fields,
		TupleUnit: unit,
	}, nil
}

func (p *parser) parseTupleField() (*TupleField, error) {
	p.skipSpace()

	if isIdentStart(p.peekRune()) {
		save := *p

		name, err := p.parseIdent()
		if err == nil {
			p.skipSpace()

			if p.peek() == '=' && !p.has("==") {
				p.advance()

				val, err := p.parseExpr()
				if err != nil {
					return nil, err
				}

				return &TupleField{Name: name, Value: val}, nil
			}
		}

		*p = save
	}

	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &TupleField{Value: val}, nil
}

// parseNameOrCall parses a qualified name, promoted to a call when an
// argument list follows.
func (p *parser) parseNameOrCall() (*Expr, error) {
	src := p.src()

	path, err := p.parseQualifiedName()
	if err != nil {
		return nil, err
	}

	p.skipSpace()

	if p.peek() != '(' {
		return &Expr{Kind: ExprName, Src: src, Name: path}, nil
	}

	p.advance() // '('

	call := &Call{Name: path}

	p.skipSpace()

	if p.accept(")") {
		return &Expr{Kind: ExprCall, Src: src, Call: call}, nil
	}

	for {
		arg, err := p.parseArg()
		if err != nil {
			return nil, err
		}

		call.Args = append(call.Args, arg)

		p.skipSpace()

		if p.accept(",") {
			continue
		}

		if err := p.expect(")"); err != nil {
			return nil, err
		}

		return &Expr{Kind: ExprCall, Src: src, Call: call}, nil
	}
}

func (p *parser) parseArg() (*Arg, error) {
	p.skipSpace()
	src := p.src()

	if isIdentStart(p.peekRune()) {
		save := *p

		name, err := p.parseIdent()
		if err == nil {
			p.skipSpace()

			if p.peek() == '=' && !p.has("==") {
				p.advance()

				val, err := p.parseExpr()
				if err != nil {
					return nil, err
				}

				return &Arg{Name: name, Value: val, Src: src}, nil
			}
		}

		*p = save
	}

	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}

	return &Arg{Value: val, Src: src}, nil
}
