// Package syntax defines the source model of the cadl language: statement
// and expression nodes, source references, attribute lists, a hand-written
// recursive-descent parser, a tree printer, and a programmatic builder.
//
// # Grammar
//
// Informal EBNF:
//
//	SourceFile   → Statement* EOF
//	Statement    → Attribute* (Use | Module | Workbench | Const
//	               | Assignment | ExprStatement | '@children' ';')
//	Attribute    → '#[' Ident ('=' Expr)? (',' Ident ('=' Expr)?)* ']'
//	Use          → 'use' QualifiedName ('as' Ident)? ';'
//	Module       → 'mod' Ident '{' Statement* '}'
//	Workbench    → ('sketch'|'part'|'op') Ident '(' Params? ')'
//	               '{' Statement* '}'
//	Param        → Ident (':' TypeName)? ('=' Expr)?
//	Const        → 'const' Ident '=' Expr ';'
//	Assignment   → Ident '=' Expr ';'
//	ExprStatement→ Expr Body? ';'?
//	Expr         → additive arithmetic over literals, lists '[a, b]',
//	               tuples '(x = 1, y = 2)' with optional unit suffix,
//	               calls, and qualified names 'a::b::c'
//
// A trailing '{ ... }' body after a call statement supplies the child
// models passed to the invoked workbench (substituted at its '@children'
// marker, or appended under transform and operation nodes).
package syntax

import (
	"github.com/ardnew/cadl/diag"
)

// SourceFile is the root of a parsed file.
type SourceFile struct {
	// Path identifies the file for diagnostics and the source registry.
	Path string
	// Hash is the xxh3 content hash of the source text.
	Hash uint64
	// Statements in declaration order.
	Statements []*Statement
}

// StmtKind discriminates statement variants.
type StmtKind uint8

const (
	StmtUse StmtKind = iota
	StmtModule
	StmtWorkbench
	StmtConst
	StmtAssign
	StmtExpr
	StmtChildren
)

// String returns the statement kind name.
func (k StmtKind) String() string {
	switch k {
	case StmtUse:
		return "Use"
	case StmtModule:
		return "Module"
	case StmtWorkbench:
		return "Workbench"
	case StmtConst:
		return "Const"
	case StmtAssign:
		return "Assignment"
	case StmtExpr:
		return "Expression"
	case StmtChildren:
		return "Children"
	default:
		return "Unknown"
	}
}

// Statement is the statement tagged union. Exactly one payload field is set
// based on Kind. Attributes apply to the statement they precede and are
// copied onto every model the statement produces.
type Statement struct {
	Kind       StmtKind
	Src        diag.SrcRef
	Attributes []*Attribute

	Use       *UseDecl
	Module    *ModuleDef
	Workbench *WorkbenchDef
	Const     *ConstDecl
	Assign    *Assignment
	Expr      *Expr // StmtExpr
	Body      []*Statement
}

// Attribute is one '#[name = value]' metadata entry. Value may be nil for
// bare flags like '#[export]'.
type Attribute struct {
	Name  string
	Value *Expr
	Src   diag.SrcRef
}

// UseDecl aliases a qualified symbol path into the current scope.
type UseDecl struct {
	Path  []string
	Alias string // optional 'as' name; defaults to the last path segment
}

// ModuleDef declares a named module containing statements.
type ModuleDef struct {
	Name string
	Body []*Statement
}

// WorkbenchKind distinguishes the three workbench flavors: sketches produce
// 2D geometry, parts produce 3D geometry, and ops combine the geometry of
// their children.
type WorkbenchKind uint8

const (
	Sketch WorkbenchKind = iota
	Part
	Op
)

// String returns the source keyword of the workbench kind.
func (k WorkbenchKind) String() string {
	switch k {
	case Sketch:
		return "sketch"
	case Part:
		return "part"
	case Op:
		return "op"
	default:
		return "unknown"
	}
}

// WorkbenchDef declares a parametric shape or operation definition,
// invocable like a function.
type WorkbenchDef struct {
	Kind   WorkbenchKind
	Name   string
	Params []*Param
	Body   []*Statement
}

// Param is one declared parameter: a name, an optional declared type name,
// and an optional default expression evaluated in the caller's context.
type Param struct {
	Name    string
	Type    string
	Default *Expr
	Src     diag.SrcRef
}

// ConstDecl binds a name to a fixed value within the enclosing scope.
type ConstDecl struct {
	Name  string
	Value *Expr
}

// Assignment binds a name to a value in the innermost scope frame.
type Assignment struct {
	Name  string
	Value *Expr
}

// ExprKind discriminates expression variants.
type ExprKind uint8

const (
	ExprNumber ExprKind = iota
	ExprString
	ExprBool
	ExprList
	ExprTuple
	ExprCall
	ExprName
	ExprUnary
	ExprBinary
)

// String returns the expression kind name.
func (k ExprKind) String() string {
	switch k {
	case ExprNumber:
		return "Number"
	case ExprString:
		return "String"
	case ExprBool:
		return "Bool"
	case ExprList:
		return "List"
	case ExprTuple:
		return "Tuple"
	case ExprCall:
		return "Call"
	case ExprName:
		return "Name"
	case ExprUnary:
		return "Unary"
	case ExprBinary:
		return "Binary"
	default:
		return "Unknown"
	}
}

// Expr is the expression tagged union. Exactly one payload group is set
// based on Kind.
type Expr struct {
	Kind ExprKind
	Src  diag.SrcRef

	// ExprNumber
	Num   float64
	IsInt bool
	Unit  string // unit suffix as written, empty when absent

	// ExprString / ExprBool
	Str  string
	Bool bool

	// ExprList
	List []*Expr

	// ExprTuple; TupleUnit is the trailing bundled unit suffix, if any
	Fields    []*TupleField
	TupleUnit string

	// ExprCall
	Call *Call

	// ExprName: qualified path segments
	Name []string

	// ExprUnary / ExprBinary
	Op   byte
	X, Y *Expr
}

// TupleField is one tuple field; Name is empty for positional fields.
type TupleField struct {
	Name  string
	Value *Expr
}

// Call is a workbench or function invocation.
type Call struct {
	Name []string
	Args []*Arg
}

// Arg is one call argument, named when Name is non-empty.
type Arg struct {
	Name  string
	Value *Expr
	Src   diag.SrcRef
}

// QualifiedName joins path segments with the scope separator.
func QualifiedName(path []string) string {
	out := ""
	for i, seg := range path {
		if i > 0 {
			out += "::"
		}

		out += seg
	}

	return out
}
