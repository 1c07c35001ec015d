package syntax

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Print writes an indented listing of the file's statement tree to w.
func Print(w io.Writer, file *SourceFile) {
	for _, st := range file.Statements {
		printStatement(w, st, 0)
	}
}

func printStatement(w io.Writer, st *Statement, depth int) {
	pad := strings.Repeat("  ", depth)

	for _, attr := range st.Attributes {
		if attr.Value != nil {
			fmt.Fprintf(w, "%s#[%s = %s]\n", pad, attr.Name, FormatExpr(attr.Value))
		} else {
			fmt.Fprintf(w, "%s#[%s]\n", pad, attr.Name)
		}
	}

	switch st.Kind {
	case StmtUse:
		if st.Use.Alias != "" {
			fmt.Fprintf(w, "%suse %s as %s\n",
				pad, QualifiedName(st.Use.Path), st.Use.Alias)
		} else {
			fmt.Fprintf(w, "%suse %s\n", pad, QualifiedName(st.Use.Path))
		}

	case StmtModule:
		fmt.Fprintf(w, "%smod %s\n", pad, st.Module.Name)

		for _, sub := range st.Module.Body {
			printStatement(w, sub, depth+1)
		}

	case StmtWorkbench:
		wb := st.Workbench

		params := make([]string, len(wb.Params))
		for i, param := range wb.Params {
			params[i] = paramString(param)
		}

		fmt.Fprintf(w, "%s%s %s(%s)\n",
			pad, wb.Kind, wb.Name, strings.Join(params, ", "))

		for _, sub := range wb.Body {
			printStatement(w, sub, depth+1)
		}

	case StmtConst:
		fmt.Fprintf(w, "%sconst %s = %s\n",
			pad, st.Const.Name, FormatExpr(st.Const.Value))

	case StmtAssign:
		fmt.Fprintf(w, "%s%s = %s\n",
			pad, st.Assign.Name, FormatExpr(st.Assign.Value))

	case StmtExpr:
		fmt.Fprintf(w, "%s%s\n", pad, FormatExpr(st.Expr))

		for _, sub := range st.Body {
			printStatement(w, sub, depth+1)
		}

	case StmtChildren:
		fmt.Fprintf(w, "%s@children\n", pad)
	}
}

func paramString(p *Param) string {
	var sb strings.Builder

	sb.WriteString(p.Name)

	if p.Type != "" {
		sb.WriteString(": ")
		sb.WriteString(p.Type)
	}

	if p.Default != nil {
		sb.WriteString(" = ")
		sb.WriteString(FormatExpr(p.Default))
	}

	return sb.String()
}

// FormatExpr renders an expression as source text. Operator nesting is
// always parenthesized, so the result round-trips but is not guaranteed
// to match the input byte for byte.
func FormatExpr(e *Expr) string {
	if e == nil {
		return ""
	}

	switch e.Kind {
	case ExprNumber:
		var s string
		if e.IsInt {
			s = strconv.FormatInt(int64(e.Num), 10)
		} else {
			s = strconv.FormatFloat(e.Num, 'g', -1, 64)
		}

		return s + e.Unit

	case ExprString:
		return strconv.Quote(e.Str)

	case ExprBool:
		return strconv.FormatBool(e.Bool)

	case ExprList:
		items := make([]string, len(e.List))
		for i, item := range e.List {
			items[i] = FormatExpr(item)
		}

		return "[" + strings.Join(items, ", ") + "]"

	case ExprTuple:
		fields := make([]string, len(e.Fields))

		for i, field := range e.Fields {
			if field.Name != "" {
				fields[i] = field.Name + " = " + FormatExpr(field.Value)
			} else {
				fields[i] = FormatExpr(field.Value)
			}
		}

		return "(" + strings.Join(fields, ", ") + ")" + e.TupleUnit

	case ExprCall:
		args := make([]string, len(e.Call.Args))

		for i, arg := range e.Call.Args {
			if arg.Name != "" {
				args[i] = arg.Name + " = " + FormatExpr(arg.Value)
			} else {
				args[i] = FormatExpr(arg.Value)
			}
		}

		return QualifiedName(e.Call.Name) + "(" + strings.Join(args, ", ") + ")"

	case ExprName:
		return QualifiedName(e.Name)

	case ExprUnary:
		return "-" + FormatExpr(e.X)

	case ExprBinary:
		return "(" + FormatExpr(e.X) + " " + string(e.Op) + " " +
			FormatExpr(e.Y) + ")"

	default:
		return ""
	}
}
