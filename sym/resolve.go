package sym

import (
	"github.com/ardnew/cadl/diag"
	"github.com/ardnew/cadl/syntax"
)

// Declare registers the declarations of file into scope. Duplicate names
// are recorded in sink and the earlier declaration wins.
//
// Use statements are not bound here; they may name declarations from
// files not yet declared. Bind them afterward with [BindUses].
func Declare(scope *Symbol, file *syntax.SourceFile, sink *diag.Sink) {
	declareBody(scope, file.Statements, sink)
}

func declareBody(scope *Symbol, body []*syntax.Statement, sink *diag.Sink) {
	for _, st := range body {
		switch st.Kind {
		case syntax.StmtModule:
			child := &Symbol{
				Kind: Module,
				Name: st.Module.Name,
				Src:  st.Src,
			}

			if err := scope.Add(child); err != nil {
				sink.Record(diag.SeverityError, st.Src, err)

				continue
			}

			declareBody(child, st.Module.Body, sink)

		case syntax.StmtWorkbench:
			child := &Symbol{
				Kind:      Workbench,
				Name:      st.Workbench.Name,
				Src:       st.Src,
				Workbench: st.Workbench,
			}

			if err := scope.Add(child); err != nil {
				sink.Record(diag.SeverityError, st.Src, err)
			}

		case syntax.StmtConst:
			child := &Symbol{
				Kind: Constant,
				Name: st.Const.Name,
				Src:  st.Src,
				Expr: st.Const.Value,
			}

			if err := scope.Add(child); err != nil {
				sink.Record(diag.SeverityError, st.Src, err)
			}
		}
	}
}

// BindUses resolves the use statements of file against root and binds
// alias symbols into scope. Call after every file has been declared so
// later files can satisfy earlier imports.
func BindUses(
	scope, root *Symbol,
	file *syntax.SourceFile,
	sink *diag.Sink,
) {
	bindUsesBody(scope, root, file.Statements, sink)
}

func bindUsesBody(
	scope, root *Symbol,
	body []*syntax.Statement,
	sink *diag.Sink,
) {
	for _, st := range body {
		switch st.Kind {
		case syntax.StmtUse:
			target, err := root.Navigate(st.Use.Path)
			if err != nil {
				sink.Record(diag.SeverityError, st.Src, err)

				continue
			}

			name := st.Use.Alias
			if name == "" {
				name = st.Use.Path[len(st.Use.Path)-1]
			}

			alias := &Symbol{
				Kind:   Alias,
				Name:   name,
				Src:    st.Src,
				Target: target,
			}

			if err := scope.Add(alias); err != nil {
				sink.Record(diag.SeverityError, st.Src, err)
			}

		case syntax.StmtModule:
			if child, ok := scope.Lookup(st.Module.Name); ok {
				bindUsesBody(child, root, st.Module.Body, sink)
			}
		}
	}
}
