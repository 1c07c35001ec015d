package cmd

import "github.com/ardnew/cadl/diag"

var (
	// ErrNoSource indicates a command invoked with no source files.
	ErrNoSource = diag.NewError("no source files")

	// ErrSourceNotFound indicates a source file absent from the search path.
	ErrSourceNotFound = diag.NewError("source file not found")

	// ErrDiagnostics indicates a command that completed with error-level
	// diagnostics.
	ErrDiagnostics = diag.NewError("diagnostics reported errors")

	// ErrArgument indicates a malformed --arg binding.
	ErrArgument = diag.NewError("invalid argument binding")

	// ErrFileExists indicates a scaffold target already present.
	ErrFileExists = diag.NewError("file exists (use --force to overwrite)")

	// ErrUnknownTemplate indicates a create template with no definition.
	ErrUnknownTemplate = diag.NewError("unknown template")

	// ErrWriteOutput indicates a failure writing an output file.
	ErrWriteOutput = diag.NewError("write output file")
)
