// Package cli contains the command line interface for cadl.
//
// # Usage
//
// The CLI exposes one subcommand per stage of the pipeline:
//
//	cadl parse model.cadl            # print the syntax tree
//	cadl resolve model.cadl          # print the symbol graph
//	cadl eval model.cadl             # print the model tree
//	cadl export -o out.stl model.cadl
//	cadl create -t box enclosure     # scaffold enclosure.cadl
//	cadl watch -o out.stl model.cadl # re-export on change
//
// Source files named without a directory are searched through the
// directories of CADL_PATH; --path prepends additional directories.
//
// The eval, export, and watch commands accept --name to instantiate a
// single workbench by qualified name and --arg name=expr bindings for
// its parameters. Argument expressions are evaluated by expr-lang, so
// '--arg n=[4,6,8]' binds a list and expands the call across its
// elements.
//
// # Configuration
//
// Flags may be set persistently in a YAML config file under the user
// config directory (cadl/config.yaml). Nested mappings compose flag
// names with hyphens:
//
//	log:
//	  level: debug
//	  pretty: true
//
// Command-line flags override config file values.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (json, text)
//   - --log-time-layout: Set timestamp format (RFC3339, RFC3339Nano, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Enable colorized pretty printing
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o cadl .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory
package cli
