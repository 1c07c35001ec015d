package cli

import (
	"context"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/cadl/cli/cmd"
	"github.com/ardnew/cadl/pkg"
)

// CLI is the top-level command-line interface for cadl.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	Path []string `help:"Additional model search directories (prepended to CADL_PATH)" name:"path" short:"I" type:"existingdir"`

	Parse   cmd.Parse   `cmd:"" help:"Parse source files and print their syntax trees"`
	Resolve cmd.Resolve `cmd:"" help:"Resolve symbols and print the symbol graph"`
	Eval    cmd.Eval    `cmd:"" default:"withargs" help:"Evaluate source files and print the model tree"`
	Export  cmd.Export  `cmd:"" help:"Evaluate, render, and write geometry to a file"`
	Create  cmd.Create  `cmd:"" help:"Scaffold a new model source file from a template"`
	Watch   cmd.Watch   `cmd:"" help:"Re-export whenever watched sources change"`

	Version kong.VersionFlag `help:"Print version and exit" short:"V"`
}

// Run executes the cadl CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	err := mkdirAllRequired()
	if err != nil {
		return err
	}

	configFilePath := configPath(baseConfig + ".yaml")

	vars := kong.Vars{
		cmd.ConfigIdentifier: configFilePath,
		cmd.CacheIdentifier:  pkg.CacheDir(),
		"version":            pkg.Name + " " + strings.TrimSpace(pkg.Version),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags to ensure early configuration regardless of
	// flag position. TextUnmarshaler on logFormat/logLevel handles those flags
	// during normal parsing, but this early scan also catches boolean flags
	// like --log-pretty.
	cli.Log.scan(args)

	// Commands receive the fully decorated context through this provider,
	// assigned below after parsing.
	runCtx := ctx

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return runCtx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				FlagsLast:           false,
				NoAppSummary:        false,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolveYAML, configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	// Stuff additional context values for use by commands
	runCtx = cmd.WithContext(runCtx, ktx)
	runCtx = cmd.WithSearchPath(runCtx, searchPath(cli.Path...))

	// Finalize logger configuration with all parsed values including
	// TimeLayout and Caller which don't use TextUnmarshaler.
	cli.Log.start(runCtx)

	// [pprofConfig.start] is no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(runCtx)()

	// Execute the selected command
	return ktx.Run(runCtx, &cli)
}
