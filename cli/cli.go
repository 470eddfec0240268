package cli

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/ardnew/kdn/cli/cmd"
	"github.com/ardnew/kdn/pkg"
)

// configFile is the name of the YAML configuration file in the user's
// configuration directory.
const configFile = "config.yaml"

// CLI is the top-level command-line interface for kdn.
type CLI struct {
	Log   logConfig   `embed:"" group:"log"   prefix:"log-"`
	Pprof pprofConfig `embed:"" group:"pprof" prefix:"pprof-"`

	cmd.Globals

	Version kong.VersionFlag `help:"Print the version and exit." short:"V"`

	Run    cmd.Run    `cmd:"" default:"withargs" help:"Run scripts (default)."`
	Check  cmd.Check  `cmd:""                    help:"Check script syntax without running."`
	Tokens cmd.Tokens `cmd:""                    help:"Print the tokens of a script."`
	Fmt    cmd.Fmt    `cmd:""                    help:"Format a script."`
	Repl   cmd.Repl   `cmd:""                    help:"Start an interactive session."`
	Init   cmd.Init   `cmd:""                    help:"Write a configuration file holding the current settings."`
}

// Run executes the kdn CLI with the given context and arguments.
// The exit function is called with the appropriate exit code upon completion.
func Run(
	ctx context.Context,
	exit func(code int),
	args ...string,
) error {
	var cli CLI

	if err := pkg.MkdirAll(); err != nil {
		return err
	}

	configFilePath := pkg.ConfigPath(configFile)

	vars := kong.Vars{
		"version":             pkg.Version,
		cmd.ConfigIdentifier:  configFilePath,
		cmd.CacheIdentifier:   pkg.CacheDir(),
		cmd.HistoryIdentifier: pkg.CachePath(cmd.HistoryIdentifier),
	}.
		CloneWith(cli.Log.vars()).
		CloneWith(cli.Pprof.vars())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Pre-scan for logger flags so parse errors are already reported with the
	// requested level and format, wherever the flags appear.
	cli.Log.scan(args)

	parser, err := kong.New(&cli,
		kong.Name(pkg.Name),
		kong.Description(pkg.Description),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.ExplicitGroups(
			[]kong.Group{cli.Log.group(), cli.Pprof.group()},
		),
		kong.BindSingletonProvider(func() context.Context {
			return ctx
		}),
		kong.ConfigureHelp(
			kong.HelpOptions{
				Compact:             true,
				Summary:             true,
				Tree:                true,
				NoExpandSubcommands: true,
			}),
		kong.Configuration(resolve(ctx), configFilePath),
		vars,
	)
	if err != nil {
		return err
	}

	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	ctx = cmd.WithContext(ctx, ktx)

	// TimeLayout and Caller are only known once parsing completes.
	cli.Log.start(ctx)

	// [pprofConfig.start] is a no-op unless built with tag pprof and enabled.
	defer cli.Pprof.start(ctx)()

	return ktx.Run(&cli.Globals)
}
