// Command autoctx annotates fallible markers with the place they are called
// from, so errors passing through them carry a readable trace:
//
//	autoctx rewrite -w ./...
//	autoctx overlay --dir .autoctx && go build -overlay .autoctx/overlay.json
//
// Only functions marked with the //autoctx:annotate directive, and methods of
// types marked with it, are instrumented unless configured otherwise.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"

	"github.com/sirkon/autoctx/internal/config"
	"github.com/sirkon/autoctx/internal/host"
	"github.com/sirkon/autoctx/internal/modroot"
)

// CLI represents the command-line interface
var CLI struct {
	Config   string `help:"Configuration file path, ${config_file} at the module root by default" type:"path"`
	LogLevel string `help:"Log level: debug, info, warn, error" placeholder:"LEVEL"`
	Root     string `help:"Module root, the nearest go.mod up from the working directory by default" type:"existingdir"`

	Rewrite RewriteCmd `cmd:"" help:"Annotate markers and print, list, diff or write the results"`
	Overlay OverlayCmd `cmd:"" help:"Write annotated copies and an overlay file for go build -overlay"`
	Labels  LabelsCmd  `cmd:"" help:"Print the annotation of every marker without rewriting"`
}

func main() {
	kctx := kong.Parse(&CLI,
		kong.Name("autoctx"),
		kong.Description("Annotate fallible markers with their provenance"),
		kong.UsageOnError(),
		kong.Vars{"config_file": config.FileName},
	)

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix: "autoctx",
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	appCtx, err := setup(ctx, logger)
	if err != nil {
		logger.Error("failed to start", "err", err)
		if hint := errors.FlattenHints(err); hint != "" {
			logger.Info(hint)
		}
		os.Exit(1)
	}

	if err := kctx.Run(appCtx); err != nil {
		logger.Error(err.Error())
		if hint := errors.FlattenHints(err); hint != "" {
			logger.Info(hint)
		}
		cancel()
		os.Exit(1)
	}
}

// setup finds the module, loads its configuration and creates the engine.
func setup(ctx context.Context, logger *log.Logger) (*Context, error) {
	dir := CLI.Root
	if dir == "" {
		dir = "."
	}

	mod, err := modroot.Find(dir)
	if err != nil {
		return nil, errors.Wrap(err, "find module root")
	}

	cfgPath, optional := CLI.Config, false
	if cfgPath == "" {
		cfgPath, optional = filepath.Join(mod.Root, config.FileName), true
	}

	cfg, err := config.Load(cfgPath, optional)
	if err != nil {
		return nil, errors.Wrap(err, "load config")
	}

	level := cfg.LogLevel
	if CLI.LogLevel != "" {
		level = CLI.LogLevel
	}
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, errors.WithHint(errors.Wrap(err, "parse log level"), "use one of debug, info, warn, error")
	}
	logger.SetLevel(lvl)
	logger.Debug("module found", "root", mod.Root, "path", mod.Path)

	return &Context{
		Context: ctx,
		Module:  mod,
		Engine:  host.NewEngine(mod, cfg, logger),
		Logger:  logger,
	}, nil
}
