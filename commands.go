package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"

	"github.com/sirkon/autoctx/internal/host"
	"github.com/sirkon/autoctx/internal/modroot"
)

// Context is shared by all commands.
type Context struct {
	context.Context

	Module modroot.Module
	Engine *host.Engine
	Logger *log.Logger
}

// process runs the engine over paths, the module root by default, and
// prints collected diagnostics. Results are returned along with the error
// when some files were malformed.
func (c *Context) process(paths []string) ([]*host.Result, error) {
	if len(paths) == 0 {
		paths = []string{c.Module.Root}
	}

	results, err := c.Engine.Run(c, paths)
	if perr := c.Engine.Reporter().Print(os.Stderr); perr != nil {
		c.Logger.Warn("failed to print diagnostics", "err", perr)
	}
	if err != nil && !errors.Is(err, host.ErrMalformedSource) {
		return nil, err
	}

	return results, err
}

// RewriteCmd represents the rewrite command
type RewriteCmd struct {
	Paths []string `arg:"" optional:"" type:"path" help:"Files and directories to process"`
	Write bool     `short:"w" help:"Write results to the source files instead of stdout"`
	Diff  bool     `short:"d" help:"Print diffs instead of rewritten sources"`
	List  bool     `short:"l" help:"List files whose annotation would change"`
	Check bool     `help:"Fail when some files are not annotated or diagnostics were reported"`
}

// Run executes the rewrite command
func (cmd *RewriteCmd) Run(ctx *Context) error {
	results, runErr := ctx.process(cmd.Paths)
	if results == nil && runErr != nil {
		return runErr
	}

	var sinks []host.Sink
	if cmd.List {
		sinks = append(sinks, &host.ListSink{W: os.Stdout})
	}
	if cmd.Diff {
		sinks = append(sinks, host.DiffSink{W: os.Stdout})
	}
	if cmd.Write {
		sinks = append(sinks, host.WriteSink{Logger: ctx.Logger})
	}
	if len(sinks) == 0 && !cmd.Check {
		sinks = append(sinks, host.PrintSink{W: os.Stdout})
	}

	for _, sink := range sinks {
		if err := host.Emit(sink, results); err != nil {
			return err
		}
	}

	var changed int
	for _, res := range results {
		if res.Changed() {
			changed++
		}
	}
	if cmd.Check && !cmd.Write && changed > 0 {
		return errors.WithHint(
			errors.Mark(errors.Newf("%d file(s) have markers without up to date annotation", changed), host.ErrChangesPending),
			"run autoctx rewrite -w",
		)
	}
	if cmd.Check && runErr == nil && ctx.Engine.Reporter().Failed() {
		return errors.WithHint(
			errors.New("diagnostics were reported"),
			"markers of unsupported shapes and misplaced directives are listed above",
		)
	}

	return runErr
}

// OverlayCmd represents the overlay command
type OverlayCmd struct {
	Paths []string `arg:"" optional:"" type:"path" help:"Files and directories to process"`
	Dir   string   `default:".autoctx" help:"Directory for annotated copies, relative to the module root"`
}

// Run executes the overlay command
func (cmd *OverlayCmd) Run(ctx *Context) error {
	results, runErr := ctx.process(cmd.Paths)
	if results == nil && runErr != nil {
		return runErr
	}

	dir := cmd.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(ctx.Module.Root, dir)
	}

	if err := host.Emit(&host.OverlaySink{Dir: dir, Logger: ctx.Logger}, results); err != nil {
		return err
	}
	ctx.Logger.Info("build with", "flag", "-overlay="+filepath.Join(dir, host.OverlayFileName))

	return runErr
}

// LabelsCmd represents the labels command
type LabelsCmd struct {
	Paths []string `arg:"" optional:"" type:"path" help:"Files and directories to process"`
}

// Run executes the labels command
func (cmd *LabelsCmd) Run(ctx *Context) error {
	results, runErr := ctx.process(cmd.Paths)
	if results == nil && runErr != nil {
		return runErr
	}

	if err := host.Emit(host.LabelsSink{W: os.Stdout}, results); err != nil {
		return err
	}

	return runErr
}
