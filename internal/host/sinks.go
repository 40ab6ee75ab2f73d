package host

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/cockroachdb/errors"
	"github.com/google/renameio/v2"
	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
	"github.com/zeebo/blake3"

	"github.com/sirkon/autoctx/internal/instrument"
)

// Sink consumes processing results.
type Sink interface {
	Emit(res *Result) error
	Flush() error
}

// Emit passes results to the sink and flushes it.
func Emit(sink Sink, results []*Result) error {
	for _, res := range results {
		if err := sink.Emit(res); err != nil {
			return errors.Wrapf(err, "emit %s", res.Rel)
		}
	}

	return sink.Flush()
}

// PrintSink writes rewritten sources of every file.
type PrintSink struct {
	W io.Writer
}

func (s PrintSink) Emit(res *Result) error {
	_, err := s.W.Write(res.Rewritten)
	return err
}

func (PrintSink) Flush() error { return nil }

// ListSink writes paths of files that change.
type ListSink struct {
	W io.Writer

	changed int
}

func (s *ListSink) Emit(res *Result) error {
	if !res.Changed() {
		return nil
	}

	s.changed++
	_, err := fmt.Fprintln(s.W, res.Path)
	return err
}

func (*ListSink) Flush() error { return nil }

// Changed returns how many files were listed.
func (s *ListSink) Changed() int {
	return s.changed
}

// DiffSink writes unified diffs of files that change.
type DiffSink struct {
	W io.Writer
}

func (s DiffSink) Emit(res *Result) error {
	if !res.Changed() {
		return nil
	}

	_, err := io.WriteString(s.W, Diff(res))
	return err
}

func (DiffSink) Flush() error { return nil }

// Diff renders the unified diff between original and rewritten source.
func Diff(res *Result) string {
	before, after := string(res.Original), string(res.Rewritten)
	edits := myers.ComputeEdits(span.URIFromPath(res.Rel), before, after)
	return fmt.Sprint(gotextdiff.ToUnified("a/"+res.Rel, "b/"+res.Rel, before, edits))
}

// WriteSink replaces changed files in place.
type WriteSink struct {
	Logger *log.Logger
}

func (s WriteSink) Emit(res *Result) error {
	if !res.Changed() {
		return nil
	}

	info, err := os.Stat(res.Path)
	if err != nil {
		return errors.Wrap(err, "stat original")
	}

	if err := renameio.WriteFile(res.Path, res.Rewritten, info.Mode().Perm()); err != nil {
		return errors.Wrap(err, "replace file")
	}

	s.Logger.Info("rewritten", "file", res.Rel, "markers", res.Rewrites)
	return nil
}

func (WriteSink) Flush() error { return nil }

// OverlayFileName is the name of the overlay description written by
// OverlaySink.
const OverlayFileName = "overlay.json"

// OverlaySink writes rewritten copies of changed files into a directory and
// describes them in an overlay file for go build -overlay.
type OverlaySink struct {
	Dir    string
	Logger *log.Logger

	replace map[string]string
}

// overlay mirrors the format accepted by go build -overlay.
type overlay struct {
	Replace map[string]string
}

func (s *OverlaySink) Emit(res *Result) error {
	if !res.Changed() {
		return nil
	}

	if s.replace == nil {
		if err := os.MkdirAll(s.Dir, 0o755); err != nil {
			return errors.Wrap(err, "create overlay directory")
		}
		s.replace = map[string]string{}
	}

	original, err := filepath.Abs(res.Path)
	if err != nil {
		return errors.Wrap(err, "get absolute path of original")
	}

	target, err := filepath.Abs(filepath.Join(s.Dir, OverlayName(res)))
	if err != nil {
		return errors.Wrap(err, "get absolute path of overlay file")
	}

	if err := renameio.WriteFile(target, res.Rewritten, 0o644); err != nil {
		return errors.Wrap(err, "write overlay file")
	}

	s.replace[original] = target
	s.Logger.Debug("overlay", "file", res.Rel, "target", filepath.Base(target))
	return nil
}

func (s *OverlaySink) Flush() error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return errors.Wrap(err, "create overlay directory")
	}
	if s.replace == nil {
		s.replace = map[string]string{}
	}

	data, err := json.MarshalIndent(overlay{Replace: s.replace}, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encode overlay")
	}

	path := filepath.Join(s.Dir, OverlayFileName)
	if err := renameio.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrap(err, "write overlay")
	}

	s.Logger.Info("overlay ready", "files", len(s.replace), "overlay", path)
	return nil
}

// OverlayName names the rewritten copy after the original file and a prefix
// of the rewritten content hash, so copies of same named files of different
// packages never collide.
func OverlayName(res *Result) string {
	sum := blake3.Sum256(res.Rewritten)
	base := strings.TrimSuffix(filepath.Base(res.Path), ".go")
	return base + "_" + hex.EncodeToString(sum[:])[:12] + ".go"
}

// LabelsSink writes annotation texts of rewritten markers.
type LabelsSink struct {
	W io.Writer
}

func (s LabelsSink) Emit(res *Result) error {
	for _, site := range res.Sites {
		note := instrument.Annotation(site.Label, site.Pos)
		if _, err := fmt.Fprintf(s.W, "%s:%d: %s %s\n", site.Pos.File, site.Pos.Line, site.Marker, note); err != nil {
			return err
		}
	}

	return nil
}

func (LabelsSink) Flush() error { return nil }
