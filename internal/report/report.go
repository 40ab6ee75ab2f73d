// Package report collects diagnostics produced while processing sources.
package report

import (
	"cmp"
	"fmt"
	"go/token"
	"io"
	"slices"
	"sync"

	"github.com/sirkon/autoctx/internal/rules"
)

// Reporter collects diagnostics from concurrently processed files.
type Reporter struct {
	mu      sync.Mutex
	reports []Report
}

// Report represents a single diagnostic entry.
type Report struct {
	Phase   Phase
	Rule    rules.Rule
	Pos     token.Position
	Message string
}

func (r Report) String() string {
	return fmt.Sprintf("%s: %s: %s", r.Pos, r.Rule.Code(), r.Message)
}

// Phase marks the processing stage where a report was generated.
type Phase int

const (
	phaseInvalid Phase = iota
	PhaseParse         // reading and parsing sources
	PhaseCollect       // directive discovery
	PhaseInstrument    // marker rewriting
)

func (p Phase) String() string {
	switch p {
	case PhaseParse:
		return "parse"
	case PhaseCollect:
		return "collect"
	case PhaseInstrument:
		return "instrument"
	default:
		return fmt.Sprintf("unknown-phase(%d)", p)
	}
}

// ReporterPhase binds a Reporter to a fixed phase.
type ReporterPhase struct {
	parent *Reporter
	phase  Phase
}

// Phase returns a reporter that sets the given phase for all reports
// produced through it.
func (r *Reporter) Phase(p Phase) *ReporterPhase {
	return &ReporterPhase{parent: r, phase: p}
}

// Report adds a new record to the reporter.
func (r *Reporter) Report(rep Report) {
	r.mu.Lock()
	r.reports = append(r.reports, rep)
	r.mu.Unlock()
}

// Report records a rule violation under the bound phase. Rule description is
// used when message is empty.
func (rp *ReporterPhase) Report(rule rules.Rule, message string, pos token.Position) {
	if message == "" {
		message = rule.Description()
	}
	rp.parent.Report(Report{
		Phase:   rp.phase,
		Rule:    rule,
		Message: message,
		Pos:     pos,
	})
}

// Reports returns a snapshot of all collected records.
func (r *Reporter) Reports() []Report {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Report, len(r.reports))
	copy(out, r.reports)
	return out
}

// Failed checks if anything was reported.
func (r *Reporter) Failed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.reports) > 0
}

// Print writes collected reports ordered by position, one per line:
//
//	internal/store/file.go:12:3: ACX020: annotate directive on a var declaration
func (r *Reporter) Print(w io.Writer) error {
	reps := r.Reports()
	slices.SortStableFunc(reps, func(a, b Report) int {
		return cmp.Or(
			cmp.Compare(a.Pos.Filename, b.Pos.Filename),
			cmp.Compare(a.Pos.Line, b.Pos.Line),
			cmp.Compare(a.Pos.Column, b.Pos.Column),
		)
	})

	for _, rep := range reps {
		if _, err := fmt.Fprintln(w, rep); err != nil {
			return err
		}
	}

	return nil
}
