// Package rules defines the ACX-series diagnostic codes reported by autoctx.
//
// Every diagnostic the rewriter or the analyzer emits carries one of these
// codes, so findings can be filtered and referenced consistently in logs,
// analyzer output and configuration.
//
// # Structure
//
// Codes follow the format “ACX<NNN>: <Name>” and are grouped by area:
//
//	000–009  Input that cannot be processed
//	010–019  Markers left without provenance or with a stale one
//	020–039  Directive placement and spelling
//	040–049  Marker call shape
//
// Example:
//
//	rules.ACX010MissingProvenance.String()      → "ACX010: MissingProvenance"
//	rules.ACX010MissingProvenance.Description() → "Marker inside an annotated unit has no provenance annotation."
//
// # Notes
//
//   - Codes are stable, never renumber existing ones.
//   - New rules take the next free slot of their range.
package rules
