package interp

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"pdlvm/internal/history"
)

// historyStore is the subset of *history.Store the driver needs, declared
// locally so this file (and SetHistory's signature) stays decoupled from
// the concrete store type for tests that stub it out.
type historyStore interface {
	Record(r history.Record) error
}

// SetHistory attaches an optional audit store; while none is attached,
// nothing is recorded. It never influences language semantics — only
// Run/Step's completion bookkeeping.
func (ip *Interpreter) SetHistory(s historyStore) { ip.history = s }

// recordFinish writes one row to the history store, if attached, the first
// time a run reaches Finished or Halted. errorKind is empty for a clean
// finish.
func (ip *Interpreter) recordFinish(errorKind string) {
	if ip.history == nil || ip.recorded {
		return
	}
	ip.recorded = true

	meta := ip.scanner.Metadata
	rec := history.Record{
		RunID:          ip.RunID,
		SourceHash:     sourceHash(ip.source),
		StartedAt:      ip.startedAt,
		EndedAt:        time.Now(),
		Steps:          ip.steps,
		FinalOpDepth:   ip.ops.Count(),
		ErrorKind:      errorKind,
		BoundingBox:    meta.BoundingBox,
		HasBoundingBox: meta.HasBoundingBox,
	}
	// Best-effort: a history-store write failure must not affect the
	// interpreted program's outcome, so it is swallowed rather than
	// surfaced through Step/Run's error return.
	_ = ip.history.Record(rec)
}

func sourceHash(source []byte) string {
	sum := sha256.Sum256(source)
	return hex.EncodeToString(sum[:])
}
