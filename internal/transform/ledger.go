package transform

import "log/slog"

type ledgerEntry struct {
	name      string
	remaining int
}

// Ledger tracks how many rows of each raw file still await a sentiment
// decision. Files are consumed strictly in extraction order; a file whose
// counter reaches zero becomes movable. The engine advances the ledger only
// between concurrency groups, so no locking is needed.
type Ledger struct {
	entries []ledgerEntry
	index   int
	movable []string
}

// NewLedger builds a ledger from the extractor's per-file row counts. names
// and counts are parallel slices in extraction order.
func NewLedger(names []string, counts []int) *Ledger {
	entries := make([]ledgerEntry, len(names))
	for i, name := range names {
		entries[i] = ledgerEntry{name: name, remaining: counts[i]}
	}
	return &Ledger{entries: entries}
}

// Advance attributes rows attempted rows to files in ledger order. Every file
// fully consumed by this call is appended to the movable list.
func (l *Ledger) Advance(rows int) {
	for rows > 0 && l.index < len(l.entries) {
		entry := &l.entries[l.index]
		if entry.remaining > rows {
			entry.remaining -= rows
			rows = 0
		} else {
			rows -= entry.remaining
			entry.remaining = 0
			l.movable = append(l.movable, entry.name)
			slog.Debug("[Ledger] File fully consumed", slog.String("file", entry.name))
			l.index++
		}
	}
}

// Remaining reports the sum of unattempted rows across all files.
func (l *Ledger) Remaining() int {
	total := 0
	for _, e := range l.entries {
		total += e.remaining
	}
	return total
}

// Movable returns the files whose rows have all been attempted, in ledger
// order. The loader archives these after a successful gold write.
func (l *Ledger) Movable() []string {
	return l.movable
}
