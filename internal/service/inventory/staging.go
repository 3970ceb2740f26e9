package inventory

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Committer is the slice of the ledger a staging buffer needs.
type Committer interface {
	UpsertBatch(ctx context.Context, deltas []Delta) ([]UpsertResult, error)
}

// StagingBuffer accumulates component deltas before a single batch
// commit, so partial or interrupted data entry never reaches the
// shared ledger. Add pre-merges same-named entries; Commit collapses
// the buffer to one canonical delta per normalized id before sending,
// which keeps a redundant multi-entry buffer from double-applying.
//
// A failed commit leaves the buffer intact for retry; a successful one
// empties it. The buffer is safe for concurrent use.
type StagingBuffer struct {
	mu      sync.Mutex
	entries []Delta
	logger  *zap.Logger
}

// NewStagingBuffer builds an empty buffer.
func NewStagingBuffer(logger *zap.Logger) *StagingBuffer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StagingBuffer{logger: logger}
}

// Add stages one delta. When an entry with the same normalized name is
// already pending, the delta merges into it: quantities sum, the last
// supplied price wins, contributors merge with first-seen casing.
// Blank-named deltas are dropped.
func (b *StagingBuffer) Add(delta Delta) {
	if Normalize(delta.Name) == UnnamedID {
		b.logger.Warn("staging add dropped: missing component name")
		return
	}
	delta.Mode = ModeDelta

	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = mergePending(b.entries, delta, b.logger)
}

// Len reports the number of distinct pending entries.
func (b *StagingBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}

// Pending returns a copy of the staged deltas.
func (b *StagingBuffer) Pending() []Delta {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Delta(nil), b.entries...)
}

// Commit collapses the buffer and sends it as one batch. The buffer
// stays locked for the duration, so the commit is all-or-nothing from
// the buffer's perspective: on error nothing is cleared and the caller
// can retry, on success the buffer is empty.
func (b *StagingBuffer) Commit(ctx context.Context, committer Committer) ([]UpsertResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.entries) == 0 {
		return []UpsertResult{}, nil
	}

	batch := collapse(b.entries, b.logger)
	results, err := committer.UpsertBatch(ctx, batch)
	if err != nil {
		b.logger.Warn("staging commit failed, buffer retained", zap.Error(err))
		return nil, err
	}

	b.entries = nil
	return results, nil
}

// Discard clears pending state with no backend effect.
func (b *StagingBuffer) Discard() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = nil
}

// collapse folds a delta list down to one entry per normalized id.
// Add already merges, so this is usually a no-op, but the batch sent
// over the wire must never carry two deltas for the same entry.
func collapse(deltas []Delta, logger *zap.Logger) []Delta {
	out := make([]Delta, 0, len(deltas))
	for _, delta := range deltas {
		out = mergePending(out, delta, logger)
	}
	return out
}

func mergePending(entries []Delta, delta Delta, logger *zap.Logger) []Delta {
	id := Normalize(delta.Name)
	for i := range entries {
		if Normalize(entries[i].Name) != id {
			continue
		}
		entries[i].Quantity += delta.Quantity
		if delta.Price != nil {
			entries[i].Price = delta.Price
		}
		entries[i].Contributors = MergeContributors(entries[i].Contributors, delta.Contributors, logger)
		return entries
	}
	return append(entries, delta)
}
