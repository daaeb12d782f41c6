package analysis

import (
	"context"

	"github.com/imrics/DermAI/internal/model"
)

// DefaultHistoryLimit bounds the evidence window to the most recent prior
// entries.
const DefaultHistoryLimit = 7

// EntryStore is the slice of the persistence layer the analyzer needs.
// PriorEntries returns entries for the same user and kind created strictly
// before the given entry, restricted to its sequence when one is set,
// sorted ascending by creation time.
type EntryStore interface {
	PriorEntries(ctx context.Context, entry model.Entry) ([]model.Entry, error)
	SaveVerdict(ctx context.Context, entry *model.Entry) error
}

// HistoryResolver finds the prior entries that make up an entry's timeline.
type HistoryResolver struct {
	entries EntryStore
	limit   int
}

func NewHistoryResolver(entries EntryStore, limit int) *HistoryResolver {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &HistoryResolver{entries: entries, limit: limit}
}

// Prior returns up to limit prior entries of the same type, oldest first.
// When more exist, the oldest are dropped so the window always ends with
// the entries nearest in time to the current one.
func (r *HistoryResolver) Prior(ctx context.Context, entry model.Entry) ([]model.Entry, error) {
	prior, err := r.entries.PriorEntries(ctx, entry)
	if err != nil {
		return nil, err
	}
	if len(prior) > r.limit {
		prior = prior[len(prior)-r.limit:]
	}
	return prior, nil
}
