package loader

import (
	"context"

	"github.com/padraicbc/marathon-import/db"
)

// DefaultBatchSize is the number of rows sent per INSERT.
const DefaultBatchSize = 500

// Batcher collects rows of one table and inserts them size at a time.
type Batcher[T any] struct {
	ins     db.Inserter
	size    int
	pending []T
	flushed int
}

// NewBatcher returns a Batcher writing through ins. A size below 1 uses
// DefaultBatchSize.
func NewBatcher[T any](ins db.Inserter, size int) *Batcher[T] {
	if size < 1 {
		size = DefaultBatchSize
	}
	return &Batcher[T]{ins: ins, size: size, pending: make([]T, 0, size)}
}

// Add queues row and inserts the batch once it is full.
func (b *Batcher[T]) Add(ctx context.Context, row T) error {
	b.pending = append(b.pending, row)
	if len(b.pending) >= b.size {
		return b.Flush(ctx)
	}
	return nil
}

// Flush inserts whatever is queued.
func (b *Batcher[T]) Flush(ctx context.Context) error {
	if len(b.pending) == 0 {
		return nil
	}
	if err := b.ins.InsertRows(ctx, &b.pending); err != nil {
		return err
	}
	b.flushed += len(b.pending)
	b.pending = b.pending[:0]
	return nil
}

// Written returns how many rows have been inserted so far.
func (b *Batcher[T]) Written() int {
	return b.flushed
}
