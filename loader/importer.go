// Package loader moves an export into PostgreSQL. Each kind is streamed,
// cleaned, given new ids and inserted in batches, in dependency order, inside
// a single transaction; the id mapping file is only published after commit.
package loader

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/padraicbc/marathon-import/db"
	"github.com/padraicbc/marathon-import/export"
	"github.com/padraicbc/marathon-import/mapping"
	"github.com/padraicbc/marathon-import/remap"
)

// TxRunner runs fn inside one transaction that commits only if fn returns nil.
// *db.Store is the production implementation.
type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context, ins db.Inserter) error) error
}

// KindStats counts what happened to one kind.
type KindStats struct {
	Kind    remap.Kind
	Read    int
	Loaded  int
	Dropped int
}

// Summary describes a committed run.
type Summary struct {
	Kinds       []KindStats
	MappingPath string
}

// Importer runs one import. It is not reusable: the remapper it holds is
// filled by Run.
type Importer struct {
	exp       *export.Export
	remap     *remap.Remapper
	log       *zap.Logger
	batchSize int
	now       func() time.Time

	// loadedAt stamps createdAt/updatedAt on every row of the run.
	loadedAt time.Time
}

// Option configures an Importer.
type Option func(*Importer)

// WithLogger sets the logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(im *Importer) { im.log = l }
}

// WithBatchSize sets rows per INSERT.
func WithBatchSize(n int) Option {
	return func(im *Importer) { im.batchSize = n }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(im *Importer) { im.now = now }
}

// New returns an Importer reading exp and recording ids in r.
func New(exp *export.Export, r *remap.Remapper, opts ...Option) *Importer {
	im := &Importer{
		exp:       exp,
		remap:     r,
		log:       zap.NewNop(),
		batchSize: DefaultBatchSize,
		now:       time.Now,
	}
	for _, o := range opts {
		o(im)
	}
	return im
}

// Run loads every kind through store in one transaction and, once that has
// committed, writes the mapping file next to the export. On error nothing is
// committed and no mapping file is left behind.
func (im *Importer) Run(ctx context.Context, store TxRunner) (*Summary, error) {
	var (
		stats   []KindStats
		pending *mapping.Pending
	)
	err := store.InTx(ctx, func(ctx context.Context, ins db.Inserter) error {
		var err error
		if stats, err = im.load(ctx, ins); err != nil {
			return err
		}
		pending, err = mapping.Prepare(filepath.Dir(im.exp.Path()), im.remap)
		return err
	})
	if err != nil {
		if pending != nil {
			pending.Discard()
		}
		return nil, err
	}

	path, err := pending.Commit()
	if err != nil {
		return nil, err
	}
	im.log.Info("id mapping written", zap.String("path", path))
	return &Summary{Kinds: stats, MappingPath: path}, nil
}

func (im *Importer) load(ctx context.Context, ins db.Inserter) ([]KindStats, error) {
	im.loadedAt = im.now().UTC()

	steps := []struct {
		kind remap.Kind
		fn   func(context.Context, db.Inserter) (KindStats, error)
	}{
		{remap.Marathon, im.loadMarathons},
		{remap.Step, im.loadSteps},
		{remap.Participant, im.loadParticipants},
		{remap.Submission, im.loadSubmissions},
		{remap.Winner, im.loadWinners},
	}

	out := make([]KindStats, 0, len(steps))
	for _, s := range steps {
		st, err := s.fn(ctx, ins)
		if err != nil {
			im.log.Error("load failed", zap.String("kind", string(s.kind)), zap.Int("read", st.Read), zap.Error(err))
			return nil, fmt.Errorf("load %s: %w", s.kind, err)
		}
		st.Kind = s.kind
		im.log.Info("kind loaded",
			zap.String("kind", string(s.kind)),
			zap.Int("read", st.Read),
			zap.Int("loaded", st.Loaded),
			zap.Int("dropped", st.Dropped),
		)
		if n := im.remap.Duplicates(s.kind); n > 0 {
			im.log.Warn("duplicate legacy ids in export", zap.String("kind", string(s.kind)), zap.Int("duplicates", n))
		}
		out = append(out, st)
	}
	return out, nil
}

// drain streams one array, converts each record and batches the rows that
// convert accepts. Rejected records only count as dropped.
func drain[S, T any](ctx context.Context, im *Importer, ins db.Inserter, array string, convert func(S) (T, bool)) (KindStats, error) {
	var st KindStats
	b := NewBatcher[T](ins, im.batchSize)

	for rec, err := range export.Records[S](im.exp, array) {
		if err != nil {
			return st, err
		}
		if err := ctx.Err(); err != nil {
			return st, err
		}
		st.Read++
		row, ok := convert(rec)
		if !ok {
			st.Dropped++
			continue
		}
		if err := b.Add(ctx, row); err != nil {
			return st, err
		}
	}
	if err := b.Flush(ctx); err != nil {
		return st, err
	}
	st.Loaded = b.Written()
	return st, nil
}
