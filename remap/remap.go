// Package remap hands out new UUIDs for export records and remembers which
// legacy id each one replaced, per entity kind. A Remapper lives for exactly
// one import run and is not safe for concurrent use.
package remap

import "github.com/google/uuid"

// Kind names an entity collection.
type Kind string

const (
	Marathon    Kind = "marathon"
	Step        Kind = "step"
	Participant Kind = "participant"
	Submission  Kind = "submission"
	Winner      Kind = "winner"
)

// MappedKinds are the kinds written to the mapping file, in file order.
// Submissions are keyed by participant and step downstream.
var MappedKinds = []Kind{Marathon, Step, Participant, Winner}

// Pair records one assignment.
type Pair struct {
	LegacyID LegacyID  `json:"legacy_id"`
	NewID    uuid.UUID `json:"new_id"`
}

type table struct {
	index      map[LegacyID]uuid.UUID
	pairs      []Pair
	duplicates int
}

// Remapper maps legacy ids to new ids.
type Remapper struct {
	tables map[Kind]*table
	newID  func() uuid.UUID
}

// Option configures a Remapper.
type Option func(*Remapper)

// WithGenerator replaces uuid.New, mostly for tests.
func WithGenerator(fn func() uuid.UUID) Option {
	return func(r *Remapper) { r.newID = fn }
}

// New returns an empty Remapper.
func New(opts ...Option) *Remapper {
	r := &Remapper{
		tables: make(map[Kind]*table),
		newID:  uuid.New,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Remapper) table(kind Kind) *table {
	t, ok := r.tables[kind]
	if !ok {
		t = &table{index: make(map[LegacyID]uuid.UUID)}
		r.tables[kind] = t
	}
	return t
}

// Assign mints a new id for legacy and records the pair. Every call mints,
// even for a legacy id seen before in the same kind; Resolve keeps returning
// the first id handed out for it.
func (r *Remapper) Assign(kind Kind, legacy LegacyID) uuid.UUID {
	id := r.newID()
	t := r.table(kind)
	if _, seen := t.index[legacy]; seen {
		t.duplicates++
	} else {
		t.index[legacy] = id
	}
	t.pairs = append(t.pairs, Pair{LegacyID: legacy, NewID: id})
	return id
}

// Resolve looks up the id assigned to legacy without changing anything.
func (r *Remapper) Resolve(kind Kind, legacy LegacyID) (uuid.UUID, bool) {
	t, ok := r.tables[kind]
	if !ok {
		return uuid.Nil, false
	}
	id, ok := t.index[legacy]
	return id, ok
}

// Mint returns a fresh id that is not recorded anywhere.
func (r *Remapper) Mint() uuid.UUID {
	return r.newID()
}

// Pairs returns a copy of the assignments for kind, in assignment order.
func (r *Remapper) Pairs(kind Kind) []Pair {
	t, ok := r.tables[kind]
	if !ok {
		return []Pair{}
	}
	out := make([]Pair, len(t.pairs))
	copy(out, t.pairs)
	return out
}

// Len returns how many ids were assigned for kind.
func (r *Remapper) Len(kind Kind) int {
	if t, ok := r.tables[kind]; ok {
		return len(t.pairs)
	}
	return 0
}

// Duplicates returns how many assignments for kind reused a legacy id that
// had already been assigned.
func (r *Remapper) Duplicates(kind Kind) int {
	if t, ok := r.tables[kind]; ok {
		return t.duplicates
	}
	return 0
}
