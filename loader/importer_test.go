package loader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/padraicbc/marathon-import/db"
	"github.com/padraicbc/marathon-import/export"
	"github.com/padraicbc/marathon-import/mapping"
	"github.com/padraicbc/marathon-import/models"
	"github.com/padraicbc/marathon-import/remap"
)

var loadTime = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

// memTx buffers inserted rows; memStore only keeps them if fn succeeds.
type memTx struct {
	failOn remap.Kind

	marathons    []models.Marathon
	steps        []models.Step
	participants []models.Participant
	submissions  []models.Submission
	winners      []models.Winner
	batches      map[remap.Kind][]int
}

var errInsert = errors.New("insert failed")

func (tx *memTx) InsertRows(_ context.Context, rows any) error {
	var (
		kind remap.Kind
		n    int
	)
	switch r := rows.(type) {
	case *[]models.Marathon:
		kind, n = remap.Marathon, len(*r)
		tx.marathons = append(tx.marathons, *r...)
	case *[]models.Step:
		kind, n = remap.Step, len(*r)
		tx.steps = append(tx.steps, *r...)
	case *[]models.Participant:
		kind, n = remap.Participant, len(*r)
		tx.participants = append(tx.participants, *r...)
	case *[]models.Submission:
		kind, n = remap.Submission, len(*r)
		tx.submissions = append(tx.submissions, *r...)
	case *[]models.Winner:
		kind, n = remap.Winner, len(*r)
		tx.winners = append(tx.winners, *r...)
	default:
		return errors.New("unexpected rows type")
	}
	if kind == tx.failOn {
		return errInsert
	}
	tx.batches[kind] = append(tx.batches[kind], n)
	return nil
}

type memStore struct {
	failOn    remap.Kind
	committed *memTx
}

func (s *memStore) InTx(ctx context.Context, fn func(ctx context.Context, ins db.Inserter) error) error {
	tx := &memTx{failOn: s.failOn, batches: map[remap.Kind][]int{}}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	s.committed = tx
	return nil
}

func writeExport(t *testing.T, body string) *export.Export {
	t.Helper()
	path := filepath.Join(t.TempDir(), "marathon_export.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	e, err := export.Open(path)
	require.NoError(t, err)
	return e
}

func newImporter(e *export.Export, r *remap.Remapper, opts ...Option) *Importer {
	opts = append([]Option{WithClock(func() time.Time { return loadTime })}, opts...)
	return New(e, r, opts...)
}

const sample = `{
  "marathons": [
    {"id": 7, "folder": "spring", "title": "Spring\u0000 run", "active": true, "vip_since": "2024-02-01T00:00:00Z", "discount_till": "soon"},
    {"id": 8, "language_code": "de"}
  ],
  "steps": [
    {"id": 1, "marathon_id": 7, "title": "Day 1", "order": 1},
    {"id": 2, "marathon_id": 8, "title": "Tag 1", "penalize": false, "form_class": "EssayForm", "trial": true},
    {"id": 3, "marathon_id": 99, "title": "orphan"}
  ],
  "marathoners": [
    {"id": 100, "marathon_id": 7, "user_id": 5001, "email": "a@example.com", "report_hour": "09:30:00", "created": "2024-01-15T00:00:00Z", "can_use_penalty": false},
    {"id": 101, "marathon_id": 8, "finish_date": "2024-03-01T12:00:00Z"},
    {"id": 102, "marathon_id": 42}
  ],
  "answers": [
    {"id": 1000, "marathoner_id": 100, "step_id": 1, "start": "2024-01-16T10:00:00Z", "value": "42", "rating": 5, "completed": true},
    {"id": 1001, "marathoner_id": 101, "step_id": 2, "start": "2024-01-17T10:00:00Z", "stop": "2024-01-17T11:00:00Z", "value": {"text": "hi\u0000", "items": ["a\u0000"]}},
    {"id": 1002, "marathoner_id": 102, "step_id": 1, "value": "orphan participant"},
    {"id": 1003, "marathoner_id": 100, "step_id": 3, "value": "orphan step"},
    {"id": 1004, "marathoner_id": 101, "step_id": 1}
  ],
  "winners": [
    {"id": 1, "user_id": 5001, "gold": 2, "silver": "1"},
    {"id": 2, "user_id": "u-2", "bronze": 3}
  ]
}`

func TestRunLoadsAllKinds(t *testing.T) {
	e := writeExport(t, sample)
	r := remap.New()
	store := &memStore{}

	sum, err := newImporter(e, r).Run(context.Background(), store)
	require.NoError(t, err)
	tx := store.committed
	require.NotNil(t, tx)

	assert.Equal(t, []KindStats{
		{Kind: remap.Marathon, Read: 2, Loaded: 2},
		{Kind: remap.Step, Read: 3, Loaded: 2, Dropped: 1},
		{Kind: remap.Participant, Read: 3, Loaded: 2, Dropped: 1},
		{Kind: remap.Submission, Read: 5, Loaded: 3, Dropped: 2},
		{Kind: remap.Winner, Read: 2, Loaded: 2},
	}, sum.Kinds)
	assert.Equal(t, filepath.Join(filepath.Dir(e.Path()), mapping.FileName), sum.MappingPath)

	require.Len(t, tx.marathons, 2)
	m := tx.marathons[0]
	assert.Equal(t, "spring-7", m.Slug)
	assert.Equal(t, "Spring run", m.Title)
	assert.Equal(t, "en", m.LanguageCode)
	assert.True(t, m.Active)
	require.NotNil(t, m.VIPGateDate)
	assert.Nil(t, m.DiscountEndsAt)
	assert.Equal(t, loadTime, m.CreatedAt)
	assert.Equal(t, "marathon-8", tx.marathons[1].Slug)
	assert.Equal(t, "de", tx.marathons[1].LanguageCode)
	assert.False(t, tx.marathons[1].Active)

	assert.True(t, tx.steps[0].IsPenalized)
	assert.Equal(t, m.ID, tx.steps[0].MarathonID)
	assert.False(t, tx.steps[1].IsPenalized)
	assert.True(t, tx.steps[1].IsTrialStep)
	assert.Equal(t, "EssayForm", *tx.steps[1].FormKey)

	p := tx.participants[0]
	assert.Equal(t, "5001", *p.UserID)
	assert.Equal(t, "2024-01-15T09:30:00Z", p.ReportHour.Format(time.RFC3339))
	assert.Equal(t, "2024-01-15T00:00:00Z", p.CreatedAt.Format(time.RFC3339))
	assert.False(t, p.CanUsePenalty)
	assert.True(t, p.IsFree)
	assert.True(t, p.Active)
	assert.Equal(t, 7, p.BonusDaysLeft)
	assert.Equal(t, loadTime, tx.participants[1].CreatedAt, "missing created falls back to load time")
	assert.Equal(t, loadTime, tx.participants[1].ReportHour)
	require.NotNil(t, tx.participants[1].FinishedAt)

	s := tx.submissions[0]
	assert.Equal(t, p.ID, s.ParticipantID)
	assert.Equal(t, tx.steps[0].ID, s.StepID)
	assert.JSONEq(t, `{"_raw": "42"}`, string(s.PayloadJSON))
	assert.Equal(t, s.StartAt, s.EndAt, "end defaults to start")
	assert.Equal(t, 5, s.Rating)
	assert.True(t, s.IsCompleted)
	assert.JSONEq(t, `{"text": "hi", "items": ["a"]}`, string(tx.submissions[1].PayloadJSON))
	assert.Equal(t, time.Hour, tx.submissions[1].EndAt.Sub(tx.submissions[1].StartAt))
	assert.Nil(t, tx.submissions[2].PayloadJSON)
	assert.Equal(t, loadTime, tx.submissions[2].StartAt)

	assert.Equal(t, "5001", tx.winners[0].UserID)
	assert.Equal(t, 2, tx.winners[0].GoldCount)
	assert.Equal(t, 1, tx.winners[0].SilverCount)
	assert.Equal(t, 3, tx.winners[1].BronzeCount)
}

func TestRunMappingMatchesRows(t *testing.T) {
	e := writeExport(t, sample)
	store := &memStore{}

	sum, err := newImporter(e, remap.New()).Run(context.Background(), store)
	require.NoError(t, err)
	f, err := mapping.Read(sum.MappingPath)
	require.NoError(t, err)
	tx := store.committed

	rowIDs := map[remap.Kind][]uuid.UUID{}
	for _, r := range tx.marathons {
		rowIDs[remap.Marathon] = append(rowIDs[remap.Marathon], r.ID)
	}
	for _, r := range tx.steps {
		rowIDs[remap.Step] = append(rowIDs[remap.Step], r.ID)
	}
	for _, r := range tx.participants {
		rowIDs[remap.Participant] = append(rowIDs[remap.Participant], r.ID)
	}
	for _, r := range tx.winners {
		rowIDs[remap.Winner] = append(rowIDs[remap.Winner], r.ID)
	}

	for _, kind := range remap.MappedKinds {
		var mapped []uuid.UUID
		for p := range f.Pairs(kind) {
			mapped = append(mapped, p.NewID)
		}
		assert.Equal(t, rowIDs[kind], mapped, string(kind))
	}

	// the first marathon keeps its numeric legacy id; orphans are never mapped
	marathons := slices.Collect(f.Pairs(remap.Marathon))
	assert.Equal(t, remap.IntID(7), marathons[0].LegacyID)
	for p := range f.Pairs(remap.Step) {
		assert.NotEqual(t, remap.IntID(3), p.LegacyID, "orphan step must not be mapped")
	}
	for p := range f.Pairs(remap.Participant) {
		assert.NotEqual(t, remap.IntID(102), p.LegacyID)
	}
}

func TestRunFailureRollsBackEverything(t *testing.T) {
	e := writeExport(t, sample)
	store := &memStore{failOn: remap.Submission}

	sum, err := newImporter(e, remap.New()).Run(context.Background(), store)
	require.ErrorIs(t, err, errInsert)
	assert.Contains(t, err.Error(), "load submission")
	assert.Nil(t, sum)
	assert.Nil(t, store.committed)

	entries, err := os.ReadDir(filepath.Dir(e.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1, "only the export remains")
	assert.Equal(t, "marathon_export.json", entries[0].Name())
}

func TestRunBatchesBySize(t *testing.T) {
	e := writeExport(t, `{"winners": [
		{"id": 1, "user_id": 1}, {"id": 2, "user_id": 2}, {"id": 3, "user_id": 3},
		{"id": 4, "user_id": 4}, {"id": 5, "user_id": 5}
	]}`)
	store := &memStore{}

	_, err := newImporter(e, remap.New(), WithBatchSize(2)).Run(context.Background(), store)
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1}, store.committed.batches[remap.Winner])
	assert.Empty(t, store.committed.batches[remap.Marathon], "empty kinds issue no inserts")
}

func TestRunEmptyExport(t *testing.T) {
	e := writeExport(t, `{"unrelated": [1, 2, 3]}`)
	r := remap.New()

	sum, err := newImporter(e, r).Run(context.Background(), &memStore{})
	require.NoError(t, err)
	for _, st := range sum.Kinds {
		assert.Zero(t, st.Read, st.Kind)
		assert.Zero(t, st.Loaded, st.Kind)
	}
	f, err := mapping.Read(sum.MappingPath)
	require.NoError(t, err)
	assert.Equal(t, 0, f.Len(remap.Marathon))
}

func TestRunDuplicateLegacyIDs(t *testing.T) {
	e := writeExport(t, `{
		"marathons": [{"id": 7, "folder": "a"}, {"id": 7, "folder": "b"}],
		"steps": [{"id": 1, "marathon_id": 7}]
	}`)
	r := remap.New()
	store := &memStore{}

	_, err := newImporter(e, r).Run(context.Background(), store)
	require.NoError(t, err)
	tx := store.committed
	require.Len(t, tx.marathons, 2)
	assert.NotEqual(t, tx.marathons[0].ID, tx.marathons[1].ID)
	assert.Equal(t, 2, r.Len(remap.Marathon))
	assert.Equal(t, 1, r.Duplicates(remap.Marathon))
	assert.Equal(t, tx.marathons[0].ID, tx.steps[0].MarathonID, "children resolve to the first assignment")
}

func TestRunDropsRecordsWithoutID(t *testing.T) {
	e := writeExport(t, `{"marathons": [{"folder": "x"}, {"id": null}, {"id": "m1"}]}`)
	r := remap.New()

	sum, err := newImporter(e, r).Run(context.Background(), &memStore{})
	require.NoError(t, err)
	assert.Equal(t, KindStats{Kind: remap.Marathon, Read: 3, Loaded: 1, Dropped: 2}, sum.Kinds[0])
}

func TestRunCancelled(t *testing.T) {
	e := writeExport(t, sample)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	store := &memStore{}

	_, err := newImporter(e, remap.New()).Run(ctx, store)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, store.committed)
	assert.NoFileExists(t, filepath.Join(filepath.Dir(e.Path()), mapping.FileName))
}

func TestRunStreamError(t *testing.T) {
	e := writeExport(t, `{"marathons": [{"id": 1}], "steps": [{"id": 1, "marathon_id": 1}, {"id": `)
	store := &memStore{}

	_, err := newImporter(e, remap.New()).Run(context.Background(), store)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load step")
	assert.Nil(t, store.committed)
}
