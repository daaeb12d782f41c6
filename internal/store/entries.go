package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/imrics/DermAI/internal/model"
)

type EntryStore struct {
	db dbQuerier
}

func NewEntryStore(db dbQuerier) *EntryStore {
	return &EntryStore{db: db}
}

const entryColumns = `id, kind, "sequenceId", "userId", "createdAt", "imageId", "imageExt",
	"userNotes", "userConcerns", "aiComments", recommendations, treatment,
	"norwoodScore", "severityLevel", "irregularitiesDetected"`

// Create persists a fresh entry. ID and creation time are assigned here;
// an empty sequence id defaults to a fresh one so ungrouped entries never
// collide into the same timeline.
func (s *EntryStore) Create(ctx context.Context, entry *model.Entry) error {
	entry.ID = uuid.NewString()
	entry.CreatedAt = time.Now().UTC()
	if entry.SequenceID == "" {
		entry.SequenceID = uuid.NewString()
	}
	_, err := s.db.Exec(
		ctx,
		`INSERT INTO "Entry" (id, kind, "sequenceId", "userId", "createdAt", "imageId", "imageExt", "userNotes", "userConcerns")
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		entry.ID,
		entry.Kind,
		entry.SequenceID,
		entry.UserID,
		entry.CreatedAt,
		entry.ImageID,
		entry.ImageExt,
		entry.UserNotes,
		entry.UserConcerns,
	)
	return err
}

func (s *EntryStore) Get(ctx context.Context, entryID string) (model.Entry, error) {
	row := s.db.QueryRow(
		ctx,
		`SELECT `+entryColumns+` FROM "Entry" WHERE id = $1`,
		entryID,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Entry{}, ErrNotFound
	}
	return entry, err
}

func (s *EntryStore) GetByImageID(ctx context.Context, imageID string) (model.Entry, error) {
	row := s.db.QueryRow(
		ctx,
		`SELECT `+entryColumns+` FROM "Entry" WHERE "imageId" = $1`,
		imageID,
	)
	entry, err := scanEntry(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Entry{}, ErrNotFound
	}
	return entry, err
}

// ListByUser returns a user's entries newest first, optionally filtered by
// kind and sequence.
func (s *EntryStore) ListByUser(ctx context.Context, userID string, kind *model.ConditionKind, sequenceID string) ([]model.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM "Entry" WHERE "userId" = $1`
	args := []any{userID}
	if kind != nil {
		args = append(args, *kind)
		query += ` AND kind = $2`
	}
	if sequenceID != "" {
		args = append(args, sequenceID)
		if kind != nil {
			query += ` AND "sequenceId" = $3`
		} else {
			query += ` AND "sequenceId" = $2`
		}
	}
	query += ` ORDER BY "createdAt" DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

// PriorEntries returns entries of the same user and kind created strictly
// before the given entry, within its sequence when set, oldest first.
func (s *EntryStore) PriorEntries(ctx context.Context, entry model.Entry) ([]model.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM "Entry"
		 WHERE "userId" = $1 AND kind = $2 AND "createdAt" < $3`
	args := []any{entry.UserID, entry.Kind, entry.CreatedAt}
	if entry.SequenceID != "" {
		query += ` AND "sequenceId" = $4`
		args = append(args, entry.SequenceID)
	}
	query += ` ORDER BY "createdAt"`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectEntries(rows)
}

// SaveVerdict writes the entry's AI fields in a single statement, so a
// concurrent reader never observes them partially set.
func (s *EntryStore) SaveVerdict(ctx context.Context, entry *model.Entry) error {
	_, err := s.db.Exec(
		ctx,
		`UPDATE "Entry"
		 SET "aiComments" = $2, recommendations = $3, treatment = $4,
		     "norwoodScore" = $5, "severityLevel" = $6, "irregularitiesDetected" = $7
		 WHERE id = $1`,
		entry.ID,
		entry.AIComments,
		entry.Recommendations,
		entry.Treatment,
		entry.NorwoodScore,
		entry.SeverityLevel,
		entry.IrregularitiesDetected,
	)
	return err
}

// SequenceSummary describes one tracked progression for a user.
type SequenceSummary struct {
	SequenceID  string              `json:"sequence_id"`
	Kind        model.ConditionKind `json:"kind"`
	Count       int                 `json:"count"`
	LatestEntry time.Time           `json:"latest_entry"`
}

func (s *EntryStore) ListSequences(ctx context.Context, userID string) ([]SequenceSummary, error) {
	rows, err := s.db.Query(
		ctx,
		`SELECT "sequenceId", MIN(kind), COUNT(*), MAX("createdAt")
		 FROM "Entry"
		 WHERE "userId" = $1
		 GROUP BY "sequenceId"
		 ORDER BY MAX("createdAt") DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sequences []SequenceSummary
	for rows.Next() {
		seq := SequenceSummary{}
		if err := rows.Scan(&seq.SequenceID, &seq.Kind, &seq.Count, &seq.LatestEntry); err != nil {
			return nil, err
		}
		sequences = append(sequences, seq)
	}
	return sequences, rows.Err()
}

func scanEntry(row pgx.Row) (model.Entry, error) {
	entry := model.Entry{}
	err := row.Scan(
		&entry.ID,
		&entry.Kind,
		&entry.SequenceID,
		&entry.UserID,
		&entry.CreatedAt,
		&entry.ImageID,
		&entry.ImageExt,
		&entry.UserNotes,
		&entry.UserConcerns,
		&entry.AIComments,
		&entry.Recommendations,
		&entry.Treatment,
		&entry.NorwoodScore,
		&entry.SeverityLevel,
		&entry.IrregularitiesDetected,
	)
	return entry, err
}

func collectEntries(rows pgx.Rows) ([]model.Entry, error) {
	var entries []model.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}
