package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/imrics/DermAI/internal/model"
)

type MedicationStore struct {
	db dbQuerier
}

func NewMedicationStore(db dbQuerier) *MedicationStore {
	return &MedicationStore{db: db}
}

const medicationColumns = `id, "userId", category, name, dosage, frequency, notes, "createdAt", "deletedAt"`

// MedicationUpdate carries a partial update; nil fields are left unchanged.
type MedicationUpdate struct {
	Name      *string
	Dosage    *string
	Frequency *string
	Notes     *string
}

func (s *MedicationStore) Create(ctx context.Context, med model.Medication) (model.Medication, error) {
	med.ID = uuid.NewString()
	med.CreatedAt = time.Now().UTC()
	_, err := s.db.Exec(
		ctx,
		`INSERT INTO "Medication" (id, "userId", category, name, dosage, frequency, notes, "createdAt")
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		med.ID,
		med.UserID,
		med.Category,
		med.Name,
		med.Dosage,
		med.Frequency,
		med.Notes,
		med.CreatedAt,
	)
	if err != nil {
		return model.Medication{}, err
	}
	return med, nil
}

func (s *MedicationStore) Get(ctx context.Context, medicationID string) (model.Medication, error) {
	row := s.db.QueryRow(
		ctx,
		`SELECT `+medicationColumns+` FROM "Medication" WHERE id = $1 AND "deletedAt" IS NULL`,
		medicationID,
	)
	med, err := scanMedication(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Medication{}, ErrNotFound
	}
	return med, err
}

// ListByUser returns a user's active medications, optionally filtered by
// category, newest first.
func (s *MedicationStore) ListByUser(ctx context.Context, userID string, category *model.ConditionKind) ([]model.Medication, error) {
	query := `SELECT ` + medicationColumns + ` FROM "Medication"
		 WHERE "userId" = $1 AND "deletedAt" IS NULL`
	args := []any{userID}
	if category != nil {
		query += ` AND category = $2`
		args = append(args, *category)
	}
	query += ` ORDER BY "createdAt" DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMedications(rows)
}

// ListActive returns the medications currently active for one category,
// ascending by creation time.
func (s *MedicationStore) ListActive(ctx context.Context, userID string, category model.ConditionKind) ([]model.Medication, error) {
	rows, err := s.db.Query(
		ctx,
		`SELECT `+medicationColumns+` FROM "Medication"
		 WHERE "userId" = $1 AND category = $2 AND "deletedAt" IS NULL
		 ORDER BY "createdAt"`,
		userID,
		category,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMedications(rows)
}

// ListAsOf returns the medications that were active at the given instant.
// Soft-deleted medications still count when the deletion happened later,
// which keeps historical analyses reproducible.
func (s *MedicationStore) ListAsOf(ctx context.Context, userID string, category model.ConditionKind, asOf time.Time) ([]model.Medication, error) {
	rows, err := s.db.Query(
		ctx,
		`SELECT `+medicationColumns+` FROM "Medication"
		 WHERE "userId" = $1 AND category = $2 AND "createdAt" <= $3
		   AND ("deletedAt" IS NULL OR "deletedAt" > $3)
		 ORDER BY "createdAt"`,
		userID,
		category,
		asOf,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMedications(rows)
}

func (s *MedicationStore) Update(ctx context.Context, medicationID string, update MedicationUpdate) (model.Medication, error) {
	row := s.db.QueryRow(
		ctx,
		`UPDATE "Medication"
		 SET name      = COALESCE($2, name),
		     dosage    = COALESCE($3, dosage),
		     frequency = COALESCE($4, frequency),
		     notes     = COALESCE($5, notes)
		 WHERE id = $1 AND "deletedAt" IS NULL
		 RETURNING `+medicationColumns,
		medicationID,
		update.Name,
		update.Dosage,
		update.Frequency,
		update.Notes,
	)
	med, err := scanMedication(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Medication{}, ErrNotFound
	}
	return med, err
}

// Delete soft-deletes so the medication stays queryable for historical
// timeline reconstruction.
func (s *MedicationStore) Delete(ctx context.Context, medicationID string) error {
	tag, err := s.db.Exec(
		ctx,
		`UPDATE "Medication" SET "deletedAt" = NOW() WHERE id = $1 AND "deletedAt" IS NULL`,
		medicationID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanMedication(row pgx.Row) (model.Medication, error) {
	med := model.Medication{}
	err := row.Scan(
		&med.ID,
		&med.UserID,
		&med.Category,
		&med.Name,
		&med.Dosage,
		&med.Frequency,
		&med.Notes,
		&med.CreatedAt,
		&med.DeletedAt,
	)
	return med, err
}

func collectMedications(rows pgx.Rows) ([]model.Medication, error) {
	var meds []model.Medication
	for rows.Next() {
		med, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		meds = append(meds, med)
	}
	return meds, rows.Err()
}
