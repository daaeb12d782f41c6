package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS "User" (
		id          TEXT PRIMARY KEY,
		name        TEXT NOT NULL,
		"createdAt" TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS "Medication" (
		id          TEXT PRIMARY KEY,
		"userId"    TEXT NOT NULL,
		category    TEXT NOT NULL,
		name        TEXT NOT NULL,
		dosage      TEXT,
		frequency   TEXT,
		notes       TEXT,
		"createdAt" TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		"deletedAt" TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS "Medication_userId_category_idx"
		ON "Medication" ("userId", category, "createdAt")`,
	`CREATE TABLE IF NOT EXISTS "Entry" (
		id                       TEXT PRIMARY KEY,
		kind                     TEXT NOT NULL,
		"sequenceId"             TEXT NOT NULL,
		"userId"                 TEXT NOT NULL,
		"createdAt"              TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		"imageId"                TEXT NOT NULL,
		"imageExt"               TEXT NOT NULL,
		"userNotes"              TEXT,
		"userConcerns"           TEXT,
		"aiComments"             TEXT,
		recommendations          TEXT,
		treatment                TEXT[],
		"norwoodScore"           INT,
		"severityLevel"          TEXT,
		"irregularitiesDetected" BOOLEAN
	)`,
	`CREATE INDEX IF NOT EXISTS "Entry_userId_kind_createdAt_idx"
		ON "Entry" ("userId", kind, "createdAt")`,
	`CREATE INDEX IF NOT EXISTS "Entry_sequenceId_idx" ON "Entry" ("sequenceId")`,
	`CREATE INDEX IF NOT EXISTS "Entry_imageId_idx" ON "Entry" ("imageId")`,
}

// Migrate creates the schema if it does not exist yet. Statements are
// idempotent, so running at every startup is safe.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
