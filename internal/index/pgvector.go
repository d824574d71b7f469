package index

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"core/internal/model"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pgvector/pgvector-go"
)

// Store is a pgvector-backed vector index over a single listings table.
// Filterable metadata lives in a jsonb column so predicates never need
// schema changes when listing attributes evolve.
type Store struct {
	db *sqlx.DB
}

// NewStore opens a PostgreSQL connection pool for the vector index
func NewStore(dsn string, maxConn, maxIdleConn int) (*Store, error) {
	// Disable prepared statement caching to avoid "unnamed prepared statement does not exist" errors
	if !strings.Contains(dsn, "?") {
		dsn += "?prefer_simple_protocol=true"
	} else {
		dsn += "&prefer_simple_protocol=true"
	}

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Ensure provisions the vector extension, listings table and ANN index
// for the given embedding dimension. Idempotent; run once at startup.
func (s *Store) Ensure(ctx context.Context, dimension int) error {
	stmts := []string{
		`CREATE EXTENSION IF NOT EXISTS vector`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS listings (
			id         TEXT PRIMARY KEY,
			embedding  vector(%d),
			metadata   JSONB NOT NULL DEFAULT '{}'::jsonb,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`, dimension),
		`CREATE INDEX IF NOT EXISTS listings_embedding_idx
			ON listings USING ivfflat (embedding vector_cosine_ops) WITH (lists = 100)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to provision index: %w", err)
		}
	}
	return nil
}

// Ready reports whether the listings table exists and is queryable
func (s *Store) Ready(ctx context.Context) (bool, error) {
	var ready bool
	err := s.db.GetContext(ctx, &ready, `SELECT to_regclass('listings') IS NOT NULL`)
	if err != nil {
		return false, fmt.Errorf("failed to check index readiness: %w", err)
	}
	return ready, nil
}

// Query performs cosine nearest-neighbor search constrained by the filter.
// Score is reported as similarity (1 - cosine distance), most similar first.
func (s *Store) Query(ctx context.Context, vector []float32, topK int, filter Filter) ([]Match, error) {
	vec := pgvector.NewVector(vector)

	whereClauses := []string{"embedding IS NOT NULL"}
	args := []interface{}{vec}
	argIndex := 2

	filterClauses, filterArgs, argIndex := buildFilterClauses(filter, argIndex)
	whereClauses = append(whereClauses, filterClauses...)
	args = append(args, filterArgs...)

	query := fmt.Sprintf(`
		SELECT id, 1 - (embedding <=> $1) AS score, metadata
		FROM listings
		WHERE %s
		ORDER BY embedding <=> $1
		LIMIT $%d
	`, strings.Join(whereClauses, " AND "), argIndex)
	args = append(args, topK)

	var rows []struct {
		ID       string        `db:"id"`
		Score    float64       `db:"score"`
		Metadata model.JSONMap `db:"metadata"`
	}
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}

	matches := make([]Match, 0, len(rows))
	for _, row := range rows {
		matches = append(matches, Match{
			ID:       row.ID,
			Score:    row.Score,
			Metadata: row.Metadata,
		})
	}
	return matches, nil
}

// Upsert inserts or replaces listings with their embeddings and metadata
func (s *Store) Upsert(ctx context.Context, records []Record) (int, []string) {
	success := 0
	var errors []string

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		errors = append(errors, fmt.Sprintf("failed to start transaction: %v", err))
		return success, errors
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO listings (id, embedding, metadata)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE
		SET embedding = EXCLUDED.embedding, metadata = EXCLUDED.metadata, updated_at = NOW()
	`)
	if err != nil {
		errors = append(errors, fmt.Sprintf("failed to prepare statement: %v", err))
		return success, errors
	}
	defer stmt.Close()

	for _, rec := range records {
		vec := pgvector.NewVector(rec.Embedding)
		_, err := stmt.ExecContext(ctx, rec.ID, vec, model.JSONMap(rec.Metadata))
		if err != nil {
			errors = append(errors, fmt.Sprintf("listing %s: %v", rec.ID, err))
			continue
		}
		success++
	}

	if err := tx.Commit(); err != nil {
		errors = append(errors, fmt.Sprintf("failed to commit transaction: %v", err))
		return 0, errors
	}

	return success, errors
}

// buildFilterClauses translates a Filter into SQL conditions over the jsonb
// metadata column, using positional args starting at argIndex. Fields are
// visited in sorted order so generated SQL is deterministic.
func buildFilterClauses(filter Filter, argIndex int) ([]string, []interface{}, int) {
	fields := make([]string, 0, len(filter))
	for field := range filter {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	var clauses []string
	var args []interface{}

	for _, field := range fields {
		pred := filter[field]
		if pred.GTE != nil {
			clauses = append(clauses, fmt.Sprintf("(metadata->>'%s')::numeric >= $%d", field, argIndex))
			args = append(args, *pred.GTE)
			argIndex++
		}
		if pred.LTE != nil {
			clauses = append(clauses, fmt.Sprintf("(metadata->>'%s')::numeric <= $%d", field, argIndex))
			args = append(args, *pred.LTE)
			argIndex++
		}
		if pred.EQ != "" {
			clauses = append(clauses, fmt.Sprintf("lower(metadata->>'%s') = $%d", field, argIndex))
			args = append(args, pred.EQ)
			argIndex++
		}
		if len(pred.In) > 0 {
			// jsonb ?| matches when the array contains at least one of the keys
			clauses = append(clauses, fmt.Sprintf("metadata->'%s' ?| $%d", field, argIndex))
			args = append(args, pq.Array(pred.In))
			argIndex++
		}
	}

	return clauses, args, argIndex
}
