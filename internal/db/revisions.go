package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// DefaultListLimit caps ListRevisions when no limit is given
const DefaultListLimit = 50

// RecordRevision stores a revision and returns it with its generated ID
func (db *DB) RecordRevision(ctx context.Context, input *RevisionInput) (*Revision, error) {
	if input.Path == "" {
		return nil, fmt.Errorf("revision path is required")
	}
	if input.Kind != KindContent && input.Kind != KindImage {
		return nil, fmt.Errorf("invalid revision kind: %q", input.Kind)
	}

	rev := Revision{
		ID:         uuid.New(),
		Path:       input.Path,
		Kind:       input.Kind,
		SHA:        input.SHA,
		ParentSHA:  input.ParentSHA,
		CommitSHA:  input.CommitSHA,
		SizeBytes:  input.SizeBytes,
		RemoteAddr: input.RemoteAddr,
	}
	err := db.pool.QueryRow(ctx,
		`INSERT INTO revisions (id, path, kind, sha, parent_sha, commit_sha, size_bytes, remote_addr)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING created_at`,
		rev.ID, rev.Path, rev.Kind, rev.SHA, rev.ParentSHA, rev.CommitSHA, rev.SizeBytes, rev.RemoteAddr,
	).Scan(&rev.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to record revision for %s: %w", input.Path, err)
	}
	return &rev, nil
}

// ListRevisions returns the most recent revisions, newest first. An empty path lists
// revisions of every file.
func (db *DB) ListRevisions(ctx context.Context, path string, limit int) ([]Revision, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, path, kind, sha, parent_sha, commit_sha, size_bytes, remote_addr, created_at
		 FROM revisions
		 WHERE $1 = '' OR path = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		path, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	defer rows.Close()

	revisions := make([]Revision, 0)
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		revisions = append(revisions, *rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list revisions: %w", err)
	}
	return revisions, nil
}

// GetRevision retrieves a revision by ID. Returns nil if it does not exist.
func (db *DB) GetRevision(ctx context.Context, id uuid.UUID) (*Revision, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, path, kind, sha, parent_sha, commit_sha, size_bytes, remote_addr, created_at
		 FROM revisions WHERE id = $1`,
		id,
	)
	rev, err := scanRevision(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return rev, err
}

func scanRevision(row pgx.Row) (*Revision, error) {
	var rev Revision
	err := row.Scan(&rev.ID, &rev.Path, &rev.Kind, &rev.SHA, &rev.ParentSHA,
		&rev.CommitSHA, &rev.SizeBytes, &rev.RemoteAddr, &rev.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan revision: %w", err)
	}
	return &rev, nil
}
