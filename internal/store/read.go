package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrNotFound is returned when no scan matches a lookup.
var ErrNotFound = errors.New("scan not found")

const scanColumns = `id, seq, last_seen_seq, source, program, program_hash, instruction_count, instructions, compiler_version, ir_version`

// ListScans returns the recorded scans of a program, oldest first.
// An empty program lists every scan.
//
// Returns an empty slice (not nil) if nothing was recorded.
func (s *Store) ListScans(ctx context.Context, program string) ([]Scan, error) {
	query := `SELECT ` + scanColumns + ` FROM scans`
	var args []any
	if program != "" {
		query += ` WHERE program = ?`
		args = append(args, program)
	}
	query += ` ORDER BY seq ASC, id COLLATE BINARY ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query scans: %w", err)
	}
	defer rows.Close()

	scans := []Scan{}
	for rows.Next() {
		scan, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		scans = append(scans, scan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scans: %w", err)
	}
	return scans, nil
}

// LatestScan returns the most recently seen scan of a program, or
// ErrNotFound. Rescanning a version recorded earlier makes that version the
// latest again.
func (s *Store) LatestScan(ctx context.Context, program string) (Scan, error) {
	scan, err := latestScan(ctx, s.db, program)
	if err != nil {
		return Scan{}, fmt.Errorf("latest scan of %q: %w", program, err)
	}
	return scan, nil
}

func latestScan(ctx context.Context, q queryRower, program string) (Scan, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+scanColumns+`
		FROM scans
		WHERE program = ?
		ORDER BY last_seen_seq DESC, id COLLATE BINARY DESC
		LIMIT 1
	`, program)
	return scanRow(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(r rowScanner) (Scan, error) {
	var scan Scan
	err := r.Scan(
		&scan.ID,
		&scan.Seq,
		&scan.LastSeenSeq,
		&scan.Source,
		&scan.Program,
		&scan.ProgramHash,
		&scan.InstructionCount,
		&scan.Instructions,
		&scan.CompilerVersion,
		&scan.IRVersion,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Scan{}, ErrNotFound
	}
	if err != nil {
		return Scan{}, fmt.Errorf("scan row: %w", err)
	}
	return scan, nil
}
