package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/anchorix/internal/ir"
)

// Scan is one recorded program scan.
type Scan struct {
	ID               string
	Seq              int64
	LastSeenSeq      int64 // seq of the latest scan that produced this version
	Source           string
	Program          string
	ProgramHash      string
	InstructionCount int
	Instructions     string // canonical JSON array
	CompilerVersion  string
	IRVersion        string
}

// WriteScan appends a scan of p read from source. The seq is the next value
// of the store's logical clock.
//
// Scanning the same source to the same program again inserts nothing: the
// existing record is returned with inserted == false. If that record is not
// the program's latest (the program was reverted), its LastSeenSeq advances
// so LatestScan returns it.
func (s *Store) WriteScan(ctx context.Context, source string, p ir.Program) (scan Scan, inserted bool, err error) {
	hash, err := ir.ProgramHash(p)
	if err != nil {
		return Scan{}, false, fmt.Errorf("write scan: %w", err)
	}
	instructions, err := marshalInstructions(p.Instructions)
	if err != nil {
		return Scan{}, false, fmt.Errorf("write scan: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Scan{}, false, fmt.Errorf("write scan: begin: %w", err)
	}
	defer tx.Rollback()

	var next int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(last_seen_seq), 0) + 1 FROM scans`).Scan(&next); err != nil {
		return Scan{}, false, fmt.Errorf("write scan: next seq: %w", err)
	}

	existing, err := scanBySource(ctx, tx, source, hash)
	switch {
	case err == nil:
		existing, err = touchScan(ctx, tx, existing, next)
		if err != nil {
			return Scan{}, false, fmt.Errorf("write scan: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return Scan{}, false, fmt.Errorf("write scan: commit: %w", err)
		}
		return existing, false, nil
	case !errors.Is(err, ErrNotFound):
		return Scan{}, false, fmt.Errorf("write scan: %w", err)
	}

	scan = Scan{
		ID:               s.ids.NewID(),
		Seq:              next,
		LastSeenSeq:      next,
		Source:           source,
		Program:          p.Name,
		ProgramHash:      hash,
		InstructionCount: len(p.Instructions),
		Instructions:     instructions,
		CompilerVersion:  ir.CompilerVersion,
		IRVersion:        ir.IRVersion,
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO scans
		(id, seq, last_seen_seq, source, program, program_hash, instruction_count, instructions, compiler_version, ir_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source, program_hash) DO NOTHING
	`,
		scan.ID,
		scan.Seq,
		scan.LastSeenSeq,
		scan.Source,
		scan.Program,
		scan.ProgramHash,
		scan.InstructionCount,
		scan.Instructions,
		scan.CompilerVersion,
		scan.IRVersion,
	)
	if err != nil {
		return Scan{}, false, fmt.Errorf("write scan: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Scan{}, false, fmt.Errorf("write scan: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return Scan{}, false, fmt.Errorf("write scan: commit: %w", err)
	}
	return scan, n == 1, nil
}

func marshalInstructions(ixs []ir.Instruction) (string, error) {
	arr := make([]any, len(ixs))
	for i, ix := range ixs {
		arr[i] = ix.CanonicalMap()
	}
	data, err := ir.MarshalCanonical(arr)
	if err != nil {
		return "", fmt.Errorf("marshal instructions: %w", err)
	}
	return string(data), nil
}

// touchScan marks an existing scan as seen at clock value next, unless it
// already is the latest scan of its program.
func touchScan(ctx context.Context, tx *sql.Tx, scan Scan, next int64) (Scan, error) {
	latest, err := latestScan(ctx, tx, scan.Program)
	if err != nil {
		return Scan{}, err
	}
	if latest.ID == scan.ID {
		return scan, nil
	}
	if _, err := tx.ExecContext(ctx, `UPDATE scans SET last_seen_seq = ? WHERE id = ?`, next, scan.ID); err != nil {
		return Scan{}, fmt.Errorf("touch scan: %w", err)
	}
	scan.LastSeenSeq = next
	return scan, nil
}

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func scanBySource(ctx context.Context, q queryRower, source, hash string) (Scan, error) {
	row := q.QueryRowContext(ctx, `
		SELECT `+scanColumns+`
		FROM scans
		WHERE source = ? AND program_hash = ?
	`, source, hash)
	return scanRow(row)
}
