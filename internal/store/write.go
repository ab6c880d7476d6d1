package store

import (
	"context"
	"fmt"
)

// Append writes an operation to the journal and returns its sequence
// number. ON CONFLICT(receipt_id) DO NOTHING makes retried appends
// idempotent: re-appending an operation that already landed returns the
// existing row's sequence.
func (s *Store) Append(ctx context.Context, op Operation) (int64, error) {
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO operations (receipt_id, kind, caller, payload, ts)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(receipt_id) DO NOTHING
	`,
		op.ReceiptID,
		op.Kind,
		op.Caller.Hex(),
		string(op.Payload),
		op.Time.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("store: append operation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("store: append operation: rows affected: %w", err)
	}
	if affected > 0 {
		seq, err := result.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("store: append operation: last insert id: %w", err)
		}
		return seq, nil
	}

	// Conflict: the receipt already landed. Return the existing seq.
	var seq int64
	err = s.db.QueryRowContext(ctx,
		`SELECT seq FROM operations WHERE receipt_id = ?`, op.ReceiptID,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("store: append operation: select existing: %w", err)
	}
	return seq, nil
}
