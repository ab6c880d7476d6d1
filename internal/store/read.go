package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ReadAll returns every journaled operation in replay order (seq ascending).
// Returns an empty slice, not nil, for an empty journal.
func (s *Store) ReadAll(ctx context.Context) ([]Operation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, receipt_id, kind, caller, payload, ts
		FROM operations
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: query operations: %w", err)
	}
	defer rows.Close()

	ops := []Operation{}
	for rows.Next() {
		var (
			op      Operation
			caller  string
			payload string
			ts      int64
		)
		if err := rows.Scan(&op.Seq, &op.ReceiptID, &op.Kind, &caller, &payload, &ts); err != nil {
			return nil, fmt.Errorf("store: scan operation: %w", err)
		}
		op.Caller = common.HexToAddress(caller)
		op.Payload = json.RawMessage(payload)
		op.Time = time.Unix(ts, 0).UTC()
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: iterate operations: %w", err)
	}
	return ops, nil
}

// Count returns the number of journaled operations.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM operations`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count operations: %w", err)
	}
	return n, nil
}
