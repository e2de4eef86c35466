package db

import (
	"clipbot/model"
	"context"
	"time"
)

// RecordDecision appends a moderator decision.
func (s *Store) RecordDecision(ctx context.Context, rec model.DecisionRecord) error {
	if rec.DecidedAt.IsZero() {
		rec.DecidedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO decisions (request_message_id, moderator_id, decision, clips_message_id, decided_at)
		VALUES (?, ?, ?, ?, ?)
	`, rec.RequestMessageID, rec.ModeratorID, string(rec.Decision), rec.ClipsMessageID, rec.DecidedAt.Unix())
	return err
}

// ListDecisions returns the latest decisions, newest first.
func (s *Store) ListDecisions(ctx context.Context, limit int) ([]model.DecisionRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT request_message_id, moderator_id, decision, clips_message_id, decided_at
		FROM decisions
		ORDER BY decided_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []model.DecisionRecord
	for rows.Next() {
		var rec model.DecisionRecord
		var decision string
		var decidedAt int64
		if err := rows.Scan(&rec.RequestMessageID, &rec.ModeratorID, &decision, &rec.ClipsMessageID, &decidedAt); err != nil {
			return nil, err
		}
		rec.Decision = model.Decision(decision)
		rec.DecidedAt = time.Unix(decidedAt, 0)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// CountDecisions returns how many decisions of the given kind a moderator made.
func (s *Store) CountDecisions(ctx context.Context, moderatorID string, decision model.Decision) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM decisions WHERE moderator_id = ? AND decision = ?
	`, moderatorID, string(decision)).Scan(&count)
	return count, err
}
