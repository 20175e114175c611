package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	internal "github.com/EvelinyStark/vides-makslas-sarunas/exhibition"
)

// AppendTurn inserts a conversation turn and rewrites the cached
// total_messages on the status row in the same transaction, so the cached
// count always matches the live count after commit. Returns the assigned id.
func (s *Store) AppendTurn(ctx context.Context, turn Turn) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin append turn: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO conversations (speaker, text, timestamp, turn_number) VALUES (?, ?, ?, ?)`,
		turn.Speaker, turn.Text, turn.Timestamp, turn.Turn)
	if err != nil {
		return 0, fmt.Errorf("insert turn: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("turn id: %w", err)
	}

	if err := refreshMessageCount(ctx, tx); err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit append turn: %w", err)
	}

	s.logger.Debug().Int64("id", id).Str("speaker", turn.Speaker).Msg("turn appended")
	return id, nil
}

// Conversation returns the most recent limit turns in chronological order
// together with the current status snapshot. A non-positive limit falls back
// to the default window. Never fails on empty history: an absent status row
// degrades to defaults with active=false.
func (s *Store) Conversation(ctx context.Context, limit int) ([]Turn, Status, error) {
	if limit <= 0 {
		limit = internal.DefaultHistoryLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, speaker, text, timestamp, turn_number FROM conversations ORDER BY id DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, Status{}, fmt.Errorf("select turns: %w", err)
	}
	defer rows.Close()

	turns := []Turn{}
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.Speaker, &t.Text, &t.Timestamp, &t.Turn); err != nil {
			return nil, Status{}, fmt.Errorf("scan turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, Status{}, fmt.Errorf("iterate turns: %w", err)
	}

	// Fetched newest-first; deliver oldest-first.
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}

	status, err := s.status(ctx)
	if err != nil {
		return nil, Status{}, err
	}

	return turns, status, nil
}

// ClearHistory deletes every turn and resets the status counters. The delete
// and the status reset share one transaction. Irreversible.
func (s *Store) ClearHistory(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear history: %w", err)
	}
	defer tx.Rollback()

	if err := clearHistoryTx(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear history: %w", err)
	}

	s.logger.Info().Msg("conversation history cleared")
	return nil
}

// Stats computes the total and per-speaker counts live from the log,
// deliberately ignoring the cached total_messages column.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(CASE WHEN speaker = ? THEN 1 END),
		       COUNT(CASE WHEN speaker = ? THEN 1 END)
		FROM conversations`,
		internal.SpeakerJanis, internal.SpeakerAnna).
		Scan(&st.TotalMessages, &st.JanisMessages, &st.AnnaMessages)
	if err != nil {
		return Stats{}, fmt.Errorf("count messages: %w", err)
	}
	return st, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// refreshMessageCount rewrites the cached total_messages from a fresh count
// and advances last_update. Callers run it inside their own transaction.
func refreshMessageCount(ctx context.Context, tx execer) error {
	var total int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM conversations`).Scan(&total); err != nil {
		return fmt.Errorf("count turns: %w", err)
	}
	_, err := tx.ExecContext(ctx,
		`UPDATE exhibition_status SET total_messages = ?, last_update = CURRENT_TIMESTAMP WHERE id = 1`,
		total)
	if err != nil {
		return fmt.Errorf("update message count: %w", err)
	}
	return nil
}

func clearHistoryTx(ctx context.Context, tx execer) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM conversations`); err != nil {
		return fmt.Errorf("delete turns: %w", err)
	}
	_, err := tx.ExecContext(ctx, `
		UPDATE exhibition_status
		SET current_turn = 0, total_messages = 0, current_speaker = ?,
		    last_update = CURRENT_TIMESTAMP
		WHERE id = 1`,
		internal.DefaultSpeaker)
	if err != nil {
		return fmt.Errorf("reset status: %w", err)
	}
	return nil
}

// errNoStatusRow reports whether err means the singleton row is missing.
func errNoStatusRow(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
