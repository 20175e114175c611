package store

import (
	"context"
	"fmt"
)

// UpdateStatus overwrites the mutable status fields wholesale. This is a
// full-replace semantic, not a merge: callers resend unchanged fields, and
// the HTTP layer fills absent fields with the fixed defaults before calling
// here. last_update always advances.
func (s *Store) UpdateStatus(ctx context.Context, st Status) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE exhibition_status
		SET active = ?, current_turn = ?, current_speaker = ?,
		    tts_mode = ?, ai_mode = ?, last_update = CURRENT_TIMESTAMP
		WHERE id = 1`,
		boolToInt(st.Active), st.Turn, st.Speaker, st.TTSMode, st.AIMode)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

// CurrentStatus returns the status snapshot, falling back to defaults when
// the singleton row is missing.
func (s *Store) CurrentStatus(ctx context.Context) (Status, error) {
	return s.status(ctx)
}

func (s *Store) status(ctx context.Context) (Status, error) {
	var (
		st     Status
		active int
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT active, current_turn, current_speaker, total_messages,
		       last_update, tts_mode, ai_mode
		FROM exhibition_status WHERE id = 1`).
		Scan(&active, &st.Turn, &st.Speaker, &st.TotalMessages,
			&st.LastUpdate, &st.TTSMode, &st.AIMode)
	if errNoStatusRow(err) {
		s.logger.Warn().Msg("status row missing, serving defaults")
		return defaultStatus(), nil
	}
	if err != nil {
		return Status{}, fmt.Errorf("select status: %w", err)
	}
	st.Active = active != 0
	return st, nil
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
