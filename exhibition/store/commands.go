package store

import (
	"context"
	"fmt"
	"sort"
)

// SubmitCommand validates and durably appends a control command, and for
// start/stop/clear also applies the matching status mutation right away so
// the pages reflect the action before the driver picks it up. The queue
// append and the status mutation commit in one transaction; a crash can
// never leave one without the other. "refresh" only enqueues.
func (s *Store) SubmitCommand(ctx context.Context, command string) (int64, error) {
	switch command {
	case CommandStart, CommandStop, CommandClear, CommandRefresh:
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidCommand, command)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin submit command: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO control_commands (command) VALUES (?)`, command)
	if err != nil {
		return 0, fmt.Errorf("enqueue command: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("command id: %w", err)
	}

	switch command {
	case CommandStart:
		err = setActiveTx(ctx, tx, true)
	case CommandStop:
		err = setActiveTx(ctx, tx, false)
	case CommandClear:
		err = clearHistoryTx(ctx, tx)
	}
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit submit command: %w", err)
	}

	s.logger.Info().Str("command", command).Int64("id", id).Msg("control command queued")
	return id, nil
}

// ClaimCommands hands every unprocessed command to the caller and marks it
// processed in a single statement, so two concurrent drivers cannot both
// receive the same command. Results come back in ascending id order, i.e.
// submission order. Delivery to the driver remains at-least-once from its
// own point of view; crash-after-claim handling is the driver's problem.
func (s *Store) ClaimCommands(ctx context.Context) ([]Command, error) {
	rows, err := s.db.QueryContext(ctx, `
		UPDATE control_commands SET processed = 1
		WHERE processed = 0
		RETURNING id, command, timestamp`)
	if err != nil {
		return nil, fmt.Errorf("claim commands: %w", err)
	}
	defer rows.Close()

	commands := []Command{}
	for rows.Next() {
		var c Command
		if err := rows.Scan(&c.ID, &c.Command, &c.Timestamp); err != nil {
			return nil, fmt.Errorf("scan command: %w", err)
		}
		commands = append(commands, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate commands: %w", err)
	}

	// RETURNING carries no order guarantee.
	sort.Slice(commands, func(i, j int) bool { return commands[i].ID < commands[j].ID })

	if len(commands) > 0 {
		s.logger.Debug().Int("count", len(commands)).Msg("commands claimed")
	}
	return commands, nil
}

func setActiveTx(ctx context.Context, tx execer, active bool) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE exhibition_status SET active = ?, last_update = CURRENT_TIMESTAMP WHERE id = 1`,
		boolToInt(active))
	if err != nil {
		return fmt.Errorf("set active: %w", err)
	}
	return nil
}
