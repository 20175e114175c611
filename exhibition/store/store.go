// Package store owns the three persisted entities of the installation: the
// conversation log, the singleton exhibition status row, and the control
// command queue. All access goes through a Store; nothing else touches the
// tables.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	internal "github.com/EvelinyStark/vides-makslas-sarunas/exhibition"
	"github.com/rs/zerolog"
)

var (
	// ErrInvalidCommand is returned when a control command is not one of
	// the recognized actions.
	ErrInvalidCommand = errors.New("invalid command")
)

// Turn is one message attributed to one of the two fixed speakers.
// Immutable once created; only ever deleted in bulk by ClearHistory.
type Turn struct {
	ID        int64  `json:"-"`
	Speaker   string `json:"speaker"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
	Turn      int    `json:"turn"`
}

// Status is the singleton record capturing whether the exhibition is live,
// whose turn it is, and the cached message count. Exactly one row exists
// after initialization.
type Status struct {
	Active        bool   `json:"active"`
	Turn          int    `json:"turn"`
	Speaker       string `json:"speaker"`
	TotalMessages int    `json:"total_messages"`
	LastUpdate    string `json:"last_update"`
	TTSMode       string `json:"tts_mode"`
	AIMode        string `json:"ai_mode"`
}

// Stats are live counts computed from the log, independent of the cached
// total_messages column.
type Stats struct {
	TotalMessages int `json:"total_messages"`
	JanisMessages int `json:"janis_messages"`
	AnnaMessages  int `json:"anna_messages"`
}

// Command is one queued control-panel action awaiting pickup by the driver.
type Command struct {
	ID        int64  `json:"id"`
	Command   string `json:"command"`
	Timestamp string `json:"timestamp"`
}

// Control commands accepted by SubmitCommand.
const (
	CommandStart   = "start"
	CommandStop    = "stop"
	CommandClear   = "clear"
	CommandRefresh = "refresh"
)

// defaultStatus is what reads fall back to when the status row is absent.
func defaultStatus() Status {
	return Status{
		Active:  false,
		Speaker: internal.DefaultSpeaker,
		TTSMode: internal.DefaultTTSMode,
		AIMode:  internal.DefaultAIMode,
	}
}

// Store wraps the database handle. Each call borrows a pooled connection,
// does its reads/writes, and releases it; no transaction spans two calls.
type Store struct {
	db     *sql.DB
	logger zerolog.Logger
}

func New(db *sql.DB, logger zerolog.Logger) *Store {
	return &Store{db: db, logger: logger.With().Str("component", "store").Logger()}
}

// Init ensures the singleton status row exists. The migration seeds it, but
// re-ensuring on every start keeps the invariant even against a hand-edited
// database file.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO exhibition_status (id) VALUES (1)`)
	if err != nil {
		return fmt.Errorf("ensure status row: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
