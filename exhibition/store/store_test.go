package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/EvelinyStark/vides-makslas-sarunas/exhibition/db"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	conn, err := db.Connect(filepath.Join(t.TempDir(), "exhibition.db"))
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	s := New(conn, zerolog.Nop())
	require.NoError(t, s.Init(context.Background()))
	t.Cleanup(func() { s.Close() })
	return s
}

func appendTestTurns(t *testing.T, s *Store, n int) {
	t.Helper()
	ctx := context.Background()
	for i := 1; i <= n; i++ {
		speaker := "janis"
		if i%2 == 0 {
			speaker = "anna"
		}
		_, err := s.AppendTurn(ctx, Turn{
			Speaker:   speaker,
			Text:      fmt.Sprintf("message %d", i),
			Timestamp: fmt.Sprintf("T%d", i),
			Turn:      i,
		})
		require.NoError(t, err)
	}
}

func TestAppendTurnKeepsCachedCountInSync(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	appendTestTurns(t, s, 5)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalMessages)

	_, status, err := s.Conversation(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 5, status.TotalMessages, "cached count must match live count")
	assert.NotEmpty(t, status.LastUpdate)
}

func TestAppendTurnReturnsMonotonicIDs(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, err := s.AppendTurn(ctx, Turn{Speaker: "janis", Text: "a", Timestamp: "T1", Turn: 1})
	require.NoError(t, err)
	second, err := s.AppendTurn(ctx, Turn{Speaker: "anna", Text: "b", Timestamp: "T2", Turn: 2})
	require.NoError(t, err)

	assert.Greater(t, second, first)
}

func TestConversationRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.AppendTurn(ctx, Turn{
		Speaker:   "anna",
		Text:      "hello world",
		Timestamp: "T1",
		Turn:      3,
	})
	require.NoError(t, err)

	turns, _, err := s.Conversation(ctx, 10)
	require.NoError(t, err)
	require.Len(t, turns, 1)
	assert.Equal(t, "anna", turns[0].Speaker)
	assert.Equal(t, "hello world", turns[0].Text)
	assert.Equal(t, "T1", turns[0].Timestamp)
	assert.Equal(t, 3, turns[0].Turn)
}

func TestConversationWindowIsChronological(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	appendTestTurns(t, s, 5)

	turns, _, err := s.Conversation(ctx, 2)
	require.NoError(t, err)
	require.Len(t, turns, 2)
	// The two most recent turns, oldest of the two first.
	assert.Equal(t, "message 4", turns[0].Text)
	assert.Equal(t, "message 5", turns[1].Text)
}

func TestConversationEmptyHistory(t *testing.T) {
	s := newTestStore(t)

	turns, status, err := s.Conversation(context.Background(), 50)
	require.NoError(t, err)
	assert.Empty(t, turns)
	assert.False(t, status.Active)
	assert.Equal(t, "janis", status.Speaker)
	assert.Equal(t, 0, status.TotalMessages)
}

func TestClearHistoryResetsEverything(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	appendTestTurns(t, s, 3)
	require.NoError(t, s.UpdateStatus(ctx, Status{
		Active: true, Turn: 7, Speaker: "anna",
		TTSMode: "Hugo.lv TTS", AIMode: "Simple Fallback",
	}))

	require.NoError(t, s.ClearHistory(ctx))

	turns, status, err := s.Conversation(ctx, 50)
	require.NoError(t, err)
	assert.Empty(t, turns)
	assert.Equal(t, 0, status.TotalMessages)
	assert.Equal(t, 0, status.Turn)
	assert.Equal(t, "janis", status.Speaker)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalMessages)
}

func TestUpdateStatusFullReplace(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.UpdateStatus(ctx, Status{
		Active:  true,
		Turn:    4,
		Speaker: "anna",
		TTSMode: "silent",
		AIMode:  "scripted",
	}))

	status, err := s.CurrentStatus(ctx)
	require.NoError(t, err)
	assert.True(t, status.Active)
	assert.Equal(t, 4, status.Turn)
	assert.Equal(t, "anna", status.Speaker)
	assert.Equal(t, "silent", status.TTSMode)
	assert.Equal(t, "scripted", status.AIMode)
}

func TestStatsCountsPerSpeaker(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	appendTestTurns(t, s, 5) // janis on odd, anna on even

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TotalMessages)
	assert.Equal(t, 3, stats.JanisMessages)
	assert.Equal(t, 2, stats.AnnaMessages)
}

func TestStatsAgreeWithCachedCount(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	appendTestTurns(t, s, 4)
	require.NoError(t, s.ClearHistory(ctx))
	appendTestTurns(t, s, 2)

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	_, status, err := s.Conversation(ctx, 50)
	require.NoError(t, err)

	assert.Equal(t, stats.TotalMessages, status.TotalMessages)
	assert.Equal(t, 2, stats.TotalMessages)
}
