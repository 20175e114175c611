package store

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// transcriptWidth is the wrap column for exported message text.
const transcriptWidth = 70

// RenderTranscript produces the downloadable plain-text transcript of the
// full history: a header block with the export time and total count, then
// each turn as "[timestamp] SPEAKER (Turn N):" followed by the wrapped
// message text. Deterministic for a given history and clock.
func (s *Store) RenderTranscript(ctx context.Context, now time.Time) (string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, speaker, text, timestamp, turn_number FROM conversations ORDER BY id ASC`)
	if err != nil {
		return "", fmt.Errorf("select transcript turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		if err := rows.Scan(&t.ID, &t.Speaker, &t.Text, &t.Timestamp, &t.Turn); err != nil {
			return "", fmt.Errorf("scan transcript turn: %w", err)
		}
		turns = append(turns, t)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("iterate transcript turns: %w", err)
	}

	var b strings.Builder
	b.WriteString("VIDES MĀKSLAS SARUNAS - CONVERSATION EXPORT\n")
	b.WriteString(strings.Repeat("=", transcriptWidth) + "\n")
	fmt.Fprintf(&b, "Exported: %s\n", now.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Total messages: %d\n", len(turns))
	b.WriteString(strings.Repeat("=", transcriptWidth) + "\n\n")

	if len(turns) == 0 {
		b.WriteString("No conversation history yet.\n")
		b.WriteString("The exhibition has not recorded any messages.\n")
		return b.String(), nil
	}

	for _, t := range turns {
		fmt.Fprintf(&b, "[%s] %s (Turn %d):\n", t.Timestamp, strings.ToUpper(t.Speaker), t.Turn)
		for _, line := range wrapText(t.Text, transcriptWidth) {
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	return b.String(), nil
}

// wrapText breaks text on spaces into lines of at most width columns. A
// single word longer than width stays on its own line unbroken.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return []string{""}
	}

	var (
		lines []string
		line  strings.Builder
	)
	for _, word := range words {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}
