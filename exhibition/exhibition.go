// Package exhibition holds the project-wide constants shared by the
// configuration, storage, and server layers of the Vides Mākslas Sarunas
// installation backend.
package exhibition

const (
	DefaultAppName      = "sarunas"
	DefaultListenAddr   = ":8080"
	DefaultDatabasePath = "data/exhibition.db"
	DefaultConfigPath   = "/etc/sarunas"

	// SpeakerJanis and SpeakerAnna are the two fixed participants of the
	// installation. Every conversation turn is attributed to one of them.
	SpeakerJanis = "janis"
	SpeakerAnna  = "anna"

	// DefaultSpeaker is who holds the floor after initialization and after
	// the history is cleared.
	DefaultSpeaker = SpeakerJanis

	DefaultTTSMode = "Hugo.lv TTS"
	DefaultAIMode  = "Simple Fallback"

	// DefaultHistoryLimit bounds how many turns the conversation endpoint
	// returns when the caller does not ask for a specific window.
	DefaultHistoryLimit = 50
)
