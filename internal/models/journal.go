package models

import "time"

// JournalEntry is the model for the 'journal_entries' table. An entry
// is either typed text or a transcribed voice note; meditation scripts
// generated for the user are stored here too so the journal shows one
// timeline.
type JournalEntry struct {
	ID     int64  `json:"id" db:"id"`
	UserID int64  `json:"userId" db:"user_id"`
	Kind   string `json:"kind" db:"kind"` // text, voice, meditation
	Title  string `json:"title" db:"title"`
	Body   string `json:"body" db:"body"`

	// Voice entries only
	AudioFilename *string `json:"audioFilename,omitempty" db:"audio_filename"`
	DurationSecs  *int    `json:"durationSecs,omitempty" db:"duration_secs"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
