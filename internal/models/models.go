package models

import "time"

// GenerationMode names the dialog a prompt arrived through.
type GenerationMode string

const (
	ModeText     GenerationMode = "text"
	ModeIdea     GenerationMode = "idea"
	ModeFreeform GenerationMode = "freeform"
)

// User is one row of the ledger, keyed by the Telegram user id.
// ReferrerID is set at most once, when the row is first inserted.
type User struct {
	UserID          int64
	FreeGenerations int
	ReferrerID      *int64
	InvitedCount    int
	JoinedBonus     bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type GenerationLog struct {
	ID        int64
	UserID    int64
	Mode      GenerationMode
	Prompt    string
	CreatedAt time.Time
}
