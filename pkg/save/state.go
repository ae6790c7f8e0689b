// Package save defines the snapshot format for persisting a play
// session: which script is running, where the program counter sits, and
// the variable and speaker state needed to resume there.
package save

import (
	"time"

	"github.com/google/uuid"
)

// State is one save slot. Snapshots are taken at suspension points;
// restoring replays the suspended instruction.
type State struct {
	ID     uuid.UUID `json:"id"`
	Script string    `json:"script"` // script identifier, e.g. scene file stem
	PC     int       `json:"pc"`

	Vars map[string]int64 `json:"vars,omitempty"` // non-zero slots only

	// Speaker context
	Char        int    `json:"char"`
	Sub         int    `json:"sub"`
	Pos         int    `json:"pos"`
	SpeakerName string `json:"speaker_name,omitempty"`

	// Presentation state the stage needs to rebuild on load
	Music  string `json:"music,omitempty"`
	Widget string `json:"widget,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New creates an empty save state for a script.
func New(script string) *State {
	now := time.Now()
	return &State{
		ID:        uuid.New(),
		Script:    script,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
