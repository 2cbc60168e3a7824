package combat

import "encoding/json"

// Event types emitted by the engine.
const (
	EventSpawn = "spawn"
	EventMove  = "move"
	EventHit   = "hit"
	EventKill  = "kill"
	EventRound = "round"
	EventEnd   = "end"
)

// Event is one entry of the battle log. Round is the number of rounds
// completed when the event happened; for a round event it includes the
// round just finished.
type Event struct {
	Round   int     `json:"round"`
	Type    string  `json:"type"`
	Unit    UnitID  `json:"unit"`
	Faction Faction `json:"faction"`
	From    *Pos    `json:"from,omitempty"`
	To      *Pos    `json:"to,omitempty"`
	Target  *UnitID `json:"target,omitempty"`
	Damage  int     `json:"damage,omitempty"`
	HP      int     `json:"hp,omitempty"`
	Note    string  `json:"note,omitempty"`
}

// Snapshot is the state after a completed round.
type Snapshot struct {
	Round int         `json:"round"`
	Grid  *Grid       `json:"-"`
	Units []UnitState `json:"units"`
}

// MarshalPretty is the indented JSON encoding used for result files.
func MarshalPretty(v any) []byte {
	b, _ := json.MarshalIndent(v, "", "  ")
	return b
}
