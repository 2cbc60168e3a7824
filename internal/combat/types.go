package combat

import (
	"fmt"

	"skirmish/internal/config"
)

// Faction is one of the two opposing sides.
type Faction uint8

const (
	FactionA Faction = iota
	FactionB
)

// Enemy returns the opposing faction.
func (f Faction) Enemy() Faction { return 1 - f }

func (f Faction) Valid() bool { return f <= FactionB }

// FactionRules holds the fixed per-faction parameters.
type FactionRules struct {
	Name   string
	Marker rune
	HP     int
	Attack int
}

// Rules is the engine configuration. Factions is indexed by Faction.
type Rules struct {
	Factions [2]FactionRules
}

// DefaultRules mirrors config.Default().
func DefaultRules() Rules {
	r, _ := RulesFrom(config.Default())
	return r
}

// RulesFrom converts a loaded config into engine rules.
func RulesFrom(cfg *config.Config) (Rules, error) {
	var r Rules
	if cfg == nil {
		return r, ErrMalformedInput.WithMsg("nil config")
	}
	if err := cfg.Validate(); err != nil {
		return r, ErrMalformedInput.WithCause(err)
	}
	for i, f := range cfg.Factions {
		r.Factions[i] = FactionRules{
			Name:   f.Name,
			Marker: []rune(f.Marker)[0],
			HP:     f.HP,
			Attack: f.Attack,
		}
	}
	return r, nil
}

// FactionByName resolves a faction name.
func (r Rules) FactionByName(name string) (Faction, bool) {
	for i, f := range r.Factions {
		if f.Name == name {
			return Faction(i), true
		}
	}
	return 0, false
}

// FactionByMarker resolves a map character.
func (r Rules) FactionByMarker(c rune) (Faction, bool) {
	for i, f := range r.Factions {
		if f.Marker == c {
			return Faction(i), true
		}
	}
	return 0, false
}

// WithAttack returns a copy of r with the attack of f replaced.
func (r Rules) WithAttack(f Faction, attack int) Rules {
	r.Factions[f].Attack = attack
	return r
}

func (r Rules) Name(f Faction) string {
	if !f.Valid() {
		return fmt.Sprintf("faction(%d)", uint8(f))
	}
	return r.Factions[f].Name
}

// UnitID indexes the registry arena. IDs are assigned in spawn order and
// never reused.
type UnitID int32

type Unit struct {
	ID      UnitID
	Faction Faction
	Pos     Pos
	HP      int
	Attack  int
	alive   bool
}

func (u *Unit) Alive() bool { return u != nil && u.alive }

// UnitState is a value copy of a unit for snapshots and results.
type UnitState struct {
	ID      UnitID  `json:"id"`
	Faction Faction `json:"faction"`
	Row     int     `json:"row"`
	Col     int     `json:"col"`
	HP      int     `json:"hp"`
}

// Spawn places one unit of a faction at setup.
type Spawn struct {
	Faction Faction
	Pos     Pos
}

// Layout is the parsed starting map: walls plus unit spawns in reading
// order.
type Layout struct {
	W, H   int
	Walls  []bool
	Spawns []Spawn
}

func NewLayout(w, h int) *Layout {
	return &Layout{W: w, H: h, Walls: make([]bool, w*h)}
}

func (l *Layout) InBounds(p Pos) bool {
	return p.R >= 0 && p.R < l.H && p.C >= 0 && p.C < l.W
}

func (l *Layout) Wall(p Pos) bool {
	if !l.InBounds(p) {
		return true
	}
	return l.Walls[p.R*l.W+p.C]
}

func (l *Layout) SetWall(p Pos) {
	if l.InBounds(p) {
		l.Walls[p.R*l.W+p.C] = true
	}
}
