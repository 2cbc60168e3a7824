package combat

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Engine runs a battle on a grid it owns exclusively. It is not safe for
// concurrent use; run separate engines for parallel simulations.
type Engine struct {
	rules Rules
	grid  *Grid
	units *Registry
	emit  func(Event)
	log   *zap.Logger

	rounds    int
	over      bool
	stalemate bool

	// position fingerprints seen since the last attack
	quiet map[string]struct{}

	// OnRound receives the state after every completed round.
	OnRound func(Snapshot)
}

// turn records what a single unit did.
type turn struct {
	skipped   bool
	noEnemies bool
	moved     bool
	attacked  bool
}

// NewEngine validates the layout and rules and spawns every unit. emit may
// be nil; log may be nil.
func NewEngine(layout *Layout, rules Rules, emit func(Event), log *zap.Logger) (*Engine, error) {
	if layout == nil {
		return nil, ErrMalformedInput.WithMsg("nil layout")
	}
	if layout.W <= 0 || layout.H <= 0 || len(layout.Walls) != layout.W*layout.H {
		return nil, ErrMalformedInput.WithMsg("layout %dx%d with %d cells", layout.W, layout.H, len(layout.Walls))
	}
	for _, f := range rules.Factions {
		if f.HP <= 0 || f.Attack <= 0 {
			return nil, ErrMalformedInput.WithMsg("faction %q: hp and attack must be positive", f.Name)
		}
	}
	if emit == nil {
		emit = func(Event) {}
	}
	if log == nil {
		log = zap.NewNop()
	}

	g := NewGrid(layout.W, layout.H)
	for row := 0; row < layout.H; row++ {
		for col := 0; col < layout.W; col++ {
			if p := (Pos{R: row, C: col}); layout.Wall(p) {
				g.Set(p, Wall)
			}
		}
	}
	e := &Engine{rules: rules, grid: g, units: NewRegistry(g), emit: emit, log: log}
	for _, s := range layout.Spawns {
		if !s.Faction.Valid() {
			return nil, ErrMalformedInput.WithMsg("spawn at %s: unknown faction %d", s.Pos, s.Faction)
		}
		fr := rules.Factions[s.Faction]
		id, err := e.units.Spawn(s.Faction, s.Pos, fr.HP, fr.Attack)
		if err != nil {
			return nil, err
		}
		at := s.Pos
		e.emit(Event{Type: EventSpawn, Unit: id, Faction: s.Faction, To: &at, HP: fr.HP})
	}
	counts := e.units.FactionCounts()
	for f, n := range counts {
		if n == 0 {
			return nil, ErrMalformedInput.WithMsg("no units of faction %q", rules.Factions[f].Name)
		}
	}
	log.Debug("battle ready",
		zap.Int("width", layout.W), zap.Int("height", layout.H),
		zap.Int(rules.Factions[FactionA].Name, counts[FactionA]),
		zap.Int(rules.Factions[FactionB].Name, counts[FactionB]))
	return e, nil
}

func (e *Engine) Rules() Rules        { return e.rules }
func (e *Engine) Grid() *Grid         { return e.grid }
func (e *Engine) Registry() *Registry { return e.units }
func (e *Engine) Rounds() int         { return e.rounds }
func (e *Engine) Over() bool          { return e.over }

// fault stamps registry errors with the current round and unit.
func (e *Engine) fault(err error, id UnitID) error {
	var ce *Error
	if !errors.As(err, &ce) {
		ce = ErrInvariantViolation.WithCause(err)
	}
	ce = ce.AtRound(e.rounds)
	if id >= 0 {
		ce = ce.ForUnit(id)
	}
	return ce
}

// takeTurn plays one unit: check adjacency, otherwise move one step and
// check again, then attack if an enemy is next to it.
func (e *Engine) takeTurn(id UnitID) (turn, error) {
	var t turn
	u := e.units.Unit(id)
	if !u.Alive() {
		t.skipped = true
		return t, nil
	}
	enemy := u.Faction.Enemy()
	if e.units.Alive(enemy) == 0 {
		t.noEnemies = true
		return t, nil
	}

	if len(adjacentEnemies(e.units, u)) == 0 {
		d, ok := FindStep(e.units, u.Pos, enemy)
		if !ok {
			return t, nil
		}
		from := u.Pos
		if err := e.units.Move(id, d); err != nil {
			return t, e.fault(err, id)
		}
		t.moved = true
		to := u.Pos
		e.emit(Event{Round: e.rounds, Type: EventMove, Unit: id, Faction: u.Faction, From: &from, To: &to})
		e.log.Debug("move", zap.Int("round", e.rounds), zap.Int32("unit", int32(id)),
			zap.Stringer("from", from), zap.Stringer("dir", d))
		if len(adjacentEnemies(e.units, u)) == 0 {
			return t, nil
		}
	}

	target, ok := SelectTarget(e.units, id)
	if !ok {
		return t, ErrInvariantViolation.AtRound(e.rounds).ForUnit(id).WithMsg("no target despite adjacent enemy")
	}
	s, err := strike(e.units, id, target)
	if err != nil {
		return t, e.fault(err, id)
	}
	t.attacked = true
	tgt := s.Target
	e.emit(Event{Round: e.rounds, Type: EventHit, Unit: id, Faction: u.Faction, Target: &tgt, Damage: s.Damage, HP: s.HPLeft})
	e.log.Debug("hit", zap.Int("round", e.rounds), zap.Int32("unit", int32(id)),
		zap.Int32("target", int32(s.Target)), zap.Int("damage", s.Damage), zap.Int("hp", s.HPLeft))
	if s.Killed {
		dead := e.units.Unit(s.Target)
		at := dead.Pos
		e.emit(Event{Round: e.rounds, Type: EventKill, Unit: id, Faction: u.Faction, Target: &tgt, From: &at})
		e.log.Debug("kill", zap.Int("round", e.rounds), zap.Int32("unit", int32(id)),
			zap.Int32("target", int32(s.Target)), zap.Stringer("at", at))
	}
	return t, nil
}

// PlayRound gives every unit alive at round start one turn, in reading
// order fixed at round start. It returns false when the round was cut short
// because a unit found no enemies left; such a round is not counted.
func (e *Engine) PlayRound() (bool, error) {
	if e.over {
		return false, nil
	}
	order := e.units.ReadingOrder()
	attacked := false
	for _, id := range order {
		t, err := e.takeTurn(id)
		if err != nil {
			return false, err
		}
		if t.noEnemies {
			e.finish(false)
			return false, nil
		}
		attacked = attacked || t.attacked
	}
	e.rounds++
	if err := e.units.Verify(); err != nil {
		return false, e.fault(err, -1)
	}
	e.emit(Event{Round: e.rounds, Type: EventRound})
	e.log.Debug("round complete", zap.Int("round", e.rounds), zap.Int("hp_sum", e.units.HPSum()))
	if e.OnRound != nil {
		e.OnRound(e.Snapshot())
	}
	if attacked || e.quiet == nil {
		e.quiet = map[string]struct{}{}
	}
	// Without attacks HP is frozen, so a repeated placement means the
	// battle cycles forever.
	key := e.placement()
	if _, seen := e.quiet[key]; seen {
		e.finish(true)
		return true, nil
	}
	e.quiet[key] = struct{}{}
	return true, nil
}

// placement fingerprints the positions of all live units.
func (e *Engine) placement() string {
	var b strings.Builder
	for i := 0; i < e.units.Len(); i++ {
		u := e.units.units[i]
		if u.alive {
			fmt.Fprintf(&b, "%d:%d,%d;", u.ID, u.Pos.R, u.Pos.C)
		}
	}
	return b.String()
}

func (e *Engine) finish(stalemate bool) {
	e.over = true
	e.stalemate = stalemate
	note := ""
	if stalemate {
		note = "stalemate"
	}
	e.emit(Event{Round: e.rounds, Type: EventEnd, Note: note, HP: e.units.HPSum()})
	out := e.Outcome()
	e.log.Info("combat over",
		zap.Int("rounds", out.Rounds), zap.Int("hp_sum", out.HPSum),
		zap.Int("score", out.Score), zap.String("winner", out.Winner),
		zap.Bool("stalemate", stalemate))
}

// Run plays rounds until one faction is eliminated or the battle settles
// into a cycle without attacks.
func (e *Engine) Run() (Outcome, error) {
	for !e.over {
		if _, err := e.PlayRound(); err != nil {
			return Outcome{}, err
		}
	}
	return e.Outcome(), nil
}

// Snapshot copies the current state.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{Round: e.rounds, Grid: e.grid.Clone(), Units: e.units.States()}
}

// Outcome summarises the current state.
func (e *Engine) Outcome() Outcome {
	return outcomeOf(e.units, e.rules, e.rounds, e.stalemate)
}
