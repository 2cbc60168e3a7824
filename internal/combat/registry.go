package combat

import "sort"

// Registry is the arena of units. The grid doubles as its position index:
// every occupancy change goes through the registry so both stay in step.
type Registry struct {
	grid   *Grid
	units  []*Unit
	counts [2]int
}

func NewRegistry(g *Grid) *Registry {
	return &Registry{grid: g}
}

func (r *Registry) Grid() *Grid { return r.grid }

// Spawn creates a unit on an empty square.
func (r *Registry) Spawn(f Faction, p Pos, hp, attack int) (UnitID, error) {
	if !f.Valid() {
		return 0, ErrMalformedInput.WithMsg("unknown faction %d at %s", f, p)
	}
	if c := r.grid.At(p); c != Space {
		return 0, ErrMalformedInput.WithMsg("spawn at %s: square is not empty", p)
	}
	id := UnitID(len(r.units))
	r.units = append(r.units, &Unit{ID: id, Faction: f, Pos: p, HP: hp, Attack: attack, alive: true})
	r.grid.Set(p, Occupant(id))
	r.counts[f]++
	return id, nil
}

// Unit returns the unit with the given id, dead or alive. Nil if unknown.
func (r *Registry) Unit(id UnitID) *Unit {
	if id < 0 || int(id) >= len(r.units) {
		return nil
	}
	return r.units[id]
}

func (r *Registry) IsAlive(id UnitID) bool { return r.Unit(id).Alive() }

// UnitAt returns the live unit standing on p.
func (r *Registry) UnitAt(p Pos) (UnitID, bool) {
	id, ok := r.grid.At(p).Unit()
	if !ok || !r.IsAlive(id) {
		return 0, false
	}
	return id, true
}

// ReadingOrder lists live units by their current position.
func (r *Registry) ReadingOrder() []UnitID {
	ids := make([]UnitID, 0, r.counts[0]+r.counts[1])
	for _, u := range r.units {
		if u.alive {
			ids = append(ids, u.ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool {
		return ReadingLess(r.units[ids[i]].Pos, r.units[ids[j]].Pos)
	})
	return ids
}

// FactionCounts returns the number of live units per faction.
func (r *Registry) FactionCounts() [2]int { return r.counts }

func (r *Registry) Alive(f Faction) int { return r.counts[f] }

// Move steps a live unit one square onto Space.
func (r *Registry) Move(id UnitID, d Direction) error {
	u := r.Unit(id)
	if !u.Alive() {
		return ErrInvariantViolation.ForUnit(id).WithMsg("move of dead or unknown unit")
	}
	if d >= dirCount {
		return ErrInvariantViolation.ForUnit(id).WithMsg("bad direction %d", d)
	}
	to := u.Pos.Add(d)
	if c := r.grid.At(to); c != Space {
		return ErrInvariantViolation.ForUnit(id).WithMsg("move %s from %s onto non-empty square", d, u.Pos)
	}
	r.grid.Set(u.Pos, Space)
	r.grid.Set(to, Occupant(id))
	u.Pos = to
	return nil
}

// ApplyDamage lowers HP. Lethal damage removes the unit and frees its
// square immediately; HP is clamped at zero.
func (r *Registry) ApplyDamage(id UnitID, amount int) (killed bool, err error) {
	u := r.Unit(id)
	if !u.Alive() {
		return false, ErrInvariantViolation.ForUnit(id).WithMsg("damage to dead or unknown unit")
	}
	if amount < 0 {
		return false, ErrInvariantViolation.ForUnit(id).WithMsg("negative damage %d", amount)
	}
	u.HP -= amount
	if u.HP > 0 {
		return false, nil
	}
	u.HP = 0
	u.alive = false
	r.counts[u.Faction]--
	r.grid.Set(u.Pos, Space)
	return true, nil
}

// HPSum adds up the hit points of every live unit.
func (r *Registry) HPSum() int {
	sum := 0
	for _, u := range r.units {
		if u.alive {
			sum += u.HP
		}
	}
	return sum
}

// States copies the live units in reading order.
func (r *Registry) States() []UnitState {
	ids := r.ReadingOrder()
	out := make([]UnitState, 0, len(ids))
	for _, id := range ids {
		u := r.units[id]
		out = append(out, UnitState{ID: u.ID, Faction: u.Faction, Row: u.Pos.R, Col: u.Pos.C, HP: u.HP})
	}
	return out
}

// Len is the number of units ever spawned.
func (r *Registry) Len() int { return len(r.units) }

// Verify checks that grid occupancy and unit positions agree.
func (r *Registry) Verify() error {
	var counts [2]int
	for _, u := range r.units {
		if !u.alive {
			if id, ok := r.grid.At(u.Pos).Unit(); ok && id == u.ID {
				return ErrInvariantViolation.ForUnit(u.ID).WithMsg("dead unit still occupies %s", u.Pos)
			}
			continue
		}
		counts[u.Faction]++
		if u.HP <= 0 {
			return ErrInvariantViolation.ForUnit(u.ID).WithMsg("live unit with hp %d", u.HP)
		}
		if id, ok := r.grid.At(u.Pos).Unit(); !ok || id != u.ID {
			return ErrInvariantViolation.ForUnit(u.ID).WithMsg("grid at %s does not hold the unit", u.Pos)
		}
	}
	for row := 0; row < r.grid.H; row++ {
		for col := 0; col < r.grid.W; col++ {
			p := Pos{R: row, C: col}
			id, ok := r.grid.At(p).Unit()
			if !ok {
				continue
			}
			if u := r.Unit(id); !u.Alive() || u.Pos != p {
				return ErrInvariantViolation.ForUnit(id).WithMsg("grid at %s names a unit that is elsewhere", p)
			}
		}
	}
	if counts != r.counts {
		return ErrInvariantViolation.WithMsg("faction counts %v, recount %v", r.counts, counts)
	}
	return nil
}
