package combat

// preferTarget reports whether a should be attacked before b: fewer hit
// points first, then reading order.
func preferTarget(a, b *Unit) bool {
	if a.HP != b.HP {
		return a.HP < b.HP
	}
	return ReadingLess(a.Pos, b.Pos)
}

// adjacentEnemies lists live enemy units orthogonally next to the unit.
func adjacentEnemies(r *Registry, u *Unit) []*Unit {
	var out []*Unit
	for _, n := range u.Pos.Neighbours() {
		if id, ok := r.UnitAt(n); ok && r.units[id].Faction != u.Faction {
			out = append(out, r.units[id])
		}
	}
	return out
}

// SelectTarget picks the attack target for the given unit.
func SelectTarget(r *Registry, attacker UnitID) (UnitID, bool) {
	u := r.Unit(attacker)
	if !u.Alive() {
		return 0, false
	}
	var best *Unit
	for _, e := range adjacentEnemies(r, u) {
		if best == nil || preferTarget(e, best) {
			best = e
		}
	}
	if best == nil {
		return 0, false
	}
	return best.ID, true
}

// Strike is the result of one resolved attack.
type Strike struct {
	Attacker UnitID
	Target   UnitID
	Damage   int
	HPLeft   int
	Killed   bool
}

// Resolve selects a target for the attacker and applies its attack power.
// With no adjacent enemy it is a no-op and returns false.
func Resolve(r *Registry, attacker UnitID) (Strike, bool, error) {
	target, ok := SelectTarget(r, attacker)
	if !ok {
		return Strike{}, false, nil
	}
	s, err := strike(r, attacker, target)
	return s, err == nil, err
}

// strike applies one hit from attacker to target after checking that the
// pair is a legal attack.
func strike(r *Registry, attacker, target UnitID) (Strike, error) {
	a, t := r.Unit(attacker), r.Unit(target)
	if !a.Alive() {
		return Strike{}, ErrInvariantViolation.ForUnit(attacker).WithMsg("dead unit attacks")
	}
	if !t.Alive() {
		return Strike{}, ErrInvariantViolation.ForUnit(attacker).WithMsg("attack on dead unit %d", target)
	}
	if a.Faction == t.Faction {
		return Strike{}, ErrInvariantViolation.ForUnit(attacker).WithMsg("attack on ally %d", target)
	}
	if !Adjacent(a.Pos, t.Pos) {
		return Strike{}, ErrInvariantViolation.ForUnit(attacker).WithMsg("attack on non-adjacent unit %d at %s", target, t.Pos)
	}
	killed, err := r.ApplyDamage(target, a.Attack)
	if err != nil {
		return Strike{}, err
	}
	return Strike{Attacker: attacker, Target: target, Damage: a.Attack, HPLeft: t.HP, Killed: killed}, nil
}
