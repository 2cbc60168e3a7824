package combat

// stepSet is a bitmask of first-step directions.
type stepSet uint8

func (s stepSet) has(d Direction) bool { return s&(1<<d) != 0 }

// frontierEntry is one square on the current BFS level together with every
// first step from the origin that reaches it at this distance.
type frontierEntry struct {
	pos   Pos
	steps stepSet
}

// Step is a candidate first move.
type Step struct {
	Dir Direction
	Pos Pos
}

// chooseTarget picks the winning target square: first in reading order.
func chooseTarget(targets []Pos) (Pos, bool) {
	if len(targets) == 0 {
		return Pos{}, false
	}
	best := targets[0]
	for _, p := range targets[1:] {
		if ReadingLess(p, best) {
			best = p
		}
	}
	return best, true
}

// stepLess orders first steps by direction priority, then by the reading
// order of the square they land on.
func stepLess(a, b Step) bool {
	if a.Dir != b.Dir {
		return a.Dir < b.Dir
	}
	return ReadingLess(a.Pos, b.Pos)
}

// chooseStep picks the preferred first step among candidates.
func chooseStep(steps []Step) (Step, bool) {
	if len(steps) == 0 {
		return Step{}, false
	}
	best := steps[0]
	for _, s := range steps[1:] {
		if stepLess(s, best) {
			best = s
		}
	}
	return best, true
}

// isTargetSquare reports whether p is empty and next to a live unit of the
// enemy faction.
func isTargetSquare(r *Registry, p Pos, enemy Faction) bool {
	if r.grid.At(p) != Space {
		return false
	}
	for _, n := range p.Neighbours() {
		if id, ok := r.UnitAt(n); ok && r.units[id].Faction == enemy {
			return true
		}
	}
	return false
}

// FindStep runs the reachability search from origin toward the nearest
// reachable target square of the enemy faction. It returns the first step
// to take this turn, or false when no enemy can be reached.
func FindStep(r *Registry, origin Pos, enemy Faction) (Direction, bool) {
	g := r.grid
	visited := make([]bool, g.W*g.H)
	mark := func(p Pos) { visited[p.R*g.W+p.C] = true }
	seen := func(p Pos) bool { return visited[p.R*g.W+p.C] }

	if g.InBounds(origin) {
		mark(origin)
	}

	var frontier []frontierEntry
	for _, d := range Directions {
		p := origin.Add(d)
		if g.At(p) != Space || seen(p) {
			continue
		}
		mark(p)
		frontier = append(frontier, frontierEntry{pos: p, steps: 1 << d})
	}

	for len(frontier) > 0 {
		var targets []Pos
		for _, e := range frontier {
			if isTargetSquare(r, e.pos, enemy) {
				targets = append(targets, e.pos)
			}
		}
		if target, ok := chooseTarget(targets); ok {
			var steps stepSet
			for _, e := range frontier {
				if e.pos == target {
					steps = e.steps
					break
				}
			}
			var cands []Step
			for _, d := range Directions {
				if steps.has(d) {
					cands = append(cands, Step{Dir: d, Pos: origin.Add(d)})
				}
			}
			best, _ := chooseStep(cands)
			return best.Dir, true
		}

		// Squares reached from several parents on the same level inherit
		// the union of their first steps.
		next := make([]frontierEntry, 0, len(frontier)*2)
		index := make(map[Pos]int, len(frontier)*2)
		for _, e := range frontier {
			for _, n := range e.pos.Neighbours() {
				if i, ok := index[n]; ok {
					next[i].steps |= e.steps
					continue
				}
				if g.At(n) != Space || seen(n) {
					continue
				}
				mark(n)
				index[n] = len(next)
				next = append(next, frontierEntry{pos: n, steps: e.steps})
			}
		}
		frontier = next
	}
	return 0, false
}
