package combat

import "testing"

func unitAtPos(t *testing.T, e *Engine, p Pos) *Unit {
	t.Helper()
	id, ok := e.units.UnitAt(p)
	if !ok {
		t.Fatalf("no unit at %s", p)
	}
	return e.units.Unit(id)
}

func TestFindStepNearestTargetSquare(t *testing.T) {
	e, _ := newTestEngine(t, testRules(),
		"#######",
		"#E..G.#",
		"#...#.#",
		"#.G.#G#",
		"#######",
	)
	elf := unitAtPos(t, e, Pos{R: 1, C: 1})
	d, ok := FindStep(e.units, elf.Pos, FactionB)
	if !ok || d != Right {
		t.Fatalf("FindStep = %s,%v, expected right", d, ok)
	}
}

func TestFindStepTieOnTargetThenFirstStep(t *testing.T) {
	// (2,4) and (3,3) are both three steps away; (2,4) comes first in
	// reading order and is reachable by going right or down first.
	e, _ := newTestEngine(t, testRules(),
		"#######",
		"#.E...#",
		"#.....#",
		"#...G.#",
		"#######",
	)
	elf := unitAtPos(t, e, Pos{R: 1, C: 2})
	d, ok := FindStep(e.units, elf.Pos, FactionB)
	if !ok || d != Right {
		t.Fatalf("FindStep = %s,%v, expected right", d, ok)
	}
}

func TestEqualPathsPreferEarlierDirection(t *testing.T) {
	// The only target square (1,1) is three steps away whether the elf
	// starts up or left; up has priority.
	e, _ := newTestEngine(t, testRules(),
		"#G###",
		"#...#",
		"#..E#",
		"#####",
	)
	elf := unitAtPos(t, e, Pos{R: 2, C: 3})
	d, ok := FindStep(e.units, elf.Pos, FactionB)
	if !ok || d != Up {
		t.Fatalf("FindStep = %s,%v, expected up", d, ok)
	}

	tr, err := e.takeTurn(elf.ID)
	if err != nil {
		t.Fatal(err)
	}
	if !tr.moved || tr.attacked {
		t.Fatalf("turn %+v, expected a move without attack", tr)
	}
	if elf.Pos != (Pos{R: 1, C: 3}) {
		t.Fatalf("elf at %s after one move, expected (1,3)", elf.Pos)
	}
}

func TestFindStepUnreachable(t *testing.T) {
	e, _ := newTestEngine(t, testRules(),
		"#######",
		"#E.#G.#",
		"#..#..#",
		"#######",
	)
	if d, ok := FindStep(e.units, Pos{R: 1, C: 1}, FactionB); ok {
		t.Fatalf("expected no step, got %s", d)
	}
}

func TestFindStepBlockedByAllies(t *testing.T) {
	// The only corridor is plugged by another elf.
	e, _ := newTestEngine(t, testRules(),
		"#######",
		"#EE..G#",
		"#######",
	)
	if d, ok := FindStep(e.units, Pos{R: 1, C: 1}, FactionB); ok {
		t.Fatalf("expected no step, got %s", d)
	}
	d, ok := FindStep(e.units, Pos{R: 1, C: 2}, FactionB)
	if !ok || d != Right {
		t.Fatalf("front elf: %s,%v", d, ok)
	}
}

func TestFindStepDeterministic(t *testing.T) {
	rows := []string{
		"#########",
		"#G......#",
		"#.E.#...#",
		"#..##..G#",
		"#...##..#",
		"#...#...#",
		"#.G...G.#",
		"#.....G.#",
		"#########",
	}
	e1, _ := newTestEngine(t, testRules(), rows...)
	e2, _ := newTestEngine(t, testRules(), rows...)
	for _, id := range e1.units.ReadingOrder() {
		u := e1.units.Unit(id)
		d1, ok1 := FindStep(e1.units, u.Pos, u.Faction.Enemy())
		d2, ok2 := FindStep(e2.units, u.Pos, u.Faction.Enemy())
		if d1 != d2 || ok1 != ok2 {
			t.Fatalf("unit %d: %s,%v vs %s,%v", id, d1, ok1, d2, ok2)
		}
	}
}

func TestChooseTarget(t *testing.T) {
	got, ok := chooseTarget([]Pos{{3, 1}, {2, 4}, {2, 2}, {5, 0}})
	if !ok || got != (Pos{R: 2, C: 2}) {
		t.Fatalf("chooseTarget = %s,%v", got, ok)
	}
	if _, ok := chooseTarget(nil); ok {
		t.Fatal("empty target list should not choose")
	}
}

func TestChooseStep(t *testing.T) {
	origin := Pos{R: 3, C: 3}
	steps := []Step{
		{Dir: Down, Pos: origin.Add(Down)},
		{Dir: Right, Pos: origin.Add(Right)},
		{Dir: Left, Pos: origin.Add(Left)},
	}
	got, ok := chooseStep(steps)
	if !ok || got.Dir != Left {
		t.Fatalf("chooseStep = %+v,%v, expected left", got, ok)
	}
	if !stepLess(Step{Dir: Up, Pos: Pos{R: 9, C: 9}}, Step{Dir: Left, Pos: Pos{R: 0, C: 0}}) {
		t.Fatal("direction priority must dominate position")
	}
	if !stepLess(Step{Dir: Up, Pos: Pos{R: 1, C: 1}}, Step{Dir: Up, Pos: Pos{R: 1, C: 2}}) {
		t.Fatal("equal directions fall back to reading order")
	}
}
