package combat

import (
	"errors"
	"testing"
)

var exampleBattles = []struct {
	name   string
	rows   []string
	rounds int
	hp     int
	winner Faction
}{
	{
		name: "goblins hold",
		rows: []string{
			"#######",
			"#.G...#",
			"#...EG#",
			"#.#.#G#",
			"#..G#E#",
			"#.....#",
			"#######",
		},
		rounds: 47, hp: 590, winner: FactionB,
	},
	{
		name: "elves sweep",
		rows: []string{
			"#######",
			"#G..#E#",
			"#E#E.E#",
			"#G.##.#",
			"#...#E#",
			"#...E.#",
			"#######",
		},
		rounds: 37, hp: 982, winner: FactionA,
	},
	{
		name: "elves scattered",
		rows: []string{
			"#######",
			"#E..EG#",
			"#.#G.E#",
			"#E.##E#",
			"#G..#.#",
			"#..E#.#",
			"#######",
		},
		rounds: 46, hp: 859, winner: FactionA,
	},
	{
		name: "split arena",
		rows: []string{
			"#######",
			"#E.G#.#",
			"#.#G..#",
			"#G.#.G#",
			"#G..#.#",
			"#...E.#",
			"#######",
		},
		rounds: 35, hp: 793, winner: FactionB,
	},
	{
		name: "pillars",
		rows: []string{
			"#######",
			"#.E...#",
			"#.#..G#",
			"#.###.#",
			"#E#G#G#",
			"#...#G#",
			"#######",
		},
		rounds: 54, hp: 536, winner: FactionB,
	},
	{
		name: "open field",
		rows: []string{
			"#########",
			"#G......#",
			"#.E.#...#",
			"#..##..G#",
			"#...##..#",
			"#...#...#",
			"#.G...G.#",
			"#.....G.#",
			"#########",
		},
		rounds: 20, hp: 937, winner: FactionB,
	},
}

func TestExampleBattles(t *testing.T) {
	for _, tc := range exampleBattles {
		t.Run(tc.name, func(t *testing.T) {
			e, _ := newTestEngine(t, testRules(), tc.rows...)
			out, err := e.Run()
			if err != nil {
				t.Fatalf("run: %v", err)
			}
			if out.Rounds != tc.rounds || out.HPSum != tc.hp {
				t.Fatalf("rounds=%d hp=%d, expected %d/%d", out.Rounds, out.HPSum, tc.rounds, tc.hp)
			}
			if out.Score != tc.rounds*tc.hp {
				t.Fatalf("score %d", out.Score)
			}
			if !out.Decided || out.WinnerFaction != tc.winner {
				t.Fatalf("winner %q decided=%v", out.Winner, out.Decided)
			}
		})
	}
}

func TestAdjacentUnitsAttackWithoutMoving(t *testing.T) {
	e, events := newTestEngine(t, testRules(),
		"#.#",
		".E.",
		"#G#",
	)
	elf := unitAtPos(t, e, Pos{R: 1, C: 1})
	gob := unitAtPos(t, e, Pos{R: 2, C: 1})

	complete, err := e.PlayRound()
	if err != nil || !complete {
		t.Fatalf("round: complete=%v err=%v", complete, err)
	}
	if n := countEvents(*events, EventMove); n != 0 {
		t.Fatalf("%d moves, expected none", n)
	}
	if n := countEvents(*events, EventHit); n != 2 {
		t.Fatalf("%d hits, expected one per unit", n)
	}
	if elf.Pos != (Pos{R: 1, C: 1}) || gob.Pos != (Pos{R: 2, C: 1}) {
		t.Fatal("nobody should move")
	}
	if elf.HP != 197 || gob.HP != 197 {
		t.Fatalf("hp elf=%d goblin=%d", elf.HP, gob.HP)
	}
	if e.Rounds() != 1 {
		t.Fatalf("rounds %d", e.Rounds())
	}
}

func TestEliminationMidRoundIsNotCounted(t *testing.T) {
	rules := testRules().WithAttack(FactionA, 200)
	e, events := newTestEngine(t, rules, "#####", "#EGE#", "#####")

	complete, err := e.PlayRound()
	if err != nil {
		t.Fatal(err)
	}
	if complete {
		t.Fatal("the second elf finds no goblins, so the round is incomplete")
	}
	if e.Rounds() != 0 || !e.Over() {
		t.Fatalf("rounds=%d over=%v", e.Rounds(), e.Over())
	}
	out := e.Outcome()
	if out.Score != 0 || out.HPSum != 400 || out.Winner != "elf" {
		t.Fatalf("outcome %+v", out)
	}
	if countEvents(*events, EventRound) != 0 {
		t.Fatal("no round event expected")
	}
}

func TestLastKillAtRoundEndCounts(t *testing.T) {
	rules := testRules().WithAttack(FactionA, 200)
	e, _ := newTestEngine(t, rules, "####", "#EG#", "####")
	out, err := e.Run()
	if err != nil {
		t.Fatal(err)
	}
	// The kill happens in round 1 whose loop completes; round 2 is cut
	// short at its first turn.
	if out.Rounds != 1 || out.HPSum != 200 || out.Score != 200 {
		t.Fatalf("outcome %+v", out)
	}
	if out.Losses != [2]int{0, 1} {
		t.Fatalf("losses %v", out.Losses)
	}
}

func TestVacatedSquareIsFreeImmediately(t *testing.T) {
	rules := testRules().WithAttack(FactionA, 200)
	e, _ := newTestEngine(t, rules, "#####", "#EGG#", "#####")
	elf := unitAtPos(t, e, Pos{R: 1, C: 1})
	back := unitAtPos(t, e, Pos{R: 1, C: 3})

	if _, err := e.PlayRound(); err != nil {
		t.Fatal(err)
	}
	if back.Pos != (Pos{R: 1, C: 2}) {
		t.Fatalf("rear goblin at %s, expected to step into the freed square", back.Pos)
	}
	if elf.HP != 197 {
		t.Fatalf("rear goblin should attack after moving, elf hp %d", elf.HP)
	}
}

func TestDeadUnitSkipsItsTurn(t *testing.T) {
	rules := testRules().WithAttack(FactionA, 200)
	e, events := newTestEngine(t, rules, "#####", "#EG.#", "#..E#", "#####")
	if _, err := e.PlayRound(); err != nil {
		t.Fatal(err)
	}
	for _, ev := range *events {
		if ev.Type == EventHit && ev.Faction == FactionB {
			t.Fatal("killed goblin must not act")
		}
	}
}

func TestStalemateEndsRun(t *testing.T) {
	e, _ := newTestEngine(t, testRules(), "#####", "#E#G#", "#####")
	out, err := e.Run()
	if err != nil {
		t.Fatal(err)
	}
	if !out.Stalemate || out.Decided || out.Winner != "" {
		t.Fatalf("outcome %+v", out)
	}
	if out.Rounds != 2 {
		t.Fatalf("rounds %d, expected the repeat to be detected after round 2", out.Rounds)
	}
}

func TestNewEngineRejectsMissingFaction(t *testing.T) {
	_, err := NewEngine(layoutFrom(t, "####", "#EE#", "####"), testRules(), nil, nil)
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("expected malformed input, got %v", err)
	}
	_, err = NewEngine(nil, testRules(), nil, nil)
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("nil layout: %v", err)
	}
	bad := testRules()
	bad.Factions[1].HP = 0
	_, err = NewEngine(layoutFrom(t, "####", "#EG#", "####"), bad, nil, nil)
	if !errors.Is(err, ErrMalformedInput) {
		t.Fatalf("zero hp: %v", err)
	}
}

func TestRoundSnapshots(t *testing.T) {
	e, _ := newTestEngine(t, testRules(), exampleBattles[0].rows...)
	var snaps []Snapshot
	e.OnRound = func(s Snapshot) { snaps = append(snaps, s) }
	out, err := e.Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(snaps) != out.Rounds {
		t.Fatalf("%d snapshots for %d rounds", len(snaps), out.Rounds)
	}
	for i, s := range snaps {
		if s.Round != i+1 {
			t.Fatalf("snapshot %d has round %d", i, s.Round)
		}
	}
	last := snaps[len(snaps)-1]
	for _, u := range last.Units {
		if _, ok := last.Grid.At(Pos{R: u.Row, C: u.Col}).Unit(); !ok {
			t.Fatalf("snapshot grid misses unit %d", u.ID)
		}
	}
}
