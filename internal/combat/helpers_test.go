package combat

import (
	"testing"
)

// layoutFrom builds a layout from map rows using E for faction A and G for
// faction B.
func layoutFrom(t testing.TB, rows ...string) *Layout {
	t.Helper()
	l := NewLayout(len(rows[0]), len(rows))
	for r, line := range rows {
		if len(line) != l.W {
			t.Fatalf("row %d has width %d, expected %d", r, len(line), l.W)
		}
		for c, ch := range line {
			p := Pos{R: r, C: c}
			switch ch {
			case '#':
				l.SetWall(p)
			case '.':
			case 'E':
				l.Spawns = append(l.Spawns, Spawn{Faction: FactionA, Pos: p})
			case 'G':
				l.Spawns = append(l.Spawns, Spawn{Faction: FactionB, Pos: p})
			default:
				t.Fatalf("unexpected %q at %s", ch, p)
			}
		}
	}
	return l
}

func testRules() Rules {
	return Rules{Factions: [2]FactionRules{
		{Name: "elf", Marker: 'E', HP: 200, Attack: 3},
		{Name: "goblin", Marker: 'G', HP: 200, Attack: 3},
	}}
}

func newTestEngine(t testing.TB, rules Rules, rows ...string) (*Engine, *[]Event) {
	t.Helper()
	events := &[]Event{}
	e, err := NewEngine(layoutFrom(t, rows...), rules, func(ev Event) { *events = append(*events, ev) }, nil)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return e, events
}

func countEvents(events []Event, typ string) int {
	n := 0
	for _, ev := range events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}
