package battlemap

import (
	"fmt"
	"strings"

	"skirmish/internal/combat"
)

// Render draws a snapshot: one line per grid row followed by the units on
// that row, e.g. "#G.E#   G(200), E(197)".
func Render(s combat.Snapshot, rules combat.Rules) string {
	byRow := map[int][]combat.UnitState{}
	byID := map[combat.UnitID]combat.UnitState{}
	for _, u := range s.Units {
		byRow[u.Row] = append(byRow[u.Row], u)
		byID[u.ID] = u
	}

	var b strings.Builder
	g := s.Grid
	for row := 0; row < g.H; row++ {
		for col := 0; col < g.W; col++ {
			c := g.At(combat.Pos{R: row, C: col})
			switch {
			case c == combat.Wall:
				b.WriteRune(wallChar)
			case c == combat.Space:
				b.WriteRune(spaceChar)
			default:
				id, _ := c.Unit()
				u, ok := byID[id]
				if !ok {
					b.WriteRune('?')
					continue
				}
				b.WriteRune(rules.Factions[u.Faction].Marker)
			}
		}
		if units := byRow[row]; len(units) > 0 {
			b.WriteString("   ")
			for i, u := range units {
				if i > 0 {
					b.WriteString(", ")
				}
				fmt.Fprintf(&b, "%c(%d)", rules.Factions[u.Faction].Marker, u.HP)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
