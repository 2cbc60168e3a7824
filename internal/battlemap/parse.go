// Package battlemap reads battle maps from text and renders battle state
// back to text.
package battlemap

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"skirmish/internal/combat"
)

const (
	wallChar  = '#'
	spaceChar = '.'
)

// Parse reads a rectangular map. '#' is a wall, '.' open floor, and each
// faction's marker spawns a unit of that faction. Trailing blank lines are
// ignored; a trailing '\r' on each line is stripped.
func Parse(r io.Reader, rules combat.Rules) (*combat.Layout, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		lines = append(lines, strings.TrimRight(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, combat.ErrMalformedInput.WithCause(err)
	}
	for len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) == 0 {
		return nil, combat.ErrMalformedInput.WithMsg("empty map")
	}

	width := utf8.RuneCountInString(lines[0])
	if width == 0 {
		return nil, combat.ErrMalformedInput.WithMsg("line 1 is empty")
	}
	l := combat.NewLayout(width, len(lines))
	for row, line := range lines {
		if n := utf8.RuneCountInString(line); n != width {
			return nil, combat.ErrMalformedInput.WithMsg("line %d has width %d, expected %d", row+1, n, width)
		}
		col := 0
		for _, ch := range line {
			p := combat.Pos{R: row, C: col}
			switch ch {
			case wallChar:
				l.SetWall(p)
			case spaceChar:
			default:
				f, ok := rules.FactionByMarker(ch)
				if !ok {
					return nil, combat.ErrMalformedInput.WithMsg("line %d column %d: unknown character %q", row+1, col+1, ch)
				}
				l.Spawns = append(l.Spawns, combat.Spawn{Faction: f, Pos: p})
			}
			col++
		}
	}

	var counts [2]int
	for _, s := range l.Spawns {
		counts[s.Faction]++
	}
	for f, n := range counts {
		if n == 0 {
			return nil, combat.ErrMalformedInput.WithMsg("map has no %s units", rules.Factions[f].Name)
		}
	}
	return l, nil
}

// ParseString is Parse over a string.
func ParseString(s string, rules combat.Rules) (*combat.Layout, error) {
	return Parse(strings.NewReader(s), rules)
}
