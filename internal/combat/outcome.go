package combat

// Outcome is what the reporting side gets at the end of a battle.
type Outcome struct {
	Rounds    int         `json:"rounds"`
	HPSum     int         `json:"hp_sum"`
	Score     int         `json:"score"`
	Winner    string      `json:"winner,omitempty"`
	Stalemate bool        `json:"stalemate,omitempty"`
	Losses    [2]int      `json:"losses"`
	Survivors []UnitState `json:"survivors"`

	WinnerFaction Faction `json:"-"`
	Decided       bool    `json:"-"`
}

// Flawless reports whether f won without losing a unit.
func (o Outcome) Flawless(f Faction) bool {
	return o.Decided && o.WinnerFaction == f && o.Losses[f] == 0
}

func outcomeOf(r *Registry, rules Rules, rounds int, stalemate bool) Outcome {
	hp := r.HPSum()
	out := Outcome{
		Rounds:    rounds,
		HPSum:     hp,
		Score:     rounds * hp,
		Stalemate: stalemate,
		Survivors: r.States(),
	}
	var spawned [2]int
	for i := 0; i < r.Len(); i++ {
		spawned[r.units[i].Faction]++
	}
	counts := r.FactionCounts()
	for f := range counts {
		out.Losses[f] = spawned[f] - counts[f]
	}
	switch {
	case counts[FactionA] > 0 && counts[FactionB] == 0:
		out.WinnerFaction, out.Decided = FactionA, true
	case counts[FactionB] > 0 && counts[FactionA] == 0:
		out.WinnerFaction, out.Decided = FactionB, true
	}
	if out.Decided {
		out.Winner = rules.Name(out.WinnerFaction)
	}
	return out
}
