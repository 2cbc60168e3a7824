package combat

// Replay re-applies a recorded event log to a fresh battle built from the
// same layout and rules, checking every step, and returns the outcome the
// log leads to. A log produced by Engine.Run replays to the same outcome.
func Replay(layout *Layout, rules Rules, events []Event) (Outcome, error) {
	e, err := NewEngine(layout, rules, nil, nil)
	if err != nil {
		return Outcome{}, err
	}
	r := e.units
	rounds := 0
	stalemate := false
	ended := false

	illegal := func(i int, ev Event, format string, args ...any) error {
		return ErrIllegalReplay.AtRound(rounds).ForUnit(ev.Unit).WithMsg("event %d (%s): "+format, append([]any{i, ev.Type}, args...)...)
	}

	for i, ev := range events {
		if ended {
			return Outcome{}, illegal(i, ev, "event after end")
		}
		if ev.Type != EventSpawn && ev.Round != rounds && ev.Type != EventRound {
			return Outcome{}, illegal(i, ev, "recorded in round %d", ev.Round)
		}
		switch ev.Type {
		case EventSpawn:
			u := r.Unit(ev.Unit)
			if u == nil || ev.To == nil || u.Pos != *ev.To || u.Faction != ev.Faction {
				return Outcome{}, illegal(i, ev, "spawn does not match layout")
			}
		case EventMove:
			u := r.Unit(ev.Unit)
			if !u.Alive() || ev.From == nil || ev.To == nil || u.Pos != *ev.From {
				return Outcome{}, illegal(i, ev, "unit is not at the recorded origin")
			}
			d, ok := directionTo(*ev.From, *ev.To)
			if !ok {
				return Outcome{}, illegal(i, ev, "%s to %s is not one step", *ev.From, *ev.To)
			}
			if err := r.Move(ev.Unit, d); err != nil {
				return Outcome{}, ErrIllegalReplay.AtRound(rounds).ForUnit(ev.Unit).WithCause(err)
			}
		case EventHit:
			if ev.Target == nil {
				return Outcome{}, illegal(i, ev, "hit without target")
			}
			s, err := strike(r, ev.Unit, *ev.Target)
			if err != nil {
				return Outcome{}, ErrIllegalReplay.AtRound(rounds).ForUnit(ev.Unit).WithCause(err)
			}
			if s.Damage != ev.Damage || s.HPLeft != ev.HP {
				return Outcome{}, illegal(i, ev, "damage %d hp %d, recorded %d hp %d", s.Damage, s.HPLeft, ev.Damage, ev.HP)
			}
		case EventKill:
			if ev.Target == nil || r.IsAlive(*ev.Target) {
				return Outcome{}, illegal(i, ev, "kill of a live unit")
			}
		case EventRound:
			rounds++
			if ev.Round != rounds {
				return Outcome{}, illegal(i, ev, "round %d recorded as %d", rounds, ev.Round)
			}
			if err := r.Verify(); err != nil {
				return Outcome{}, ErrIllegalReplay.AtRound(rounds).WithCause(err)
			}
		case EventEnd:
			ended = true
			stalemate = ev.Note == "stalemate"
		default:
			return Outcome{}, illegal(i, ev, "unknown event type")
		}
	}
	return outcomeOf(r, rules, rounds, stalemate), nil
}

func directionTo(from, to Pos) (Direction, bool) {
	for _, d := range Directions {
		if from.Add(d) == to {
			return d, true
		}
	}
	return 0, false
}
