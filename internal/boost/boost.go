// Package boost searches for the smallest attack power that lets one
// faction win without losing a unit.
package boost

import (
	"sync"

	"go.uber.org/zap"

	"skirmish/internal/combat"
)

type Result struct {
	Faction string         `json:"faction"`
	Attack  int            `json:"attack"`
	Tried   int            `json:"tried"`
	Outcome combat.Outcome `json:"outcome"`
}

type trial struct {
	attack  int
	outcome combat.Outcome
	err     error
}

// Search tries attack values above the faction's base attack in batches of
// `workers` parallel battles. Within a batch the smallest flawless value
// wins, so the result does not depend on scheduling. Values past the
// highest enemy HP are not tried: from there every hit is a kill and
// battles no longer change.
func Search(layout *combat.Layout, rules combat.Rules, f combat.Faction, workers int, log *zap.Logger) (Result, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if workers <= 0 {
		workers = 1
	}
	if !f.Valid() {
		return Result{}, combat.ErrMalformedInput.WithMsg("unknown faction %d", f)
	}
	lo := rules.Factions[f].Attack + 1
	hi := rules.Factions[f.Enemy()].HP
	if hi < lo {
		hi = lo
	}

	tried := 0
	for start := lo; start <= hi; start += workers {
		end := min(start+workers-1, hi)
		batch := runBatch(layout, rules, f, start, end, workers)
		tried += len(batch)
		for _, tr := range batch {
			if tr.err != nil {
				return Result{}, tr.err
			}
			log.Debug("boost trial",
				zap.Int("attack", tr.attack), zap.Int("losses", tr.outcome.Losses[f]),
				zap.String("winner", tr.outcome.Winner), zap.Int("score", tr.outcome.Score))
			if tr.outcome.Flawless(f) {
				log.Info("boost found", zap.String("faction", rules.Name(f)),
					zap.Int("attack", tr.attack), zap.Int("tried", tried))
				return Result{Faction: rules.Name(f), Attack: tr.attack, Tried: tried, Outcome: tr.outcome}, nil
			}
		}
	}
	return Result{}, combat.ErrNoFlawlessBoost.WithMsg("%s cannot win without losses up to attack %d", rules.Name(f), hi)
}

// runBatch simulates attacks start..end on a fixed worker pool and returns
// the trials in ascending attack order.
func runBatch(layout *combat.Layout, rules combat.Rules, f combat.Faction, start, end, workers int) []trial {
	out := make([]trial, end-start+1)
	jobs := make(chan int, len(out))
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				atk := start + i
				tr := trial{attack: atk}
				e, err := combat.NewEngine(layout, rules.WithAttack(f, atk), nil, nil)
				if err == nil {
					tr.outcome, err = e.Run()
				}
				tr.err = err
				out[i] = tr
			}
		}()
	}
	for i := range out {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}
