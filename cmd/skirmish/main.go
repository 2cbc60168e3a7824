package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"skirmish/internal/battlemap"
	"skirmish/internal/boost"
	"skirmish/internal/combat"
	"skirmish/internal/config"
	"skirmish/internal/logs"
)

type report struct {
	Map     string         `json:"map"`
	Outcome combat.Outcome `json:"outcome"`
	Boost   *boost.Result  `json:"boost,omitempty"`
	Events  []combat.Event `json:"events,omitempty"`
}

func main() {
	var mapPath, cfgPath, out, logLevel string
	var workers int
	var withEvents, runBoost, trace bool
	flag.StringVar(&mapPath, "map", "-", "battle map file, - for stdin")
	flag.StringVar(&cfgPath, "config", "", "rules YAML (defaults: elves vs goblins, 200 HP, attack 3)")
	flag.StringVar(&out, "out", "", "result JSON file, empty for stdout")
	flag.StringVar(&logLevel, "log", "", "log level override")
	flag.IntVar(&workers, "workers", 0, "parallel battles for -boost (0 = config)")
	flag.BoolVar(&withEvents, "events", false, "include the full event log in the result")
	flag.BoolVar(&runBoost, "boost", false, "also search the smallest flawless attack for the boost faction")
	flag.BoolVar(&trace, "trace", false, "print the grid after every round to stderr")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := logs.Init("skirmish", cfg.Log); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = logs.Sync() }()

	rules, err := combat.RulesFrom(cfg)
	if err != nil {
		fatal("invalid rules", err)
	}
	layout, err := readLayout(mapPath, rules)
	if err != nil {
		fatal("invalid map", err)
	}

	rep := report{Map: mapPath}
	var emit func(combat.Event)
	if withEvents {
		emit = func(ev combat.Event) { rep.Events = append(rep.Events, ev) }
	}
	engine, err := combat.NewEngine(layout, rules, emit, logs.Logger().Named("engine"))
	if err != nil {
		fatal("invalid battle", err)
	}
	if trace {
		fmt.Fprintf(os.Stderr, "Initially:\n%s\n", battlemap.Render(engine.Snapshot(), rules))
		engine.OnRound = func(s combat.Snapshot) {
			fmt.Fprintf(os.Stderr, "After %d rounds:\n%s\n", s.Round, battlemap.Render(s, rules))
		}
	}
	rep.Outcome, err = engine.Run()
	if err != nil {
		fatal("simulation aborted", err)
	}

	if runBoost {
		f, _ := rules.FactionByName(cfg.Boost.Faction)
		if workers <= 0 {
			workers = cfg.Boost.Workers
		}
		res, err := boost.Search(layout, rules, f, workers, logs.Logger().Named("boost"))
		if err != nil && !errors.Is(err, combat.ErrNoFlawlessBoost) {
			fatal("boost search aborted", err)
		}
		if err != nil {
			logs.Warn("no flawless boost", zap.Error(err))
		} else {
			rep.Boost = &res
		}
	}

	data := combat.MarshalPretty(rep)
	if out == "" {
		os.Stdout.Write(append(data, '\n'))
	} else if err := os.WriteFile(out, data, 0644); err != nil {
		fatal("write result", err)
	}

	o := rep.Outcome
	if o.Stalemate {
		fmt.Fprintf(os.Stderr, "Stalemate after %d rounds, %d HP left\n", o.Rounds, o.HPSum)
	} else {
		fmt.Fprintf(os.Stderr, "%s win after %d full rounds with %d HP left: outcome %d\n", o.Winner, o.Rounds, o.HPSum, o.Score)
	}
	if rep.Boost != nil {
		fmt.Fprintf(os.Stderr, "%s need attack %d for a flawless win: outcome %d\n", rep.Boost.Faction, rep.Boost.Attack, rep.Boost.Outcome.Score)
	}
}

func readLayout(path string, rules combat.Rules) (*combat.Layout, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	return battlemap.Parse(r, rules)
}

// fatal logs the failing invariant with its round and unit and exits.
func fatal(msg string, err error) {
	fields := []zap.Field{zap.Error(err)}
	var ce *combat.Error
	if errors.As(err, &ce) {
		fields = append(fields, zap.String("code", string(ce.Code())))
		if r, ok := ce.Round(); ok {
			fields = append(fields, zap.Int("round", r))
		}
		if u, ok := ce.Unit(); ok {
			fields = append(fields, zap.Int32("unit", int32(u)))
		}
	}
	logs.Fatal(msg, fields...)
}
