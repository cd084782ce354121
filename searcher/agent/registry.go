package agent

import (
	"fmt"
	"slices"
	"strings"

	"gemduel/errkind"
	"gemduel/searcher"
)

// Constructor builds a fresh agent for one game.
type Constructor func(seed int64) Agent

var builtin = map[string]Constructor{
	"random":  NewRandomAgent,
	"greedy":  func(int64) Agent { return NewGreedyAgent(searcher.Material{}) },
	"neutral": func(int64) Agent { return NewGreedyAgent(searcher.Neutral{}) },
	"rollout": func(seed int64) Agent {
		return NewEvaluationAgent(searcher.NewRollout(uint64(seed)))
	},
	"training": func(seed int64) Agent {
		return NewTrainingAgent(searcher.NewRollout(uint64(seed)), 1.0, seed)
	},
}

// Names lists the built-in agent names.
func Names() []string {
	names := make([]string, 0, len(builtin))
	for name := range builtin {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// New builds the built-in agent called name. AI version ids may carry a
// suffix after '@' ("greedy@v2"), which is ignored here.
func New(name string, seed int64) (Agent, error) {
	base, _, _ := strings.Cut(name, "@")
	constructor, ok := builtin[base]
	if !ok {
		return nil, fmt.Errorf("%w: unknown agent %q, available: %s", errkind.Lookup, name, strings.Join(Names(), ", "))
	}
	return constructor(seed), nil
}
