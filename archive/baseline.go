package archive

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// SeedRange is the inclusive range of seeds a baseline was evaluated on.
type SeedRange struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

func (r SeedRange) String() string {
	return fmt.Sprintf("%d-%d", r.Start, r.End)
}

// Contains reports whether seed lies within the range.
func (r SeedRange) Contains(seed int64) bool {
	return seed >= r.Start && seed <= r.End
}

// UnmarshalYAML accepts [start, end], "start-end" or {start, end}.
func (r *SeedRange) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.SequenceNode:
		var pair []int64
		if err := node.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return fmt.Errorf("line %d: seed_range needs 2 values, got %d", node.Line, len(pair))
		}
		r.Start, r.End = pair[0], pair[1]
	case yaml.ScalarNode:
		start, end, ok := strings.Cut(node.Value, "-")
		if !ok {
			return fmt.Errorf("line %d: seed_range %q is not start-end", node.Line, node.Value)
		}
		var err error
		if r.Start, err = strconv.ParseInt(strings.TrimSpace(start), 10, 64); err != nil {
			return fmt.Errorf("line %d: seed_range start: %w", node.Line, err)
		}
		if r.End, err = strconv.ParseInt(strings.TrimSpace(end), 10, 64); err != nil {
			return fmt.Errorf("line %d: seed_range end: %w", node.Line, err)
		}
	case yaml.MappingNode:
		var m struct {
			Start int64 `yaml:"start"`
			End   int64 `yaml:"end"`
		}
		if err := node.Decode(&m); err != nil {
			return err
		}
		r.Start, r.End = m.Start, m.End
	default:
		return fmt.Errorf("line %d: unsupported seed_range", node.Line)
	}
	if r.End < r.Start {
		return fmt.Errorf("line %d: seed_range end %d before start %d", node.Line, r.End, r.Start)
	}
	return nil
}

// Baseline is the frozen metadata of a historical AI version. Baselines are
// data only: nothing here runs their code.
type Baseline struct {
	ID          string    `yaml:"id" json:"id"`
	VersionTag  string    `yaml:"git_tag" json:"versionTag"`
	Date        string    `yaml:"date" json:"date"`
	Description string    `yaml:"description" json:"description"`
	SeedRange   SeedRange `yaml:"seed_range" json:"seedRange"`
	ResultsFile string    `yaml:"results_file" json:"resultsFile"`
	Note        string    `yaml:"note" json:"note,omitempty"`
}

type document struct {
	Baselines []Baseline `yaml:"baselines"`
}
