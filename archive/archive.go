// Package archive is the read-only registry of historical baselines.
//
// An Archive is built once from a static config and never changes: it answers
// lookups and hands back archived result payloads so live runs can be compared
// against past AI versions without re-running their code.
package archive

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"slices"

	"gemduel/errkind"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type Archive struct {
	fsys      fs.FS
	baselines map[string]Baseline
}

// Open reads configPath from fsys once. Results files are resolved relative to
// the root of fsys.
func Open(fsys fs.FS, configPath string) (*Archive, error) {
	data, err := fs.ReadFile(fsys, configPath)
	if err != nil {
		return nil, fmt.Errorf("read archive config: %w: %w", errkind.Configuration, err)
	}
	return parse(fsys, data)
}

func parse(fsys fs.FS, data []byte) (*Archive, error) {
	var doc document
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("parse archive config: %w: %w", errkind.Configuration, err)
	}
	if doc.Baselines == nil {
		return nil, fmt.Errorf("parse archive config: %w: %w", errkind.Configuration, errNoConfig)
	}

	a := &Archive{fsys: fsys, baselines: make(map[string]Baseline, len(doc.Baselines))}
	for i, b := range doc.Baselines {
		switch {
		case b.ID == "":
			return nil, fmt.Errorf("%w: baseline %d has no id", errkind.Configuration, i)
		case b.VersionTag == "":
			return nil, fmt.Errorf("%w: baseline %q has no git_tag", errkind.Configuration, b.ID)
		case b.ResultsFile == "":
			return nil, fmt.Errorf("%w: baseline %q has no results_file", errkind.Configuration, b.ID)
		}
		if _, dup := a.baselines[b.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate baseline %q", errkind.Configuration, b.ID)
		}
		a.baselines[b.ID] = b
	}
	log.Info().Msgf("loaded %d historical baseline(s)", len(a.baselines))
	return a, nil
}

func (a *Archive) Get(id string) (Baseline, error) {
	b, ok := a.baselines[id]
	if !ok {
		return Baseline{}, &UnknownBaselineError{ID: id, Known: a.List()}
	}
	return b, nil
}

// List returns the loaded ids, sorted.
func (a *Archive) List() []string {
	ids := make([]string, 0, len(a.baselines))
	for id := range a.baselines {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (a *Archive) Len() int {
	return len(a.baselines)
}

func (a *Archive) IsHistorical(id string) bool {
	_, ok := a.baselines[id]
	return ok
}

// LoadResults decodes the archived results payload of a baseline verbatim.
func (a *Archive) LoadResults(id string) (any, error) {
	b, err := a.Get(id)
	if err != nil {
		return nil, err
	}
	name := path.Clean(b.ResultsFile)
	data, err := fs.ReadFile(a.fsys, name)
	if err != nil {
		return nil, &ResultsLoadError{ID: id, Path: name, Err: err}
	}
	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, &ResultsLoadError{ID: id, Path: name, Err: err}
	}
	return payload, nil
}

// CheckoutCommand builds the git command that restores the baseline's source.
// It is never executed here.
func (a *Archive) CheckoutCommand(id string) (string, error) {
	b, err := a.Get(id)
	if err != nil {
		return "", err
	}
	return "git checkout tags/" + b.VersionTag, nil
}
