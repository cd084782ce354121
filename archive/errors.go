package archive

import (
	"errors"
	"fmt"
	"strings"

	"gemduel/errkind"
)

// UnknownBaselineError lists every id the archive did load.
type UnknownBaselineError struct {
	ID    string
	Known []string
}

func (e *UnknownBaselineError) Error() string {
	return fmt.Sprintf("unknown baseline %q, available: [%s]", e.ID, strings.Join(e.Known, ", "))
}

func (e *UnknownBaselineError) Is(target error) bool {
	return target == errkind.Lookup
}

// ResultsLoadError wraps a failure reading or decoding a baseline's results.
type ResultsLoadError struct {
	ID   string
	Path string
	Err  error
}

func (e *ResultsLoadError) Error() string {
	return fmt.Sprintf("failed to load results of baseline %q from %s: %v", e.ID, e.Path, e.Err)
}

func (e *ResultsLoadError) Unwrap() error {
	return e.Err
}

func (e *ResultsLoadError) Is(target error) bool {
	return target == errkind.IO
}

var errNoConfig = errors.New("archive config has no baselines key")
