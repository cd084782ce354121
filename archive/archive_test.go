package archive

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"gemduel/errkind"

	"github.com/stretchr/testify/require"
)

const baselinesYAML = `
baselines:
  - id: v1.0-greedy
    git_tag: ai-v1.0
    date: "2024-03-02"
    description: First greedy evaluator
    seed_range: [1, 500]
    results_file: results/v1.0.json
    note: frozen before the material rework
  - id: v1.1-material
    git_tag: ai-v1.1
    date: "2024-06-18"
    description: Material balance evaluator
    seed_range: "1-1000"
    results_file: results/v1.1.json
  - id: v0.9-broken
    git_tag: ai-v0.9
    date: "2024-01-10"
    seed_range: {start: 10, end: 20}
    results_file: results/missing.json
  - id: v0.8-garbled
    git_tag: ai-v0.8
    seed_range: [1, 1]
    results_file: results/garbled.json
`

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"baselines.yaml":       {Data: []byte(baselinesYAML)},
		"results/v1.0.json":    {Data: []byte(`{"gamesPlayed": 500, "winsByAI": {"v1.0-greedy": 260}}`)},
		"results/v1.1.json":    {Data: []byte(`[1, 2, 3]`)},
		"results/garbled.json": {Data: []byte(`{"gamesPlayed": `)},
	}
}

func openTestArchive(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(testFS(), "baselines.yaml")
	require.NoError(t, err)
	return a
}

func TestOpen(t *testing.T) {
	t.Run("loads every baseline", func(t *testing.T) {
		a := openTestArchive(t)

		require.Equal(t, 4, a.Len())
		b, err := a.Get("v1.0-greedy")
		require.NoError(t, err)
		require.Equal(t, Baseline{
			ID:          "v1.0-greedy",
			VersionTag:  "ai-v1.0",
			Date:        "2024-03-02",
			Description: "First greedy evaluator",
			SeedRange:   SeedRange{Start: 1, End: 500},
			ResultsFile: "results/v1.0.json",
			Note:        "frozen before the material rework",
		}, b)
	})

	t.Run("accepts every seed range form", func(t *testing.T) {
		a := openTestArchive(t)
		b, _ := a.Get("v1.1-material")
		require.Equal(t, SeedRange{Start: 1, End: 1000}, b.SeedRange)
		b, _ = a.Get("v0.9-broken")
		require.Equal(t, SeedRange{Start: 10, End: 20}, b.SeedRange)
		require.True(t, b.SeedRange.Contains(15))
		require.False(t, b.SeedRange.Contains(21))
	})

	t.Run("accepts a JSON config", func(t *testing.T) {
		fsys := fstest.MapFS{"baselines.json": {Data: []byte(`{"baselines": [{"id": "a", "git_tag": "t", "seed_range": [1, 2], "results_file": "r.json"}]}`)}}
		a, err := Open(fsys, "baselines.json")
		require.NoError(t, err)
		require.Equal(t, []string{"a"}, a.List())
	})

	t.Run("missing config", func(t *testing.T) {
		_, err := Open(fstest.MapFS{}, "baselines.yaml")
		require.ErrorIs(t, err, errkind.Configuration)
		require.ErrorIs(t, err, fs.ErrNotExist)
	})

	invalid := map[string]string{
		"malformed":        "baselines: [",
		"no baselines key": "other: 1",
		"missing id":       "baselines:\n  - git_tag: t\n    results_file: r.json\n",
		"missing tag":      "baselines:\n  - id: a\n    results_file: r.json\n",
		"missing results":  "baselines:\n  - id: a\n    git_tag: t\n",
		"duplicate id":     "baselines:\n  - {id: a, git_tag: t, results_file: r.json}\n  - {id: a, git_tag: u, results_file: s.json}\n",
		"reversed range":   "baselines:\n  - {id: a, git_tag: t, results_file: r.json, seed_range: [9, 1]}\n",
		"bad range string": "baselines:\n  - {id: a, git_tag: t, results_file: r.json, seed_range: 'ten'}\n",
	}
	for name, config := range invalid {
		t.Run(name, func(t *testing.T) {
			_, err := Open(fstest.MapFS{"c.yaml": {Data: []byte(config)}}, "c.yaml")
			require.ErrorIs(t, err, errkind.Configuration)
		})
	}
}

func TestGet(t *testing.T) {
	a := openTestArchive(t)

	t.Run("unknown id enumerates the loaded ids", func(t *testing.T) {
		_, err := a.Get("v2.0")

		require.ErrorIs(t, err, errkind.Lookup)
		var unknown *UnknownBaselineError
		require.True(t, errors.As(err, &unknown))
		require.Equal(t, "v2.0", unknown.ID)
		require.ElementsMatch(t, []string{"v1.0-greedy", "v1.1-material", "v0.9-broken", "v0.8-garbled"}, unknown.Known)
		require.Equal(t, `unknown baseline "v2.0", available: [v0.8-garbled, v0.9-broken, v1.0-greedy, v1.1-material]`, err.Error())
	})

	t.Run("returned baselines do not alias the archive", func(t *testing.T) {
		b, err := a.Get("v1.0-greedy")
		require.NoError(t, err)
		b.VersionTag = "tampered"

		again, err := a.Get("v1.0-greedy")
		require.NoError(t, err)
		require.Equal(t, "ai-v1.0", again.VersionTag)
	})
}

func TestList(t *testing.T) {
	a := openTestArchive(t)
	ids := a.List()
	require.Equal(t, []string{"v0.8-garbled", "v0.9-broken", "v1.0-greedy", "v1.1-material"}, ids)

	ids[0] = "tampered"
	require.False(t, a.IsHistorical("tampered"), "List should return a snapshot")
}

func TestIsHistorical(t *testing.T) {
	a := openTestArchive(t)
	require.True(t, a.IsHistorical("v1.1-material"))
	require.False(t, a.IsHistorical("v1.2"))
	require.False(t, a.IsHistorical(""))
}

func TestLoadResults(t *testing.T) {
	a := openTestArchive(t)

	t.Run("returns the payload verbatim", func(t *testing.T) {
		got, err := a.LoadResults("v1.0-greedy")
		require.NoError(t, err)
		require.Equal(t, map[string]any{
			"gamesPlayed": 500.0,
			"winsByAI":    map[string]any{"v1.0-greedy": 260.0},
		}, got)

		got, err = a.LoadResults("v1.1-material")
		require.NoError(t, err)
		require.Equal(t, []any{1.0, 2.0, 3.0}, got)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := a.LoadResults("v0.9-broken")

		require.ErrorIs(t, err, errkind.IO)
		require.ErrorIs(t, err, fs.ErrNotExist, "Should carry the cause")
		var loadErr *ResultsLoadError
		require.True(t, errors.As(err, &loadErr))
		require.Equal(t, "v0.9-broken", loadErr.ID)
	})

	t.Run("garbled file", func(t *testing.T) {
		_, err := a.LoadResults("v0.8-garbled")
		require.ErrorIs(t, err, errkind.IO)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := a.LoadResults("nope")
		require.ErrorIs(t, err, errkind.Lookup)
	})
}

func TestCheckoutCommand(t *testing.T) {
	a := openTestArchive(t)

	cmd, err := a.CheckoutCommand("v1.1-material")
	require.NoError(t, err)
	require.Equal(t, "git checkout tags/ai-v1.1", cmd)

	_, err = a.CheckoutCommand("nope")
	require.ErrorIs(t, err, errkind.Lookup)
}
