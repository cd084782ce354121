package openingbook

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"gemduel/errkind"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type countingSource struct {
	data  []byte
	err   error
	calls atomic.Int32
}

func (s *countingSource) Load(ctx context.Context) ([]byte, error) {
	s.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.data, s.err
}

func newTestService(source Source) *Service {
	return NewService(source, WithLogger(zerolog.Nop()))
}

func TestServiceLoad(t *testing.T) {
	t.Run("caches the parsed book", func(t *testing.T) {
		source := &countingSource{data: []byte(sampleBook)}
		service := newTestService(source)

		first := service.Load(context.Background())
		second := service.Load(context.Background())

		require.Len(t, first["circles"], 2)
		require.Equal(t, first, second)
		require.Equal(t, int32(1), source.calls.Load(), "Should fetch only once")
	})

	t.Run("concurrent loads fetch once", func(t *testing.T) {
		source := &countingSource{data: []byte(sampleBook)}
		service := newTestService(source)

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				service.Load(context.Background())
			}()
		}
		wg.Wait()

		require.Equal(t, int32(1), source.calls.Load())
	})

	t.Run("read failure falls back to the default book", func(t *testing.T) {
		source := &countingSource{err: errors.New("disk on fire")}
		service := newTestService(source)

		book := service.Load(context.Background())
		service.Load(context.Background())

		require.Equal(t, DefaultBook(), book)
		require.Equal(t, int32(1), source.calls.Load(), "Should cache the default book")
	})

	t.Run("parse failure falls back to the default book", func(t *testing.T) {
		service := newTestService(&countingSource{data: []byte("not json")})
		require.Equal(t, DefaultBook(), service.Load(context.Background()))
	})

	t.Run("one undecodable setup keeps the rest of the book", func(t *testing.T) {
		doc := strings.Replace(sampleBook, `"squares": {`, `"squares": {"OPAL": {"opal": [[0, 0]]},`, 1)
		book := newTestService(&countingSource{data: []byte(doc)}).Load(context.Background())

		require.NotEqual(t, DefaultBook(), book)
		ids, _ := book.SetupIDs("circles")
		require.Equal(t, []string{"SETUP-001", "SETUP-002"}, ids)
	})

	t.Run("missing source falls back to the default book", func(t *testing.T) {
		service := newTestService(nil)
		require.Equal(t, DefaultBook(), service.Load(context.Background()))
	})

	t.Run("cancelled load is not cached", func(t *testing.T) {
		source := &countingSource{data: []byte(sampleBook)}
		service := newTestService(source)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.Equal(t, DefaultBook(), service.Load(ctx))

		book := service.Load(context.Background())
		require.Len(t, book["circles"], 2, "Should fetch after a cancelled load")
		require.Equal(t, int32(1), source.calls.Load(), "Cancelled caller should not fetch")
	})

	t.Run("live caller outlives a cancelled one sharing its fetch", func(t *testing.T) {
		source := &gatedSource{data: []byte(sampleBook), started: make(chan struct{}, 4), release: make(chan struct{})}
		service := newTestService(source)

		ctx, cancel := context.WithCancel(context.Background())
		cancelled := make(chan Book, 1)
		go func() { cancelled <- service.Load(ctx) }()
		<-source.started

		live := make(chan Book, 1)
		go func() { live <- service.Load(context.Background()) }()
		time.Sleep(20 * time.Millisecond)

		cancel()
		require.Equal(t, DefaultBook(), <-cancelled)

		close(source.release)
		book := <-live
		require.NotEqual(t, DefaultBook(), book)
		require.Len(t, book["circles"], 2, "Live caller should get the fetched book")
		require.Equal(t, book, service.Load(context.Background()), "Fetched book should be cached")
		require.Equal(t, int32(2), source.calls.Load())
	})
}

// gatedSource blocks each load until release is closed or ctx is done.
type gatedSource struct {
	data    []byte
	started chan struct{}
	release chan struct{}
	calls   atomic.Int32
}

func (s *gatedSource) Load(ctx context.Context) ([]byte, error) {
	s.calls.Add(1)
	select {
	case s.started <- struct{}{}:
	default:
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.release:
		return s.data, nil
	}
}

func TestSelectSetup(t *testing.T) {
	service := newTestService(&countingSource{data: []byte(sampleBook)})

	t.Run("maps the seed over sorted ids", func(t *testing.T) {
		cases := map[int64]string{
			0:  "SETUP-001",
			1:  "SETUP-002",
			2:  "SETUP-001",
			-1: "SETUP-002",
			-4: "SETUP-001",
		}
		for seed, want := range cases {
			setup, err := service.SelectSetup("circles", seed)
			require.NoError(t, err)
			require.Equal(t, want, setup.ID, "seed %d", seed)
		}
	})

	t.Run("accepts the singular side", func(t *testing.T) {
		setup, err := service.SelectSetup("circle", 1)
		require.NoError(t, err)
		require.Equal(t, "SETUP-002", setup.ID)
	})

	t.Run("minimum seed does not overflow", func(t *testing.T) {
		setup, err := service.SelectSetup("circles", math.MinInt64)
		require.NoError(t, err)
		require.Equal(t, "SETUP-001", setup.ID, "2^63 is even")
	})

	t.Run("is independent of call history", func(t *testing.T) {
		want, err := service.SelectSetup("circles", 7)
		require.NoError(t, err)
		for seed := int64(0); seed < 20; seed++ {
			_, _ = service.SelectSetup("circles", seed)
		}
		got, err := service.SelectSetup("circles", 7)
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("returned setups are copies", func(t *testing.T) {
		setup, err := service.SelectSetup("circles", 0)
		require.NoError(t, err)
		setup.Order[0] = "opal"

		again, err := service.SelectSetup("circles", 0)
		require.NoError(t, err)
		require.NotEqual(t, setup.Order[0], again.Order[0])
	})

	t.Run("unknown side", func(t *testing.T) {
		_, err := service.SelectSetup("triangles", 0)
		require.ErrorIs(t, err, ErrInvalidSide)
		require.ErrorIs(t, err, errkind.Validation)
	})

	t.Run("side without setups", func(t *testing.T) {
		_, err := service.SelectSetup("squares", 0)
		require.ErrorIs(t, err, ErrEmptyBook)
	})
}

func TestServiceNextPlacement(t *testing.T) {
	service := newTestService(nil)
	got := service.NextPlacement(circlesSetup(), nil, "circles")
	require.Equal(t, Placed, got.Status, "A nil board is empty")
}
