package parallel

import (
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/backdrop/internal/stackblur"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name              string
		n, parts, minSpan int
		want              []Span
	}{
		{"empty", 0, 4, 1, nil},
		{"negative", -3, 4, 1, nil},
		{"single part", 10, 1, 1, []Span{{0, 10}}},
		{"even", 12, 3, 1, []Span{{0, 4}, {4, 8}, {8, 12}}},
		{"remainder goes first", 10, 3, 1, []Span{{0, 4}, {4, 7}, {7, 10}}},
		{"more parts than lines", 3, 8, 1, []Span{{0, 1}, {1, 2}, {2, 3}}},
		{"min span caps parts", 40, 8, 16, []Span{{0, 20}, {20, 40}}},
		{"min span larger than n", 5, 4, 16, []Span{{0, 5}}},
		{"zero parts", 7, 0, 1, []Span{{0, 7}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.n, tt.parts, tt.minSpan)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Split(%d, %d, %d) mismatch (-want +got):\n%s", tt.n, tt.parts, tt.minSpan, diff)
			}
		})
	}
}

func TestSplitCoversRangeWithoutOverlap(t *testing.T) {
	for n := 1; n < 200; n += 7 {
		for parts := 1; parts <= 9; parts++ {
			spans := Split(n, parts, 3)
			next := 0
			for _, s := range spans {
				if s.Lo != next {
					t.Fatalf("Split(%d, %d): span %+v starts at %d, want %d", n, parts, s, s.Lo, next)
				}
				if s.Len() <= 0 {
					t.Fatalf("Split(%d, %d): empty span %+v", n, parts, s)
				}
				next = s.Hi
			}
			if next != n {
				t.Fatalf("Split(%d, %d): spans end at %d, want %d", n, parts, next, n)
			}
		}
	}
}

func TestTiledExecutor_BarrierBetweenPasses(t *testing.T) {
	pool := NewWorkerPool(4)
	defer pool.Close()

	e := NewTiledExecutor(pool)
	e.SetMinSpan(1)

	const rows, cols = 64, 48
	var rowsDone atomic.Int64
	var violated atomic.Bool

	e.Run(rows, func(lo, hi int) {
		rowsDone.Add(int64(hi - lo))
	}, cols, func(lo, hi int) {
		if rowsDone.Load() != rows {
			violated.Store(true)
		}
	})

	if violated.Load() {
		t.Error("a vertical span started before all horizontal spans finished")
	}
}

func TestTiledExecutor_EachLineOnce(t *testing.T) {
	pool := NewWorkerPool(3)
	defer pool.Close()

	e := NewTiledExecutor(pool)
	e.SetMinSpan(2)

	const rows, cols = 37, 23
	var mu sync.Mutex
	rowHits := make([]int, rows)
	colHits := make([]int, cols)

	e.Run(rows, func(lo, hi int) {
		mu.Lock()
		defer mu.Unlock()
		for i := lo; i < hi; i++ {
			rowHits[i]++
		}
	}, cols, func(lo, hi int) {
		mu.Lock()
		defer mu.Unlock()
		for i := lo; i < hi; i++ {
			colHits[i]++
		}
	})

	for i, n := range rowHits {
		if n != 1 {
			t.Errorf("row %d processed %d times, want 1", i, n)
		}
	}
	for i, n := range colHits {
		if n != 1 {
			t.Errorf("column %d processed %d times, want 1", i, n)
		}
	}
}

func TestTiledExecutor_ZeroAreaNoDispatch(t *testing.T) {
	e := NewTiledExecutor(nil)
	called := false
	fn := func(lo, hi int) { called = true }

	e.Run(0, fn, 10, fn)
	e.Run(10, fn, 0, fn)

	if called {
		t.Error("Run dispatched work for a zero-area buffer")
	}
}

func TestTiledExecutor_NilPoolSequential(t *testing.T) {
	e := NewTiledExecutor(nil)
	if e.Workers() != 1 {
		t.Errorf("Workers() = %d, want 1", e.Workers())
	}

	var calls []Span
	e.Run(5, func(lo, hi int) { calls = append(calls, Span{lo, hi}) },
		7, func(lo, hi int) { calls = append(calls, Span{lo, hi}) })

	want := []Span{{0, 5}, {0, 7}}
	if diff := cmp.Diff(want, calls); diff != "" {
		t.Errorf("sequential calls mismatch (-want +got):\n%s", diff)
	}
}

func TestTiledExecutor_MatchesSequentialBlur(t *testing.T) {
	const w, h = 131, 97
	rng := rand.New(rand.NewPCG(11, 13))
	src := make([]uint32, w*h)
	for i := range src {
		src[i] = rng.Uint32()
	}

	for _, radius := range []int{1, 4, 25} {
		want := append([]uint32(nil), src...)
		stackblur.Apply(want, w, h, radius)

		for _, workers := range []int{1, 2, 5, 8} {
			pool := NewWorkerPool(workers)
			e := NewTiledExecutor(pool)
			e.SetMinSpan(3)

			got := append([]uint32(nil), src...)
			e.Run(h, func(lo, hi int) {
				stackblur.HorizontalRows(got, w, h, radius, lo, hi)
			}, w, func(lo, hi int) {
				stackblur.VerticalColumns(got, w, h, radius, lo, hi)
			})
			pool.Close()

			if diff := cmp.Diff(want, got); diff != "" {
				t.Fatalf("radius %d, %d workers: tiled result differs (-want +got):\n%s", radius, workers, diff)
			}
		}
	}
}
