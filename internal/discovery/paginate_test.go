package discovery

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginate(t *testing.T) {
	seq := books(12, "i")

	tests := []struct {
		name        string
		window      PageWindow
		wantIDs     []string
		wantIndex   int
		wantTotal   int
		canPrevious bool
		canNext     bool
	}{
		{
			name:      "first page",
			window:    PageWindow{Index: 0, Size: 5},
			wantIDs:   []string{"i0", "i1", "i2", "i3", "i4"},
			wantTotal: 3,
			canNext:   true,
		},
		{
			name:        "last partial page",
			window:      PageWindow{Index: 2, Size: 5},
			wantIDs:     []string{"i10", "i11"},
			wantIndex:   2,
			wantTotal:   3,
			canPrevious: true,
		},
		{
			name:        "index past the end is clamped",
			window:      PageWindow{Index: 9, Size: 5},
			wantIDs:     []string{"i10", "i11"},
			wantIndex:   2,
			wantTotal:   3,
			canPrevious: true,
		},
		{
			name:      "negative index is clamped",
			window:    PageWindow{Index: -3, Size: 4},
			wantIDs:   []string{"i0", "i1", "i2", "i3"},
			wantTotal: 3,
			canNext:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Paginate(seq, tt.window)
			assert.Equal(t, tt.wantIDs, ids(p.Visible))
			assert.Equal(t, tt.wantIndex, p.Index)
			assert.Equal(t, tt.wantTotal, p.TotalPages)
			assert.Equal(t, tt.canPrevious, p.CanPrevious)
			assert.Equal(t, tt.canNext, p.CanNext)
		})
	}
}

func TestPaginateEmpty(t *testing.T) {
	p := Paginate(nil, PageWindow{Index: 3, Size: 5})
	assert.Empty(t, p.Visible)
	assert.Equal(t, 1, p.TotalPages)
	assert.Equal(t, 0, p.Index)
	assert.False(t, p.CanPrevious)
	assert.False(t, p.CanNext)
}

func TestPageWindowNavigationStaysInBounds(t *testing.T) {
	for n := 0; n <= 23; n++ {
		for _, size := range []int{1, 3, 5, 10} {
			t.Run(fmt.Sprintf("n=%d size=%d", n, size), func(t *testing.T) {
				total := TotalPages(n, size)
				w := PageWindow{Size: size}

				// Walk past the end and back past the start.
				for i := 0; i < total+3; i++ {
					before := w
					w = w.Next(total)
					assert.GreaterOrEqual(t, w.Index, 0)
					assert.LessOrEqual(t, w.Index, total-1)
					if before.Index == total-1 {
						assert.Equal(t, before, w)
					}
				}
				assert.Equal(t, total-1, w.Index)

				for i := 0; i < total+3; i++ {
					before := w
					w = w.Previous()
					assert.GreaterOrEqual(t, w.Index, 0)
					if before.Index == 0 {
						assert.Equal(t, before, w)
					}
				}
				assert.Equal(t, 0, w.Index)
			})
		}
	}
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 5))
	assert.Equal(t, 1, TotalPages(5, 5))
	assert.Equal(t, 2, TotalPages(6, 5))
	assert.Equal(t, 10, TotalPages(50, 5))
	assert.Equal(t, 1, TotalPages(7, 0))
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "", Label(false, Page{TotalPages: 1}, 0, 0))
	assert.Equal(t, "Page 1 of 3 · 12 results (of 50 raw results)", Label(true, Page{Index: 0, TotalPages: 3}, 12, 50))
	assert.Equal(t, "Page 2 of 10 · 50 results", Label(true, Page{Index: 1, TotalPages: 10}, 50, 50))
	assert.Equal(t, "Page 1 of 1 · 0 results", Label(true, Page{TotalPages: 1}, 0, 0))
}

func TestViewStates(t *testing.T) {
	assert.Equal(t, StateIdle, stateFor(false, 0, 0))
	assert.Equal(t, StateIdle, stateFor(false, 3, 3))
	assert.Equal(t, StateNoResults, stateFor(true, 0, 0))
	assert.Equal(t, StateFilteredOut, stateFor(true, 0, 12))
	assert.Equal(t, StateResults, stateFor(true, 4, 12))
	assert.Equal(t, "filtered-out", StateFilteredOut.String())
}
