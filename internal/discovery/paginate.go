package discovery

import "github.com/pders01/folio/internal/catalog"

// PageWindow selects one page of a derived sequence.
type PageWindow struct {
	Index int
	Size  int
}

// TotalPages is never less than one, even for an empty sequence.
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}

// Clamp pulls Index into [0, totalPages-1].
func (w PageWindow) Clamp(totalPages int) PageWindow {
	last := max(0, totalPages-1)
	w.Index = min(max(w.Index, 0), last)
	return w
}

// Next moves forward one page; at the last page it is a no-op.
func (w PageWindow) Next(totalPages int) PageWindow {
	if w.Index+1 < totalPages {
		w.Index++
	}
	return w
}

// Previous moves back one page; at the first page it is a no-op.
func (w PageWindow) Previous() PageWindow {
	if w.Index > 0 {
		w.Index--
	}
	return w
}

// Page is the visible slice of a sequence plus navigation state.
type Page struct {
	Visible     []catalog.Item
	Index       int
	Size        int
	TotalPages  int
	CanPrevious bool
	CanNext     bool
}

// Paginate slices seq with w clamped to the available pages.
func Paginate(seq []catalog.Item, w PageWindow) Page {
	size := w.Size
	if size <= 0 {
		size = 1
	}
	total := TotalPages(len(seq), size)
	w = w.Clamp(total)

	start := min(w.Index*size, len(seq))
	end := min(start+size, len(seq))
	visible := make([]catalog.Item, end-start)
	copy(visible, seq[start:end])

	return Page{
		Visible:     visible,
		Index:       w.Index,
		Size:        size,
		TotalPages:  total,
		CanPrevious: w.Index > 0,
		CanNext:     w.Index+1 < total,
	}
}
