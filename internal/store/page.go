package store

import "calentry/internal/model"

// pageWindow slices events down to page p of the given size, covering
// positions [p*size, min((p+1)*size, len)). Pages past the end yield an
// empty slice. The result is a copy, so later store mutations do not
// show through.
func pageWindow(events []model.Event, page, size int) []model.Event {
	if page < 0 || size <= 0 {
		return []model.Event{}
	}
	start := page * size
	if start >= len(events) {
		return []model.Event{}
	}
	end := start + size
	if end > len(events) {
		end = len(events)
	}
	out := make([]model.Event, end-start)
	copy(out, events[start:end])
	return out
}

// pageCount is ceil(n/size) with a floor of 1, so "page 1 of 1" renders
// even for an empty collection.
func pageCount(n, size int) int {
	if size <= 0 || n <= 0 {
		return 1
	}
	return (n + size - 1) / size
}
