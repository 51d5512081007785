// Package store holds the ordered in-memory event collection for a
// single user session. The store performs no locking of its own: the
// owning layer serializes access (one call completes before the next
// begins), and each session owns an independent instance.
package store

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"calentry/internal/model"
)

// Validation failures returned by Add. The store is left unchanged when
// either is returned.
var (
	ErrEmptyDescription = errors.New("description must not be empty")
	ErrEndBeforeStart   = errors.New("end must not be before start")
)

// IndexError reports a positional removal outside [0, Len).
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Len)
}

// Store is an insertion-ordered sequence of validated events.
type Store struct {
	events []model.Event
}

func New() *Store {
	return &Store{}
}

// Add validates the given fields and appends a new event. The
// description is trimmed before validation and stored trimmed; an event
// never exists in an invalid state. end == start is permitted.
func (s *Store) Add(start, end time.Time, recurrence model.Recurrence, description string) error {
	description = strings.TrimSpace(description)
	if description == "" {
		return ErrEmptyDescription
	}
	if end.Before(start) {
		return ErrEndBeforeStart
	}
	s.events = append(s.events, model.Event{
		Start:       start,
		End:         end,
		Recurrence:  recurrence,
		Description: description,
	})
	return nil
}

// RemoveAt removes the event at the given zero-based position, shifting
// subsequent events down. On an out-of-range index the store is left
// unchanged and an *IndexError is returned.
func (s *Store) RemoveAt(index int) error {
	if index < 0 || index >= len(s.events) {
		return &IndexError{Index: index, Len: len(s.events)}
	}
	s.events = append(s.events[:index], s.events[index+1:]...)
	return nil
}

// Clear removes all events unconditionally.
func (s *Store) Clear() {
	s.events = nil
}

func (s *Store) Len() int {
	return len(s.events)
}

// Events returns a copy of the full event sequence in insertion order.
func (s *Store) Events() []model.Event {
	out := make([]model.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Page returns the events visible on the given zero-based page.
func (s *Store) Page(page, pageSize int) []model.Event {
	return pageWindow(s.events, page, pageSize)
}

// PageCount returns the number of pages needed to show all events at
// the given page size, never less than 1.
func (s *Store) PageCount(pageSize int) int {
	return pageCount(len(s.events), pageSize)
}
