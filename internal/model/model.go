package model

import (
	"fmt"
	"strings"
	"time"
)

// Recurrence is the repeat rule attached to an event. Values map onto
// RRULE frequencies at export time; ANNUALLY is renamed YEARLY on the wire.
type Recurrence string

const (
	RecurrenceNone     Recurrence = "NONE"
	RecurrenceDaily    Recurrence = "DAILY"
	RecurrenceWeekly   Recurrence = "WEEKLY"
	RecurrenceMonthly  Recurrence = "MONTHLY"
	RecurrenceAnnually Recurrence = "ANNUALLY"
)

// ParseRecurrence converts raw user input into a Recurrence. Input is
// trimmed and upper-cased before matching; anything outside the five
// supported values is rejected so that no event ever carries an unknown
// recurrence.
func ParseRecurrence(s string) (Recurrence, error) {
	r := Recurrence(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceAnnually:
		return r, nil
	}
	return "", fmt.Errorf("unknown recurrence %q", s)
}

// Event is a single calendar entry as held by the store.
//
// Start and End are floating local wall-clock times with second
// precision; no timezone is attached at any point. Events are immutable
// once stored: the collection only ever appends and removes.
type Event struct {
	Start       time.Time
	End         time.Time
	Recurrence  Recurrence
	Description string
}
