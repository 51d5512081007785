// Package ics serializes stored events into iCalendar documents.
package ics

import (
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"

	"calentry/internal/model"
)

// stampLayout is the floating local date-time form used for DTSTAMP,
// DTSTART and DTEND: second precision, no timezone designator.
const stampLayout = "20060102T150405"

// DefaultProdID is used when no product identifier is configured.
const DefaultProdID = "-//Calendar Entry App//CalEntry//EN"

// frequencies maps stored recurrence values onto RRULE frequencies.
// ANNUALLY is the one rename on the wire (YEARLY). NONE is absent so
// that non-recurring events emit no RRULE line; the same fallback
// swallows any value outside the enumeration, which Add already keeps
// out of the store.
var frequencies = map[model.Recurrence]rrule.Frequency{
	model.RecurrenceDaily:    rrule.DAILY,
	model.RecurrenceWeekly:   rrule.WEEKLY,
	model.RecurrenceMonthly:  rrule.MONTHLY,
	model.RecurrenceAnnually: rrule.YEARLY,
}

// Exporter produces complete iCalendar documents from event sequences.
//
// Every call stamps a fresh snapshot: DTSTAMP carries the wall-clock
// time of the call and each VEVENT gets a newly generated UID, so two
// exports of the same list differ in exactly those fields.
type Exporter struct {
	prodID string

	// Seams for deterministic tests.
	now    func() time.Time
	newUID func() string
}

// NewExporter returns an Exporter emitting the given PRODID, or
// DefaultProdID if empty.
func NewExporter(prodID string) *Exporter {
	if prodID == "" {
		prodID = DefaultProdID
	}
	return &Exporter{
		prodID: prodID,
		now:    time.Now,
		newUID: uuid.NewString,
	}
}

// Export serializes events, in input order, into a single document.
// It never fails: an empty input still yields a valid calendar wrapper
// with zero event blocks.
func (e *Exporter) Export(events []model.Event) string {
	var b builder
	b.prop("BEGIN", "VCALENDAR")
	b.prop("VERSION", "2.0")
	b.prop("PRODID", e.prodID)
	b.prop("CALSCALE", "GREGORIAN")
	for _, ev := range events {
		e.writeEvent(&b, ev)
	}
	b.prop("END", "VCALENDAR")
	return b.String()
}

func (e *Exporter) writeEvent(b *builder, ev model.Event) {
	b.prop("BEGIN", "VEVENT")
	b.prop("DTSTAMP", e.now().Format(stampLayout))
	b.prop("UID", e.newUID())
	b.prop("DTSTART", ev.Start.Format(stampLayout))
	b.prop("DTEND", ev.End.Format(stampLayout))
	// SUMMARY and DESCRIPTION deliberately carry the same text,
	// unescaped, to stay byte-compatible with existing exports.
	b.prop("SUMMARY", ev.Description)
	b.prop("DESCRIPTION", ev.Description)
	if freq, ok := frequencies[ev.Recurrence]; ok {
		b.prop("RRULE", (&rrule.ROption{Freq: freq}).RRuleString())
	}
	b.prop("END", "VEVENT")
}
