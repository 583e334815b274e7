// Package ics turns the medication list into an iCalendar document.
// The output is regenerated from scratch on every export; nothing in
// here holds state between calls.
package ics

import (
	"fmt"
	"time"

	ical "github.com/arran4/golang-ical"

	appLog "pillbox/internal/log"
	"pillbox/internal/model"
)

const (
	prodID    = "-//Digital Pillbox//EN"
	uidDomain = "digitalpillbox"

	// TimeLayout is the floating local date-time form used for DTSTART
	// and DTEND (no timezone suffix). DTSTAMP is the one UTC value in
	// the document and carries a trailing Z.
	TimeLayout = "20060102T150405"

	// EventDuration is the fixed display duration of every dose event.
	// Calendar services reject zero-length events.
	EventDuration = 5 * time.Minute
)

// Result is the outcome of one encode call.
type Result struct {
	// Document is the serialized calendar, CRLF line endings included.
	Document string

	// EventCount is the number of VEVENT blocks emitted.
	EventCount int

	// Skipped lists ids of entries that contributed no events, such as
	// a specific-dates entry with an empty date list.
	Skipped []string
}

// Encode builds the calendar document for the given entries. The now
// argument anchors daily events to the current local date and supplies
// the shared DTSTAMP; callers outside tests pass time.Now().
//
// Malformed entries are skipped, not fatal: the rest of the document is
// still produced and the skip is recorded in the result.
func Encode(meds []model.Medication, now time.Time) Result {
	cal := ical.NewCalendar()
	cal.SetProductId(prodID)
	cal.SetCalscale("GREGORIAN")
	cal.SetMethod(ical.MethodPublish)

	var res Result
	for _, med := range meds {
		n := addEvents(cal, med, now)
		if n == 0 {
			appLog.Warn("encode: entry contributed no events, skipping",
				"id", med.ID, "name", med.Name, "frequency", med.Frequency)
			res.Skipped = append(res.Skipped, med.ID)
			continue
		}
		res.EventCount += n
	}

	// The interchange format requires CRLF joining; the library's
	// default on unix is bare LF.
	res.Document = cal.Serialize(ical.WithNewLineWindows)
	appLog.Debug("encode completed",
		"entry_count", len(meds), "event_count", res.EventCount, "skipped", len(res.Skipped))
	return res
}

// addEvents emits the occurrence-group for one entry and returns how
// many VEVENT blocks it produced.
func addEvents(cal *ical.Calendar, med model.Medication, now time.Time) int {
	switch med.Frequency {
	case model.FrequencyDaily:
		// One event anchored to today, repeating forever.
		ev := cal.AddEvent(fmt.Sprintf("%s@%s", med.ID, uidDomain))
		fillEvent(ev, med, now, med.Time.On(now), true)
		return 1

	case model.FrequencySpecificDates:
		// One independent event per date, UIDs derived from the entry
		// id plus the index into the sorted date list.
		dates := med.SortedDates()
		for i, d := range dates {
			ev := cal.AddEvent(fmt.Sprintf("%s-%d@%s", med.ID, i, uidDomain))
			fillEvent(ev, med, now, med.Time.On(d.Midnight()), false)
		}
		return len(dates)

	default:
		return 0
	}
}

func fillEvent(ev *ical.VEvent, med model.Medication, now, start time.Time, daily bool) {
	ev.SetDtStampTime(now)
	ev.SetSummary(med.Summary())
	ev.SetDescription(med.Description())
	ev.SetStatus(ical.ObjectStatusConfirmed)
	ev.SetTimeTransparency(ical.TransparencyTransparent)

	// DTSTART/DTEND are floating local times; SetStartAt would stamp
	// them UTC, which shifts the dose time on import.
	ev.SetProperty(ical.ComponentPropertyDtStart, start.Format(TimeLayout))
	ev.SetProperty(ical.ComponentPropertyDtEnd, start.Add(EventDuration).Format(TimeLayout))

	if daily {
		ev.AddRrule(DailyRRule())
	}

	// A display alarm firing at the event's own start instant.
	alarm := ev.AddAlarm()
	alarm.SetProperty(ical.ComponentProperty(ical.PropertyTrigger), "-PT0M")
	alarm.SetProperty(ical.ComponentProperty(ical.PropertyAction), string(ical.ActionDisplay))
	alarm.SetProperty(ical.ComponentPropertyDescription, med.Summary())
}
