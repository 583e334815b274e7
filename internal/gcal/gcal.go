// Package gcal builds Google Calendar event-creation deep links. The
// render endpoint accepts a single event per link, so multi-entry
// exports always go through the document encoder instead.
package gcal

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"pillbox/internal/ics"
	"pillbox/internal/model"
)

const renderEndpoint = "https://calendar.google.com/calendar/render"

// ErrNoDates is returned for a specific-dates entry whose date list is
// empty; there is no instant to link to.
var ErrNoDates = errors.New("specific-dates entry has no dates")

// BuildLink returns a prefilled event-creation URL for one entry.
//
// Daily entries anchor to today at the entry's time and carry a daily
// recurrence fragment. Specific-dates entries link their earliest date
// and omit recurrence.
func BuildLink(med model.Medication, now time.Time) (string, error) {
	var start time.Time
	switch med.Frequency {
	case model.FrequencyDaily:
		start = med.Time.On(now)
	case model.FrequencySpecificDates:
		dates := med.SortedDates()
		if len(dates) == 0 {
			return "", ErrNoDates
		}
		start = med.Time.On(dates[0].Midnight())
	default:
		return "", fmt.Errorf("unknown frequency %q", med.Frequency)
	}
	end := start.Add(ics.EventDuration)

	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", med.Summary())
	params.Set("details", med.Description())
	params.Set("dates", start.Format(ics.TimeLayout)+"/"+end.Format(ics.TimeLayout))

	link := renderEndpoint + "?" + params.Encode()
	if med.Frequency == model.FrequencyDaily {
		// The endpoint expects the RRULE fragment raw; percent-encoding
		// the ':' and '=' breaks recurrence on the Google side.
		link += "&recur=RRULE:" + ics.DailyRRule()
	}
	return link, nil
}
