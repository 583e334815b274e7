package ics

import "github.com/teambition/rrule-go"

var dailyRule = (&rrule.ROption{Freq: rrule.DAILY}).RRuleString()

// DailyRRule returns the recurrence rule text for "repeat every day,
// forever" ("FREQ=DAILY"). Both the document encoder and the calendar
// link builder use this as the single source of the rule string.
func DailyRRule() string {
	return dailyRule
}
