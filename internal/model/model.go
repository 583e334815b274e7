package model

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// Frequency describes how a medication entry recurs.
type Frequency string

const (
	// FrequencyDaily repeats the entry every day at its time-of-day.
	FrequencyDaily Frequency = "daily"
	// FrequencySpecificDates fires the entry only on an explicit set of
	// calendar dates, all at the same time-of-day.
	FrequencySpecificDates Frequency = "specific_dates"
)

// Medication is a single schedule entry. Entries are immutable once
// created; the list is mutated only by adding or removing whole entries.
type Medication struct {
	// ID is an opaque unique identifier, used as the list key and as
	// the base of the calendar UID.
	ID string `yaml:"id" json:"id"`

	// Name is the display name. Never empty for a valid entry.
	Name string `yaml:"name" json:"name"`

	// Dosage is an optional display string ("1000 IU"). It has no
	// effect on scheduling.
	Dosage string `yaml:"dosage,omitempty" json:"dosage,omitempty"`

	// Time is the local wall-clock time-of-day the entry fires.
	Time TimeOfDay `yaml:"time" json:"time"`

	Frequency Frequency `yaml:"frequency" json:"frequency"`

	// Dates is the date set for FrequencySpecificDates; unused (and
	// empty) for daily entries.
	Dates []Date `yaml:"dates,omitempty" json:"dates,omitempty"`
}

// Validate checks the entry invariants. The form layer rejects invalid
// input before an entry is created, so a failure here means the store
// was edited by hand or a caller constructed the entry directly.
func (m Medication) Validate() error {
	if m.ID == "" {
		return errors.New("entry has no id")
	}
	if m.Name == "" {
		return errors.New("entry has no name")
	}
	if err := m.Time.Validate(); err != nil {
		return err
	}
	switch m.Frequency {
	case FrequencyDaily:
	case FrequencySpecificDates:
		if len(m.Dates) == 0 {
			return fmt.Errorf("entry %q has frequency %s but no dates", m.Name, m.Frequency)
		}
	default:
		return fmt.Errorf("entry %q has unknown frequency %q", m.Name, m.Frequency)
	}
	return nil
}

// SortedDates returns a copy of Dates in ascending chronological order.
func (m Medication) SortedDates() []Date {
	out := make([]Date, len(m.Dates))
	copy(out, m.Dates)
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

// Summary is the one-line calendar title: a pill glyph, the name, and
// the dosage in parentheses when present.
func (m Medication) Summary() string {
	if m.Dosage != "" {
		return fmt.Sprintf("💊 %s (%s)", m.Name, m.Dosage)
	}
	return "💊 " + m.Name
}

// Description is the longer calendar body text.
func (m Medication) Description() string {
	if m.Dosage != "" {
		return fmt.Sprintf("Take %s %s", m.Name, m.Dosage)
	}
	return "Take " + m.Name
}

// TimeOfDay is a local wall-clock time with minute precision. It has no
// date component and no timezone.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" (24-hour). Trailing text is rejected,
// matching the date parser's strictness.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parsed, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return TimeOfDay{Hour: parsed.Hour(), Minute: parsed.Minute()}, nil
}

func (t TimeOfDay) Validate() error {
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 {
		return fmt.Errorf("invalid time %02d:%02d", t.Hour, t.Minute)
	}
	return nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// On anchors the time-of-day to the given day in the local zone.
func (t TimeOfDay) On(day time.Time) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour, t.Minute, 0, 0, time.Local)
}

// MarshalYAML stores the time as the "HH:MM" string the original entry
// forms produce.
func (t TimeOfDay) MarshalYAML() (any, error) {
	return t.String(), nil
}

func (t *TimeOfDay) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// MarshalJSON keeps the JSON form aligned with YAML ("HH:MM").
func (t TimeOfDay) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.String() + `"`), nil
}

func (t *TimeOfDay) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseTimeOfDay(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

const dateLayout = "2006-01-02"

// Date is a calendar date with no time component, local to the device.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (Date, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// DateOf truncates a time.Time to its calendar date.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Midnight returns the date at 00:00 local time.
func (d Date) Midnight() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.Local)
}

func (d Date) Before(other Date) bool {
	return d.Midnight().Before(other.Midnight())
}

func (d Date) Equal(other Date) bool {
	return d == other
}

func (d Date) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Date) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
