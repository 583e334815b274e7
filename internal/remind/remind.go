// Package remind runs the foreground reminder loop: a per-minute cron
// tick that surfaces entries due at the current wall-clock minute.
package remind

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	appLog "pillbox/internal/log"
	"pillbox/internal/model"
)

// Runner drives the reminder loop. Entries is called on every tick so
// each check sees a fresh snapshot of the list.
type Runner struct {
	Entries func() []model.Medication
	Notify  func(msg string)

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time
}

// Run blocks until the context is canceled, checking for due entries
// once a minute.
func (r *Runner) Run(ctx context.Context) error {
	c := cron.New()
	if _, err := c.AddFunc("* * * * *", r.tick); err != nil {
		return err
	}

	c.Start()
	appLog.Info("reminder loop started")

	<-ctx.Done()

	// Wait for an in-flight tick to finish before returning.
	<-c.Stop().Done()
	appLog.Info("reminder loop stopped")
	return nil
}

func (r *Runner) tick() {
	now := r.now()
	for _, m := range r.Entries() {
		if Due(m, now) {
			appLog.Debug("entry due", "id", m.ID, "name", m.Name)
			r.Notify(m.Description())
		}
	}
}

// Due reports whether the entry fires in the given instant's wall-clock
// minute. Daily entries fire every day; specific-dates entries fire
// only on their listed dates.
func Due(m model.Medication, now time.Time) bool {
	if m.Time.Hour != now.Hour() || m.Time.Minute != now.Minute() {
		return false
	}
	switch m.Frequency {
	case model.FrequencyDaily:
		return true
	case model.FrequencySpecificDates:
		today := model.DateOf(now)
		for _, d := range m.Dates {
			if d.Equal(today) {
				return true
			}
		}
	}
	return false
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
