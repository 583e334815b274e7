// Package export decides how a schedule reaches the user's calendar:
// a single deep link for the simple case, or a generated calendar file
// delivered through a platform-dependent chain that always terminates
// in a direct file download.
package export

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"pillbox/internal/gcal"
	"pillbox/internal/ics"
	appLog "pillbox/internal/log"
	"pillbox/internal/model"
	"pillbox/internal/platform"
)

var (
	// ErrNoEntries signals an export attempt on an empty schedule. The
	// user has already been notified when this is returned.
	ErrNoEntries = errors.New("no entries to export")

	// ErrDeliveryFailed means the entire fallback chain was exhausted,
	// including the download of last resort.
	ErrDeliveryFailed = errors.New("calendar delivery failed")
)

const (
	// NoticeEmpty asks for at least one entry before exporting.
	NoticeEmpty = "Add at least one medication before exporting."

	// NoticeFileImport explains why a file lands instead of a link.
	NoticeFileImport = "Your schedule will be saved as a calendar file. Import it into your calendar app to add the reminders."

	defaultFilename = "medication_schedule.ics"

	// linkOpenDelay staggers successive link opens so the environment's
	// popup heuristics do not swallow everything after the first.
	linkOpenDelay = 500 * time.Millisecond
)

// Mode identifies which delivery mechanism ultimately ran.
type Mode string

const (
	ModeLink     Mode = "link"     // deep link opened as navigation
	ModeShare    Mode = "share"    // native share invoked with the file
	ModeNavigate Mode = "navigate" // document opened via in-memory URI
	ModeDownload Mode = "download" // document written as a file
)

// Outcome reports what a delivery did.
type Outcome struct {
	Mode Mode

	// URL is set for link and navigate modes.
	URL string

	// Path is set for download mode (the written file) and share mode
	// (the shared filename).
	Path string

	// EventCount is the number of calendar events delivered.
	EventCount int

	// Skipped lists entry ids that contributed nothing (malformed
	// entries, or non-daily entries in link mode).
	Skipped []string

	// LinksOpened counts navigation opens in per-entry link mode.
	LinksOpened int
}

// Navigator opens a URL in a new navigation context.
type Navigator interface {
	Open(ctx context.Context, url string) error
}

// Sharer is the native share capability.
type Sharer interface {
	Available() bool
	Share(ctx context.Context, filename string, content []byte) error
}

// Downloader materializes a document as a file and returns its path.
// It is the delivery method of last resort: an error from it is final.
type Downloader interface {
	Download(filename string, content []byte) (string, error)
}

// Notifier surfaces blocking user-facing notices.
type Notifier interface {
	Notify(msg string)
}

// Exporter selects and executes a delivery strategy. All fields except
// Navigator and Downloader are optional.
type Exporter struct {
	Platform   platform.Info
	Navigator  Navigator
	Sharer     Sharer
	Downloader Downloader
	Notifier   Notifier

	// Filename overrides the default exported filename.
	Filename string

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time

	// LinkDelay overrides the per-link stagger in DeliverLinks.
	LinkDelay time.Duration
}

// Deliver exports the given snapshot of the entry list.
//
// Policy, first match wins:
//  1. empty list: notify and return ErrNoEntries, nothing generated
//  2. exactly one daily entry: open a single calendar link
//  3. otherwise: encode a calendar document and deliver it as a file
//
// A failed link open on the fast path falls through to the document
// path rather than surfacing; only exhaustion of the document chain is
// a hard failure.
func (e *Exporter) Deliver(ctx context.Context, meds []model.Medication) (Outcome, error) {
	if len(meds) == 0 {
		e.notify(NoticeEmpty)
		return Outcome{}, ErrNoEntries
	}

	now := e.now()

	if len(meds) == 1 && meds[0].Frequency == model.FrequencyDaily {
		link, err := gcal.BuildLink(meds[0], now)
		if err == nil {
			openErr := e.Navigator.Open(ctx, link)
			if openErr == nil {
				appLog.Info("delivered via calendar link", "id", meds[0].ID)
				return Outcome{Mode: ModeLink, URL: link, EventCount: 1}, nil
			}
			appLog.Warn("link open failed, falling back to file delivery",
				"id", meds[0].ID, "err", openErr)
		}
	}

	e.notify(NoticeFileImport)

	res := ics.Encode(meds, now)
	out, err := e.deliverDocument(ctx, res.Document)
	out.EventCount = res.EventCount
	out.Skipped = res.Skipped
	return out, err
}

// DeliverLinks opens one calendar link per daily entry, in list order,
// staggered by a fixed delay. Specific-dates entries cannot be
// expressed as single links and are skipped with a warning.
func (e *Exporter) DeliverLinks(ctx context.Context, meds []model.Medication) (Outcome, error) {
	if len(meds) == 0 {
		e.notify(NoticeEmpty)
		return Outcome{}, ErrNoEntries
	}

	now := e.now()
	delay := e.LinkDelay
	if delay <= 0 {
		delay = linkOpenDelay
	}

	out := Outcome{Mode: ModeLink}
	for _, med := range meds {
		if med.Frequency != model.FrequencyDaily {
			appLog.Warn("link mode supports daily entries only, skipping",
				"id", med.ID, "name", med.Name)
			out.Skipped = append(out.Skipped, med.ID)
			continue
		}

		if out.LinksOpened > 0 {
			select {
			case <-ctx.Done():
				return out, ctx.Err()
			case <-time.After(delay):
			}
		}

		link, err := gcal.BuildLink(med, now)
		if err != nil {
			out.Skipped = append(out.Skipped, med.ID)
			continue
		}
		if err := e.Navigator.Open(ctx, link); err != nil {
			appLog.Error("link open failed", err, "id", med.ID)
			out.Skipped = append(out.Skipped, med.ID)
			continue
		}
		out.LinksOpened++
		out.EventCount++
	}

	return out, nil
}

// deliverDocument runs the platform-dependent document chain:
//
//	mobile + share capability -> share, on error download
//	mobile, no share          -> open data URI, on error download
//	desktop                   -> download
//
// Download failure is the only hard failure and is always surfaced.
func (e *Exporter) deliverDocument(ctx context.Context, doc string) (Outcome, error) {
	content := []byte(doc)
	name := e.filename()

	if e.Platform.Mobile {
		if e.Sharer != nil && e.Sharer.Available() {
			err := e.Sharer.Share(ctx, name, content)
			if err == nil {
				appLog.Info("delivered via native share", "filename", name)
				return Outcome{Mode: ModeShare, Path: name}, nil
			}
			appLog.Warn("share failed, falling back to download", "err", err)
		} else {
			uri := DataURI(doc)
			err := e.Navigator.Open(ctx, uri)
			if err == nil {
				appLog.Info("delivered via document navigation")
				return Outcome{Mode: ModeNavigate, URL: uri}, nil
			}
			appLog.Warn("document open failed, falling back to download", "err", err)
		}
	}

	path, err := e.Downloader.Download(name, content)
	if err != nil {
		appLog.Error("download failed", err, "filename", name)
		e.notify("Calendar export failed: " + err.Error())
		return Outcome{}, fmt.Errorf("%w: %w", ErrDeliveryFailed, err)
	}

	appLog.Info("delivered via download", "path", path)
	return Outcome{Mode: ModeDownload, Path: path}, nil
}

// DataURI wraps a calendar document in a data: URI, the disposable
// in-memory reference handed to mobile navigation.
func DataURI(doc string) string {
	return "data:text/calendar;charset=utf-8," + url.PathEscape(doc)
}

func (e *Exporter) notify(msg string) {
	if e.Notifier != nil {
		e.Notifier.Notify(msg)
	}
}

func (e *Exporter) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Exporter) filename() string {
	if e.Filename != "" {
		return e.Filename
	}
	return defaultFilename
}
