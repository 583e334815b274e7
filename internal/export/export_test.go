package export

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pillbox/internal/model"
	"pillbox/internal/platform"
)

var fixedNow = time.Date(2024, 6, 1, 12, 30, 0, 0, time.Local)

type fakeNavigator struct {
	opened []string
	err    error
}

func (f *fakeNavigator) Open(_ context.Context, url string) error {
	if f.err != nil {
		return f.err
	}
	f.opened = append(f.opened, url)
	return nil
}

type fakeSharer struct {
	available bool
	err       error
	shared    []string
}

func (f *fakeSharer) Available() bool { return f.available }

func (f *fakeSharer) Share(_ context.Context, filename string, _ []byte) error {
	if f.err != nil {
		return f.err
	}
	f.shared = append(f.shared, filename)
	return nil
}

type fakeDownloader struct {
	err   error
	files map[string]string
}

func (f *fakeDownloader) Download(filename string, content []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	if f.files == nil {
		f.files = make(map[string]string)
	}
	f.files[filename] = string(content)
	return "/fake/" + filename, nil
}

type fakeNotifier struct {
	notices []string
}

func (f *fakeNotifier) Notify(msg string) { f.notices = append(f.notices, msg) }

type fixture struct {
	nav    *fakeNavigator
	share  *fakeSharer
	down   *fakeDownloader
	notes  *fakeNotifier
	export *Exporter
}

func newFixture(p platform.Info) *fixture {
	f := &fixture{
		nav:   &fakeNavigator{},
		share: &fakeSharer{},
		down:  &fakeDownloader{},
		notes: &fakeNotifier{},
	}
	f.export = &Exporter{
		Platform:   p,
		Navigator:  f.nav,
		Sharer:     f.share,
		Downloader: f.down,
		Notifier:   f.notes,
		Now:        func() time.Time { return fixedNow },
		LinkDelay:  time.Millisecond,
	}
	return f
}

func daily(id, name string, hour int) model.Medication {
	return model.Medication{
		ID:        id,
		Name:      name,
		Time:      model.TimeOfDay{Hour: hour, Minute: 0},
		Frequency: model.FrequencyDaily,
	}
}

func specific(id, name string, dates ...string) model.Medication {
	med := model.Medication{
		ID:        id,
		Name:      name,
		Time:      model.TimeOfDay{Hour: 21, Minute: 0},
		Frequency: model.FrequencySpecificDates,
	}
	for _, ds := range dates {
		d, err := model.ParseDate(ds)
		if err != nil {
			panic(err)
		}
		med.Dates = append(med.Dates, d)
	}
	return med
}

func TestDeliverEmptyList(t *testing.T) {
	f := newFixture(platform.Info{})

	_, err := f.export.Deliver(context.Background(), nil)

	assert.ErrorIs(t, err, ErrNoEntries)
	assert.Equal(t, []string{NoticeEmpty}, f.notes.notices)
	assert.Empty(t, f.nav.opened)
	assert.Empty(t, f.down.files)
}

func TestDeliverSingleDailyFastPath(t *testing.T) {
	f := newFixture(platform.Info{})

	out, err := f.export.Deliver(context.Background(), []model.Medication{daily("a", "Vitamin D", 9)})
	require.NoError(t, err)

	assert.Equal(t, ModeLink, out.Mode)
	require.Len(t, f.nav.opened, 1)
	assert.Contains(t, f.nav.opened[0], "calendar.google.com")
	assert.Empty(t, f.down.files)
	assert.Empty(t, f.notes.notices)
}

func TestDeliverMultipleEntriesUsesDocumentPath(t *testing.T) {
	f := newFixture(platform.Info{})

	meds := []model.Medication{
		daily("a", "Vitamin D", 9),
		specific("b", "Iron", "2024-06-01", "2024-06-15"),
	}
	out, err := f.export.Deliver(context.Background(), meds)
	require.NoError(t, err)

	assert.Equal(t, ModeDownload, out.Mode)
	assert.Equal(t, 3, out.EventCount)
	assert.Equal(t, []string{NoticeFileImport}, f.notes.notices)
	assert.Empty(t, f.nav.opened)

	doc := f.down.files["medication_schedule.ics"]
	assert.Contains(t, doc, "BEGIN:VCALENDAR")
	assert.Equal(t, 3, strings.Count(doc, "BEGIN:VEVENT"))
}

func TestDeliverSingleSpecificDatesEntryUsesDocumentPath(t *testing.T) {
	// Deliberate policy: any specific-dates entry goes through the file
	// path, even a single entry with a single date.
	f := newFixture(platform.Info{})

	out, err := f.export.Deliver(context.Background(),
		[]model.Medication{specific("b", "Iron", "2024-06-15")})
	require.NoError(t, err)

	assert.Equal(t, ModeDownload, out.Mode)
	assert.Empty(t, f.nav.opened)
}

func TestDeliverFastPathFallsBackToDocumentOnOpenFailure(t *testing.T) {
	f := newFixture(platform.Info{})
	f.nav.err = errors.New("popup blocked")

	out, err := f.export.Deliver(context.Background(), []model.Medication{daily("a", "Vitamin D", 9)})
	require.NoError(t, err)

	assert.Equal(t, ModeDownload, out.Mode)
	assert.Contains(t, f.down.files, "medication_schedule.ics")
}

func TestDeliverMobileShare(t *testing.T) {
	f := newFixture(platform.Info{Mobile: true, OS: platform.IOS})
	f.share.available = true

	meds := []model.Medication{daily("a", "Vitamin D", 9), daily("b", "Aspirin", 21)}
	out, err := f.export.Deliver(context.Background(), meds)
	require.NoError(t, err)

	assert.Equal(t, ModeShare, out.Mode)
	assert.Equal(t, []string{"medication_schedule.ics"}, f.share.shared)
	assert.Empty(t, f.down.files)
}

func TestDeliverMobileShareFailureFallsBackToDownload(t *testing.T) {
	f := newFixture(platform.Info{Mobile: true, OS: platform.Android})
	f.share.available = true
	f.share.err = errors.New("share dismissed")

	meds := []model.Medication{daily("a", "Vitamin D", 9), daily("b", "Aspirin", 21)}
	out, err := f.export.Deliver(context.Background(), meds)
	require.NoError(t, err)

	assert.Equal(t, ModeDownload, out.Mode)
	assert.Contains(t, f.down.files, "medication_schedule.ics")
}

func TestDeliverMobileWithoutShareOpensDataURI(t *testing.T) {
	f := newFixture(platform.Info{Mobile: true, OS: platform.Android})

	meds := []model.Medication{daily("a", "Vitamin D", 9), daily("b", "Aspirin", 21)}
	out, err := f.export.Deliver(context.Background(), meds)
	require.NoError(t, err)

	assert.Equal(t, ModeNavigate, out.Mode)
	require.Len(t, f.nav.opened, 1)
	assert.True(t, strings.HasPrefix(f.nav.opened[0], "data:text/calendar;charset=utf-8,"))
	assert.Empty(t, f.down.files)
}

func TestDeliverMobileNavigateFailureFallsBackToDownload(t *testing.T) {
	f := newFixture(platform.Info{Mobile: true, OS: platform.Android})
	f.nav.err = errors.New("popup blocked")

	meds := []model.Medication{daily("a", "Vitamin D", 9), daily("b", "Aspirin", 21)}
	out, err := f.export.Deliver(context.Background(), meds)
	require.NoError(t, err)

	assert.Equal(t, ModeDownload, out.Mode)
}

func TestDeliverDownloadFailureIsHardAndVisible(t *testing.T) {
	f := newFixture(platform.Info{})
	f.down.err = errors.New("disk full")

	meds := []model.Medication{daily("a", "Vitamin D", 9), daily("b", "Aspirin", 21)}
	_, err := f.export.Deliver(context.Background(), meds)

	assert.ErrorIs(t, err, ErrDeliveryFailed)

	// The user sees the failure; it is never a silent no-op.
	require.Len(t, f.notes.notices, 2)
	assert.Contains(t, f.notes.notices[1], "disk full")
}

func TestDeliverReportsSkippedEntries(t *testing.T) {
	f := newFixture(platform.Info{})

	meds := []model.Medication{
		daily("a", "Vitamin D", 9),
		{ID: "bad", Name: "Ghost", Time: model.TimeOfDay{Hour: 8}, Frequency: model.FrequencySpecificDates},
	}
	out, err := f.export.Deliver(context.Background(), meds)
	require.NoError(t, err)

	assert.Equal(t, []string{"bad"}, out.Skipped)
	assert.Equal(t, 1, out.EventCount)
}

func TestDeliverLinksOpensInOrder(t *testing.T) {
	f := newFixture(platform.Info{})

	meds := []model.Medication{
		daily("a", "Vitamin D", 9),
		daily("b", "Aspirin", 14),
		daily("c", "Magnesium", 21),
	}
	out, err := f.export.DeliverLinks(context.Background(), meds)
	require.NoError(t, err)

	assert.Equal(t, 3, out.LinksOpened)
	require.Len(t, f.nav.opened, 3)
	assert.Contains(t, f.nav.opened[0], "Vitamin")
	assert.Contains(t, f.nav.opened[1], "Aspirin")
	assert.Contains(t, f.nav.opened[2], "Magnesium")
}

func TestDeliverLinksSkipsSpecificDates(t *testing.T) {
	f := newFixture(platform.Info{})

	meds := []model.Medication{
		daily("a", "Vitamin D", 9),
		specific("b", "Iron", "2024-06-15"),
	}
	out, err := f.export.DeliverLinks(context.Background(), meds)
	require.NoError(t, err)

	assert.Equal(t, 1, out.LinksOpened)
	assert.Equal(t, []string{"b"}, out.Skipped)
}

func TestDeliverLinksEmptyList(t *testing.T) {
	f := newFixture(platform.Info{})

	_, err := f.export.DeliverLinks(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoEntries)
}

func TestDataURIEscapesDocument(t *testing.T) {
	uri := DataURI("BEGIN:VCALENDAR\r\nEND:VCALENDAR\r\n")
	assert.NotContains(t, uri, "\r")
	assert.NotContains(t, uri, "\n")
}
