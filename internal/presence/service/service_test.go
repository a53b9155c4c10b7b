package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	presencemodels "onsite/internal/presence/models"
	presencestore "onsite/internal/presence/store"
	rostermodels "onsite/internal/roster/models"
	rosterstore "onsite/internal/roster/store"
	"onsite/internal/settings"
	settingsstore "onsite/internal/settings/store"
	dErrors "onsite/pkg/domain-errors"
	"onsite/pkg/requestcontext"
)

var chicago = func() *time.Location {
	loc, err := time.LoadLocation("America/Chicago")
	if err != nil {
		panic(err)
	}
	return loc
}()

type fixture struct {
	roster   *rosterstore.InMemoryStore
	records  *presencestore.InMemoryStore
	settings *settingsstore.InMemoryStore
	svc      *Service
	now      time.Time
	ctx      context.Context
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		roster:   rosterstore.NewInMemoryStore(),
		records:  presencestore.NewInMemoryStore(),
		settings: settingsstore.NewInMemoryStore(),
		now:      time.Date(2026, time.March, 3, 12, 0, 0, 0, chicago),
	}
	f.svc = New(f.roster, f.records, f.settings, chicago)
	f.ctx = requestcontext.WithTime(context.Background(), f.now)
	return f
}

func (f *fixture) addFacilitator(name string, shifts ...rostermodels.Shift) rostermodels.Person {
	person := rostermodels.Person{ID: uuid.New(), Name: name, Focus: "welcoming"}
	f.roster.Add(person, shifts...)
	return person
}

func (f *fixture) shift(startHour, startMin, endHour, endMin int) rostermodels.Shift {
	day := f.now
	return rostermodels.Shift{
		Start: time.Date(day.Year(), day.Month(), day.Day(), startHour, startMin, 0, 0, chicago),
		End:   time.Date(day.Year(), day.Month(), day.Day(), endHour, endMin, 0, 0, chicago),
	}
}

func (f *fixture) scan(t *testing.T, person rostermodels.Person, door string, at time.Time) {
	t.Helper()
	require.NoError(t, f.svc.RecordScan(f.ctx, person.ID, door, at))
}

func TestFeedEmpty(t *testing.T) {
	f := newFixture(t)
	feed, err := f.svc.Feed(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, feed.Items)
	assert.Equal(t, f.now.Unix(), feed.Now)
}

func TestFeedScheduledAndPresent(t *testing.T) {
	f := newFixture(t)
	person := f.addFacilitator("Dana", f.shift(9, 0, 17, 0))
	f.scan(t, person, "front", f.now.Add(-time.Hour))

	feed, err := f.svc.Feed(f.ctx)
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)

	item := feed.Items[0]
	assert.Equal(t, person.ID.String(), item.ID)
	assert.Equal(t, "Dana", item.Name)
	assert.Equal(t, "9:00 AM - 5:00 PM", item.Schedule)
	assert.Equal(t, f.shift(9, 0, 17, 0).Start.Unix(), item.ScheduleStart)
	assert.True(t, item.Present)
	require.NotNil(t, item.Door)
	assert.Equal(t, "front", *item.Door)
	require.NotNil(t, item.LastSeen)
	assert.Equal(t, f.now.Add(-time.Hour).Unix(), *item.LastSeen)
}

func TestFeedScheduledNeverScanned(t *testing.T) {
	f := newFixture(t)
	f.addFacilitator("Robin", f.shift(9, 0, 17, 0))

	feed, err := f.svc.Feed(f.ctx)
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	assert.False(t, feed.Items[0].Present)
	assert.Nil(t, feed.Items[0].Door)
	assert.Nil(t, feed.Items[0].LastSeen)
}

func TestFeedLabelsStaleScanSameDay(t *testing.T) {
	f := newFixture(t)
	person := f.addFacilitator("Dana", f.shift(13, 0, 17, 0))
	f.scan(t, person, "front", f.now.Add(-5*time.Hour))

	feed, err := f.svc.Feed(f.ctx)
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)

	item := feed.Items[0]
	assert.False(t, item.Present)
	require.NotNil(t, item.LastSeen)
	assert.Equal(t, f.now.Add(-5*time.Hour).Unix(), *item.LastSeen)
	assert.Equal(t, "5h ago", item.LastSeenAgo)
}

func TestFeedShiftPersistenceThroughShift(t *testing.T) {
	f := newFixture(t)
	person := f.addFacilitator("Dana", f.shift(9, 0, 17, 0))
	// Badged in five minutes before shift start; by 16:59 the standard
	// timeout has long lapsed.
	badgeIn := time.Date(2026, time.March, 3, 8, 55, 0, 0, chicago)
	f.scan(t, person, "front", badgeIn)

	late := requestcontext.WithTime(context.Background(),
		time.Date(2026, time.March, 3, 16, 59, 0, 0, chicago))

	feed, err := f.svc.Feed(late)
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	assert.True(t, feed.Items[0].Present)
}

func TestFeedExcludesEndedShiftPastGrace(t *testing.T) {
	f := newFixture(t)
	f.addFacilitator("Robin", f.shift(6, 0, 11, 0))

	// 11:31 is one minute past the 30-minute grace period.
	lateCtx := requestcontext.WithTime(context.Background(),
		time.Date(2026, time.March, 3, 11, 31, 0, 0, chicago))
	feed, err := f.svc.Feed(lateCtx)
	require.NoError(t, err)
	assert.Empty(t, feed.Items)
}

func TestFeedIncludesWalkIn(t *testing.T) {
	f := newFixture(t)
	// In the directory but with no shift today.
	person := f.addFacilitator("Casey")
	f.scan(t, person, "side", f.now.Add(-time.Hour))

	feed, err := f.svc.Feed(f.ctx)
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)

	item := feed.Items[0]
	assert.Equal(t, "Casey", item.Name)
	assert.True(t, item.Present)
	assert.Empty(t, item.Schedule)
	assert.Equal(t, int64(9999999999), item.ScheduleStart)
}

func TestFeedSkipsStaleWalkIn(t *testing.T) {
	f := newFixture(t)
	person := f.addFacilitator("Casey")
	// Scanned this morning but past the timeout: not present, no shift,
	// so nothing justifies a feed entry.
	f.scan(t, person, "side", f.now.Add(-5*time.Hour))

	feed, err := f.svc.Feed(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, feed.Items)
}

func TestFeedSkipsOrphanedRecord(t *testing.T) {
	f := newFixture(t)
	// A record whose person is unknown to the directory.
	require.NoError(t, f.records.Upsert(f.ctx, presencemodels.Record{
		PersonID: uuid.New(),
		LastSeen: f.now.Add(-time.Hour),
		Door:     "front",
	}))

	feed, err := f.svc.Feed(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, feed.Items)
}

func TestFeedOrdersByShiftStart(t *testing.T) {
	f := newFixture(t)
	f.addFacilitator("Afternoon", f.shift(13, 0, 21, 0))
	f.addFacilitator("Morning", f.shift(9, 0, 17, 0))
	walkIn := f.addFacilitator("WalkIn")
	f.scan(t, walkIn, "front", f.now.Add(-time.Hour))

	feed, err := f.svc.Feed(f.ctx)
	require.NoError(t, err)
	require.Len(t, feed.Items, 3)
	assert.Equal(t, "Morning", feed.Items[0].Name)
	assert.Equal(t, "Afternoon", feed.Items[1].Name)
	assert.Equal(t, "WalkIn", feed.Items[2].Name, "no schedule sorts last")
}

func TestFeedUsesConfiguredTimeout(t *testing.T) {
	f := newFixture(t)
	person := f.addFacilitator("Dana")
	f.scan(t, person, "front", f.now.Add(-30*time.Minute))

	// Tighten the timeout below the scan age: no longer present.
	require.NoError(t, f.settings.Update(f.ctx, settingsFor(900)))
	feed, err := f.svc.Feed(f.ctx)
	require.NoError(t, err)
	assert.Empty(t, feed.Items)

	// Widen it again.
	require.NoError(t, f.settings.Update(f.ctx, settingsFor(3600)))
	feed, err = f.svc.Feed(f.ctx)
	require.NoError(t, err)
	require.Len(t, feed.Items, 1)
	assert.True(t, feed.Items[0].Present)
}

func TestFeedStoreErrorFailsWhole(t *testing.T) {
	f := newFixture(t)
	svc := New(f.roster, failingRecords{}, f.settings, chicago)
	_, err := svc.Feed(f.ctx)
	require.Error(t, err)
	assert.True(t, dErrors.Is(err, dErrors.CodeInternal))
}

func TestRecordScanValidation(t *testing.T) {
	f := newFixture(t)
	now := f.now

	err := f.svc.RecordScan(f.ctx, uuid.Nil, "front", now)
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))

	err = f.svc.RecordScan(f.ctx, uuid.New(), "   ", now)
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))

	err = f.svc.RecordScan(f.ctx, uuid.New(), "front", time.Time{})
	assert.True(t, dErrors.Is(err, dErrors.CodeBadRequest))
}

func TestRecordScanLastWriteWins(t *testing.T) {
	f := newFixture(t)
	person := f.addFacilitator("Dana")

	f.scan(t, person, "front", f.now.Add(-2*time.Hour))
	f.scan(t, person, "back", f.now.Add(-time.Minute))

	all, err := f.records.All(f.ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "back", all[0].Door)
	assert.Equal(t, f.now.Add(-time.Minute).Unix(), all[0].LastSeen.Unix())
}

func settingsFor(timeoutSeconds int) settings.Settings {
	s := settings.Defaults()
	s.PresenceTimeout = timeoutSeconds
	return s
}

type failingRecords struct{}

func (failingRecords) Upsert(context.Context, presencemodels.Record) error {
	return errors.New("boom")
}

func (failingRecords) All(context.Context) ([]presencemodels.Record, error) {
	return nil, errors.New("boom")
}
