// Package service assembles the display feed: it joins today's schedule
// against the latest door scans and resolves per-person presence. All
// state lives in the stores; every call recomputes from scratch so the
// display never shows stale derived state.
package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"onsite/internal/presence/metrics"
	"onsite/internal/presence/models"
	"onsite/internal/presence/resolver"
	rostermodels "onsite/internal/roster/models"
	"onsite/internal/settings"
	dErrors "onsite/pkg/domain-errors"
	"onsite/pkg/requestcontext"
)

// RosterStore lists today's scheduled facilitators and resolves directory
// entries for presence-only people.
type RosterStore interface {
	ListScheduled(ctx context.Context, windowStart, windowEnd time.Time) ([]rostermodels.Scheduled, error)
	GetPeople(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]rostermodels.Person, error)
}

// RecordStore holds the latest scan per person.
type RecordStore interface {
	Upsert(ctx context.Context, rec models.Record) error
	All(ctx context.Context) ([]models.Record, error)
}

// SettingsSource supplies the display knobs the resolver depends on.
type SettingsSource interface {
	Load(ctx context.Context) (settings.Settings, error)
}

// Service computes the display feed and applies scan upserts.
type Service struct {
	roster   RosterStore
	records  RecordStore
	settings SettingsSource
	loc      *time.Location
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics sets the service metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs the presence service. loc is the site timezone; the
// clock arrives per request via requestcontext.
func New(roster RosterStore, records RecordStore, settingsSource SettingsSource, loc *time.Location, opts ...Option) *Service {
	s := &Service{
		roster:   roster,
		records:  records,
		settings: settingsSource,
		loc:      loc,
		logger:   slog.Default(),
		tracer:   otel.Tracer("onsite/presence"),
	}
	if s.loc == nil {
		s.loc = time.Local
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Feed computes the display document for the request's "now". Any store
// failure fails the whole feed: a partial roster on an on-site display
// is worse than a clear error.
func (s *Service) Feed(ctx context.Context) (models.Feed, error) {
	ctx, span := s.tracer.Start(ctx, "presence.feed")
	defer span.End()

	now := requestcontext.Now(ctx)
	start := time.Now()

	cfg, err := s.settings.Load(ctx)
	if err != nil {
		return models.Feed{}, dErrors.Wrap(err, dErrors.CodeInternal, "load display settings")
	}
	timeout := time.Duration(cfg.PresenceTimeout) * time.Second

	windowStart, windowEnd := resolver.DayWindow(now, s.loc)

	scheduled, err := s.roster.ListScheduled(ctx, windowStart, windowEnd)
	if err != nil {
		return models.Feed{}, dErrors.Wrap(err, dErrors.CodeInternal, "query schedule")
	}
	records, err := s.records.All(ctx)
	if err != nil {
		return models.Feed{}, dErrors.Wrap(err, dErrors.CodeInternal, "query presence records")
	}

	recordsByPerson := make(map[uuid.UUID]models.Record, len(records))
	for _, rec := range records {
		recordsByPerson[rec.PersonID] = rec
	}

	items := make([]models.Item, 0, len(scheduled))
	onRoster := make(map[uuid.UUID]bool, len(scheduled))
	present := 0

	for _, sc := range scheduled {
		onRoster[sc.Person.ID] = true

		in := resolver.Input{Now: now, Timeout: timeout, Loc: s.loc}
		if shift, ok := resolver.MatchShift(sc.Shifts, windowStart, windowEnd); ok {
			matched := shift
			in.Shift = &matched
		}
		if rec, ok := recordsByPerson[sc.Person.ID]; ok {
			matched := rec
			in.Record = &matched
		}

		status := resolver.Resolve(in)
		if !resolver.Include(in, status) {
			continue
		}
		if status.Present {
			present++
		}
		items = append(items, buildItem(sc.Person, in, status))
	}

	// People with no schedule entry today but a scan fresh enough to
	// count as present still belong on the display.
	walkIns, err := s.walkIns(ctx, recordsByPerson, onRoster, now, timeout)
	if err != nil {
		return models.Feed{}, err
	}
	present += len(walkIns)
	items = append(items, walkIns...)

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ScheduleStart < items[j].ScheduleStart
	})

	s.metrics.ObserveFeed(start, len(items), present)
	return models.Feed{Items: items, Now: now.Unix()}, nil
}

// walkIns resolves presence-only people: a record but no schedule entry
// today. Only currently-present ones are shown; records whose person no
// longer exists in the directory are orphaned data and skipped silently.
func (s *Service) walkIns(ctx context.Context, recordsByPerson map[uuid.UUID]models.Record, onRoster map[uuid.UUID]bool, now time.Time, timeout time.Duration) ([]models.Item, error) {
	var ids []uuid.UUID
	inputs := make(map[uuid.UUID]resolver.Input)
	statuses := make(map[uuid.UUID]resolver.Status)

	for personID, rec := range recordsByPerson {
		if onRoster[personID] {
			continue
		}
		matched := rec
		in := resolver.Input{Now: now, Record: &matched, Timeout: timeout, Loc: s.loc}
		status := resolver.Resolve(in)
		if !status.Present {
			continue
		}
		ids = append(ids, personID)
		inputs[personID] = in
		statuses[personID] = status
	}
	if len(ids) == 0 {
		return nil, nil
	}
	// Map iteration order is random; keep walk-in ordering stable.
	sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })

	people, err := s.roster.GetPeople(ctx, ids)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "resolve walk-in people")
	}

	items := make([]models.Item, 0, len(people))
	for _, personID := range ids {
		person, ok := people[personID]
		if !ok {
			continue
		}
		items = append(items, buildItem(person, inputs[personID], statuses[personID]))
	}
	return items, nil
}

func buildItem(person rostermodels.Person, in resolver.Input, status resolver.Status) models.Item {
	item := models.Item{
		ID:            person.ID.String(),
		Name:          person.Name,
		Photo:         person.Photo,
		Focus:         person.Focus,
		ScheduleStart: resolver.SortKey(in.Shift),
		Present:       status.Present,
	}
	if in.Shift != nil {
		item.Schedule = resolver.Label(*in.Shift, in.Loc)
	}
	if status.Door != "" {
		door := status.Door
		item.Door = &door
	}
	if status.LastSeen != nil {
		seen := status.LastSeen.Unix()
		item.LastSeen = &seen
		item.LastSeenAgo = resolver.TimeAgo(in.Now, *status.LastSeen, in.Loc)
	}
	return item
}

// RecordScan applies one door scan: an atomic overwrite of the person's
// presence record. Failures surface to the caller; a dropped scan shows
// wrong presence on the display.
func (s *Service) RecordScan(ctx context.Context, personID uuid.UUID, door string, seenAt time.Time) error {
	if personID == uuid.Nil {
		return dErrors.New(dErrors.CodeBadRequest, "person id is required")
	}
	door = strings.TrimSpace(door)
	if door == "" {
		return dErrors.New(dErrors.CodeBadRequest, "door is required")
	}
	if seenAt.IsZero() {
		return dErrors.New(dErrors.CodeBadRequest, "scan timestamp is required")
	}

	rec := models.Record{PersonID: personID, LastSeen: seenAt, Door: door}
	if err := s.records.Upsert(ctx, rec); err != nil {
		s.metrics.IncrementScanFailures()
		return dErrors.Wrap(err, dErrors.CodeInternal, "persist scan")
	}
	s.metrics.IncrementScans()

	s.logger.DebugContext(ctx, "scan recorded",
		"person_id", personID,
		"door", door,
		"last_seen", seenAt.Unix(),
	)
	return nil
}
