// Package calendar renders weekly group timetables as an iCalendar feed with
// one recurring event per lesson slot.
package calendar

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"
)

const (
	productID   = "-//techcollege//portalctl//RU"
	localLayout = "20060102T150405"
)

var (
	ErrInvalidTerm = errors.New("invalid term")
	ErrNoEntries   = errors.New("no lessons to export")
)

// Entry is one lesson slot of a weekly timetable.
type Entry struct {
	Group   string
	Day     string
	Time    string
	Subject string
	Teacher string
	Room    string
}

// Term bounds the recurrence. Start must be a Monday.
type Term struct {
	Start    time.Time
	Weeks    int
	Location *time.Location
}

// Validate checks that the term can anchor a weekly recurrence.
func (t Term) Validate() error {
	if t.Location == nil {
		return fmt.Errorf("%w: location is required", ErrInvalidTerm)
	}
	if t.Weeks < 1 {
		return fmt.Errorf("%w: weeks must be at least 1, got %d", ErrInvalidTerm, t.Weeks)
	}
	if t.Start.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidTerm)
	}
	if t.Start.Weekday() != time.Monday {
		return fmt.Errorf("%w: start must be a Monday, got %s", ErrInvalidTerm, t.Start.Weekday())
	}
	return nil
}

// WeekStart returns midnight of the Monday of the week containing now, in loc.
func WeekStart(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	offset := (int(local.Weekday()) + 6) % 7
	y, m, d := local.Date()
	return time.Date(y, m, d-offset, 0, 0, 0, 0, loc)
}

// Skipped is a lesson left out of the feed and why.
type Skipped struct {
	Entry  Entry
	Reason string
}

// Exporter builds calendars for a fixed term.
type Exporter struct {
	term Term
	name string
	now  func() time.Time
}

type Option func(*Exporter)

// WithName sets the calendar display name.
func WithName(name string) Option {
	return func(e *Exporter) {
		e.name = name
	}
}

// WithClock overrides the DTSTAMP clock.
func WithClock(now func() time.Time) Option {
	return func(e *Exporter) {
		e.now = now
	}
}

// NewExporter validates term and returns an exporter for it.
func NewExporter(term Term, opts ...Option) (*Exporter, error) {
	if err := term.Validate(); err != nil {
		return nil, err
	}
	e := &Exporter{term: term, name: "Расписание", now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Build turns entries into a calendar. Lessons whose day or time cannot be
// read are reported as skipped; a calendar with no events is an error.
func (e *Exporter) Build(entries []Entry) (*ics.Calendar, []Skipped, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName(e.name)
	cal.SetXWRTimezone(e.term.Location.String())

	stamp := e.now()
	tzid := ics.WithTZID(e.term.Location.String())
	rrule := fmt.Sprintf("FREQ=WEEKLY;COUNT=%d", e.term.Weeks)
	var skipped []Skipped
	seen := make(map[string]int, len(entries))
	added := 0
	for _, entry := range entries {
		start, end, reason := e.firstOccurrence(entry)
		if reason != "" {
			skipped = append(skipped, Skipped{Entry: entry, Reason: reason})
			continue
		}
		key := eventKey(entry, start)
		seen[key]++
		if n := seen[key]; n > 1 {
			key = fmt.Sprintf("%s|%d", key, n)
		}
		event := cal.AddEvent(eventID(key))
		event.SetDtStampTime(stamp)
		event.SetProperty(ics.ComponentPropertyDtStart, start.Format(localLayout), tzid)
		event.SetProperty(ics.ComponentPropertyDtEnd, end.Format(localLayout), tzid)
		event.AddRrule(rrule)
		event.SetSummary(entry.Subject)
		if entry.Room != "" {
			event.SetLocation(entry.Room)
		}
		event.SetDescription(describe(entry))
		if entry.Group != "" {
			event.AddCategory(entry.Group)
		}
		added++
	}
	if added == 0 {
		return nil, skipped, ErrNoEntries
	}
	return cal, skipped, nil
}

// Write builds the calendar and serializes it to w.
func (e *Exporter) Write(w io.Writer, entries []Entry) ([]Skipped, error) {
	cal, skipped, err := e.Build(entries)
	if err != nil {
		return skipped, err
	}
	if err := cal.SerializeTo(w); err != nil {
		return skipped, fmt.Errorf("serialize calendar: %w", err)
	}
	return skipped, nil
}

func (e *Exporter) firstOccurrence(entry Entry) (time.Time, time.Time, string) {
	if strings.TrimSpace(entry.Subject) == "" {
		return time.Time{}, time.Time{}, "lesson has no subject"
	}
	offset, ok := ParseDay(entry.Day)
	if !ok {
		return time.Time{}, time.Time{}, fmt.Sprintf("unknown day %q", entry.Day)
	}
	from, to, err := ParseSlot(entry.Time)
	if err != nil {
		return time.Time{}, time.Time{}, err.Error()
	}
	y, m, d := e.term.Start.Date()
	day := time.Date(y, m, d+offset, 0, 0, 0, 0, e.term.Location)
	return day.Add(from), day.Add(to), ""
}

// eventKey identifies a lesson slot. Sub-groups share group, time and subject
// and differ by teacher or room.
func eventKey(entry Entry, start time.Time) string {
	return strings.Join([]string{entry.Group, start.Format(localLayout), entry.Subject, entry.Teacher, entry.Room}, "|")
}

func eventID(key string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String() + "@portalctl"
}

func describe(entry Entry) string {
	var lines []string
	if entry.Group != "" {
		lines = append(lines, "Группа: "+entry.Group)
	}
	if entry.Teacher != "" {
		lines = append(lines, "Преподаватель: "+entry.Teacher)
	}
	return strings.Join(lines, "\n")
}
