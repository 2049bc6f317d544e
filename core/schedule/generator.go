// Package schedule projects recurring timetable entries forward into dated class sessions.
package schedule

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/session"
	"github.com/trezcool/mahudhurio/core/timetable"
)

// DefaultHorizon is how many days ahead of today sessions are generated.
const DefaultHorizon = 28

type (
	// EntrySource is the part of timetable.Repository the generator reads from.
	EntrySource interface {
		QueryEntries(ctx context.Context, filter timetable.QueryFilter) ([]timetable.Entry, error)
	}

	// Observer is notified of every newly created session.
	Observer func(sess session.Session)

	Generator struct {
		sessions session.Repository
		entries  EntrySource
		observer Observer

		Horizon int               // days ahead of today; DefaultHorizon when <= 0
		Today   func() civil.Date // defaults to core.Today
	}
)

func NewGenerator(sessions session.Repository, entries EntrySource, horizonDays int) *Generator {
	return &Generator{
		sessions: sessions,
		entries:  entries,
		Horizon:  horizonDays,
		Today:    core.Today,
	}
}

func (gen *Generator) OnCreate(obs Observer) {
	gen.observer = obs
}

func (gen *Generator) today() civil.Date {
	if gen.Today == nil {
		return core.Today()
	}
	return gen.Today()
}

func (gen *Generator) horizon() int {
	if gen.Horizon <= 0 {
		return DefaultHorizon
	}
	return gen.Horizon
}

// Window returns the inclusive date range sessions of e are generated for, relative to today.
// ok is false when the range is empty.
func (gen *Generator) Window(e timetable.Entry, today civil.Date) (start, end civil.Date, ok bool) {
	start = core.MaxDate(e.StartDate, today)
	end = today.AddDays(gen.horizon())
	if e.EndDate != nil {
		end = core.MinDate(end, *e.EndDate)
	}
	return start, end, !start.After(end)
}

// Dates returns every date in [start, end] falling on weekday (0=Monday).
func Dates(weekday int, start, end civil.Date) []civil.Date {
	var dates []civil.Date
	cursor := start
	for !cursor.After(end) {
		wd := core.Weekday(cursor)
		if wd == weekday {
			dates = append(dates, cursor)
			cursor = cursor.AddDays(7)
			continue
		}
		cursor = cursor.AddDays((weekday - wd + 7) % 7)
	}
	return dates
}

// Generate creates the missing sessions of e within its window and returns how many were created.
// Existing sessions are never modified, so repeated calls on the same day create nothing.
func (gen *Generator) Generate(ctx context.Context, e timetable.Entry) (int, error) {
	start, end, ok := gen.Window(e, gen.today())
	if !ok {
		return 0, nil
	}

	entryID := e.ID
	var count int
	for _, date := range Dates(e.DayOfWeek, start, end) {
		sess := session.Session{
			SubjectID:        e.SubjectID,
			SubjectName:      e.SubjectName,
			TimetableEntryID: &entryID,
			ScheduledDate:    date,
			StartTime:        e.StartTime,
			EndTime:          e.EndTime,
			Status:           session.StatusNotAttended,
		}
		saved, created, err := gen.sessions.InsertSessionIfAbsent(ctx, sess)
		if err != nil {
			return count, errors.Wrapf(err, "inserting session of entry %d on %s", e.ID, date)
		}
		if created {
			count++
			if gen.observer != nil {
				gen.observer(saved)
			}
		}
	}
	return count, nil
}

// GenerateAll runs Generate over the auto-renew entries of owner (every owner when nil)
// and returns the total number of sessions created.
func (gen *Generator) GenerateAll(ctx context.Context, owner *uuid.UUID) (int, error) {
	autoRenew := true
	entries, err := gen.entries.QueryEntries(ctx, timetable.QueryFilter{Owner: owner, AutoRenew: &autoRenew})
	if err != nil {
		return 0, errors.Wrap(err, "querying auto-renew timetable entries")
	}

	var total int
	for _, e := range entries {
		n, err := gen.Generate(ctx, e)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
