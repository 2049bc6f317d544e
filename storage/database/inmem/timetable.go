package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/timetable"
)

type timetableRepository struct {
	db *DB
}

func NewTimetableRepository(db *DB) timetable.Repository {
	return &timetableRepository{db: db}
}

// ownedEntry must be called with the lock held.
func (repo *timetableRepository) ownedEntry(owner uuid.UUID, id int64) (*timetable.Entry, bool) {
	e, ok := repo.db.entries[id]
	if !ok {
		return nil, false
	}
	if _, ok = repo.db.ownedSubject(owner, e.SubjectID); !ok {
		return nil, false
	}
	return e, true
}

// withSubjectName must be called with the lock held.
func (repo *timetableRepository) withSubjectName(e timetable.Entry) timetable.Entry {
	if sub, ok := repo.db.subjects[e.SubjectID]; ok {
		e.SubjectName = sub.Name
	}
	return copyEntry(e)
}

func copyEntry(e timetable.Entry) timetable.Entry {
	if e.EndDate != nil {
		end := *e.EndDate
		e.EndDate = &end
	}
	return e
}

func (repo *timetableRepository) CreateEntry(_ context.Context, e timetable.Entry) (timetable.Entry, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.subjects[e.SubjectID]; !ok {
		return timetable.Entry{}, timetable.ErrNotFound
	}
	e.ID = repo.db.nextPK()
	e = copyEntry(e)
	repo.db.entries[e.ID] = &e
	return repo.withSubjectName(e), nil
}

func (repo *timetableRepository) QueryEntries(_ context.Context, filter timetable.QueryFilter) ([]timetable.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	entries := make([]timetable.Entry, 0)
	for _, e := range repo.db.entries {
		sub, ok := repo.db.subjects[e.SubjectID]
		if !ok {
			continue
		}
		if filter.Owner != nil && sub.OwnerID != *filter.Owner {
			continue
		}
		if filter.SubjectID != 0 && e.SubjectID != filter.SubjectID {
			continue
		}
		if filter.AutoRenew != nil && e.AutoRenew != *filter.AutoRenew {
			continue
		}
		entries = append(entries, repo.withSubjectName(*e))
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].DayOfWeek != entries[j].DayOfWeek {
			return entries[i].DayOfWeek < entries[j].DayOfWeek
		}
		if c := core.CompareClock(entries[i].StartTime, entries[j].StartTime); c != 0 {
			return c < 0
		}
		return entries[i].ID < entries[j].ID
	})
	return entries, nil
}

func (repo *timetableRepository) GetEntry(_ context.Context, owner uuid.UUID, id int64) (timetable.Entry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if e, ok := repo.ownedEntry(owner, id); ok {
		return repo.withSubjectName(*e), nil
	}
	return timetable.Entry{}, timetable.ErrNotFound
}

func (repo *timetableRepository) UpdateEntry(_ context.Context, owner uuid.UUID, e timetable.Entry) (timetable.Entry, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.ownedEntry(owner, e.ID); !ok {
		return timetable.Entry{}, timetable.ErrNotFound
	}
	if _, ok := repo.db.ownedSubject(owner, e.SubjectID); !ok {
		return timetable.Entry{}, timetable.ErrNotFound
	}
	e = copyEntry(e)
	repo.db.entries[e.ID] = &e
	return repo.withSubjectName(e), nil
}

// DeleteEntry keeps the sessions generated from the entry but unlinks them.
func (repo *timetableRepository) DeleteEntry(_ context.Context, owner uuid.UUID, id int64) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.ownedEntry(owner, id); !ok {
		return timetable.ErrNotFound
	}
	for _, sess := range repo.db.sessions {
		if sess.TimetableEntryID != nil && *sess.TimetableEntryID == id {
			sess.TimetableEntryID = nil
		}
	}
	delete(repo.db.entries, id)
	return nil
}
