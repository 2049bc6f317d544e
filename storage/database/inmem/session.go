package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/session"
)

type sessionRepository struct {
	db *DB
}

func NewSessionRepository(db *DB) session.Repository {
	return &sessionRepository{db: db}
}

// ownedSession must be called with the lock held.
func (repo *sessionRepository) ownedSession(owner uuid.UUID, id int64) (*session.Session, bool) {
	sess, ok := repo.db.sessions[id]
	if !ok {
		return nil, false
	}
	if _, ok = repo.db.ownedSubject(owner, sess.SubjectID); !ok {
		return nil, false
	}
	return sess, true
}

// withSubjectName must be called with the lock held.
func (repo *sessionRepository) withSubjectName(sess session.Session) session.Session {
	if sub, ok := repo.db.subjects[sess.SubjectID]; ok {
		sess.SubjectName = sub.Name
	}
	if sess.TimetableEntryID != nil {
		id := *sess.TimetableEntryID
		sess.TimetableEntryID = &id
	}
	return sess
}

func (repo *sessionRepository) InsertSessionIfAbsent(_ context.Context, sess session.Session) (session.Session, bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.subjects[sess.SubjectID]; !ok {
		return session.Session{}, false, session.ErrNotFound
	}
	key := keyOf(sess)
	for _, existing := range repo.db.sessions {
		if keyOf(*existing) == key {
			return repo.withSubjectName(*existing), false, nil
		}
	}

	sess.ID = repo.db.nextPK()
	if sess.Status == "" {
		sess.Status = session.StatusNotAttended
	}
	repo.db.sessions[sess.ID] = &sess
	return repo.withSubjectName(sess), true, nil
}

func (repo *sessionRepository) QuerySessions(_ context.Context, filter session.QueryFilter) ([]session.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	sessions := make([]session.Session, 0)
	for _, sess := range repo.db.sessions {
		if _, ok := repo.db.ownedSubject(filter.Owner, sess.SubjectID); !ok {
			continue
		}
		if filter.SubjectID != 0 && sess.SubjectID != filter.SubjectID {
			continue
		}
		if filter.DateFrom != nil && sess.ScheduledDate.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && sess.ScheduledDate.After(*filter.DateTo) {
			continue
		}
		if len(filter.Statuses) > 0 && !hasStatus(filter.Statuses, sess.Status) {
			continue
		}
		sessions = append(sessions, repo.withSubjectName(*sess))
	}
	sortSessions(sessions, filter.Ordering)
	return sessions, nil
}

func (repo *sessionRepository) GetSession(_ context.Context, owner uuid.UUID, id int64) (session.Session, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sess, ok := repo.ownedSession(owner, id); ok {
		return repo.withSubjectName(*sess), nil
	}
	return session.Session{}, session.ErrNotFound
}

func (repo *sessionRepository) UpdateSessionStatus(_ context.Context, owner uuid.UUID, id int64, status session.Status) (session.Session, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	sess, ok := repo.ownedSession(owner, id)
	if !ok {
		return session.Session{}, session.ErrNotFound
	}
	sess.Status = status
	return repo.withSubjectName(*sess), nil
}

func hasStatus(statuses []session.Status, status session.Status) bool {
	for _, s := range statuses {
		if s == status {
			return true
		}
	}
	return false
}

// sortSessions mirrors the SQL ORDER BY; the default is chronological.
func sortSessions(sessions []session.Session, ordering []core.DBOrdering) {
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "scheduled_date", Ascending: true}, {Field: "start_time", Ascending: true}}
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		a, b := sessions[i], sessions[j]
		for _, ord := range ordering {
			var c int
			switch ord.Field {
			case "scheduled_date":
				c = core.CompareDate(a.ScheduledDate, b.ScheduledDate)
			case "start_time":
				c = core.CompareClock(a.StartTime, b.StartTime)
			case "status":
				c = compareStrings(string(a.Status), string(b.Status))
			case "id":
				c = compareInts(a.ID, b.ID)
			}
			if c == 0 {
				continue
			}
			if ord.Ascending {
				return c < 0
			}
			return c > 0
		}
		return a.ID < b.ID
	})
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInts(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
