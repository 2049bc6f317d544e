package inmemdb

import (
	"sync"

	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core/session"
	"github.com/trezcool/mahudhurio/core/subject"
	"github.com/trezcool/mahudhurio/core/timetable"
)

type (
	// DB holds every table behind a single lock so that cascades and
	// owner-scoped lookups see a consistent snapshot.
	DB struct {
		mutex sync.RWMutex
		pk    int64

		subjects map[int64]*subject.Subject
		entries  map[int64]*timetable.Entry
		sessions map[int64]*session.Session
	}

	sessionKey struct {
		subjectID int64
		date      string
		start     string
	}
)

func Open() (*DB, error) {
	db := &DB{
		subjects: make(map[int64]*subject.Subject),
		entries:  make(map[int64]*timetable.Entry),
		sessions: make(map[int64]*session.Session),
	}
	return db, nil
}

func (db *DB) nextPK() int64 {
	db.pk++
	return db.pk
}

// ownedSubject must be called with the lock held.
func (db *DB) ownedSubject(owner uuid.UUID, id int64) (*subject.Subject, bool) {
	sub, ok := db.subjects[id]
	if !ok || sub.OwnerID != owner {
		return nil, false
	}
	return sub, true
}

func keyOf(sess session.Session) sessionKey {
	return sessionKey{subjectID: sess.SubjectID, date: sess.ScheduledDate.String(), start: sess.StartTime.String()}
}
