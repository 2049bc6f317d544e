package inmemdb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core/subject"
)

type subjectRepository struct {
	db *DB
}

func NewSubjectRepository(db *DB) subject.Repository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) CreateSubject(_ context.Context, sub subject.Subject) (subject.Subject, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	sub.ID = repo.db.nextPK()
	repo.db.subjects[sub.ID] = &sub
	return sub, nil
}

func (repo *subjectRepository) QuerySubjects(_ context.Context, owner uuid.UUID) ([]subject.Subject, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	subjects := make([]subject.Subject, 0)
	for _, sub := range repo.db.subjects {
		if sub.OwnerID == owner {
			subjects = append(subjects, *sub)
		}
	}
	sort.Slice(subjects, func(i, j int) bool {
		if subjects[i].Name != subjects[j].Name {
			return subjects[i].Name < subjects[j].Name
		}
		return subjects[i].ID < subjects[j].ID
	})
	return subjects, nil
}

func (repo *subjectRepository) GetSubject(_ context.Context, owner uuid.UUID, id int64) (subject.Subject, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if sub, ok := repo.db.ownedSubject(owner, id); ok {
		return *sub, nil
	}
	return subject.Subject{}, subject.ErrNotFound
}

func (repo *subjectRepository) UpdateSubject(_ context.Context, sub subject.Subject) (subject.Subject, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	orig, ok := repo.db.ownedSubject(sub.OwnerID, sub.ID)
	if !ok {
		return subject.Subject{}, subject.ErrNotFound
	}
	orig.Name = sub.Name
	orig.Color = sub.Color
	return *orig, nil
}

// DeleteSubject also removes the subject's timetable entries and sessions.
func (repo *subjectRepository) DeleteSubject(_ context.Context, owner uuid.UUID, id int64) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.ownedSubject(owner, id); !ok {
		return subject.ErrNotFound
	}
	for eid, e := range repo.db.entries {
		if e.SubjectID == id {
			delete(repo.db.entries, eid)
		}
	}
	for sid, sess := range repo.db.sessions {
		if sess.SubjectID == id {
			delete(repo.db.sessions, sid)
		}
	}
	delete(repo.db.subjects, id)
	return nil
}
