package timetable

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/subject"
)

var (
	ErrNotFound = core.ErrNotFound

	errInvalidSubject = "invalid subject"
)

type (
	// Repository persists timetable entries. Entries are owned through their subject.
	Repository interface {
		CreateEntry(ctx context.Context, e Entry) (Entry, error)
		QueryEntries(ctx context.Context, filter QueryFilter) ([]Entry, error)
		GetEntry(ctx context.Context, owner uuid.UUID, id int64) (Entry, error)
		UpdateEntry(ctx context.Context, owner uuid.UUID, e Entry) (Entry, error)
		// DeleteEntry removes the entry; sessions generated from it are kept but unlinked.
		DeleteEntry(ctx context.Context, owner uuid.UUID, id int64) error
	}

	// Generator materializes the sessions of an entry and returns how many were newly created.
	Generator interface {
		Generate(ctx context.Context, e Entry) (int, error)
	}

	SubjectGetter interface {
		Get(ctx context.Context, owner uuid.UUID, id int64) (subject.Subject, error)
	}

	Service struct {
		repo      Repository
		subjects  SubjectGetter
		generator Generator
	}
)

func NewService(repo Repository, subjects SubjectGetter, generator Generator) *Service {
	return &Service{repo: repo, subjects: subjects, generator: generator}
}

// ownedSubject resolves a subject reference; subjects of other users are a validation error.
func (svc *Service) ownedSubject(ctx context.Context, owner uuid.UUID, id int64) (subject.Subject, error) {
	sub, err := svc.subjects.Get(ctx, owner, id)
	if err != nil {
		if errors.Cause(err) == subject.ErrNotFound {
			return subject.Subject{}, core.NewValidationError(nil, core.FieldError{Field: "subject_id", Error: errInvalidSubject})
		}
		return subject.Subject{}, errors.Wrap(err, "finding subject")
	}
	return sub, nil
}

// Create saves a validated NewEntry and immediately generates its upcoming sessions.
// The number of generated sessions is returned along with the entry.
func (svc *Service) Create(ctx context.Context, owner uuid.UUID, ne NewEntry) (Entry, int, error) {
	sub, err := svc.ownedSubject(ctx, owner, ne.SubjectID)
	if err != nil {
		return Entry{}, 0, err
	}

	e, err := svc.repo.CreateEntry(ctx, ne.entry())
	if err != nil {
		return Entry{}, 0, errors.Wrap(err, "creating timetable entry")
	}
	e.SubjectName = sub.Name

	count, err := svc.generator.Generate(ctx, e)
	if err != nil {
		return e, 0, errors.Wrap(err, "generating sessions")
	}
	return e, count, nil
}

func (svc *Service) Query(ctx context.Context, owner uuid.UUID) ([]Entry, error) {
	entries, err := svc.repo.QueryEntries(ctx, QueryFilter{Owner: &owner})
	return entries, errors.Wrap(err, "querying timetable entries")
}

func (svc *Service) Get(ctx context.Context, owner uuid.UUID, id int64) (Entry, error) {
	return svc.repo.GetEntry(ctx, owner, id)
}

// Update merges a validated UpdateEntry into the stored entry and re-checks its window.
// Already generated sessions are left untouched.
func (svc *Service) Update(ctx context.Context, owner uuid.UUID, id int64, ue UpdateEntry) (Entry, error) {
	e, err := svc.repo.GetEntry(ctx, owner, id)
	if err != nil {
		return Entry{}, err
	}

	e = ue.apply(e)
	if ue.SubjectID != nil {
		sub, err := svc.ownedSubject(ctx, owner, *ue.SubjectID)
		if err != nil {
			return Entry{}, err
		}
		e.SubjectName = sub.Name
	}
	if err = checkWindow(e); err != nil {
		return Entry{}, err
	}

	e, err = svc.repo.UpdateEntry(ctx, owner, e)
	return e, errors.Wrap(err, "updating timetable entry")
}

func (svc *Service) Delete(ctx context.Context, owner uuid.UUID, id int64) error {
	return svc.repo.DeleteEntry(ctx, owner, id)
}
