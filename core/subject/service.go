package subject

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

var ErrNotFound = core.ErrNotFound

type (
	// Repository persists subjects. Every read and write is scoped to the owner.
	Repository interface {
		CreateSubject(ctx context.Context, sub Subject) (Subject, error)
		QuerySubjects(ctx context.Context, owner uuid.UUID) ([]Subject, error)
		GetSubject(ctx context.Context, owner uuid.UUID, id int64) (Subject, error)
		UpdateSubject(ctx context.Context, sub Subject) (Subject, error)
		// DeleteSubject removes the subject along with its timetable entries and sessions.
		DeleteSubject(ctx context.Context, owner uuid.UUID, id int64) error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ctx context.Context, owner uuid.UUID, ns NewSubject) (Subject, error) {
	color := ns.Color
	if color == "" {
		color = DefaultColor
	}
	sub := Subject{
		Name:      ns.Name,
		OwnerID:   owner,
		Color:     color,
		CreatedAt: core.NowFunc().UTC(),
	}
	sub, err := svc.repo.CreateSubject(ctx, sub)
	return sub, errors.Wrap(err, "creating subject")
}

func (svc *Service) Query(ctx context.Context, owner uuid.UUID) ([]Subject, error) {
	subs, err := svc.repo.QuerySubjects(ctx, owner)
	return subs, errors.Wrap(err, "querying subjects")
}

func (svc *Service) Get(ctx context.Context, owner uuid.UUID, id int64) (Subject, error) {
	return svc.repo.GetSubject(ctx, owner, id)
}

func (svc *Service) Update(ctx context.Context, owner uuid.UUID, id int64, us UpdateSubject) (Subject, error) {
	sub, err := svc.repo.GetSubject(ctx, owner, id)
	if err != nil {
		return Subject{}, err
	}
	return svc.repo.UpdateSubject(ctx, us.apply(sub))
}

func (svc *Service) Delete(ctx context.Context, owner uuid.UUID, id int64) error {
	return svc.repo.DeleteSubject(ctx, owner, id)
}
