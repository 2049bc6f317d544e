package stats

import (
	"context"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/session"
	"github.com/trezcool/mahudhurio/core/subject"
)

type (
	SubjectSource interface {
		Query(ctx context.Context, owner uuid.UUID) ([]subject.Subject, error)
		Get(ctx context.Context, owner uuid.UUID, id int64) (subject.Subject, error)
	}

	SessionSource interface {
		Query(ctx context.Context, filter session.QueryFilter) ([]session.Session, error)
	}

	// Service loads an owner's records and runs the attendance computations over them.
	Service struct {
		subjects SubjectSource
		sessions SessionSource

		Today func() civil.Date // defaults to core.Today
	}
)

func NewService(subjects SubjectSource, sessions SessionSource) *Service {
	return &Service{subjects: subjects, sessions: sessions, Today: core.Today}
}

func (svc *Service) today() civil.Date {
	if svc.Today == nil {
		return core.Today()
	}
	return svc.Today()
}

func (svc *Service) Dashboard(ctx context.Context, owner uuid.UUID) (Dashboard, error) {
	subjects, err := svc.subjects.Query(ctx, owner)
	if err != nil {
		return Dashboard{}, err
	}
	sessions, err := svc.sessions.Query(ctx, session.QueryFilter{Owner: owner})
	if err != nil {
		return Dashboard{}, err
	}
	return BuildDashboard(subjects, sessions, svc.today()), nil
}

func (svc *Service) Summaries(ctx context.Context, owner uuid.UUID) ([]SubjectSummary, error) {
	subjects, err := svc.subjects.Query(ctx, owner)
	if err != nil {
		return nil, err
	}
	sessions, err := svc.sessions.Query(ctx, session.QueryFilter{Owner: owner})
	if err != nil {
		return nil, err
	}
	return Summaries(subjects, sessions, svc.today()), nil
}

func (svc *Service) Summary(ctx context.Context, owner uuid.UUID, id int64) (SubjectSummary, error) {
	sub, err := svc.subjects.Get(ctx, owner, id)
	if err != nil {
		return SubjectSummary{}, err
	}
	return svc.Summarize(ctx, sub)
}

// Summarize computes the summary of an already loaded subject.
func (svc *Service) Summarize(ctx context.Context, sub subject.Subject) (SubjectSummary, error) {
	sessions, err := svc.sessions.Query(ctx, session.QueryFilter{Owner: sub.OwnerID, SubjectID: sub.ID})
	if err != nil {
		return SubjectSummary{}, errors.Wrapf(err, "querying sessions of subject %d", sub.ID)
	}
	return Summarize(sub, sessions, svc.today()), nil
}
