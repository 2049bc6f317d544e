package session

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
)

var ErrNotFound = core.ErrNotFound

type (
	// Repository is the session store.
	Repository interface {
		// InsertSessionIfAbsent inserts sess unless a session already exists for
		// (SubjectID, ScheduledDate, StartTime). The existing session is never modified.
		// created reports whether a new row was written.
		InsertSessionIfAbsent(ctx context.Context, sess Session) (saved Session, created bool, err error)
		QuerySessions(ctx context.Context, filter QueryFilter) ([]Session, error)
		GetSession(ctx context.Context, owner uuid.UUID, id int64) (Session, error)
		UpdateSessionStatus(ctx context.Context, owner uuid.UUID, id int64, status Status) (Session, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Session, error) {
	sessions, err := svc.repo.QuerySessions(ctx, filter)
	return sessions, errors.Wrap(err, "querying sessions")
}

func (svc *Service) Get(ctx context.Context, owner uuid.UUID, id int64) (Session, error) {
	return svc.repo.GetSession(ctx, owner, id)
}

func (svc *Service) UpdateStatus(ctx context.Context, owner uuid.UUID, id int64, us UpdateSession) (Session, error) {
	if !us.Status.IsValid() {
		return Session{}, core.NewValidationError(nil, core.FieldError{Field: "status", Error: statusText})
	}
	return svc.repo.UpdateSessionStatus(ctx, owner, id, us.Status)
}
