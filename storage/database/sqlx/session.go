package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/session"
)

const sessionSelect = `SELECT cs.id, cs.subject_id, s.name AS subject_name, cs.timetable_entry_id, cs.scheduled_date,
	cs.start_time::text AS start_time, cs.end_time::text AS end_time, cs.status
FROM class_session cs JOIN subject s ON s.id = cs.subject_id`

// sessionOrderColumns maps orderable fields to their columns.
var sessionOrderColumns = map[string]string{
	"scheduled_date": "cs.scheduled_date",
	"start_time":     "cs.start_time",
	"status":         "cs.status",
	"id":             "cs.id",
}

type sessionRow struct {
	ID               int64      `db:"id"`
	SubjectID        int64      `db:"subject_id"`
	SubjectName      string     `db:"subject_name"`
	TimetableEntryID null.Int64 `db:"timetable_entry_id"`
	ScheduledDate    time.Time  `db:"scheduled_date"`
	StartTime        string     `db:"start_time"`
	EndTime          string     `db:"end_time"`
	Status           string     `db:"status"`
}

func (row sessionRow) session() session.Session {
	return session.Session{
		ID:               row.ID,
		SubjectID:        row.SubjectID,
		SubjectName:      row.SubjectName,
		TimetableEntryID: int64Ptr(row.TimetableEntryID),
		ScheduledDate:    dateOf(row.ScheduledDate),
		StartTime:        clockOf(row.StartTime),
		EndTime:          clockOf(row.EndTime),
		Status:           session.Status(row.Status),
	}
}

type sessionRepository struct {
	db core.DBExecutor
}

func NewSessionRepository(db core.DBExecutor) session.Repository {
	return &sessionRepository{db: db}
}

// InsertSessionIfAbsent leans on the (subject_id, scheduled_date, start_time) unique index,
// so concurrent generators never create duplicates.
func (repo *sessionRepository) InsertSessionIfAbsent(ctx context.Context, sess session.Session) (session.Session, bool, error) {
	if sess.Status == "" {
		sess.Status = session.StatusNotAttended
	}
	entryID := null.Int64FromPtr(sess.TimetableEntryID)

	q := `INSERT INTO class_session (subject_id, timetable_entry_id, scheduled_date, start_time, end_time, status)
VALUES ($1, $2, $3, $4, $5, $6)
ON CONFLICT (subject_id, scheduled_date, start_time) DO NOTHING
RETURNING id`
	err := repo.db.QueryRowxContext(
		ctx, q,
		sess.SubjectID, entryID, sess.ScheduledDate.String(), sess.StartTime.String(), sess.EndTime.String(), string(sess.Status),
	).Scan(&sess.ID)
	switch {
	case err == nil:
		return sess, true, nil
	case err != sql.ErrNoRows:
		return session.Session{}, false, errors.Wrap(err, "inserting session")
	}

	// conflict: return the existing session untouched
	var row sessionRow
	q = sessionSelect + " WHERE cs.subject_id = $1 AND cs.scheduled_date = $2 AND cs.start_time = $3"
	if err = repo.db.GetContext(ctx, &row, q, sess.SubjectID, sess.ScheduledDate.String(), sess.StartTime.String()); err != nil {
		return session.Session{}, false, notFound(err, session.ErrNotFound, "selecting existing session")
	}
	return row.session(), false, nil
}

func (repo *sessionRepository) QuerySessions(ctx context.Context, filter session.QueryFilter) ([]session.Session, error) {
	var w where
	w.add("s.user_id = ?", filter.Owner)
	if filter.SubjectID != 0 {
		w.add("cs.subject_id = ?", filter.SubjectID)
	}
	if filter.DateFrom != nil {
		w.add("cs.scheduled_date >= ?", filter.DateFrom.String())
	}
	if filter.DateTo != nil {
		w.add("cs.scheduled_date <= ?", filter.DateTo.String())
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, st := range filter.Statuses {
			statuses = append(statuses, string(st))
		}
		w.add("cs.status = ANY(?)", pq.Array(statuses))
	}

	ordering := make([]core.DBOrdering, 0, len(filter.Ordering))
	for _, ord := range filter.Ordering {
		if col, ok := sessionOrderColumns[ord.Field]; ok {
			ordering = append(ordering, core.DBOrdering{Field: col, Ascending: ord.Ascending})
		}
	}

	var rows []sessionRow
	q := sessionSelect + w.String() + orderBy(ordering, "cs.scheduled_date, cs.start_time") + ", cs.id"
	if err := repo.db.SelectContext(ctx, &rows, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "selecting sessions")
	}
	sessions := make([]session.Session, 0, len(rows))
	for _, row := range rows {
		sessions = append(sessions, row.session())
	}
	return sessions, nil
}

func (repo *sessionRepository) GetSession(ctx context.Context, owner uuid.UUID, id int64) (session.Session, error) {
	var row sessionRow
	q := sessionSelect + " WHERE cs.id = $1 AND s.user_id = $2"
	if err := repo.db.GetContext(ctx, &row, q, id, owner); err != nil {
		return session.Session{}, notFound(err, session.ErrNotFound, "selecting session")
	}
	return row.session(), nil
}

func (repo *sessionRepository) UpdateSessionStatus(ctx context.Context, owner uuid.UUID, id int64, status session.Status) (session.Session, error) {
	q := `UPDATE class_session cs SET status = $1 FROM subject s WHERE cs.id = $2 AND s.id = cs.subject_id AND s.user_id = $3`
	res, err := repo.db.ExecContext(ctx, q, string(status), id, owner)
	if err != nil {
		return session.Session{}, errors.Wrap(err, "updating session status")
	}
	if err = checkAffected(res, session.ErrNotFound); err != nil {
		return session.Session{}, err
	}
	return repo.GetSession(ctx, owner, id)
}
