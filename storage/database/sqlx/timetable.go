package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/timetable"
)

const entrySelect = `SELECT te.id, te.subject_id, s.name AS subject_name, te.day_of_week,
	te.start_time::text AS start_time, te.end_time::text AS end_time, te.start_date, te.end_date, te.auto_renew
FROM timetable_entry te JOIN subject s ON s.id = te.subject_id`

type entryRow struct {
	ID          int64     `db:"id"`
	SubjectID   int64     `db:"subject_id"`
	SubjectName string    `db:"subject_name"`
	DayOfWeek   int       `db:"day_of_week"`
	StartTime   string    `db:"start_time"`
	EndTime     string    `db:"end_time"`
	StartDate   time.Time `db:"start_date"`
	EndDate     null.Time `db:"end_date"`
	AutoRenew   bool      `db:"auto_renew"`
}

func (row entryRow) entry() timetable.Entry {
	return timetable.Entry{
		ID:          row.ID,
		SubjectID:   row.SubjectID,
		SubjectName: row.SubjectName,
		DayOfWeek:   row.DayOfWeek,
		StartTime:   clockOf(row.StartTime),
		EndTime:     clockOf(row.EndTime),
		StartDate:   dateOf(row.StartDate),
		EndDate:     datePtr(row.EndDate),
		AutoRenew:   row.AutoRenew,
	}
}

type timetableRepository struct {
	db core.DBExecutor
}

func NewTimetableRepository(db core.DBExecutor) timetable.Repository {
	return &timetableRepository{db: db}
}

func (repo *timetableRepository) CreateEntry(ctx context.Context, e timetable.Entry) (timetable.Entry, error) {
	q := `INSERT INTO timetable_entry (subject_id, day_of_week, start_time, end_time, start_date, end_date, auto_renew)
VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	err := repo.db.QueryRowxContext(
		ctx, q,
		e.SubjectID, e.DayOfWeek, e.StartTime.String(), e.EndTime.String(), e.StartDate.String(), nullDate(e.EndDate), e.AutoRenew,
	).Scan(&e.ID)
	if err != nil {
		return timetable.Entry{}, errors.Wrap(err, "inserting timetable entry")
	}
	return e, nil
}

func (repo *timetableRepository) QueryEntries(ctx context.Context, filter timetable.QueryFilter) ([]timetable.Entry, error) {
	var w where
	if filter.Owner != nil {
		w.add("s.user_id = ?", *filter.Owner)
	}
	if filter.SubjectID != 0 {
		w.add("te.subject_id = ?", filter.SubjectID)
	}
	if filter.AutoRenew != nil {
		w.add("te.auto_renew = ?", *filter.AutoRenew)
	}

	var rows []entryRow
	q := entrySelect + w.String() + " ORDER BY te.day_of_week, te.start_time, te.id"
	if err := repo.db.SelectContext(ctx, &rows, q, w.args...); err != nil {
		return nil, errors.Wrap(err, "selecting timetable entries")
	}
	entries := make([]timetable.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, row.entry())
	}
	return entries, nil
}

func (repo *timetableRepository) GetEntry(ctx context.Context, owner uuid.UUID, id int64) (timetable.Entry, error) {
	var row entryRow
	q := entrySelect + " WHERE te.id = $1 AND s.user_id = $2"
	if err := repo.db.GetContext(ctx, &row, q, id, owner); err != nil {
		return timetable.Entry{}, notFound(err, timetable.ErrNotFound, "selecting timetable entry")
	}
	return row.entry(), nil
}

// UpdateEntry only touches entries whose current and new subject both belong to owner.
func (repo *timetableRepository) UpdateEntry(ctx context.Context, owner uuid.UUID, e timetable.Entry) (timetable.Entry, error) {
	q := `UPDATE timetable_entry te
SET subject_id = $1, day_of_week = $2, start_time = $3, end_time = $4, start_date = $5, end_date = $6, auto_renew = $7
FROM subject cur, subject nxt
WHERE te.id = $8 AND cur.id = te.subject_id AND cur.user_id = $9 AND nxt.id = $1 AND nxt.user_id = $9`
	res, err := repo.db.ExecContext(
		ctx, q,
		e.SubjectID, e.DayOfWeek, e.StartTime.String(), e.EndTime.String(), e.StartDate.String(), nullDate(e.EndDate), e.AutoRenew,
		e.ID, owner,
	)
	if err != nil {
		return timetable.Entry{}, errors.Wrap(err, "updating timetable entry")
	}
	if err = checkAffected(res, timetable.ErrNotFound); err != nil {
		return timetable.Entry{}, err
	}
	return repo.GetEntry(ctx, owner, e.ID)
}

// DeleteEntry relies on ON DELETE SET NULL to unlink the entry's sessions.
func (repo *timetableRepository) DeleteEntry(ctx context.Context, owner uuid.UUID, id int64) error {
	q := `DELETE FROM timetable_entry te USING subject s WHERE te.id = $1 AND s.id = te.subject_id AND s.user_id = $2`
	res, err := repo.db.ExecContext(ctx, q, id, owner)
	if err != nil {
		return errors.Wrap(err, "deleting timetable entry")
	}
	return checkAffected(res, timetable.ErrNotFound)
}
