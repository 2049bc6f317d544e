package sqlxrepos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/subject"
)

const subjectColumns = "id, name, user_id, created_at, color_hex"

type subjectRow struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	UserID    uuid.UUID `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	Color     string    `db:"color_hex"`
}

func (row subjectRow) subject() subject.Subject {
	return subject.Subject{
		ID:        row.ID,
		Name:      row.Name,
		OwnerID:   row.UserID,
		Color:     row.Color,
		CreatedAt: row.CreatedAt.UTC(),
	}
}

type subjectRepository struct {
	db core.DBExecutor
}

func NewSubjectRepository(db core.DBExecutor) subject.Repository {
	return &subjectRepository{db: db}
}

func (repo *subjectRepository) CreateSubject(ctx context.Context, sub subject.Subject) (subject.Subject, error) {
	q := `INSERT INTO subject (name, user_id, created_at, color_hex) VALUES ($1, $2, $3, $4) RETURNING id`
	if err := repo.db.QueryRowxContext(ctx, q, sub.Name, sub.OwnerID, sub.CreatedAt, sub.Color).Scan(&sub.ID); err != nil {
		return subject.Subject{}, errors.Wrap(err, "inserting subject")
	}
	return sub, nil
}

func (repo *subjectRepository) QuerySubjects(ctx context.Context, owner uuid.UUID) ([]subject.Subject, error) {
	var rows []subjectRow
	q := `SELECT ` + subjectColumns + ` FROM subject WHERE user_id = $1 ORDER BY name, id`
	if err := repo.db.SelectContext(ctx, &rows, q, owner); err != nil {
		return nil, errors.Wrap(err, "selecting subjects")
	}
	subjects := make([]subject.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, row.subject())
	}
	return subjects, nil
}

func (repo *subjectRepository) GetSubject(ctx context.Context, owner uuid.UUID, id int64) (subject.Subject, error) {
	var row subjectRow
	q := `SELECT ` + subjectColumns + ` FROM subject WHERE id = $1 AND user_id = $2`
	if err := repo.db.GetContext(ctx, &row, q, id, owner); err != nil {
		return subject.Subject{}, notFound(err, subject.ErrNotFound, "selecting subject")
	}
	return row.subject(), nil
}

func (repo *subjectRepository) UpdateSubject(ctx context.Context, sub subject.Subject) (subject.Subject, error) {
	var row subjectRow
	q := `UPDATE subject SET name = $1, color_hex = $2 WHERE id = $3 AND user_id = $4 RETURNING ` + subjectColumns
	if err := repo.db.GetContext(ctx, &row, q, sub.Name, sub.Color, sub.ID, sub.OwnerID); err != nil {
		return subject.Subject{}, notFound(err, subject.ErrNotFound, "updating subject")
	}
	return row.subject(), nil
}

// DeleteSubject relies on ON DELETE CASCADE for the subject's entries and sessions.
func (repo *subjectRepository) DeleteSubject(ctx context.Context, owner uuid.UUID, id int64) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM subject WHERE id = $1 AND user_id = $2`, id, owner)
	if err != nil {
		return errors.Wrap(err, "deleting subject")
	}
	return checkAffected(res, subject.ErrNotFound)
}
