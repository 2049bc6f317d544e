package sqlxrepos

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/mahudhurio/core"
)

// where accumulates AND-ed conditions with positional postgres arguments.
type where struct {
	conds []string
	args  []interface{}
}

// add appends cond, replacing each "?" with the next positional argument.
func (w *where) add(cond string, args ...interface{}) {
	for _, arg := range args {
		w.args = append(w.args, arg)
		cond = strings.Replace(cond, "?", "$"+strconv.Itoa(len(w.args)), 1)
	}
	w.conds = append(w.conds, cond)
}

func (w *where) String() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

func orderBy(ordering []core.DBOrdering, fallback string) string {
	if len(ordering) == 0 {
		return " ORDER BY " + fallback
	}
	clauses := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		clauses = append(clauses, ord.String())
	}
	return " ORDER BY " + strings.Join(clauses, ", ")
}

// notFound maps a missing row to errNotFound; other errors are wrapped with msg.
func notFound(err, errNotFound error, msg string) error {
	if err == sql.ErrNoRows {
		return errNotFound
	}
	return errors.Wrap(err, msg)
}

// checkAffected reports errNotFound when a write touched no row.
func checkAffected(res sql.Result, errNotFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "reading affected rows")
	}
	if n == 0 {
		return errNotFound
	}
	return nil
}

// Postgres TIME columns are selected as text and DATE columns are scanned as midnight UTC.

func dateOf(t time.Time) civil.Date {
	return civil.DateOf(t.UTC())
}

func clockOf(s string) civil.Time {
	t, _ := civil.ParseTime(s)
	return t
}

func nullDate(d *civil.Date) null.String {
	if d == nil {
		return null.String{}
	}
	return null.StringFrom(d.String())
}

func datePtr(t null.Time) *civil.Date {
	if !t.Valid {
		return nil
	}
	d := dateOf(t.Time)
	return &d
}

func int64Ptr(n null.Int64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}
