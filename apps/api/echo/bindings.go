package echoapi

import (
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/session"
)

var (
	orderingParam = "ordering"
	subjectParam  = "subject"
	fromParam     = "from"
	toParam       = "to"
	statusParam   = "status"
)

type Ordering struct {
	Orderings []core.DBOrdering
}

// Bind parses a comma separated list of fields; a leading "-" sorts descending.
func (ord *Ordering) Bind(ctx echo.Context) {
	val := ctx.QueryParam(orderingParam)
	if val == "" {
		return
	}

	for _, field := range strings.Split(val, ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		if field == "" {
			continue
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// sessionQuery binds the query parameters of GET /sessions.
type sessionQuery struct {
	Ordering
	filter session.QueryFilter
}

func (q *sessionQuery) Bind(ctx echo.Context) error {
	var flds []core.FieldError

	if val := strings.TrimSpace(ctx.QueryParam(subjectParam)); val != "" {
		id, err := strconv.ParseInt(val, 10, 64)
		if err != nil || id <= 0 {
			flds = append(flds, core.FieldError{Field: subjectParam, Error: "must be a subject id"})
		}
		q.filter.SubjectID = id
	}
	if val := ctx.QueryParam(fromParam); val != "" {
		d, err := core.ParseDate(val)
		if err != nil {
			flds = append(flds, core.FieldError{Field: fromParam, Error: err.Error()})
		}
		q.filter.DateFrom = &d
	}
	if val := ctx.QueryParam(toParam); val != "" {
		d, err := core.ParseDate(val)
		if err != nil {
			flds = append(flds, core.FieldError{Field: toParam, Error: err.Error()})
		}
		q.filter.DateTo = &d
	}
	for _, val := range ctx.QueryParams()[statusParam] {
		for _, s := range strings.Split(val, ",") {
			status := session.Status(strings.ToUpper(core.CleanString(s)))
			if status == "" {
				continue
			}
			if !status.IsValid() {
				flds = append(flds, core.FieldError{Field: statusParam, Error: "invalid status " + strconv.Quote(s)})
				continue
			}
			q.filter.Statuses = append(q.filter.Statuses, status)
		}
	}

	q.Ordering.Bind(ctx)
	for _, ord := range q.Orderings {
		if !session.OrderingFields[ord.Field] {
			flds = append(flds, core.FieldError{Field: orderingParam, Error: "cannot order by " + strconv.Quote(ord.Field)})
			break
		}
	}
	q.filter.Ordering = q.Orderings

	if flds != nil {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}
