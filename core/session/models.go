package session

import (
	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core"
)

type Status string

const (
	StatusPresent     Status = "PRESENT"
	StatusAbsent      Status = "ABSENT"
	StatusNotAttended Status = "NOT_ATTENDED"
	StatusCancelled   Status = "CANCELLED"
)

var (
	AllStatuses = []Status{StatusPresent, StatusAbsent, StatusNotAttended, StatusCancelled}

	Statuses = []StatusChoice{
		{Name: "Present", Value: StatusPresent},
		{Name: "Absent", Value: StatusAbsent},
		{Name: "Not Attended", Value: StatusNotAttended},
		{Name: "Cancelled", Value: StatusCancelled},
	}
)

func (s Status) IsValid() bool {
	for _, st := range AllStatuses {
		if s == st {
			return true
		}
	}
	return false
}

// Counted reports whether a session with this status counts toward attendance denominators.
func (s Status) Counted() bool {
	return s != StatusCancelled
}

type StatusChoice struct {
	Name  string `json:"name"`
	Value Status `json:"value"`
}

// Session is one concrete, dated occurrence of a class.
// Only the status is mutable once created.
type Session struct {
	ID               int64      `json:"id"`
	SubjectID        int64      `json:"subject"`
	SubjectName      string     `json:"subject_name"`
	TimetableEntryID *int64     `json:"timetable_entry"`
	ScheduledDate    civil.Date `json:"scheduled_date"`
	StartTime        civil.Time `json:"start_time"`
	EndTime          civil.Time `json:"end_time"`
	Status           Status     `json:"status"`
}

// Before orders sessions by (ScheduledDate, StartTime).
func (s Session) Before(other Session) bool {
	if c := core.CompareDate(s.ScheduledDate, other.ScheduledDate); c != 0 {
		return c < 0
	}
	return core.CompareClock(s.StartTime, other.StartTime) < 0
}

// UpdateSession is the only mutation allowed on a Session.
type UpdateSession struct {
	Status Status `json:"status" validate:"required,status"`
}

func (us *UpdateSession) Validate(validate *validator.Validate) error {
	us.Status = Status(core.CleanString(string(us.Status)))
	return validate.Struct(us)
}

// QueryFilter applies AND operation on the set fields. Owner is mandatory.
type QueryFilter struct {
	Owner     uuid.UUID
	SubjectID int64
	DateFrom  *civil.Date
	DateTo    *civil.Date
	Statuses  []Status
	Ordering  []core.DBOrdering // defaults to scheduled_date, start_time
}

// OrderingFields lists the fields sessions may be ordered by.
var OrderingFields = map[string]bool{
	"scheduled_date": true,
	"start_time":     true,
	"status":         true,
	"id":             true,
}
