package timetable

import (
	"cloud.google.com/go/civil"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core"
)

var Days = []Day{
	{Name: "Monday", Value: 0},
	{Name: "Tuesday", Value: 1},
	{Name: "Wednesday", Value: 2},
	{Name: "Thursday", Value: 3},
	{Name: "Friday", Value: 4},
	{Name: "Saturday", Value: 5},
	{Name: "Sunday", Value: 6},
}

type Day struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Entry is a recurring weekly class slot from which sessions are generated.
type Entry struct {
	ID          int64       `json:"id"`
	SubjectID   int64       `json:"subject_id"`
	SubjectName string      `json:"subject_name"`
	DayOfWeek   int         `json:"day_of_week"` // 0=Monday..6=Sunday
	StartTime   civil.Time  `json:"start_time"`
	EndTime     civil.Time  `json:"end_time"`
	StartDate   civil.Date  `json:"start_date"`
	EndDate     *civil.Date `json:"end_date"`
	AutoRenew   bool        `json:"auto_renew"`
}

// NewEntry contains information needed to create a new Entry.
type NewEntry struct {
	SubjectID int64  `json:"subject_id" validate:"required,min=1"`
	DayOfWeek *int   `json:"day_of_week" validate:"required,min=0,max=6"`
	StartTime string `json:"start_time" validate:"required,clock"`
	EndTime   string `json:"end_time" validate:"required,clock"`
	StartDate string `json:"start_date" validate:"required,isodate"`
	EndDate   string `json:"end_date" validate:"omitempty,isodate"`
	AutoRenew *bool  `json:"auto_renew"`
}

func (ne *NewEntry) Validate(validate *validator.Validate) error {
	ne.StartTime = core.CleanString(ne.StartTime)
	ne.EndTime = core.CleanString(ne.EndTime)
	ne.StartDate = core.CleanString(ne.StartDate)
	ne.EndDate = core.CleanString(ne.EndDate)
	return validate.Struct(ne)
}

// entry converts a validated NewEntry.
func (ne NewEntry) entry() Entry {
	e := Entry{
		SubjectID: ne.SubjectID,
		AutoRenew: true,
	}
	if ne.DayOfWeek != nil {
		e.DayOfWeek = *ne.DayOfWeek
	}
	if ne.AutoRenew != nil {
		e.AutoRenew = *ne.AutoRenew
	}
	e.StartTime, _ = core.ParseClock(ne.StartTime)
	e.EndTime, _ = core.ParseClock(ne.EndTime)
	e.StartDate, _ = core.ParseDate(ne.StartDate)
	if ne.EndDate != "" {
		end, _ := core.ParseDate(ne.EndDate)
		e.EndDate = &end
	}
	return e
}

// UpdateEntry defines what information may be provided to modify an existing Entry.
// An empty EndDate clears the validity end.
type UpdateEntry struct {
	SubjectID *int64  `json:"subject_id" validate:"omitempty,min=1"`
	DayOfWeek *int    `json:"day_of_week" validate:"omitempty,min=0,max=6"`
	StartTime *string `json:"start_time" validate:"omitempty,clock"`
	EndTime   *string `json:"end_time" validate:"omitempty,clock"`
	StartDate *string `json:"start_date" validate:"omitempty,isodate"`
	EndDate   *string `json:"end_date" validate:"omitempty,isodate"`
	AutoRenew *bool   `json:"auto_renew"`

	clearEndDate bool
}

func (ue *UpdateEntry) Validate(validate *validator.Validate) error {
	for _, s := range []*string{ue.StartTime, ue.EndTime, ue.StartDate, ue.EndDate} {
		if s != nil {
			*s = core.CleanString(*s)
		}
	}
	if ue.EndDate != nil && *ue.EndDate == "" {
		ue.EndDate = nil
		ue.clearEndDate = true
	}
	return validate.Struct(ue)
}

// apply merges the provided fields into a validated copy of e.
func (ue UpdateEntry) apply(e Entry) Entry {
	if ue.SubjectID != nil {
		e.SubjectID = *ue.SubjectID
	}
	if ue.DayOfWeek != nil {
		e.DayOfWeek = *ue.DayOfWeek
	}
	if ue.StartTime != nil {
		e.StartTime, _ = core.ParseClock(*ue.StartTime)
	}
	if ue.EndTime != nil {
		e.EndTime, _ = core.ParseClock(*ue.EndTime)
	}
	if ue.StartDate != nil {
		e.StartDate, _ = core.ParseDate(*ue.StartDate)
	}
	if ue.clearEndDate {
		e.EndDate = nil
	} else if ue.EndDate != nil {
		end, _ := core.ParseDate(*ue.EndDate)
		e.EndDate = &end
	}
	if ue.AutoRenew != nil {
		e.AutoRenew = *ue.AutoRenew
	}
	return e
}

// QueryFilter applies AND operation on the set fields. A nil Owner matches every owner.
type QueryFilter struct {
	Owner     *uuid.UUID
	SubjectID int64
	AutoRenew *bool
}
