package timetable

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/mahudhurio/core"
)

var (
	timeOrderTag  = "timeorder"
	timeOrderText = "end_time must be after start_time"

	dateOrderTag  = "dateorder"
	dateOrderText = "end_date cannot be before start_date"
)

func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(entryStructValidation, NewEntry{})
	core.RegisterCustomTranslation(validate, translator, timeOrderTag, timeOrderText)
	core.RegisterCustomTranslation(validate, translator, dateOrderTag, dateOrderText)
}

// entryStructValidation checks the time window and validity range of a NewEntry,
// once each field parsed on its own.
func entryStructValidation(sl validator.StructLevel) {
	ne, ok := sl.Current().Interface().(NewEntry)
	if !ok {
		return
	}
	startTime, err1 := core.ParseClock(ne.StartTime)
	endTime, err2 := core.ParseClock(ne.EndTime)
	if err1 == nil && err2 == nil && core.CompareClock(startTime, endTime) >= 0 {
		sl.ReportError(ne.EndTime, "end_time", "EndTime", timeOrderTag, "")
	}
	if ne.EndDate == "" {
		return
	}
	startDate, err1 := core.ParseDate(ne.StartDate)
	endDate, err2 := core.ParseDate(ne.EndDate)
	if err1 == nil && err2 == nil && endDate.Before(startDate) {
		sl.ReportError(ne.EndDate, "end_date", "EndDate", dateOrderTag, "")
	}
}

// checkWindow applies the same rules as entryStructValidation to a merged Entry.
func checkWindow(e Entry) error {
	var flds []core.FieldError
	if core.CompareClock(e.StartTime, e.EndTime) >= 0 {
		flds = append(flds, core.FieldError{Field: "end_time", Error: timeOrderText})
	}
	if e.EndDate != nil && e.EndDate.Before(e.StartDate) {
		flds = append(flds, core.FieldError{Field: "end_date", Error: dateOrderText})
	}
	if flds != nil {
		return core.NewValidationError(nil, flds...)
	}
	return nil
}
