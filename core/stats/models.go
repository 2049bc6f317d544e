package stats

import (
	"cloud.google.com/go/civil"

	"github.com/trezcool/mahudhurio/core/subject"
)

// Attendance counts attended sessions over the sessions that were not cancelled.
type Attendance struct {
	Percent  float64 `json:"percent"`
	Attended int     `json:"attended"`
	Total    int     `json:"total"`
}

type TodaySession struct {
	ID      int64  `json:"id"`
	Subject string `json:"subject"`
	Time    string `json:"time"` // eg. 09:00 AM - 10:30 AM
	Status  string `json:"status"`
}

type SubjectStat struct {
	Name    string  `json:"name"`
	Present int     `json:"present"`
	Total   int     `json:"total"`
	Percent float64 `json:"percent"`
}

type DailyStat struct {
	Date     string `json:"date"`     // abbreviated weekday; eg. Mon
	FullDate string `json:"fullDate"` // YYYY-MM-DD
	Present  int    `json:"present"`
	Total    int    `json:"total"`
}

type NextClass struct {
	Date civil.Date `json:"date"`
	Time string     `json:"time"` // eg. 09:00 AM
	Day  string     `json:"day"`  // eg. Wednesday
}

// Dashboard gathers the attendance views of one owner.
type Dashboard struct {
	Stats         Attendance     `json:"stats"`
	TodaySessions []TodaySession `json:"todaySessions"`
	SubjectStats  []SubjectStat  `json:"subjectStats"`
	DailyStats    []DailyStat    `json:"dailyStats"`
}

// SubjectSummary is a Subject along with its computed attendance fields.
type SubjectSummary struct {
	subject.Subject
	AttendancePercentage float64     `json:"attendance_percentage"`
	TotalClasses         int         `json:"total_classes"`
	NextClass            *NextClass  `json:"next_class"`
	LastAttended         *civil.Date `json:"last_attended"`
}
