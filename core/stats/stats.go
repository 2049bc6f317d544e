// Package stats computes attendance views over a set of sessions.
// Every function is pure: the sessions and "today" are explicit inputs.
package stats

import (
	"math"
	"sort"

	"cloud.google.com/go/civil"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/session"
	"github.com/trezcool/mahudhurio/core/subject"
)

// TrendDays is the number of days covered by DailyTrend, today included.
const TrendDays = 7

// Percent returns attended/total as a percentage rounded to one decimal, or 0 when total is 0.
func Percent(attended, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(attended)/float64(total)*1000) / 10
}

// Overall counts every non-cancelled session; only PRESENT ones are attended.
func Overall(sessions []session.Session) Attendance {
	var a Attendance
	for _, s := range sessions {
		if !s.Status.Counted() {
			continue
		}
		a.Total++
		if s.Status == session.StatusPresent {
			a.Attended++
		}
	}
	a.Percent = Percent(a.Attended, a.Total)
	return a
}

// TodaySessions lists the sessions scheduled on today, ordered by start time.
func TodaySessions(sessions []session.Session, today civil.Date) []TodaySession {
	var todays []session.Session
	for _, s := range sessions {
		if s.ScheduledDate == today {
			todays = append(todays, s)
		}
	}
	sort.SliceStable(todays, func(i, j int) bool { return todays[i].Before(todays[j]) })

	res := make([]TodaySession, 0, len(todays))
	for _, s := range todays {
		res = append(res, TodaySession{
			ID:      s.ID,
			Subject: s.SubjectName,
			Time:    core.FormatClock12(s.StartTime) + " - " + core.FormatClock12(s.EndTime),
			Status:  string(s.Status),
		})
	}
	return res
}

// PerSubject computes the Overall figures of each subject, in the order of subjects.
// Subjects without sessions yield zeros.
func PerSubject(subjects []subject.Subject, sessions []session.Session) []SubjectStat {
	bySubject := groupBySubject(sessions)
	res := make([]SubjectStat, 0, len(subjects))
	for _, sub := range subjects {
		a := Overall(bySubject[sub.ID])
		res = append(res, SubjectStat{Name: sub.Name, Present: a.Attended, Total: a.Total, Percent: a.Percent})
	}
	return res
}

// DailyTrend counts sessions of today and the 6 preceding days, oldest first.
func DailyTrend(sessions []session.Session, today civil.Date) []DailyStat {
	first := today.AddDays(-(TrendDays - 1))
	res := make([]DailyStat, TrendDays)
	for i := range res {
		day := first.AddDays(i)
		res[i] = DailyStat{Date: core.WeekdayAbbr(day), FullDate: day.String()}
	}
	for _, s := range sessions {
		if !s.Status.Counted() || s.ScheduledDate.Before(first) || s.ScheduledDate.After(today) {
			continue
		}
		i := s.ScheduledDate.DaysSince(first)
		res[i].Total++
		if s.Status == session.StatusPresent {
			res[i].Present++
		}
	}
	return res
}

// Next returns the earliest session on or after today that is not cancelled.
func Next(sessions []session.Session, today civil.Date) (session.Session, bool) {
	var (
		next  session.Session
		found bool
	)
	for _, s := range sessions {
		if s.Status == session.StatusCancelled || s.ScheduledDate.Before(today) {
			continue
		}
		if !found || s.Before(next) {
			next, found = s, true
		}
	}
	return next, found
}

// LastAttended returns the latest PRESENT session on or before today.
func LastAttended(sessions []session.Session, today civil.Date) (session.Session, bool) {
	var (
		last  session.Session
		found bool
	)
	for _, s := range sessions {
		if s.Status != session.StatusPresent || s.ScheduledDate.After(today) {
			continue
		}
		if !found || last.Before(s) {
			last, found = s, true
		}
	}
	return last, found
}

// Summarize computes the attendance fields of sub from its own sessions.
// TotalClasses counts every session, cancelled ones included.
func Summarize(sub subject.Subject, sessions []session.Session, today civil.Date) SubjectSummary {
	summary := SubjectSummary{
		Subject:              sub,
		AttendancePercentage: Overall(sessions).Percent,
		TotalClasses:         len(sessions),
	}
	if next, ok := Next(sessions, today); ok {
		summary.NextClass = &NextClass{
			Date: next.ScheduledDate,
			Time: core.FormatClock12(next.StartTime),
			Day:  core.WeekdayName(next.ScheduledDate),
		}
	}
	if last, ok := LastAttended(sessions, today); ok {
		d := last.ScheduledDate
		summary.LastAttended = &d
	}
	return summary
}

// Summaries runs Summarize for each subject over its share of sessions.
func Summaries(subjects []subject.Subject, sessions []session.Session, today civil.Date) []SubjectSummary {
	bySubject := groupBySubject(sessions)
	res := make([]SubjectSummary, 0, len(subjects))
	for _, sub := range subjects {
		res = append(res, Summarize(sub, bySubject[sub.ID], today))
	}
	return res
}

// BuildDashboard assembles the four dashboard views.
func BuildDashboard(subjects []subject.Subject, sessions []session.Session, today civil.Date) Dashboard {
	return Dashboard{
		Stats:         Overall(sessions),
		TodaySessions: TodaySessions(sessions, today),
		SubjectStats:  PerSubject(subjects, sessions),
		DailyStats:    DailyTrend(sessions, today),
	}
}

func groupBySubject(sessions []session.Session) map[int64][]session.Session {
	groups := make(map[int64][]session.Session)
	for _, s := range sessions {
		groups[s.SubjectID] = append(groups[s.SubjectID], s)
	}
	return groups
}
