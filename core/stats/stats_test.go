package stats

import (
	"encoding/json"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core/session"
	"github.com/trezcool/mahudhurio/core/subject"
	"github.com/trezcool/mahudhurio/tests"
)

var pk int64

func newSession(t *testing.T, sub subject.Subject, date string, hour int, status session.Status) session.Session {
	pk++
	return session.Session{
		ID:            pk,
		SubjectID:     sub.ID,
		SubjectName:   sub.Name,
		ScheduledDate: testutil.Date(t, date),
		StartTime:     civil.Time{Hour: hour},
		EndTime:       civil.Time{Hour: hour + 1, Minute: 30},
		Status:        status,
	}
}

func repeat(t *testing.T, sub subject.Subject, n int, status session.Status) []session.Session {
	var res []session.Session
	for i := 0; i < n; i++ {
		res = append(res, newSession(t, sub, "2024-01-01", 8+i, status))
	}
	return res
}

func TestPercent(t *testing.T) {
	tests := []struct {
		attended, total int
		want            float64
	}{
		{6, 9, 66.7},
		{1, 3, 33.3},
		{1, 8, 12.5},
		{0, 5, 0},
		{5, 5, 100},
		{0, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Percent(tt.attended, tt.total), "Percent(%d, %d)", tt.attended, tt.total)
	}
}

func TestOverall(t *testing.T) {
	maths := subject.Subject{ID: 1, Name: "Maths"}

	var sessions []session.Session
	sessions = append(sessions, repeat(t, maths, 6, session.StatusPresent)...)
	sessions = append(sessions, repeat(t, maths, 2, session.StatusAbsent)...)
	sessions = append(sessions, repeat(t, maths, 1, session.StatusNotAttended)...)
	sessions = append(sessions, repeat(t, maths, 1, session.StatusCancelled)...)

	assert.Equal(t, Attendance{Percent: 66.7, Attended: 6, Total: 9}, Overall(sessions))
	assert.Equal(t, Attendance{}, Overall(repeat(t, maths, 3, session.StatusCancelled)))
	assert.Equal(t, Attendance{}, Overall(nil))
}

func TestPerSubject(t *testing.T) {
	maths := subject.Subject{ID: 1, Name: "Maths"}
	art := subject.Subject{ID: 2, Name: "Art"}
	empty := subject.Subject{ID: 3, Name: "Empty"}

	sessions := append(repeat(t, maths, 3, session.StatusPresent), repeat(t, maths, 1, session.StatusAbsent)...)
	sessions = append(sessions, repeat(t, art, 2, session.StatusCancelled)...)

	got := PerSubject([]subject.Subject{maths, art, empty}, sessions)
	assert.Equal(t, []SubjectStat{
		{Name: "Maths", Present: 3, Total: 4, Percent: 75},
		{Name: "Art"},
		{Name: "Empty"},
	}, got)
}

func TestTodaySessions(t *testing.T) {
	maths := subject.Subject{ID: 1, Name: "Maths"}
	today := testutil.Date(t, "2024-01-10")

	late := newSession(t, maths, "2024-01-10", 14, session.StatusNotAttended)
	early := newSession(t, maths, "2024-01-10", 9, session.StatusPresent)
	other := newSession(t, maths, "2024-01-11", 9, session.StatusPresent)

	got := TodaySessions([]session.Session{late, other, early}, today)
	assert.Equal(t, []TodaySession{
		{ID: early.ID, Subject: "Maths", Time: "09:00 AM - 10:30 AM", Status: "PRESENT"},
		{ID: late.ID, Subject: "Maths", Time: "02:00 PM - 03:30 PM", Status: "NOT_ATTENDED"},
	}, got)
	assert.Empty(t, TodaySessions(nil, today))
}

func TestDailyTrend(t *testing.T) {
	maths := subject.Subject{ID: 1, Name: "Maths"}
	today := testutil.Date(t, "2024-01-10") // a Wednesday

	sessions := []session.Session{
		newSession(t, maths, "2024-01-03", 9, session.StatusPresent), // too old
		newSession(t, maths, "2024-01-04", 9, session.StatusPresent),
		newSession(t, maths, "2024-01-04", 11, session.StatusAbsent),
		newSession(t, maths, "2024-01-08", 9, session.StatusCancelled),
		newSession(t, maths, "2024-01-10", 9, session.StatusNotAttended),
		newSession(t, maths, "2024-01-11", 9, session.StatusPresent), // future
	}

	got := DailyTrend(sessions, today)
	require.Len(t, got, TrendDays)
	assert.Equal(t, []DailyStat{
		{Date: "Thu", FullDate: "2024-01-04", Present: 1, Total: 2},
		{Date: "Fri", FullDate: "2024-01-05"},
		{Date: "Sat", FullDate: "2024-01-06"},
		{Date: "Sun", FullDate: "2024-01-07"},
		{Date: "Mon", FullDate: "2024-01-08"},
		{Date: "Tue", FullDate: "2024-01-09"},
		{Date: "Wed", FullDate: "2024-01-10", Total: 1},
	}, got)
}

func TestSummarize(t *testing.T) {
	maths := subject.Subject{ID: 1, Name: "Maths"}
	today := testutil.Date(t, "2024-01-15")

	sessions := []session.Session{
		newSession(t, maths, "2024-01-25", 9, session.StatusCancelled),
		newSession(t, maths, "2024-01-20", 9, session.StatusNotAttended),
		newSession(t, maths, "2024-01-10", 9, session.StatusPresent),
		newSession(t, maths, "2024-01-05", 9, session.StatusPresent),
	}

	got := Summarize(maths, sessions, today)
	assert.Equal(t, 66.7, got.AttendancePercentage)
	assert.Equal(t, 4, got.TotalClasses)
	require.NotNil(t, got.NextClass)
	assert.Equal(t, NextClass{Date: testutil.Date(t, "2024-01-20"), Time: "09:00 AM", Day: "Saturday"}, *got.NextClass)
	require.NotNil(t, got.LastAttended)
	assert.Equal(t, testutil.Date(t, "2024-01-10"), *got.LastAttended)

	t.Run("same day picks by start time", func(t *testing.T) {
		sessions := []session.Session{
			newSession(t, maths, "2024-01-15", 14, session.StatusPresent),
			newSession(t, maths, "2024-01-15", 9, session.StatusPresent),
		}
		next, ok := Next(sessions, today)
		require.True(t, ok)
		assert.Equal(t, 9, next.StartTime.Hour)
		last, ok := LastAttended(sessions, today)
		require.True(t, ok)
		assert.Equal(t, 14, last.StartTime.Hour)
	})

	t.Run("nothing upcoming nor attended", func(t *testing.T) {
		got := Summarize(maths, []session.Session{newSession(t, maths, "2024-01-20", 9, session.StatusCancelled)}, today)
		assert.Nil(t, got.NextClass)
		assert.Nil(t, got.LastAttended)
		assert.Equal(t, float64(0), got.AttendancePercentage)
		assert.Equal(t, 1, got.TotalClasses)
	})
}

func TestSubjectSummary_json(t *testing.T) {
	sum := SubjectSummary{Subject: subject.Subject{ID: 7, Name: "Maths", Color: "#FFFFFF"}, TotalClasses: 2}
	data, err := json.Marshal(sum)
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, float64(7), got["id"])
	assert.Equal(t, "Maths", got["name"])
	assert.Equal(t, "#FFFFFF", got["color_hex"])
	assert.Equal(t, float64(2), got["total_classes"])
	assert.Nil(t, got["next_class"])
	assert.Nil(t, got["last_attended"])
	assert.NotContains(t, got, "OwnerID")
}
