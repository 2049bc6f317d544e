package schedule

import (
	"context"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/session"
	"github.com/trezcool/mahudhurio/core/subject"
	"github.com/trezcool/mahudhurio/core/timetable"
	"github.com/trezcool/mahudhurio/storage/database/inmem"
	"github.com/trezcool/mahudhurio/tests"
)

type fixture struct {
	gen      *Generator
	subjects subject.Repository
	entries  timetable.Repository
	sessions session.Repository
}

func setup(t *testing.T, today string) fixture {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	f := fixture{
		subjects: inmemdb.NewSubjectRepository(db),
		entries:  inmemdb.NewTimetableRepository(db),
		sessions: inmemdb.NewSessionRepository(db),
	}
	day := testutil.Date(t, today)
	f.gen = NewGenerator(f.sessions, f.entries, DefaultHorizon)
	f.gen.Today = func() civil.Date { return day }
	return f
}

func dates(t *testing.T, ss ...string) []civil.Date {
	res := make([]civil.Date, 0, len(ss))
	for _, s := range ss {
		res = append(res, testutil.Date(t, s))
	}
	return res
}

func TestDates(t *testing.T) {
	tests := []struct {
		name       string
		weekday    int
		start, end string
		want       []string
	}{
		{name: "wednesdays", weekday: 2, start: "2024-01-01", end: "2024-01-29", want: []string{"2024-01-03", "2024-01-10", "2024-01-17", "2024-01-24"}},
		{name: "start on weekday", weekday: 0, start: "2024-01-01", end: "2024-01-15", want: []string{"2024-01-01", "2024-01-08", "2024-01-15"}},
		{name: "sunday wraps", weekday: 6, start: "2024-01-01", end: "2024-01-14", want: []string{"2024-01-07", "2024-01-14"}},
		{name: "weekday before start", weekday: 0, start: "2024-01-02", end: "2024-01-07"},
		{name: "single day", weekday: 4, start: "2024-01-05", end: "2024-01-05", want: []string{"2024-01-05"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Dates(tt.weekday, testutil.Date(t, tt.start), testutil.Date(t, tt.end))
			if len(tt.want) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, dates(t, tt.want...), got)
			for _, d := range got {
				assert.Equal(t, tt.weekday, core.Weekday(d))
			}
		})
	}
}

func TestGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	f := setup(t, "2024-01-01") // a Monday
	owner := uuid.New()
	sub := testutil.CreateSubject(t, f.subjects, owner, "Maths")

	t.Run("wednesday window", func(t *testing.T) {
		e := testutil.CreateEntry(t, f.entries, sub, 2, testutil.Date(t, "2024-01-01"), nil)
		n, err := f.gen.Generate(ctx, e)
		require.NoError(t, err)
		assert.Equal(t, 4, n)

		got, err := f.sessions.QuerySessions(ctx, session.QueryFilter{Owner: owner})
		require.NoError(t, err)
		require.Len(t, got, 4)
		for i, want := range dates(t, "2024-01-03", "2024-01-10", "2024-01-17", "2024-01-24") {
			assert.Equal(t, want, got[i].ScheduledDate)
			assert.Equal(t, session.StatusNotAttended, got[i].Status)
			assert.Equal(t, e.StartTime, got[i].StartTime)
			assert.Equal(t, e.EndTime, got[i].EndTime)
			require.NotNil(t, got[i].TimetableEntryID)
			assert.Equal(t, e.ID, *got[i].TimetableEntryID)
		}

		// idempotent for the same day
		n, err = f.gen.Generate(ctx, e)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("status survives regeneration", func(t *testing.T) {
		got, err := f.sessions.QuerySessions(ctx, session.QueryFilter{Owner: owner})
		require.NoError(t, err)
		_, err = f.sessions.UpdateSessionStatus(ctx, owner, got[0].ID, session.StatusPresent)
		require.NoError(t, err)

		e, err := f.entries.GetEntry(ctx, owner, *got[0].TimetableEntryID)
		require.NoError(t, err)
		_, err = f.gen.Generate(ctx, e)
		require.NoError(t, err)

		sess, err := f.sessions.GetSession(ctx, owner, got[0].ID)
		require.NoError(t, err)
		assert.Equal(t, session.StatusPresent, sess.Status)
	})

	t.Run("clamped to end date", func(t *testing.T) {
		end := testutil.Date(t, "2024-01-10")
		e := testutil.CreateEntry(t, f.entries, sub, 1, testutil.Date(t, "2023-12-01"), &end)
		n, err := f.gen.Generate(ctx, e)
		require.NoError(t, err)
		assert.Equal(t, 2, n) // 02 & 09

		got, err := f.sessions.QuerySessions(ctx, session.QueryFilter{Owner: owner, DateTo: &end})
		require.NoError(t, err)
		var tuesdays []civil.Date
		for _, s := range got {
			if core.Weekday(s.ScheduledDate) == 1 {
				tuesdays = append(tuesdays, s.ScheduledDate)
			}
		}
		assert.Equal(t, dates(t, "2024-01-02", "2024-01-09"), tuesdays)
	})

	t.Run("expired entry", func(t *testing.T) {
		end := testutil.Date(t, "2023-12-31")
		e := testutil.CreateEntry(t, f.entries, sub, 4, testutil.Date(t, "2023-12-01"), &end)
		n, err := f.gen.Generate(ctx, e)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})

	t.Run("future start", func(t *testing.T) {
		e := testutil.CreateEntry(t, f.entries, sub, 5, testutil.Date(t, "2024-01-20"), nil)
		n, err := f.gen.Generate(ctx, e)
		require.NoError(t, err)
		assert.Equal(t, 2, n) // 20 & 27; 29 is the horizon
	})

	t.Run("starts after horizon", func(t *testing.T) {
		e := testutil.CreateEntry(t, f.entries, sub, 0, testutil.Date(t, "2024-03-01"), nil)
		n, err := f.gen.Generate(ctx, e)
		require.NoError(t, err)
		assert.Equal(t, 0, n)
	})
}

func TestGenerator_Window(t *testing.T) {
	gen := &Generator{}
	today := testutil.Date(t, "2024-01-01")
	end := testutil.Date(t, "2024-01-10")

	start, last, ok := gen.Window(timetable.Entry{StartDate: testutil.Date(t, "2023-06-01")}, today)
	assert.True(t, ok)
	assert.Equal(t, today, start)
	assert.Equal(t, testutil.Date(t, "2024-01-29"), last)

	_, last, ok = gen.Window(timetable.Entry{StartDate: today, EndDate: &end}, today)
	assert.True(t, ok)
	assert.Equal(t, end, last)

	gen.Horizon = 7
	_, last, _ = gen.Window(timetable.Entry{StartDate: today}, today)
	assert.Equal(t, testutil.Date(t, "2024-01-08"), last)

	_, _, ok = gen.Window(timetable.Entry{StartDate: testutil.Date(t, "2024-02-01")}, today)
	assert.False(t, ok)
}

func TestGenerator_GenerateAll(t *testing.T) {
	ctx := context.Background()
	f := setup(t, "2024-01-01")
	alice, bob := uuid.New(), uuid.New()
	maths := testutil.CreateSubject(t, f.subjects, alice, "Maths")
	art := testutil.CreateSubject(t, f.subjects, bob, "Art")

	testutil.CreateEntry(t, f.entries, maths, 0, testutil.Date(t, "2024-01-01"), nil) // 01 08 15 22 29
	testutil.CreateEntry(t, f.entries, art, 2, testutil.Date(t, "2024-01-01"), nil)   // 03 10 17 24
	manual := testutil.CreateEntry(t, f.entries, maths, 4, testutil.Date(t, "2024-01-01"), nil)
	manual.AutoRenew = false
	_, err := f.entries.UpdateEntry(ctx, alice, manual)
	require.NoError(t, err)

	var observed int
	f.gen.OnCreate(func(session.Session) { observed++ })

	n, err := f.gen.GenerateAll(ctx, &alice)
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	n, err = f.gen.GenerateAll(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, 9, observed)

	n, err = f.gen.GenerateAll(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
