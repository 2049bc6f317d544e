package sqlxrepos

import (
	"context"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core/session"
	"github.com/trezcool/mahudhurio/core/subject"
	"github.com/trezcool/mahudhurio/core/timetable"
	"github.com/trezcool/mahudhurio/tests"
)

func TestWhere(t *testing.T) {
	var w where
	assert.Equal(t, "", w.String())

	w.add("a = ?", 1)
	w.add("b BETWEEN ? AND ?", 2, 3)
	w.add("c IS NULL")
	assert.Equal(t, " WHERE a = $1 AND b BETWEEN $2 AND $3 AND c IS NULL", w.String())
	assert.Equal(t, []interface{}{1, 2, 3}, w.args)
}

func TestRepositories_postgres(t *testing.T) {
	db := testutil.PrepareDB(t)
	ctx := context.Background()
	subjects := NewSubjectRepository(db)
	entries := NewTimetableRepository(db)
	sessions := NewSessionRepository(db)

	alice, bob := uuid.New(), uuid.New()
	sub := testutil.CreateSubject(t, subjects, alice, "Maths")
	end := testutil.Date(t, "2024-03-01")
	e := testutil.CreateEntry(t, entries, sub, 2, testutil.Date(t, "2024-01-01"), &end)

	t.Run("entry round trip", func(t *testing.T) {
		got, err := entries.GetEntry(ctx, alice, e.ID)
		require.NoError(t, err)
		assert.Equal(t, "Maths", got.SubjectName)
		assert.Equal(t, civil.Time{Hour: 9}, got.StartTime)
		assert.Equal(t, testutil.Date(t, "2024-01-01"), got.StartDate)
		require.NotNil(t, got.EndDate)
		assert.Equal(t, end, *got.EndDate)

		_, err = entries.GetEntry(ctx, bob, e.ID)
		assert.Equal(t, timetable.ErrNotFound, err)
	})

	t.Run("insert if absent", func(t *testing.T) {
		entryID := e.ID
		sess := session.Session{
			SubjectID: sub.ID, TimetableEntryID: &entryID,
			ScheduledDate: testutil.Date(t, "2024-01-03"), StartTime: e.StartTime, EndTime: e.EndTime,
		}
		first, created, err := sessions.InsertSessionIfAbsent(ctx, sess)
		require.NoError(t, err)
		assert.True(t, created)

		_, err = sessions.UpdateSessionStatus(ctx, alice, first.ID, session.StatusPresent)
		require.NoError(t, err)

		second, created, err := sessions.InsertSessionIfAbsent(ctx, sess)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, session.StatusPresent, second.Status)

		_, err = sessions.GetSession(ctx, bob, first.ID)
		assert.Equal(t, session.ErrNotFound, err)
	})

	t.Run("delete entry unlinks sessions", func(t *testing.T) {
		require.NoError(t, entries.DeleteEntry(ctx, alice, e.ID))
		got, err := sessions.QuerySessions(ctx, session.QueryFilter{Owner: alice})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Nil(t, got[0].TimetableEntryID)
	})

	t.Run("delete subject cascades", func(t *testing.T) {
		assert.Equal(t, subject.ErrNotFound, subjects.DeleteSubject(ctx, bob, sub.ID))
		require.NoError(t, subjects.DeleteSubject(ctx, alice, sub.ID))
		got, err := sessions.QuerySessions(ctx, session.QueryFilter{Owner: alice})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
