// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/session"
	"github.com/trezcool/mahudhurio/core/subject"
	"github.com/trezcool/mahudhurio/core/timetable"
	"github.com/trezcool/mahudhurio/storage/database"
)

// PrepareDB opens a migrated, empty test database named by TEST_DATABASE_NAME.
// The calling test is skipped when the variable is not set.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()

	name := os.Getenv("TEST_DATABASE_NAME")
	if name == "" {
		t.Skip("TEST_DATABASE_NAME not set; skipping database test")
	}
	conf := core.NewConfig()
	conf.Database.Name = name

	if err := database.CreateIfNotExist(conf); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	if err = database.Migrate(db.DB); err != nil {
		t.Fatalf("PrepareDB() failed: %v", err)
	}
	ResetDB(t, db)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// ResetDB empties every table.
func ResetDB(t *testing.T, db *sqlx.DB) {
	t.Helper()
	if _, err := db.Exec("TRUNCATE class_session, timetable_entry, subject RESTART IDENTITY CASCADE"); err != nil {
		t.Fatalf("ResetDB() failed: %v", err)
	}
}

func Date(t *testing.T, s string) civil.Date {
	t.Helper()
	d, err := core.ParseDate(s)
	if err != nil {
		t.Fatalf("Date(%q) failed: %v", s, err)
	}
	return d
}

func Clock(t *testing.T, s string) civil.Time {
	t.Helper()
	c, err := core.ParseClock(s)
	if err != nil {
		t.Fatalf("Clock(%q) failed: %v", s, err)
	}
	return c
}

func CreateSubject(t *testing.T, repo subject.Repository, owner uuid.UUID, name string) subject.Subject {
	t.Helper()
	sub, err := repo.CreateSubject(context.Background(), subject.Subject{
		Name:      name,
		OwnerID:   owner,
		Color:     subject.DefaultColor,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	})
	if err != nil {
		t.Fatalf("CreateSubject() failed: %v", err)
	}
	return sub
}

// CreateEntry saves an auto-renew entry of sub, 09:00-10:00 on weekday, valid from startDate.
func CreateEntry(t *testing.T, repo timetable.Repository, sub subject.Subject, weekday int, startDate civil.Date, endDate *civil.Date) timetable.Entry {
	t.Helper()
	e, err := repo.CreateEntry(context.Background(), timetable.Entry{
		SubjectID:   sub.ID,
		SubjectName: sub.Name,
		DayOfWeek:   weekday,
		StartTime:   civil.Time{Hour: 9},
		EndTime:     civil.Time{Hour: 10},
		StartDate:   startDate,
		EndDate:     endDate,
		AutoRenew:   true,
	})
	if err != nil {
		t.Fatalf("CreateEntry() failed: %v", err)
	}
	return e
}

// CreateSession saves a one-hour session of sub on date starting at start.
func CreateSession(t *testing.T, repo session.Repository, sub subject.Subject, date civil.Date, start civil.Time, status session.Status) session.Session {
	t.Helper()
	sess, created, err := repo.InsertSessionIfAbsent(context.Background(), session.Session{
		SubjectID:     sub.ID,
		SubjectName:   sub.Name,
		ScheduledDate: date,
		StartTime:     start,
		EndTime:       civil.Time{Hour: start.Hour + 1, Minute: start.Minute},
		Status:        status,
	})
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
	if !created {
		t.Fatalf("CreateSession() failed: session of %d on %s at %s already exists", sub.ID, date, start)
	}
	return sess
}
