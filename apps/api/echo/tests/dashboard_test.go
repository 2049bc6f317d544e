package tests

import (
	"io/ioutil"
	"net/http"
	"strings"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/mahudhurio/core/session"
	"github.com/trezcool/mahudhurio/tests"
)

func Test_dashboardApi_dashboard(t *testing.T) {
	a := setup(t)
	a.today = testutil.Date(t, "2024-01-10") // a Wednesday
	owner := uuid.New()
	token := a.getToken(t, owner)
	maths := testutil.CreateSubject(t, a.subjects, owner, "Maths")
	art := testutil.CreateSubject(t, a.subjects, owner, "Art")
	_ = testutil.CreateSubject(t, a.subjects, uuid.New(), "Foreign")

	s1 := testutil.CreateSession(t, a.sessions, maths, testutil.Date(t, "2024-01-10"), civil.Time{Hour: 14}, session.StatusNotAttended)
	s2 := testutil.CreateSession(t, a.sessions, art, testutil.Date(t, "2024-01-10"), civil.Time{Hour: 9}, session.StatusPresent)
	testutil.CreateSession(t, a.sessions, maths, testutil.Date(t, "2024-01-08"), civil.Time{Hour: 9}, session.StatusPresent)
	testutil.CreateSession(t, a.sessions, maths, testutil.Date(t, "2024-01-05"), civil.Time{Hour: 9}, session.StatusAbsent)
	testutil.CreateSession(t, a.sessions, maths, testutil.Date(t, "2024-01-04"), civil.Time{Hour: 9}, session.StatusCancelled)
	testutil.CreateSession(t, a.sessions, maths, testutil.Date(t, "2023-12-01"), civil.Time{Hour: 9}, session.StatusPresent)

	a.run(t, []httpTest{
		{name: "token required", path: "/v1/dashboard-stats", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "dashboard", path: "/v1/dashboard-stats", token: token,
			wantData: []byte(`{
				"stats": {"percent": 60, "attended": 3, "total": 5},
				"todaySessions": [
					{"id": ` + itoa(s2.ID) + `, "subject": "Art", "time": "09:00 AM - 10:00 AM", "status": "PRESENT"},
					{"id": ` + itoa(s1.ID) + `, "subject": "Maths", "time": "02:00 PM - 03:00 PM", "status": "NOT_ATTENDED"}
				],
				"subjectStats": [
					{"name": "Art", "present": 1, "total": 1, "percent": 100},
					{"name": "Maths", "present": 2, "total": 4, "percent": 50}
				],
				"dailyStats": [
					{"date": "Thu", "fullDate": "2024-01-04", "present": 0, "total": 0},
					{"date": "Fri", "fullDate": "2024-01-05", "present": 0, "total": 1},
					{"date": "Sat", "fullDate": "2024-01-06", "present": 0, "total": 0},
					{"date": "Sun", "fullDate": "2024-01-07", "present": 0, "total": 0},
					{"date": "Mon", "fullDate": "2024-01-08", "present": 1, "total": 1},
					{"date": "Tue", "fullDate": "2024-01-09", "present": 0, "total": 0},
					{"date": "Wed", "fullDate": "2024-01-10", "present": 1, "total": 2}
				]
			}`),
		},
		{
			name: "empty dashboard", path: "/v1/dashboard-stats", token: a.getToken(t, uuid.New()),
			wantCode: http.StatusOK,
		},
	})
}

func Test_dashboardApi_generate(t *testing.T) {
	a := setup(t)
	owner := uuid.New()
	token := a.getToken(t, owner)
	sub := testutil.CreateSubject(t, a.subjects, owner, "Maths")
	testutil.CreateEntry(t, a.entries, sub, 0, testutil.Date(t, "2023-12-01"), nil) // Mondays 01 .. 29
	testutil.CreateEntry(t, a.entries, testutil.CreateSubject(t, a.subjects, uuid.New(), "Foreign"), 1, testutil.Date(t, "2023-12-01"), nil)

	a.run(t, []httpTest{
		{name: "token required", method: http.MethodPost, path: "/v1/generate", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "first run", method: http.MethodPost, path: "/v1/generate", token: token, wantData: []byte(`{"message": "Generated 5 sessions.", "count": 5}`)},
		{name: "idempotent", method: http.MethodPost, path: "/v1/generate", token: token, wantData: []byte(`{"message": "Generated 0 sessions.", "count": 0}`)},
	})

	// a week later the horizon moved by one Monday
	a.today = testutil.Date(t, "2024-01-08")
	a.run(t, []httpTest{
		{name: "next week", method: http.MethodPost, path: "/v1/generate", token: token, wantData: []byte(`{"message": "Generated 1 sessions.", "count": 1}`)},
	})

	rec := a.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := ioutil.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `sessions_generated_total{app="Mahudhurio",status="NOT_ATTENDED"} 6`), string(body))
}
