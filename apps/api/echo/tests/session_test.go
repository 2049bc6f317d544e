package tests

import (
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"cloud.google.com/go/civil"
	"github.com/google/uuid"

	"github.com/trezcool/mahudhurio/core/session"
	"github.com/trezcool/mahudhurio/tests"
)

func Test_sessionApi_query(t *testing.T) {
	a := setup(t)
	owner := uuid.New()
	token := a.getToken(t, owner)
	maths := testutil.CreateSubject(t, a.subjects, owner, "Maths")
	art := testutil.CreateSubject(t, a.subjects, owner, "Art")
	foreign := testutil.CreateSubject(t, a.subjects, uuid.New(), "Foreign")

	nine := civil.Time{Hour: 9}
	s1 := testutil.CreateSession(t, a.sessions, maths, testutil.Date(t, "2024-01-02"), nine, session.StatusPresent)
	s2 := testutil.CreateSession(t, a.sessions, art, testutil.Date(t, "2024-01-03"), nine, session.StatusAbsent)
	s3 := testutil.CreateSession(t, a.sessions, maths, testutil.Date(t, "2024-01-09"), nine, session.StatusNotAttended)
	testutil.CreateSession(t, a.sessions, foreign, testutil.Date(t, "2024-01-02"), nine, session.StatusPresent)

	path := func(params ...string) string {
		v := make(url.Values)
		for i := 0; i+1 < len(params); i += 2 {
			v.Add(params[i], params[i+1])
		}
		return "/v1/sessions?" + v.Encode()
	}
	list := func(ss ...session.Session) []byte {
		if ss == nil {
			ss = []session.Session{}
		}
		return marchallObj(t, ss)
	}
	mathsID := strconv.FormatInt(maths.ID, 10)
	foreignID := strconv.FormatInt(foreign.ID, 10)

	a.run(t, []httpTest{
		{name: "all", path: "/v1/sessions", token: token, wantData: list(s1, s2, s3)},
		{name: "by subject", path: path("subject", mathsID), token: token, wantData: list(s1, s3)},
		{name: "foreign subject", path: path("subject", foreignID), token: token, wantData: list()},
		{name: "date range", path: path("from", "2024-01-03", "to", "2024-01-09"), token: token, wantData: list(s2, s3)},
		{name: "status", path: path("status", "present,absent"), token: token, wantData: list(s1, s2)},
		{name: "ordering", path: path("ordering", "-scheduled_date"), token: token, wantData: list(s3, s2, s1)},
		{
			name: "bad params", path: path("subject", "x", "from", "yesterday", "status", "LATE", "ordering", "password"), token: token,
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{
				"subject": "must be a subject id",
				"from": "invalid date, expected YYYY-MM-DD",
				"status": "invalid status \"LATE\"",
				"ordering": "cannot order by \"password\""
			}`),
		},
	})
}

func Test_sessionApi_update(t *testing.T) {
	a := setup(t)
	owner := uuid.New()
	token := a.getToken(t, owner)
	sub := testutil.CreateSubject(t, a.subjects, owner, "Maths")
	sess := testutil.CreateSession(t, a.sessions, sub, testutil.Date(t, "2024-01-02"), civil.Time{Hour: 9}, session.StatusNotAttended)
	path := "/v1/sessions/" + strconv.FormatInt(sess.ID, 10)

	updated := sess
	updated.Status = session.StatusPresent

	a.run(t, []httpTest{
		{
			name: "status required", method: http.MethodPatch, path: path, token: token, body: []byte(`{}`),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"status": "this field is required"}`),
		},
		{
			name: "invalid status", method: http.MethodPatch, path: path, token: token, body: []byte(`{"status": "LATE"}`),
			wantCode: http.StatusBadRequest,
			wantData: []byte(`{"status": "invalid status; expected one of PRESENT, ABSENT, NOT_ATTENDED, CANCELLED"}`),
		},
		{
			name: "date is immutable", method: http.MethodPatch, path: path, token: token,
			body:     []byte(`{"status": "PRESENT", "scheduled_date": "2024-02-01"}`),
			wantCode: http.StatusBadRequest, wantData: []byte(`{"scheduled_date": "this field cannot be modified"}`),
		},
		{
			name: "not owned", method: http.MethodPatch, path: path, token: a.getToken(t, uuid.New()), body: []byte(`{"status": "PRESENT"}`),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{name: "retrieve before", path: path, token: token, wantData: marchallObj(t, sess)},
		{name: "update", method: http.MethodPatch, path: path, token: token, body: []byte(`{"status": "PRESENT"}`), wantData: marchallObj(t, updated)},
		{name: "retrieve after", path: path, token: token, wantData: marchallObj(t, updated)},
	})
}

func Test_sessionApi_queryStatuses(t *testing.T) {
	a := setup(t)
	a.run(t, []httpTest{
		{
			name: "statuses", path: "/v1/sessions/statuses", token: a.getToken(t, uuid.New()),
			wantData: []byte(`[
				{"name": "Present", "value": "PRESENT"}, {"name": "Absent", "value": "ABSENT"},
				{"name": "Not Attended", "value": "NOT_ATTENDED"}, {"name": "Cancelled", "value": "CANCELLED"}
			]`),
		},
	})
}
