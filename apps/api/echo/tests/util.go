package tests

import (
	"bytes"
	"encoding/json"
	"io/ioutil"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/trezcool/mahudhurio/apps/api/echo"
	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/schedule"
	"github.com/trezcool/mahudhurio/core/session"
	"github.com/trezcool/mahudhurio/core/stats"
	"github.com/trezcool/mahudhurio/core/subject"
	"github.com/trezcool/mahudhurio/core/timetable"
	"github.com/trezcool/mahudhurio/services/logger"
	"github.com/trezcool/mahudhurio/storage/database/inmem"
	"github.com/trezcool/mahudhurio/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

// app bundles a test server with direct access to its stores.
type app struct {
	Server   *Server
	conf     *core.Config
	metrics  *Metrics
	today    civil.Date
	subjects subject.Repository
	entries  timetable.Repository
	sessions session.Repository
}

// setup builds a server over an in-memory store where today is 2024-01-01, a Monday.
func setup(t *testing.T) *app {
	conf := core.NewConfig()
	conf.Debug = false
	conf.TestMode = true
	conf.Server.DisableReqLogs = true

	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	a := &app{
		conf:     conf,
		metrics:  NewMetrics(conf.AppName),
		today:    testutil.Date(t, "2024-01-01"),
		subjects: inmemdb.NewSubjectRepository(db),
		entries:  inmemdb.NewTimetableRepository(db),
		sessions: inmemdb.NewSessionRepository(db),
	}
	today := func() civil.Date { return a.today }

	logger := logsvc.NewRollbarLogger(log.New(ioutil.Discard, "", 0), conf)
	logger.Enable(false)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	timetable.InitValidators(validate, translator)
	session.InitValidators(validate, translator)

	generator := schedule.NewGenerator(a.sessions, a.entries, conf.Schedule.HorizonDays)
	generator.Today = today
	generator.OnCreate(a.metrics.SessionCreated)

	subjectSvc := subject.NewService(a.subjects)
	sessionSvc := session.NewService(a.sessions)
	statsSvc := stats.NewService(subjectSvc, sessionSvc)
	statsSvc.Today = today

	a.Server = NewServer(ServerDeps{
		Conf:         conf,
		Logger:       logger,
		Validate:     validate,
		Translator:   translator,
		Metrics:      a.metrics,
		SubjectSvc:   subjectSvc,
		TimetableSvc: timetable.NewService(a.entries, subjectSvc, generator),
		SessionSvc:   sessionSvc,
		StatsSvc:     statsSvc,
		Generator:    generator,
	})
	return a
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func (a *app) do(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	a.Server.ServeHTTP(rec, req)
	return rec
}

func (a *app) run(t *testing.T, tests []httpTest) {
	for _, tt := range tests {
		if tt.method == "" {
			tt.method = http.MethodGet
		}
		if tt.wantCode == 0 {
			tt.wantCode = http.StatusOK
		}

		t.Run(tt.name, func(t *testing.T) {
			rec := a.do(tt.method, tt.path, tt.token, tt.body)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func (a *app) getToken(t *testing.T, owner uuid.UUID) string {
	token, err := GenerateToken(a.conf, NewClaims(a.conf, owner, time.Hour))
	if err != nil {
		t.Fatalf("getToken(): %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj(): %v", err)
	}
	return data
}

func unmarshal(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dest), rec.Body.String())
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
	if tt.wantData != nil {
		assert.JSONEq(t, string(tt.wantData), rec.Body.String())
	}
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
