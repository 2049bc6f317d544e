package dig_container

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/mahudhurio/apps/api/echo"
	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/schedule"
	"github.com/trezcool/mahudhurio/core/session"
	"github.com/trezcool/mahudhurio/core/stats"
	"github.com/trezcool/mahudhurio/core/subject"
	"github.com/trezcool/mahudhurio/core/timetable"
	logsvc "github.com/trezcool/mahudhurio/services/logger"
	"github.com/trezcool/mahudhurio/storage/database"
	sqlxrepos "github.com/trezcool/mahudhurio/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

type serverParams struct {
	dig.In

	Conf         *core.Config
	Logger       core.Logger
	Validate     *validator.Validate
	Translator   ut.Translator
	Metrics      *echoapi.Metrics
	SubjectSvc   *subject.Service
	TimetableSvc *timetable.Service
	SessionSvc   *session.Service
	StatsSvc     *stats.Service
	Generator    *schedule.Generator
}

func newLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "API : ", log.LstdFlags)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDBLogger(conf *core.Config) core.Logger {
	stdLogger := log.New(os.Stdout, "DB : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(stdLogger, conf)
	logger.Enable(!conf.Debug)
	return logger
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) (*sqlx.DB, core.DBExecutor) {
	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db.DB); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db, db
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

func newMetrics(conf *core.Config) *echoapi.Metrics {
	return echoapi.NewMetrics(conf.AppName)
}

func newGenerator(conf *core.Config, sessions session.Repository, entries timetable.Repository, metrics *echoapi.Metrics) *schedule.Generator {
	g := schedule.NewGenerator(sessions, entries, conf.Schedule.HorizonDays)
	g.OnCreate(metrics.SessionCreated)
	return g
}

func newStatsService(subjects *subject.Service, sessions *session.Service) *stats.Service {
	return stats.NewService(subjects, sessions)
}

func newTimetableService(repo timetable.Repository, subjects *subject.Service, generator *schedule.Generator) *timetable.Service {
	return timetable.NewService(repo, subjects, generator)
}

func newServer(p serverParams) *echoapi.Server {
	return echoapi.NewServer(echoapi.ServerDeps{
		Conf:         p.Conf,
		Logger:       p.Logger,
		Validate:     p.Validate,
		Translator:   p.Translator,
		Metrics:      p.Metrics,
		SubjectSvc:   p.SubjectSvc,
		TimetableSvc: p.TimetableSvc,
		SessionSvc:   p.SessionSvc,
		StatsSvc:     p.StatsSvc,
		Generator:    p.Generator,
	})
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(sqlxrepos.NewSubjectRepository))
	must(c.Provide(sqlxrepos.NewTimetableRepository))
	must(c.Provide(sqlxrepos.NewSessionRepository))
	must(c.Provide(validator.New))
	must(c.Provide(newTranslator))
	must(c.Provide(newMetrics))
	must(c.Provide(subject.NewService))
	must(c.Provide(session.NewService))
	must(c.Provide(newGenerator))
	must(c.Provide(newTimetableService))
	must(c.Provide(newStatsService))
	must(c.Provide(newServer))
	must(c.Provide(echoapi.NewScheduler))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
