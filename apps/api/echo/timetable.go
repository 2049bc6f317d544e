package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/timetable"
)

type timetableApi struct {
	svc      *timetable.Service
	validate *validator.Validate
}

type createdEntry struct {
	timetable.Entry
	SessionsGenerated int `json:"sessions_generated"`
}

func registerTimetableAPI(g *echo.Group, svc *timetable.Service, validate *validator.Validate) {
	api := timetableApi{
		svc:      svc,
		validate: validate,
	}

	tg := g.Group("/timetables")
	tg.POST("", api.create)
	tg.GET("", api.query)
	tg.GET("/days", api.queryDays)
	tg.GET("/:id", api.retrieve)
	tg.PATCH("/:id", api.update)
	tg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *timetableApi) create(ctx echo.Context) error {
	var data timetable.NewEntry
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewEntry")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	owner, err := getContextOwner(ctx)
	if err != nil {
		return err
	}
	e, count, err := api.svc.Create(ctx.Request().Context(), owner, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, createdEntry{Entry: e, SessionsGenerated: count})
}

func (api *timetableApi) query(ctx echo.Context) error {
	owner, err := getContextOwner(ctx)
	if err != nil {
		return err
	}
	entries, err := api.svc.Query(ctx.Request().Context(), owner)
	if err != nil {
		return errors.Wrap(err, "querying timetable entries")
	}
	return ctx.JSON(http.StatusOK, entries)
}

func (api *timetableApi) queryDays(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, timetable.Days)
}

func (api *timetableApi) retrieve(ctx echo.Context) error {
	owner, err := getContextOwner(ctx)
	if err != nil {
		return err
	}
	id, err := getParamID(ctx)
	if err != nil {
		return err
	}
	e, err := api.svc.Get(ctx.Request().Context(), owner, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *timetableApi) update(ctx echo.Context) error {
	owner, err := getContextOwner(ctx)
	if err != nil {
		return err
	}
	id, err := getParamID(ctx)
	if err != nil {
		return err
	}

	var data timetable.UpdateEntry
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateEntry")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	e, err := api.svc.Update(ctx.Request().Context(), owner, id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, e)
}

func (api *timetableApi) destroy(ctx echo.Context) error {
	owner, err := getContextOwner(ctx)
	if err != nil {
		return err
	}
	id, err := getParamID(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), owner, id); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}
