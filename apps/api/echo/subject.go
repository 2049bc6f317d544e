package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/stats"
	"github.com/trezcool/mahudhurio/core/subject"
)

type subjectApi struct {
	svc      *subject.Service
	statsSvc *stats.Service
	validate *validator.Validate
}

func registerSubjectAPI(g *echo.Group, svc *subject.Service, statsSvc *stats.Service, validate *validator.Validate) {
	api := subjectApi{
		svc:      svc,
		statsSvc: statsSvc,
		validate: validate,
	}

	sg := g.Group("/subjects")
	sg.POST("", api.create)
	sg.GET("", api.query)
	sg.GET("/:id", api.retrieve)
	sg.PATCH("/:id", api.update)
	sg.DELETE("/:id", api.destroy)
}

// Handlers

func (api *subjectApi) create(ctx echo.Context) error {
	var data subject.NewSubject
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSubject")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	owner, err := getContextOwner(ctx)
	if err != nil {
		return err
	}
	sub, err := api.svc.Create(ctx.Request().Context(), owner, data)
	if err != nil {
		return errors.Wrap(err, "creating subject")
	}
	summary, err := api.statsSvc.Summarize(ctx.Request().Context(), sub)
	if err != nil {
		return errors.Wrap(err, "summarizing subject")
	}
	return ctx.JSON(http.StatusCreated, summary)
}

func (api *subjectApi) query(ctx echo.Context) error {
	owner, err := getContextOwner(ctx)
	if err != nil {
		return err
	}
	summaries, err := api.statsSvc.Summaries(ctx.Request().Context(), owner)
	if err != nil {
		return errors.Wrap(err, "querying subject summaries")
	}
	return ctx.JSON(http.StatusOK, summaries)
}

func (api *subjectApi) retrieve(ctx echo.Context) error {
	owner, err := getContextOwner(ctx)
	if err != nil {
		return err
	}
	id, err := getParamID(ctx)
	if err != nil {
		return err
	}
	summary, err := api.statsSvc.Summary(ctx.Request().Context(), owner, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (api *subjectApi) update(ctx echo.Context) error {
	owner, err := getContextOwner(ctx)
	if err != nil {
		return err
	}
	id, err := getParamID(ctx)
	if err != nil {
		return err
	}

	var data subject.UpdateSubject
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSubject")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	sub, err := api.svc.Update(ctx.Request().Context(), owner, id, data)
	if err != nil {
		return err
	}
	summary, err := api.statsSvc.Summarize(ctx.Request().Context(), sub)
	if err != nil {
		return errors.Wrap(err, "summarizing subject")
	}
	return ctx.JSON(http.StatusOK, summary)
}

func (api *subjectApi) destroy(ctx echo.Context) error {
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
