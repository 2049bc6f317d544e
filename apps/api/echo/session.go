package echoapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core"
	"github.com/trezcool/mahudhurio/core/session"
)

type sessionApi struct {
	svc      *session.Service
	validate *validator.Validate
}

func registerSessionAPI(g *echo.Group, svc *session.Service, validate *validator.Validate) {
	api := sessionApi{
		svc:      svc,
		validate: validate,
	}

	sg := g.Group("/sessions")
	sg.GET("", api.query)
	sg.GET("/statuses", api.queryStatuses)
	sg.GET("/:id", api.retrieve)
	sg.PATCH("/:id", api.update)
}

// Handlers

func (api *sessionApi) query(ctx echo.Context) error {
	owner, err := getContextOwner(ctx)
	if err != nil {
		return err
	}

	var q sessionQuery
	if err = q.Bind(ctx); err != nil {
		return err
	}
	q.filter.Owner = owner

	sessions, err := api.svc.Query(ctx.Request().Context(), q.filter)
	if err != nil {
		return errors.Wrap(err, "querying sessions")
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *sessionApi) queryStatuses(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, session.Statuses)
}

func (api *sessionApi) retrieve(ctx echo.Context) error {
	owner, err := getContextOwner(ctx)
	if err != nil {
		return err
	}
	id, err := getParamID(ctx)
	if err != nil {
		return err
	}
	sess, err := api.svc.Get(ctx.Request().Context(), owner, id)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess)
}

// update only accepts a status; the date, times and subject of a session are immutable.
func (api *sessionApi) update(ctx echo.Context) error {
	owner, err := getContextOwner(ctx)
	if err != nil {
		return err
	}
	id, err := getParamID(ctx)
	if err != nil {
		return err
	}

	var data session.UpdateSession
	dec := json.NewDecoder(ctx.Request().Body)
	dec.DisallowUnknownFields()
	if err = dec.Decode(&data); err != nil {
		return core.NewValidationError(nil, decodeFieldError(err))
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	sess, err := api.svc.UpdateStatus(ctx.Request().Context(), owner, id, data)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, sess)
}

// decodeFieldError turns a json decoding error into a field error.
func decodeFieldError(err error) core.FieldError {
	msg := err.Error()
	if strings.HasPrefix(msg, "json: unknown field ") {
		field := strings.Trim(strings.TrimPrefix(msg, "json: unknown field "), `"`)
		return core.FieldError{Field: field, Error: "this field cannot be modified"}
	}
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return core.FieldError{Field: typeErr.Field, Error: "invalid type, expected " + typeErr.Type.String()}
	}
	return core.FieldError{Field: "body", Error: "malformed JSON"}
}
