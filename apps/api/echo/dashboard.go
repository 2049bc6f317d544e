package echoapi

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/mahudhurio/core/schedule"
	"github.com/trezcool/mahudhurio/core/stats"
)

type dashboardApi struct {
	statsSvc  *stats.Service
	generator *schedule.Generator
}

type generateResult struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

func registerDashboardAPI(g *echo.Group, statsSvc *stats.Service, generator *schedule.Generator) {
	api := dashboardApi{
		statsSvc:  statsSvc,
		generator: generator,
	}

	g.GET("/dashboard-stats", api.dashboard)
	g.POST("/generate", api.generate)
}

// Handlers

func (api *dashboardApi) dashboard(ctx echo.Context) error {
	owner, err := getContextOwner(ctx)
	if err != nil {
		return err
	}
	dash, err := api.statsSvc.Dashboard(ctx.Request().Context(), owner)
	if err != nil {
		return errors.Wrap(err, "computing dashboard")
	}
	return ctx.JSON(http.StatusOK, dash)
}

// generate extends the sessions of every auto-renew entry of the user.
func (api *dashboardApi) generate(ctx echo.Context) error {
	owner, err := getContextOwner(ctx)
	if err != nil {
		return err
	}
	count, err := api.generator.GenerateAll(ctx.Request().Context(), &owner)
	if err != nil {
		return errors.Wrap(err, "generating sessions")
	}
	return ctx.JSON(http.StatusOK, generateResult{
		Message: fmt.Sprintf("Generated %d sessions.", count),
		Count:   count,
	})
}
