package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// ownerMiddleware rejects tokens whose subject is not a user UUID.
func ownerMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if _, err := getContextOwner(ctx); err != nil {
			return err
		}
		return next(ctx)
	}
}

// getParamID parses the :id path parameter. Malformed ids can match no record.
func getParamID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errHttpNotFound
	}
	return id, nil
}
