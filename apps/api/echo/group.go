package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/watas/core/group"
)

type groupApi struct {
	svc      group.Service
	validate *validator.Validate
}

func registerGroupAPI(g *echo.Group, isAdmin echo.MiddlewareFunc, svc group.Service, validate *validator.Validate) {
	api := groupApi{svc: svc, validate: validate}

	g.GET("/groups", api.query)
	g.PATCH("/admin/groups/:id", api.update, isAdmin)
}

func (api *groupApi) query(ctx echo.Context) error {
	groups, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying groups")
	}
	return ctx.JSON(http.StatusOK, groups)
}

func (api *groupApi) update(ctx echo.Context) error {
	var data group.UpdateGroup
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGroup")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	g, err := api.svc.SetEnabled(ctx.Request().Context(), ctx.Param("id"), *data.Enabled)
	if err != nil {
		if err == group.ErrNotFound {
			return echo.NewHTTPError(http.StatusNotFound, "Group not found")
		}
		return errors.Wrap(err, "updating group")
	}
	return ctx.JSON(http.StatusOK, g)
}
