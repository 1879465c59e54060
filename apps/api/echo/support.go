package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/watas/core/support"
)

type supportApi struct {
	svc      support.Service
	validate *validator.Validate
}

func registerSupportAPI(g *echo.Group, isAdmin echo.MiddlewareFunc, svc support.Service, validate *validator.Validate) {
	api := supportApi{svc: svc, validate: validate}

	g.POST("/support-requests", api.create)
	g.GET("/admin/support-requests", api.query, isAdmin)
}

func (api *supportApi) create(ctx echo.Context) error {
	var data support.NewRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	r, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating support request")
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *supportApi) query(ctx echo.Context) error {
	var ord Ordering
	ord.Bind(ctx)

	res, err := api.svc.Query(ctx.Request().Context(), ord.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying support requests")
	}
	return ctx.JSON(http.StatusOK, res)
}
