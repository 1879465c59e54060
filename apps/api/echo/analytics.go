package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/watas/core/analytics"
)

type analyticsApi struct {
	svc      analytics.Service
	validate *validator.Validate
}

func registerAnalyticsAPI(g *echo.Group, isAdmin echo.MiddlewareFunc, svc analytics.Service, validate *validator.Validate) {
	api := analyticsApi{svc: svc, validate: validate}

	g.POST("/visits", api.recordVisit)

	ag := g.Group("/admin", isAdmin)
	ag.GET("/visits/stats", api.visitStats)
	ag.GET("/usage", api.usage)
}

func (api *analyticsApi) recordVisit(ctx echo.Context) error {
	var data analytics.NewVisit
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewVisit")
	}
	if data.UserAgent == nil {
		if ua := ctx.Request().UserAgent(); ua != "" {
			data.UserAgent = &ua
		}
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	if _, err := api.svc.RecordVisit(ctx.Request().Context(), data); err != nil {
		return errors.Wrap(err, "recording visit")
	}
	return ctx.JSON(http.StatusCreated, echo.Map{"ok": true})
}

func (api *analyticsApi) visitStats(ctx echo.Context) error {
	stats, err := api.svc.VisitStats(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "computing visit stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *analyticsApi) usage(ctx echo.Context) error {
	summary, err := api.svc.UsageSummary(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "summarizing usage")
	}
	return ctx.JSON(http.StatusOK, summary)
}
