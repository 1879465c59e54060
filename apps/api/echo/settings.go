package echoapi

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	pkgerrors "github.com/pkg/errors"

	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/settings"
)

type settingsApi struct {
	svc      settings.Service
	validate *validator.Validate
	logger   core.Logger
}

func registerSettingsAPI(
	g *echo.Group,
	isAdmin echo.MiddlewareFunc,
	svc settings.Service,
	validate *validator.Validate,
	logger core.Logger,
) {
	api := settingsApi{svc: svc, validate: validate, logger: logger}

	ag := g.Group("/admin/ai-model", isAdmin)
	ag.GET("", api.retrieveModel)
	ag.PATCH("", api.updateModel)
}

func (api *settingsApi) retrieveModel(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, echo.Map{"model": api.svc.ChatModel(ctx.Request().Context())})
}

func (api *settingsApi) updateModel(ctx echo.Context) error {
	var data settings.SetModel
	if err := ctx.Bind(&data); err != nil {
		return pkgerrors.Wrap(err, "binding to SetModel")
	}
	if err := data.Validate(api.validate); err != nil {
		return core.NewValidationError(errors.New(settings.ModelError()))
	}

	if err := api.svc.SetChatModel(ctx.Request().Context(), data.Model); err != nil {
		var verr *core.ValidationError
		if errors.As(err, &verr) {
			return err
		}
		api.logger.Error("saving chat model", pkgerrors.Wrap(err, "saving chat model"), "model", data.Model)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "Failed to save setting")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"model": data.Model})
}
