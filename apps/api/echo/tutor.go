package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/watas/core"
	"github.com/trezcool/watas/core/tutor"
)

type tutorApi struct {
	svc      tutor.Service
	validate *validator.Validate
	logger   core.Logger
}

// registerTutorAPI mounts the AI routes. Callers are optionally authenticated: known callers get their usage recorded.
func registerTutorAPI(
	g *echo.Group,
	maybeAuthed echo.MiddlewareFunc,
	isAdmin echo.MiddlewareFunc,
	svc tutor.Service,
	validate *validator.Validate,
	logger core.Logger,
) {
	api := tutorApi{svc: svc, validate: validate, logger: logger}

	ag := g.Group("/ai")
	ag.POST("/chat", api.chat, maybeAuthed)
	ag.POST("/summarize", api.summarize, maybeAuthed)
	ag.POST("/curate-assignment", api.curate, isAdmin)
}

func (api *tutorApi) callerID(ctx echo.Context) string {
	id, _ := getContextIdentity(ctx)
	return id.ID
}

func (api *tutorApi) chat(ctx echo.Context) error {
	if err := api.svc.Ready(); err != nil {
		return err
	}
	var data tutor.ChatRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ChatRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	msg, err := api.svc.Chat(ctx.Request().Context(), api.callerID(ctx), data)
	if err != nil {
		return upstreamError(ctx, api.logger, err, "Failed to get AI response")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": msg})
}

func (api *tutorApi) summarize(ctx echo.Context) error {
	if err := api.svc.Ready(); err != nil {
		return err
	}
	var data tutor.SummarizeRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SummarizeRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	summary, err := api.svc.Summarize(ctx.Request().Context(), api.callerID(ctx), data)
	if err != nil {
		return upstreamError(ctx, api.logger, err, "Failed to generate summary")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"summary": summary})
}

func (api *tutorApi) curate(ctx echo.Context) error {
	if err := api.svc.Ready(); err != nil {
		return err
	}
	var data tutor.CurateRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to CurateRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	res, err := api.svc.Curate(ctx.Request().Context(), data)
	if err != nil {
		return upstreamError(ctx, api.logger, err, "Failed to curate text")
	}
	return ctx.JSON(http.StatusOK, res)
}
