package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/watas/core/solution"
)

type solutionApi struct {
	validate *validator.Validate
}

func registerSolutionAPI(g *echo.Group, authed echo.MiddlewareFunc, validate *validator.Validate) {
	api := solutionApi{validate: validate}

	g.POST("/solutions/document", api.document, authed)
}

// document renders the exported solution, inline for printing or as an attachment.
func (api *solutionApi) document(ctx echo.Context) error {
	var data solution.Document
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to Document")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	html, err := solution.Render(data)
	if err != nil {
		return errors.Wrap(err, "rendering solution")
	}
	if data.Download {
		ctx.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename="+strconv.Quote(solution.Filename(data.Title)))
	}
	return ctx.HTML(http.StatusOK, html)
}
