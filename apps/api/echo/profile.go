package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/watas/core/profile"
)

var errProfileNotFound = echo.NewHTTPError(http.StatusNotFound, "Profile not found")

type profileApi struct {
	svc      profile.Service
	validate *validator.Validate
}

func registerProfileAPI(
	g *echo.Group,
	authed echo.MiddlewareFunc,
	isAdmin echo.MiddlewareFunc,
	svc profile.Service,
	validate *validator.Validate,
) {
	api := profileApi{svc: svc, validate: validate}

	mg := g.Group("/me/profile", authed)
	mg.GET("", api.retrieve)
	mg.PUT("", api.save)

	ag := g.Group("/admin/profiles", isAdmin)
	ag.GET("", api.query)
	ag.PATCH("/:id/pro", api.setPro)
}

func (api *profileApi) retrieve(ctx echo.Context) error {
	id, _ := getContextIdentity(ctx)
	p, err := api.svc.Get(ctx.Request().Context(), id.ID)
	if err != nil {
		if err == profile.ErrNotFound {
			return errProfileNotFound
		}
		return errors.Wrap(err, "getting profile")
	}
	return ctx.JSON(http.StatusOK, profile.WithEmail{Profile: p, Email: id.Email})
}

func (api *profileApi) save(ctx echo.Context) error {
	var data profile.UpdateProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	id, _ := getContextIdentity(ctx)
	p, err := api.svc.Save(ctx.Request().Context(), id.ID, data)
	if err != nil {
		return errors.Wrap(err, "saving profile")
	}
	return ctx.JSON(http.StatusOK, profile.WithEmail{Profile: p, Email: id.Email})
}

func (api *profileApi) query(ctx echo.Context) error {
	res, err := api.svc.QueryWithEmails(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying profiles")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *profileApi) setPro(ctx echo.Context) error {
	var data profile.SetPro
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetPro")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	p, err := api.svc.SetPro(ctx.Request().Context(), ctx.Param("id"), *data.IsPro)
	if err != nil {
		if err == profile.ErrNotFound {
			return errProfileNotFound
		}
		return errors.Wrap(err, "setting PRO")
	}
	return ctx.JSON(http.StatusOK, p)
}
