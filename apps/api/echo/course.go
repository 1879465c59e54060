package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/watas/core/course"
)

type courseApi struct {
	svc      course.Service
	validate *validator.Validate
}

func registerCourseAPI(g *echo.Group, isAdmin echo.MiddlewareFunc, svc course.Service, validate *validator.Validate) {
	api := courseApi{svc: svc, validate: validate}

	g.GET("/courses", api.query)

	ag := g.Group("/admin/courses", isAdmin)
	ag.POST("", api.create)
	ag.PUT("/:id", api.update)
	ag.DELETE("/:id", api.destroy)
}

func (api *courseApi) trapNotFound(err error) error {
	if err == course.ErrNotFound {
		return echo.NewHTTPError(http.StatusNotFound, "Course not found")
	}
	return err
}

func (api *courseApi) query(ctx echo.Context) error {
	courses, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}
	return ctx.JSON(http.StatusOK, courses)
}

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *courseApi) update(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	c, err := api.svc.Update(ctx.Request().Context(), ctx.Param("id"), data)
	if err != nil {
		return errors.Wrap(api.trapNotFound(err), "updating course")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(api.trapNotFound(err), "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}
