package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/watas/core/assignment"
	"github.com/trezcool/watas/core/course"
)

type assignmentApi struct {
	svc      assignment.Service
	validate *validator.Validate
}

func registerAssignmentAPI(
	g *echo.Group,
	authed echo.MiddlewareFunc,
	isAdmin echo.MiddlewareFunc,
	svc assignment.Service,
	validate *validator.Validate,
) {
	api := assignmentApi{svc: svc, validate: validate}

	g.GET("/assignments", api.dashboard)

	ag := g.Group("/admin/assignments", isAdmin)
	ag.GET("", api.query)
	ag.POST("", api.create)
	ag.DELETE("/:id", api.destroy)

	// completions of the authenticated student
	cg := g.Group("/me/completions", authed)
	cg.GET("", api.completions)
	cg.PUT("/:assignmentID", api.setCompleted)
}

func (api *assignmentApi) trapNotFound(err error) error {
	switch err {
	case assignment.ErrNotFound:
		return echo.NewHTTPError(http.StatusNotFound, "Assignment not found")
	case course.ErrNotFound:
		return echo.NewHTTPError(http.StatusBadRequest, map[string]string{"course_id": "course not found"})
	}
	return err
}

func (api *assignmentApi) dashboard(ctx echo.Context) error {
	var filter assignment.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	dash, err := api.svc.Dashboard(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "building dashboard")
	}
	return ctx.JSON(http.StatusOK, dash)
}

func (api *assignmentApi) query(ctx echo.Context) error {
	res, err := api.svc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	return ctx.JSON(http.StatusOK, res)
}

func (api *assignmentApi) create(ctx echo.Context) error {
	var data assignment.NewAssignment
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewAssignment")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	a, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(api.trapNotFound(err), "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(api.trapNotFound(err), "deleting assignment")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *assignmentApi) completions(ctx echo.Context) error {
	id, _ := getContextIdentity(ctx)
	ids, err := api.svc.CompletedIDs(ctx.Request().Context(), id.ID)
	if err != nil {
		return errors.Wrap(err, "querying completions")
	}
	return ctx.JSON(http.StatusOK, ids)
}

type completionData struct {
	Completed *bool `json:"completed" validate:"required"`
}

func (api *assignmentApi) setCompleted(ctx echo.Context) error {
	var data completionData
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to completionData")
	}
	if err := api.validate.Struct(data); err != nil {
		return err
	}

	id, _ := getContextIdentity(ctx)
	assignmentID := ctx.Param("assignmentID")
	if err := api.svc.SetCompleted(ctx.Request().Context(), id.ID, assignmentID, *data.Completed); err != nil {
		return errors.Wrap(api.trapNotFound(err), "setting completion")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"assignment_id": assignmentID, "completed": *data.Completed})
}
