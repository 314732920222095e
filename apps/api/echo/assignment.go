package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yashshrivastavagit/Aumryx-Teach/core/assignment"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
)

type assignmentApi struct {
	binder
	svc assignment.Service
}

func registerAssignmentAPI(g *echo.Group, authed echo.MiddlewareFunc, b binder, svc assignment.Service) {
	api := assignmentApi{binder: b, svc: svc}

	ag := g.Group("/assignments", authed)
	ag.GET("/class/:id", api.listByClass)
	ag.GET("/teacher/:id", api.listByTeacher)

	teacherOnly := roleMiddleware(user.RoleTeacher)
	ag.POST("", api.create, teacherOnly)
	ag.PUT("/:id", api.update, teacherOnly)
	ag.DELETE("/:id", api.destroy, teacherOnly)
}

// Handlers

func (api *assignmentApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data assignment.NewAssignment
	if err = api.bind(ctx, &data, "NewAssignment"); err != nil {
		return err
	}

	a, err := api.svc.Create(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, a)
}

func (api *assignmentApi) listByClass(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "class")
	if err != nil {
		return err
	}
	assignments, err := api.svc.ListByClass(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "listing class assignments")
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *assignmentApi) listByTeacher(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "teacher")
	if err != nil {
		return err
	}
	assignments, err := api.svc.ListByTeacher(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "listing teacher assignments")
	}
	return ctx.JSON(http.StatusOK, assignments)
}

func (api *assignmentApi) update(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "assignment")
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data assignment.UpdateAssignment
	if err = api.bind(ctx, &data, "UpdateAssignment"); err != nil {
		return err
	}

	a, err := api.svc.Update(ctx.Request().Context(), usr, id, data)
	if err != nil {
		return errors.Wrap(err, "updating assignment")
	}
	return ctx.JSON(http.StatusOK, a)
}

func (api *assignmentApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "assignment")
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), usr, id); err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	return ctx.NoContent(http.StatusNoContent)
}
