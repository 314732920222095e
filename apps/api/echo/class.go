package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yashshrivastavagit/Aumryx-Teach/core/class"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
)

type classApi struct {
	binder
	svc class.Service
}

func registerClassAPI(g *echo.Group, authed echo.MiddlewareFunc, b binder, svc class.Service) {
	api := classApi{binder: b, svc: svc}

	cg := g.Group("/classes")
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)

	teacherOnly := roleMiddleware(user.RoleTeacher)
	cg.POST("", api.create, authed, teacherOnly)
	cg.PUT("/:id", api.update, authed, teacherOnly)
	cg.DELETE("/:id", api.destroy, authed, teacherOnly)
}

// Handlers

func (api *classApi) query(ctx echo.Context) error {
	query := class.Query{
		TeacherID: ctx.QueryParam("teacher_id"),
		Subject:   ctx.QueryParam("subject"),
		Status:    ctx.QueryParam("status"),
	}
	filter, err := query.Filter()
	if err != nil {
		return err
	}
	classes, err := api.svc.Query(ctx.Request().Context(), filter)
	if err != nil {
		return errors.Wrap(err, "querying classes")
	}
	return ctx.JSON(http.StatusOK, classes)
}

func (api *classApi) retrieve(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "class")
	if err != nil {
		return err
	}
	c, err := api.svc.Get(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding class")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *classApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data class.NewClass
	if err = api.bind(ctx, &data, "NewClass"); err != nil {
		return err
	}

	c, err := api.svc.Create(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "creating class")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *classApi) update(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "class")
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data class.UpdateClass
	if err = api.bind(ctx, &data, "UpdateClass"); err != nil {
		return err
	}

	c, err := api.svc.Update(ctx.Request().Context(), usr, id, data)
	if err != nil {
		return errors.Wrap(err, "updating class")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *classApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "class")
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), usr, id); err != nil {
		return errors.Wrap(err, "deleting class")
	}
	return ctx.NoContent(http.StatusNoContent)
}
