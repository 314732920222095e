package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yashshrivastavagit/Aumryx-Teach/core/note"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
)

type noteApi struct {
	binder
	svc note.Service
}

func registerNoteAPI(g *echo.Group, authed echo.MiddlewareFunc, b binder, svc note.Service) {
	api := noteApi{binder: b, svc: svc}

	ng := g.Group("/notes")
	ng.GET("/teacher/:id", api.listByTeacher)
	ng.GET("/class/:id", api.listByClass)

	teacherOnly := roleMiddleware(user.RoleTeacher)
	ng.POST("", api.create, authed, teacherOnly)
	ng.PUT("/:id", api.update, authed, teacherOnly)
	ng.DELETE("/:id", api.destroy, authed, teacherOnly)
}

// Handlers

func (api *noteApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data note.NewNote
	if err = api.bind(ctx, &data, "NewNote"); err != nil {
		return err
	}

	n, err := api.svc.Create(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "creating note")
	}
	return ctx.JSON(http.StatusCreated, n)
}

func (api *noteApi) listByTeacher(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "teacher")
	if err != nil {
		return err
	}
	notes, err := api.svc.ListByTeacher(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "listing teacher notes")
	}
	return ctx.JSON(http.StatusOK, notes)
}

func (api *noteApi) listByClass(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "class")
	if err != nil {
		return err
	}
	notes, err := api.svc.ListPublicByClass(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "listing class notes")
	}
	return ctx.JSON(http.StatusOK, notes)
}

func (api *noteApi) update(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "note")
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data note.UpdateNote
	if err = api.bind(ctx, &data, "UpdateNote"); err != nil {
		return err
	}

	n, err := api.svc.Update(ctx.Request().Context(), usr, id, data)
	if err != nil {
		return errors.Wrap(err, "updating note")
	}
	return ctx.JSON(http.StatusOK, n)
}

func (api *noteApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "note")
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), usr, id); err != nil {
		return errors.Wrap(err, "deleting note")
	}
	return ctx.NoContent(http.StatusNoContent)
}
