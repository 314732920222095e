package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yashshrivastavagit/Aumryx-Teach/core/attendance"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
)

type attendanceApi struct {
	binder
	svc attendance.Service
}

func registerAttendanceAPI(g *echo.Group, authed echo.MiddlewareFunc, b binder, svc attendance.Service) {
	api := attendanceApi{binder: b, svc: svc}

	ag := g.Group("/attendance", authed)
	ag.POST("", api.mark, roleMiddleware(user.RoleTeacher))
	ag.GET("/class/:id", api.listByClass)
	ag.GET("/student/:id", api.listByStudent)
}

// Handlers

func (api *attendanceApi) mark(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data attendance.NewRecord
	if err = api.bind(ctx, &data, "NewRecord"); err != nil {
		return err
	}

	rec, err := api.svc.Mark(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusCreated, rec)
}

func (api *attendanceApi) listByClass(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "class")
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	records, err := api.svc.ListByClass(ctx.Request().Context(), usr, id)
	if err != nil {
		return errors.Wrap(err, "listing class attendance")
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *attendanceApi) listByStudent(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "student")
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	records, err := api.svc.ListByStudent(ctx.Request().Context(), usr, id)
	if err != nil {
		return errors.Wrap(err, "listing student attendance")
	}
	return ctx.JSON(http.StatusOK, records)
}
