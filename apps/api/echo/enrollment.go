package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/enrollment"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
)

type enrollmentApi struct {
	binder
	svc enrollment.Service
}

func registerEnrollmentAPI(g *echo.Group, authed echo.MiddlewareFunc, b binder, svc enrollment.Service) {
	api := enrollmentApi{binder: b, svc: svc}

	eg := g.Group("/enrollments", authed)
	eg.POST("", api.enroll, roleMiddleware(user.RoleStudent))
	eg.GET("/student/:id", api.listForStudent)
	eg.GET("/teacher/:id", api.listForTeacher)
	eg.GET("/:id", api.retrieve)
}

// Handlers

func (api *enrollmentApi) enroll(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data enrollment.NewEnrollment
	if err = api.bind(ctx, &data, "NewEnrollment"); err != nil {
		return err
	}
	classID, err := core.ParseID(data.ClassID, "class")
	if err != nil {
		return err
	}

	e, err := api.svc.Enroll(ctx.Request().Context(), usr, classID)
	if err != nil {
		return errors.Wrap(err, "enrolling")
	}
	return ctx.JSON(http.StatusCreated, e)
}

func (api *enrollmentApi) listForStudent(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "student")
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	enrollments, err := api.svc.ListForStudent(ctx.Request().Context(), usr, id)
	if err != nil {
		return errors.Wrap(err, "listing student enrollments")
	}
	return ctx.JSON(http.StatusOK, enrollments)
}

func (api *enrollmentApi) listForTeacher(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "teacher")
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	enrollments, err := api.svc.ListForTeacher(ctx.Request().Context(), usr, id)
	if err != nil {
		return errors.Wrap(err, "listing teacher enrollments")
	}
	return ctx.JSON(http.StatusOK, enrollments)
}

func (api *enrollmentApi) retrieve(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "enrollment")
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	e, err := api.svc.Get(ctx.Request().Context(), usr, id)
	if err != nil {
		return errors.Wrap(err, "finding enrollment")
	}
	return ctx.JSON(http.StatusOK, e)
}
