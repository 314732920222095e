package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yashshrivastavagit/Aumryx-Teach/core/analytics"
)

type analyticsApi struct {
	svc analytics.Service
}

func registerAnalyticsAPI(g *echo.Group, authed echo.MiddlewareFunc, svc analytics.Service) {
	api := analyticsApi{svc: svc}

	ag := g.Group("/analytics", authed)
	ag.GET("/teacher/:id", api.teacher)
	ag.GET("/student/:id", api.student)
	ag.GET("/earnings/:id", api.earnings)
}

// Handlers

func (api *analyticsApi) teacher(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "teacher")
	if err != nil {
		return err
	}
	stats, err := api.svc.Teacher(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "computing teacher stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *analyticsApi) student(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "student")
	if err != nil {
		return err
	}
	stats, err := api.svc.Student(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "computing student stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *analyticsApi) earnings(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "teacher")
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	earnings, err := api.svc.Earnings(ctx.Request().Context(), usr, id)
	if err != nil {
		return errors.Wrap(err, "computing earnings")
	}
	return ctx.JSON(http.StatusOK, earnings)
}
