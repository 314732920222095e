package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yashshrivastavagit/Aumryx-Teach/core/rating"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
)

type ratingApi struct {
	binder
	svc rating.Service
}

func registerRatingAPI(g *echo.Group, authed echo.MiddlewareFunc, b binder, svc rating.Service) {
	api := ratingApi{binder: b, svc: svc}

	rg := g.Group("/ratings")
	rg.POST("", api.rate, authed, roleMiddleware(user.RoleStudent))
	rg.GET("/teacher/:id", api.listForTeacher)
}

// Handlers

func (api *ratingApi) rate(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data rating.NewRating
	if err = api.bind(ctx, &data, "NewRating"); err != nil {
		return err
	}

	r, err := api.svc.Rate(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "rating teacher")
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *ratingApi) listForTeacher(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "teacher")
	if err != nil {
		return err
	}
	ratings, err := api.svc.ListForTeacher(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "listing ratings")
	}
	return ctx.JSON(http.StatusOK, ratings)
}
