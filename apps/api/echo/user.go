package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
)

var (
	errInvalidVerifiedOnly = core.NewInvalidInputError("verified_only must be a boolean")
	errInvalidHourlyRate   = core.NewInvalidInputError("hourly_rate must be a number")
)

type userApi struct {
	binder
	svc user.Service
}

func registerUserAPI(g *echo.Group, authed echo.MiddlewareFunc, b binder, svc user.Service) {
	api := userApi{binder: b, svc: svc}

	tg := g.Group("/teachers")
	tg.GET("", api.queryTeachers)
	tg.GET("/:id", api.retrieveTeacher)
	tg.PUT("/:id", api.updateTeacher, authed, roleMiddleware(user.RoleTeacher))

	pg := g.Group("/profile", authed)
	pg.PUT("/picture", api.setPicture)
	pg.PUT("/teacher/rate", api.setHourlyRate, roleMiddleware(user.RoleTeacher))
}

// Handlers

func (api *userApi) queryTeachers(ctx echo.Context) error {
	query := user.TeacherQuery{
		Search:  ctx.QueryParam("search"),
		Subject: ctx.QueryParam("subject"),
	}
	verifiedOnly := true
	err := echo.QueryParamsBinder(ctx).Bool("verified_only", &verifiedOnly).BindError()
	if err != nil {
		return queryError(err, map[string]error{"verified_only": errInvalidVerifiedOnly})
	}
	query.VerifiedOnly = &verifiedOnly

	teachers, err := api.svc.QueryTeachers(ctx.Request().Context(), query)
	if err != nil {
		return errors.Wrap(err, "querying teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *userApi) retrieveTeacher(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "teacher")
	if err != nil {
		return err
	}
	teacher, err := api.svc.GetTeacher(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "finding teacher")
	}
	return ctx.JSON(http.StatusOK, teacher)
}

func (api *userApi) updateTeacher(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "teacher")
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data user.UpdateUser
	if err = api.bind(ctx, &data, "UpdateUser"); err != nil {
		return err
	}

	teacher, err := api.svc.UpdateTeacher(ctx.Request().Context(), usr, id, data)
	if err != nil {
		return errors.Wrap(err, "updating teacher")
	}
	return ctx.JSON(http.StatusOK, teacher)
}

func (api *userApi) setPicture(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data PictureRequest
	if err = api.bind(ctx, &data, "PictureRequest"); err != nil {
		return err
	}

	usr, err = api.svc.SetImageURL(ctx.Request().Context(), usr, data.ImageURL)
	if err != nil {
		return errors.Wrap(err, "setting profile picture")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *userApi) setHourlyRate(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var rate float64
	if err = echo.QueryParamsBinder(ctx).MustFloat64("hourly_rate", &rate).BindError(); err != nil {
		return queryError(err, map[string]error{"hourly_rate": errInvalidHourlyRate})
	}

	usr, err = api.svc.SetHourlyRate(ctx.Request().Context(), usr, rate)
	if err != nil {
		return errors.Wrap(err, "setting hourly rate")
	}
	return ctx.JSON(http.StatusOK, usr)
}

type PictureRequest struct {
	ImageURL string `json:"image_url" validate:"required"`
}

func (pr *PictureRequest) Validate(validate *validator.Validate) error {
	pr.ImageURL = core.CleanString(pr.ImageURL)
	return validate.Struct(pr)
}
