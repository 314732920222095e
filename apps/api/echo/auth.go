package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
)

type authApi struct {
	binder
	svc user.Service
}

func registerAuthAPI(g *echo.Group, authed echo.MiddlewareFunc, b binder, svc user.Service) {
	api := authApi{binder: b, svc: svc}

	ag := g.Group("/auth")
	ag.POST("/signup", api.signup)
	ag.POST("/login", api.login)
	ag.GET("/me", api.me, authed)

	g.POST("/admin/auth/login", api.adminLogin)
}

// Handlers

func (api *authApi) signup(ctx echo.Context) error {
	var data user.NewUser
	if err := api.bind(ctx, &data, "NewUser"); err != nil {
		return err
	}
	sess, err := api.svc.Signup(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "signing up")
	}
	return ctx.JSON(http.StatusCreated, sess)
}

func (api *authApi) login(ctx echo.Context) error {
	var data user.Credentials
	if err := api.bind(ctx, &data, "Credentials"); err != nil {
		return err
	}
	sess, err := api.svc.Login(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "logging in")
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *authApi) me(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *authApi) adminLogin(ctx echo.Context) error {
	var data AdminLoginRequest
	if err := api.bind(ctx, &data, "AdminLoginRequest"); err != nil {
		return err
	}
	sess, err := api.svc.AdminLogin(ctx.Request().Context(), data.Email, data.Password)
	if err != nil {
		return errors.Wrap(err, "logging in admin")
	}
	return ctx.JSON(http.StatusOK, sess)
}

type AdminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (lr *AdminLoginRequest) Validate(validate *validator.Validate) error {
	lr.Email = core.CleanString(lr.Email, true /* lower */)
	return validate.Struct(lr)
}
