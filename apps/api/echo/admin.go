package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yashshrivastavagit/Aumryx-Teach/core/verification"
)

type adminApi struct {
	gate verification.Gate
}

func registerAdminAPI(g *echo.Group, authed, privileged echo.MiddlewareFunc, gate verification.Gate) {
	api := adminApi{gate: gate}

	tg := g.Group("/admin/teachers", authed, privileged)
	tg.GET("/pending", api.pending)
	tg.GET("/all", api.all)
	tg.PATCH("/:id/verify", api.verify)
	tg.PATCH("/:id/unverify", api.unverify)
}

// Handlers

func (api *adminApi) pending(ctx echo.Context) error {
	teachers, err := api.gate.Pending(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing pending teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *adminApi) all(ctx echo.Context) error {
	teachers, err := api.gate.All(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "listing teachers")
	}
	return ctx.JSON(http.StatusOK, teachers)
}

func (api *adminApi) verify(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "teacher")
	if err != nil {
		return err
	}
	if err = api.gate.Verify(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "verifying teacher")
	}
	return ctx.JSON(http.StatusOK, VerificationResponse{Message: "Teacher verified successfully", TeacherID: id.Hex()})
}

func (api *adminApi) unverify(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "teacher")
	if err != nil {
		return err
	}
	if err = api.gate.Unverify(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "unverifying teacher")
	}
	return ctx.JSON(http.StatusOK, VerificationResponse{Message: "Teacher unverified successfully", TeacherID: id.Hex()})
}

type VerificationResponse struct {
	Message   string `json:"message"`
	TeacherID string `json:"teacher_id"`
}
