package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/community"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
)

var errInvalidLimit = core.NewInvalidInputError("limit must be an integer")

type communityApi struct {
	binder
	svc community.Service
}

func registerCommunityAPI(g *echo.Group, authed echo.MiddlewareFunc, b binder, svc community.Service) {
	api := communityApi{binder: b, svc: svc}

	pg := g.Group("/community/posts")
	pg.GET("", api.feed, authed)
	pg.GET("/teacher/:id", api.listByTeacher)
	pg.GET("/class/:id", api.listByClass)

	teacherOnly := roleMiddleware(user.RoleTeacher)
	pg.POST("", api.create, authed, teacherOnly)
	pg.PUT("/:id", api.update, authed, teacherOnly)
	pg.DELETE("/:id", api.destroy, authed, teacherOnly)
}

// Handlers

func (api *communityApi) feed(ctx echo.Context) error {
	var limit int64 = community.DefaultFeedLimit
	if err := echo.QueryParamsBinder(ctx).Int64("limit", &limit).BindError(); err != nil {
		return queryError(err, map[string]error{"limit": errInvalidLimit})
	}
	if limit == 0 {
		// an explicit zero is out of range, not the default
		limit = -1
	}
	posts, err := api.svc.Feed(ctx.Request().Context(), limit)
	if err != nil {
		return errors.Wrap(err, "reading feed")
	}
	return ctx.JSON(http.StatusOK, posts)
}

func (api *communityApi) create(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data community.NewPost
	if err = api.bind(ctx, &data, "NewPost"); err != nil {
		return err
	}

	p, err := api.svc.Create(ctx.Request().Context(), usr, data)
	if err != nil {
		return errors.Wrap(err, "creating post")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *communityApi) listByTeacher(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "teacher")
	if err != nil {
		return err
	}
	posts, err := api.svc.ListByTeacher(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "listing teacher posts")
	}
	return ctx.JSON(http.StatusOK, posts)
}

func (api *communityApi) listByClass(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "class")
	if err != nil {
		return err
	}
	posts, err := api.svc.ListByClass(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "listing class posts")
	}
	return ctx.JSON(http.StatusOK, posts)
}

func (api *communityApi) update(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "post")
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var data community.UpdatePost
	if err = api.bind(ctx, &data, "UpdatePost"); err != nil {
		return err
	}

	p, err := api.svc.Update(ctx.Request().Context(), usr, id, data)
	if err != nil {
		return errors.Wrap(err, "updating post")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *communityApi) destroy(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "post")
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.Delete(ctx.Request().Context(), usr, id); err != nil {
		return errors.Wrap(err, "deleting post")
	}
	return ctx.NoContent(http.StatusNoContent)
}
