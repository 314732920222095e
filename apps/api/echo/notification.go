package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/notification"
)

var errInvalidUnreadOnly = core.NewInvalidInputError("unread_only must be a boolean")

type notificationApi struct {
	svc notification.Service
}

func registerNotificationAPI(g *echo.Group, authed echo.MiddlewareFunc, svc notification.Service) {
	api := notificationApi{svc: svc}

	ng := g.Group("/notifications", authed)
	ng.GET("", api.query)
	ng.PATCH("/read-all", api.markAllRead)
	ng.PATCH("/:id/read", api.markRead)
}

// Handlers

func (api *notificationApi) query(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	var filter notification.QueryFilter
	err = echo.QueryParamsBinder(ctx).
		Bool("unread_only", &filter.UnreadOnly).
		Int64("limit", &filter.Limit).
		BindError()
	if err != nil {
		return queryError(err, map[string]error{
			"unread_only": errInvalidUnreadOnly,
			"limit":       errInvalidLimit,
		})
	}

	notifications, err := api.svc.Query(ctx.Request().Context(), usr, filter)
	if err != nil {
		return errors.Wrap(err, "querying notifications")
	}
	return ctx.JSON(http.StatusOK, notifications)
}

func (api *notificationApi) markRead(ctx echo.Context) error {
	id, err := paramID(ctx, "id", "notification")
	if err != nil {
		return err
	}
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	if err = api.svc.MarkRead(ctx.Request().Context(), usr, id); err != nil {
		return errors.Wrap(err, "marking notification read")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "Notification marked as read"})
}

func (api *notificationApi) markAllRead(ctx echo.Context) error {
	usr, err := getContextUser(ctx)
	if err != nil {
		return err
	}
	n, err := api.svc.MarkAllRead(ctx.Request().Context(), usr)
	if err != nil {
		return errors.Wrap(err, "marking notifications read")
	}
	return ctx.JSON(http.StatusOK, echo.Map{"message": "All notifications marked as read", "updated": n})
}
