package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
)

const (
	contextUserKey = "user"
	bearerScheme   = "Bearer"
)

var (
	errNotAuthenticated = core.NewUnauthenticatedError("Not authenticated")
	errUsrNotFoundInCtx = errors.New("user object not found in echo.Context")
)

// authMiddleware resolves the bearer token into the caller's identity and stores it in the context.
func authMiddleware(svc user.Service) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup:  "header:" + echo.HeaderAuthorization,
		AuthScheme: bearerScheme,
		Validator: func(token string, ctx echo.Context) (bool, error) {
			usr, err := svc.Resolve(ctx.Request().Context(), token)
			if err != nil {
				return false, err
			}
			ctx.Set(contextUserKey, usr)
			return true, nil
		},
		ErrorHandler: func(err error, ctx echo.Context) error {
			var missing *middleware.ErrKeyAuthMissing
			if errors.As(err, &missing) {
				// no header or another scheme
				return errNotAuthenticated
			}
			return err
		},
	})
}

// roleMiddleware must run after authMiddleware.
func roleMiddleware(role user.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			if _, err = user.RequireRole(usr, role); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}

// privilegedMiddleware must run after authMiddleware.
func privilegedMiddleware(privs user.Privileges) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			usr, err := getContextUser(ctx)
			if err != nil {
				return err
			}
			if _, err = privs.RequirePrivileged(usr); err != nil {
				return err
			}
			return next(ctx)
		}
	}
}

func getContextUser(ctx echo.Context) (user.User, error) {
	if usr, ok := ctx.Get(contextUserKey).(user.User); ok {
		return usr, nil
	}
	return user.User{}, errUsrNotFoundInCtx
}
