package echoapi

import (
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
)

// validatable is a request payload that cleans and validates itself.
type validatable interface {
	Validate(validate *validator.Validate) error
}

type binder struct {
	validate *validator.Validate
}

// bind decodes the request into data and validates it.
func (b binder) bind(ctx echo.Context, data validatable, what string) error {
	if err := ctx.Bind(data); err != nil {
		return errors.Wrap(err, "binding to "+what)
	}
	return data.Validate(b.validate)
}

// paramID parses the path parameter name as an ObjectID. what names the resource in the error.
func paramID(ctx echo.Context, name, what string) (primitive.ObjectID, error) {
	return core.ParseID(ctx.Param(name), what)
}

// queryError maps a query binding failure onto the InvalidInput error of the offending field.
func queryError(err error, fieldErrs map[string]error) error {
	var bErr *echo.BindingError
	if errors.As(err, &bErr) {
		if fErr, ok := fieldErrs[bErr.Field]; ok {
			return fErr
		}
		return core.NewInvalidInputError("Invalid " + bErr.Field)
	}
	return err
}
