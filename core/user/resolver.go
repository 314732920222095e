package user

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/auth"
)

// ErrCredentials is returned for any bearer token that does not resolve to a live identity.
var ErrCredentials = core.NewUnauthenticatedError("Could not validate credentials")

type Finder interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (User, error)
}

// Resolver recovers the caller's persisted identity from a bearer token.
type Resolver struct {
	codec auth.TokenCodec
	users Finder
}

func NewResolver(codec auth.TokenCodec, users Finder) *Resolver {
	return &Resolver{codec: codec, users: users}
}

// Resolve decodes token and looks up its subject. An invalid token, or one whose subject no longer
// exists, yields ErrCredentials. The role claim is not trusted: the persisted record is returned.
func (r *Resolver) Resolve(ctx context.Context, token string) (User, error) {
	data, err := r.codec.Decode(token)
	if err != nil {
		return User{}, ErrCredentials
	}
	id, err := primitive.ObjectIDFromHex(data.Subject)
	if err != nil {
		return User{}, ErrCredentials
	}

	usr, err := r.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, ErrCredentials
		}
		return User{}, errors.Wrap(err, "finding user by ID")
	}
	return usr, nil
}
