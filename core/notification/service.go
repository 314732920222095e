package notification

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
)

const defaultLimit = 100

var (
	ErrNotFound = errors.New("notification not found")

	errNotificationNotFound = core.NewNotFoundError("Notification not found")
)

type (
	Repository interface {
		CreateNotification(ctx context.Context, n Notification) (Notification, error)
		QueryNotifications(ctx context.Context, userID primitive.ObjectID, filter QueryFilter) ([]Notification, error)
		// MarkRead reports ErrNotFound unless the notification exists and belongs to userID.
		MarkRead(ctx context.Context, id, userID primitive.ObjectID) error
		MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error)
	}

	Service interface {
		Notify(ctx context.Context, nn NewNotification) (Notification, error)
		Query(ctx context.Context, usr user.User, filter QueryFilter) ([]Notification, error)
		MarkRead(ctx context.Context, usr user.User, id primitive.ObjectID) error
		MarkAllRead(ctx context.Context, usr user.User) (int64, error)
	}

	service struct {
		repo    Repository
		nowFunc func() time.Time // mockable
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{
		repo:    repo,
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
}

func (svc *service) Notify(ctx context.Context, nn NewNotification) (Notification, error) {
	n, err := svc.repo.CreateNotification(ctx, Notification{
		UserID:    nn.UserID,
		UserType:  nn.UserType,
		Type:      nn.Type,
		Title:     nn.Title,
		Message:   nn.Message,
		Link:      nn.Link,
		CreatedAt: svc.nowFunc(),
	})
	return n, errors.Wrap(err, "creating notification")
}

// Query lists the newest notifications of usr first.
func (svc *service) Query(ctx context.Context, usr user.User, filter QueryFilter) ([]Notification, error) {
	if filter.Limit <= 0 || filter.Limit > defaultLimit {
		filter.Limit = defaultLimit
	}
	notifs, err := svc.repo.QueryNotifications(ctx, usr.ID, filter)
	return notifs, errors.Wrap(err, "querying notifications")
}

func (svc *service) MarkRead(ctx context.Context, usr user.User, id primitive.ObjectID) error {
	if err := svc.repo.MarkRead(ctx, id, usr.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return errNotificationNotFound
		}
		return errors.Wrap(err, "marking notification read")
	}
	return nil
}

func (svc *service) MarkAllRead(ctx context.Context, usr user.User) (int64, error) {
	n, err := svc.repo.MarkAllRead(ctx, usr.ID)
	return n, errors.Wrap(err, "marking notifications read")
}
