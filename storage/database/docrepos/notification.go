package docrepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/notification"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database"
)

type notificationRepository struct {
	coll database.Collection
}

var _ notification.Repository = (*notificationRepository)(nil) // interface compliance check

func NewNotificationRepository(store database.Store) *notificationRepository {
	return &notificationRepository{coll: store.Collection(database.Notifications)}
}

func (repo *notificationRepository) CreateNotification(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	id, err := repo.coll.InsertOne(ctx, n)
	if err != nil {
		return notification.Notification{}, errors.Wrap(err, "inserting notification")
	}
	n.ID = id
	return n, nil
}

func (repo *notificationRepository) QueryNotifications(ctx context.Context, userID primitive.ObjectID, filter notification.QueryFilter) ([]notification.Notification, error) {
	query := bson.M{"user_id": userID}
	if filter.UnreadOnly {
		query["read"] = false
	}

	notifs := make([]notification.Notification, 0)
	if err := repo.coll.Find(ctx, query, &notifs, findOptions(filter.Limit, core.NewestFirst)); err != nil {
		return nil, errors.Wrap(err, "finding notifications")
	}
	return notifs, nil
}

func (repo *notificationRepository) MarkRead(ctx context.Context, id, userID primitive.ObjectID) error {
	res, err := repo.coll.UpdateOne(ctx, bson.M{"_id": id, "user_id": userID}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return errors.Wrap(err, "updating notification")
	}
	if res.MatchedCount == 0 {
		return notification.ErrNotFound
	}
	return nil
}

func (repo *notificationRepository) MarkAllRead(ctx context.Context, userID primitive.ObjectID) (int64, error) {
	res, err := repo.coll.UpdateMany(ctx, bson.M{"user_id": userID, "read": false}, bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, errors.Wrap(err, "updating notifications")
	}
	return res.ModifiedCount, nil
}
