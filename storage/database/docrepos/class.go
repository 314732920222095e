package docrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/class"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database"
)

type classRepository struct {
	coll database.Collection
}

var _ class.Repository = (*classRepository)(nil) // interface compliance check

func NewClassRepository(store database.Store) *classRepository {
	return &classRepository{coll: store.Collection(database.Classes)}
}

func (repo *classRepository) CreateClass(ctx context.Context, c class.Class) (class.Class, error) {
	id, err := repo.coll.InsertOne(ctx, c)
	if err != nil {
		return class.Class{}, errors.Wrap(err, "inserting class")
	}
	return repo.GetClassByID(ctx, id)
}

func (repo *classRepository) GetClassByID(ctx context.Context, id primitive.ObjectID) (class.Class, error) {
	var c class.Class
	if err := repo.coll.FindOne(ctx, bson.M{"_id": id}, &c); err != nil {
		if database.IsNotFound(err) {
			return class.Class{}, class.ErrNotFound
		}
		return class.Class{}, err
	}
	return c, nil
}

func (repo *classRepository) FilterClasses(ctx context.Context, filter class.QueryFilter) ([]class.Class, error) {
	query := bson.M{}
	if !filter.TeacherID.IsZero() {
		query["teacher_id"] = filter.TeacherID
	}
	if filter.Subject != "" {
		query["subject"] = containsFold(filter.Subject)
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}

	classes := make([]class.Class, 0)
	if err := repo.coll.Find(ctx, query, &classes, findOptions(0, core.NewestFirst)); err != nil {
		return nil, errors.Wrap(err, "finding classes")
	}
	return classes, nil
}

func (repo *classRepository) UpdateClass(ctx context.Context, id primitive.ObjectID, uc class.UpdateClass, now time.Time) (class.Class, error) {
	filter := bson.M{"_id": id}
	fields := bson.M{"updated_at": now}
	if uc.Title != nil {
		fields["title"] = *uc.Title
	}
	if uc.Subject != nil {
		fields["subject"] = *uc.Subject
	}
	if uc.Description != nil {
		fields["description"] = *uc.Description
	}
	if uc.Price != nil {
		fields["price"] = *uc.Price
	}
	if uc.Duration != nil {
		fields["duration"] = *uc.Duration
	}
	if uc.MaxStudents != nil {
		fields["max_students"] = *uc.MaxStudents
		// capacity never drops below the seats already taken
		filter["enrolled_students"] = bson.M{"$lte": *uc.MaxStudents}
	}
	if uc.Schedule != nil {
		fields["schedule"] = *uc.Schedule
	}
	if uc.MeetingLink != nil {
		fields["meeting_link"] = *uc.MeetingLink
	}
	if uc.Status != nil {
		fields["status"] = *uc.Status
	}

	res, err := repo.coll.UpdateOne(ctx, filter, bson.M{"$set": fields})
	if err != nil {
		return class.Class{}, errors.Wrap(err, "updating class")
	}
	if res.MatchedCount == 0 {
		if _, err = repo.GetClassByID(ctx, id); err != nil {
			return class.Class{}, err
		}
		return class.Class{}, class.ErrBelowEnrolled
	}
	return repo.GetClassByID(ctx, id)
}

func (repo *classRepository) DeleteClass(ctx context.Context, id primitive.ObjectID) error {
	n, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "deleting class")
	}
	if n == 0 {
		return class.ErrNotFound
	}
	return nil
}
