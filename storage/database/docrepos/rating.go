package docrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/rating"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database"
)

type ratingRepository struct {
	*classRepository
	coll        database.Collection
	enrollments database.Collection
	users       *userRepository
}

var _ rating.Repository = (*ratingRepository)(nil) // interface compliance check

func NewRatingRepository(store database.Store) *ratingRepository {
	return &ratingRepository{
		classRepository: NewClassRepository(store),
		coll:            store.Collection(database.Ratings),
		enrollments:     store.Collection(database.Enrollments),
		users:           NewUserRepository(store),
	}
}

// HasEnrollment reports whether the student ever enrolled in the class, whatever the enrollment status.
func (repo *ratingRepository) HasEnrollment(ctx context.Context, studentID, classID primitive.ObjectID) (bool, error) {
	return hasEnrollment(ctx, repo.enrollments, studentID, classID)
}

func (repo *ratingRepository) CreateRating(ctx context.Context, r rating.Rating) (rating.Rating, error) {
	id, err := repo.coll.InsertOne(ctx, r)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return rating.Rating{}, rating.ErrAlreadyRated
		}
		return rating.Rating{}, errors.Wrap(err, "inserting rating")
	}
	var created rating.Rating
	if err = repo.coll.FindOne(ctx, bson.M{"_id": id}, &created); err != nil {
		return rating.Rating{}, errors.Wrap(err, "finding rating")
	}
	return created, nil
}

func (repo *ratingRepository) QueryRatings(ctx context.Context, teacherID primitive.ObjectID) ([]rating.Rating, error) {
	ratings := make([]rating.Rating, 0)
	if err := repo.coll.Find(ctx, bson.M{"teacher_id": teacherID}, &ratings, findOptions(0, core.NewestFirst)); err != nil {
		return nil, errors.Wrap(err, "finding ratings")
	}
	return ratings, nil
}

func (repo *ratingRepository) SetRating(ctx context.Context, teacherID primitive.ObjectID, r float64, now time.Time) error {
	return repo.users.SetRating(ctx, teacherID, r, now)
}
