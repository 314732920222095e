package docrepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core/analytics"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/rating"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database"
)

type analyticsRepository struct {
	*enrollmentRepository
	ratings *ratingRepository
}

var _ analytics.Repository = (*analyticsRepository)(nil) // interface compliance check

func NewAnalyticsRepository(store database.Store) *analyticsRepository {
	return &analyticsRepository{
		enrollmentRepository: NewEnrollmentRepository(store),
		ratings:              NewRatingRepository(store),
	}
}

func (repo *analyticsRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (user.User, error) {
	return repo.users.GetUserByID(ctx, id)
}

func (repo *analyticsRepository) CountClasses(ctx context.Context, teacherID primitive.ObjectID) (int64, error) {
	n, err := repo.classRepository.coll.CountDocuments(ctx, bson.M{"teacher_id": teacherID})
	return n, errors.Wrap(err, "counting classes")
}

func (repo *analyticsRepository) QueryRatings(ctx context.Context, teacherID primitive.ObjectID) ([]rating.Rating, error) {
	return repo.ratings.QueryRatings(ctx, teacherID)
}
