package docrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/verification"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database"
)

type userRepository struct {
	coll database.Collection
}

var (
	_ user.Repository         = (*userRepository)(nil) // interface compliance check
	_ verification.Repository = (*userRepository)(nil)
)

func NewUserRepository(store database.Store) *userRepository {
	return &userRepository{coll: store.Collection(database.Users)}
}

func (repo *userRepository) findOne(ctx context.Context, filter bson.M) (user.User, error) {
	var usr user.User
	if err := repo.coll.FindOne(ctx, filter, &usr); err != nil {
		if database.IsNotFound(err) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return usr, nil
}

func (repo *userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	id, err := repo.coll.InsertOne(ctx, usr)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return user.User{}, user.ErrEmailExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return repo.GetUserByID(ctx, id)
}

func (repo *userRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (user.User, error) {
	return repo.findOne(ctx, bson.M{"_id": id})
}

func (repo *userRepository) GetUserByEmail(ctx context.Context, email string) (user.User, error) {
	return repo.findOne(ctx, bson.M{"email": email})
}

func (repo *userRepository) FilterUsers(ctx context.Context, filter user.QueryFilter, orderings ...core.DBOrdering) ([]user.User, error) {
	query := bson.M{}
	if filter.Role != "" {
		query["user_type"] = filter.Role
	}
	if filter.Verified != nil {
		query["verified"] = *filter.Verified
	}
	if filter.Search != "" {
		query["$or"] = []bson.M{
			{"name": containsFold(filter.Search)},
			{"subjects": containsFold(filter.Search)},
		}
	}
	if filter.Subject != "" {
		query["subjects"] = filter.Subject
	}

	users := make([]user.User, 0)
	if err := repo.coll.Find(ctx, query, &users, findOptions(0, orderings...)); err != nil {
		return nil, errors.Wrap(err, "finding users")
	}
	return users, nil
}

func (repo *userRepository) set(ctx context.Context, id primitive.ObjectID, fields bson.M) (user.User, error) {
	res, err := repo.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return user.User{}, errors.Wrap(err, "updating user")
	}
	if res.MatchedCount == 0 {
		return user.User{}, user.ErrNotFound
	}
	return repo.GetUserByID(ctx, id)
}

func (repo *userRepository) UpdateUser(ctx context.Context, id primitive.ObjectID, uu user.UpdateUser, now time.Time) (user.User, error) {
	fields := bson.M{"updated_at": now}
	if uu.Name != nil {
		fields["name"] = *uu.Name
	}
	if uu.Subjects != nil {
		fields["subjects"] = *uu.Subjects
	}
	if uu.Experience != nil {
		fields["experience"] = *uu.Experience
	}
	if uu.Qualification != nil {
		fields["qualification"] = *uu.Qualification
	}
	if uu.Bio != nil {
		fields["bio"] = *uu.Bio
	}
	if uu.HourlyRate != nil {
		fields["hourly_rate"] = *uu.HourlyRate
	}
	if uu.Availability != nil {
		fields["availability"] = *uu.Availability
	}
	if uu.Phone != nil {
		fields["phone"] = *uu.Phone
	}
	if uu.Grade != nil {
		fields["grade"] = *uu.Grade
	}
	if uu.Interests != nil {
		fields["interests"] = *uu.Interests
	}
	return repo.set(ctx, id, fields)
}

func (repo *userRepository) SetImageURL(ctx context.Context, id primitive.ObjectID, url string, now time.Time) (user.User, error) {
	return repo.set(ctx, id, bson.M{"image_url": url, "updated_at": now})
}

func (repo *userRepository) SetPasswordHash(ctx context.Context, id primitive.ObjectID, hash string, now time.Time) error {
	_, err := repo.set(ctx, id, bson.M{"password_hash": hash, "updated_at": now})
	return err
}

// TransitionVerified flips a teacher's verified flag from -> to. It reports false when no teacher with
// that id currently has verified == from.
func (repo *userRepository) TransitionVerified(ctx context.Context, id primitive.ObjectID, from, to bool, now time.Time) (bool, error) {
	res, err := repo.coll.UpdateOne(ctx,
		bson.M{"_id": id, "user_type": user.RoleTeacher, "verified": from},
		bson.M{"$set": bson.M{"verified": to, "updated_at": now}},
	)
	if err != nil {
		return false, errors.Wrap(err, "updating user")
	}
	return res.MatchedCount > 0, nil
}

// SetVerified sets a teacher's verified flag whatever its current value. It reports false when no
// teacher has that id.
func (repo *userRepository) SetVerified(ctx context.Context, id primitive.ObjectID, verified bool, now time.Time) (bool, error) {
	res, err := repo.coll.UpdateOne(ctx,
		bson.M{"_id": id, "user_type": user.RoleTeacher},
		bson.M{"$set": bson.M{"verified": verified, "updated_at": now}},
	)
	if err != nil {
		return false, errors.Wrap(err, "updating user")
	}
	return res.MatchedCount > 0, nil
}

func (repo *userRepository) IncrementStudentsCount(ctx context.Context, id primitive.ObjectID, delta int) error {
	_, err := repo.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"students_count": delta}})
	return errors.Wrap(err, "incrementing students count")
}

func (repo *userRepository) SetRating(ctx context.Context, id primitive.ObjectID, rating float64, now time.Time) error {
	_, err := repo.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"rating": rating, "updated_at": now}})
	return errors.Wrap(err, "setting rating")
}
