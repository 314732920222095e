package docrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/community"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database"
)

type communityRepository struct {
	*classRepository
	coll database.Collection
}

var _ community.Repository = (*communityRepository)(nil) // interface compliance check

func NewCommunityRepository(store database.Store) *communityRepository {
	return &communityRepository{
		classRepository: NewClassRepository(store),
		coll:            store.Collection(database.CommunityPosts),
	}
}

func (repo *communityRepository) CreatePost(ctx context.Context, p community.Post) (community.Post, error) {
	id, err := repo.coll.InsertOne(ctx, p)
	if err != nil {
		return community.Post{}, errors.Wrap(err, "inserting post")
	}
	return repo.GetPostByID(ctx, id)
}

func (repo *communityRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (community.Post, error) {
	var p community.Post
	if err := repo.coll.FindOne(ctx, bson.M{"_id": id}, &p); err != nil {
		if database.IsNotFound(err) {
			return community.Post{}, community.ErrNotFound
		}
		return community.Post{}, err
	}
	return p, nil
}

func (repo *communityRepository) QueryPosts(ctx context.Context, filter community.QueryFilter) ([]community.Post, error) {
	query := bson.M{}
	if !filter.TeacherID.IsZero() {
		query["teacher_id"] = filter.TeacherID
	}
	if !filter.ClassID.IsZero() {
		query["class_id"] = filter.ClassID
	}

	posts := make([]community.Post, 0)
	if err := repo.coll.Find(ctx, query, &posts, findOptions(filter.Limit, core.NewestFirst)); err != nil {
		return nil, errors.Wrap(err, "finding posts")
	}
	return posts, nil
}

func (repo *communityRepository) UpdatePost(ctx context.Context, id primitive.ObjectID, up community.UpdatePost, now time.Time) (community.Post, error) {
	fields := bson.M{"updated_at": now}
	if up.Title != nil {
		fields["title"] = *up.Title
	}
	if up.Content != nil {
		fields["content"] = *up.Content
	}
	if up.Type != nil {
		fields["post_type"] = *up.Type
	}

	res, err := repo.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return community.Post{}, errors.Wrap(err, "updating post")
	}
	if res.MatchedCount == 0 {
		return community.Post{}, community.ErrNotFound
	}
	return repo.GetPostByID(ctx, id)
}

func (repo *communityRepository) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	n, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "deleting post")
	}
	if n == 0 {
		return community.ErrNotFound
	}
	return nil
}
