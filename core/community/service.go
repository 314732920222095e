// Package community manages the posts teachers share with everyone or with one class.
package community

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/class"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("post not found")

	errPostNotFound    = core.NewNotFoundError("Post not found")
	errUpdateForbidden = core.NewForbiddenError("Not authorized to update this post")
	errDeleteForbidden = core.NewForbiddenError("Not authorized to delete this post")
	errNothingToUpdate = core.NewInvalidInputError("No fields to update")
	errInvalidLimit    = core.NewInvalidInputError(fmt.Sprintf("limit must be between 1 and %d", MaxFeedLimit))

	classForbiddenMsg = "You can only post to your own classes"
)

type (
	Repository interface {
		class.Finder
		CreatePost(ctx context.Context, p Post) (Post, error)
		GetPostByID(ctx context.Context, id primitive.ObjectID) (Post, error)
		// QueryPosts lists posts newest first.
		QueryPosts(ctx context.Context, filter QueryFilter) ([]Post, error)
		UpdatePost(ctx context.Context, id primitive.ObjectID, up UpdatePost, now time.Time) (Post, error)
		DeletePost(ctx context.Context, id primitive.ObjectID) error
	}

	Service interface {
		Create(ctx context.Context, teacher user.User, np NewPost) (Post, error)
		ListByTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]Post, error)
		ListByClass(ctx context.Context, classID primitive.ObjectID) ([]Post, error)
		// Feed returns the latest posts of every teacher. A zero limit means DefaultFeedLimit.
		Feed(ctx context.Context, limit int64) ([]Post, error)
		Update(ctx context.Context, teacher user.User, id primitive.ObjectID, up UpdatePost) (Post, error)
		Delete(ctx context.Context, teacher user.User, id primitive.ObjectID) error
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

func (svc *service) Create(ctx context.Context, teacher user.User, np NewPost) (Post, error) {
	if _, err := user.RequireRole(teacher, user.RoleTeacher); err != nil {
		return Post{}, err
	}

	now := svc.nowFunc()
	p := Post{
		Title:       np.Title,
		Content:     np.Content,
		Type:        np.Type,
		TeacherID:   teacher.ID,
		Attachments: np.Attachments,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if p.Type == "" {
		p.Type = PostDiscussion
	}
	if p.Attachments == nil {
		p.Attachments = []string{}
	}
	if np.ClassID != "" {
		classID, err := core.ParseID(np.ClassID, "class")
		if err != nil {
			return Post{}, err
		}
		if _, err = class.RequireOwned(ctx, svc.repo, teacher, classID, classForbiddenMsg); err != nil {
			return Post{}, err
		}
		p.ClassID = &classID
	}

	p, err := svc.repo.CreatePost(ctx, p)
	return p, errors.Wrap(err, "creating post")
}

func (svc *service) ListByTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]Post, error) {
	posts, err := svc.repo.QueryPosts(ctx, QueryFilter{TeacherID: teacherID})
	return posts, errors.Wrap(err, "querying posts")
}

func (svc *service) ListByClass(ctx context.Context, classID primitive.ObjectID) ([]Post, error) {
	posts, err := svc.repo.QueryPosts(ctx, QueryFilter{ClassID: classID})
	return posts, errors.Wrap(err, "querying posts")
}

func (svc *service) Feed(ctx context.Context, limit int64) ([]Post, error) {
	if limit == 0 {
		limit = DefaultFeedLimit
	}
	if limit < 1 || limit > MaxFeedLimit {
		return nil, errInvalidLimit
	}
	posts, err := svc.repo.QueryPosts(ctx, QueryFilter{Limit: limit})
	return posts, errors.Wrap(err, "querying posts")
}

func (svc *service) getOwned(ctx context.Context, teacher user.User, id primitive.ObjectID, forbidden error) (Post, error) {
	p, err := svc.repo.GetPostByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Post{}, errPostNotFound
		}
		return Post{}, errors.Wrap(err, "finding post by ID")
	}
	if p.TeacherID != teacher.ID {
		return Post{}, forbidden
	}
	return p, nil
}

func (svc *service) Update(ctx context.Context, teacher user.User, id primitive.ObjectID, up UpdatePost) (Post, error) {
	if _, err := svc.getOwned(ctx, teacher, id, errUpdateForbidden); err != nil {
		return Post{}, err
	}
	if up.IsEmpty() {
		return Post{}, errNothingToUpdate
	}
	p, err := svc.repo.UpdatePost(ctx, id, up, svc.nowFunc())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Post{}, errPostNotFound
		}
		return Post{}, errors.Wrap(err, "updating post")
	}
	return p, nil
}

func (svc *service) Delete(ctx context.Context, teacher user.User, id primitive.ObjectID) error {
	if _, err := svc.getOwned(ctx, teacher, id, errDeleteForbidden); err != nil {
		return err
	}
	if err := svc.repo.DeletePost(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return errPostNotFound
		}
		return errors.Wrap(err, "deleting post")
	}
	return nil
}
