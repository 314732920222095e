package community_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/community"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database/docrepos"
	"github.com/yashshrivastavagit/Aumryx-Teach/tests"
)

func titles(posts []community.Post) []string {
	res := make([]string, 0, len(posts))
	for _, p := range posts {
		res = append(res, p.Title)
	}
	return res
}

func TestService_Create(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	usrRepo := docrepos.NewUserRepository(store)
	classRepo := docrepos.NewClassRepository(store)
	svc := community.NewService(docrepos.NewCommunityRepository(store))

	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada@test.com", user.RoleTeacher, true)
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.com", user.RoleTeacher, true)
	student := testutil.CreateUser(t, usrRepo, "Cy", "cy@test.com", user.RoleStudent, true)
	algebra := testutil.CreateClass(t, classRepo, ada, "Algebra", 100, 10)

	tests := []struct {
		name    string
		usr     user.User
		np      community.NewPost
		wantErr error
	}{
		{name: "student", usr: student, np: community.NewPost{Title: "Hi", Content: "There"}, wantErr: core.NewForbiddenError("Only teachers can access this resource")},
		{name: "malformed class", usr: ada, np: community.NewPost{Title: "Hi", Content: "There", ClassID: "x"}, wantErr: core.NewInvalidInputError("Invalid class ID")},
		{name: "unknown class", usr: ada, np: community.NewPost{Title: "Hi", Content: "There", ClassID: primitive.NewObjectID().Hex()}, wantErr: core.NewNotFoundError("Class not found")},
		{name: "someone else's class", usr: bob, np: community.NewPost{Title: "Hi", Content: "There", ClassID: algebra.ID.Hex()}, wantErr: core.NewForbiddenError("You can only post to your own classes")},
		{name: "general", usr: ada, np: community.NewPost{Title: "Welcome", Content: "Hello all"}},
		{name: "class", usr: ada, np: community.NewPost{Title: "Slides", Content: "Week 1", Type: community.PostResource, ClassID: algebra.ID.Hex()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := svc.Create(ctx, tt.usr, tt.np)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.usr.ID, p.TeacherID)
			assert.Zero(t, p.LikesCount)
			assert.Zero(t, p.CommentsCount)
			assert.Empty(t, p.Attachments)
			if tt.np.ClassID == "" {
				assert.Nil(t, p.ClassID)
				assert.Equal(t, community.PostDiscussion, p.Type)
			} else {
				require.NotNil(t, p.ClassID)
				assert.Equal(t, algebra.ID, *p.ClassID)
				assert.Equal(t, community.PostResource, p.Type)
			}
		})
	}

	posts, err := svc.ListByClass(ctx, algebra.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Slides"}, titles(posts))

	posts, err = svc.ListByTeacher(ctx, ada.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Welcome", "Slides"}, titles(posts))
}

func TestService_Feed(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	repo := docrepos.NewCommunityRepository(store)
	svc := community.NewService(repo)

	ada := testutil.CreateUser(t, docrepos.NewUserRepository(store), "Ada", "ada@test.com", user.RoleTeacher, true)
	start := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		_, err := repo.CreatePost(ctx, community.Post{
			Title: title, Content: "-", Type: community.PostAnnouncement, TeacherID: ada.ID,
			Attachments: []string{}, CreatedAt: start.Add(time.Duration(i) * time.Hour),
		})
		require.NoError(t, err)
	}

	tests := []struct {
		name    string
		limit   int64
		want    []string
		wantErr error
	}{
		{name: "default", limit: 0, want: []string{"third", "second", "first"}},
		{name: "limited", limit: 2, want: []string{"third", "second"}},
		{name: "negative", limit: -1, wantErr: core.NewInvalidInputError("limit must be between 1 and 100")},
		{name: "too large", limit: 101, wantErr: core.NewInvalidInputError("limit must be between 1 and 100")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			posts, err := svc.Feed(ctx, tt.limit)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(posts))
		})
	}
}

func TestService_UpdateDelete(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	usrRepo := docrepos.NewUserRepository(store)
	svc := community.NewService(docrepos.NewCommunityRepository(store))

	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada@test.com", user.RoleTeacher, true)
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.com", user.RoleTeacher, true)
	post, err := svc.Create(ctx, ada, community.NewPost{Title: "Welcome", Content: "Hello"})
	require.NoError(t, err)

	content := "Hello everyone"
	_, err = svc.Update(ctx, bob, post.ID, community.UpdatePost{Content: &content})
	assert.ErrorIs(t, err, core.NewForbiddenError("Not authorized to update this post"))
	_, err = svc.Update(ctx, ada, primitive.NewObjectID(), community.UpdatePost{Content: &content})
	assert.ErrorIs(t, err, core.NewNotFoundError("Post not found"))
	_, err = svc.Update(ctx, ada, post.ID, community.UpdatePost{})
	assert.ErrorIs(t, err, core.NewInvalidInputError("No fields to update"))

	updated, err := svc.Update(ctx, ada, post.ID, community.UpdatePost{Content: &content})
	require.NoError(t, err)
	assert.Equal(t, "Welcome", updated.Title)
	assert.Equal(t, "Hello everyone", updated.Content)

	assert.ErrorIs(t, svc.Delete(ctx, bob, post.ID), core.NewForbiddenError("Not authorized to delete this post"))
	require.NoError(t, svc.Delete(ctx, ada, post.ID))
	assert.ErrorIs(t, svc.Delete(ctx, ada, post.ID), core.NewNotFoundError("Post not found"))
}
