package tests

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashshrivastavagit/Aumryx-Teach/core/community"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
	"github.com/yashshrivastavagit/Aumryx-Teach/tests"
)

func Test_communityApi_feed(t *testing.T) {
	srv := setup(t)
	teacher := testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.com", user.RoleTeacher, true)
	student := testutil.CreateUser(t, usrRepo, "Amina", "amina@test.com", user.RoleStudent, true)
	teacherToken, studentToken := getToken(t, teacher), getToken(t, student)

	for i := 0; i < 3; i++ {
		body := marchallObj(t, map[string]string{"title": fmt.Sprintf("Post %d", i), "content": "Welcome"})
		req, rec := newAuthRequest(http.MethodPost, "/api/community/posts", teacherToken, body)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	}

	feed := func(t *testing.T, query string) []community.Post {
		req, rec := newAuthRequest(http.MethodGet, "/api/community/posts"+query, studentToken)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var posts []community.Post
		unmarchall(t, rec, &posts)
		return posts
	}

	t.Run("default limit", func(t *testing.T) {
		assert.Len(t, feed(t, ""), 3)
	})
	t.Run("explicit limit", func(t *testing.T) {
		assert.Len(t, feed(t, "?limit=2"), 2)
	})

	outOfRange := marchallObj(t, httpErr{Error: "limit must be between 1 and 100"})
	runHTTPTests(t, srv, []httpTest{
		{name: "auth required", path: "/api/community/posts", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "zero limit", path: "/api/community/posts?limit=0", token: studentToken, wantCode: http.StatusBadRequest, wantData: outOfRange},
		{name: "limit too big", path: "/api/community/posts?limit=101", token: studentToken, wantCode: http.StatusBadRequest, wantData: outOfRange},
		{name: "negative limit", path: "/api/community/posts?limit=-3", token: studentToken, wantCode: http.StatusBadRequest, wantData: outOfRange},
		{
			name: "limit not an integer", path: "/api/community/posts?limit=abc", token: studentToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "limit must be an integer"}),
		},
	})
}
