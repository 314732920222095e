package tests

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	. "github.com/yashshrivastavagit/Aumryx-Teach/apps/api/echo"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
	"github.com/yashshrivastavagit/Aumryx-Teach/tests"
)

func Test_authApi_adminLogin(t *testing.T) {
	srv := setup(t)
	_, err := usrSvc.CreateFounder(context.Background(), "Founder", "founder@aumryxteach.com", testutil.Password)
	require.NoError(t, err)
	testutil.CreateUser(t, usrRepo, "Teacher", "teacher@test.com", user.RoleTeacher, true)

	body := func(email, pwd string) []byte {
		return marchallObj(t, map[string]string{"email": email, "password": pwd})
	}
	badLogin := marchallObj(t, httpErr{Error: "Invalid admin credentials"})

	runHTTPTests(t, srv, []httpTest{
		{
			name: "not on allow-list", method: http.MethodPost, path: "/api/admin/auth/login",
			body: body("teacher@test.com", testutil.Password), wantCode: http.StatusUnauthorized, wantData: badLogin,
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/api/admin/auth/login",
			body: body("founder@aumryxteach.com", "Wrong-pass1"), wantCode: http.StatusUnauthorized, wantData: badLogin,
		},
	})

	t.Run("success", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/admin/auth/login", body("Founder@AumryxTeach.com", testutil.Password))
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var sess user.Session
		unmarchall(t, rec, &sess)
		assert.NotEmpty(t, sess.AccessToken)
		assert.True(t, sess.IsAdmin)
		assert.Nil(t, sess.User)
	})
}

func Test_adminApi(t *testing.T) {
	srv := setup(t)
	founder, err := usrSvc.CreateFounder(context.Background(), "Founder", "founder@aumryxteach.com", testutil.Password)
	require.NoError(t, err)

	now := time.Now()
	pending1 := testutil.CreateUser(t, usrRepo, "Pending One", "p1@test.com", user.RoleTeacher, false, now.Add(-2*time.Hour))
	pending2 := testutil.CreateUser(t, usrRepo, "Pending Two", "p2@test.com", user.RoleTeacher, false, now.Add(-time.Hour))
	verified := testutil.CreateUser(t, usrRepo, "Verified", "v@test.com", user.RoleTeacher, true, now)
	student := testutil.CreateUser(t, usrRepo, "Student", "s@test.com", user.RoleStudent, true)

	adminToken := getToken(t, founder)
	verifyPath := func(id primitive.ObjectID, action string) string {
		return "/api/admin/teachers/" + id.Hex() + "/" + action
	}

	runHTTPTests(t, srv, []httpTest{
		{name: "auth required", path: "/api/admin/teachers/pending", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "teacher is not privileged", path: "/api/admin/teachers/pending", token: getToken(t, verified),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "Admin access required"}),
		},
		{
			name: "malformed id", method: http.MethodPatch, path: "/api/admin/teachers/nope/verify", token: adminToken,
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "Invalid teacher ID"}),
		},
		{
			name: "student is not a teacher", method: http.MethodPatch, path: verifyPath(student.ID, "verify"), token: adminToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "Teacher not found"}),
		},
		{
			name: "already verified", method: http.MethodPatch, path: verifyPath(verified.ID, "verify"), token: adminToken,
			wantCode: http.StatusConflict, wantData: marchallObj(t, httpErr{Error: "Teacher is already verified"}),
		},
	})

	listIDs := func(t *testing.T, path string) []primitive.ObjectID {
		req, rec := newAuthRequest(http.MethodGet, path, adminToken)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var teachers []user.User
		unmarchall(t, rec, &teachers)
		ids := make([]primitive.ObjectID, 0, len(teachers))
		for _, teacher := range teachers {
			ids = append(ids, teacher.ID)
		}
		return ids
	}

	t.Run("pending oldest first", func(t *testing.T) {
		assert.Equal(t, []primitive.ObjectID{pending1.ID, pending2.ID}, listIDs(t, "/api/admin/teachers/pending"))
	})

	t.Run("all newest first", func(t *testing.T) {
		assert.Equal(t, []primitive.ObjectID{verified.ID, pending2.ID, pending1.ID}, listIDs(t, "/api/admin/teachers/all"))
	})

	t.Run("verify then unverify", func(t *testing.T) {
		tt := httpTest{
			wantCode: http.StatusOK,
			wantData: marchallObj(t, VerificationResponse{Message: "Teacher verified successfully", TeacherID: pending1.ID.Hex()}),
		}
		req, rec := newAuthRequest(http.MethodPatch, verifyPath(pending1.ID, "verify"), adminToken)
		srv.ServeHTTP(rec, req)
		checkCodeAndData(t, tt, rec)
		assert.Equal(t, []primitive.ObjectID{pending2.ID}, listIDs(t, "/api/admin/teachers/pending"))

		usr, err := usrRepo.GetUserByID(context.Background(), pending1.ID)
		require.NoError(t, err)
		assert.True(t, usr.Verified)
		directory := listIDs(t, "/api/teachers?verified_only=true")
		assert.Contains(t, directory, pending1.ID)
		assert.NotContains(t, directory, pending2.ID)

		// unverify is idempotent
		tt.wantData = marchallObj(t, VerificationResponse{Message: "Teacher unverified successfully", TeacherID: pending1.ID.Hex()})
		for i := 0; i < 2; i++ {
			req, rec = newAuthRequest(http.MethodPatch, verifyPath(pending1.ID, "unverify"), adminToken)
			srv.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		}
		assert.Equal(t, []primitive.ObjectID{pending1.ID, pending2.ID}, listIDs(t, "/api/admin/teachers/pending"))
		assert.Equal(t, []primitive.ObjectID{verified.ID}, listIDs(t, "/api/teachers?verified_only=true"))
	})
}
