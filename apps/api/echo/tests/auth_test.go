package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
	"github.com/yashshrivastavagit/Aumryx-Teach/tests"
)

func Test_authApi_signup(t *testing.T) {
	srv := setup(t)
	testutil.CreateUser(t, usrRepo, "Taken", "taken@test.com", user.RoleStudent, true)

	body := func(name, email, role, pwd string) []byte {
		return marchallObj(t, map[string]string{"name": name, "email": email, "user_type": role, "password": pwd})
	}

	runHTTPTests(t, srv, []httpTest{
		{
			name: "email required", method: http.MethodPost, path: "/api/auth/signup",
			body:     body("Amina", "", "student", testutil.Password),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"email": "this field is required"}),
		},
		{
			name: "public roles only", method: http.MethodPost, path: "/api/auth/signup",
			body:     body("Amina", "amina@test.com", "admin", testutil.Password),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"user_type": "user_type must be one of: teacher, student"}),
		},
		{
			name: "email taken", method: http.MethodPost, path: "/api/auth/signup",
			body:     body("Amina", "TAKEN@test.com", "student", testutil.Password),
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Error: "Email already registered"}),
		},
	})

	t.Run("teacher signs up unverified", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/auth/signup", body("Baraka Otieno", "baraka@test.com", "teacher", testutil.Password))
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		var sess user.Session
		unmarchall(t, rec, &sess)
		assert.NotEmpty(t, sess.AccessToken)
		assert.Equal(t, "bearer", sess.TokenType)
		require.NotNil(t, sess.User)
		assert.Equal(t, "baraka@test.com", sess.User.Email)
		assert.Equal(t, user.RoleTeacher, sess.User.Role)
		assert.False(t, sess.User.Verified)
		assert.Equal(t, user.DefaultImageURL, sess.User.ImageURL)
	})
}

func Test_authApi_login(t *testing.T) {
	srv := setup(t)
	student := testutil.CreateUser(t, usrRepo, "Amina", "amina@test.com", user.RoleStudent, true)

	body := func(email, role, pwd string) []byte {
		return marchallObj(t, map[string]string{"email": email, "user_type": role, "password": pwd})
	}

	runHTTPTests(t, srv, []httpTest{
		{
			name: "unknown email", method: http.MethodPost, path: "/api/auth/login",
			body:     body("nobody@test.com", "student", testutil.Password),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "Incorrect email or password"}),
		},
		{
			name: "wrong password", method: http.MethodPost, path: "/api/auth/login",
			body:     body("amina@test.com", "student", "Wrong-pass1"),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "Incorrect email or password"}),
		},
		{
			name: "wrong role", method: http.MethodPost, path: "/api/auth/login",
			body:     body("amina@test.com", "teacher", testutil.Password),
			wantCode: http.StatusUnauthorized,
			wantData: marchallObj(t, httpErr{Error: "This email is registered as student, not teacher"}),
		},
	})

	t.Run("success", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/api/auth/login", body(" Amina@Test.com ", "student", testutil.Password))
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var sess user.Session
		unmarchall(t, rec, &sess)
		require.NotNil(t, sess.User)
		assert.Equal(t, student.ID, sess.User.ID)

		// the issued token resolves back to the student
		req, rec = newAuthRequest(http.MethodGet, "/api/auth/me", sess.AccessToken)
		srv.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		var me user.User
		unmarchall(t, rec, &me)
		assert.Equal(t, student.ID, me.ID)
	})
}

func Test_authApi_me(t *testing.T) {
	srv := setup(t)
	student := testutil.CreateUser(t, usrRepo, "Amina", "amina@test.com", user.RoleStudent, true)
	ghost := user.User{ID: student.ID, Role: user.RoleStudent}
	ghost.ID[0] ^= 0xff

	credsErr := marchallObj(t, httpErr{Error: "Could not validate credentials"})
	tests := []httpTest{
		{name: "missing header", path: "/api/auth/me", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{name: "garbage token", path: "/api/auth/me", token: "not.a.token", wantCode: http.StatusUnauthorized, wantData: credsErr},
		{name: "deleted subject", path: "/api/auth/me", token: getToken(t, ghost), wantCode: http.StatusUnauthorized, wantData: credsErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			srv.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
			assert.Equal(t, "Bearer", rec.Header().Get("WWW-Authenticate"))
		})
	}

	headerTests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{name: "wrong scheme", header: "Basic " + getToken(t, student), wantCode: http.StatusUnauthorized},
		{name: "scheme without token", header: "Bearer ", wantCode: http.StatusUnauthorized},
		{name: "lowercase scheme", header: "bearer " + getToken(t, student), wantCode: http.StatusOK},
	}
	for _, tt := range headerTests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, "/api/auth/me")
			req.Header.Set("Authorization", tt.header)
			srv.ServeHTTP(rec, req)
			require.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusUnauthorized {
				checkCodeAndData(t, httpTest{wantCode: tt.wantCode, wantData: marchallObj(t, errMissingToken)}, rec)
			}
		})
	}
}
