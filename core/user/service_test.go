package user_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/auth"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database/docrepos"
	"github.com/yashshrivastavagit/Aumryx-Teach/tests"
)

func setup(t *testing.T) (user.Service, user.Repository) {
	repo := docrepos.NewUserRepository(testutil.NewStore(t))
	return user.NewServiceMock(core.NewTestConfig(), repo), repo
}

func TestService_Signup(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	rate := 30.0

	t.Run("teacher", func(t *testing.T) {
		sess, err := svc.Signup(ctx, user.NewUser{
			Name: "Ada", Email: "ada@test.com", Role: user.RoleTeacher, Password: testutil.Password,
			Subjects: []string{"Physics"}, HourlyRate: &rate,
		})
		require.NoError(t, err)
		assert.Equal(t, "bearer", sess.TokenType)
		assert.NotEmpty(t, sess.AccessToken)
		assert.False(t, sess.IsAdmin)
		require.NotNil(t, sess.User)
		assert.False(t, sess.User.Verified, "teachers need approval")
		assert.Equal(t, user.DefaultImageURL, sess.User.ImageURL)
		assert.Zero(t, sess.User.Rating)
		assert.Zero(t, sess.User.StudentsCount)

		stored, err := repo.GetUserByEmail(ctx, "ada@test.com")
		require.NoError(t, err)
		assert.NotEqual(t, testutil.Password, stored.PasswordHash)
		assert.Equal(t, []string{"Physics"}, stored.Subjects)
	})

	t.Run("student", func(t *testing.T) {
		sess, err := svc.Signup(ctx, user.NewUser{Name: "Cy", Email: "cy@test.com", Role: user.RoleStudent, Password: testutil.Password})
		require.NoError(t, err)
		assert.True(t, sess.User.Verified)
		assert.Empty(t, sess.User.ImageURL)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Signup(ctx, user.NewUser{Name: "Ada", Email: "ada@test.com", Role: user.RoleStudent, Password: testutil.Password})
		assert.ErrorIs(t, err, core.NewInvalidInputError("Email already registered"))
	})
}

func TestService_Login(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	ada := testutil.CreateUser(t, repo, "Ada", "ada@test.com", user.RoleTeacher, false)

	tests := []struct {
		name    string
		creds   user.Credentials
		wantErr error
	}{
		{name: "unknown email", creds: user.Credentials{Email: "who@test.com", Password: testutil.Password, Role: user.RoleTeacher}, wantErr: core.NewUnauthenticatedError("Incorrect email or password")},
		{name: "wrong password", creds: user.Credentials{Email: "ada@test.com", Password: "nope", Role: user.RoleTeacher}, wantErr: core.NewUnauthenticatedError("Incorrect email or password")},
		{name: "wrong role", creds: user.Credentials{Email: "ada@test.com", Password: testutil.Password, Role: user.RoleStudent}, wantErr: core.NewUnauthenticatedError("This email is registered as teacher, not student")},
		{name: "unverified teacher", creds: user.Credentials{Email: "ada@test.com", Password: testutil.Password, Role: user.RoleTeacher}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := svc.Login(ctx, tt.creds)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ada.ID, sess.User.ID)

			usr, err := svc.Resolve(ctx, sess.AccessToken)
			require.NoError(t, err)
			assert.Equal(t, ada.ID, usr.ID)
		})
	}
}

func TestService_AdminLogin(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	testutil.CreateUser(t, repo, "Mallory", "mallory@test.com", user.RoleAdmin, true)

	_, err := svc.AdminLogin(ctx, "founder@aumryxteach.com", testutil.Password)
	assert.ErrorIs(t, err, core.NewUnauthenticatedError("Invalid admin credentials"), "founder not created yet")

	founder, err := svc.CreateFounder(ctx, "Founder", " Founder@AumryxTeach.com ", testutil.Password)
	require.NoError(t, err)
	assert.Equal(t, user.RoleAdmin, founder.Role)
	assert.Equal(t, "founder@aumryxteach.com", founder.Email)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  bool
	}{
		{name: "not on the allow-list", email: "mallory@test.com", password: testutil.Password, wantErr: true},
		{name: "wrong password", email: "founder@aumryxteach.com", password: "nope", wantErr: true},
		{name: "founder", email: "FOUNDER@aumryxteach.com", password: testutil.Password},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess, err := svc.AdminLogin(ctx, tt.email, tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, core.NewUnauthenticatedError("Invalid admin credentials"))
				return
			}
			require.NoError(t, err)
			assert.True(t, sess.IsAdmin)
			assert.Nil(t, sess.User)

			usr, err := svc.Resolve(ctx, sess.AccessToken)
			require.NoError(t, err)
			assert.True(t, svc.Privileges().IsPrivileged(usr))
		})
	}

	t.Run("reset password", func(t *testing.T) {
		_, err := svc.CreateFounder(ctx, "Founder", "founder@aumryxteach.com", "An0ther-pass")
		require.NoError(t, err)
		_, err = svc.AdminLogin(ctx, "founder@aumryxteach.com", testutil.Password)
		assert.Error(t, err)
		_, err = svc.AdminLogin(ctx, "founder@aumryxteach.com", "An0ther-pass")
		assert.NoError(t, err)
	})

	t.Run("email not allowed", func(t *testing.T) {
		_, err := svc.CreateFounder(ctx, "Mallory", "mallory@test.com", testutil.Password)
		assert.Error(t, err)
	})
}

func TestResolver(t *testing.T) {
	conf := core.NewTestConfig()
	repo := docrepos.NewUserRepository(testutil.NewStore(t))
	codec, err := auth.NewTokenCodec(conf)
	require.NoError(t, err)
	resolver := user.NewResolver(codec, repo)
	ctx := context.Background()

	ada := testutil.CreateUser(t, repo, "Ada", "ada@test.com", user.RoleTeacher, true)
	issue := func(subject string) string {
		token, err := codec.Issue(subject, user.RoleTeacher.String())
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name    string
		token   string
		wantErr bool
	}{
		{name: "empty", token: "", wantErr: true},
		{name: "garbage", token: "not.a.token", wantErr: true},
		{name: "malformed subject", token: issue("ada"), wantErr: true},
		{name: "deleted subject", token: issue(primitive.NewObjectID().Hex()), wantErr: true},
		{name: "valid", token: issue(ada.ID.Hex())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			usr, err := resolver.Resolve(ctx, tt.token)
			if tt.wantErr {
				assert.ErrorIs(t, err, user.ErrCredentials)
				assert.True(t, core.IsKind(err, core.KindUnauthenticated))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, ada.ID, usr.ID)
			assert.Equal(t, "Ada", usr.Name)
		})
	}
}

func TestService_Teachers(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	now := time.Now().UTC()
	ada := testutil.CreateUser(t, repo, "Ada Lovelace", "ada@test.com", user.RoleTeacher, true, now)
	bob := testutil.CreateUser(t, repo, "Bob", "bob@test.com", user.RoleTeacher, false, now.Add(time.Minute))
	cy := testutil.CreateUser(t, repo, "Cy", "cy@test.com", user.RoleStudent, true)
	no := false

	t.Run("directory", func(t *testing.T) {
		teachers, err := svc.QueryTeachers(ctx, user.TeacherQuery{})
		require.NoError(t, err)
		if assert.Len(t, teachers, 1) {
			assert.Equal(t, ada.ID, teachers[0].ID)
		}

		teachers, err = svc.QueryTeachers(ctx, user.TeacherQuery{VerifiedOnly: &no})
		require.NoError(t, err)
		assert.Len(t, teachers, 2)

		teachers, err = svc.QueryTeachers(ctx, user.TeacherQuery{Search: "LOVE"})
		require.NoError(t, err)
		assert.Len(t, teachers, 1)

		teachers, err = svc.QueryTeachers(ctx, user.TeacherQuery{Search: "mathem"})
		require.NoError(t, err)
		assert.Len(t, teachers, 1, "search covers subjects")

		teachers, err = svc.QueryTeachers(ctx, user.TeacherQuery{Subject: "Physics"})
		require.NoError(t, err)
		assert.Empty(t, teachers)
	})

	t.Run("get", func(t *testing.T) {
		_, err := svc.GetTeacher(ctx, cy.ID)
		assert.ErrorIs(t, err, core.NewNotFoundError("Teacher not found"))

		got, err := svc.GetTeacher(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "Bob", got.Name)
	})

	t.Run("update", func(t *testing.T) {
		bio := "Loves numbers"
		_, err := svc.UpdateTeacher(ctx, bob, ada.ID, user.UpdateUser{Bio: &bio})
		assert.ErrorIs(t, err, core.NewForbiddenError("You can only update your own profile"))
		_, err = svc.UpdateTeacher(ctx, ada, ada.ID, user.UpdateUser{})
		assert.ErrorIs(t, err, core.NewInvalidInputError("No fields to update"))

		got, err := svc.UpdateTeacher(ctx, ada, ada.ID, user.UpdateUser{Bio: &bio})
		require.NoError(t, err)
		assert.Equal(t, bio, got.Bio)
		assert.Equal(t, "Ada Lovelace", got.Name)
	})

	t.Run("profile", func(t *testing.T) {
		got, err := svc.SetImageURL(ctx, cy, "https://img.test/cy.png")
		require.NoError(t, err)
		assert.Equal(t, "https://img.test/cy.png", got.ImageURL)

		_, err = svc.SetHourlyRate(ctx, ada, -1)
		assert.ErrorIs(t, err, core.NewInvalidInputError("Hourly rate must be positive"))
		got, err = svc.SetHourlyRate(ctx, ada, 45)
		require.NoError(t, err)
		require.NotNil(t, got.HourlyRate)
		assert.Equal(t, 45.0, *got.HourlyRate)
	})
}
