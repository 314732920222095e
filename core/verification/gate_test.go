package verification_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/notification"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/verification"
	"github.com/yashshrivastavagit/Aumryx-Teach/services/email"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database/docrepos"
	"github.com/yashshrivastavagit/Aumryx-Teach/tests"
)

type fixture struct {
	gate     verification.Gate
	users    user.Repository
	notifier notification.Service
}

func setup(t *testing.T) fixture {
	store := testutil.NewStore(t)
	usrRepo := docrepos.NewUserRepository(store)
	notifier := notification.NewService(docrepos.NewNotificationRepository(store))
	logger := testutil.NewLogger()
	mailSvc := emailsvc.NewConsoleServiceMock(core.NewTestConfig(), logger)
	emailsvc.ResetSentMessages()

	return fixture{
		gate:     verification.NewGate(usrRepo, notifier, mailSvc, logger),
		users:    usrRepo,
		notifier: notifier,
	}
}

func TestGate_Verify(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	teacher := testutil.CreateUser(t, f.users, "Ada Teacher", "ada@test.com", user.RoleTeacher, false)
	verified := testutil.CreateUser(t, f.users, "Bob Teacher", "bob@test.com", user.RoleTeacher, true)
	student := testutil.CreateUser(t, f.users, "Cy Student", "cy@test.com", user.RoleStudent, true)

	tests := []struct {
		name     string
		id       primitive.ObjectID
		wantKind core.ErrorKind
	}{
		{name: "unknown id", id: primitive.NewObjectID(), wantKind: core.KindNotFound},
		{name: "student", id: student.ID, wantKind: core.KindNotFound},
		{name: "already verified", id: verified.ID, wantKind: core.KindConflict},
		{name: "unverified teacher", id: teacher.ID},
		{name: "verified twice", id: teacher.ID, wantKind: core.KindConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.gate.Verify(ctx, tt.id)
			if tt.wantKind == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantKind, core.KindOf(err), "error: %v", err)
		})
	}

	usr, err := f.users.GetUserByID(ctx, teacher.ID)
	require.NoError(t, err)
	assert.True(t, usr.Verified)

	// side effects: one notification and one email, for the one successful transition
	notifs, err := f.notifier.Query(ctx, teacher, notification.QueryFilter{})
	require.NoError(t, err)
	if assert.Len(t, notifs, 1) {
		assert.Equal(t, notification.TypeMessage, notifs[0].Type)
		assert.False(t, notifs[0].Read)
	}
	msgs := emailsvc.SentMessages()
	if assert.Len(t, msgs, 1) {
		assert.Equal(t, "ada@test.com", msgs[0].To[0].Address)
		assert.Contains(t, msgs[0].TextContent, "Hi Ada Teacher")
		assert.Contains(t, msgs[0].HTMLContent, "http://localhost:3000/teacher/dashboard")
	}
}

func TestGate_Unverify(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	verified := testutil.CreateUser(t, f.users, "Ada Teacher", "ada@test.com", user.RoleTeacher, true)
	student := testutil.CreateUser(t, f.users, "Cy Student", "cy@test.com", user.RoleStudent, true)

	tests := []struct {
		name     string
		id       primitive.ObjectID
		wantKind core.ErrorKind
	}{
		{name: "unknown id", id: primitive.NewObjectID(), wantKind: core.KindNotFound},
		{name: "student", id: student.ID, wantKind: core.KindNotFound},
		{name: "verified teacher", id: verified.ID},
		{name: "idempotent", id: verified.ID},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := f.gate.Unverify(ctx, tt.id)
			if tt.wantKind == 0 {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.wantKind, core.KindOf(err), "error: %v", err)
		})
	}

	usr, err := f.users.GetUserByID(ctx, verified.ID)
	require.NoError(t, err)
	assert.False(t, usr.Verified)

	usr, err = f.users.GetUserByID(ctx, student.ID)
	require.NoError(t, err)
	assert.True(t, usr.Verified, "students are never unverified")
}

func TestGate_Toggle(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	teacher := testutil.CreateUser(t, f.users, "Ada Teacher", "ada@test.com", user.RoleTeacher, false)

	require.NoError(t, f.gate.Verify(ctx, teacher.ID))
	require.NoError(t, f.gate.Unverify(ctx, teacher.ID))
	require.NoError(t, f.gate.Verify(ctx, teacher.ID))

	usr, err := f.users.GetUserByID(ctx, teacher.ID)
	require.NoError(t, err)
	assert.True(t, usr.Verified)
	assert.Len(t, emailsvc.SentMessages(), 2)
}

func TestGate_Listings(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	now := time.Now()

	t1 := testutil.CreateUser(t, f.users, "First", "first@test.com", user.RoleTeacher, false, now.Add(-3*time.Hour))
	t2 := testutil.CreateUser(t, f.users, "Second", "second@test.com", user.RoleTeacher, false, now.Add(-2*time.Hour))
	t3 := testutil.CreateUser(t, f.users, "Third", "third@test.com", user.RoleTeacher, true, now.Add(-1*time.Hour))
	testutil.CreateUser(t, f.users, "Student", "student@test.com", user.RoleStudent, true)

	ids := func(users []user.User) []primitive.ObjectID {
		res := make([]primitive.ObjectID, 0, len(users))
		for _, u := range users {
			res = append(res, u.ID)
		}
		return res
	}

	pending, err := f.gate.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{t1.ID, t2.ID}, ids(pending), "oldest first")

	all, err := f.gate.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{t3.ID, t2.ID, t1.ID}, ids(all), "newest first")

	// a verified teacher leaves the pending list and joins the public directory
	require.NoError(t, f.gate.Verify(ctx, t1.ID))
	pending, err = f.gate.Pending(ctx)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{t2.ID}, ids(pending))

	verifiedOnly := true
	directory, err := f.users.FilterUsers(ctx, user.TeacherQuery{VerifiedOnly: &verifiedOnly}.Filter())
	require.NoError(t, err)
	assert.ElementsMatch(t, []primitive.ObjectID{t1.ID, t3.ID}, ids(directory))
}
