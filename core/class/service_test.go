package class_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/class"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database/docrepos"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database/inmem"
	"github.com/yashshrivastavagit/Aumryx-Teach/tests"
)

type fixture struct {
	store *inmem.Store
	svc   class.Service
	repo  class.Repository
	users user.Repository
}

func setup(t *testing.T) fixture {
	store := testutil.NewStore(t)
	repo := docrepos.NewClassRepository(store)
	return fixture{
		store: store,
		svc:   class.NewService(repo),
		repo:  repo,
		users: docrepos.NewUserRepository(store),
	}
}

func newClass() class.NewClass {
	return class.NewClass{
		Title:       "Advanced Mathematics for Class 12",
		Subject:     "Mathematics",
		Description: "Calculus and algebra",
		Price:       800,
		Duration:    "3 months",
		MaxStudents: 20,
		Schedule:    "Mon, Wed 18:00",
		MeetingLink: "https://meet.example.com/abc",
	}
}

func TestService_Create(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	verified := testutil.CreateUser(t, f.users, "Ada", "ada@test.com", user.RoleTeacher, true)
	unverified := testutil.CreateUser(t, f.users, "Bob", "bob@test.com", user.RoleTeacher, false)
	student := testutil.CreateUser(t, f.users, "Cy", "cy@test.com", user.RoleStudent, true)

	tests := []struct {
		name    string
		usr     user.User
		wantErr error
	}{
		{name: "student", usr: student, wantErr: core.NewForbiddenError("Only teachers can access this resource")},
		{name: "unverified teacher", usr: unverified, wantErr: core.NewForbiddenError("Teacher account is not verified yet")},
		{name: "verified teacher", usr: verified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := f.svc.Create(ctx, tt.usr, newClass())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.False(t, c.ID.IsZero())
			assert.Equal(t, tt.usr.ID, c.TeacherID)
			assert.Equal(t, class.StatusActive, c.Status)
			assert.Zero(t, c.EnrolledStudents)
			assert.Equal(t, 20, c.MaxStudents)
		})
	}
}

func TestNewClass_Validate(t *testing.T) {
	validate := newValidator()

	tests := []struct {
		name    string
		modify  func(nc *class.NewClass)
		wantErr bool
	}{
		{name: "valid", modify: func(nc *class.NewClass) {}},
		{name: "free class", modify: func(nc *class.NewClass) { nc.Price = 0 }},
		{name: "blank title", modify: func(nc *class.NewClass) { nc.Title = "  " }, wantErr: true},
		{name: "negative price", modify: func(nc *class.NewClass) { nc.Price = -1 }, wantErr: true},
		{name: "no seats", modify: func(nc *class.NewClass) { nc.MaxStudents = 0 }, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nc := newClass()
			tt.modify(&nc)
			err := nc.Validate(validate)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestQuery_Filter(t *testing.T) {
	teacherID := primitive.NewObjectID()

	tests := []struct {
		name    string
		query   class.Query
		want    class.QueryFilter
		wantErr bool
	}{
		{name: "defaults to active", want: class.QueryFilter{Status: class.StatusActive}},
		{
			name:  "all set",
			query: class.Query{TeacherID: teacherID.Hex(), Subject: " math ", Status: "INACTIVE"},
			want:  class.QueryFilter{TeacherID: teacherID, Subject: "math", Status: class.StatusInactive},
		},
		{name: "malformed teacher id", query: class.Query{TeacherID: "lol"}, wantErr: true},
		{name: "unknown status", query: class.Query{Status: "archived"}, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.query.Filter()
			if tt.wantErr {
				assert.True(t, core.IsKind(err, core.KindInvalidInput), "error: %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Query(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	now := time.Now()

	ada := testutil.CreateUser(t, f.users, "Ada", "ada@test.com", user.RoleTeacher, true)
	bob := testutil.CreateUser(t, f.users, "Bob", "bob@test.com", user.RoleTeacher, true)
	algebra := testutil.CreateClass(t, f.repo, ada, "Algebra", 100, 10, now.Add(-3*time.Hour))
	geometry := testutil.CreateClass(t, f.repo, ada, "Geometry", 100, 10, now.Add(-2*time.Hour))
	biology := testutil.CreateClass(t, f.repo, bob, "Biology", 100, 10, now.Add(-1*time.Hour))
	inactive := class.StatusInactive
	_, err := f.repo.UpdateClass(ctx, geometry.ID, class.UpdateClass{Status: &inactive}, now)
	require.NoError(t, err)
	_, err = f.store.Collection(database.Classes).UpdateOne(ctx,
		bson.M{"_id": biology.ID}, bson.M{"$set": bson.M{"subject": "Life Sciences"}},
	)
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter class.QueryFilter
		want   []primitive.ObjectID
	}{
		{name: "active", filter: class.QueryFilter{Status: class.StatusActive}, want: []primitive.ObjectID{biology.ID, algebra.ID}},
		{name: "inactive", filter: class.QueryFilter{Status: class.StatusInactive}, want: []primitive.ObjectID{geometry.ID}},
		{name: "by teacher", filter: class.QueryFilter{TeacherID: ada.ID, Status: class.StatusActive}, want: []primitive.ObjectID{algebra.ID}},
		{name: "subject ignores case", filter: class.QueryFilter{Subject: "SCIENCE", Status: class.StatusActive}, want: []primitive.ObjectID{biology.ID}},
		{name: "subject is not a pattern", filter: class.QueryFilter{Subject: "Math.*", Status: class.StatusActive}, want: []primitive.ObjectID{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			classes, err := f.svc.Query(ctx, tt.filter)
			require.NoError(t, err)
			got := make([]primitive.ObjectID, 0, len(classes))
			for _, c := range classes {
				got = append(got, c.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestService_Update(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	ada := testutil.CreateUser(t, f.users, "Ada", "ada@test.com", user.RoleTeacher, true)
	bob := testutil.CreateUser(t, f.users, "Bob", "bob@test.com", user.RoleTeacher, true)
	c := testutil.CreateClass(t, f.repo, ada, "Algebra", 100, 10)
	_, err := f.store.Collection(database.Classes).UpdateOne(ctx,
		bson.M{"_id": c.ID}, bson.M{"$set": bson.M{"enrolled_students": 4}},
	)
	require.NoError(t, err)

	title := "Linear Algebra"
	three, four := 3, 4

	tests := []struct {
		name    string
		usr     user.User
		id      primitive.ObjectID
		uc      class.UpdateClass
		wantErr error
	}{
		{name: "unknown class", usr: ada, id: primitive.NewObjectID(), uc: class.UpdateClass{Title: &title}, wantErr: core.NewNotFoundError("Class not found")},
		{name: "not the owner", usr: bob, id: c.ID, uc: class.UpdateClass{Title: &title}, wantErr: core.NewForbiddenError("You can only update your own classes")},
		{name: "nothing to update", usr: ada, id: c.ID, wantErr: core.NewInvalidInputError("No fields to update")},
		{
			name: "capacity below enrolled", usr: ada, id: c.ID, uc: class.UpdateClass{MaxStudents: &three},
			wantErr: core.NewInvalidInputError("max_students cannot be lower than the number of enrolled students"),
		},
		{name: "capacity at enrolled", usr: ada, id: c.ID, uc: class.UpdateClass{MaxStudents: &four, Title: &title}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.Update(ctx, tt.usr, tt.id, tt.uc)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Linear Algebra", got.Title)
			assert.Equal(t, 4, got.MaxStudents)
			assert.True(t, got.IsFull())
		})
	}
}

func TestService_Delete(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	ada := testutil.CreateUser(t, f.users, "Ada", "ada@test.com", user.RoleTeacher, true)
	bob := testutil.CreateUser(t, f.users, "Bob", "bob@test.com", user.RoleTeacher, true)
	c := testutil.CreateClass(t, f.repo, ada, "Algebra", 100, 10)

	err := f.svc.Delete(ctx, bob, c.ID)
	assert.ErrorIs(t, err, core.NewForbiddenError("You can only delete your own classes"))

	require.NoError(t, f.svc.Delete(ctx, ada, c.ID))

	_, err = f.svc.Get(ctx, c.ID)
	assert.ErrorIs(t, err, core.NewNotFoundError("Class not found"))
	err = f.svc.Delete(ctx, ada, c.ID)
	assert.True(t, core.IsKind(err, core.KindNotFound))
}
