package rating_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/enrollment"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/rating"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database/docrepos"
	"github.com/yashshrivastavagit/Aumryx-Teach/tests"
)

func TestAverage(t *testing.T) {
	scores := func(s ...int) []rating.Rating {
		ratings := make([]rating.Rating, 0, len(s))
		for _, n := range s {
			ratings = append(ratings, rating.Rating{Rating: n})
		}
		return ratings
	}

	tests := []struct {
		name      string
		ratings   []rating.Rating
		wantAvg   float64
		wantCount int
	}{
		{name: "none", wantAvg: 0, wantCount: 0},
		{name: "one", ratings: scores(4), wantAvg: 4, wantCount: 1},
		{name: "rounded down", ratings: scores(5, 4, 4), wantAvg: 4.33, wantCount: 3},
		{name: "rounded up", ratings: scores(5, 5, 4), wantAvg: 4.67, wantCount: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			avg, count := rating.Average(tt.ratings)
			assert.Equal(t, tt.wantAvg, avg)
			assert.Equal(t, tt.wantCount, count)
		})
	}
}

func TestService_Rate(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	usrRepo := docrepos.NewUserRepository(store)
	classRepo := docrepos.NewClassRepository(store)
	enrollRepo := docrepos.NewEnrollmentRepository(store)
	svc := rating.NewService(docrepos.NewRatingRepository(store))

	teacher := testutil.CreateUser(t, usrRepo, "Ada", "ada@test.com", user.RoleTeacher, true)
	other := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.com", user.RoleTeacher, true)
	c := testutil.CreateClass(t, classRepo, teacher, "Algebra", 100, 10)

	students := make([]user.User, 3)
	for i := range students {
		students[i] = testutil.CreateUser(t, usrRepo, fmt.Sprintf("S%d", i), fmt.Sprintf("s%d@test.com", i), user.RoleStudent, true)
		_, err := enrollRepo.CreateEnrollment(ctx, enrollment.Enrollment{
			StudentID: students[i].ID, ClassID: c.ID, TeacherID: teacher.ID, Amount: c.Price,
			EnrolledDate: time.Now().UTC(), Status: enrollment.StatusActive, PaymentStatus: enrollment.PaymentPaid,
		})
		require.NoError(t, err)
	}
	outsider := testutil.CreateUser(t, usrRepo, "Out", "out@test.com", user.RoleStudent, true)

	nr := func(teacherID, classID primitive.ObjectID, score int) rating.NewRating {
		return rating.NewRating{TeacherID: teacherID.Hex(), ClassID: classID.Hex(), Rating: score, Review: "Great"}
	}

	tests := []struct {
		name    string
		usr     user.User
		nr      rating.NewRating
		wantErr error
	}{
		{name: "teacher", usr: teacher, nr: nr(teacher.ID, c.ID, 5), wantErr: core.NewForbiddenError("Only students can access this resource")},
		{name: "malformed teacher id", usr: students[0], nr: rating.NewRating{TeacherID: "lol", ClassID: c.ID.Hex(), Rating: 5}, wantErr: core.NewInvalidInputError("Invalid teacher ID")},
		{name: "unknown class", usr: students[0], nr: nr(teacher.ID, primitive.NewObjectID(), 5), wantErr: core.NewNotFoundError("Class not found")},
		{name: "wrong teacher", usr: students[0], nr: nr(other.ID, c.ID, 5), wantErr: core.NewForbiddenError("This class is not taught by this teacher")},
		{name: "not enrolled", usr: outsider, nr: nr(teacher.ID, c.ID, 5), wantErr: core.NewForbiddenError("You can only rate classes you are enrolled in")},
		{name: "first", usr: students[0], nr: nr(teacher.ID, c.ID, 5)},
		{name: "again", usr: students[0], nr: nr(teacher.ID, c.ID, 1), wantErr: core.NewConflictError("You have already rated this teacher for this class")},
		{name: "second", usr: students[1], nr: nr(teacher.ID, c.ID, 4)},
		{name: "third", usr: students[2], nr: nr(teacher.ID, c.ID, 4)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := svc.Rate(ctx, tt.usr, tt.nr)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.usr.ID, r.StudentID)
			assert.Equal(t, tt.nr.Rating, r.Rating)
		})
	}

	usr, err := usrRepo.GetUserByID(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.33, usr.Rating)

	ratings, err := svc.ListForTeacher(ctx, teacher.ID)
	require.NoError(t, err)
	assert.Len(t, ratings, 3)
	ratings, err = svc.ListForTeacher(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, ratings)
}
