package assignment_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/assignment"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/enrollment"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/notification"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database/docrepos"
	"github.com/yashshrivastavagit/Aumryx-Teach/tests"
)

func TestService(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()
	usrRepo := docrepos.NewUserRepository(store)
	classRepo := docrepos.NewClassRepository(store)
	notifier := notification.NewService(docrepos.NewNotificationRepository(store))
	svc := assignment.NewService(docrepos.NewAssignmentRepository(store), notifier, testutil.NewLogger())

	ada := testutil.CreateUser(t, usrRepo, "Ada", "ada@test.com", user.RoleTeacher, true)
	bob := testutil.CreateUser(t, usrRepo, "Bob", "bob@test.com", user.RoleTeacher, true)
	student := testutil.CreateUser(t, usrRepo, "Cy", "cy@test.com", user.RoleStudent, true)
	algebra := testutil.CreateClass(t, classRepo, ada, "Algebra", 100, 10)
	biology := testutil.CreateClass(t, classRepo, bob, "Biology", 100, 10)
	_, err := docrepos.NewEnrollmentRepository(store).CreateEnrollment(ctx, enrollment.Enrollment{
		StudentID: student.ID, ClassID: algebra.ID, TeacherID: ada.ID, Amount: 100,
		EnrolledDate: time.Now().UTC(), Status: enrollment.StatusActive, PaymentStatus: enrollment.PaymentPaid,
	})
	require.NoError(t, err)

	due := time.Date(2030, time.March, 14, 0, 0, 0, 0, time.UTC)
	var homework, draft assignment.Assignment

	t.Run("create", func(t *testing.T) {
		tests := []struct {
			name    string
			usr     user.User
			na      assignment.NewAssignment
			wantErr error
		}{
			{name: "student", usr: student, na: assignment.NewAssignment{ClassID: algebra.ID.Hex()}, wantErr: core.NewForbiddenError("Only teachers can access this resource")},
			{name: "malformed class", usr: ada, na: assignment.NewAssignment{ClassID: "nope"}, wantErr: core.NewInvalidInputError("Invalid class ID")},
			{name: "unknown class", usr: ada, na: assignment.NewAssignment{ClassID: primitive.NewObjectID().Hex()}, wantErr: core.NewNotFoundError("Class not found")},
			{name: "someone else's class", usr: ada, na: assignment.NewAssignment{ClassID: biology.ID.Hex()}, wantErr: core.NewForbiddenError("You can only add assignments to your own classes")},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.Create(ctx, tt.usr, tt.na)
				assert.ErrorIs(t, err, tt.wantErr)
			})
		}

		homework, err = svc.Create(ctx, ada, assignment.NewAssignment{
			Title: "Exercises 1-10", Description: "Chapter 1", ClassID: algebra.ID.Hex(), DueDate: due, TotalMarks: 20,
		})
		require.NoError(t, err)
		assert.Equal(t, assignment.StatusPublished, homework.Status)
		assert.Equal(t, ada.ID, homework.TeacherID)
		assert.True(t, due.Equal(homework.DueDate))
		assert.Empty(t, homework.Attachments)

		draft, err = svc.Create(ctx, ada, assignment.NewAssignment{
			Title: "Quiz", Description: "Surprise", ClassID: algebra.ID.Hex(), DueDate: due, Status: assignment.StatusDraft,
		})
		require.NoError(t, err)

		// drafts stay quiet
		notifs, err := notifier.Query(ctx, student, notification.QueryFilter{})
		require.NoError(t, err)
		if assert.Len(t, notifs, 1) {
			assert.Equal(t, notification.TypeAssignmentDue, notifs[0].Type)
			assert.Equal(t, "New assignment in Algebra", notifs[0].Title)
			assert.Equal(t, "Exercises 1-10 is due on Mar 14, 2030", notifs[0].Message)
		}
	})

	t.Run("list", func(t *testing.T) {
		byClass, err := svc.ListByClass(ctx, algebra.ID)
		require.NoError(t, err)
		assert.Len(t, byClass, 2)

		byTeacher, err := svc.ListByTeacher(ctx, bob.ID)
		require.NoError(t, err)
		assert.Empty(t, byTeacher)
	})

	t.Run("update", func(t *testing.T) {
		closed := assignment.StatusClosed
		marks := 25
		tests := []struct {
			name    string
			usr     user.User
			id      primitive.ObjectID
			ua      assignment.UpdateAssignment
			wantErr error
		}{
			{name: "unknown", usr: ada, id: primitive.NewObjectID(), ua: assignment.UpdateAssignment{Status: &closed}, wantErr: core.NewNotFoundError("Assignment not found")},
			{name: "not the creator", usr: bob, id: homework.ID, ua: assignment.UpdateAssignment{Status: &closed}, wantErr: core.NewForbiddenError("Not authorized to update this assignment")},
			{name: "nothing to update", usr: ada, id: homework.ID, wantErr: core.NewInvalidInputError("No fields to update")},
			{name: "creator", usr: ada, id: homework.ID, ua: assignment.UpdateAssignment{Status: &closed, TotalMarks: &marks}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				a, err := svc.Update(ctx, tt.usr, tt.id, tt.ua)
				if tt.wantErr != nil {
					assert.ErrorIs(t, err, tt.wantErr)
					return
				}
				require.NoError(t, err)
				assert.Equal(t, assignment.StatusClosed, a.Status)
				assert.Equal(t, 25, a.TotalMarks)
				assert.Equal(t, "Exercises 1-10", a.Title)
			})
		}
	})

	t.Run("delete", func(t *testing.T) {
		err := svc.Delete(ctx, bob, draft.ID)
		assert.ErrorIs(t, err, core.NewForbiddenError("Not authorized to delete this assignment"))

		require.NoError(t, svc.Delete(ctx, ada, draft.ID))
		err = svc.Delete(ctx, ada, draft.ID)
		assert.ErrorIs(t, err, core.NewNotFoundError("Assignment not found"))
	})
}
