// Package assignment manages the homework teachers set for their classes.
package assignment

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/class"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/notification"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
)

var (
	// errors
	ErrNotFound = errors.New("assignment not found")

	errAssignmentNotFound = core.NewNotFoundError("Assignment not found")
	errUpdateForbidden    = core.NewForbiddenError("Not authorized to update this assignment")
	errDeleteForbidden    = core.NewForbiddenError("Not authorized to delete this assignment")
	errNothingToUpdate    = core.NewInvalidInputError("No fields to update")

	classForbiddenMsg = "You can only add assignments to your own classes"
)

type (
	Repository interface {
		class.Finder
		CreateAssignment(ctx context.Context, a Assignment) (Assignment, error)
		GetAssignmentByID(ctx context.Context, id primitive.ObjectID) (Assignment, error)
		// QueryAssignments lists assignments newest first. A zero teacherID or classID is ignored.
		QueryAssignments(ctx context.Context, teacherID, classID primitive.ObjectID) ([]Assignment, error)
		UpdateAssignment(ctx context.Context, id primitive.ObjectID, ua UpdateAssignment, now time.Time) (Assignment, error)
		DeleteAssignment(ctx context.Context, id primitive.ObjectID) error
		ActiveStudentIDs(ctx context.Context, classID primitive.ObjectID) ([]primitive.ObjectID, error)
	}

	Service interface {
		Create(ctx context.Context, teacher user.User, na NewAssignment) (Assignment, error)
		ListByClass(ctx context.Context, classID primitive.ObjectID) ([]Assignment, error)
		ListByTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]Assignment, error)
		Update(ctx context.Context, teacher user.User, id primitive.ObjectID, ua UpdateAssignment) (Assignment, error)
		Delete(ctx context.Context, teacher user.User, id primitive.ObjectID) error
	}

	service struct {
		repo     Repository
		notifier notification.Service
		logger   core.Logger
		nowFunc  func() time.Time // mockable
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, notifier notification.Service, logger core.Logger) Service {
	return &service{
		repo:     repo,
		notifier: notifier,
		logger:   logger,
		nowFunc:  func() time.Time { return time.Now().UTC() },
	}
}

func (svc *service) Create(ctx context.Context, teacher user.User, na NewAssignment) (Assignment, error) {
	if _, err := user.RequireRole(teacher, user.RoleTeacher); err != nil {
		return Assignment{}, err
	}
	classID, err := core.ParseID(na.ClassID, "class")
	if err != nil {
		return Assignment{}, err
	}
	c, err := class.RequireOwned(ctx, svc.repo, teacher, classID, classForbiddenMsg)
	if err != nil {
		return Assignment{}, err
	}

	now := svc.nowFunc()
	a := Assignment{
		Title:       na.Title,
		Description: na.Description,
		ClassID:     classID,
		TeacherID:   teacher.ID,
		DueDate:     na.DueDate.UTC(),
		TotalMarks:  na.TotalMarks,
		Status:      na.Status,
		Attachments: na.Attachments,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if a.Status == "" {
		a.Status = StatusPublished
	}
	if a.Attachments == nil {
		a.Attachments = []string{}
	}

	if a, err = svc.repo.CreateAssignment(ctx, a); err != nil {
		return Assignment{}, errors.Wrap(err, "creating assignment")
	}
	if a.Status == StatusPublished {
		svc.announce(ctx, teacher, c, a)
	}
	return a, nil
}

// announce tells the students of the class about the new assignment. Failures are logged, never returned.
func (svc *service) announce(ctx context.Context, teacher user.User, c class.Class, a Assignment) {
	studentIDs, err := svc.repo.ActiveStudentIDs(ctx, c.ID)
	if err != nil {
		svc.logger.Error("finding class students", err, teacher)
		return
	}
	for _, id := range studentIDs {
		_, err = svc.notifier.Notify(ctx, notification.NewNotification{
			UserID:   id,
			UserType: user.RoleStudent.String(),
			Type:     notification.TypeAssignmentDue,
			Title:    "New assignment in " + c.Title,
			Message:  a.Title + " is due on " + a.DueDate.Format("Jan 2, 2006"),
			Link:     "/student/classes/" + c.ID.Hex() + "/assignments",
		})
		if err != nil {
			svc.logger.Error("notifying new assignment", err, teacher)
		}
	}
}

func (svc *service) ListByClass(ctx context.Context, classID primitive.ObjectID) ([]Assignment, error) {
	assignments, err := svc.repo.QueryAssignments(ctx, primitive.NilObjectID, classID)
	return assignments, errors.Wrap(err, "querying assignments")
}

func (svc *service) ListByTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]Assignment, error) {
	assignments, err := svc.repo.QueryAssignments(ctx, teacherID, primitive.NilObjectID)
	return assignments, errors.Wrap(err, "querying assignments")
}

func (svc *service) getOwned(ctx context.Context, teacher user.User, id primitive.ObjectID, forbidden error) (Assignment, error) {
	a, err := svc.repo.GetAssignmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Assignment{}, errAssignmentNotFound
		}
		return Assignment{}, errors.Wrap(err, "finding assignment by ID")
	}
	if a.TeacherID != teacher.ID {
		return Assignment{}, forbidden
	}
	return a, nil
}

func (svc *service) Update(ctx context.Context, teacher user.User, id primitive.ObjectID, ua UpdateAssignment) (Assignment, error) {
	if _, err := svc.getOwned(ctx, teacher, id, errUpdateForbidden); err != nil {
		return Assignment{}, err
	}
	if ua.IsEmpty() {
		return Assignment{}, errNothingToUpdate
	}
	a, err := svc.repo.UpdateAssignment(ctx, id, ua, svc.nowFunc())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Assignment{}, errAssignmentNotFound
		}
		return Assignment{}, errors.Wrap(err, "updating assignment")
	}
	return a, nil
}

func (svc *service) Delete(ctx context.Context, teacher user.User, id primitive.ObjectID) error {
	if _, err := svc.getOwned(ctx, teacher, id, errDeleteForbidden); err != nil {
		return err
	}
	if err := svc.repo.DeleteAssignment(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return errAssignmentNotFound
		}
		return errors.Wrap(err, "deleting assignment")
	}
	return nil
}
