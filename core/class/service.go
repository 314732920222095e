// Package class manages the classes catalogue.
package class

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
)

var (
	// errors
	ErrNotFound      = errors.New("class not found")
	ErrBelowEnrolled = errors.New("max students below enrolled students")

	errClassNotFound   = core.NewNotFoundError("Class not found")
	errNothingToUpdate = core.NewInvalidInputError("No fields to update")
	errUpdateOwnOnly   = core.NewForbiddenError("You can only update your own classes")
	errDeleteOwnOnly   = core.NewForbiddenError("You can only delete your own classes")
	errCapacityTooLow  = core.NewInvalidInputError("max_students cannot be lower than the number of enrolled students")
)

type (
	Finder interface {
		GetClassByID(ctx context.Context, id primitive.ObjectID) (Class, error)
	}

	Repository interface {
		Finder
		CreateClass(ctx context.Context, c Class) (Class, error)
		FilterClasses(ctx context.Context, filter QueryFilter) ([]Class, error)
		// UpdateClass reports ErrBelowEnrolled if uc lowers MaxStudents under the current EnrolledStudents.
		UpdateClass(ctx context.Context, id primitive.ObjectID, uc UpdateClass, now time.Time) (Class, error)
		DeleteClass(ctx context.Context, id primitive.ObjectID) error
	}

	Service interface {
		Create(ctx context.Context, teacher user.User, nc NewClass) (Class, error)
		Query(ctx context.Context, filter QueryFilter) ([]Class, error)
		Get(ctx context.Context, id primitive.ObjectID) (Class, error)
		Update(ctx context.Context, teacher user.User, id primitive.ObjectID, uc UpdateClass) (Class, error)
		Delete(ctx context.Context, teacher user.User, id primitive.ObjectID) error
		// GetOwned returns the class if it belongs to teacher, Forbidden with msg otherwise.
		GetOwned(ctx context.Context, teacher user.User, id primitive.ObjectID, msg string) (Class, error)
	}

	service struct {
		repo    Repository
		nowFunc func() time.Time // mockable
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{
		repo:    repo,
		nowFunc: func() time.Time { return time.Now().UTC() },
	}
}

// Create publishes a class for a verified teacher.
func (svc *service) Create(ctx context.Context, teacher user.User, nc NewClass) (Class, error) {
	if _, err := user.RequireVerifiedTeacher(teacher); err != nil {
		return Class{}, err
	}

	now := svc.nowFunc()
	c, err := svc.repo.CreateClass(ctx, Class{
		TeacherID:   teacher.ID,
		Title:       nc.Title,
		Subject:     nc.Subject,
		Description: nc.Description,
		Price:       nc.Price,
		Duration:    nc.Duration,
		MaxStudents: nc.MaxStudents,
		Schedule:    nc.Schedule,
		MeetingLink: nc.MeetingLink,
		Status:      StatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	return c, errors.Wrap(err, "creating class")
}

func (svc *service) Query(ctx context.Context, filter QueryFilter) ([]Class, error) {
	classes, err := svc.repo.FilterClasses(ctx, filter)
	return classes, errors.Wrap(err, "querying classes")
}

func (svc *service) Get(ctx context.Context, id primitive.ObjectID) (Class, error) {
	c, err := svc.repo.GetClassByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Class{}, errClassNotFound
		}
		return Class{}, errors.Wrap(err, "finding class by ID")
	}
	return c, nil
}

func (svc *service) GetOwned(ctx context.Context, teacher user.User, id primitive.ObjectID, msg string) (Class, error) {
	return RequireOwned(ctx, svc.repo, teacher, id, msg)
}

// RequireOwned finds class id and checks that it belongs to teacher: NotFound if it does not exist,
// Forbidden with msg if it belongs to someone else.
func RequireOwned(ctx context.Context, finder Finder, teacher user.User, id primitive.ObjectID, msg string) (Class, error) {
	c, err := finder.GetClassByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Class{}, errClassNotFound
		}
		return Class{}, errors.Wrap(err, "finding class by ID")
	}
	if !c.IsOwnedBy(teacher.ID) {
		return Class{}, core.NewForbiddenError(msg)
	}
	return c, nil
}

func (svc *service) Update(ctx context.Context, teacher user.User, id primitive.ObjectID, uc UpdateClass) (Class, error) {
	if _, err := svc.GetOwned(ctx, teacher, id, errUpdateOwnOnly.Error()); err != nil {
		return Class{}, err
	}
	if uc.IsEmpty() {
		return Class{}, errNothingToUpdate
	}

	c, err := svc.repo.UpdateClass(ctx, id, uc, svc.nowFunc())
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return Class{}, errClassNotFound
		case errors.Is(err, ErrBelowEnrolled):
			return Class{}, errCapacityTooLow
		}
		return Class{}, errors.Wrap(err, "updating class")
	}
	return c, nil
}

func (svc *service) Delete(ctx context.Context, teacher user.User, id primitive.ObjectID) error {
	if _, err := svc.GetOwned(ctx, teacher, id, errDeleteOwnOnly.Error()); err != nil {
		return err
	}
	if err := svc.repo.DeleteClass(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return errClassNotFound
		}
		return errors.Wrap(err, "deleting class")
	}
	return nil
}
