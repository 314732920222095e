// Package attendance records which students attended which class sessions.
package attendance

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/class"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
)

var (
	// errors
	ErrAlreadyMarked = errors.New("attendance already marked")

	errAlreadyMarked = core.NewConflictError("Attendance already marked for this date")
	errNotEnrolled   = core.NewInvalidInputError("Student is not enrolled in this class")
	errInvalidDate   = core.NewInvalidInputError("date must be formatted as YYYY-MM-DD")
	errOwnRecords    = core.NewForbiddenError("You can only view your own attendance")

	markForbiddenMsg = "You can only mark attendance for your own classes"
	viewForbiddenMsg = "You can only view attendance of your own classes"
)

type (
	Repository interface {
		class.Finder
		// HasEnrollment reports whether the student ever enrolled in the class.
		HasEnrollment(ctx context.Context, studentID, classID primitive.ObjectID) (bool, error)
		// CreateRecord reports ErrAlreadyMarked if the (class, student, date) record exists.
		CreateRecord(ctx context.Context, r Record) (Record, error)
		// QueryRecords lists records latest day first.
		QueryRecords(ctx context.Context, filter QueryFilter) ([]Record, error)
	}

	Service interface {
		Mark(ctx context.Context, teacher user.User, nr NewRecord) (Record, error)
		ListByClass(ctx context.Context, teacher user.User, classID primitive.ObjectID) ([]Record, error)
		// ListByStudent lets students read their own records and teachers the records they marked.
		ListByStudent(ctx context.Context, actor user.User, studentID primitive.ObjectID) ([]Record, error)
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

func (svc *service) Mark(ctx context.Context, teacher user.User, nr NewRecord) (Record, error) {
	if _, err := user.RequireRole(teacher, user.RoleTeacher); err != nil {
		return Record{}, err
	}
	classID, err := core.ParseID(nr.ClassID, "class")
	if err != nil {
		return Record{}, err
	}
	studentID, err := core.ParseID(nr.StudentID, "student")
	if err != nil {
		return Record{}, err
	}
	day, err := time.Parse(DateLayout, nr.Date)
	if err != nil {
		return Record{}, errInvalidDate
	}
	if _, err = class.RequireOwned(ctx, svc.repo, teacher, classID, markForbiddenMsg); err != nil {
		return Record{}, err
	}

	enrolled, err := svc.repo.HasEnrollment(ctx, studentID, classID)
	if err != nil {
		return Record{}, errors.Wrap(err, "checking enrollment")
	}
	if !enrolled {
		return Record{}, errNotEnrolled
	}

	r, err := svc.repo.CreateRecord(ctx, Record{
		ClassID:   classID,
		StudentID: studentID,
		Date:      day.Format(DateLayout),
		Status:    nr.Status,
		Notes:     nr.Notes,
		CreatedBy: teacher.ID,
		CreatedAt: svc.nowFunc(),
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyMarked) {
			return Record{}, errAlreadyMarked
		}
		return Record{}, errors.Wrap(err, "creating attendance record")
	}
	return r, nil
}

func (svc *service) ListByClass(ctx context.Context, teacher user.User, classID primitive.ObjectID) ([]Record, error) {
	if _, err := user.RequireRole(teacher, user.RoleTeacher); err != nil {
		return nil, err
	}
	if _, err := class.RequireOwned(ctx, svc.repo, teacher, classID, viewForbiddenMsg); err != nil {
		return nil, err
	}
	records, err := svc.repo.QueryRecords(ctx, QueryFilter{ClassID: classID})
	return records, errors.Wrap(err, "querying attendance")
}

func (svc *service) ListByStudent(ctx context.Context, actor user.User, studentID primitive.ObjectID) ([]Record, error) {
	filter := QueryFilter{StudentID: studentID}
	switch {
	case actor.IsStudent():
		if actor.ID != studentID {
			return nil, errOwnRecords
		}
	case actor.IsTeacher():
		filter.CreatedBy = actor.ID
	}
	records, err := svc.repo.QueryRecords(ctx, filter)
	return records, errors.Wrap(err, "querying attendance")
}
