// Package enrollment is the ledger admitting students into classes.
package enrollment

import (
	"context"
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/class"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/notification"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
)

// a seat reservation is retried when the class capacity changed under it
const maxReserveAttempts = 3

var (
	// errors
	ErrNotFound        = errors.New("enrollment not found")
	ErrAlreadyEnrolled = errors.New("active enrollment already exists")

	errClassNotFound      = core.NewNotFoundError("Class not found")
	errClassFull          = core.NewConflictError("Class is full")
	errAlreadyEnrolled    = core.NewConflictError("Already enrolled in this class")
	errEnrollmentNotFound = core.NewNotFoundError("Enrollment not found")
	errOwnEnrollmentsOnly = core.NewForbiddenError("You can only view your own enrollments")
	errNoAccess           = core.NewForbiddenError("You don't have access to this enrollment")
)

type (
	Repository interface {
		class.Finder
		// ReserveSeat increments the class enrolled_students if it is still below capacity and
		// max_students still equals capacity. It reports whether a seat was taken.
		ReserveSeat(ctx context.Context, classID primitive.ObjectID, capacity int) (bool, error)
		ReleaseSeat(ctx context.Context, classID primitive.ObjectID) error
		// CreateEnrollment reports ErrAlreadyEnrolled if the student holds an active enrollment in the class.
		CreateEnrollment(ctx context.Context, e Enrollment) (Enrollment, error)
		HasActiveEnrollment(ctx context.Context, studentID, classID primitive.ObjectID) (bool, error)
		IncrementStudentsCount(ctx context.Context, teacherID primitive.ObjectID, delta int) error
		GetEnrollmentByID(ctx context.Context, id primitive.ObjectID) (Enrollment, error)
		FilterEnrollments(ctx context.Context, filter QueryFilter) ([]Enrollment, error)
	}

	Service interface {
		// Enroll admits student into the class. Payment is mocked as paid.
		Enroll(ctx context.Context, student user.User, classID primitive.ObjectID) (Enrollment, error)
		ListForStudent(ctx context.Context, actor user.User, studentID primitive.ObjectID) ([]Enrollment, error)
		ListForTeacher(ctx context.Context, actor user.User, teacherID primitive.ObjectID) ([]Enrollment, error)
		Get(ctx context.Context, actor user.User, id primitive.ObjectID) (Enrollment, error)
	}

	service struct {
		repo     Repository
		notifier notification.Service
		mailSvc  core.EmailService
		logger   core.Logger
		nowFunc  func() time.Time // mockable
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository, notifier notification.Service, mailSvc core.EmailService, logger core.Logger) Service {
	return &service{
		repo:     repo,
		notifier: notifier,
		mailSvc:  mailSvc,
		logger:   logger,
		nowFunc:  func() time.Time { return time.Now().UTC() },
	}
}

func (svc *service) Enroll(ctx context.Context, student user.User, classID primitive.ObjectID) (Enrollment, error) {
	if _, err := user.RequireRole(student, user.RoleStudent); err != nil {
		return Enrollment{}, err
	}

	c, err := svc.getClass(ctx, classID)
	if err != nil {
		return Enrollment{}, err
	}
	// a student re-enrolling in a class they filled is told they are enrolled, not that it is full
	enrolled, err := svc.repo.HasActiveEnrollment(ctx, student.ID, c.ID)
	if err != nil {
		return Enrollment{}, errors.Wrap(err, "checking enrollment")
	}
	if enrolled {
		return Enrollment{}, errAlreadyEnrolled
	}
	if c.IsFull() {
		return Enrollment{}, errClassFull
	}

	if c, err = svc.reserveSeat(ctx, c); err != nil {
		return Enrollment{}, err
	}

	e, err := svc.repo.CreateEnrollment(ctx, Enrollment{
		StudentID:     student.ID,
		ClassID:       c.ID,
		TeacherID:     c.TeacherID,
		Amount:        c.Price,
		EnrolledDate:  svc.nowFunc(),
		Status:        StatusActive,
		PaymentStatus: PaymentPaid,
	})
	if err != nil {
		if rerr := svc.repo.ReleaseSeat(ctx, c.ID); rerr != nil {
			svc.logger.Error("releasing seat", errors.Wrap(rerr, "releasing seat"), student)
		}
		if errors.Is(err, ErrAlreadyEnrolled) {
			return Enrollment{}, errAlreadyEnrolled
		}
		return Enrollment{}, errors.Wrap(err, "creating enrollment")
	}

	// the enrollment stands even if the teacher counter could not be moved
	if err = svc.repo.IncrementStudentsCount(ctx, c.TeacherID, 1); err != nil {
		svc.logger.Error("incrementing teacher students count", err, student)
	}

	svc.announce(ctx, student, c, e)
	return e, nil
}

func (svc *service) getClass(ctx context.Context, id primitive.ObjectID) (class.Class, error) {
	c, err := svc.repo.GetClassByID(ctx, id)
	if err != nil {
		if errors.Is(err, class.ErrNotFound) {
			return class.Class{}, errClassNotFound
		}
		return class.Class{}, errors.Wrap(err, "finding class by ID")
	}
	return c, nil
}

// reserveSeat takes a seat in c, re-reading the class when its capacity moved concurrently.
func (svc *service) reserveSeat(ctx context.Context, c class.Class) (class.Class, error) {
	for attempt := 0; attempt < maxReserveAttempts; attempt++ {
		ok, err := svc.repo.ReserveSeat(ctx, c.ID, c.MaxStudents)
		if err != nil {
			return class.Class{}, errors.Wrap(err, "reserving seat")
		}
		if ok {
			return c, nil
		}
		if c, err = svc.getClass(ctx, c.ID); err != nil {
			return class.Class{}, err
		}
		if c.IsFull() {
			break
		}
	}
	return class.Class{}, errClassFull
}

// announce notifies both parties and emails the student. Failures are logged, never returned.
func (svc *service) announce(ctx context.Context, student user.User, c class.Class, e Enrollment) {
	link := "/student/classes/" + c.ID.Hex()
	notifs := []notification.NewNotification{
		{
			UserID:   student.ID,
			UserType: user.RoleStudent.String(),
			Type:     notification.TypeEnrollment,
			Title:    "Enrollment confirmed",
			Message:  fmt.Sprintf("You are enrolled in %s.", c.Title),
			Link:     link,
		},
		{
			UserID:   c.TeacherID,
			UserType: user.RoleTeacher.String(),
			Type:     notification.TypeEnrollment,
			Title:    "New enrollment",
			Message:  fmt.Sprintf("%s enrolled in %s.", student.Name, c.Title),
			Link:     "/teacher/classes/" + c.ID.Hex(),
		},
	}
	for _, nn := range notifs {
		if _, err := svc.notifier.Notify(ctx, nn); err != nil {
			svc.logger.Error("notifying enrollment", err, student)
		}
	}

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: student.Name, Address: student.Email}},
		Subject:      "Enrollment confirmed: " + c.Title,
		TextTemplate: enrolledMailText,
		HTMLTemplate: enrolledMailHTML,
		TemplateData: map[string]interface{}{
			"Name":       student.Name,
			"Class":      c,
			"Enrollment": e,
			"Link":       link,
		},
	})
}

func (svc *service) ListForStudent(ctx context.Context, actor user.User, studentID primitive.ObjectID) ([]Enrollment, error) {
	if actor.IsStudent() && actor.ID != studentID {
		return nil, errOwnEnrollmentsOnly
	}
	enrollments, err := svc.repo.FilterEnrollments(ctx, QueryFilter{StudentID: studentID})
	return enrollments, errors.Wrap(err, "querying student enrollments")
}

func (svc *service) ListForTeacher(ctx context.Context, actor user.User, teacherID primitive.ObjectID) ([]Enrollment, error) {
	if actor.IsTeacher() && actor.ID != teacherID {
		return nil, errOwnEnrollmentsOnly
	}
	enrollments, err := svc.repo.FilterEnrollments(ctx, QueryFilter{TeacherID: teacherID})
	return enrollments, errors.Wrap(err, "querying teacher enrollments")
}

func (svc *service) Get(ctx context.Context, actor user.User, id primitive.ObjectID) (Enrollment, error) {
	e, err := svc.repo.GetEnrollmentByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Enrollment{}, errEnrollmentNotFound
		}
		return Enrollment{}, errors.Wrap(err, "finding enrollment by ID")
	}
	if !e.IsParty(actor.ID) {
		return Enrollment{}, errNoAccess
	}
	return e, nil
}

const enrolledMailText = `Hi {{.Data.Name}},

You are enrolled in "{{.Data.Class.Title}}" ({{.Data.Class.Subject}}).

Schedule: {{.Data.Class.Schedule}}
Duration: {{.Data.Class.Duration}}
Amount paid: {{printf "%.2f" .Data.Enrollment.Amount}}
Meeting link: {{.Data.Class.MeetingLink}}

{{.FrontendBaseURL}}{{.Data.Link}}

The {{.AppName}} team
`

const enrolledMailHTML = `<p>Hi {{.Data.Name}},</p>
<p>You are enrolled in <strong>{{.Data.Class.Title}}</strong> ({{.Data.Class.Subject}}).</p>
<ul>
  <li>Schedule: {{.Data.Class.Schedule}}</li>
  <li>Duration: {{.Data.Class.Duration}}</li>
  <li>Amount paid: {{printf "%.2f" .Data.Enrollment.Amount}}</li>
  <li>Meeting link: <a href="{{.Data.Class.MeetingLink}}">{{.Data.Class.MeetingLink}}</a></li>
</ul>
<p><a href="{{.FrontendBaseURL}}{{.Data.Link}}">Open the class</a></p>
<p>The {{.AppName}} team</p>
`
