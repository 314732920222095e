// Package verification flips the verified flag of teacher accounts after admin review.
package verification

import (
	"context"
	"net/mail"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/notification"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
)

var (
	errTeacherNotFound = core.NewNotFoundError("Teacher not found")
	errAlreadyVerified = core.NewConflictError("Teacher is already verified")
)

type (
	Repository interface {
		user.Finder
		FilterUsers(ctx context.Context, filter user.QueryFilter, orderings ...core.DBOrdering) ([]user.User, error)
		TransitionVerified(ctx context.Context, id primitive.ObjectID, from, to bool, now time.Time) (bool, error)
		SetVerified(ctx context.Context, id primitive.ObjectID, verified bool, now time.Time) (bool, error)
	}

	// Gate holds the admin-only verification transitions. Callers check privileges.
	Gate interface {
		// Verify fails with NotFound if id is not a teacher and with Conflict if it is already verified.
		Verify(ctx context.Context, id primitive.ObjectID) error
		// Unverify is idempotent. It fails with NotFound if id is not a teacher.
		Unverify(ctx context.Context, id primitive.ObjectID) error
		Pending(ctx context.Context) ([]user.User, error)
		All(ctx context.Context) ([]user.User, error)
	}

	gate struct {
		repo     Repository
		notifier notification.Service
		mailSvc  core.EmailService
		logger   core.Logger
		nowFunc  func() time.Time // mockable
	}
)

var _ Gate = (*gate)(nil)

func NewGate(repo Repository, notifier notification.Service, mailSvc core.EmailService, logger core.Logger) Gate {
	return &gate{
		repo:     repo,
		notifier: notifier,
		mailSvc:  mailSvc,
		logger:   logger,
		nowFunc:  func() time.Time { return time.Now().UTC() },
	}
}

func (g *gate) Verify(ctx context.Context, id primitive.ObjectID) error {
	ok, err := g.repo.TransitionVerified(ctx, id, false, true, g.nowFunc())
	if err != nil {
		return errors.Wrap(err, "verifying teacher")
	}
	if !ok {
		// either not a teacher or already verified
		teacher, err := g.repo.GetUserByID(ctx, id)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				return errTeacherNotFound
			}
			return errors.Wrap(err, "finding user by ID")
		}
		if !teacher.IsTeacher() {
			return errTeacherNotFound
		}
		return errAlreadyVerified
	}

	g.announce(ctx, id)
	return nil
}

func (g *gate) Unverify(ctx context.Context, id primitive.ObjectID) error {
	ok, err := g.repo.SetVerified(ctx, id, false, g.nowFunc())
	if err != nil {
		return errors.Wrap(err, "unverifying teacher")
	}
	if !ok {
		return errTeacherNotFound
	}
	return nil
}

// Pending lists unverified teachers, oldest signup first.
func (g *gate) Pending(ctx context.Context) ([]user.User, error) {
	verified := false
	teachers, err := g.repo.FilterUsers(ctx,
		user.QueryFilter{Role: user.RoleTeacher, Verified: &verified},
		core.DBOrdering{Field: "created_at", Ascending: true},
	)
	return teachers, errors.Wrap(err, "querying pending teachers")
}

func (g *gate) All(ctx context.Context) ([]user.User, error) {
	teachers, err := g.repo.FilterUsers(ctx, user.QueryFilter{Role: user.RoleTeacher}, core.NewestFirst)
	return teachers, errors.Wrap(err, "querying teachers")
}

// announce tells the teacher they have been verified. Failures are logged, never returned.
func (g *gate) announce(ctx context.Context, id primitive.ObjectID) {
	teacher, err := g.repo.GetUserByID(ctx, id)
	if err != nil {
		g.logger.Error("finding verified teacher", errors.Wrap(err, "finding user by ID"))
		return
	}

	_, err = g.notifier.Notify(ctx, notification.NewNotification{
		UserID:   teacher.ID,
		UserType: teacher.Role.String(),
		Type:     notification.TypeMessage,
		Title:    "Account verified",
		Message:  "Your teacher account has been verified. You can now publish classes.",
		Link:     "/teacher/dashboard",
	})
	if err != nil {
		g.logger.Error("notifying verified teacher", err, teacher)
	}

	g.mailSvc.SendMessages(&core.EmailMessage{
		To:           []mail.Address{{Name: teacher.Name, Address: teacher.Email}},
		Subject:      "Your teacher account is verified",
		TextTemplate: verifiedMailText,
		HTMLTemplate: verifiedMailHTML,
		TemplateData: teacher,
	})
}

const verifiedMailText = `Hi {{.Data.Name}},

Good news: your {{.AppName}} teacher account has been verified.
You are now listed in the teachers directory and can publish classes:

{{.FrontendBaseURL}}/teacher/dashboard

The {{.AppName}} team
`

const verifiedMailHTML = `<p>Hi {{.Data.Name}},</p>
<p>Good news: your {{.AppName}} teacher account has been verified.
You are now listed in the teachers directory and can publish classes.</p>
<p><a href="{{.FrontendBaseURL}}/teacher/dashboard">Go to your dashboard</a></p>
<p>The {{.AppName}} team</p>
`
