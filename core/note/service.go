// Package note manages the study notes teachers publish.
package note

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
	ErrNotFound = errors.New("note not found")

	errNoteNotFound    = core.NewNotFoundError("Note not found")
	errUpdateForbidden = core.NewForbiddenError("Not authorized to update this note")
	errDeleteForbidden = core.NewForbiddenError("Not authorized to delete this note")
	errNothingToUpdate = core.NewInvalidInputError("No fields to update")

	classForbiddenMsg = "You can only add notes to your own classes"
)

type (
	Repository interface {
		class.Finder
		CreateNote(ctx context.Context, n Note) (Note, error)
		GetNoteByID(ctx context.Context, id primitive.ObjectID) (Note, error)
		// QueryNotes lists notes newest first. A zero teacherID or classID is ignored.
		QueryNotes(ctx context.Context, teacherID, classID primitive.ObjectID, publicOnly bool) ([]Note, error)
		UpdateNote(ctx context.Context, id primitive.ObjectID, un UpdateNote, now time.Time) (Note, error)
		DeleteNote(ctx context.Context, id primitive.ObjectID) error
		ActiveStudentIDs(ctx context.Context, classID primitive.ObjectID) ([]primitive.ObjectID, error)
	}

	Service interface {
		Create(ctx context.Context, teacher user.User, nn NewNote) (Note, error)
		ListByTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]Note, error)
		ListPublicByClass(ctx context.Context, classID primitive.ObjectID) ([]Note, error)
		Update(ctx context.Context, teacher user.User, id primitive.ObjectID, un UpdateNote) (Note, error)
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

func (svc *service) Create(ctx context.Context, teacher user.User, nn NewNote) (Note, error) {
	if _, err := user.RequireRole(teacher, user.RoleTeacher); err != nil {
		return Note{}, err
	}

	now := svc.nowFunc()
	n := Note{
		Title:     nn.Title,
		Content:   nn.Content,
		TeacherID: teacher.ID,
		IsPublic:  nn.IsPublic == nil || *nn.IsPublic,
		Tags:      nn.Tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if n.Tags == nil {
		n.Tags = []string{}
	}

	var c class.Class
	if nn.ClassID != "" {
		classID, err := core.ParseID(nn.ClassID, "class")
		if err != nil {
			return Note{}, err
		}
		if c, err = class.RequireOwned(ctx, svc.repo, teacher, classID, classForbiddenMsg); err != nil {
			return Note{}, err
		}
		n.ClassID = &classID
	}

	n, err := svc.repo.CreateNote(ctx, n)
	if err != nil {
		return Note{}, errors.Wrap(err, "creating note")
	}
	if n.ClassID != nil && n.IsPublic {
		svc.announce(ctx, teacher, c, n)
	}
	return n, nil
}

// announce tells the students of the class about new material. Failures are logged, never returned.
func (svc *service) announce(ctx context.Context, teacher user.User, c class.Class, n Note) {
	studentIDs, err := svc.repo.ActiveStudentIDs(ctx, c.ID)
	if err != nil {
		svc.logger.Error("finding class students", err, teacher)
		return
	}
	for _, id := range studentIDs {
		_, err = svc.notifier.Notify(ctx, notification.NewNotification{
			UserID:   id,
			UserType: user.RoleStudent.String(),
			Type:     notification.TypeNewContent,
			Title:    "New notes in " + c.Title,
			Message:  n.Title,
			Link:     "/student/classes/" + c.ID.Hex() + "/notes",
		})
		if err != nil {
			svc.logger.Error("notifying new note", err, teacher)
		}
	}
}

func (svc *service) ListByTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]Note, error) {
	notes, err := svc.repo.QueryNotes(ctx, teacherID, primitive.NilObjectID, false)
	return notes, errors.Wrap(err, "querying notes")
}

func (svc *service) ListPublicByClass(ctx context.Context, classID primitive.ObjectID) ([]Note, error) {
	notes, err := svc.repo.QueryNotes(ctx, primitive.NilObjectID, classID, true)
	return notes, errors.Wrap(err, "querying notes")
}

func (svc *service) getOwned(ctx context.Context, teacher user.User, id primitive.ObjectID, forbidden error) (Note, error) {
	n, err := svc.repo.GetNoteByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Note{}, errNoteNotFound
		}
		return Note{}, errors.Wrap(err, "finding note by ID")
	}
	if n.TeacherID != teacher.ID {
		return Note{}, forbidden
	}
	return n, nil
}

func (svc *service) Update(ctx context.Context, teacher user.User, id primitive.ObjectID, un UpdateNote) (Note, error) {
	if _, err := svc.getOwned(ctx, teacher, id, errUpdateForbidden); err != nil {
		return Note{}, err
	}
	if un.IsEmpty() {
		return Note{}, errNothingToUpdate
	}
	n, err := svc.repo.UpdateNote(ctx, id, un, svc.nowFunc())
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Note{}, errNoteNotFound
		}
		return Note{}, errors.Wrap(err, "updating note")
	}
	return n, nil
}

func (svc *service) Delete(ctx context.Context, teacher user.User, id primitive.ObjectID) error {
	if _, err := svc.getOwned(ctx, teacher, id, errDeleteForbidden); err != nil {
		return err
	}
	if err := svc.repo.DeleteNote(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return errNoteNotFound
		}
		return errors.Wrap(err, "deleting note")
	}
	return nil
}
