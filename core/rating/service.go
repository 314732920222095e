// Package rating handles the reviews students leave their teachers.
package rating

import (
	"context"
	"math"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/class"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
)

var (
	// errors
	ErrAlreadyRated = errors.New("rating already exists")

	errAlreadyRated  = core.NewConflictError("You have already rated this teacher for this class")
	errNotEnrolled   = core.NewForbiddenError("You can only rate classes you are enrolled in")
	errNotTheTeacher = core.NewForbiddenError("This class is not taught by this teacher")
	errClassNotFound = core.NewNotFoundError("Class not found")
)

type (
	Repository interface {
		class.Finder
		HasEnrollment(ctx context.Context, studentID, classID primitive.ObjectID) (bool, error)
		// CreateRating reports ErrAlreadyRated if the student already rated the teacher for the class.
		CreateRating(ctx context.Context, r Rating) (Rating, error)
		QueryRatings(ctx context.Context, teacherID primitive.ObjectID) ([]Rating, error)
		SetRating(ctx context.Context, teacherID primitive.ObjectID, rating float64, now time.Time) error
	}

	Service interface {
		Rate(ctx context.Context, student user.User, nr NewRating) (Rating, error)
		// ListForTeacher lists the ratings of a teacher, newest first.
		ListForTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]Rating, error)
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

// Rate records the review and refreshes the teacher's average rating.
func (svc *service) Rate(ctx context.Context, student user.User, nr NewRating) (Rating, error) {
	if _, err := user.RequireRole(student, user.RoleStudent); err != nil {
		return Rating{}, err
	}
	teacherID, err := core.ParseID(nr.TeacherID, "teacher")
	if err != nil {
		return Rating{}, err
	}
	classID, err := core.ParseID(nr.ClassID, "class")
	if err != nil {
		return Rating{}, err
	}

	c, err := svc.repo.GetClassByID(ctx, classID)
	if err != nil {
		if errors.Is(err, class.ErrNotFound) {
			return Rating{}, errClassNotFound
		}
		return Rating{}, errors.Wrap(err, "finding class by ID")
	}
	if !c.IsOwnedBy(teacherID) {
		return Rating{}, errNotTheTeacher
	}
	enrolled, err := svc.repo.HasEnrollment(ctx, student.ID, classID)
	if err != nil {
		return Rating{}, errors.Wrap(err, "checking enrollment")
	}
	if !enrolled {
		return Rating{}, errNotEnrolled
	}

	now := svc.nowFunc()
	r, err := svc.repo.CreateRating(ctx, Rating{
		TeacherID: teacherID,
		StudentID: student.ID,
		ClassID:   classID,
		Rating:    nr.Rating,
		Review:    nr.Review,
		CreatedAt: now,
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyRated) {
			return Rating{}, errAlreadyRated
		}
		return Rating{}, errors.Wrap(err, "creating rating")
	}

	ratings, err := svc.repo.QueryRatings(ctx, teacherID)
	if err != nil {
		return Rating{}, errors.Wrap(err, "querying ratings")
	}
	avg, _ := Average(ratings)
	if err = svc.repo.SetRating(ctx, teacherID, avg, now); err != nil {
		return Rating{}, errors.Wrap(err, "updating teacher rating")
	}
	return r, nil
}

func (svc *service) ListForTeacher(ctx context.Context, teacherID primitive.ObjectID) ([]Rating, error) {
	ratings, err := svc.repo.QueryRatings(ctx, teacherID)
	return ratings, errors.Wrap(err, "querying ratings")
}

// Average returns the mean score of ratings rounded to 2 decimals, and how many there are.
func Average(ratings []Rating) (float64, int) {
	if len(ratings) == 0 {
		return 0, 0
	}
	var sum int
	for _, r := range ratings {
		sum += r.Rating
	}
	avg := float64(sum) / float64(len(ratings))
	return math.Round(avg*100) / 100, len(ratings)
}
