// Package analytics computes the dashboard figures of teachers and students.
package analytics

import (
	"context"
	"math"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/class"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/enrollment"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/rating"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/user"
)

var (
	// errors
	errTeacherNotFound   = core.NewNotFoundError("Teacher not found")
	errStudentNotFound   = core.NewNotFoundError("Student not found")
	errEarningsForbidden = core.NewForbiddenError("Not authorized to view these earnings")
)

type (
	Repository interface {
		user.Finder
		CountClasses(ctx context.Context, teacherID primitive.ObjectID) (int64, error)
		// FilterEnrollments lists the matching enrollments, most recent first.
		FilterEnrollments(ctx context.Context, filter enrollment.QueryFilter) ([]enrollment.Enrollment, error)
		CountEnrollments(ctx context.Context, filter enrollment.QueryFilter) (int64, error)
		GetClassesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]class.Class, error)
		QueryRatings(ctx context.Context, teacherID primitive.ObjectID) ([]rating.Rating, error)
	}

	Service interface {
		Teacher(ctx context.Context, teacherID primitive.ObjectID) (TeacherStats, error)
		Student(ctx context.Context, studentID primitive.ObjectID) (StudentStats, error)
		// Earnings is readable by the teacher themself or a privileged identity.
		Earnings(ctx context.Context, actor user.User, teacherID primitive.ObjectID) (Earnings, error)
	}

	service struct {
		repo       Repository
		privileges user.Privileges
		feeRate    float64
	}
)

var _ Service = (*service)(nil)

func NewService(conf *core.Config, repo Repository) Service {
	return &service{
		repo:       repo,
		privileges: user.NewPrivileges(conf),
		feeRate:    conf.PlatformFeeRate,
	}
}

// getUser finds the identity id if it holds role, notFound otherwise.
func (svc *service) getUser(ctx context.Context, id primitive.ObjectID, role user.Role, notFound error) (user.User, error) {
	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, notFound
		}
		return user.User{}, errors.Wrap(err, "finding user by ID")
	}
	if usr.Role != role {
		return user.User{}, notFound
	}
	return usr, nil
}

func (svc *service) Teacher(ctx context.Context, teacherID primitive.ObjectID) (TeacherStats, error) {
	teacher, err := svc.getUser(ctx, teacherID, user.RoleTeacher, errTeacherNotFound)
	if err != nil {
		return TeacherStats{}, err
	}

	stats := TeacherStats{TeacherID: teacher.ID, TotalStudents: teacher.StudentsCount}
	if stats.TotalClasses, err = svc.repo.CountClasses(ctx, teacher.ID); err != nil {
		return TeacherStats{}, errors.Wrap(err, "counting classes")
	}
	active := enrollment.QueryFilter{TeacherID: teacher.ID, Status: enrollment.StatusActive}
	if stats.ActiveEnrollments, err = svc.repo.CountEnrollments(ctx, active); err != nil {
		return TeacherStats{}, errors.Wrap(err, "counting enrollments")
	}

	paid, err := svc.paidEnrollments(ctx, teacher.ID)
	if err != nil {
		return TeacherStats{}, err
	}
	stats.TotalRevenue = total(paid)

	ratings, err := svc.repo.QueryRatings(ctx, teacher.ID)
	if err != nil {
		return TeacherStats{}, errors.Wrap(err, "querying ratings")
	}
	stats.AverageRating, stats.TotalReviews = rating.Average(ratings)
	return stats, nil
}

func (svc *service) Student(ctx context.Context, studentID primitive.ObjectID) (StudentStats, error) {
	student, err := svc.getUser(ctx, studentID, user.RoleStudent, errStudentNotFound)
	if err != nil {
		return StudentStats{}, err
	}

	stats := StudentStats{StudentID: student.ID}
	if stats.TotalCoursesEnrolled, err = svc.repo.CountEnrollments(ctx, enrollment.QueryFilter{StudentID: student.ID}); err != nil {
		return StudentStats{}, errors.Wrap(err, "counting enrollments")
	}
	completed := enrollment.QueryFilter{StudentID: student.ID, Status: enrollment.StatusCompleted}
	if stats.CoursesCompleted, err = svc.repo.CountEnrollments(ctx, completed); err != nil {
		return StudentStats{}, errors.Wrap(err, "counting enrollments")
	}
	return stats, nil
}

func (svc *service) Earnings(ctx context.Context, actor user.User, teacherID primitive.ObjectID) (Earnings, error) {
	if actor.ID != teacherID && !svc.privileges.IsPrivileged(actor) {
		return Earnings{}, errEarningsForbidden
	}

	paid, err := svc.paidEnrollments(ctx, teacherID)
	if err != nil {
		return Earnings{}, err
	}
	recent := paid
	if len(recent) > RecentTransactions {
		recent = recent[:RecentTransactions]
	}

	classIDs := make([]primitive.ObjectID, 0, len(recent))
	for _, e := range recent {
		classIDs = append(classIDs, e.ClassID)
	}
	classes, err := svc.repo.GetClassesByIDs(ctx, classIDs)
	if err != nil {
		return Earnings{}, errors.Wrap(err, "finding classes")
	}

	transactions := make([]Transaction, 0, len(recent))
	for _, e := range recent {
		title := "Unknown"
		if c, ok := classes[e.ClassID]; ok {
			title = c.Title
		}
		transactions = append(transactions, Transaction{
			EnrollmentID: e.ID,
			ClassTitle:   title,
			Amount:       e.Amount,
			Date:         e.EnrolledDate,
			Status:       e.PaymentStatus,
		})
	}

	earnings := total(paid)
	fee := roundCents(earnings * svc.feeRate)
	return Earnings{
		TotalEarnings:     earnings,
		PlatformFee:       fee,
		NetEarnings:       roundCents(earnings - fee),
		TotalTransactions: len(paid),
		RecentEnrollments: transactions,
	}, nil
}

func (svc *service) paidEnrollments(ctx context.Context, teacherID primitive.ObjectID) ([]enrollment.Enrollment, error) {
	paid, err := svc.repo.FilterEnrollments(ctx, enrollment.QueryFilter{
		TeacherID:     teacherID,
		PaymentStatus: enrollment.PaymentPaid,
	})
	return paid, errors.Wrap(err, "querying paid enrollments")
}

func total(enrollments []enrollment.Enrollment) float64 {
	var sum float64
	for _, e := range enrollments {
		sum += e.Amount
	}
	return roundCents(sum)
}

func roundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
