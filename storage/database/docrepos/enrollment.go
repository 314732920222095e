package docrepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/class"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/enrollment"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database"
)

// enrollmentRepository spans the collections the ledger moves: enrollments, classes and users.
type enrollmentRepository struct {
	*classRepository
	coll  database.Collection
	users *userRepository
}

var _ enrollment.Repository = (*enrollmentRepository)(nil) // interface compliance check

func NewEnrollmentRepository(store database.Store) *enrollmentRepository {
	return &enrollmentRepository{
		classRepository: NewClassRepository(store),
		coll:            store.Collection(database.Enrollments),
		users:           NewUserRepository(store),
	}
}

func (repo *enrollmentRepository) ReserveSeat(ctx context.Context, classID primitive.ObjectID, capacity int) (bool, error) {
	res, err := repo.classRepository.coll.UpdateOne(ctx,
		bson.M{"_id": classID, "max_students": capacity, "enrolled_students": bson.M{"$lt": capacity}},
		bson.M{"$inc": bson.M{"enrolled_students": 1}},
	)
	if err != nil {
		return false, errors.Wrap(err, "updating class")
	}
	return res.ModifiedCount > 0, nil
}

func (repo *enrollmentRepository) ReleaseSeat(ctx context.Context, classID primitive.ObjectID) error {
	_, err := repo.classRepository.coll.UpdateOne(ctx,
		bson.M{"_id": classID, "enrolled_students": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"enrolled_students": -1}},
	)
	return errors.Wrap(err, "updating class")
}

func (repo *enrollmentRepository) CreateEnrollment(ctx context.Context, e enrollment.Enrollment) (enrollment.Enrollment, error) {
	id, err := repo.coll.InsertOne(ctx, e)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return enrollment.Enrollment{}, enrollment.ErrAlreadyEnrolled
		}
		return enrollment.Enrollment{}, errors.Wrap(err, "inserting enrollment")
	}
	return repo.GetEnrollmentByID(ctx, id)
}

func (repo *enrollmentRepository) HasActiveEnrollment(ctx context.Context, studentID, classID primitive.ObjectID) (bool, error) {
	n, err := repo.coll.CountDocuments(ctx, bson.M{
		"student_id": studentID,
		"class_id":   classID,
		"status":     enrollment.StatusActive,
	})
	if err != nil {
		return false, errors.Wrap(err, "counting enrollments")
	}
	return n > 0, nil
}

func (repo *enrollmentRepository) IncrementStudentsCount(ctx context.Context, teacherID primitive.ObjectID, delta int) error {
	return repo.users.IncrementStudentsCount(ctx, teacherID, delta)
}

func (repo *enrollmentRepository) GetEnrollmentByID(ctx context.Context, id primitive.ObjectID) (enrollment.Enrollment, error) {
	var e enrollment.Enrollment
	if err := repo.coll.FindOne(ctx, bson.M{"_id": id}, &e); err != nil {
		if database.IsNotFound(err) {
			return enrollment.Enrollment{}, enrollment.ErrNotFound
		}
		return enrollment.Enrollment{}, err
	}
	return e, nil
}

func enrollmentQuery(filter enrollment.QueryFilter) bson.M {
	query := bson.M{}
	if !filter.StudentID.IsZero() {
		query["student_id"] = filter.StudentID
	}
	if !filter.TeacherID.IsZero() {
		query["teacher_id"] = filter.TeacherID
	}
	if !filter.ClassID.IsZero() {
		query["class_id"] = filter.ClassID
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.PaymentStatus != "" {
		query["payment_status"] = filter.PaymentStatus
	}
	return query
}

// FilterEnrollments lists the matching enrollments, most recent first.
func (repo *enrollmentRepository) FilterEnrollments(ctx context.Context, filter enrollment.QueryFilter) ([]enrollment.Enrollment, error) {
	enrollments := make([]enrollment.Enrollment, 0)
	opts := findOptions(filter.Limit, core.DBOrdering{Field: "enrolled_date"})
	if err := repo.coll.Find(ctx, enrollmentQuery(filter), &enrollments, opts); err != nil {
		return nil, errors.Wrap(err, "finding enrollments")
	}
	return enrollments, nil
}

func (repo *enrollmentRepository) CountEnrollments(ctx context.Context, filter enrollment.QueryFilter) (int64, error) {
	n, err := repo.coll.CountDocuments(ctx, enrollmentQuery(filter))
	return n, errors.Wrap(err, "counting enrollments")
}

// GetClassesByIDs returns the classes with the given ids, keyed by id.
func (repo *enrollmentRepository) GetClassesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]class.Class, error) {
	classes := make([]class.Class, 0, len(ids))
	if len(ids) > 0 {
		if err := repo.classRepository.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, &classes); err != nil {
			return nil, errors.Wrap(err, "finding classes")
		}
	}
	byID := make(map[primitive.ObjectID]class.Class, len(classes))
	for _, c := range classes {
		byID[c.ID] = c
	}
	return byID, nil
}
