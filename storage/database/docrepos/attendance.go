package docrepos

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/attendance"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database"
)

type attendanceRepository struct {
	*classRepository
	coll        database.Collection
	enrollments database.Collection
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(store database.Store) *attendanceRepository {
	return &attendanceRepository{
		classRepository: NewClassRepository(store),
		coll:            store.Collection(database.Attendance),
		enrollments:     store.Collection(database.Enrollments),
	}
}

func (repo *attendanceRepository) HasEnrollment(ctx context.Context, studentID, classID primitive.ObjectID) (bool, error) {
	return hasEnrollment(ctx, repo.enrollments, studentID, classID)
}

func (repo *attendanceRepository) CreateRecord(ctx context.Context, r attendance.Record) (attendance.Record, error) {
	id, err := repo.coll.InsertOne(ctx, r)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return attendance.Record{}, attendance.ErrAlreadyMarked
		}
		return attendance.Record{}, errors.Wrap(err, "inserting attendance record")
	}
	r.ID = id
	return r, nil
}

func (repo *attendanceRepository) QueryRecords(ctx context.Context, filter attendance.QueryFilter) ([]attendance.Record, error) {
	query := bson.M{}
	if !filter.ClassID.IsZero() {
		query["class_id"] = filter.ClassID
	}
	if !filter.StudentID.IsZero() {
		query["student_id"] = filter.StudentID
	}
	if !filter.CreatedBy.IsZero() {
		query["created_by"] = filter.CreatedBy
	}

	records := make([]attendance.Record, 0)
	opts := findOptions(0, core.DBOrdering{Field: "date"}, core.NewestFirst)
	if err := repo.coll.Find(ctx, query, &records, opts); err != nil {
		return nil, errors.Wrap(err, "finding attendance records")
	}
	return records, nil
}
