package docrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/assignment"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database"
)

type assignmentRepository struct {
	*classRepository
	coll        database.Collection
	enrollments database.Collection
}

var _ assignment.Repository = (*assignmentRepository)(nil) // interface compliance check

func NewAssignmentRepository(store database.Store) *assignmentRepository {
	return &assignmentRepository{
		classRepository: NewClassRepository(store),
		coll:            store.Collection(database.Assignments),
		enrollments:     store.Collection(database.Enrollments),
	}
}

func (repo *assignmentRepository) CreateAssignment(ctx context.Context, a assignment.Assignment) (assignment.Assignment, error) {
	id, err := repo.coll.InsertOne(ctx, a)
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "inserting assignment")
	}
	return repo.GetAssignmentByID(ctx, id)
}

func (repo *assignmentRepository) GetAssignmentByID(ctx context.Context, id primitive.ObjectID) (assignment.Assignment, error) {
	var a assignment.Assignment
	if err := repo.coll.FindOne(ctx, bson.M{"_id": id}, &a); err != nil {
		if database.IsNotFound(err) {
			return assignment.Assignment{}, assignment.ErrNotFound
		}
		return assignment.Assignment{}, err
	}
	return a, nil
}

func (repo *assignmentRepository) QueryAssignments(ctx context.Context, teacherID, classID primitive.ObjectID) ([]assignment.Assignment, error) {
	query := bson.M{}
	if !teacherID.IsZero() {
		query["teacher_id"] = teacherID
	}
	if !classID.IsZero() {
		query["class_id"] = classID
	}

	assignments := make([]assignment.Assignment, 0)
	if err := repo.coll.Find(ctx, query, &assignments, findOptions(0, core.NewestFirst)); err != nil {
		return nil, errors.Wrap(err, "finding assignments")
	}
	return assignments, nil
}

func (repo *assignmentRepository) UpdateAssignment(ctx context.Context, id primitive.ObjectID, ua assignment.UpdateAssignment, now time.Time) (assignment.Assignment, error) {
	fields := bson.M{"updated_at": now}
	if ua.Title != nil {
		fields["title"] = *ua.Title
	}
	if ua.Description != nil {
		fields["description"] = *ua.Description
	}
	if ua.DueDate != nil {
		fields["due_date"] = ua.DueDate.UTC()
	}
	if ua.TotalMarks != nil {
		fields["total_marks"] = *ua.TotalMarks
	}
	if ua.Status != nil {
		fields["status"] = *ua.Status
	}

	res, err := repo.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return assignment.Assignment{}, errors.Wrap(err, "updating assignment")
	}
	if res.MatchedCount == 0 {
		return assignment.Assignment{}, assignment.ErrNotFound
	}
	return repo.GetAssignmentByID(ctx, id)
}

func (repo *assignmentRepository) DeleteAssignment(ctx context.Context, id primitive.ObjectID) error {
	n, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "deleting assignment")
	}
	if n == 0 {
		return assignment.ErrNotFound
	}
	return nil
}

func (repo *assignmentRepository) ActiveStudentIDs(ctx context.Context, classID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return activeStudentIDs(ctx, repo.enrollments, classID)
}
