// Package docrepos implements the domain repositories over the document store.
package docrepos

import (
	"context"
	"regexp"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database"
)

func findOptions(limit int64, orderings ...core.DBOrdering) *options.FindOptions {
	opts := options.Find()
	if len(orderings) > 0 {
		opts.SetSort(core.SortDocument(orderings...))
	}
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return opts
}

// containsFold matches values containing s, case-insensitively.
func containsFold(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}

// activeStudentIDs lists the students holding an active enrollment in the class.
func activeStudentIDs(ctx context.Context, enrollments database.Collection, classID primitive.ObjectID) ([]primitive.ObjectID, error) {
	var docs []struct {
		StudentID primitive.ObjectID `bson:"student_id"`
	}
	if err := enrollments.Find(ctx, bson.M{"class_id": classID, "status": "active"}, &docs); err != nil {
		return nil, errors.Wrap(err, "finding enrollments")
	}
	ids := make([]primitive.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.StudentID)
	}
	return ids, nil
}

// hasEnrollment reports whether the student ever enrolled in the class, whatever the enrollment status.
func hasEnrollment(ctx context.Context, enrollments database.Collection, studentID, classID primitive.ObjectID) (bool, error) {
	n, err := enrollments.CountDocuments(ctx, bson.M{"student_id": studentID, "class_id": classID})
	if err != nil {
		return false, errors.Wrap(err, "counting enrollments")
	}
	return n > 0, nil
}
