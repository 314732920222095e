// Package database is the document-store collaborator: per-collection find/insert/update/delete/count
// operations with MongoDB-style filters and $set/$inc updates.
package database

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collections
const (
	Users          = "users"
	Classes        = "classes"
	Enrollments    = "enrollments"
	Ratings        = "ratings"
	Notes          = "notes"
	Assignments    = "assignments"
	Attendance     = "attendance"
	CommunityPosts = "community_posts"
	Notifications  = "notifications"
)

var (
	ErrNoDocuments  = errors.New("no documents in result")
	ErrDuplicateKey = errors.New("duplicate key")
)

type (
	// Collection is a handle on one collection of the document store.
	Collection interface {
		// FindOne decodes the first document matching filter into out, ErrNoDocuments if none.
		FindOne(ctx context.Context, filter interface{}, out interface{}) error
		// Find decodes all documents matching filter into out, a pointer to a slice.
		Find(ctx context.Context, filter interface{}, out interface{}, opts ...*options.FindOptions) error
		InsertOne(ctx context.Context, doc interface{}) (primitive.ObjectID, error)
		UpdateOne(ctx context.Context, filter, update interface{}) (*mongo.UpdateResult, error)
		UpdateMany(ctx context.Context, filter, update interface{}) (*mongo.UpdateResult, error)
		DeleteOne(ctx context.Context, filter interface{}) (int64, error)
		CountDocuments(ctx context.Context, filter interface{}) (int64, error)
	}

	Store interface {
		Collection(name string) Collection
		EnsureIndexes(ctx context.Context) error
		Close(ctx context.Context) error
	}

	// Index describes an index the application relies on.
	// Partial restricts a unique index to documents matching an equality filter.
	Index struct {
		Collection string
		Keys       []string
		Unique     bool
		Partial    bson.M
	}
)

// Indexes lists every index the application relies on.
var Indexes = []Index{
	{Collection: Users, Keys: []string{"email"}, Unique: true},
	{Collection: Users, Keys: []string{"user_type", "verified"}},
	{Collection: Classes, Keys: []string{"teacher_id", "status"}},
	// at most one active enrollment per (student, class)
	{Collection: Enrollments, Keys: []string{"student_id", "class_id"}, Unique: true, Partial: bson.M{"status": "active"}},
	{Collection: Enrollments, Keys: []string{"teacher_id", "payment_status"}},
	{Collection: Ratings, Keys: []string{"student_id", "teacher_id", "class_id"}, Unique: true},
	{Collection: Attendance, Keys: []string{"class_id", "student_id", "date"}, Unique: true},
	{Collection: Notifications, Keys: []string{"user_id", "read"}},
}

// IsNotFound reports whether err is (or wraps) ErrNoDocuments.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNoDocuments)
}

// IsDuplicateKey reports whether err is (or wraps) ErrDuplicateKey.
func IsDuplicateKey(err error) bool {
	return errors.Is(err, ErrDuplicateKey)
}
