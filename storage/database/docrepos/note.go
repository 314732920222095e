package docrepos

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
	"github.com/yashshrivastavagit/Aumryx-Teach/core/note"
	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database"
)

type noteRepository struct {
	*classRepository
	coll        database.Collection
	enrollments database.Collection
}

var _ note.Repository = (*noteRepository)(nil) // interface compliance check

func NewNoteRepository(store database.Store) *noteRepository {
	return &noteRepository{
		classRepository: NewClassRepository(store),
		coll:            store.Collection(database.Notes),
		enrollments:     store.Collection(database.Enrollments),
	}
}

func (repo *noteRepository) CreateNote(ctx context.Context, n note.Note) (note.Note, error) {
	id, err := repo.coll.InsertOne(ctx, n)
	if err != nil {
		return note.Note{}, errors.Wrap(err, "inserting note")
	}
	return repo.GetNoteByID(ctx, id)
}

func (repo *noteRepository) GetNoteByID(ctx context.Context, id primitive.ObjectID) (note.Note, error) {
	var n note.Note
	if err := repo.coll.FindOne(ctx, bson.M{"_id": id}, &n); err != nil {
		if database.IsNotFound(err) {
			return note.Note{}, note.ErrNotFound
		}
		return note.Note{}, err
	}
	return n, nil
}

func (repo *noteRepository) QueryNotes(ctx context.Context, teacherID, classID primitive.ObjectID, publicOnly bool) ([]note.Note, error) {
	query := bson.M{}
	if !teacherID.IsZero() {
		query["teacher_id"] = teacherID
	}
	if !classID.IsZero() {
		query["class_id"] = classID
	}
	if publicOnly {
		query["is_public"] = true
	}

	notes := make([]note.Note, 0)
	if err := repo.coll.Find(ctx, query, &notes, findOptions(0, core.NewestFirst)); err != nil {
		return nil, errors.Wrap(err, "finding notes")
	}
	return notes, nil
}

func (repo *noteRepository) UpdateNote(ctx context.Context, id primitive.ObjectID, un note.UpdateNote, now time.Time) (note.Note, error) {
	fields := bson.M{"updated_at": now}
	if un.Title != nil {
		fields["title"] = *un.Title
	}
	if un.Content != nil {
		fields["content"] = *un.Content
	}
	if un.IsPublic != nil {
		fields["is_public"] = *un.IsPublic
	}
	if un.Tags != nil {
		fields["tags"] = *un.Tags
	}

	res, err := repo.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": fields})
	if err != nil {
		return note.Note{}, errors.Wrap(err, "updating note")
	}
	if res.MatchedCount == 0 {
		return note.Note{}, note.ErrNotFound
	}
	return repo.GetNoteByID(ctx, id)
}

func (repo *noteRepository) DeleteNote(ctx context.Context, id primitive.ObjectID) error {
	n, err := repo.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(err, "deleting note")
	}
	if n == 0 {
		return note.ErrNotFound
	}
	return nil
}

func (repo *noteRepository) ActiveStudentIDs(ctx context.Context, classID primitive.ObjectID) ([]primitive.ObjectID, error) {
	return activeStudentIDs(ctx, repo.enrollments, classID)
}
