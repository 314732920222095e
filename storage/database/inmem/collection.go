package inmem

import (
	"context"
	"reflect"
	"sort"
	"sync"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yashshrivastavagit/Aumryx-Teach/storage/database"
)

type collection struct {
	name    string
	mu      sync.RWMutex
	docs    []bson.M // insertion order
	indexes []database.Index
}

var _ database.Collection = (*collection)(nil)

func (c *collection) FindOne(ctx context.Context, filter interface{}, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := toDoc(filter)
	if err != nil {
		return errors.Wrap(err, "normalising filter")
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, doc := range c.docs {
		ok, err := matches(doc, f)
		if err != nil {
			return err
		}
		if ok {
			return decode(doc, out)
		}
	}
	return database.ErrNoDocuments
}

func (c *collection) Find(ctx context.Context, filter interface{}, out interface{}, opts ...*options.FindOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f, err := toDoc(filter)
	if err != nil {
		return errors.Wrap(err, "normalising filter")
	}

	outVal := reflect.ValueOf(out)
	if outVal.Kind() != reflect.Ptr || outVal.Elem().Kind() != reflect.Slice {
		return errors.New("out must be a pointer to a slice")
	}

	c.mu.RLock()
	found := make([]bson.M, 0)
	for _, doc := range c.docs {
		ok, err := matches(doc, f)
		if err != nil {
			c.mu.RUnlock()
			return err
		}
		if ok {
			found = append(found, doc)
		}
	}
	c.mu.RUnlock()

	fo := options.MergeFindOptions(opts...)
	if fo.Sort != nil {
		if err = sortDocs(found, fo.Sort); err != nil {
			return err
		}
	}
	if fo.Skip != nil && *fo.Skip > 0 {
		if int(*fo.Skip) >= len(found) {
			found = found[:0]
		} else {
			found = found[*fo.Skip:]
		}
	}
	if fo.Limit != nil && *fo.Limit > 0 && int(*fo.Limit) < len(found) {
		found = found[:*fo.Limit]
	}

	slice := reflect.MakeSlice(outVal.Elem().Type(), len(found), len(found))
	for i, doc := range found {
		if err = decode(doc, slice.Index(i).Addr().Interface()); err != nil {
			return err
		}
	}
	outVal.Elem().Set(slice)
	return nil
}

func (c *collection) InsertOne(ctx context.Context, document interface{}) (primitive.ObjectID, error) {
	if err := ctx.Err(); err != nil {
		return primitive.NilObjectID, err
	}
	doc, err := toDoc(document)
	if err != nil {
		return primitive.NilObjectID, errors.Wrap(err, "normalising document")
	}

	id, ok := doc["_id"].(primitive.ObjectID)
	if !ok || id.IsZero() {
		id = primitive.NewObjectID()
		doc["_id"] = id
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, other := range c.docs {
		if other["_id"] == id {
			return primitive.NilObjectID, database.ErrDuplicateKey
		}
	}
	if err = c.checkUnique(doc); err != nil {
		return primitive.NilObjectID, err
	}
	c.docs = append(c.docs, doc)
	return id, nil
}

// UpdateOne applies update to the first document matching filter. Like MongoDB, a matched
// document whose values do not change is not counted as modified.
func (c *collection) UpdateOne(ctx context.Context, filter, update interface{}) (*mongo.UpdateResult, error) {
	return c.update(ctx, filter, update, false)
}

func (c *collection) UpdateMany(ctx context.Context, filter, update interface{}) (*mongo.UpdateResult, error) {
	return c.update(ctx, filter, update, true)
}

func (c *collection) update(ctx context.Context, filter, update interface{}, many bool) (*mongo.UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := toDoc(filter)
	if err != nil {
		return nil, errors.Wrap(err, "normalising filter")
	}
	u, err := toDoc(update)
	if err != nil {
		return nil, errors.Wrap(err, "normalising update")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	res := new(mongo.UpdateResult)
	for i, doc := range c.docs {
		ok, err := matches(doc, f)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}

		res.MatchedCount++
		updated, err := applyUpdate(doc, u)
		if err != nil {
			return nil, err
		}
		if !reflect.DeepEqual(doc, updated) {
			if err = c.checkUnique(updated); err != nil {
				return nil, err
			}
			c.docs[i] = updated
			res.ModifiedCount++
		}
		if !many {
			break
		}
	}
	return res, nil
}

func (c *collection) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	f, err := toDoc(filter)
	if err != nil {
		return 0, errors.Wrap(err, "normalising filter")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, doc := range c.docs {
		ok, err := matches(doc, f)
		if err != nil {
			return 0, err
		}
		if ok {
			c.docs = append(c.docs[:i], c.docs[i+1:]...)
			return 1, nil
		}
	}
	return 0, nil
}

func (c *collection) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	f, err := toDoc(filter)
	if err != nil {
		return 0, errors.Wrap(err, "normalising filter")
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	var n int64
	for _, doc := range c.docs {
		ok, err := matches(doc, f)
		if err != nil {
			return 0, err
		}
		if ok {
			n++
		}
	}
	return n, nil
}

// checkUnique must be called with the write lock held.
func (c *collection) checkUnique(doc bson.M) error {
	for _, idx := range c.indexes {
		if idx.Partial != nil {
			if ok, _ := matches(doc, idx.Partial); !ok {
				continue
			}
		}
		for _, other := range c.docs {
			if other["_id"] == doc["_id"] {
				continue
			}
			if idx.Partial != nil {
				if ok, _ := matches(other, idx.Partial); !ok {
					continue
				}
			}
			if sameKeys(doc, other, idx.Keys) {
				return database.ErrDuplicateKey
			}
		}
	}
	return nil
}

func sameKeys(a, b bson.M, keys []string) bool {
	for _, k := range keys {
		if !equal(a[k], b[k]) {
			return false
		}
	}
	return true
}

func sortDocs(docs []bson.M, spec interface{}) error {
	var keys bson.D
	switch s := spec.(type) {
	case bson.D:
		keys = s
	case bson.M:
		for k, v := range s {
			keys = append(keys, bson.E{Key: k, Value: v})
		}
	default:
		return errors.Errorf("unsupported sort specification %T", spec)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		for _, key := range keys {
			cmp, _ := compare(docs[i][key.Key], docs[j][key.Key])
			if cmp == 0 {
				continue
			}
			if dir, _ := toFloat(key.Value); dir < 0 {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	return nil
}

// toDoc normalises any BSON-marshalable value (struct, bson.M, bson.D) into a fresh bson.M.
func toDoc(v interface{}) (bson.M, error) {
	if v == nil {
		return bson.M{}, nil
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, err
	}
	doc := bson.M{}
	if err = bson.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func decode(doc bson.M, out interface{}) error {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return err
	}
	return bson.Unmarshal(raw, out)
}
