package database

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/yashshrivastavagit/Aumryx-Teach/core"
)

type (
	mongoStore struct {
		client *mongo.Client
		db     *mongo.Database
	}

	mongoCollection struct {
		coll *mongo.Collection
	}
)

var (
	_ Store      = (*mongoStore)(nil)
	_ Collection = (*mongoCollection)(nil)
)

// Open connects to the MongoDB deployment at conf.Database.URI and waits for it to be ready.
func Open(ctx context.Context, conf *core.Config) (Store, error) {
	opts := options.Client().
		ApplyURI(conf.Database.URI).
		SetAppName(conf.AppName).
		SetTimeout(conf.Database.Timeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, errors.Wrap(err, "connecting to database")
	}
	if err = ping(ctx, client); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "pinging database")
	}
	return &mongoStore{client: client, db: client.Database(conf.Database.Name)}, nil
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(ctx context.Context, client *mongo.Client) error {
	var err error
	maxAttempts := 30
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		err = client.Ping(ctx, readpref.Primary())
		if err == nil {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}

	if err != nil {
		return errors.Wrap(err, "DB ping timeout")
	}
	return nil
}

func (s *mongoStore) Collection(name string) Collection {
	return &mongoCollection{coll: s.db.Collection(name)}
}

func (s *mongoStore) EnsureIndexes(ctx context.Context) error {
	for _, idx := range Indexes {
		keys := make(bson.D, 0, len(idx.Keys))
		for _, k := range idx.Keys {
			keys = append(keys, bson.E{Key: k, Value: 1})
		}
		opts := options.Index()
		if idx.Unique {
			opts.SetUnique(true)
		}
		if idx.Partial != nil {
			opts.SetPartialFilterExpression(idx.Partial)
		}
		model := mongo.IndexModel{Keys: keys, Options: opts}
		if _, err := s.db.Collection(idx.Collection).Indexes().CreateOne(ctx, model); err != nil {
			return errors.Wrapf(err, "creating index on %s%v", idx.Collection, idx.Keys)
		}
	}
	return nil
}

func (s *mongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// mongo rejects nil filters
func filterOrAll(filter interface{}) interface{} {
	if filter == nil {
		return bson.M{}
	}
	return filter
}

func (c *mongoCollection) FindOne(ctx context.Context, filter interface{}, out interface{}) error {
	err := c.coll.FindOne(ctx, filterOrAll(filter)).Decode(out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNoDocuments
	}
	return err
}

func (c *mongoCollection) Find(ctx context.Context, filter interface{}, out interface{}, opts ...*options.FindOptions) error {
	cur, err := c.coll.Find(ctx, filterOrAll(filter), opts...)
	if err != nil {
		return err
	}
	return cur.All(ctx, out)
}

func (c *mongoCollection) InsertOne(ctx context.Context, doc interface{}) (primitive.ObjectID, error) {
	res, err := c.coll.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, ErrDuplicateKey
		}
		return primitive.NilObjectID, err
	}
	id, _ := res.InsertedID.(primitive.ObjectID)
	return id, nil
}

func (c *mongoCollection) UpdateOne(ctx context.Context, filter, update interface{}) (*mongo.UpdateResult, error) {
	res, err := c.coll.UpdateOne(ctx, filterOrAll(filter), update)
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicateKey
	}
	return res, err
}

func (c *mongoCollection) UpdateMany(ctx context.Context, filter, update interface{}) (*mongo.UpdateResult, error) {
	res, err := c.coll.UpdateMany(ctx, filterOrAll(filter), update)
	if err != nil && mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicateKey
	}
	return res, err
}

func (c *mongoCollection) DeleteOne(ctx context.Context, filter interface{}) (int64, error) {
	res, err := c.coll.DeleteOne(ctx, filterOrAll(filter))
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (c *mongoCollection) CountDocuments(ctx context.Context, filter interface{}) (int64, error) {
	return c.coll.CountDocuments(ctx, filterOrAll(filter))
}
