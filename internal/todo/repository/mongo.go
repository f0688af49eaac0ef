package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/todoapp/todo-api/internal/todo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements a MongoDB-backed repository for todos.
// Integer ids come from a sequence document in the "counters" collection so
// that ids look the same regardless of the store driver.
type MongoRepo struct {
	col      *mongo.Collection
	counters *mongo.Collection
	now      func() time.Time
}

func NewMongoRepo(db *mongo.Database) *MongoRepo {
	return &MongoRepo{
		col:      db.Collection("todos"),
		counters: db.Collection("counters"),
		now:      time.Now,
	}
}

// EnsureIndexes creates the listing index. Safe to call on every start.
func (m *MongoRepo) EnsureIndexes(ctx context.Context) error {
	idx := mongo.IndexModel{Keys: bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}}
	_, err := m.col.Indexes().CreateOne(ctx, idx)
	return todo.WrapStore("index", err)
}

func (m *MongoRepo) nextID(ctx context.Context) (int64, error) {
	var seq struct {
		Seq int64 `bson:"seq"`
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	err := m.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": "todos"},
		bson.M{"$inc": bson.M{"seq": int64(1)}},
		opts,
	).Decode(&seq)
	if err != nil {
		return 0, err
	}
	return seq.Seq, nil
}

func (m *MongoRepo) Create(ctx context.Context, t *todo.Todo) error {
	id, err := m.nextID(ctx)
	if err != nil {
		return todo.WrapStore("insert", err)
	}
	t.ID = id
	// BSON dates carry millisecond precision
	t.CreatedAt = m.now().UTC().Truncate(time.Millisecond)
	if _, err := m.col.InsertOne(ctx, t); err != nil {
		return todo.WrapStore("insert", err)
	}
	return nil
}

func (m *MongoRepo) Get(ctx context.Context, id int64) (*todo.Todo, error) {
	var t todo.Todo
	err := m.col.FindOne(ctx, bson.M{"_id": id}).Decode(&t)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, todo.ErrNotFound
		}
		return nil, todo.WrapStore("get", err)
	}
	return &t, nil
}

func (m *MongoRepo) List(ctx context.Context, opts todo.ListOptions) ([]*todo.Todo, int, error) {
	filter := bson.M{}
	if len(opts.Statuses) > 0 {
		statuses := make(bson.A, len(opts.Statuses))
		for i, s := range opts.Statuses {
			statuses[i] = string(s)
		}
		filter["status"] = bson.M{"$in": statuses}
	}
	if opts.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(opts.Search), Options: "i"}
		filter["$or"] = bson.A{bson.M{"title": re}, bson.M{"description": re}}
	}

	total, err := m.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, todo.WrapStore("list", err)
	}

	dir := -1
	if opts.Ascending() {
		dir = 1
	}
	findOpts := options.Find().SetSort(bson.D{{Key: "created_at", Value: dir}, {Key: "_id", Value: dir}})
	if opts.Offset > 0 {
		findOpts.SetSkip(int64(opts.Offset))
	}
	if opts.Limit > 0 {
		findOpts.SetLimit(int64(opts.Limit))
	}
	cur, err := m.col.Find(ctx, filter, findOpts)
	if err != nil {
		return nil, 0, todo.WrapStore("list", err)
	}
	defer cur.Close(ctx)
	out := []*todo.Todo{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, 0, todo.WrapStore("list", err)
	}
	return out, int(total), nil
}

func (m *MongoRepo) Update(ctx context.Context, t *todo.Todo) error {
	set := bson.M{"title": t.Title, "description": t.Description, "status": string(t.Status)}
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": t.ID}, bson.M{"$set": set})
	if err != nil {
		return todo.WrapStore("update", err)
	}
	if res.MatchedCount == 0 {
		return todo.ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id int64) error {
	res, err := m.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return todo.WrapStore("delete", err)
	}
	if res.DeletedCount == 0 {
		return todo.ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Ping(ctx context.Context) error {
	return m.col.Database().Client().Ping(ctx, nil)
}
