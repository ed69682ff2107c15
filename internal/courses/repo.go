package courses

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repo reads and seeds courses in a MongoDB collection.
type Repo struct {
	coll *mongo.Collection
}

func NewRepo(db *mongo.Database, collection string) *Repo {
	if collection == "" {
		collection = "courses"
	}
	return &Repo{coll: db.Collection(collection)}
}

func (r *Repo) Name() string { return "mongo:" + r.coll.Name() }

// EnsureIndexes creates the category index used by ad-hoc queries on the collection
func (r *Repo) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "categoria", Value: 1}},
		},
		{
			Keys: bson.D{{Key: "fecha", Value: -1}},
		},
	}

	_, err := r.coll.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

// Load returns every course in insertion order.
func (r *Repo) Load(ctx context.Context) (*Document, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: 1}}).
		SetProjection(bson.M{"_id": 0})

	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find courses: %w", err)
	}
	defer cursor.Close(ctx)

	var list []Course
	if err := cursor.All(ctx, &list); err != nil {
		return nil, fmt.Errorf("decode courses: %w", err)
	}
	return &Document{Courses: list}, nil
}

// Seed replaces the collection contents with cs, keeping their order.
func (r *Repo) Seed(ctx context.Context, cs []Course) (int, error) {
	if _, err := r.coll.DeleteMany(ctx, bson.M{}); err != nil {
		return 0, fmt.Errorf("clear courses: %w", err)
	}
	if len(cs) == 0 {
		return 0, nil
	}

	docs := make([]any, len(cs))
	for i, c := range cs {
		docs[i] = c
	}
	res, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(true))
	if err != nil {
		return 0, fmt.Errorf("insert courses: %w", err)
	}
	return len(res.InsertedIDs), nil
}

// Count returns the number of stored courses, optionally within one category.
func (r *Repo) Count(ctx context.Context, category string) (int64, error) {
	filter := bson.M{}
	if category != "" {
		filter["categoria"] = category
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count courses: %w", err)
	}
	return count, nil
}
