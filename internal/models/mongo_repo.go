package models

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongodbRepo struct {
	mongodbClient *mongo.Client
	dbName        string
}

func MongodbNewRepo(mongodbClient *mongo.Client, dbName string) *MongodbRepo {
	return &MongodbRepo{
		mongodbClient: mongodbClient,
		dbName:        dbName,
	}
}

func (mdb *MongodbRepo) GetCollection(colName string) (*mongo.Collection, error) {
	if mdb.mongodbClient == nil {
		return nil, fmt.Errorf("mongodb client is not initialized")
	}
	return mdb.mongodbClient.Database(mdb.dbName).Collection(colName), nil
}

// EnsureIndexes creates the sort indexes used by the gallery, moderation
// queue, guest list and timeline.
func (mdb *MongodbRepo) EnsureIndexes(ctx context.Context) error {
	specs := map[string][]mongo.IndexModel{
		Photo{}.TableName(): {
			{
				Keys:    bson.D{{Key: "approved", Value: 1}, {Key: "created_at", Value: -1}},
				Options: options.Index().SetName("approved_created_at_idx"),
			},
		},
		Guest{}.TableName(): {
			{
				Keys:    bson.D{{Key: "created_at", Value: -1}},
				Options: options.Index().SetName("created_at_idx"),
			},
		},
		TimelineItem{}.TableName(): {
			{
				Keys:    bson.D{{Key: "order", Value: 1}},
				Options: options.Index().SetName("order_idx"),
			},
		},
	}

	for colName, indexes := range specs {
		col, err := mdb.GetCollection(colName)
		if err != nil {
			return err
		}
		if _, err := col.Indexes().CreateMany(ctx, indexes); err != nil {
			return fmt.Errorf("error creating indexes on %s: %v", colName, err)
		}
	}
	return nil
}

// MongoRepository stores one entity kind in one collection. Records use the
// string id as _id.
type MongoRepository[T any] struct {
	col *mongo.Collection
}

func NewMongoRepository[T any](mdb *MongodbRepo, colName string) (*MongoRepository[T], error) {
	col, err := mdb.GetCollection(colName)
	if err != nil {
		return nil, err
	}
	return &MongoRepository[T]{col: col}, nil
}

func (r *MongoRepository[T]) Insert(ctx context.Context, rec *T) error {
	if _, err := r.col.InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("error inserting document: %w", err)
	}
	return nil
}

func (r *MongoRepository[T]) FindByID(ctx context.Context, id string) (*T, error) {
	rec := new(T)
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNoRecord
	}
	if err != nil {
		return nil, fmt.Errorf("error finding document: %w", err)
	}
	return rec, nil
}

func (r *MongoRepository[T]) Find(ctx context.Context, filter Filter, order Order) ([]*T, error) {
	query := bson.M{}
	for k, v := range filter {
		query[mongoField(k)] = v
	}

	opts := options.Find()
	if order.Field != "" {
		dir := 1
		if order.Desc {
			dir = -1
		}
		// _id keeps ties stable across pages of the same sort
		opts.SetSort(bson.D{{Key: mongoField(order.Field), Value: dir}, {Key: "_id", Value: 1}})
	}

	cursor, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("error finding documents: %w", err)
	}
	defer cursor.Close(ctx)

	var out []*T
	for cursor.Next(ctx) {
		rec := new(T)
		if err := cursor.Decode(rec); err != nil {
			return nil, fmt.Errorf("error decoding document: %w", err)
		}
		out = append(out, rec)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return out, nil
}

func (r *MongoRepository[T]) Replace(ctx context.Context, id string, rec *T) error {
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": id}, rec)
	if err != nil {
		return fmt.Errorf("error replacing document: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNoRecord
	}
	return nil
}

func (r *MongoRepository[T]) Delete(ctx context.Context, id string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("error deleting document: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNoRecord
	}
	return nil
}

func mongoField(name string) string {
	if name == "id" {
		return "_id"
	}
	return name
}
