package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore backs the document store with a MongoDB database. Filters are
// compiled to native queries, so unlike the SQLite backend nothing is
// scanned in-process.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

// OpenMongo connects to the MongoDB instance at uri and pings it to verify
// the connection before returning.
func OpenMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("could not connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("could not reach mongodb: %w", err)
	}

	log.Println("INFO: Connected to MongoDB.")
	return &MongoStore{client: client, db: client.Database(database)}, nil
}

func (s *MongoStore) Collection(name string) Collection {
	return &mongoCollection{coll: s.db.Collection(name)}
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

type mongoCollection struct {
	coll *mongo.Collection
}

// toBSON compiles a Filter into a native Mongo query. Equality maps
// directly; In becomes an $in clause.
func toBSON(filter Filter) bson.M {
	query := bson.M{}
	for field, want := range filter {
		if set, ok := want.(In); ok {
			query[field] = bson.M{"$in": []any(set)}
			continue
		}
		query[field] = want
	}
	return query
}

func (c *mongoCollection) FindOne(ctx context.Context, filter Filter) (Document, error) {
	var doc Document
	err := c.coll.FindOne(ctx, toBSON(filter)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNoDocuments
		}
		return nil, err
	}
	delete(doc, "_id")
	return doc, nil
}

func (c *mongoCollection) Find(ctx context.Context, filter Filter) ([]Document, error) {
	// Sort by Mongo's _id to preserve insertion order, matching the
	// rowid ordering of the SQLite backend.
	cursor, err := c.coll.Find(ctx, toBSON(filter), options.Find().SetSort(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	docs := []Document{}
	for cursor.Next(ctx) {
		var doc Document
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		delete(doc, "_id")
		docs = append(docs, doc)
	}
	return docs, cursor.Err()
}

func (c *mongoCollection) Insert(ctx context.Context, doc Document) (string, error) {
	stored := make(Document, len(doc)+1)
	for k, v := range doc {
		stored[k] = v
	}
	id := uuid.NewString()
	stored["id"] = id

	if _, err := c.coll.InsertOne(ctx, stored); err != nil {
		return "", err
	}
	return id, nil
}

func (c *mongoCollection) UpdateOne(ctx context.Context, filter Filter, set Document) error {
	res, err := c.coll.UpdateOne(ctx, toBSON(filter), bson.M{"$set": bson.M(set)})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNoDocuments
	}
	return nil
}

func (c *mongoCollection) Count(ctx context.Context, filter Filter) (int64, error) {
	return c.coll.CountDocuments(ctx, toBSON(filter))
}
