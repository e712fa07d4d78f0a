// Package mongostore implements repository.Store on MongoDB.
//
// Models are encoded through their bson tags. Collection names and indexes are
// all declared in this file.
package mongostore

import (
	"context"
	"fmt"
	"time"

	"learnhub/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

const (
	ColUsers       = "users"
	ColCourses     = "courses"
	ColEnrollments = "enrollments"
	ColPayments    = "payments"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
	// transactions selects multi-document transactions for Enroll; they need a
	// replica set. Without them Enroll compensates failed steps by hand.
	transactions bool
}

var _ repository.Store = (*Store)(nil)

// NewStore connects, pings and ensures indexes.
//
// uri: e.g. "mongodb://localhost:27017"; dbName: e.g. "learnhub".
func NewStore(uri, dbName string, transactions bool) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongostore: connect failed: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ping failed: %w", err)
	}

	s := &Store{client: client, db: client.Database(dbName), transactions: transactions}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongostore: ensure indexes failed: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

func (s *Store) col(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *Store) ensureIndexes(ctx context.Context) error {
	type idx struct {
		col    string
		keys   bson.D
		unique bool
	}

	indexes := []idx{
		{ColUsers, bson.D{{Key: "email", Value: 1}}, true},

		{ColCourses, bson.D{{Key: "user_id", Value: 1}}, false},
		{ColCourses, bson.D{{Key: "created_at", Value: 1}}, false},

		{ColEnrollments, bson.D{{Key: "user_id", Value: 1}, {Key: "course_id", Value: 1}}, true},
		{ColEnrollments, bson.D{{Key: "course_id", Value: 1}}, false},
		{ColEnrollments, bson.D{{Key: "created_at", Value: 1}}, false},

		{ColPayments, bson.D{{Key: "user_id", Value: 1}}, false},
	}

	for _, i := range indexes {
		model := mongo.IndexModel{Keys: i.keys}
		if i.unique {
			model.Options = options.Index().SetUnique(true)
		}
		if _, err := s.col(i.col).Indexes().CreateOne(ctx, model); err != nil {
			return fmt.Errorf("create index on %s: %w", i.col, err)
		}
	}
	return nil
}
