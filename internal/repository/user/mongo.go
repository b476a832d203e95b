package user

import (
	"context"
	"secure_chat/internal/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type (
	// MongoRepo is the persistent credential store. A unique index on
	// username enforces the uniqueness invariant inside the database, so
	// it holds across process restarts too.
	MongoRepo struct {
		collection *mongo.Collection
	}
)

func NewMongoRepo(ctx context.Context, db *mongo.Database) (*MongoRepo, error) {
	collection := db.Collection("users")

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, err
	}

	return &MongoRepo{collection: collection}, nil
}

func (r *MongoRepo) Create(ctx context.Context, user *model.User) error {
	_, err := r.collection.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func (r *MongoRepo) GetByName(ctx context.Context, name string) (*model.User, error) {
	filter := bson.M{
		"username": name,
	}

	var user model.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, err
	}

	return &user, nil
}
