package bookings

import (
	"context"
	"errors"
	"time"

	"tourdesk/db"
	"tourdesk/models"
	"tourdesk/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store interface {
	// List returns bookings newest first. An empty status matches all.
	List(ctx context.Context, status string) ([]models.Booking, error)
	Get(ctx context.Context, id string) (models.Booking, error)
	Create(ctx context.Context, b models.Booking) error
	SetStatus(ctx context.Context, id, status string, at time.Time) (models.Booking, error)
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(d *db.DB) *MongoStore {
	return &MongoStore{coll: d.BookingsCollection}
}

func (s *MongoStore) List(ctx context.Context, status string) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	out := []models.Booking{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	var b models.Booking
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return b, utils.NotFound("booking")
	}
	return b, err
}

func (s *MongoStore) Create(ctx context.Context, b models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	_, err := s.coll.InsertOne(ctx, b)
	return err
}

func (s *MongoStore) SetStatus(ctx context.Context, id, status string, at time.Time) (models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	var b models.Booking
	err := s.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updatedAt": at}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&b)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return b, utils.NotFound("booking")
	}
	return b, err
}
