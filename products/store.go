package products

import (
	"context"
	"errors"

	"tourdesk/db"
	"tourdesk/models"
	"tourdesk/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store interface {
	List(ctx context.Context, excursionID string, published *bool) ([]models.ExcursionProduct, error)
	Get(ctx context.Context, id string) (models.ExcursionProduct, error)
	// FindByExcursion returns nil when no product links the excursion.
	FindByExcursion(ctx context.Context, excursionID string) (*models.ExcursionProduct, error)
	Create(ctx context.Context, p models.ExcursionProduct) error
	Update(ctx context.Context, p models.ExcursionProduct) error
	Delete(ctx context.Context, id string) error
	ClearExcursion(ctx context.Context, excursionID string) error
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(d *db.DB) *MongoStore {
	return &MongoStore{coll: d.ProductsCollection}
}

func (s *MongoStore) List(ctx context.Context, excursionID string, published *bool) ([]models.ExcursionProduct, error) {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	filter := bson.M{}
	if excursionID != "" {
		filter["excursionId"] = excursionID
	}
	if published != nil {
		filter["published"] = *published
	}
	cursor, err := s.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, err
	}
	out := []models.ExcursionProduct{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (models.ExcursionProduct, error) {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	var p models.ExcursionProduct
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return p, utils.NotFound("product")
	}
	return p, err
}

func (s *MongoStore) FindByExcursion(ctx context.Context, excursionID string) (*models.ExcursionProduct, error) {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	var p models.ExcursionProduct
	err := s.coll.FindOne(ctx, bson.M{"excursionId": excursionID}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *MongoStore) Create(ctx context.Context, p models.ExcursionProduct) error {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	_, err := s.coll.InsertOne(ctx, p)
	return err
}

func (s *MongoStore) Update(ctx context.Context, p models.ExcursionProduct) error {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": p.ID}, p)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.NotFound("product")
	}
	return nil
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.NotFound("product")
	}
	return nil
}

func (s *MongoStore) ClearExcursion(ctx context.Context, excursionID string) error {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	_, err := s.coll.UpdateMany(ctx, bson.M{"excursionId": excursionID}, bson.M{"$unset": bson.M{"excursionId": ""}})
	return err
}
