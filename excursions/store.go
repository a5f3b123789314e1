package excursions

import (
	"context"
	"errors"
	"regexp"
	"time"

	"tourdesk/db"
	"tourdesk/models"
	"tourdesk/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Filter narrows an excursion listing. Zero values do not filter.
type Filter struct {
	Published   *bool
	TagID       string
	FilterItems []string
	Search      string
	Page        int
	Limit       int
}

type Store interface {
	List(ctx context.Context, f Filter) ([]models.ExcursionCard, int64, error)
	Get(ctx context.Context, id string) (models.ExcursionCard, error)
	GetBySlug(ctx context.Context, slug string) (models.ExcursionCard, error)
	Create(ctx context.Context, card models.ExcursionCard) error
	Update(ctx context.Context, card models.ExcursionCard) error
	Delete(ctx context.Context, id string) error

	SetProductID(ctx context.Context, excursionID, productID string) error
	ClearProductID(ctx context.Context, excursionID, productID string) error
	PullTag(ctx context.Context, tagID string) error
	PullFilterItems(ctx context.Context, itemIDs []string) error
	AddImages(ctx context.Context, id string, paths []string) error
	RemoveImage(ctx context.Context, id, path string) error
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(d *db.DB) *MongoStore {
	return &MongoStore{coll: d.ExcursionsCollection}
}

func buildFilter(f Filter) bson.M {
	filter := bson.M{}
	if f.Published != nil {
		filter["published"] = *f.Published
	}
	if f.TagID != "" {
		filter["tags"] = f.TagID
	}
	if len(f.FilterItems) > 0 {
		filter["filterItems"] = bson.M{"$all": f.FilterItems}
	}
	if f.Search != "" {
		filter["title"] = bson.M{"$regex": regexp.QuoteMeta(f.Search), "$options": "i"}
	}
	return filter
}

func (s *MongoStore) List(ctx context.Context, f Filter) ([]models.ExcursionCard, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	filter := buildFilter(f)
	total, err := s.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(utils.QueryOptions{Page: f.Page, Limit: f.Limit}.Skip()).
		SetLimit(int64(f.Limit))
	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	cards := []models.ExcursionCard{}
	if err := cursor.All(ctx, &cards); err != nil {
		return nil, 0, err
	}
	return cards, total, nil
}

func (s *MongoStore) findOne(ctx context.Context, filter bson.M) (models.ExcursionCard, error) {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	var card models.ExcursionCard
	err := s.coll.FindOne(ctx, filter).Decode(&card)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return card, utils.NotFound("excursion")
	}
	return card, err
}

func (s *MongoStore) Get(ctx context.Context, id string) (models.ExcursionCard, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoStore) GetBySlug(ctx context.Context, slug string) (models.ExcursionCard, error) {
	return s.findOne(ctx, bson.M{"slug": slug})
}

func (s *MongoStore) Create(ctx context.Context, card models.ExcursionCard) error {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	_, err := s.coll.InsertOne(ctx, card)
	if db.IsDuplicateKey(err) {
		return utils.Conflict("slug %q already in use", card.Slug)
	}
	return err
}

func (s *MongoStore) Update(ctx context.Context, card models.ExcursionCard) error {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	res, err := s.coll.ReplaceOne(ctx, bson.M{"_id": card.ID}, card)
	if db.IsDuplicateKey(err) {
		return utils.Conflict("slug %q already in use", card.Slug)
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.NotFound("excursion")
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
		return utils.NotFound("excursion")
	}
	return nil
}

func (s *MongoStore) update(ctx context.Context, filter, update bson.M, many bool) (*mongo.UpdateResult, error) {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	if many {
		return s.coll.UpdateMany(ctx, filter, update)
	}
	return s.coll.UpdateOne(ctx, filter, update)
}

func (s *MongoStore) SetProductID(ctx context.Context, excursionID, productID string) error {
	res, err := s.update(ctx, bson.M{"_id": excursionID},
		bson.M{"$set": bson.M{"productId": productID, "updatedAt": time.Now().UTC()}}, false)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.NotFound("excursion")
	}
	return nil
}

// ClearProductID unsets productId only while it still points at productID.
func (s *MongoStore) ClearProductID(ctx context.Context, excursionID, productID string) error {
	_, err := s.update(ctx, bson.M{"_id": excursionID, "productId": productID},
		bson.M{"$unset": bson.M{"productId": ""}, "$set": bson.M{"updatedAt": time.Now().UTC()}}, false)
	return err
}

func (s *MongoStore) PullTag(ctx context.Context, tagID string) error {
	_, err := s.update(ctx, bson.M{"tags": tagID},
		bson.M{"$pull": bson.M{"tags": tagID}, "$set": bson.M{"updatedAt": time.Now().UTC()}}, true)
	return err
}

func (s *MongoStore) PullFilterItems(ctx context.Context, itemIDs []string) error {
	if len(itemIDs) == 0 {
		return nil
	}
	_, err := s.update(ctx, bson.M{"filterItems": bson.M{"$in": itemIDs}},
		bson.M{"$pull": bson.M{"filterItems": bson.M{"$in": itemIDs}}, "$set": bson.M{"updatedAt": time.Now().UTC()}}, true)
	return err
}

func (s *MongoStore) AddImages(ctx context.Context, id string, paths []string) error {
	res, err := s.update(ctx, bson.M{"_id": id},
		bson.M{"$push": bson.M{"images": bson.M{"$each": paths}}, "$set": bson.M{"updatedAt": time.Now().UTC()}}, false)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.NotFound("excursion")
	}
	return nil
}

func (s *MongoStore) RemoveImage(ctx context.Context, id, path string) error {
	res, err := s.update(ctx, bson.M{"_id": id, "images": path},
		bson.M{"$pull": bson.M{"images": path}, "$set": bson.M{"updatedAt": time.Now().UTC()}}, false)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.NotFound("image")
	}
	return nil
}
