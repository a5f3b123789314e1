package groups

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

type Filter struct {
	Date        string
	ExcursionID string
	Status      string
}

type Store interface {
	List(ctx context.Context, f Filter) ([]models.Group, error)
	Get(ctx context.Context, id string) (models.Group, error)
	Create(ctx context.Context, g models.Group) error
	// Update writes every field but bookedSeats. It fails with a capacity
	// error when the new totalSeats is below the seats already booked.
	Update(ctx context.Context, g models.Group) error
	Delete(ctx context.Context, id string) error

	// ReserveSeats adds n booked seats only if they fit. It reports false
	// when they do not.
	ReserveSeats(ctx context.Context, groupID string, n int) (bool, error)
	// ReleaseSeats subtracts n booked seats, stopping at zero.
	ReleaseSeats(ctx context.Context, groupID string, n int) error

	ListTourists(ctx context.Context, groupID string) ([]models.Tourist, error)
	GetTourist(ctx context.Context, groupID, touristID string) (models.Tourist, error)
	CreateTourist(ctx context.Context, t models.Tourist) error
	DeleteTourist(ctx context.Context, groupID, touristID string) error
	DeleteTouristsByGroup(ctx context.Context, groupID string) error
}

type MongoStore struct {
	groups   *mongo.Collection
	tourists *mongo.Collection
}

func NewMongoStore(d *db.DB) *MongoStore {
	return &MongoStore{groups: d.GroupsCollection, tourists: d.TouristsCollection}
}

func (s *MongoStore) List(ctx context.Context, f Filter) ([]models.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	filter := bson.M{}
	if f.Date != "" {
		filter["date"] = f.Date
	}
	if f.ExcursionID != "" {
		filter["excursionId"] = f.ExcursionID
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}})
	cursor, err := s.groups.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	out := []models.Group{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (models.Group, error) {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	var g models.Group
	err := s.groups.FindOne(ctx, bson.M{"_id": id}).Decode(&g)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return g, utils.NotFound("group")
	}
	return g, err
}

func (s *MongoStore) Create(ctx context.Context, g models.Group) error {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	_, err := s.groups.InsertOne(ctx, g)
	return err
}

func (s *MongoStore) Update(ctx context.Context, g models.Group) error {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	set := bson.M{
		"excursionId": g.ExcursionID,
		"date":        g.Date,
		"time":        g.Time,
		"place":       g.Place,
		"totalSeats":  g.TotalSeats,
		"transport":   g.Transport,
		"guide":       g.Guide,
		"status":      g.Status,
		"updatedAt":   g.UpdatedAt,
	}
	res, err := s.groups.UpdateOne(ctx,
		bson.M{"_id": g.ID, "bookedSeats": bson.M{"$lte": g.TotalSeats}},
		bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := s.groups.CountDocuments(ctx, bson.M{"_id": g.ID})
	if err != nil {
		return err
	}
	if n == 0 {
		return utils.NotFound("group")
	}
	return utils.Capacity("totalSeats %d is below the seats already booked", g.TotalSeats)
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	res, err := s.groups.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.NotFound("group")
	}
	return nil
}

func (s *MongoStore) ReserveSeats(ctx context.Context, groupID string, n int) (bool, error) {
	if n < 1 {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	filter := bson.M{
		"_id": groupID,
		"$expr": bson.M{"$lte": bson.A{
			bson.M{"$add": bson.A{"$bookedSeats", n}},
			"$totalSeats",
		}},
	}
	update := bson.M{
		"$inc": bson.M{"bookedSeats": n},
		"$set": bson.M{"updatedAt": time.Now().UTC()},
	}
	res, err := s.groups.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return res.MatchedCount == 1, nil
}

func (s *MongoStore) ReleaseSeats(ctx context.Context, groupID string, n int) error {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "bookedSeats", Value: bson.M{"$max": bson.A{0, bson.M{"$subtract": bson.A{"$bookedSeats", n}}}}},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
	}
	_, err := s.groups.UpdateOne(ctx, bson.M{"_id": groupID}, pipeline)
	return err
}

func (s *MongoStore) ListTourists(ctx context.Context, groupID string) ([]models.Tourist, error) {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	cursor, err := s.tourists.Find(ctx, bson.M{"groupId": groupID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	out := []models.Tourist{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *MongoStore) GetTourist(ctx context.Context, groupID, touristID string) (models.Tourist, error) {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	var t models.Tourist
	err := s.tourists.FindOne(ctx, bson.M{"_id": touristID, "groupId": groupID}).Decode(&t)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return t, utils.NotFound("tourist")
	}
	return t, err
}

func (s *MongoStore) CreateTourist(ctx context.Context, t models.Tourist) error {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	_, err := s.tourists.InsertOne(ctx, t)
	return err
}

func (s *MongoStore) DeleteTourist(ctx context.Context, groupID, touristID string) error {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	res, err := s.tourists.DeleteOne(ctx, bson.M{"_id": touristID, "groupId": groupID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.NotFound("tourist")
	}
	return nil
}

func (s *MongoStore) DeleteTouristsByGroup(ctx context.Context, groupID string) error {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	_, err := s.tourists.DeleteMany(ctx, bson.M{"groupId": groupID})
	return err
}
