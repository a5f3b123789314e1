package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	ExcursionsName   = "excursions"
	ProductsName     = "excursion_products"
	GroupsName       = "groups"
	TouristsName     = "tourists"
	BookingsName     = "bookings"
	TagsName         = "tags"
	FilterGroupsName = "filter_groups"
	FilterItemsName  = "filter_items"
	AdminsName       = "admins"
)

// OpTimeout bounds a single database round trip made on behalf of a request.
const OpTimeout = 5 * time.Second

type DB struct {
	Client *mongo.Client

	ExcursionsCollection   *mongo.Collection
	ProductsCollection     *mongo.Collection
	GroupsCollection       *mongo.Collection
	TouristsCollection     *mongo.Collection
	BookingsCollection     *mongo.Collection
	TagsCollection         *mongo.Collection
	FilterGroupsCollection *mongo.Collection
	FilterItemsCollection  *mongo.Collection
	AdminsCollection       *mongo.Collection
}

// Connect dials MongoDB, pings it and resolves every collection.
func Connect(ctx context.Context, uri, database string) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	d := client.Database(database)
	return &DB{
		Client:                 client,
		ExcursionsCollection:   d.Collection(ExcursionsName),
		ProductsCollection:     d.Collection(ProductsName),
		GroupsCollection:       d.Collection(GroupsName),
		TouristsCollection:     d.Collection(TouristsName),
		BookingsCollection:     d.Collection(BookingsName),
		TagsCollection:         d.Collection(TagsName),
		FilterGroupsCollection: d.Collection(FilterGroupsName),
		FilterItemsCollection:  d.Collection(FilterItemsName),
		AdminsCollection:       d.Collection(AdminsName),
	}, nil
}

func (d *DB) Close(ctx context.Context) error {
	return d.Client.Disconnect(ctx)
}

func unique(keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true)}
}

// EnsureIndexes creates the indexes the stores rely on. Creating an index that
// already exists is a no-op.
func (d *DB) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	plan := []struct {
		coll   *mongo.Collection
		models []mongo.IndexModel
	}{
		{d.ExcursionsCollection, []mongo.IndexModel{
			unique(bson.D{{Key: "slug", Value: 1}}),
			{Keys: bson.D{{Key: "published", Value: 1}, {Key: "createdAt", Value: -1}}},
			{Keys: bson.D{{Key: "tags", Value: 1}}},
		}},
		{d.ProductsCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "excursionId", Value: 1}}},
		}},
		{d.GroupsCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "date", Value: 1}, {Key: "time", Value: 1}}},
			{Keys: bson.D{{Key: "excursionId", Value: 1}}},
		}},
		{d.TouristsCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "groupId", Value: 1}}},
		}},
		{d.BookingsCollection, []mongo.IndexModel{
			{Keys: bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: -1}}},
		}},
		{d.TagsCollection, []mongo.IndexModel{unique(bson.D{{Key: "slug", Value: 1}})}},
		{d.FilterGroupsCollection, []mongo.IndexModel{unique(bson.D{{Key: "slug", Value: 1}})}},
		{d.FilterItemsCollection, []mongo.IndexModel{
			unique(bson.D{{Key: "slug", Value: 1}}),
			{Keys: bson.D{{Key: "groupId", Value: 1}}},
		}},
		{d.AdminsCollection, []mongo.IndexModel{unique(bson.D{{Key: "email", Value: 1}})}},
	}

	for _, p := range plan {
		if _, err := p.coll.Indexes().CreateMany(ctx, p.models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", p.coll.Name(), err)
		}
	}
	return nil
}

// IsDuplicateKey reports whether err came from a unique index violation.
func IsDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
