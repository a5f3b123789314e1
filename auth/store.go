package auth

import (
	"context"
	"errors"
	"strings"

	"tourdesk/db"
	"tourdesk/models"
	"tourdesk/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type AdminStore interface {
	FindByEmail(ctx context.Context, email string) (models.Admin, error)
	Create(ctx context.Context, admin models.Admin) error
}

type MongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(d *db.DB) *MongoStore {
	return &MongoStore{coll: d.AdminsCollection}
}

func (s *MongoStore) FindByEmail(ctx context.Context, email string) (models.Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	var admin models.Admin
	err := s.coll.FindOne(ctx, bson.M{"email": strings.ToLower(email)}).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return admin, utils.NotFound("admin")
	}
	return admin, err
}

func (s *MongoStore) Create(ctx context.Context, admin models.Admin) error {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	if _, err := s.coll.InsertOne(ctx, admin); err != nil {
		if db.IsDuplicateKey(err) {
			return utils.Conflict("admin %s already exists", admin.Email)
		}
		return err
	}
	return nil
}
