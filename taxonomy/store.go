package taxonomy

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
	ListTags(ctx context.Context, activeOnly bool) ([]models.Tag, error)
	GetTag(ctx context.Context, id string) (models.Tag, error)
	GetTagBySlug(ctx context.Context, slug string) (models.Tag, error)
	CreateTag(ctx context.Context, t models.Tag) error
	UpdateTag(ctx context.Context, t models.Tag) error
	DeleteTag(ctx context.Context, id string) error
	ExistingTagIDs(ctx context.Context, ids []string) ([]string, error)

	ListFilterGroups(ctx context.Context, visibleOnly bool) ([]models.FilterGroup, error)
	GetFilterGroup(ctx context.Context, id string) (models.FilterGroup, error)
	CreateFilterGroup(ctx context.Context, g models.FilterGroup) error
	UpdateFilterGroup(ctx context.Context, g models.FilterGroup) error
	DeleteFilterGroup(ctx context.Context, id string) error

	ListFilterItems(ctx context.Context, groupID string, visibleOnly bool) ([]models.FilterItem, error)
	GetFilterItem(ctx context.Context, id string) (models.FilterItem, error)
	CreateFilterItem(ctx context.Context, it models.FilterItem) error
	UpdateFilterItem(ctx context.Context, it models.FilterItem) error
	DeleteFilterItem(ctx context.Context, id string) error
	DeleteFilterItemsByGroup(ctx context.Context, groupID string) error
	ExistingFilterItemIDs(ctx context.Context, ids []string) ([]string, error)
}

// collection holds the CRUD plumbing shared by the three taxonomy
// collections. Every document has a string _id and a unique slug.
type collection[T any] struct {
	coll *mongo.Collection
	what string
}

var bySortOrder = options.Find().SetSort(bson.D{{Key: "sortOrder", Value: 1}, {Key: "name", Value: 1}})

func (c collection[T]) list(ctx context.Context, filter bson.M) ([]T, error) {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	cursor, err := c.coll.Find(ctx, filter, bySortOrder)
	if err != nil {
		return nil, err
	}
	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c collection[T]) findOne(ctx context.Context, filter bson.M) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	var doc T
	err := c.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, utils.NotFound(c.what)
	}
	return doc, err
}

func (c collection[T]) insert(ctx context.Context, doc T) error {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	_, err := c.coll.InsertOne(ctx, doc)
	if db.IsDuplicateKey(err) {
		return utils.Conflict("%s slug already in use", c.what)
	}
	return err
}

func (c collection[T]) replace(ctx context.Context, id string, doc T) error {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	res, err := c.coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if db.IsDuplicateKey(err) {
		return utils.Conflict("%s slug already in use", c.what)
	}
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return utils.NotFound(c.what)
	}
	return nil
}

func (c collection[T]) delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	res, err := c.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return utils.NotFound(c.what)
	}
	return nil
}

func (c collection[T]) existing(ctx context.Context, ids []string) ([]string, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	cursor, err := c.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, err
	}
	var docs []struct {
		ID string `bson:"_id"`
	}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	found := make([]string, 0, len(docs))
	for _, d := range docs {
		found = append(found, d.ID)
	}
	return found, nil
}

type MongoStore struct {
	tags   collection[models.Tag]
	groups collection[models.FilterGroup]
	items  collection[models.FilterItem]
}

func NewMongoStore(d *db.DB) *MongoStore {
	return &MongoStore{
		tags:   collection[models.Tag]{coll: d.TagsCollection, what: "tag"},
		groups: collection[models.FilterGroup]{coll: d.FilterGroupsCollection, what: "filter group"},
		items:  collection[models.FilterItem]{coll: d.FilterItemsCollection, what: "filter item"},
	}
}

func (s *MongoStore) ListTags(ctx context.Context, activeOnly bool) ([]models.Tag, error) {
	filter := bson.M{}
	if activeOnly {
		filter["active"] = true
	}
	return s.tags.list(ctx, filter)
}

func (s *MongoStore) GetTag(ctx context.Context, id string) (models.Tag, error) {
	return s.tags.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoStore) GetTagBySlug(ctx context.Context, slug string) (models.Tag, error) {
	return s.tags.findOne(ctx, bson.M{"slug": slug})
}

func (s *MongoStore) CreateTag(ctx context.Context, t models.Tag) error {
	return s.tags.insert(ctx, t)
}

func (s *MongoStore) UpdateTag(ctx context.Context, t models.Tag) error {
	return s.tags.replace(ctx, t.ID, t)
}

func (s *MongoStore) DeleteTag(ctx context.Context, id string) error {
	return s.tags.delete(ctx, id)
}

func (s *MongoStore) ExistingTagIDs(ctx context.Context, ids []string) ([]string, error) {
	return s.tags.existing(ctx, ids)
}

func (s *MongoStore) ListFilterGroups(ctx context.Context, visibleOnly bool) ([]models.FilterGroup, error) {
	filter := bson.M{}
	if visibleOnly {
		filter["visible"] = true
	}
	return s.groups.list(ctx, filter)
}

func (s *MongoStore) GetFilterGroup(ctx context.Context, id string) (models.FilterGroup, error) {
	return s.groups.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoStore) CreateFilterGroup(ctx context.Context, g models.FilterGroup) error {
	return s.groups.insert(ctx, g)
}

func (s *MongoStore) UpdateFilterGroup(ctx context.Context, g models.FilterGroup) error {
	return s.groups.replace(ctx, g.ID, g)
}

func (s *MongoStore) DeleteFilterGroup(ctx context.Context, id string) error {
	return s.groups.delete(ctx, id)
}

func (s *MongoStore) ListFilterItems(ctx context.Context, groupID string, visibleOnly bool) ([]models.FilterItem, error) {
	filter := bson.M{}
	if groupID != "" {
		filter["groupId"] = groupID
	}
	if visibleOnly {
		filter["visible"] = true
	}
	return s.items.list(ctx, filter)
}

func (s *MongoStore) GetFilterItem(ctx context.Context, id string) (models.FilterItem, error) {
	return s.items.findOne(ctx, bson.M{"_id": id})
}

func (s *MongoStore) CreateFilterItem(ctx context.Context, it models.FilterItem) error {
	return s.items.insert(ctx, it)
}

func (s *MongoStore) UpdateFilterItem(ctx context.Context, it models.FilterItem) error {
	return s.items.replace(ctx, it.ID, it)
}

func (s *MongoStore) DeleteFilterItem(ctx context.Context, id string) error {
	return s.items.delete(ctx, id)
}

func (s *MongoStore) DeleteFilterItemsByGroup(ctx context.Context, groupID string) error {
	ctx, cancel := context.WithTimeout(ctx, db.OpTimeout)
	defer cancel()

	_, err := s.items.coll.DeleteMany(ctx, bson.M{"groupId": groupID})
	return err
}

func (s *MongoStore) ExistingFilterItemIDs(ctx context.Context, ids []string) ([]string, error) {
	return s.items.existing(ctx, ids)
}
