package repository

import (
	"context"
	"errors"
	"fmt"

	"productcatalog/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	brandsCollection     = "brands"
	categoriesCollection = "categories"
	tagsCollection       = "tags"
)

type MongoReferenceRepo struct {
	DB *mongo.Database
}

func NewMongoReferenceRepo(db *mongo.Database) *MongoReferenceRepo {
	return &MongoReferenceRepo{DB: db}
}

func (r *MongoReferenceRepo) FindBrandByName(ctx context.Context, name string) (*models.Brand, error) {
	var b models.Brand
	found, err := r.findOneByName(ctx, brandsCollection, name, &b)
	if err != nil || !found {
		return nil, err
	}
	return &b, nil
}

func (r *MongoReferenceRepo) FindCategoryByName(ctx context.Context, name string) (*models.Category, error) {
	var c models.Category
	found, err := r.findOneByName(ctx, categoriesCollection, name, &c)
	if err != nil || !found {
		return nil, err
	}
	return &c, nil
}

func (r *MongoReferenceRepo) FindTagsByNames(ctx context.Context, names []string) ([]models.Tag, error) {
	tags := []models.Tag{}
	if len(names) == 0 {
		return tags, nil
	}

	cur, err := r.DB.Collection(tagsCollection).Find(ctx, bson.M{"name": bson.M{"$in": names}})
	if err != nil {
		return nil, fmt.Errorf("find tags: %w", err)
	}
	if err := cur.All(ctx, &tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	return tags, nil
}

func (r *MongoReferenceRepo) findOneByName(ctx context.Context, coll, name string, out interface{}) (bool, error) {
	err := r.DB.Collection(coll).FindOne(ctx, bson.M{"name": name}).Decode(out)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return false, nil
		}
		return false, fmt.Errorf("find %s: %w", coll, err)
	}
	return true, nil
}
