package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"productcatalog/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const productsCollection = "products"

// productDocument is the stored shape of a product. Brand and category are
// referenced by id and also carry their name at write time; tags are an
// embedded snapshot. Reference ids are stored exactly as the reference
// collections hold them, whatever their bson type.
type productDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Name        string             `bson:"name"`
	CategoryID  interface{}        `bson:"category_id,omitempty"`
	Category    string             `bson:"category"`
	BrandID     interface{}        `bson:"brand_id,omitempty"`
	Brand       string             `bson:"brand"`
	Price       float64            `bson:"price"`
	Description string             `bson:"description"`
	Tags        []tagDocument      `bson:"tags"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   *time.Time         `bson:"updated_at,omitempty"`
}

type tagDocument struct {
	ID   interface{} `bson:"_id,omitempty"`
	Name string      `bson:"name"`
}

var productSummaryProjection = bson.M{"name": 1, "category": 1, "brand": 1, "tags": 1}

type MongoProductRepo struct {
	DB *mongo.Database
}

func NewMongoProductRepo(db *mongo.Database) *MongoProductRepo {
	return &MongoProductRepo{DB: db}
}

func (r *MongoProductRepo) Create(ctx context.Context, p *models.Product) (string, error) {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	doc := toProductDocument(p)

	res, err := r.DB.Collection(productsCollection).InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("insert product: %w", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("insert product: unexpected id type %T", res.InsertedID)
	}
	p.ID = oid.Hex()
	return p.ID, nil
}

func (r *MongoProductRepo) GetByID(ctx context.Context, id string) (*models.Product, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrProductNotFound
	}

	var doc productDocument
	err = r.DB.Collection(productsCollection).FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoProductRepo) Find(ctx context.Context, q ProductQuery) ([]models.ProductSummary, error) {
	cur, err := r.DB.Collection(productsCollection).Find(ctx, q.MongoFilter(),
		options.Find().SetProjection(productSummaryProjection))
	if err != nil {
		return nil, fmt.Errorf("find products: %w", err)
	}
	defer cur.Close(ctx)

	out := []models.ProductSummary{}
	for cur.Next(ctx) {
		var doc productDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode product: %w", err)
		}
		out = append(out, doc.toSummary())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return out, nil
}

func (r *MongoProductRepo) Update(ctx context.Context, id string, p *models.Product) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrProductNotFound
	}
	doc := toProductDocument(p)
	now := time.Now().UTC()

	res, err := r.DB.Collection(productsCollection).UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{
			"name":        doc.Name,
			"category_id": doc.CategoryID,
			"category":    doc.Category,
			"brand_id":    doc.BrandID,
			"brand":       doc.Brand,
			"price":       doc.Price,
			"description": doc.Description,
			"tags":        doc.Tags,
			"updated_at":  now,
		}},
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrProductNotFound
	}
	p.ID = id
	p.UpdatedAt = &now
	return nil
}

func (r *MongoProductRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrProductNotFound
	}

	res, err := r.DB.Collection(productsCollection).DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrProductNotFound
	}
	return nil
}

func toProductDocument(p *models.Product) *productDocument {
	tags := make([]tagDocument, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, tagDocument{ID: t.ID, Name: t.Name})
	}

	return &productDocument{
		Name:        p.Name,
		CategoryID:  p.CategoryID,
		Category:    p.Category,
		BrandID:     p.BrandID,
		Brand:       p.Brand,
		Price:       p.Price,
		Description: p.Description,
		Tags:        tags,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (d *productDocument) tagModels() []models.Tag {
	tags := make([]models.Tag, 0, len(d.Tags))
	for _, t := range d.Tags {
		tags = append(tags, models.Tag{ID: t.ID, Name: t.Name})
	}
	return tags
}

func (d *productDocument) toModel() *models.Product {
	return &models.Product{
		ID:          d.ID.Hex(),
		Name:        d.Name,
		CategoryID:  d.CategoryID,
		Category:    d.Category,
		BrandID:     d.BrandID,
		Brand:       d.Brand,
		Price:       d.Price,
		Description: d.Description,
		Tags:        d.tagModels(),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func (d *productDocument) toSummary() models.ProductSummary {
	return models.ProductSummary{
		ID:       d.ID.Hex(),
		Name:     d.Name,
		Category: d.Category,
		Brand:    d.Brand,
		Tags:     d.tagModels(),
	}
}
