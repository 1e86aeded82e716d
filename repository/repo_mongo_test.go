package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"productcatalog/models"
)

func newMockMongo(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func productDoc(id primitive.ObjectID, categoryID, brandID, tagID interface{}) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: "Milk"},
		{Key: "category_id", Value: categoryID},
		{Key: "category", Value: "Dairy"},
		{Key: "brand_id", Value: brandID},
		{Key: "brand", Value: "Farmhouse"},
		{Key: "price", Value: 3.5},
		{Key: "description", Value: "1L"},
		{Key: "tags", Value: bson.A{bson.D{{Key: "_id", Value: tagID}, {Key: "name", Value: "dairy"}}}},
		{Key: "created_at", Value: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)},
	}
}

func TestMongoUserRepo(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("create sets id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewMongoUserRepo(mt.DB)

		u := &models.User{Email: "a@example.com", PasswordHash: "hash"}
		require.NoError(mt, repo.CreateUser(context.Background(), u))
		assert.Len(mt, u.ID, 24)
		assert.False(mt, u.CreatedAt.IsZero())
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))
		repo := NewMongoUserRepo(mt.DB)

		err := repo.CreateUser(context.Background(), &models.User{Email: "a@example.com"})
		assert.ErrorIs(mt, err, models.ErrEmailTaken)
	})

	mt.Run("get by email", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "email", Value: "a@example.com"},
			{Key: "password_hash", Value: "hash"},
		}))
		repo := NewMongoUserRepo(mt.DB)

		u, err := repo.GetUserByEmail(context.Background(), "a@example.com")
		require.NoError(mt, err)
		require.NotNil(mt, u)
		assert.Equal(mt, oid.Hex(), u.ID)
		assert.Equal(mt, "hash", u.PasswordHash)
	})

	mt.Run("get unknown email", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.users", mtest.FirstBatch))
		repo := NewMongoUserRepo(mt.DB)

		u, err := repo.GetUserByEmail(context.Background(), "nobody@example.com")
		require.NoError(mt, err)
		assert.Nil(mt, u)
	})
}

func TestMongoReferenceRepo(t *testing.T) {
	mt := newMockMongo(t)

	mt.Run("brand found", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.brands", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: oid}, {Key: "name", Value: "Farmhouse"}}))
		repo := NewMongoReferenceRepo(mt.DB)

		b, err := repo.FindBrandByName(context.Background(), "Farmhouse")
		require.NoError(mt, err)
		require.NotNil(mt, b)
		assert.Equal(mt, models.Brand{ID: oid, Name: "Farmhouse"}, *b)
	})

	mt.Run("category missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.categories", mtest.FirstBatch))
		repo := NewMongoReferenceRepo(mt.DB)

		c, err := repo.FindCategoryByName(context.Background(), "Nope")
		require.NoError(mt, err)
		assert.Nil(mt, c)
	})

	mt.Run("tags subset", func(mt *mtest.T) {
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.tags", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: oid}, {Key: "name", Value: "dairy"}}))
		repo := NewMongoReferenceRepo(mt.DB)

		tags, err := repo.FindTagsByNames(context.Background(), []string{"fresh", "dairy"})
		require.NoError(mt, err)
		assert.Equal(mt, []models.Tag{{ID: oid, Name: "dairy"}}, tags)
	})

	mt.Run("brand with string id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.brands", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: "farmhouse"}, {Key: "name", Value: "Farmhouse"}}))
		repo := NewMongoReferenceRepo(mt.DB)

		b, err := repo.FindBrandByName(context.Background(), "Farmhouse")
		require.NoError(mt, err)
		require.NotNil(mt, b)
		assert.Equal(mt, "farmhouse", b.ID)
	})

	mt.Run("category with integer id", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.categories", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: int32(7)}, {Key: "name", Value: "Dairy"}}))
		repo := NewMongoReferenceRepo(mt.DB)

		c, err := repo.FindCategoryByName(context.Background(), "Dairy")
		require.NoError(mt, err)
		require.NotNil(mt, c)
		assert.Equal(mt, int32(7), c.ID)
	})

	mt.Run("no tag names skips query", func(mt *mtest.T) {
		repo := NewMongoReferenceRepo(mt.DB)

		tags, err := repo.FindTagsByNames(context.Background(), nil)
		require.NoError(mt, err)
		assert.Empty(mt, tags)
	})
}

func TestMongoProductRepo(t *testing.T) {
	mt := newMockMongo(t)
	categoryID, brandID, tagID := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("create", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := NewMongoProductRepo(mt.DB)

		p := &models.Product{
			Name: "Milk", CategoryID: categoryID, Category: "Dairy",
			BrandID: brandID, Brand: "Farmhouse", Price: 3.5, Description: "1L",
			Tags: []models.Tag{{ID: tagID, Name: "dairy"}},
		}
		id, err := repo.Create(context.Background(), p)
		require.NoError(mt, err)
		assert.True(mt, primitive.IsValidObjectID(id))
		assert.Equal(mt, id, p.ID)
	})

	mt.Run("create keeps non-ObjectID reference ids", func(mt *mtest.T) {
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "test.brands", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: "farmhouse"}, {Key: "name", Value: "Farmhouse"}}),
			mtest.CreateCursorResponse(0, "test.categories", mtest.FirstBatch,
				bson.D{{Key: "_id", Value: int32(7)}, {Key: "name", Value: "Dairy"}}),
			mtest.CreateSuccessResponse(),
		)
		refs := NewMongoReferenceRepo(mt.DB)
		repo := NewMongoProductRepo(mt.DB)

		b, err := refs.FindBrandByName(context.Background(), "Farmhouse")
		require.NoError(mt, err)
		c, err := refs.FindCategoryByName(context.Background(), "Dairy")
		require.NoError(mt, err)

		p := &models.Product{
			Name: "Milk", CategoryID: c.ID, Category: c.Name, BrandID: b.ID, Brand: b.Name,
			Price: 3.5, Description: "1L", Tags: []models.Tag{{ID: "dairy", Name: "dairy"}},
		}
		id, err := repo.Create(context.Background(), p)
		require.NoError(mt, err)
		assert.True(mt, primitive.IsValidObjectID(id))

		evt := mt.GetStartedEvent()
		for evt != nil && evt.CommandName != "insert" {
			evt = mt.GetStartedEvent()
		}
		require.NotNil(mt, evt)
		inserted := evt.Command.Lookup("documents").Array().Index(0).Value().Document()
		assert.Equal(mt, "farmhouse", inserted.Lookup("brand_id").StringValue())
		assert.Equal(mt, int32(7), inserted.Lookup("category_id").Int32())
		tag := inserted.Lookup("tags").Array().Index(0).Value().Document()
		assert.Equal(mt, "dairy", tag.Lookup("_id").StringValue())
	})

	mt.Run("get by id", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.products", mtest.FirstBatch,
			productDoc(id, categoryID, brandID, tagID)))
		repo := NewMongoProductRepo(mt.DB)

		p, err := repo.GetByID(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, id.Hex(), p.ID)
		assert.Equal(mt, "Milk", p.Name)
		assert.Equal(mt, categoryID, p.CategoryID)
		assert.Equal(mt, brandID, p.BrandID)
		assert.Equal(mt, 3.5, p.Price)
		assert.Equal(mt, "1L", p.Description)
		assert.Equal(mt, []models.Tag{{ID: tagID, Name: "dairy"}}, p.Tags)
	})

	mt.Run("get by id with mixed reference id types", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.products", mtest.FirstBatch,
			productDoc(id, int32(7), "farmhouse", int64(3))))
		repo := NewMongoProductRepo(mt.DB)

		p, err := repo.GetByID(context.Background(), id.Hex())
		require.NoError(mt, err)
		assert.Equal(mt, int32(7), p.CategoryID)
		assert.Equal(mt, "farmhouse", p.BrandID)
		assert.Equal(mt, []models.Tag{{ID: int64(3), Name: "dairy"}}, p.Tags)
	})

	mt.Run("get missing", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.products", mtest.FirstBatch))
		repo := NewMongoProductRepo(mt.DB)

		_, err := repo.GetByID(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, models.ErrProductNotFound)
	})

	mt.Run("malformed id is not found", func(mt *mtest.T) {
		repo := NewMongoProductRepo(mt.DB)

		_, err := repo.GetByID(context.Background(), "not-an-id")
		assert.ErrorIs(mt, err, models.ErrProductNotFound)
		assert.ErrorIs(mt, repo.Update(context.Background(), "123", &models.Product{}), models.ErrProductNotFound)
		assert.ErrorIs(mt, repo.Delete(context.Background(), "zzz"), models.ErrProductNotFound)
	})

	mt.Run("find returns summaries", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.products", mtest.FirstBatch,
			productDoc(id, categoryID, brandID, tagID)))
		repo := NewMongoProductRepo(mt.DB)

		list, err := repo.Find(context.Background(), ProductQuery{Tags: []string{"dairy"}})
		require.NoError(mt, err)
		require.Len(mt, list, 1)
		assert.Equal(mt, models.ProductSummary{
			ID: id.Hex(), Name: "Milk", Category: "Dairy", Brand: "Farmhouse",
			Tags: []models.Tag{{ID: tagID, Name: "dairy"}},
		}, list[0])
	})

	mt.Run("find nothing is empty list", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "test.products", mtest.FirstBatch))
		repo := NewMongoProductRepo(mt.DB)

		list, err := repo.Find(context.Background(), ProductQuery{Name: "zzz"})
		require.NoError(mt, err)
		assert.NotNil(mt, list)
		assert.Empty(mt, list)
	})

	mt.Run("update matched", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1}, bson.E{Key: "nModified", Value: 1}))
		repo := NewMongoProductRepo(mt.DB)

		id := primitive.NewObjectID().Hex()
		p := &models.Product{Name: "Milk", CategoryID: categoryID, BrandID: brandID}
		require.NoError(mt, repo.Update(context.Background(), id, p))
		assert.Equal(mt, id, p.ID)
		assert.NotNil(mt, p.UpdatedAt)
	})

	mt.Run("update unmatched", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0}, bson.E{Key: "nModified", Value: 0}))
		repo := NewMongoProductRepo(mt.DB)

		err := repo.Update(context.Background(), primitive.NewObjectID().Hex(), &models.Product{Name: "Milk"})
		assert.ErrorIs(mt, err, models.ErrProductNotFound)
	})

	mt.Run("delete", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}))
		repo := NewMongoProductRepo(mt.DB)

		require.NoError(mt, repo.Delete(context.Background(), primitive.NewObjectID().Hex()))
	})

	mt.Run("delete unmatched", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}))
		repo := NewMongoProductRepo(mt.DB)

		err := repo.Delete(context.Background(), primitive.NewObjectID().Hex())
		assert.ErrorIs(mt, err, models.ErrProductNotFound)
	})
}
