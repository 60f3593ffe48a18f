package mongodb

import (
	"context"
	"fmt"

	"github.com/nguyentranbao-ct/catalog-discovery/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProductRepository interface {
	// FindPublished returns an Active, published product or models.ErrNotFound.
	FindPublished(ctx context.Context, id models.ObjectID) (*models.Product, error)
	List(ctx context.Context, query models.ProductQuery, sort models.SortKey, skip, limit int64) ([]*models.Product, int64, error)
	FindCards(ctx context.Context, query models.ProductQuery, limit int64) ([]*models.ProductCard, error)
}

type productRepo struct {
	products baseRepo[*models.Product]
	cards    baseRepo[*models.ProductCard]
}

func NewProductRepository(db *DB) ProductRepository {
	return &productRepo{
		products: newBaseRepo[*models.Product](db.Database),
		cards:    newBaseRepo[*models.ProductCard](db.Database),
	}
}

func (r *productRepo) FindPublished(ctx context.Context, id models.ObjectID) (*models.Product, error) {
	return r.products.FindOne(ctx, bson.M{
		"_id":     id,
		"status":  models.ProductStatusActive,
		"publish": true,
	})
}

func (r *productRepo) List(ctx context.Context, query models.ProductQuery, sort models.SortKey, skip, limit int64) ([]*models.Product, int64, error) {
	opts := options.Find().SetSort(sortFor(sort))
	page, err := r.products.PaginateWithTotal(ctx, productFilter(query), limit, skip, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("paginate products: %w", err)
	}
	return page.Data, page.Total, nil
}

func (r *productRepo) FindCards(ctx context.Context, query models.ProductQuery, limit int64) ([]*models.ProductCard, error) {
	projection := bson.M{}
	for _, f := range models.ProductCardFields {
		projection[f] = 1
	}
	opts := options.Find().
		SetLimit(limit).
		SetProjection(projection)
	cards, err := r.cards.Find(ctx, productFilter(query), opts)
	if err != nil {
		return nil, fmt.Errorf("find product cards: %w", err)
	}
	return cards, nil
}

// baseCriteria always applies. The shop-by-store-only test matches false,
// null and a missing field.
func baseCriteria() bson.M {
	return bson.M{
		"status":            models.ProductStatusActive,
		"publish":           true,
		"isShopByStoreOnly": bson.M{"$in": bson.A{false, nil}},
	}
}

func productFilter(q models.ProductQuery) bson.M {
	filter := baseCriteria()

	if !q.ExcludeID.IsZero() {
		filter["_id"] = bson.M{"$ne": q.ExcludeID}
	}
	if q.Sellers.Restrict {
		ids := q.Sellers.IDs
		if ids == nil {
			ids = []models.ObjectID{}
		}
		filter["seller"] = bson.M{"$in": ids}
	}
	if !q.CategoryID.IsZero() {
		filter["category"] = q.CategoryID
	}
	if !q.SubCategoryID.IsZero() {
		filter["subcategory"] = q.SubCategoryID
	}
	if !q.BrandID.IsZero() {
		filter["brand"] = q.BrandID
	}

	price := bson.M{}
	if q.MinPrice != nil {
		price["$gte"] = *q.MinPrice
	}
	if q.MaxPrice != nil {
		price["$lte"] = *q.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}

	if q.MinDiscount != nil {
		filter["discount"] = bson.M{"$gte": *q.MinDiscount}
	}
	if q.Search != "" {
		filter["$text"] = bson.M{"$search": q.Search}
	}
	return filter
}

func sortFor(key models.SortKey) bson.D {
	switch key {
	case models.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}}
	case models.SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}}
	case models.SortDiscount:
		return bson.D{{Key: "discount", Value: -1}}
	case models.SortPopular:
		return bson.D{{Key: "popularity", Value: -1}, {Key: "isDealOfDay", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}}
	}
}
