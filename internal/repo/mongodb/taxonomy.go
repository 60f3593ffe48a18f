package mongodb

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/nguyentranbao-ct/catalog-discovery/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaxonomyRepository answers resolver lookups against one taxonomy store.
type TaxonomyRepository interface {
	LookupID(ctx context.Context, lookup models.Lookup) (models.ObjectID, bool, error)
}

type CategoryRepository interface {
	TaxonomyRepository
}

type SubCategoryRepository interface {
	TaxonomyRepository
}

type taxonomyRepo[E IEntity] struct {
	baseRepo[E]
	hasStatus bool
}

type categoryRepo struct {
	taxonomyRepo[*models.Category]
}

func NewCategoryRepository(db *DB) CategoryRepository {
	return &categoryRepo{
		taxonomyRepo: taxonomyRepo[*models.Category]{
			baseRepo:  newBaseRepo[*models.Category](db.Database),
			hasStatus: true,
		},
	}
}

func NewSubCategoryRepository(db *DB) SubCategoryRepository {
	return &taxonomyRepo[*models.SubCategory]{
		baseRepo: newBaseRepo[*models.SubCategory](db.Database),
	}
}

type idOnly struct {
	ID models.ObjectID `bson:"_id"`
}

func (r *taxonomyRepo[E]) LookupID(ctx context.Context, lookup models.Lookup) (models.ObjectID, bool, error) {
	filter := lookupFilter(lookup, r.hasStatus)
	opts := options.FindOne().
		SetProjection(bson.M{"_id": 1}).
		SetSort(bson.D{{Key: "_id", Value: 1}})

	var doc idOnly
	err := r.coll.FindOne(ctx, filter, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup %s by %s: %w", r.coll.Name(), lookup.Field, err)
	}
	return doc.ID, true, nil
}

// lookupFilter builds the store query for a resolver probe. The status
// constraint is dropped for stores that do not carry one.
func lookupFilter(lookup models.Lookup, hasStatus bool) bson.M {
	filter := bson.M{}
	if lookup.Fold {
		filter[lookup.Field] = primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(lookup.Value) + "$",
			Options: "i",
		}
	} else {
		filter[lookup.Field] = lookup.Value
	}
	if lookup.ActiveOnly && hasStatus {
		filter["status"] = models.CategoryStatusActive
	}
	return filter
}
