package mongodb

import (
	"context"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type indexSpec struct {
	collection string
	model      mongo.IndexModel
}

func indexSpecs() []indexSpec {
	var (
		p *models.Product
		c *models.Category
		s *models.Seller
	)
	return []indexSpec{
		{
			collection: p.CollectionName(),
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "name", Value: "text"}, {Key: "description", Value: "text"}, {Key: "tags", Value: "text"}},
				Options: options.Index().SetName("product_text"),
			},
		},
		{
			collection: p.CollectionName(),
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "status", Value: 1}, {Key: "publish", Value: 1}, {Key: "category", Value: 1}, {Key: "createdAt", Value: -1}},
				Options: options.Index().SetName("product_listing"),
			},
		},
		{
			collection: c.CollectionName(),
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "slug", Value: 1}},
				Options: options.Index().SetName("category_slug"),
			},
		},
		{
			collection: s.CollectionName(),
			model: mongo.IndexModel{
				Keys:    bson.D{{Key: "location", Value: "2dsphere"}},
				Options: options.Index().SetName("seller_location"),
			},
		},
	}
}

// EnsureIndexes creates the indexes the discovery queries rely on: the text
// index behind $text search and the 2dsphere index behind $geoNear.
func EnsureIndexes(ctx context.Context, db *DB) error {
	for _, spec := range indexSpecs() {
		name, err := db.Database.Collection(spec.collection).Indexes().CreateOne(ctx, spec.model)
		if err != nil {
			return fmt.Errorf("create index on %s: %w", spec.collection, err)
		}
		log.Infow(ctx, "index ensured", "collection", spec.collection, "index", name)
	}
	return nil
}

// MissingIndexes names the indexes from EnsureIndexes that the store does
// not have. Indexes are matched by key pattern, not by name, so ones created
// by other tooling count.
func MissingIndexes(ctx context.Context, db *DB) ([]string, error) {
	existing := map[string][]*mongo.IndexSpecification{}
	var missing []string
	for _, spec := range indexSpecs() {
		specs, ok := existing[spec.collection]
		if !ok {
			var err error
			specs, err = db.Database.Collection(spec.collection).Indexes().ListSpecifications(ctx)
			if err != nil {
				return nil, fmt.Errorf("list indexes on %s: %w", spec.collection, err)
			}
			existing[spec.collection] = specs
		}
		if !indexPresent(specs, spec.model) {
			missing = append(missing, *spec.model.Options.Name)
		}
	}
	return missing, nil
}

func indexPresent(specs []*mongo.IndexSpecification, model mongo.IndexModel) bool {
	want, ok := model.Keys.(bson.D)
	if !ok {
		return false
	}
	for _, spec := range specs {
		if isTextIndex(want) {
			// the server stores text indexes as {_fts: "text", _ftsx: 1}
			if _, err := spec.KeysDocument.LookupErr("_fts"); err == nil {
				return true
			}
			continue
		}
		if sameKeys(spec.KeysDocument, want) {
			return true
		}
	}
	return false
}

func isTextIndex(keys bson.D) bool {
	for _, k := range keys {
		if k.Value == "text" {
			return true
		}
	}
	return false
}

func sameKeys(got bson.Raw, want bson.D) bool {
	elems, err := got.Elements()
	if err != nil || len(elems) != len(want) {
		return false
	}
	for i, e := range elems {
		if e.Key() != want[i].Key || !sameKeyValue(e.Value(), want[i].Value) {
			return false
		}
	}
	return true
}

// sameKeyValue compares numerically since shells store 1 as a double.
func sameKeyValue(got bson.RawValue, want interface{}) bool {
	switch w := want.(type) {
	case string:
		s, ok := got.StringValueOK()
		return ok && s == w
	case int:
		if v, ok := got.Int32OK(); ok {
			return int(v) == w
		}
		if v, ok := got.Int64OK(); ok {
			return v == int64(w)
		}
		if v, ok := got.DoubleOK(); ok {
			return v == float64(w)
		}
	}
	return false
}
