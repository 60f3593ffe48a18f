package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentranbao-ct/catalog-discovery/internal/models"
	"github.com/nguyentranbao-ct/catalog-discovery/pkg/util"
	"github.com/prometheus/client_golang/prometheus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const metersPerKm = 1000

// SellerRangeFinder answers range queries in-database: sellers whose own
// serviceRadius (km) covers the point.
type SellerRangeFinder struct {
	coll    *mongo.Collection
	metrics *prometheus.HistogramVec
}

func NewSellerRangeFinder(db *DB) (*SellerRangeFinder, error) {
	metrics, err := util.GetHistogramVec("seller_range_lookup_seconds", "provider", "status")
	if err != nil {
		return nil, fmt.Errorf("get histogram vec: %w", err)
	}
	var s *models.Seller
	return &SellerRangeFinder{
		coll:    db.Database.Collection(s.CollectionName()),
		metrics: metrics,
	}, nil
}

func (f *SellerRangeFinder) FindSellersWithinRange(ctx context.Context, at models.Coordinates) (ids []models.ObjectID, err error) {
	start := time.Now()
	defer func() {
		status := "ok"
		if err != nil {
			status = "error"
		}
		f.metrics.WithLabelValues("mongo", status).Observe(time.Since(start).Seconds())
	}()

	cursor, err := f.coll.Aggregate(ctx, rangePipeline(at))
	if err != nil {
		return nil, fmt.Errorf("aggregate sellers in range: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []idOnly
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("decode sellers in range: %w", err)
	}
	ids = make([]models.ObjectID, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID)
	}
	return ids, nil
}

func rangePipeline(at models.Coordinates) []bson.M {
	return []bson.M{
		{
			"$geoNear": bson.M{
				"near":          models.NewGeoPoint(at),
				"key":           "location",
				"distanceField": "distance",
				"spherical":     true,
			},
		},
		{
			"$match": bson.M{
				"$expr": bson.M{
					"$lte": bson.A{
						"$distance",
						bson.M{"$multiply": bson.A{"$serviceRadius", metersPerKm}},
					},
				},
			},
		},
		{
			"$project": bson.M{"_id": 1},
		},
	}
}
