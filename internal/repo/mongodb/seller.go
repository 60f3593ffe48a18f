package mongodb

import (
	"context"
	"fmt"

	"github.com/nguyentranbao-ct/catalog-discovery/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SellerRepository interface {
	GetByID(ctx context.Context, id models.ObjectID) (*models.Seller, error)
	FindGlobalSellerIDs(ctx context.Context, rule models.GlobalSellerRule) ([]models.ObjectID, error)
}

type sellerRepo struct {
	baseRepo[*models.Seller]
}

func NewSellerRepository(db *DB) SellerRepository {
	return &sellerRepo{
		baseRepo: newBaseRepo[*models.Seller](db.Database),
	}
}

func (r *sellerRepo) GetByID(ctx context.Context, id models.ObjectID) (*models.Seller, error) {
	return r.FindByID(ctx, id.String())
}

func (r *sellerRepo) FindGlobalSellerIDs(ctx context.Context, rule models.GlobalSellerRule) ([]models.ObjectID, error) {
	opts := options.Find().SetProjection(bson.M{"_id": 1})
	ids := []models.ObjectID{}
	err := r.Iterate(ctx, globalSellerFilter(rule), func(s *models.Seller) error {
		ids = append(ids, s.ID)
		return nil
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("find global sellers: %w", err)
	}
	return ids, nil
}

// globalSellerFilter is the store-side form of GlobalSellerRule.IsGlobalSeller.
func globalSellerFilter(rule models.GlobalSellerRule) bson.M {
	or := bson.A{}
	if pattern := rule.EmailRegex(); pattern != "" {
		or = append(or, bson.M{"email": primitive.Regex{Pattern: pattern}})
	}
	or = append(or,
		bson.M{"category": models.AdminSellerCategory},
		bson.M{"storeName": primitive.Regex{Pattern: models.AdminStoreNamePattern, Options: "i"}},
	)
	return bson.M{"$or": or}
}
