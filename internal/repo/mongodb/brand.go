package mongodb

import (
	"context"

	"github.com/nguyentranbao-ct/catalog-discovery/internal/models"
)

type BrandRepository interface {
	GetByID(ctx context.Context, id models.ObjectID) (*models.Brand, error)
}

type brandRepo struct {
	baseRepo[*models.Brand]
}

func NewBrandRepository(db *DB) BrandRepository {
	return &brandRepo{
		baseRepo: newBaseRepo[*models.Brand](db.Database),
	}
}

func (r *brandRepo) GetByID(ctx context.Context, id models.ObjectID) (*models.Brand, error) {
	return r.FindByID(ctx, id.String())
}
