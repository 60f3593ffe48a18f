package usecase

import (
	"context"
	"errors"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/config"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/models"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/repo/mongodb"
)

type DetailUsecase interface {
	GetProductDetail(ctx context.Context, id string, at *models.Coordinates) (*models.ProductDetail, error)
}

type detailUsecase struct {
	products     mongodb.ProductRepository
	sellers      mongodb.SellerRepository
	brands       mongodb.BrandRepository
	visibility   VisibilityFilter
	similarLimit int64
}

func NewDetailUsecase(
	products mongodb.ProductRepository,
	sellers mongodb.SellerRepository,
	brands mongodb.BrandRepository,
	visibility VisibilityFilter,
	conf *config.Config,
) DetailUsecase {
	return &detailUsecase{
		products:     products,
		sellers:      sellers,
		brands:       brands,
		visibility:   visibility,
		similarLimit: conf.Catalog.SimilarLimit,
	}
}

func (uc *detailUsecase) GetProductDetail(ctx context.Context, id string, at *models.Coordinates) (*models.ProductDetail, error) {
	if !models.IsCanonicalID(id) {
		return nil, models.ErrInvalidID
	}

	product, err := uc.products.FindPublished(ctx, models.ObjectID(id))
	if err != nil {
		return nil, err
	}

	seller, err := uc.findSeller(ctx, product.Seller)
	if err != nil {
		return nil, err
	}

	vis, err := uc.visibility.VisibleSellers(ctx, at)
	if err != nil {
		return nil, err
	}

	similar, err := uc.similarProducts(ctx, product, vis)
	if err != nil {
		return nil, err
	}

	return &models.ProductDetail{
		Product:               product,
		SalePrice:             product.SalePrice(),
		BrandInfo:             uc.brandInfo(ctx, product.Brand),
		SimilarProducts:       similar,
		IsAvailableAtLocation: uc.isAvailable(seller, vis),
	}, nil
}

// findSeller returns nil without error when the product has no seller on record.
func (uc *detailUsecase) findSeller(ctx context.Context, id models.ObjectID) (*models.Seller, error) {
	if !models.IsCanonicalID(id.String()) {
		return nil, nil
	}
	seller, err := uc.sellers.GetByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		log.Warnw(ctx, "product seller not found", "seller_id", id)
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get seller: %w", err)
	}
	return seller, nil
}

func (uc *detailUsecase) isAvailable(seller *models.Seller, vis Visibility) bool {
	if seller == nil {
		return true
	}
	if uc.visibility.IsGlobalSeller(seller) {
		return true
	}
	if vis.Applicable && seller.HasLocation() {
		return vis.Contains(seller.ID)
	}
	return true
}

// similarProducts restricts to the visible set whenever coordinates were
// given, so an empty set yields no suggestions.
func (uc *detailUsecase) similarProducts(ctx context.Context, product *models.Product, vis Visibility) ([]*models.ProductCard, error) {
	if product.Category.IsZero() {
		return []*models.ProductCard{}, nil
	}

	query := models.ProductQuery{
		ExcludeID:  product.ID,
		CategoryID: product.Category,
		Sellers:    models.Unrestricted(),
	}
	if vis.Applicable {
		query.Sellers = models.RestrictTo(vis.SellerIDs)
	}

	cards, err := uc.products.FindCards(ctx, query, uc.similarLimit)
	if err != nil {
		return nil, fmt.Errorf("find similar products: %w", err)
	}
	for _, c := range cards {
		c.FillSalePrice()
	}
	if cards == nil {
		cards = []*models.ProductCard{}
	}
	return cards, nil
}

func (uc *detailUsecase) brandInfo(ctx context.Context, id models.ObjectID) *models.BrandSummary {
	if !models.IsCanonicalID(id.String()) {
		return nil
	}
	brand, err := uc.brands.GetByID(ctx, id)
	if err != nil {
		log.Warnw(ctx, "brand lookup failed", "brand_id", id, "error", err)
		return nil
	}
	return brand.Summary()
}
