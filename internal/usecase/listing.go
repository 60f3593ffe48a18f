package usecase

import (
	"context"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/config"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/models"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/catalog-discovery/pkg/util"
)

type ListingUsecase interface {
	ListProducts(ctx context.Context, params models.ListParams) (*models.ListResult, error)
}

type listingUsecase struct {
	resolver   Resolver
	visibility VisibilityFilter
	products   mongodb.ProductRepository
	conf       config.CatalogConfig
}

func NewListingUsecase(
	resolver Resolver,
	visibility VisibilityFilter,
	products mongodb.ProductRepository,
	conf *config.Config,
) ListingUsecase {
	return &listingUsecase{
		resolver:   resolver,
		visibility: visibility,
		products:   products,
		conf:       conf.Catalog,
	}
}

func (uc *listingUsecase) ListProducts(ctx context.Context, params models.ListParams) (*models.ListResult, error) {
	params = uc.normalizePage(params)

	query, err := uc.composeQuery(ctx, params)
	if err != nil {
		return nil, err
	}

	products, total, err := uc.products.List(ctx, query, params.Sort, params.Skip(), params.Limit)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	return &models.ListResult{
		Items:      util.ConvertList(products, models.NewProductView),
		Pagination: models.NewPagination(params.Page, params.Limit, total),
	}, nil
}

func (uc *listingUsecase) normalizePage(params models.ListParams) models.ListParams {
	if params.Page < 1 {
		params.Page = 1
	}
	if params.Limit < 1 {
		params.Limit = uc.conf.DefaultPageSize
	}
	if params.Limit > uc.conf.MaxPageSize {
		params.Limit = uc.conf.MaxPageSize
	}
	if maxPage := models.MaxPage(params.Limit); params.Page > maxPage {
		params.Page = maxPage
	}
	return params
}

func (uc *listingUsecase) composeQuery(ctx context.Context, params models.ListParams) (models.ProductQuery, error) {
	query := models.ProductQuery{
		MinPrice:    params.MinPrice,
		MaxPrice:    params.MaxPrice,
		MinDiscount: params.MinDiscount,
		Search:      params.Search,
	}

	vis, err := uc.visibility.VisibleSellers(ctx, params.Coordinates)
	if err != nil {
		return query, err
	}
	// an empty visible set shows everything rather than nothing
	if vis.Applicable && len(vis.SellerIDs) > 0 {
		query.Sellers = models.RestrictTo(vis.SellerIDs)
	} else {
		query.Sellers = models.Unrestricted()
	}

	if params.Category != "" {
		id, err := uc.resolver.ResolveCategory(ctx, params.Category)
		if err != nil {
			return query, fmt.Errorf("resolve category: %w", err)
		}
		if id.IsZero() {
			log.Infow(ctx, "category not resolved, filter omitted", "category", params.Category)
		}
		query.CategoryID = id
	}

	if params.SubCategory != "" {
		id, err := uc.resolver.ResolveSubCategory(ctx, params.SubCategory)
		if err != nil {
			return query, fmt.Errorf("resolve subcategory: %w", err)
		}
		if id.IsZero() {
			log.Infow(ctx, "subcategory not resolved, filter omitted", "subcategory", params.SubCategory)
		}
		query.SubCategoryID = id
	}

	if models.IsCanonicalID(params.Brand) {
		query.BrandID = models.ObjectID(params.Brand)
	}

	return query, nil
}
