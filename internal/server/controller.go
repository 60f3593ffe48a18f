package server

import (
	"context"
	"errors"
	"math"
	"net/http"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/labstack/echo/v4"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/models"
	pkgmdw "github.com/nguyentranbao-ct/catalog-discovery/internal/server/middleware"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/usecase"
)

// ListProductsRequest keeps numeric params lenient: a malformed page, limit
// or bound is dropped instead of failing the request. Search is the one
// rejecting param: more than 200 characters is a 400.
type ListProductsRequest struct {
	Category    string   `query:"category"`
	SubCategory string   `query:"subcategory"`
	Search      string   `query:"search" validate:"max=200"`
	Sort        string   `query:"sort"`
	Brand       string   `query:"brand"`
	Page        int64    `coerce:"page"`
	Limit       int64    `coerce:"limit"`
	MinPrice    *float64 `coerce:"minPrice"`
	MaxPrice    *float64 `coerce:"maxPrice"`
	MinDiscount *float64 `coerce:"minDiscount"`
	Latitude    string   `query:"latitude"`
	Longitude   string   `query:"longitude"`
}

type GetProductRequest struct {
	ID        string `param:"id"`
	Latitude  string `query:"latitude"`
	Longitude string `query:"longitude"`
}

type Controller interface {
	ListProducts(c echo.Context, req ListProductsRequest) (*pkgmdw.Response, error)
	GetProduct(c echo.Context, req GetProductRequest) (*pkgmdw.Response, error)
	Health(c echo.Context) error
}

// Pinger reports whether the catalog store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type controller struct {
	listing usecase.ListingUsecase
	detail  usecase.DetailUsecase
	store   Pinger
}

func NewHandler(
	listing usecase.ListingUsecase,
	detail usecase.DetailUsecase,
	store Pinger,
) Controller {
	return &controller{
		listing: listing,
		detail:  detail,
		store:   store,
	}
}

func (h *controller) ListProducts(c echo.Context, req ListProductsRequest) (*pkgmdw.Response, error) {
	res, err := h.listing.ListProducts(c.Request().Context(), models.ListParams{
		Category:    req.Category,
		SubCategory: req.SubCategory,
		Brand:       req.Brand,
		Search:      req.Search,
		Sort:        models.ParseSortKey(req.Sort),
		MinPrice:    finite(req.MinPrice),
		MaxPrice:    finite(req.MaxPrice),
		MinDiscount: finite(req.MinDiscount),
		Coordinates: coordinates(req.Latitude, req.Longitude),
		Page:        req.Page,
		Limit:       req.Limit,
	})
	if err != nil {
		return nil, err
	}

	return &pkgmdw.Response{
		Status:  http.StatusOK,
		Success: true,
		Data:    res.Items,
		Pagination: &pkgmdw.Pagination{
			Page:  res.Pagination.Page,
			Limit: res.Pagination.Limit,
			Total: res.Pagination.Total,
			Pages: res.Pagination.Pages,
		},
	}, nil
}

func (h *controller) GetProduct(c echo.Context, req GetProductRequest) (*pkgmdw.Response, error) {
	detail, err := h.detail.GetProductDetail(c.Request().Context(), req.ID, coordinates(req.Latitude, req.Longitude))
	switch {
	case errors.Is(err, models.ErrInvalidID):
		return nil, &pkgmdw.ResponseError{
			Status:    http.StatusBadRequest,
			Err:       err,
			Message:   "invalid product id",
			ErrorCode: pkgmdw.ErrorCodeInvalidArgument,
		}
	case errors.Is(err, models.ErrNotFound):
		return nil, &pkgmdw.ResponseError{
			Status:    http.StatusNotFound,
			Err:       err,
			Message:   "product not found",
			ErrorCode: pkgmdw.ErrorCodeNotFound,
		}
	case err != nil:
		return nil, err
	}

	return &pkgmdw.Response{
		Status:  http.StatusOK,
		Success: true,
		Data:    detail,
	}, nil
}

func (h *controller) Health(c echo.Context) error {
	ctx := c.Request().Context()
	if err := h.store.Ping(ctx); err != nil {
		log.Errorw(ctx, "health check failed", "error", err)
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status":  "unhealthy",
			"service": "catalog-discovery",
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "catalog-discovery",
	})
}

// coordinates is nil unless both values parse to a usable point.
func coordinates(lat, lng string) *models.Coordinates {
	at, ok := models.ParseCoordinates(lat, lng)
	if !ok {
		return nil
	}
	return &at
}

func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}
