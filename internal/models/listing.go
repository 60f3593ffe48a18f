package models

import "math"

type SortKey string

const (
	SortNewest    SortKey = ""
	SortPriceAsc  SortKey = "price_asc"
	SortPriceDesc SortKey = "price_desc"
	SortDiscount  SortKey = "discount"
	SortPopular   SortKey = "popular"
)

// ParseSortKey maps unknown keys to the default (newest first).
func ParseSortKey(s string) SortKey {
	switch k := SortKey(s); k {
	case SortPriceAsc, SortPriceDesc, SortDiscount, SortPopular:
		return k
	}
	return SortNewest
}

// SellerScope restricts products by seller. A zero value is unrestricted;
// Restrict with no IDs matches nothing.
type SellerScope struct {
	Restrict bool
	IDs      []ObjectID
}

func Unrestricted() SellerScope {
	return SellerScope{}
}

func RestrictTo(ids []ObjectID) SellerScope {
	if ids == nil {
		ids = []ObjectID{}
	}
	return SellerScope{Restrict: true, IDs: ids}
}

// ProductQuery holds the optional criteria layered on top of the base
// catalog criteria (Active, published, not shop-by-store-only).
type ProductQuery struct {
	ExcludeID     ObjectID
	CategoryID    ObjectID
	SubCategoryID ObjectID
	BrandID       ObjectID
	Sellers       SellerScope
	MinPrice      *float64
	MaxPrice      *float64
	MinDiscount   *float64
	Search        string
}

type ListParams struct {
	Category    string
	SubCategory string
	Brand       string
	Search      string
	Sort        SortKey
	MinPrice    *float64
	MaxPrice    *float64
	MinDiscount *float64
	Coordinates *Coordinates
	Page        int64
	Limit       int64
}

// Skip saturates at math.MaxInt64 instead of overflowing.
func (p ListParams) Skip() int64 {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt64/p.Limit {
		return math.MaxInt64
	}
	return (p.Page - 1) * p.Limit
}

// MaxPage is the largest page whose skip fits in an int64.
func MaxPage(limit int64) int64 {
	if limit <= 0 {
		return math.MaxInt64
	}
	return math.MaxInt64 / limit
}

type Pagination struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

func NewPagination(page, limit, total int64) Pagination {
	var pages int64
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

type ListResult struct {
	Items      []ProductView
	Pagination Pagination
}
