package usecase

import (
	"context"
	"errors"
	"strings"

	"github.com/nguyentranbao-ct/catalog-discovery/internal/models"
	"github.com/nguyentranbao-ct/catalog-discovery/pkg/util"
)

var errStoreDown = errors.New("store unavailable")

type taxonomyDoc struct {
	id     models.ObjectID
	slug   string
	name   string
	status string
}

// fakeTaxonomy mimics the store-side lookup filter in memory.
type fakeTaxonomy struct {
	docs      []taxonomyDoc
	hasStatus bool
	err       error
	lookups   []models.Lookup
}

func (f *fakeTaxonomy) LookupID(_ context.Context, lookup models.Lookup) (models.ObjectID, bool, error) {
	f.lookups = append(f.lookups, lookup)
	if f.err != nil {
		return "", false, f.err
	}
	for _, d := range f.docs {
		value := d.slug
		if lookup.Field == models.LookupFieldName {
			value = d.name
		}
		if lookup.Fold && !strings.EqualFold(value, lookup.Value) {
			continue
		}
		if !lookup.Fold && value != lookup.Value {
			continue
		}
		if lookup.ActiveOnly && f.hasStatus && d.status != models.CategoryStatusActive {
			continue
		}
		return d.id, true, nil
	}
	return "", false, nil
}

type fakeRangeFinder struct {
	ids   []models.ObjectID
	err   error
	calls int
}

func (f *fakeRangeFinder) FindSellersWithinRange(context.Context, models.Coordinates) ([]models.ObjectID, error) {
	f.calls++
	return f.ids, f.err
}

type fakeSellers struct {
	sellers   map[models.ObjectID]*models.Seller
	globalErr error
	getErr    error
}

func (f *fakeSellers) GetByID(_ context.Context, id models.ObjectID) (*models.Seller, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.sellers[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return s, nil
}

func (f *fakeSellers) FindGlobalSellerIDs(_ context.Context, rule models.GlobalSellerRule) ([]models.ObjectID, error) {
	if f.globalErr != nil {
		return nil, f.globalErr
	}
	ids := []models.ObjectID{}
	for _, s := range f.sellers {
		if rule.IsGlobalSeller(s) {
			ids = append(ids, s.ID)
		}
	}
	return ids, nil
}

type fakeBrands struct {
	brands map[models.ObjectID]*models.Brand
}

func (f *fakeBrands) GetByID(_ context.Context, id models.ObjectID) (*models.Brand, error) {
	b, ok := f.brands[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return b, nil
}

// fakeProducts evaluates a ProductQuery in memory and records the last query.
type fakeProducts struct {
	products  []*models.Product
	err       error
	lastQuery models.ProductQuery
	lastSkip  int64
	lastLimit int64
	lastSort  models.SortKey
}

func (f *fakeProducts) FindPublished(_ context.Context, id models.ObjectID) (*models.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.ID == id && p.Status == models.ProductStatusActive && p.Publish {
			return p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeProducts) List(_ context.Context, q models.ProductQuery, sort models.SortKey, skip, limit int64) ([]*models.Product, int64, error) {
	f.lastQuery, f.lastSort, f.lastSkip, f.lastLimit = q, sort, skip, limit
	if f.err != nil {
		return nil, 0, f.err
	}
	matched := f.match(q)
	total := int64(len(matched))
	if skip >= total {
		return []*models.Product{}, total, nil
	}
	end := skip + limit
	if end > total {
		end = total
	}
	return matched[skip:end], total, nil
}

func (f *fakeProducts) FindCards(_ context.Context, q models.ProductQuery, limit int64) ([]*models.ProductCard, error) {
	f.lastQuery, f.lastLimit = q, limit
	if f.err != nil {
		return nil, f.err
	}
	cards := []*models.ProductCard{}
	for _, p := range f.match(q) {
		if int64(len(cards)) == limit {
			break
		}
		cards = append(cards, &models.ProductCard{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Discount: p.Discount,
			Category: p.Category,
			Seller:   p.Seller,
		})
	}
	return cards, nil
}

func (f *fakeProducts) match(q models.ProductQuery) []*models.Product {
	out := []*models.Product{}
	for _, p := range f.products {
		if matchesQuery(p, q) {
			out = append(out, p)
		}
	}
	return out
}

func matchesQuery(p *models.Product, q models.ProductQuery) bool {
	if !p.Listable() {
		return false
	}
	if !q.ExcludeID.IsZero() && p.ID == q.ExcludeID {
		return false
	}
	if q.Sellers.Restrict && !util.SliceIncludes(q.Sellers.IDs, p.Seller) {
		return false
	}
	if !q.CategoryID.IsZero() && p.Category != q.CategoryID {
		return false
	}
	if !q.SubCategoryID.IsZero() && p.SubCategory != q.SubCategoryID {
		return false
	}
	if !q.BrandID.IsZero() && p.Brand != q.BrandID {
		return false
	}
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	if q.MinDiscount != nil && p.Discount < *q.MinDiscount {
		return false
	}
	if q.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Search)) {
		return false
	}
	return true
}
