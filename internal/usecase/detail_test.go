package usecase

import (
	"context"
	"testing"

	"github.com/nguyentranbao-ct/catalog-discovery/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type detailFixture struct {
	uc       DetailUsecase
	products *fakeProducts
	finder   *fakeRangeFinder
	sellers  *fakeSellers
}

func newDetailFixture(t *testing.T, products ...*models.Product) *detailFixture {
	t.Helper()
	fx := &detailFixture{
		products: &fakeProducts{products: products},
		finder:   &fakeRangeFinder{},
		sellers:  testSellers(),
	}
	brands := &fakeBrands{brands: map[models.ObjectID]*models.Brand{
		brandID: {ID: brandID, Name: "Acme", Slug: "acme"},
	}}
	vis := NewVisibilityFilter(fx.finder, fx.sellers, testRule(t))
	fx.uc = NewDetailUsecase(fx.products, fx.sellers, brands, vis, testConfig())
	return fx
}

var saigon = &models.Coordinates{Lat: 10.77, Lng: 106.70}

func TestGetProductDetail_InvalidID(t *testing.T) {
	fx := newDetailFixture(t)
	fx.products.err = errStoreDown

	for _, id := range []string{"", "abc", "not-a-valid-object-id-at-all", "zzzzzzzzzzzzzzzzzzzzzzzz"} {
		_, err := fx.uc.GetProductDetail(context.Background(), id, nil)
		assert.ErrorIs(t, err, models.ErrInvalidID, id)
	}
}

func TestGetProductDetail_NotFound(t *testing.T) {
	draft := testProduct(1, nearSellerID, 10)
	draft.Publish = false
	fx := newDetailFixture(t, draft)

	_, err := fx.uc.GetProductDetail(context.Background(), productID(1).String(), nil)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = fx.uc.GetProductDetail(context.Background(), productID(99).String(), nil)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestGetProductDetail_Enrichment(t *testing.T) {
	p := testProduct(1, nearSellerID, 80)
	p.Discount = 10
	p.Brand = brandID
	fx := newDetailFixture(t, p)

	d, err := fx.uc.GetProductDetail(context.Background(), p.ID.String(), nil)
	require.NoError(t, err)
	assert.Equal(t, p.ID, d.ID)
	assert.Equal(t, 72.0, d.SalePrice)
	require.NotNil(t, d.BrandInfo)
	assert.Equal(t, "Acme", d.BrandInfo.Name)
	assert.NotNil(t, d.SimilarProducts)
}

func TestGetProductDetail_UnknownBrandIsBestEffort(t *testing.T) {
	p := testProduct(1, nearSellerID, 10)
	p.Brand = "66c0000000000000000000ff"
	fx := newDetailFixture(t, p)

	d, err := fx.uc.GetProductDetail(context.Background(), p.ID.String(), nil)
	require.NoError(t, err)
	assert.Nil(t, d.BrandInfo)
}

func TestGetProductDetail_Availability(t *testing.T) {
	tests := []struct {
		name    string
		seller  models.ObjectID
		inRange []models.ObjectID
		at      *models.Coordinates
		want    bool
	}{
		{name: "no coordinates", seller: farSellerID, want: true},
		{name: "seller in range", seller: nearSellerID, inRange: []models.ObjectID{nearSellerID}, at: saigon, want: true},
		{name: "seller out of range", seller: farSellerID, inRange: []models.ObjectID{nearSellerID}, at: saigon, want: false},
		{name: "admin email seller far away", seller: adminSellerID, at: &models.Coordinates{Lat: 64.1, Lng: -21.9}, want: true},
		{name: "admin store name seller", seller: storeSellerID, at: saigon, want: true},
		{name: "seller without location", seller: popupSellerID, at: saigon, want: true},
		{name: "seller record missing", seller: "65a0000000000000000000aa", at: saigon, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fx := newDetailFixture(t, testProduct(1, tt.seller, 10))
			fx.finder.ids = tt.inRange

			d, err := fx.uc.GetProductDetail(context.Background(), productID(1).String(), tt.at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.IsAvailableAtLocation)
		})
	}
}

func TestGetProductDetail_AdminDetectedEvenWhenGlobalLookupFails(t *testing.T) {
	fx := newDetailFixture(t, testProduct(1, adminSellerID, 10))
	fx.sellers.globalErr = errStoreDown

	d, err := fx.uc.GetProductDetail(context.Background(), productID(1).String(), saigon)
	require.NoError(t, err)
	assert.True(t, d.IsAvailableAtLocation)
}

func TestGetProductDetail_SellerLookupError(t *testing.T) {
	fx := newDetailFixture(t, testProduct(1, nearSellerID, 10))
	fx.sellers.getErr = errStoreDown

	_, err := fx.uc.GetProductDetail(context.Background(), productID(1).String(), nil)
	assert.ErrorIs(t, err, errStoreDown)
}

func TestGetProductDetail_SimilarProducts(t *testing.T) {
	products := []*models.Product{testProduct(0, nearSellerID, 10)}
	for i := 1; i <= 10; i++ {
		products = append(products, testProduct(i, nearSellerID, 10))
	}
	other := testProduct(11, nearSellerID, 10)
	other.Category = fruitsID
	products = append(products, other)
	fx := newDetailFixture(t, products...)

	d, err := fx.uc.GetProductDetail(context.Background(), productID(0).String(), nil)
	require.NoError(t, err)
	assert.Len(t, d.SimilarProducts, 6)
	for _, c := range d.SimilarProducts {
		assert.NotEqual(t, productID(0), c.ID)
		assert.Equal(t, groceryID, c.Category)
		assert.Equal(t, 10.0, c.SalePrice)
	}
	assert.False(t, fx.products.lastQuery.Sellers.Restrict)
}

func TestGetProductDetail_SimilarProductsEmptyVisibleSet(t *testing.T) {
	fx := newDetailFixture(t,
		testProduct(1, nearSellerID, 10),
		testProduct(2, nearSellerID, 10),
		testProduct(3, farSellerID, 10),
	)
	fx.sellers.globalErr = errStoreDown

	d, err := fx.uc.GetProductDetail(context.Background(), productID(1).String(), &models.Coordinates{Lat: -33.86, Lng: 151.21})
	require.NoError(t, err)
	assert.Empty(t, d.SimilarProducts)
	assert.NotNil(t, d.SimilarProducts)
	assert.True(t, fx.products.lastQuery.Sellers.Restrict)
}

func TestGetProductDetail_SimilarProductsVisibleSet(t *testing.T) {
	fx := newDetailFixture(t,
		testProduct(1, nearSellerID, 10),
		testProduct(2, nearSellerID, 10),
		testProduct(3, farSellerID, 10),
		testProduct(4, adminSellerID, 10),
	)
	fx.finder.ids = []models.ObjectID{nearSellerID}

	d, err := fx.uc.GetProductDetail(context.Background(), productID(1).String(), saigon)
	require.NoError(t, err)
	ids := make([]models.ObjectID, 0, len(d.SimilarProducts))
	for _, c := range d.SimilarProducts {
		ids = append(ids, c.ID)
	}
	assert.ElementsMatch(t, []models.ObjectID{productID(2), productID(4)}, ids)
}

func TestListingAndSimilarDivergeOnEmptyVisibleSet(t *testing.T) {
	products := []*models.Product{
		testProduct(1, nearSellerID, 10),
		testProduct(2, farSellerID, 10),
	}
	far := &models.Coordinates{Lat: -33.86, Lng: 151.21}

	lf := newListingFixture(t, products...)
	lf.sellers.globalErr = errStoreDown
	list, err := lf.uc.ListProducts(context.Background(), models.ListParams{Coordinates: far})
	require.NoError(t, err)
	assert.Len(t, list.Items, 2)

	df := newDetailFixture(t, products...)
	df.sellers.globalErr = errStoreDown
	d, err := df.uc.GetProductDetail(context.Background(), productID(1).String(), far)
	require.NoError(t, err)
	assert.Empty(t, d.SimilarProducts)
}
