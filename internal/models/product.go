package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const ProductStatusActive = "Active"

type Product struct {
	ID          ObjectID `bson:"_id" json:"id"`
	Name        string   `bson:"name" json:"name"`
	Slug        string   `bson:"slug,omitempty" json:"slug,omitempty"`
	Description string   `bson:"description,omitempty" json:"description,omitempty"`
	Images      []string `bson:"images,omitempty" json:"images,omitempty"`
	Tags        []string `bson:"tags,omitempty" json:"tags,omitempty"`
	Status      string   `bson:"status" json:"status"`
	Publish     bool     `bson:"publish" json:"publish"`

	Category    ObjectID `bson:"category,omitempty" json:"category,omitempty"`
	SubCategory ObjectID `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
	Brand       ObjectID `bson:"brand,omitempty" json:"brand,omitempty"`
	Seller      ObjectID `bson:"seller,omitempty" json:"seller,omitempty"`

	Price       float64 `bson:"price" json:"price"`
	Discount    float64 `bson:"discount" json:"discount"`
	Stock       int64   `bson:"stock" json:"stock"`
	Popularity  float64 `bson:"popularity" json:"popularity"`
	IsDealOfDay bool    `bson:"isDealOfDay" json:"isDealOfDay"`

	// nil when the document predates the flag
	IsShopByStoreOnly *bool `bson:"isShopByStoreOnly,omitempty" json:"isShopByStoreOnly,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

func (p *Product) CollectionName() string {
	return "products"
}

// ShopByStoreOnly treats a missing flag the same as false.
func (p *Product) ShopByStoreOnly() bool {
	return p.IsShopByStoreOnly != nil && *p.IsShopByStoreOnly
}

// Listable reports whether the product passes the base catalog criteria.
func (p *Product) Listable() bool {
	return p.Status == ProductStatusActive && p.Publish && !p.ShopByStoreOnly()
}

// SalePrice is the price after the percentage discount, rounded to cents.
func (p *Product) SalePrice() float64 {
	return salePrice(p.Price, p.Discount)
}

func salePrice(price, discount float64) float64 {
	if discount <= 0 {
		return decimal.NewFromFloat(price).Round(2).InexactFloat64()
	}
	if discount > 100 {
		discount = 100
	}
	p := decimal.NewFromFloat(price)
	off := p.Mul(decimal.NewFromFloat(discount)).Div(decimal.NewFromInt(100))
	return p.Sub(off).Round(2).InexactFloat64()
}

// ProductCard is the compact projection used for similar-product suggestions.
type ProductCard struct {
	ID        ObjectID `bson:"_id" json:"id"`
	Name      string   `bson:"name" json:"name"`
	Slug      string   `bson:"slug,omitempty" json:"slug,omitempty"`
	Images    []string `bson:"images,omitempty" json:"images,omitempty"`
	Price     float64  `bson:"price" json:"price"`
	Discount  float64  `bson:"discount" json:"discount"`
	SalePrice float64  `bson:"-" json:"salePrice"`
	Category  ObjectID `bson:"category,omitempty" json:"category,omitempty"`
	Seller    ObjectID `bson:"seller,omitempty" json:"seller,omitempty"`
}

// ProductCardFields lists the stored fields a ProductCard needs.
var ProductCardFields = []string{"_id", "name", "slug", "images", "price", "discount", "category", "seller"}

func (c *ProductCard) CollectionName() string {
	return "products"
}

func (c *ProductCard) FillSalePrice() {
	c.SalePrice = salePrice(c.Price, c.Discount)
}

// ProductView is a product as returned by the listing endpoint.
type ProductView struct {
	*Product
	SalePrice float64 `json:"salePrice"`
}

func NewProductView(p *Product) ProductView {
	return ProductView{Product: p, SalePrice: p.SalePrice()}
}

// ProductDetail is the enriched payload of the detail endpoint.
type ProductDetail struct {
	*Product
	SalePrice             float64        `json:"salePrice"`
	BrandInfo             *BrandSummary  `json:"brandInfo,omitempty"`
	SimilarProducts       []*ProductCard `json:"similarProducts"`
	IsAvailableAtLocation bool           `json:"isAvailableAtLocation"`
}
