package models

const CategoryStatusActive = "Active"

// Category may nest through Parent; a child category is the current
// representation of a subcategory.
type Category struct {
	ID     ObjectID  `bson:"_id" json:"id"`
	Name   string    `bson:"name" json:"name"`
	Slug   string    `bson:"slug" json:"slug"`
	Status string    `bson:"status" json:"status"`
	Parent *ObjectID `bson:"parent,omitempty" json:"parent,omitempty"`
}

func (c *Category) CollectionName() string {
	return "categories"
}

// SubCategory is the legacy store. Documents carry no guaranteed status field.
type SubCategory struct {
	ID       ObjectID  `bson:"_id" json:"id"`
	Name     string    `bson:"name" json:"name"`
	Slug     string    `bson:"slug" json:"slug"`
	Category *ObjectID `bson:"category,omitempty" json:"category,omitempty"`
}

func (s *SubCategory) CollectionName() string {
	return "subcategories"
}

type Brand struct {
	ID     ObjectID `bson:"_id" json:"id"`
	Name   string   `bson:"name" json:"name"`
	Slug   string   `bson:"slug,omitempty" json:"slug,omitempty"`
	Logo   string   `bson:"logo,omitempty" json:"logo,omitempty"`
	Status string   `bson:"status,omitempty" json:"status,omitempty"`
}

func (b *Brand) CollectionName() string {
	return "brands"
}

type BrandSummary struct {
	ID   ObjectID `json:"id"`
	Name string   `json:"name"`
	Slug string   `json:"slug,omitempty"`
	Logo string   `json:"logo,omitempty"`
}

func (b *Brand) Summary() *BrandSummary {
	return &BrandSummary{ID: b.ID, Name: b.Name, Slug: b.Slug, Logo: b.Logo}
}
