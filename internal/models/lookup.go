package models

type EntityType string

const (
	EntityCategory    EntityType = "category"
	EntitySubCategory EntityType = "subcategory"
)

const (
	LookupFieldSlug = "slug"
	LookupFieldName = "name"
)

// Lookup is a single store probe issued by the identifier resolver.
type Lookup struct {
	Field string
	Value string
	// Fold requests a case-insensitive, anchored full-string match.
	Fold bool
	// ActiveOnly adds status=Active; only meaningful for stores with a status field.
	ActiveOnly bool
}
