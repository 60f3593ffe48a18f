package models

import "regexp"

const (
	AdminSellerCategory = "Admin"
	// AdminStoreNamePattern is matched case-insensitively against store names.
	AdminStoreNamePattern = "Admin"
)

var adminStoreNamePattern = regexp.MustCompile("(?i)" + AdminStoreNamePattern)

type Seller struct {
	ID        ObjectID `bson:"_id" json:"id"`
	StoreName string   `bson:"storeName" json:"storeName"`
	Email     string   `bson:"email" json:"email"`
	// Category is free-form; the literal "Admin" marks a global seller.
	Category      string    `bson:"category,omitempty" json:"category,omitempty"`
	Location      *GeoPoint `bson:"location,omitempty" json:"location,omitempty"`
	ServiceRadius float64   `bson:"serviceRadius,omitempty" json:"serviceRadius,omitempty"` // km
}

func (s *Seller) CollectionName() string {
	return "sellers"
}

func (s *Seller) HasLocation() bool {
	return s.Location != nil && s.Location.Valid()
}

// GlobalSellerRule decides whether a seller is visible everywhere. There is no
// explicit flag on the record, so the rule is a three-way heuristic:
// admin email, category "Admin", or a store name containing "admin".
type GlobalSellerRule struct {
	EmailPattern *regexp.Regexp
}

func NewGlobalSellerRule(emailPattern string) (GlobalSellerRule, error) {
	re, err := regexp.Compile(emailPattern)
	if err != nil {
		return GlobalSellerRule{}, err
	}
	return GlobalSellerRule{EmailPattern: re}, nil
}

func (r GlobalSellerRule) IsGlobalSeller(s *Seller) bool {
	if s == nil {
		return false
	}
	if r.EmailPattern != nil && s.Email != "" && r.EmailPattern.MatchString(s.Email) {
		return true
	}
	if s.Category == AdminSellerCategory {
		return true
	}
	return adminStoreNamePattern.MatchString(s.StoreName)
}

// EmailRegex is the pattern source handed to the store query.
func (r GlobalSellerRule) EmailRegex() string {
	if r.EmailPattern == nil {
		return ""
	}
	return r.EmailPattern.String()
}
