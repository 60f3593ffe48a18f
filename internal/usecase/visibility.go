package usecase

import (
	"context"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/models"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/repo/mongodb"
	"github.com/nguyentranbao-ct/catalog-discovery/pkg/ctxval"
	"github.com/nguyentranbao-ct/catalog-discovery/pkg/util"
)

// RangeFinder returns sellers whose own service radius covers a point.
type RangeFinder interface {
	FindSellersWithinRange(ctx context.Context, at models.Coordinates) ([]models.ObjectID, error)
}

// AnnotationVisibilityDegraded marks requests whose global seller lookup failed.
const AnnotationVisibilityDegraded ctxval.Annotation = "visibility_degraded"

// Visibility is the seller set a customer at some location may see.
// Applicable is false when no usable coordinates were supplied.
type Visibility struct {
	Applicable bool
	SellerIDs  []models.ObjectID
}

func (v Visibility) Contains(id models.ObjectID) bool {
	return util.SliceIncludes(v.SellerIDs, id)
}

type VisibilityFilter interface {
	// VisibleSellers is the union of in-range sellers and global sellers.
	VisibleSellers(ctx context.Context, at *models.Coordinates) (Visibility, error)
	// GlobalSellerIDs never fails; a store error yields an empty set.
	GlobalSellerIDs(ctx context.Context) []models.ObjectID
	IsGlobalSeller(seller *models.Seller) bool
}

type visibilityFilter struct {
	rangeFinder RangeFinder
	sellers     mongodb.SellerRepository
	rule        models.GlobalSellerRule
}

func NewVisibilityFilter(
	rangeFinder RangeFinder,
	sellers mongodb.SellerRepository,
	rule models.GlobalSellerRule,
) VisibilityFilter {
	return &visibilityFilter{
		rangeFinder: rangeFinder,
		sellers:     sellers,
		rule:        rule,
	}
}

func (f *visibilityFilter) IsGlobalSeller(seller *models.Seller) bool {
	return f.rule.IsGlobalSeller(seller)
}

func (f *visibilityFilter) VisibleSellers(ctx context.Context, at *models.Coordinates) (Visibility, error) {
	if at == nil {
		return Visibility{}, nil
	}

	inRange, err := f.rangeFinder.FindSellersWithinRange(ctx, *at)
	if err != nil {
		return Visibility{}, fmt.Errorf("find sellers within range: %w", err)
	}
	global := f.GlobalSellerIDs(ctx)

	return Visibility{
		Applicable: true,
		SellerIDs:  union(inRange, global),
	}, nil
}

func (f *visibilityFilter) GlobalSellerIDs(ctx context.Context) []models.ObjectID {
	ids, err := f.sellers.FindGlobalSellerIDs(ctx, f.rule)
	if err != nil {
		log.Warnw(ctx, "global seller lookup failed, continuing without global sellers", "error", err)
		ctxval.Annotate(ctx, AnnotationVisibilityDegraded, true)
		return []models.ObjectID{}
	}
	return ids
}

func union(a, b []models.ObjectID) []models.ObjectID {
	seen := make(map[models.ObjectID]struct{}, len(a)+len(b))
	out := make([]models.ObjectID, 0, len(a)+len(b))
	for _, list := range [][]models.ObjectID{a, b} {
		for _, id := range list {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			out = append(out, id)
		}
	}
	return out
}
