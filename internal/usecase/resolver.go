package usecase

import (
	"context"
	"regexp"
	"strings"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/models"
	"github.com/nguyentranbao-ct/catalog-discovery/internal/repo/mongodb"
)

// Resolver maps human-facing identifiers (canonical id, slug or display
// name) to canonical ids. An empty id with a nil error means "no match";
// callers omit the filter.
type Resolver interface {
	Resolve(ctx context.Context, entity models.EntityType, raw string) (models.ObjectID, error)
	ResolveCategory(ctx context.Context, raw string) (models.ObjectID, error)
	// ResolveSubCategory tries child categories first, then the legacy store.
	ResolveSubCategory(ctx context.Context, raw string) (models.ObjectID, error)
}

type resolver struct {
	categories    mongodb.CategoryRepository
	subcategories mongodb.SubCategoryRepository
}

func NewResolver(
	categories mongodb.CategoryRepository,
	subcategories mongodb.SubCategoryRepository,
) Resolver {
	return &resolver{
		categories:    categories,
		subcategories: subcategories,
	}
}

// matchRule turns a raw identifier into one store probe, or reports that
// it does not apply to this input.
type matchRule struct {
	name  string
	probe func(raw string) (models.Lookup, bool)
}

var (
	separators = strings.NewReplacer("-", " ", "_", " ")
	andWord    = regexp.MustCompile(`(?i)\band\b`)
	andHyphen  = regexp.MustCompile(`(?i)-and-`)
)

func exactSlug(raw string) (models.Lookup, bool) {
	return models.Lookup{Field: models.LookupFieldSlug, Value: raw}, true
}

func foldedSlug(raw string) (models.Lookup, bool) {
	return models.Lookup{Field: models.LookupFieldSlug, Value: raw, Fold: true}, true
}

func displayName(raw string) (models.Lookup, bool) {
	return models.Lookup{Field: models.LookupFieldName, Value: separators.Replace(raw), Fold: true}, true
}

// ampersandName handles names like "Grocery & Staples" typed as
// grocery-and-staples.
func ampersandName(raw string) (models.Lookup, bool) {
	if !andWord.MatchString(separators.Replace(raw)) {
		return models.Lookup{}, false
	}
	hyphenated := strings.ReplaceAll(raw, "_", "-")
	name := strings.ReplaceAll(andHyphen.ReplaceAllString(hyphenated, " & "), "-", " ")
	return models.Lookup{Field: models.LookupFieldName, Value: name, Fold: true}, true
}

var (
	categoryRules = []matchRule{
		{name: "exact_slug", probe: exactSlug},
		{name: "folded_slug", probe: foldedSlug},
		{name: "display_name", probe: displayName},
		{name: "ampersand_name", probe: ampersandName},
	}
	subCategoryRules = []matchRule{
		{name: "exact_slug", probe: exactSlug},
		{name: "folded_slug", probe: foldedSlug},
		{name: "display_name", probe: displayName},
	}
)

type probe struct {
	rule   string
	lookup models.Lookup
}

// probes lists the store lookups tried for raw, in priority order.
func probes(entity models.EntityType, raw string) []probe {
	rules := subCategoryRules
	activeOnly := false
	if entity == models.EntityCategory {
		rules = categoryRules
		activeOnly = true
	}

	out := make([]probe, 0, len(rules))
	for _, rule := range rules {
		lookup, ok := rule.probe(raw)
		if !ok {
			continue
		}
		lookup.ActiveOnly = activeOnly
		out = append(out, probe{rule: rule.name, lookup: lookup})
	}
	return out
}

func (r *resolver) Resolve(ctx context.Context, entity models.EntityType, raw string) (models.ObjectID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	if models.IsCanonicalID(raw) {
		return models.ObjectID(raw), nil
	}

	var store mongodb.TaxonomyRepository = r.subcategories
	if entity == models.EntityCategory {
		store = r.categories
	}

	for _, p := range probes(entity, raw) {
		id, ok, err := store.LookupID(ctx, p.lookup)
		if err != nil {
			return "", err
		}
		if ok {
			log.Debugw(ctx, "identifier resolved", "entity", entity, "raw", raw, "rule", p.rule, "id", id)
			return id, nil
		}
	}
	return "", nil
}

func (r *resolver) ResolveCategory(ctx context.Context, raw string) (models.ObjectID, error) {
	return r.Resolve(ctx, models.EntityCategory, raw)
}

func (r *resolver) ResolveSubCategory(ctx context.Context, raw string) (models.ObjectID, error) {
	id, err := r.Resolve(ctx, models.EntityCategory, raw)
	if err != nil || !id.IsZero() {
		return id, err
	}
	return r.Resolve(ctx, models.EntitySubCategory, raw)
}
