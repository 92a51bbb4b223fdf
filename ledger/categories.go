package ledger

import "strings"

// =============================================================================
// CATEGORY MAPPING - Fixed buckets for sale line items
// =============================================================================

// CategoryKey is a summary bucket for sale line items. The set is fixed so
// dashboards and exports see stable keys regardless of how entry clerks
// spelled the product.
type CategoryKey string

const (
	CategoryMilk    CategoryKey = "milk"
	CategoryEggs    CategoryKey = "eggs"
	CategoryCattle  CategoryKey = "cattle"
	CategoryGoat    CategoryKey = "goat"
	CategoryPoultry CategoryKey = "poultry"
	CategoryFeed    CategoryKey = "feed"
	CategoryOther   CategoryKey = "other"
)

// categoryAliases maps the spellings seen in real sale data onto the fixed
// bucket set. Lookup is case-insensitive.
var categoryAliases = map[string]CategoryKey{
	"milk":         CategoryMilk,
	"cow milk":     CategoryMilk,
	"buffalo milk": CategoryMilk,
	"eggs":         CategoryEggs,
	"egg":          CategoryEggs,
	"cattle":       CategoryCattle,
	"cow":          CategoryCattle,
	"buffalo":      CategoryCattle,
	"calf":         CategoryCattle,
	"goat":         CategoryGoat,
	"sheep":        CategoryGoat,
	"poultry":      CategoryPoultry,
	"hen":          CategoryPoultry,
	"chicken":      CategoryPoultry,
	"feed":         CategoryFeed,
	"fodder":       CategoryFeed,
}

// Categorize maps a raw line-item category onto its summary bucket.
// Unknown or empty categories land in CategoryOther.
func Categorize(raw string) CategoryKey {
	if key, ok := categoryAliases[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return key
	}
	return CategoryOther
}
