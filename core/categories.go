package core

import (
	"maps"
	"slices"
	"strings"
)

// CategoryAll is the implicit category used when a page exposes no tabs.
const CategoryAll = "All"

// CategoryToggles maps a category's display name to whether it should be scraped.
// It is static configuration and is never modified during a run.
type CategoryToggles map[string]bool

// DefaultCategoryToggles returns the stock toggle set for the new-arrivals page.
func DefaultCategoryToggles() CategoryToggles {
	return CategoryToggles{
		"All":                               false,
		"Consumer Electronics":              true,
		"Apparel & Accessories":             false,
		"Home & Garden":                     false,
		"Sports & Entertainment":            false,
		"Beauty":                            false,
		"Jewelry, Eyewear & Watches":        false,
		"Shoes & Accessories":               false,
		"Luggage, Bags & Cases":             false,
		"Packaging & Printing":              false,
		"Parents, Kids & Toys":              false,
		"Personal Care & Home Care":         false,
		"Health & Medical":                  false,
		"Gifts & Crafts":                    false,
		"Pet Supplies":                      false,
		"School & Office Supplies":          false,
		"Industrial Machinery":              false,
		"Commercial Equipment & Machinery":  false,
		"Construction & Building Machinery": false,
		"Construction & Real Estate":        false,
		"Furniture":                         false,
		"Lights & Lighting":                 false,
		"Home Appliances":                   false,
		"Automotive Supplies & Tools":       false,
		"Vehicle Parts & Accessories":       false,
		"Tools & Hardware":                  false,
		"Renewable Energy":                  false,
		"Electrical Equipment & Supplies":   false,
		"Safety & Security":                 false,
		"Material Handling":                 false,
		"Testing Instrument & Equipment":    false,
		"Power Transmission":                false,
		"Electronic Components":             false,
		"Vehicles & Transportation":         false,
		"Agriculture, Food & Beverage":      false,
		"Raw Materials":                     false,
		"Fabrication Services":              false,
		"Service":                           false,
	}
}

// Lookup resolves a tab name against the toggles.
// An exact key match wins; otherwise names are compared case-insensitively with
// "&" treated as "and". The second result is false when no toggle matches.
func (t CategoryToggles) Lookup(name string) (enabled bool, ok bool) {
	if v, found := t[name]; found {
		return v, true
	}
	want := foldCategoryName(name)
	for _, k := range slices.Sorted(maps.Keys(t)) {
		if foldCategoryName(k) == want {
			return t[k], true
		}
	}
	return false, false
}

// Enabled reports whether name resolves to an enabled toggle.
func (t CategoryToggles) Enabled(name string) bool {
	v, _ := t.Lookup(name)
	return v
}

func foldCategoryName(name string) string {
	s := strings.ToLower(strings.ReplaceAll(name, "&", "and"))
	return strings.Join(strings.Fields(s), " ")
}

// Set enables or disables name. A key that matches name case-insensitively,
// with "&" treated as "and", is updated in place; otherwise name is added.
func (t CategoryToggles) Set(name string, enabled bool) {
	if _, found := t[name]; !found {
		want := foldCategoryName(name)
		for _, k := range slices.Sorted(maps.Keys(t)) {
			if foldCategoryName(k) == want {
				name = k
				break
			}
		}
	}
	t[name] = enabled
}
