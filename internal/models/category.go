package models

import (
	"fmt"
	"strings"
)

// CategoryDomain is one closed set of event categories. The catalog web UI
// and the map UI each use their own set; the two are never merged.
type CategoryDomain struct {
	Name       string
	Categories []string
}

var (
	CatalogCategories = CategoryDomain{
		Name:       "catalog",
		Categories: []string{"music", "sports", "technology", "food", "art", "business", "education", "other"},
	}
	MapCategories = CategoryDomain{
		Name:       "map",
		Categories: []string{"otaku", "music", "food", "sports", "art", "technology", "other"},
	}
)

func (d CategoryDomain) Contains(category string) bool {
	for _, c := range d.Categories {
		if c == category {
			return true
		}
	}
	return false
}

func (d CategoryDomain) String() string {
	return strings.Join(d.Categories, " ")
}

// CategoryDomainByName resolves the CATEGORY_DOMAIN setting.
func CategoryDomainByName(name string) (CategoryDomain, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", CatalogCategories.Name:
		return CatalogCategories, nil
	case MapCategories.Name:
		return MapCategories, nil
	default:
		return CategoryDomain{}, fmt.Errorf("unknown category domain %q (expected catalog or map)", name)
	}
}
