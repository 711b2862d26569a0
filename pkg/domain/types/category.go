package types

import "github.com/m-mizutani/goerr/v2"

// Category is a closed-set domain tag assigned to every dataset by the
// categorization pipeline. The core treats the assignment as read-only.
type Category string

const (
	CategoryRealEstate     Category = "Real Estate & Construction"
	CategoryTourism        Category = "Tourism & Hospitality"
	CategoryEconomic       Category = "Economic & Financial"
	CategoryInfrastructure Category = "Infrastructure & Utilities"
	CategoryEnergy         Category = "Energy & Sustainability"
	CategoryPopulation     Category = "Population & Demographics"
	CategoryEmployment     Category = "Employment & Labor"
	CategoryCorporate      Category = "Corporate Intelligence"
	CategoryRegional       Category = "Regional & Global Context"
)

// AllCategories returns all valid categories
func AllCategories() []Category {
	return []Category{
		CategoryRealEstate,
		CategoryTourism,
		CategoryEconomic,
		CategoryInfrastructure,
		CategoryEnergy,
		CategoryPopulation,
		CategoryEmployment,
		CategoryCorporate,
		CategoryRegional,
	}
}

// IsValid checks if the category is in the closed set
func (c Category) IsValid() bool {
	switch c {
	case CategoryRealEstate,
		CategoryTourism,
		CategoryEconomic,
		CategoryInfrastructure,
		CategoryEnergy,
		CategoryPopulation,
		CategoryEmployment,
		CategoryCorporate,
		CategoryRegional:
		return true
	default:
		return false
	}
}

// String returns the string representation of the category
func (c Category) String() string {
	return string(c)
}

// ParseCategory parses a string into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	if !c.IsValid() {
		return "", goerr.New("invalid category", goerr.V("category", s))
	}
	return c, nil
}
