// Package catalog loads the static seller and category catalogs the
// search commands work against. Both are plain JSON files read once per
// session.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"

	"github.com/okarabey/kitapara/internal/models"
	"github.com/okarabey/kitapara/internal/textutil"
)

// sellerIDPattern pulls the numeric seller id out of a seller page URL,
// e.g. ".../sahaf12345.html" → "12345".
var sellerIDPattern = regexp.MustCompile(`sahaf(\d+)\.html`)

// Catalog holds the loaded seller list and category tree.
type Catalog struct {
	Sellers    []models.Seller
	Categories []models.Category
}

// Load reads both catalog files. A missing category file is not fatal;
// category filtering is optional, but sellers are required for city
// searches, so that error propagates.
func Load(sellersPath, categoriesPath string) (*Catalog, error) {
	c := &Catalog{}

	if err := readJSON(sellersPath, &c.Sellers); err != nil {
		return nil, fmt.Errorf("load sellers catalog: %w", err)
	}
	if err := readJSON(categoriesPath, &c.Categories); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("load categories catalog: %w", err)
		}
	}

	return c, nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// Cities returns the distinct seller cities in Turkish alphabetical order.
func (c *Catalog) Cities() []string {
	seen := make(map[string]struct{})
	var cities []string
	for _, s := range c.Sellers {
		if s.City == "" {
			continue
		}
		if _, ok := seen[s.City]; ok {
			continue
		}
		seen[s.City] = struct{}{}
		cities = append(cities, s.City)
	}
	textutil.SortTurkish(cities)
	return cities
}

// SellersInCity returns every seller whose city matches exactly.
func (c *Catalog) SellersInCity(city string) []models.Seller {
	var out []models.Seller
	for _, s := range c.Sellers {
		if s.City == city {
			out = append(out, s)
		}
	}
	return out
}

// SellerByName returns the catalog entry for a seller name, if any.
func (c *Catalog) SellerByName(name string) (models.Seller, bool) {
	for _, s := range c.Sellers {
		if s.Name == name {
			return s, true
		}
	}
	return models.Seller{}, false
}

// SellerID extracts the numeric seller id from a seller page URL.
// Sellers whose URL doesn't carry an id can't be queried individually.
func SellerID(sellerURL string) (string, bool) {
	m := sellerIDPattern.FindStringSubmatch(sellerURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// CategoryNames resolves category and subcategory ids to their display
// names. Unknown ids resolve to empty strings.
func (c *Catalog) CategoryNames(categoryID, subcategoryID string) (string, string) {
	var catName, subName string
	for _, cat := range c.Categories {
		if cat.ID != categoryID {
			continue
		}
		catName = cat.Name
		for _, sub := range cat.Subcategories {
			if sub.ID == subcategoryID {
				subName = sub.Name
				break
			}
		}
		break
	}
	return catName, subName
}
