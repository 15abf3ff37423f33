package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func writeCatalogs(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	sellers := `[
		{"name": "Simurg Sahaf", "city": "İstanbul", "seller_url": "https://www.nadirkitap.com/sahaf101.html"},
		{"name": "Anka Kitabevi", "city": "Ankara", "seller_url": "https://www.nadirkitap.com/sahaf202.html"},
		{"name": "Ege Sahaf", "city": "İzmir", "seller_url": "https://www.nadirkitap.com/sahaf303.html"},
		{"name": "Kapalıçarşı Sahaf", "city": "İstanbul", "seller_url": "https://www.nadirkitap.com/sahaf404.html"}
	]`
	categories := `[
		{"ana_kategori_id": "1", "ana_kategori_adi": "Edebiyat", "alt_kategoriler": [
			{"kategori_id": "11", "kategori_adi": "Roman"},
			{"kategori_id": "12", "kategori_adi": "Şiir"}
		]}
	]`

	sellersPath := filepath.Join(dir, "sahaflar.json")
	categoriesPath := filepath.Join(dir, "kategoriler.json")
	if err := os.WriteFile(sellersPath, []byte(sellers), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(categoriesPath, []byte(categories), 0o644); err != nil {
		t.Fatal(err)
	}
	return sellersPath, categoriesPath
}

func TestLoad(t *testing.T) {
	sellersPath, categoriesPath := writeCatalogs(t)

	c, err := Load(sellersPath, categoriesPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(c.Sellers) != 4 {
		t.Errorf("got %d sellers, want 4", len(c.Sellers))
	}
	if len(c.Categories) != 1 {
		t.Errorf("got %d categories, want 1", len(c.Categories))
	}
}

func TestLoadMissingCategoriesIsNotFatal(t *testing.T) {
	sellersPath, _ := writeCatalogs(t)

	c, err := Load(sellersPath, filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(c.Categories) != 0 {
		t.Errorf("expected no categories, got %d", len(c.Categories))
	}
}

func TestSellersInCity(t *testing.T) {
	sellersPath, categoriesPath := writeCatalogs(t)
	c, err := Load(sellersPath, categoriesPath)
	if err != nil {
		t.Fatal(err)
	}

	got := c.SellersInCity("İstanbul")
	if len(got) != 2 {
		t.Fatalf("got %d sellers in İstanbul, want 2", len(got))
	}
	if got := c.SellersInCity("Trabzon"); got != nil {
		t.Errorf("expected nil for unknown city, got %v", got)
	}
}

func TestCities(t *testing.T) {
	sellersPath, categoriesPath := writeCatalogs(t)
	c, err := Load(sellersPath, categoriesPath)
	if err != nil {
		t.Fatal(err)
	}

	cities := c.Cities()
	want := []string{"Ankara", "İstanbul", "İzmir"}
	if len(cities) != len(want) {
		t.Fatalf("Cities() = %v, want %v", cities, want)
	}
	for i := range want {
		if cities[i] != want[i] {
			t.Fatalf("Cities() = %v, want %v", cities, want)
		}
	}
}

func TestSellerID(t *testing.T) {
	tests := []struct {
		url string
		id  string
		ok  bool
	}{
		{url: "https://www.nadirkitap.com/sahaf12345.html", id: "12345", ok: true},
		{url: "https://www.nadirkitap.com/sahaf/hakkinda", ok: false},
		{url: "", ok: false},
	}
	for _, tt := range tests {
		id, ok := SellerID(tt.url)
		if id != tt.id || ok != tt.ok {
			t.Errorf("SellerID(%q) = (%q, %v), want (%q, %v)", tt.url, id, ok, tt.id, tt.ok)
		}
	}
}

func TestCategoryNames(t *testing.T) {
	sellersPath, categoriesPath := writeCatalogs(t)
	c, err := Load(sellersPath, categoriesPath)
	if err != nil {
		t.Fatal(err)
	}

	cat, sub := c.CategoryNames("1", "12")
	if cat != "Edebiyat" || sub != "Şiir" {
		t.Errorf("CategoryNames(1, 12) = (%q, %q)", cat, sub)
	}
	cat, sub = c.CategoryNames("9", "")
	if cat != "" || sub != "" {
		t.Errorf("unknown ids should resolve empty, got (%q, %q)", cat, sub)
	}
}
