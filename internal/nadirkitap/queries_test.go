package nadirkitap

import (
	"net/url"
	"strings"
	"testing"

	"github.com/okarabey/kitapara/internal/models"
)

func TestBuildSearchURL(t *testing.T) {
	q := models.Query{
		Title:         "İnce Memed",
		Author:        "Yaşar Kemal",
		CategoryID:    "7",
		SubcategoryID: "42",
		Sort:          models.SortDateNewest,
	}
	raw := BuildSearchURL("https://www.nadirkitap.com", q, "", 3)

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if u.Path != "/kitapara.php" {
		t.Errorf("path = %q", u.Path)
	}

	params := u.Query()
	want := map[string]string{
		"ara":       "aramayap",
		"kitap_Adi": "Ince Memed",
		"yazar":     "Yasar Kemal",
		"kategori2": "7",
		"kategori":  "42",
		"siralama":  "tarihyeni.",
		"satici":    "0",
		"page":      "3",
	}
	for k, v := range want {
		if got := params.Get(k); got != v {
			t.Errorf("param %s = %q, want %q", k, got, v)
		}
	}
}

func TestBuildSearchURLDefaults(t *testing.T) {
	raw := BuildSearchURL("https://www.nadirkitap.com", models.Query{Title: "Sefiller"}, "99", 1)

	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	params := u.Query()
	if got := params.Get("siralama"); got != "fiyatartan." {
		t.Errorf("default sort = %q, want %q", got, "fiyatartan.")
	}
	if got := params.Get("satici"); got != "99" {
		t.Errorf("satici = %q, want 99", got)
	}
	// The endpoint expects every parameter even when empty.
	for _, k := range []string{"yazar", "isbn", "yayin_Evi", "ceviren"} {
		if !strings.Contains(raw, "&"+k+"=") {
			t.Errorf("missing parameter %s", k)
		}
	}
}
