package nadirkitap

import (
	"fmt"

	"github.com/okarabey/kitapara/internal/models"
	"github.com/okarabey/kitapara/internal/textutil"
)

// aggregateSellerID is the satici value meaning "all sellers".
const aggregateSellerID = "0"

// BuildSearchURL assembles one kitapara.php request. The endpoint wants
// every parameter present even when empty, so the full string is spelled
// out. Free-text terms are folded to ASCII and percent-encoded; ids and
// the page number are numeric and the sort token comes from a fixed set,
// so none of them need escaping.
func BuildSearchURL(baseURL string, q models.Query, sellerID string, page int) string {
	sort := q.Sort
	if !sort.Valid() {
		sort = models.SortPriceAsc
	}
	if sellerID == "" {
		sellerID = aggregateSellerID
	}
	return fmt.Sprintf(
		"%s/kitapara.php?ara=aramayap&ref=&kategori2=%s&kitap_Adi=%s&yazar=%s"+
			"&ceviren=&hazirlayan=&siralama=%s&satici=%s&ortakkargo=0&yayin_Evi=&yayin_Yeri="+
			"&isbn=&fiyat1=&fiyat2=&tarih1=0&tarih2=0&guzelciltli=0&birincibaski=0&imzali=0"+
			"&eskiyeni=0&cilt=0&listele=&tip=&dil=0&kategori=%s&page=%d",
		baseURL,
		q.CategoryID,
		textutil.EncodeTerm(q.Title),
		textutil.EncodeTerm(q.Author),
		sort,
		sellerID,
		q.SubcategoryID,
		page,
	)
}
