package nadirkitap

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/okarabey/kitapara/internal/models"
	"github.com/okarabey/kitapara/internal/textutil"
)

// ExtractBooks pulls the listing entries out of one result page. A page
// without the results container means "no results here" and yields an
// empty slice, not an error. A malformed entry is skipped; it never
// takes the rest of the page down with it.
func ExtractBooks(doc *goquery.Document, baseURL string) []models.Book {
	container := doc.Find("div.list-cell ul.product-list").First()
	if container.Length() == 0 {
		return nil
	}

	var books []models.Book
	container.ChildrenFiltered("li").Each(func(_ int, li *goquery.Selection) {
		if book, ok := extractEntry(li, baseURL); ok {
			books = append(books, book)
		}
	})
	return books
}

// extractEntry reads a single <li> entry. A usable title is mandatory;
// everything else degrades to empty fields.
func extractEntry(li *goquery.Selection, baseURL string) (models.Book, bool) {
	var book models.Book

	titleLink := li.Find("h4.break-work a").First()
	if titleLink.Length() == 0 {
		return book, false
	}
	if span := titleLink.Find("span").First(); span.Length() > 0 {
		book.Title = strings.TrimSpace(span.Text())
	} else {
		book.Title = strings.TrimSpace(titleLink.Text())
	}
	if book.Title == "" {
		return book, false
	}
	book.URL = absoluteURL(titleLink.AttrOr("href", ""), baseURL)

	// The author sits in the first <p> following the title heading.
	if p := li.Find("h4.break-work").First().Parent().Find("p").First(); p.Length() > 0 {
		book.Author = strings.TrimSpace(p.Text())
	}

	if priceDiv := li.Find("div.product-list-price").First(); priceDiv.Length() > 0 {
		book.PriceText = strings.TrimSpace(priceDiv.Text())
		book.Price = textutil.ParsePrice(book.PriceText)
	}

	book.Description = extractPublisher(li)

	if sellerLink := li.Find("a.seller-link").First(); sellerLink.Length() > 0 {
		book.SellerName = strings.TrimSpace(sellerLink.Text())
		book.SellerURL = absoluteURL(sellerLink.AttrOr("href", ""), baseURL)
	}

	return book, true
}

// extractPublisher finds the "Yayınevi" row in the entry's detail list
// and returns its value with the leading ": " stripped.
func extractPublisher(li *goquery.Selection) string {
	var publisher string
	li.Find("ul.product-list-bottom li").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if !strings.Contains(row.Text(), "Yayınevi") {
			return true
		}
		if span := row.Find("span.col-md-9").First(); span.Length() > 0 {
			publisher = strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(span.Text()), ": "))
		}
		return false
	})
	return publisher
}

func absoluteURL(href, baseURL string) string {
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	return baseURL + "/" + strings.TrimPrefix(href, "/")
}
