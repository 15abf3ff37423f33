package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/okarabey/kitapara/internal/models"
	"github.com/okarabey/kitapara/internal/store"
)

// printBooksTable prints listings in a human-friendly card layout.
func printBooksTable(books []models.Book) {
	if len(books) == 0 {
		fmt.Println("No books found.")
		return
	}
	for i, b := range books {
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		fmt.Fprintf(os.Stdout, " %d. %s\n", i+1, b.Title)

		line := "    "
		if b.Author != "" {
			line += b.Author
		} else {
			line += "Unknown author"
		}
		if b.Description != "" {
			line += "  |  " + b.Description
		}
		fmt.Fprintln(os.Stdout, line)

		priceLine := "    Price: " + displayPrice(b)
		if b.SellerName != "" {
			priceLine += "  |  Seller: " + b.SellerName
			if b.City != "" {
				priceLine += fmt.Sprintf(" (%s)", b.City)
			}
		}
		fmt.Fprintln(os.Stdout, priceLine)

		if b.Category != "" {
			cat := b.Category
			if b.Subcategory != "" {
				cat += " > " + b.Subcategory
			}
			fmt.Fprintf(os.Stdout, "    Category: %s\n", cat)
		}
		if b.URL != "" {
			fmt.Fprintf(os.Stdout, "    %s\n", b.URL)
		}
	}
	fmt.Fprintf(os.Stdout, "\n%d books.\n", len(books))
}

// displayPrice prefers the listing's own price text; a missing one is
// reconstructed from the parsed value.
func displayPrice(b models.Book) string {
	if b.PriceText != "" {
		return b.PriceText
	}
	if b.Price > 0 {
		return formatPrice(b.Price)
	}
	return "-"
}

// formatPrice renders a price as "1.234,56 TL".
func formatPrice(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	parts := strings.SplitN(s, ".", 2)
	whole, frac := parts[0], parts[1]

	var grouped []string
	for len(whole) > 3 {
		grouped = append([]string{whole[len(whole)-3:]}, grouped...)
		whole = whole[:len(whole)-3]
	}
	grouped = append([]string{whole}, grouped...)
	return strings.Join(grouped, ".") + "," + frac + " TL"
}

func printReport(r *store.Report) {
	fmt.Printf("Archive: %d books, %d authors, %d sellers\n",
		r.TotalBooks, r.DistinctAuthors, r.DistinctSellers)

	if len(r.TopAuthors) > 0 {
		fmt.Println("\nTop authors:")
		for i, a := range r.TopAuthors {
			fmt.Printf(" %2d. %-32s %4d books  avg %s\n",
				i+1, truncate(a.Author, 32), a.Books, formatPrice(a.AvgPrice))
		}
	}
	printGroup("Categories", r.Categories)
	printGroup("Cities", r.Cities)
	printGroup("Sellers", r.Sellers)

	if len(r.PriceBands) > 0 {
		fmt.Println("\nPrice distribution (TL):")
		for _, b := range r.PriceBands {
			fmt.Printf("  %-10s %5d books  %5.1f%%\n", b.Label, b.Books, b.Percent)
		}
	}
	if len(r.Cheapest) > 0 {
		fmt.Println("\nCheapest:")
		for _, b := range r.Cheapest {
			fmt.Printf("  %-44s %s\n", truncate(b.Title, 44), formatPrice(b.Price))
		}
	}
	if len(r.MostExpensive) > 0 {
		fmt.Println("\nMost expensive:")
		for _, b := range r.MostExpensive {
			fmt.Printf("  %-44s %s\n", truncate(b.Title, 44), formatPrice(b.Price))
		}
	}
}

func printGroup(label string, stats []store.GroupStat) {
	if len(stats) == 0 {
		return
	}
	fmt.Printf("\n%s:\n", label)
	for _, g := range stats {
		fmt.Printf("  %-32s %4d books  avg %s\n",
			truncate(g.Name, 32), g.Books, formatPrice(g.AvgPrice))
	}
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
