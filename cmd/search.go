package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/okarabey/kitapara/internal/models"
	"github.com/okarabey/kitapara/internal/progress"
	"github.com/okarabey/kitapara/internal/search"
	"github.com/okarabey/kitapara/internal/store"
	"github.com/okarabey/kitapara/internal/ui"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search [title]",
	Short: "Search book listings by title and/or author",
	Long: `Search second-hand book listings on nadirkitap.com.

Without --city the combined search endpoint is crawled page by page.
With --city every seller in that city is searched in parallel.
With --local the query runs against the saved archive instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("author", "", "Author name")
	searchCmd.Flags().String("city", "", "Search every seller in this city")
	searchCmd.Flags().String("category", "", "Main category id")
	searchCmd.Flags().String("subcategory", "", "Subcategory id")
	searchCmd.Flags().String("sort", "fiyatartan.", "Sort order: fiyatartan., fiyatazalan., tarihyeni., tariheski.")
	searchCmd.Flags().Bool("save", false, "Persist results to the archive while searching")
	searchCmd.Flags().Bool("local", false, "Search the saved archive instead of the site")
	searchCmd.Flags().Float64("max-price", 0, "Upper price bound (only with --local)")
	searchCmd.Flags().String("format", "table", "Output format: json, table")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	var title string
	if len(args) > 0 {
		title = args[0]
	}
	author, _ := cmd.Flags().GetString("author")
	if title == "" && author == "" {
		return fmt.Errorf("give a title argument, --author, or both")
	}

	sortFlag, _ := cmd.Flags().GetString("sort")
	order := models.SortOrder(sortFlag)
	if !order.Valid() {
		return fmt.Errorf("unknown sort %q", sortFlag)
	}
	format, _ := cmd.Flags().GetString("format")

	if local, _ := cmd.Flags().GetBool("local"); local {
		return runLocalSearch(cmd, title, author, order, format)
	}

	q := models.Query{
		Title:  title,
		Author: author,
		Sort:   order,
	}
	q.City, _ = cmd.Flags().GetString("city")
	q.CategoryID, _ = cmd.Flags().GetString("category")
	q.SubcategoryID, _ = cmd.Flags().GetString("subcategory")

	cat, err := loadCatalog()
	if err != nil {
		return err
	}
	q.CategoryName, q.SubcategoryName = cat.CategoryNames(q.CategoryID, q.SubcategoryID)

	co := buildCoordinator(cat)

	var queue *store.SaveQueue
	if save, _ := cmd.Flags().GetBool("save"); save || cfg.AutoSave {
		st, err := openStore()
		if err != nil {
			return err
		}
		defer st.Close()
		queue = store.NewSaveQueue(st, cfg.QueueCapacity, cfg.BatchSize)
		co.Queue = queue
	}

	spin := ui.NewSpinner()
	spin.Start("Starting search...")
	ctx := progress.With(cmd.Context(), spin.Update)
	books := co.Run(ctx, q, search.NewToken(), search.Events{})
	spin.Stop()

	if queue != nil {
		// Everything still in flight lands in the archive before the
		// process exits.
		if err := queue.Drain(); err == nil {
			fmt.Fprintf(os.Stderr, "Saved %d new books to %s.\n", queue.Inserted(), cfg.DBPath)
		}
		queue.Stop()
	}

	// Fan-out results arrive in completion order, so the requested
	// price order is restored before display.
	sortBooks(books, order)

	return printBooks(books, format)
}

func runLocalSearch(cmd *cobra.Command, title, author string, order models.SortOrder, format string) error {
	st, err := openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	f := store.LocalFilter{
		Title:  title,
		Author: author,
		Sort:   order,
	}
	f.City, _ = cmd.Flags().GetString("city")
	f.MaxPrice, _ = cmd.Flags().GetFloat64("max-price")

	books, err := st.SearchLocal(cmd.Context(), f)
	if err != nil {
		return err
	}
	return printBooks(books, format)
}

// sortBooks reorders the display set for the price orders. The date
// orders depend on listing dates the result pages do not expose, so
// those keep the crawl order the site returned.
func sortBooks(books []models.Book, order models.SortOrder) {
	switch order {
	case models.SortPriceAsc:
		sort.SliceStable(books, func(i, j int) bool { return books[i].Price < books[j].Price })
	case models.SortPriceDesc:
		sort.SliceStable(books, func(i, j int) bool { return books[i].Price > books[j].Price })
	}
}

func printBooks(books []models.Book, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(books)
	default:
		printBooksTable(books)
		return nil
	}
}
