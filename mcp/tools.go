package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/okarabey/kitapara/internal/models"
	"github.com/okarabey/kitapara/internal/search"
	"github.com/okarabey/kitapara/internal/store"
)

func registerTools(s *server.MCPServer, deps Deps) {
	// search_books
	searchTool := mcp.NewTool("search_books",
		mcp.WithDescription("Search second-hand book listings on nadirkitap.com. A city scope searches every seller in that city in parallel."),
		mcp.WithString("title",
			mcp.Description("Book title to search for"),
		),
		mcp.WithString("author",
			mcp.Description("Author name to search for"),
		),
		mcp.WithString("city",
			mcp.Description("Limit the search to sellers in this city"),
		),
		mcp.WithString("category_id",
			mcp.Description("Main category id"),
		),
		mcp.WithString("subcategory_id",
			mcp.Description("Subcategory id"),
		),
		mcp.WithString("sort",
			mcp.Description("Sort order: fiyatartan., fiyatazalan., tarihyeni. or tariheski. (default: fiyatartan.)"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Maximum listings to return (default: 100)"),
		),
	)
	s.AddTool(searchTool, handleSearchBooks(deps))

	// local_search
	localTool := mcp.NewTool("local_search",
		mcp.WithDescription("Search previously saved listings in the local database"),
		mcp.WithString("title",
			mcp.Description("Title substring"),
		),
		mcp.WithString("author",
			mcp.Description("Author substring"),
		),
		mcp.WithString("seller",
			mcp.Description("Seller name substring"),
		),
		mcp.WithString("city",
			mcp.Description("City substring"),
		),
		mcp.WithNumber("max_price",
			mcp.Description("Upper price bound in TL"),
		),
		mcp.WithString("sort",
			mcp.Description("Sort order: fiyatartan., fiyatazalan., tarihyeni. or tariheski."),
		),
	)
	s.AddTool(localTool, handleLocalSearch(deps))

	// db_report
	reportTool := mcp.NewTool("db_report",
		mcp.WithDescription("Aggregate statistics over the saved listings: totals, top authors, price distribution and per-city/seller breakdowns"),
		mcp.WithNumber("top_n",
			mcp.Description("Rows per ranked section (default: 10)"),
		),
	)
	s.AddTool(reportTool, handleReport(deps))

	// list_cities
	citiesTool := mcp.NewTool("list_cities",
		mcp.WithDescription("List the cities that have known sellers, with seller counts"),
	)
	s.AddTool(citiesTool, handleListCities(deps))
}

func handleSearchBooks(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		q := models.Query{
			Title:         request.GetString("title", ""),
			Author:        request.GetString("author", ""),
			City:          request.GetString("city", ""),
			CategoryID:    request.GetString("category_id", ""),
			SubcategoryID: request.GetString("subcategory_id", ""),
			Sort:          models.SortOrder(request.GetString("sort", "")),
		}
		if q.Title == "" && q.Author == "" {
			return mcp.NewToolResultError("title or author is required"), nil
		}
		if q.Sort != "" && !q.Sort.Valid() {
			return mcp.NewToolResultError(fmt.Sprintf("unknown sort %q", q.Sort)), nil
		}
		limit := request.GetInt("limit", 100)

		books := deps.Coordinator.Run(ctx, q, nil, search.Events{})
		if limit > 0 && len(books) > limit {
			books = books[:limit]
		}

		data, _ := json.MarshalIndent(books, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func handleLocalSearch(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if deps.Store == nil {
			return mcp.NewToolResultError("no database configured"), nil
		}
		f := store.LocalFilter{
			Title:    request.GetString("title", ""),
			Author:   request.GetString("author", ""),
			Seller:   request.GetString("seller", ""),
			City:     request.GetString("city", ""),
			MaxPrice: request.GetFloat("max_price", 0),
			Sort:     models.SortOrder(request.GetString("sort", "")),
		}

		books, err := deps.Store.SearchLocal(ctx, f)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("local search error: %v", err)), nil
		}

		data, _ := json.MarshalIndent(books, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func handleReport(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if deps.Store == nil {
			return mcp.NewToolResultError("no database configured"), nil
		}
		topN := request.GetInt("top_n", 10)

		report, err := deps.Store.BuildReport(ctx, topN)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("report error: %v", err)), nil
		}

		data, _ := json.MarshalIndent(report, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}

func handleListCities(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		cat := deps.Coordinator.Catalog
		type cityCount struct {
			City    string `json:"city"`
			Sellers int    `json:"sellers"`
		}
		var out []cityCount
		for _, city := range cat.Cities() {
			out = append(out, cityCount{City: city, Sellers: len(cat.SellersInCity(city))})
		}

		data, _ := json.MarshalIndent(out, "", "  ")
		return mcp.NewToolResultText(string(data)), nil
	}
}
