package cmd

import (
	"fmt"
	"net/http"
	"os"

	"github.com/okarabey/kitapara/config"
	"github.com/okarabey/kitapara/internal/catalog"
	"github.com/okarabey/kitapara/internal/httputil"
	"github.com/okarabey/kitapara/internal/nadirkitap"
	"github.com/okarabey/kitapara/internal/search"
	"github.com/okarabey/kitapara/internal/stealth"
	"github.com/okarabey/kitapara/internal/store"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "kitapara",
	Short: "kitapara - second-hand book search CLI & MCP server",
	Long:  "A CLI tool and MCP server for searching second-hand book listings on nadirkitap.com, with city-wide seller fan-out and a local archive.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("base-url", "", "Site base URL")
	rootCmd.PersistentFlags().String("sellers", "", "Path to the sellers catalog JSON")
	rootCmd.PersistentFlags().String("categories", "", "Path to the categories catalog JSON")
	rootCmd.PersistentFlags().String("db", "", "Path to the SQLite archive")
	rootCmd.PersistentFlags().String("delay-profile", "", "Delay profile: cautious, normal, aggressive")
	rootCmd.PersistentFlags().Bool("respect-robots", true, "Respect robots.txt rules")
	rootCmd.PersistentFlags().String("proxy-file", "", "Path to proxy list file")
}

func initConfig() {
	cfg = config.DefaultConfig()
	cfg.LoadFromEnv()

	// Override from flags
	if v, _ := rootCmd.PersistentFlags().GetString("base-url"); v != "" {
		cfg.BaseURL = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("sellers"); v != "" {
		cfg.SellersFile = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("categories"); v != "" {
		cfg.CategoriesFile = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("db"); v != "" {
		cfg.DBPath = v
	}
	if v, _ := rootCmd.PersistentFlags().GetString("delay-profile"); v != "" {
		cfg.DelayProfile = v
	}
	if v, _ := rootCmd.PersistentFlags().GetBool("respect-robots"); !v {
		cfg.RespectRobots = false
	}
	if v, _ := rootCmd.PersistentFlags().GetString("proxy-file"); v != "" {
		cfg.ProxyFile = v
	}
}

// buildHTTPClient creates the politeness-wrapped HTTP client from config.
func buildHTTPClient() *http.Client {
	fpPool := stealth.NewFingerprintPool()
	delay := stealth.NewHumanDelay(stealth.DelayProfile(cfg.DelayProfile))
	limiter := rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.RateBurst)

	baseTransport := &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
	}

	var proxyRotator *stealth.ProxyRotator
	if cfg.ProxyFile != "" {
		rotator, err := stealth.NewProxyRotatorFromFile(cfg.ProxyFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "proxy file ignored: %v\n", err)
		} else {
			proxyRotator = rotator
		}
	}

	robotsClient := &http.Client{}
	robots := stealth.NewRobotsChecker(robotsClient, cfg.RespectRobots)

	transport := &stealth.PolitenessTransport{
		Base:        baseTransport,
		Robots:      robots,
		Fingerprint: fpPool,
		Proxy:       proxyRotator,
		Delay:       delay,
		RateLimiter: limiter,
	}

	return httputil.NewHTTPClient(transport)
}

// loadCatalog reads the seller and category catalogs from the
// configured paths.
func loadCatalog() (*catalog.Catalog, error) {
	cat, err := catalog.Load(cfg.SellersFile, cfg.CategoriesFile)
	if err != nil {
		return nil, fmt.Errorf("load catalogs: %w", err)
	}
	return cat, nil
}

// buildCoordinator wires the scraper and catalog into a search
// coordinator. The persistence queue is attached by the caller when
// saving is on.
func buildCoordinator(cat *catalog.Catalog) *search.Coordinator {
	scraper := nadirkitap.NewScraper(buildHTTPClient(), nadirkitap.Options{
		BaseURL:        cfg.BaseURL,
		MaxPages:       cfg.MaxPages,
		MaxSellerPages: cfg.MaxSellerPages,
		FullPageSize:   cfg.FullPageSize,
		PageDelay:      cfg.PageDelay,
	})
	return &search.Coordinator{
		Scraper:       scraper,
		Catalog:       cat,
		MaxConcurrent: cfg.MaxConcurrent,
		BatchSize:     cfg.BatchSize,
		MaxResults:    cfg.MaxResults,
	}
}

// openStore opens the configured SQLite archive.
func openStore() (*store.Store, error) {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}
	return st, nil
}
