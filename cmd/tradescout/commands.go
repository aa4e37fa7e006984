package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/tradescout"
	"github.com/poiesic/tradescout/api"
	"github.com/poiesic/tradescout/config"
	"github.com/poiesic/tradescout/core"
	"github.com/poiesic/tradescout/ingestion"
	"github.com/poiesic/tradescout/interchange"
	"github.com/poiesic/tradescout/scrape"
	"github.com/poiesic/tradescout/scrape/htmlpage"
	"github.com/poiesic/tradescout/search"
	"github.com/urfave/cli/v2"
)

type scrapeReport struct {
	Existing int
	New      int
	Total    int
}

func scrapeCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("max-records") {
		if c.Int("max-records") < 0 {
			return fmt.Errorf("max-records cannot be negative")
		}
		cfg.Scrape.MaxRecordsPerCategory = c.Int("max-records")
	}

	urls := c.StringSlice("url")
	if len(urls) == 0 {
		urls = []string{cfg.Scrape.URL}
	}

	page, err := htmlpage.Fetch(c.Context, urls,
		htmlpage.WithRequestTimeout(c.Duration("timeout")),
		htmlpage.WithFetchLogger(slog.Default()))
	if err != nil {
		return fmt.Errorf("failed to fetch page: %w", err)
	}

	report, err := scrapePage(c.Context, cfg, page)
	fmt.Fprintf(c.App.Writer, "Existing records: %d\nNew records: %d\nTotal written to %s: %d\n",
		report.Existing, report.New, cfg.Scrape.OutputFile, report.Total)
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}
	return nil
}

// scrapePage runs a category session over page and merges what it finds into
// the interchange file. Records harvested before a failure are still written.
func scrapePage(ctx context.Context, cfg *config.Config, page scrape.Page, opts ...scrape.Option) (scrapeReport, error) {
	var report scrapeReport
	path := cfg.Scrape.OutputFile

	existing, err := interchange.ReadFile(path, slog.Default())
	if err != nil {
		return report, err
	}
	report.Existing = len(existing)

	extractor, err := scrape.NewExtractor(cfg.Extractor(), opts...)
	if err != nil {
		return report, err
	}
	session, err := scrape.NewSession(extractor, cfg.Toggles(), scrape.WithSessionConfig(cfg.Session()))
	if err != nil {
		return report, err
	}

	found, runErr := session.Run(ctx, page, core.KnownURLsFromRecords(existing))

	merged := interchange.Merge(existing, found)
	report.New = len(merged) - len(existing)
	report.Total = len(merged)
	if report.New == 0 && runErr == nil {
		slog.Default().Info("no new records", "path", path)
	}
	if err := interchange.WriteFile(path, merged); err != nil {
		return report, errors.Join(runErr, err)
	}
	return report, runErr
}

func loadCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	catalog, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer catalog.Close()

	loader, err := catalog.NewLoader(cfg.Scrape.OutputFile, ingestion.WithRetention(cfg.Scheduler.Retention))
	if err != nil {
		return err
	}
	result, err := loader.Load(c.Context)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Read: %d\nInserted: %d\nUpdated: %d\nSkipped: %d\nArchived: %d\n",
		result.Read, result.Inserted, result.Updated, result.Skipped, result.Archived)
	return nil
}

func archiveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	retention := cfg.Scheduler.Retention
	if c.IsSet("retention") {
		retention = c.Duration("retention")
	}

	catalog, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer catalog.Close()

	loader, err := catalog.NewLoader(cfg.Scrape.OutputFile, ingestion.WithRetention(retention))
	if err != nil {
		return err
	}
	n, err := loader.Archive(c.Context)
	if err != nil {
		return fmt.Errorf("archive failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Archived: %d\n", n)
	return nil
}

func clearCommand(c *cli.Context) error {
	if !c.Bool("yes") {
		return fmt.Errorf("refusing to clear the catalog without --yes")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	catalog, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer catalog.Close()

	n, err := catalog.Products().ClearProducts(c.Context)
	if err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Deleted: %d\n", n)
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if query == "" {
		return fmt.Errorf("a search query is required")
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	minScore := cfg.Search.MinDisplayScore
	if c.IsSet("min-score") {
		minScore = c.Int("min-score")
	}
	limit := cfg.Search.DisplayLimit
	if c.IsSet("limit") {
		limit = c.Int("limit")
	}

	catalog, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer catalog.Close()

	var monitor search.RankMonitor
	if c.Bool("progress") {
		monitor = newProgressMonitor(c.App.ErrWriter)
	}
	ranked, err := catalog.SearchWithMonitor(c.Context, query, monitor, searchOptions(cfg)...)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	printResults(c.App.Writer, query, len(ranked), search.Display(ranked, minScore, limit))
	return nil
}

func printResults(w io.Writer, query string, ranked int, results []core.RankedResult) {
	if len(results) == 0 {
		fmt.Fprintf(w, "No results for %q (%d candidates ranked)\n", query, ranked)
		return
	}
	fmt.Fprintf(w, "Results for %q (%d of %d candidates):\n", query, len(results), ranked)
	for i, r := range results {
		fmt.Fprintf(w, "%2d. [%d/10] %s\n", i+1, r.SimilarityScore, r.Product.Name)
		fmt.Fprintf(w, "    %s | %s | id %d\n", r.Product.Price, r.Product.Category, r.Product.Id)
		fmt.Fprintf(w, "    %s\n", r.Product.ProductURL)
	}
}

func searchOptions(cfg *config.Config) []search.Option {
	var opts []search.Option
	if cfg.Search.MaxCandidates > 0 {
		opts = append(opts, search.WithMaxCandidates(cfg.Search.MaxCandidates))
	}
	opts = append(opts, search.WithMinFuzzyScore(cfg.Search.MinFuzzyScore))
	return opts
}

func serveCommand(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if c.IsSet("addr") {
		cfg.Server.Addr = c.String("addr")
	}
	gin.SetMode(cfg.Server.Mode)

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	catalog, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer catalog.Close()

	loader, err := catalog.NewLoader(cfg.Scrape.OutputFile, ingestion.WithRetention(cfg.Scheduler.Retention))
	if err != nil {
		return err
	}
	scheduler, err := ingestion.NewScheduler(loader, cfg.Scheduler.Schedule)
	if err != nil {
		return err
	}
	if err := scheduler.Start(ctx); err != nil {
		return err
	}
	defer scheduler.Stop()

	if c.Bool("load-now") {
		if err := scheduler.Trigger(); err != nil {
			return err
		}
	}

	handler, err := api.NewHandler(catalog, catalog.Products(), catalog.Favorites(),
		api.WithDisplay(cfg.Search.MinDisplayScore, cfg.Search.DisplayLimit),
		api.WithSearchOptions(searchOptions(cfg)...),
		api.WithLoadTrigger(scheduler))
	if err != nil {
		return err
	}
	return api.Serve(ctx, cfg.Server.Addr, api.NewRouter(handler), slog.Default())
}

// withFavorites opens the catalog and resolves the user and optional product
// argument for a favorites subcommand.
func withFavorites(c *cli.Context, needProduct bool, fn func(catalog *tradescout.Catalog, user, product core.ID) error) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	if needProduct && c.Args().Len() != 1 {
		return fmt.Errorf("exactly one product ID or URL is required")
	}

	catalog, err := openCatalog(cfg)
	if err != nil {
		return err
	}
	defer catalog.Close()

	user := strings.TrimSpace(c.String("user"))
	if user == "" {
		user = api.DefaultUser
	}

	var product core.ID
	if needProduct {
		product, err = resolveProduct(c.Context, catalog, c.Args().First())
		if err != nil {
			return err
		}
	}
	return fn(catalog, core.IDFromContent(user), product)
}

// resolveProduct accepts a decimal product ID or a product URL.
func resolveProduct(ctx context.Context, catalog *tradescout.Catalog, arg string) (core.ID, error) {
	if id, err := strconv.ParseUint(arg, 10, 64); err == nil {
		return core.ID(id), nil
	}
	p, err := catalog.Products().GetProductByURL(ctx, arg)
	if err != nil {
		return 0, fmt.Errorf("product %s: %w", arg, err)
	}
	return p.Id, nil
}

func favoriteAddCommand(c *cli.Context) error {
	return withFavorites(c, true, func(catalog *tradescout.Catalog, user, product core.ID) error {
		if _, err := catalog.Favorites().AddFavorite(c.Context, user, product); err != nil {
			return fmt.Errorf("add favorite: %w", err)
		}
		fmt.Fprintf(c.App.Writer, "Saved %d\n", product)
		return nil
	})
}

func favoriteRemoveCommand(c *cli.Context) error {
	return withFavorites(c, true, func(catalog *tradescout.Catalog, user, product core.ID) error {
		if err := catalog.Favorites().RemoveFavorite(c.Context, user, product); err != nil {
			return fmt.Errorf("remove favorite: %w", err)
		}
		fmt.Fprintf(c.App.Writer, "Removed %d\n", product)
		return nil
	})
}

func favoriteListCommand(c *cli.Context) error {
	return withFavorites(c, false, func(catalog *tradescout.Catalog, user, _ core.ID) error {
		products, err := catalog.Favorites().ListFavorites(c.Context, user)
		if err != nil {
			return fmt.Errorf("list favorites: %w", err)
		}
		if len(products) == 0 {
			fmt.Fprintln(c.App.Writer, "No favorites")
			return nil
		}
		for _, p := range products {
			fmt.Fprintf(c.App.Writer, "%d\t%s\t%s\n", p.Id, p.Name, p.ProductURL)
		}
		return nil
	})
}
