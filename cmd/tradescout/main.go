// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/tradescout"
	"github.com/poiesic/tradescout/api"
	"github.com/poiesic/tradescout/config"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	dbFlag := &cli.StringFlag{
		Name:    "db",
		Aliases: []string{"d"},
		Usage:   "Path to BadgerDB database directory (overrides storage.path)",
	}
	fileFlag := &cli.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "Interchange file (overrides scrape.output_file)",
	}

	return &cli.App{
		Name:  "tradescout",
		Usage: "Harvest new product arrivals and search them with a relevance oracle",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a YAML config file",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "scrape",
				Usage:  "Harvest new arrivals into the interchange file",
				Action: scrapeCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "url",
						Usage: "Page URL; repeat to supply snapshots revealed by scrolling (defaults to scrape.url)",
					},
					fileFlag,
					&cli.IntFlag{
						Name:  "max-records",
						Usage: "Cap on new records per category, 0 for no cap (overrides scrape.max_records_per_category)",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Per request timeout",
						Value: 60 * time.Second,
					},
				},
			},
			{
				Name:   "load",
				Usage:  "Load the interchange file into the catalog and archive stale products",
				Action: loadCommand,
				Flags:  []cli.Flag{dbFlag, fileFlag},
			},
			{
				Name:   "archive",
				Usage:  "Archive products not seen within the retention window",
				Action: archiveCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.DurationFlag{
						Name:  "retention",
						Usage: "Retention window (overrides scheduler.retention)",
					},
				},
			},
			{
				Name:   "clear",
				Usage:  "Delete every product and favorite",
				Action: clearCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.BoolFlag{
						Name:  "yes",
						Usage: "Confirm deletion",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Rank the catalog against a query",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					dbFlag,
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum results shown (overrides search.display_limit)",
					},
					&cli.IntFlag{
						Name:  "min-score",
						Usage: "Lowest score shown (overrides search.min_display_score)",
					},
					&cli.BoolFlag{
						Name:  "progress",
						Usage: "Report scoring progress on stderr",
						Value: true,
					},
				},
			},
			{
				Name:   "serve",
				Usage:  "Serve the HTTP API and load the interchange file on a schedule",
				Action: serveCommand,
				Flags: []cli.Flag{
					dbFlag,
					fileFlag,
					&cli.StringFlag{
						Name:  "addr",
						Usage: "Listen address (overrides server.addr)",
					},
					&cli.BoolFlag{
						Name:  "load-now",
						Usage: "Run a load immediately instead of waiting for the first tick",
					},
				},
			},
			{
				Name:  "favorites",
				Usage: "Manage saved products",
				Flags: []cli.Flag{
					dbFlag,
					&cli.StringFlag{
						Name:    "user",
						Aliases: []string{"u"},
						Usage:   "Owner of the favorites",
						Value:   api.DefaultUser,
					},
				},
				Subcommands: []*cli.Command{
					{
						Name:      "add",
						Usage:     "Save a product by ID or URL",
						ArgsUsage: "<id|url>",
						Action:    favoriteAddCommand,
					},
					{
						Name:      "remove",
						Usage:     "Drop a saved product by ID or URL",
						ArgsUsage: "<id|url>",
						Action:    favoriteRemoveCommand,
					},
					{
						Name:   "list",
						Usage:  "List saved products",
						Action: favoriteListCommand,
					},
				},
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

// loadConfig reads the config named by --config and applies the storage and
// interchange flag overrides of the running command.
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}
	if c.IsSet("db") {
		cfg.Storage.Path = c.String("db")
		cfg.Storage.InMemory = false
	}
	if c.IsSet("file") {
		cfg.Scrape.OutputFile = c.String("file")
	}
	return cfg, nil
}

func openCatalog(cfg *config.Config) (*tradescout.Catalog, error) {
	opts := []tradescout.CatalogOption{tradescout.WithAIConfig(cfg.AI())}
	if cfg.Storage.InMemory {
		opts = append(opts, tradescout.WithInMemory())
	}
	catalog, err := tradescout.Open(cfg.Storage.Path, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog: %w", err)
	}
	return catalog, nil
}
