package main

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/poiesic/tradescout/config"
	"github.com/poiesic/tradescout/core"
	"github.com/poiesic/tradescout/interchange"
	"github.com/poiesic/tradescout/scrape"
	"github.com/poiesic/tradescout/scrape/htmlpage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func card(n int) string {
	return fmt.Sprintf(`
<div class="hugo4-pc-grid-item">
  <a href="/product-detail/item_%[1]d.html" title="Solar Garden Light Model %[1]d">
    <img src="//s.alicdn.com/item_%[1]d.jpg">
  </a>
  <div class="item-price">US $%[1]d.50</div>
</div>`, n)
}

func document(cards ...int) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="grid">`)
	for _, n := range cards {
		b.WriteString(card(n))
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

func noSleep(context.Context, time.Duration) error { return nil }

// oracleServer answers every chat completion with reply.
func oracleServer(t *testing.T, reply string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gemma3:1b",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": %q}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 2, "total_tokens": 12}
		}`, reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

type env struct {
	dir        string
	configPath string
	dataFile   string
}

func newEnv(t *testing.T, oracleHost string) *env {
	t.Helper()
	dir := t.TempDir()
	e := &env{
		dir:        dir,
		configPath: filepath.Join(dir, "tradescout.yaml"),
		dataFile:   filepath.Join(dir, interchange.DefaultFileName),
	}
	if oracleHost == "" {
		oracleHost = "http://127.0.0.1:1"
	}
	yaml := fmt.Sprintf(`storage:
  path: %s
scrape:
  output_file: %s
  growth_timeout: 10ms
oracle:
  host: %s
categories:
  all: true
`, filepath.Join(dir, "db"), e.dataFile, oracleHost)
	require.NoError(t, os.WriteFile(e.configPath, []byte(yaml), 0o644))
	return e
}

func (e *env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	app := newApp()
	var out bytes.Buffer
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"tradescout", "--log-level", "error", "--config", e.configPath}, args...))
	return out.String(), err
}

func (e *env) config(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Load(e.configPath)
	require.NoError(t, err)
	return cfg
}

func (e *env) scrape(t *testing.T, frames ...string) scrapeReport {
	t.Helper()
	page, err := htmlpage.New("https://www.alibaba.com/new", frames...)
	require.NoError(t, err)
	report, err := scrapePage(context.Background(), e.config(t), page, scrape.WithSleeper(noSleep))
	require.NoError(t, err)
	return report
}

func TestScrapePage(t *testing.T) {
	e := newEnv(t, "")

	report := e.scrape(t, document(1, 2), document(1, 2, 3))
	assert.Equal(t, scrapeReport{Existing: 0, New: 3, Total: 3}, report)

	records, err := interchange.ReadFile(e.dataFile, nil)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Solar Garden Light Model 1", records[0].Name)
	assert.Equal(t, "https://www.alibaba.com/product-detail/item_1.html", records[0].ProductURL)
	assert.Equal(t, core.CategoryAll, records[0].Category)

	t.Run("rescrape appends only unseen urls", func(t *testing.T) {
		report := e.scrape(t, document(2, 3, 4))
		assert.Equal(t, scrapeReport{Existing: 3, New: 1, Total: 4}, report)
	})
}

func TestLoadAndFavorites(t *testing.T) {
	e := newEnv(t, "")
	e.scrape(t, document(1, 2, 3))

	out, err := e.run(t, "load")
	require.NoError(t, err)
	assert.Contains(t, out, "Read: 3")
	assert.Contains(t, out, "Inserted: 3")
	assert.Contains(t, out, "Skipped: 0")

	out, err = e.run(t, "load")
	require.NoError(t, err)
	assert.Contains(t, out, "Updated: 3")

	url := "https://www.alibaba.com/product-detail/item_2.html"
	_, err = e.run(t, "favorites", "--user", "sam", "add", url)
	require.NoError(t, err)

	out, err = e.run(t, "favorites", "--user", "sam", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Solar Garden Light Model 2")

	out, err = e.run(t, "favorites", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No favorites")

	id := fmt.Sprint(core.IDFromURL(url))
	_, err = e.run(t, "favorites", "--user", "sam", "remove", id)
	require.NoError(t, err)

	_, err = e.run(t, "favorites", "--user", "sam", "remove", id)
	assert.Error(t, err)

	out, err = e.run(t, "archive", "--retention", "1ns")
	require.NoError(t, err)
	assert.Contains(t, out, "Archived: 3")

	out, err = e.run(t, "clear", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted: 3")
}

func TestSearchCommand(t *testing.T) {
	srv := oracleServer(t, "Score: 8")
	e := newEnv(t, srv.URL)
	e.scrape(t, document(1, 2))

	_, err := e.run(t, "load")
	require.NoError(t, err)

	out, err := e.run(t, "search", "solar", "light")
	require.NoError(t, err)
	assert.Contains(t, out, `Results for "solar light"`)
	assert.Contains(t, out, "[8/10] Solar Garden Light Model 1")

	out, err = e.run(t, "search", "--min-score", "9", "solar light")
	require.NoError(t, err)
	assert.Contains(t, out, "No results")
}

func TestCommandValidation(t *testing.T) {
	e := newEnv(t, "")

	t.Run("search needs a query", func(t *testing.T) {
		_, err := e.run(t, "search")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query")
	})

	t.Run("clear needs confirmation", func(t *testing.T) {
		_, err := e.run(t, "clear")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--yes")
	})

	t.Run("favorites add needs a product", func(t *testing.T) {
		_, err := e.run(t, "favorites", "add")
		assert.Error(t, err)
	})

	t.Run("missing config file", func(t *testing.T) {
		app := newApp()
		app.Writer = &bytes.Buffer{}
		err := app.Run([]string{"tradescout", "--config", filepath.Join(e.dir, "nope.yaml"), "load"})
		assert.Error(t, err)
	})
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		testCases := []struct {
			input    string
			expected slog.Level
		}{
			{"debug", slog.LevelDebug},
			{"info", slog.LevelInfo},
			{"warn", slog.LevelWarn},
			{"error", slog.LevelError},
		}

		for _, tc := range testCases {
			t.Run(tc.input, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: tc.input,
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc.input})
				require.NoError(t, err)
				assert.True(t, slog.Default().Enabled(context.Background(), tc.expected))
				assert.False(t, slog.Default().Enabled(context.Background(), tc.expected-1))
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, tc := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(tc, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{
							Name:  "log-level",
							Value: "info",
						},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error {
						return nil
					},
				}

				err := app.Run([]string{"test", "--log-level", tc})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level",
					Value: "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}

		err := app.Run([]string{"test", "--log-level", "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestMain(m *testing.M) {
	code := m.Run()
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	os.Exit(code)
}
