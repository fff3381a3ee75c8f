// Command catalog-snapshot dumps the entire remote catalog to a
// gzip-compressed JSON-lines file, one product per line. Pages are fetched
// concurrently; output preserves catalog order regardless of completion
// order.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-faster/errors"
	pgzip "github.com/klauspost/pgzip"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront/internal/catalog"
	"github.com/xenking/storefront/internal/domain/product"
)

const (
	pageSize       = 100
	maxConcurrency = 4
)

func main() {
	var (
		baseURL string
		outPath string
	)
	flag.StringVar(&baseURL, "catalog-url", "https://dummyjson.com", "base URL of the remote catalog")
	flag.StringVar(&outPath, "out", "products.jsonl.gz", "output file path")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	n, err := run(ctx, baseURL, outPath)
	if err != nil {
		slog.Error("snapshot failed", "err", err)
		os.Exit(1)
	}
	slog.Info("snapshot complete",
		"products", n,
		"out", outPath,
		"elapsed", time.Since(start).Round(time.Millisecond),
	)
}

func run(ctx context.Context, baseURL, outPath string) (int, error) {
	client, err := catalog.New(baseURL)
	if err != nil {
		return 0, errors.Wrap(err, "create client")
	}

	// First page establishes the total; remaining pages fetch concurrently.
	first, err := client.List(ctx, product.ListParams{Limit: pageSize})
	if err != nil {
		return 0, errors.Wrap(err, "fetch first page")
	}

	numPages := (first.Total + pageSize - 1) / pageSize
	pages := make([][]product.Product, numPages)
	if numPages > 0 {
		pages[0] = first.Products
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)
	for i := 1; i < numPages; i++ {
		g.Go(func() error {
			page, err := client.List(gctx, product.ListParams{Limit: pageSize, Skip: i * pageSize})
			if err != nil {
				return errors.Wrapf(err, "fetch page %d", i)
			}
			pages[i] = page.Products
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	return writeSnapshot(outPath, pages)
}

func writeSnapshot(outPath string, pages [][]product.Product) (int, error) {
	f, err := os.Create(outPath)
	if err != nil {
		return 0, errors.Wrap(err, "create output")
	}
	defer func() { _ = f.Close() }()

	gz := pgzip.NewWriter(f)
	w := bufio.NewWriter(gz)
	enc := json.NewEncoder(w)

	n := 0
	for _, page := range pages {
		for _, p := range page {
			if err := enc.Encode(p); err != nil {
				return n, errors.Wrap(err, "encode product")
			}
			n++
		}
	}

	if err := w.Flush(); err != nil {
		return n, errors.Wrap(err, "flush")
	}
	if err := gz.Close(); err != nil {
		return n, errors.Wrap(err, "close gzip stream")
	}
	return n, f.Close()
}
