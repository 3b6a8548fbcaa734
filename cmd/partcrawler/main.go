package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/catalogtools/partcrawler/internal/config"
	"github.com/catalogtools/partcrawler/internal/domain/model"
	"github.com/catalogtools/partcrawler/internal/export"
	"github.com/catalogtools/partcrawler/internal/infra/browser"
	"github.com/catalogtools/partcrawler/internal/infra/collector"
	"github.com/catalogtools/partcrawler/internal/infra/persistence/es"
	"github.com/catalogtools/partcrawler/internal/infra/persistence/mongo"
	"github.com/catalogtools/partcrawler/internal/service/audit"
	"github.com/catalogtools/partcrawler/internal/service/indexer"
	"github.com/catalogtools/partcrawler/internal/service/scraper"
	"github.com/catalogtools/partcrawler/internal/skiplist"
	"github.com/catalogtools/partcrawler/pkg/logger"
)

var (
	cfg *config.Config
	log *logrus.Logger

	// export flags
	inputFile string
	fromMongo bool
	format    string
	output    string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "partcrawler",
		Short: "Catalog site crawler with document-store persistence",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if cfg, err = config.Load(); err != nil {
				return err
			}
			if log, err = logger.Init(cfg.Log.Level, cfg.Log.Dir, cmd.Name()); err != nil {
				return err
			}
			return nil
		},
		SilenceUsage: true,
	}

	crawlCmd := &cobra.Command{
		Use:   "crawl",
		Short: "Walk the catalog hierarchy and persist product records",
		RunE:  func(cmd *cobra.Command, _ []string) error { return runCrawl(cmd.Context()) },
	}

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Convert stored records to CSV",
		RunE:  func(cmd *cobra.Command, _ []string) error { return runExport(cmd.Context()) },
	}
	exportCmd.Flags().StringVarP(&inputFile, "input", "i", "", "JSON export to convert instead of reading the store")
	exportCmd.Flags().BoolVar(&fromMongo, "from-mongo", false, "read records from the document store")
	exportCmd.Flags().StringVarP(&format, "format", "f", "flat", "output format: flat or magento")
	exportCmd.Flags().StringVarP(&output, "output", "o", "products.csv", "output CSV path")

	auditCmd := &cobra.Command{
		Use:   "audit",
		Short: "Recheck stored product links over plain HTTP",
		RunE:  func(cmd *cobra.Command, _ []string) error { return runAudit(cmd.Context()) },
	}

	indexCmd := &cobra.Command{
		Use:   "index",
		Short: "Mirror the document store into the search index",
		RunE:  func(cmd *cobra.Command, _ []string) error { return runIndex(cmd.Context()) },
	}

	rootCmd.AddCommand(crawlCmd, exportCmd, auditCmd, indexCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if log != nil {
			log.Errorf("command failed: %+v", err)
		} else {
			fmt.Fprintf(os.Stderr, "command failed: %v\n", err)
		}
		os.Exit(1)
	}
}

// runCrawl drives the scraper with full-session retries: an access
// restriction tears the whole browser down, waits out the penalty window
// and starts over with a fresh session. The skip list carries progress
// across attempts.
func runCrawl(ctx context.Context) error {
	store, err := mongo.InitClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	skip, err := skiplist.Load(cfg.Site.SkipListFile)
	if err != nil {
		return err
	}

	retryDelay := time.Duration(cfg.Site.RetryDelay) * time.Second
	for attempt := 1; attempt <= cfg.Site.MaxRetries; attempt++ {
		if attempt > 1 {
			log.Infof("retry attempt %d/%d", attempt, cfg.Site.MaxRetries)
		}

		err = crawlOnce(ctx, store, skip)
		if err == nil {
			log.Info("crawl finished")
			return nil
		}
		if !errors.Is(err, scraper.ErrAccessRestricted) {
			return err
		}

		log.Warnf("access restricted, reinitializing session in %s", retryDelay)
		select {
		case <-time.After(retryDelay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", cfg.Site.MaxRetries, err)
}

// crawlOnce runs one full browser session.
func crawlOnce(ctx context.Context, store *mongo.Client, skip *skiplist.SkipList) error {
	b, err := browser.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	s, err := scraper.InitScraper(b, store, skip, cfg, log)
	if err != nil {
		return err
	}
	return s.Run(ctx)
}

func runExport(ctx context.Context) error {
	var records []export.Record
	switch {
	case inputFile != "":
		f, err := os.Open(inputFile)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		if records, err = export.ReadRecords(f); err != nil {
			return err
		}
	case fromMongo:
		store, err := mongo.InitClient(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close(context.Background())

		var products []*model.Product
		err = store.EachProduct(ctx, func(p *model.Product) error {
			products = append(products, p)
			return nil
		})
		if err != nil {
			return err
		}
		if records, err = export.RecordsFromProducts(products); err != nil {
			return err
		}
	default:
		return errors.New("either --input or --from-mongo is required")
	}
	log.Infof("loaded %d records", len(records))

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	switch format {
	case "flat":
		err = export.WriteFlatCSV(out, records)
	case "magento":
		err = export.WriteMagentoCSV(out, records)
	default:
		return fmt.Errorf("unknown format %q (want flat or magento)", format)
	}
	if err != nil {
		return err
	}
	log.Infof("wrote %s", output)
	return nil
}

func runAudit(ctx context.Context) error {
	store, err := mongo.InitClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	a := audit.InitAuditor(collector.InitCollyCollector(cfg, log), store, log)
	res, err := a.Run(ctx)
	if err != nil {
		return err
	}
	if len(res.Dead) > 0 {
		return fmt.Errorf("%d of %d stored links are dead", len(res.Dead), res.Checked)
	}
	return nil
}

func runIndex(ctx context.Context) error {
	store, err := mongo.InitClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close(context.Background())

	esClient, err := es.InitTypedEsClient[*model.Product](cfg, log)
	if err != nil {
		return err
	}

	indexed, err := indexer.InitIndexer(store, esClient, log).Run(ctx)
	if err != nil {
		return err
	}
	log.Infof("indexed %d documents", indexed)
	return nil
}
