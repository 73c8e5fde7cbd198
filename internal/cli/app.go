package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/govolunteer/govolunteer-api/internal/config"
	"github.com/govolunteer/govolunteer-api/internal/logger"
	"github.com/govolunteer/govolunteer-api/internal/records"
	"github.com/govolunteer/govolunteer-api/internal/retrieve"
	"github.com/govolunteer/govolunteer-api/internal/scraper"
	"github.com/govolunteer/govolunteer-api/internal/server"
	"github.com/govolunteer/govolunteer-api/internal/sheets"
	"github.com/govolunteer/govolunteer-api/internal/storage"
)

// Dataset names used by the csv source.
const (
	activityDataset    = "activity"
	certificateDataset = "certificate"
)

// app wires configured components together.
type app struct {
	cfg *config.Config
}

// setupLogger installs the default logger. levelOverride wins over the
// configured level; verbose forces debug.
func setupLogger(cfg *config.Config, levelOverride string, verbose bool) error {
	name := cfg.Logging.Level
	if levelOverride != "" {
		name = levelOverride
	}
	level, err := logger.ParseLevel(name)
	if err != nil {
		return err
	}
	if verbose {
		level = logger.LevelDebug
	}

	if cfg.Logging.Format == "console" {
		logger.SetDefault(logger.NewConsole(level, os.Stderr))
	} else {
		logger.SetDefault(logger.New(level, os.Stderr))
	}
	return nil
}

func (a *app) scraper() (*scraper.Scraper, error) {
	sc := a.cfg.Scraper

	httpCfg := retrieve.HTTPConfig{
		Timeout:    sc.HTTPTimeout.Duration(),
		MaxRetries: sc.MaxRetries,
	}
	browserCfg := retrieve.BrowserConfig{
		ExecPath:        sc.ChromePath,
		PageLoadTimeout: sc.PageLoadTimeout.Duration(),
		SettleDelay:     sc.SettleDelay.Duration(),
		MaxRetries:      uint64(sc.MaxRetries),
	}

	listing, err := newRetriever(sc.ListingRetriever, httpCfg, browserCfg)
	if err != nil {
		return nil, fmt.Errorf("listing retriever: %w", err)
	}
	article, err := newRetriever(sc.ArticleRetriever, httpCfg, browserCfg)
	if err != nil {
		return nil, fmt.Errorf("article retriever: %w", err)
	}

	return scraper.New(listing, article, scraper.WithBaseURL(sc.BaseURL)), nil
}

func newRetriever(name string, httpCfg retrieve.HTTPConfig, browserCfg retrieve.BrowserConfig) (retrieve.Retriever, error) {
	mode, err := retrieve.ParseMode(name)
	if err != nil {
		return nil, err
	}
	return retrieve.New(mode, httpCfg, browserCfg)
}

// records builds the matcher and, when writes are allowed, the PDF marker
// over the configured source. A source that cannot be opened is logged and
// left unset so lookups report the data source as unavailable.
func (a *app) records(ctx context.Context) (*records.Matcher, server.PDFMarker, string) {
	rc := a.cfg.Records
	allowWrites := a.cfg.Server.AllowWrites

	switch rc.Source {
	case config.SourceCSV:
		datasets := []records.Dataset{
			{Type: records.TypeActivity, Ref: activityDataset},
			{Type: records.TypeCertificate, Ref: certificateDataset},
		}
		store, err := storage.New(rc.DataDir)
		if err != nil {
			logger.Error("Failed to open data directory", logger.Fields{"data_dir": rc.DataDir}, err)
			return records.NewMatcher(nil, datasets...), nil, certificateDataset
		}
		if allowWrites {
			return records.NewMatcher(store, datasets...), store, certificateDataset
		}
		return records.NewMatcher(store, datasets...), nil, certificateDataset

	default:
		datasets := []records.Dataset{
			{Type: records.TypeActivity, Ref: rc.ActivitySheetID},
			{Type: records.TypeCertificate, Ref: rc.CertificateSheetID},
		}
		client, err := a.sheets(ctx, allowWrites)
		if err != nil {
			logger.Error("Google Sheets unavailable", logger.Fields{"credentials": rc.CredentialsFile}, err)
			return records.NewMatcher(nil, datasets...), nil, rc.CertificateSheetID
		}
		if allowWrites {
			return records.NewMatcher(client, datasets...), client, rc.CertificateSheetID
		}
		return records.NewMatcher(client, datasets...), nil, rc.CertificateSheetID
	}
}

func (a *app) sheets(ctx context.Context, writable bool) (*sheets.Client, error) {
	rc := a.cfg.Records
	return sheets.New(ctx, sheets.Config{
		CredentialsFile: rc.CredentialsFile,
		SheetName:       rc.SheetName,
		Writable:        writable,
	})
}

func (a *app) server(ctx context.Context) (*server.Server, error) {
	sc, err := a.scraper()
	if err != nil {
		return nil, err
	}
	matcher, marker, certRef := a.records(ctx)

	return server.New(server.Config{
		Addr:           a.cfg.Server.Addr,
		CacheTTL:       a.cfg.Server.CacheTTL.Duration(),
		CertificateRef: certRef,
	}, sc, matcher, marker), nil
}
