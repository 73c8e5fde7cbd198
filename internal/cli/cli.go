package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/govolunteer/govolunteer-api/internal/config"
	"github.com/govolunteer/govolunteer-api/internal/logger"
	"github.com/govolunteer/govolunteer-api/internal/news"
	"github.com/govolunteer/govolunteer-api/internal/records"
	"github.com/govolunteer/govolunteer-api/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess   = 0
	ExitError     = 1
	ExitNoResults = 2
)

// errNoResults makes Execute exit with ExitNoResults after printing output.
var errNoResults = errors.New("no results")

var (
	flagConfig   string
	flagEnvFile  string
	flagLogLevel string
	flagVerbose  bool
	flagFormat   string
	flagCategory string
	flagURL      string
	flagName     string
	flagID       string
	flagType     string
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "govolunteer-api",
		Short: "Serve and query GoVolunteer news and volunteer records",
		Long: `govolunteer-api scrapes news from govolunteerhcmc.vn and looks up volunteer
activities and certificates stored in Google Sheets. Run "serve" for the HTTP
API or use the other commands for one-off queries.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(flagConfig, flagEnvFile)
			if err != nil {
				return err
			}
			if err := setupLogger(cfg, flagLogLevel, flagVerbose); err != nil {
				return err
			}
			a.cfg = cfg
			return nil
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	pf.StringVar(&flagEnvFile, "env-file", ".env", "Path to a .env file (ignored if missing)")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.BoolVar(&flagVerbose, "verbose", false, "Enable verbose logging and output")

	cmd.AddCommand(
		newServeCmd(a),
		newNewsCmd(a),
		newFeedCmd(a),
		newArticleCmd(a),
		newLookupCmd(a),
		newSyncCmd(a),
	)

	return cmd
}

func addFormatFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagFormat, "format", "text", "Output format: text or json")
}

func newServeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			gin.SetMode(gin.ReleaseMode)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv, err := a.server(ctx)
			if err != nil {
				return err
			}
			return srv.Run(ctx)
		},
	}
}

func newNewsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news",
		Short: "List news sections from the home page or a category page",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseFormat(strings.ToLower(flagFormat))
			if err != nil {
				return err
			}
			sc, err := a.scraper()
			if err != nil {
				return err
			}

			if flagVerbose {
				fmt.Fprintf(os.Stderr, "Fetching news from %s\n", sc.BaseURL())
			}

			fetch := sc.FetchNews
			if flagCategory != "" {
				fetch = func(ctx context.Context) ([]news.CategorySection, error) {
					return sc.FetchCategory(ctx, flagCategory)
				}
			}

			sections, err := fetch(cmd.Context())
			if err != nil {
				return err
			}
			if err := WriteSections(cmd.OutOrStdout(), sections, format, flagVerbose); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			if len(sections) == 0 {
				return errNoResults
			}
			return nil
		},
	}
	addFormatFlag(cmd)
	cmd.Flags().StringVar(&flagCategory, "category", "", "Site path to list instead of the home page (e.g. skills)")
	return cmd
}

func newFeedCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "List recent articles from the RSS feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseFormat(strings.ToLower(flagFormat))
			if err != nil {
				return err
			}
			sc, err := a.scraper()
			if err != nil {
				return err
			}

			articles, err := sc.FetchFeed(cmd.Context())
			if err != nil {
				return err
			}
			if err := WriteArticles(cmd.OutOrStdout(), articles, format, flagVerbose); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			if len(articles) == 0 {
				return errNoResults
			}
			return nil
		},
	}
	addFormatFlag(cmd)
	return cmd
}

func newArticleCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "article",
		Short: "Print the content of one article",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseFormat(strings.ToLower(flagFormat))
			if err != nil {
				return err
			}
			sc, err := a.scraper()
			if err != nil {
				return err
			}
			if !sc.ValidArticleURL(flagURL) {
				return fmt.Errorf("invalid article URL %q: must start with %s", flagURL, sc.BaseURL())
			}

			detail, err := sc.FetchArticle(cmd.Context(), flagURL)
			if err != nil {
				return err
			}
			return WriteArticle(cmd.OutOrStdout(), detail, format)
		},
	}
	addFormatFlag(cmd)
	cmd.Flags().StringVar(&flagURL, "url", "", "Article URL (required)")
	cmd.MarkFlagRequired("url")
	return cmd
}

func newLookupCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Find a volunteer's activities and certificates",
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := ParseFormat(strings.ToLower(flagFormat))
			if err != nil {
				return err
			}
			if strings.TrimSpace(flagName) == "" || strings.TrimSpace(flagID) == "" {
				return fmt.Errorf("--name and --id must not be empty")
			}

			matcher, _, _ := a.records(cmd.Context())

			result := records.NewResult()
			if flagType != "" {
				t, err := records.ParseRecordType(flagType)
				if err != nil {
					return err
				}
				recs, err := matcher.LookupType(cmd.Context(), t, flagName, flagID)
				if err != nil {
					return err
				}
				if t == records.TypeActivity {
					result.Activities = recs
				} else {
					result.Certificates = recs
				}
			} else {
				result, err = matcher.Lookup(cmd.Context(), flagName, flagID)
				if err != nil {
					return err
				}
			}

			if err := WriteRecords(cmd.OutOrStdout(), result, format); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			if result.Empty() {
				return errNoResults
			}
			return nil
		},
	}
	addFormatFlag(cmd)
	cmd.Flags().StringVar(&flagName, "name", "", "Full name (required)")
	cmd.Flags().StringVar(&flagID, "id", "", "Citizen ID / CCCD (required)")
	cmd.Flags().StringVar(&flagType, "type", "", "Only search one dataset: activity or certificate")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("id")
	return cmd
}

func newSyncCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Copy the Google Sheets datasets into the CSV data directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			rc := a.cfg.Records

			client, err := a.sheets(cmd.Context(), false)
			if err != nil {
				return err
			}
			store, err := storage.New(rc.DataDir)
			if err != nil {
				return fmt.Errorf("initializing storage: %w", err)
			}

			for name, sheetID := range map[string]string{
				activityDataset:    rc.ActivitySheetID,
				certificateDataset: rc.CertificateSheetID,
			} {
				rows, err := client.Rows(cmd.Context(), sheetID)
				if err != nil {
					return err
				}
				if _, err := records.NewTable(name, rows); err != nil {
					return err
				}
				if err := store.WriteRows(name, rows); err != nil {
					return err
				}
				logger.Info("Synced dataset", logger.Fields{"dataset": name, "rows": len(rows), "path": store.Path(name)})
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %d rows -> %s\n", name, max(len(rows)-1, 0), store.Path(name))
			}
			return nil
		},
	}
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		if errors.Is(err, errNoResults) {
			os.Exit(ExitNoResults)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
