package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/govolunteer/govolunteer-api/internal/cache"
	"github.com/govolunteer/govolunteer-api/internal/logger"
	"github.com/govolunteer/govolunteer-api/internal/news"
	"github.com/govolunteer/govolunteer-api/internal/records"
)

const shutdownTimeout = 10 * time.Second

// NewsService fetches site content.
type NewsService interface {
	FetchNews(ctx context.Context) ([]news.CategorySection, error)
	FetchCategory(ctx context.Context, path string) ([]news.CategorySection, error)
	FetchFeed(ctx context.Context) ([]news.ArticleSummary, error)
	FetchArticle(ctx context.Context, url string) (*news.ArticleDetail, error)
	ValidArticleURL(url string) bool
}

// LookupService matches volunteers against the datasets.
type LookupService interface {
	Lookup(ctx context.Context, fullName, id string) (*records.Result, error)
	LookupType(ctx context.Context, t records.RecordType, fullName, id string) ([]records.Record, error)
}

// PDFMarker flags a certificate row as having requested a PDF.
type PDFMarker interface {
	MarkPDFRequested(ctx context.Context, ref, fullName, id, email string) (bool, error)
}

// DefaultCategoryPages maps API routes to site paths listed like the home page.
var DefaultCategoryPages = map[string]string{
	"/clubs":                         "/clubs/",
	"/chuong-trinh-chien-dich-du-an": "/chuong-trinh-chien-dich-du-an/",
	"/skills":                        "/skills/",
	"/ideas":                         "/ideas/",
}

// Config configures a Server.
type Config struct {
	Addr     string
	CacheTTL time.Duration
	// CertificateRef locates the certificate dataset for PDF requests.
	CertificateRef string
	CategoryPages  map[string]string
}

// Server is the HTTP API.
type Server struct {
	cfg    Config
	news   NewsService
	lookup LookupService
	marker PDFMarker
	cache  *cache.Cache[string, []news.CategorySection]
	engine *gin.Engine
}

// New builds the router. marker may be nil, which disables /request-pdf.
func New(cfg Config, newsSvc NewsService, lookup LookupService, marker PDFMarker) *Server {
	if cfg.CategoryPages == nil {
		cfg.CategoryPages = DefaultCategoryPages
	}

	s := &Server{
		cfg:    cfg,
		news:   newsSvc,
		lookup: lookup,
		marker: marker,
		cache:  cache.New[string, []news.CategorySection](cfg.CacheTTL),
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.CustomRecovery(recoverPanic))
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{http.MethodGet, http.MethodPost},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders:   []string{requestIDHeader},
		MaxAge:          12 * time.Hour,
	}))
	r.Use(requestID(), accessLog())

	r.GET("/", s.handleRoot)
	r.GET("/news", s.handleNews)
	for route, path := range s.cfg.CategoryPages {
		r.GET(route, s.handleCategory(path))
	}
	r.GET("/feed", s.handleFeed)
	r.GET("/article", s.handleArticle)
	r.POST("/lookup", s.handleLookup)
	r.POST("/find-activities", s.handleFindType(records.TypeActivity))
	r.POST("/find-certificates", s.handleFindType(records.TypeCertificate))
	r.POST("/request-pdf", s.handleRequestPDF)
	r.GET("/metrics", s.handleMetrics)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not Found"})
	})

	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("API server listening", logger.Fields{"addr": s.cfg.Addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down API server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
