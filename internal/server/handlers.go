package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/govolunteer/govolunteer-api/internal/logger"
	"github.com/govolunteer/govolunteer-api/internal/news"
	"github.com/govolunteer/govolunteer-api/internal/records"
	"github.com/govolunteer/govolunteer-api/internal/scraper"
)

const newsCacheKey = "/news"

type lookupRequest struct {
	FullName  string `json:"fullName" binding:"required"`
	CitizenID string `json:"citizenId" binding:"required"`
}

type pdfRequest struct {
	FullName  string `json:"fullName" binding:"required"`
	CitizenID string `json:"citizenId" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "online", "message": "API GoVolunteer đã sẵn sàng!"})
}

func (s *Server) handleNews(c *gin.Context) {
	s.serveSections(c, newsCacheKey, s.news.FetchNews, "Không thể lấy dữ liệu tin tức.")
}

func (s *Server) handleCategory(path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		fetch := func(ctx context.Context) ([]news.CategorySection, error) {
			return s.news.FetchCategory(ctx, path)
		}
		s.serveSections(c, path, fetch, "Không thể lấy dữ liệu chuyên mục.")
	}
}

// serveSections answers from the cache or fetches and caches a non-empty
// result. Empty results are returned but not cached.
func (s *Server) serveSections(c *gin.Context, key string, fetch func(context.Context) ([]news.CategorySection, error), detail string) {
	if sections, ok := s.cache.Get(key); ok {
		logger.IncrCounter("cache.hits")
		c.JSON(http.StatusOK, sections)
		return
	}
	logger.IncrCounter("cache.misses")

	sections, err := fetch(c.Request.Context())
	if err != nil {
		abortWithError(c, detail, err)
		return
	}

	if len(sections) == 0 {
		c.JSON(http.StatusOK, []news.CategorySection{})
		return
	}
	s.cache.Set(key, sections)
	c.JSON(http.StatusOK, sections)
}

func (s *Server) handleFeed(c *gin.Context) {
	articles, err := s.news.FetchFeed(c.Request.Context())
	if err != nil {
		abortWithError(c, "Không thể lấy dữ liệu RSS.", err)
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (s *Server) handleArticle(c *gin.Context) {
	url := c.Query("url")
	if !s.news.ValidArticleURL(url) {
		abortWithDetail(c, http.StatusBadRequest, "URL không hợp lệ.")
		return
	}

	detail, err := s.news.FetchArticle(c.Request.Context(), url)
	if err != nil {
		if errors.Is(err, scraper.ErrContentNotFound) {
			abortWithError(c, "Không tìm thấy nội dung bài viết.", err)
			return
		}
		abortWithError(c, "Không thể lấy nội dung bài viết.", err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

func (s *Server) handleLookup(c *gin.Context) {
	var req lookupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithDetail(c, http.StatusBadRequest, "Vui lòng nhập họ tên và CCCD.")
		return
	}

	result, err := s.lookup.Lookup(c.Request.Context(), req.FullName, req.CitizenID)
	if err != nil {
		abortWithError(c, "Lỗi từ dịch vụ dữ liệu.", err)
		return
	}
	if result.Empty() {
		abortWithDetail(c, http.StatusNotFound, "Không tìm thấy hoạt động hay chứng nhận nào phù hợp.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"records": result})
}

func (s *Server) handleFindType(t records.RecordType) gin.HandlerFunc {
	key, notFound := "activities", "Không tìm thấy hoạt động."
	if t == records.TypeCertificate {
		key, notFound = "certificates", "Không tìm thấy chứng nhận."
	}

	return func(c *gin.Context) {
		var req lookupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			abortWithDetail(c, http.StatusBadRequest, "Vui lòng nhập họ tên và CCCD.")
			return
		}

		recs, err := s.lookup.LookupType(c.Request.Context(), t, req.FullName, req.CitizenID)
		if err != nil {
			abortWithError(c, "Lỗi từ dịch vụ dữ liệu.", err)
			return
		}
		if len(recs) == 0 {
			abortWithDetail(c, http.StatusNotFound, notFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{key: recs})
	}
}

func (s *Server) handleRequestPDF(c *gin.Context) {
	if s.marker == nil {
		abortWithDetail(c, http.StatusNotImplemented, "Chức năng yêu cầu PDF chưa được bật.")
		return
	}

	var req pdfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithDetail(c, http.StatusBadRequest, "Vui lòng nhập họ tên, CCCD và email hợp lệ.")
		return
	}

	updated, err := s.marker.MarkPDFRequested(c.Request.Context(), s.cfg.CertificateRef, req.FullName, req.CitizenID, req.Email)
	if err != nil {
		abortWithError(c, "Không thể cập nhật yêu cầu PDF.", err)
		return
	}
	if !updated {
		abortWithDetail(c, http.StatusNotFound, "Không tìm thấy chứng nhận.")
		return
	}

	logger.IncrCounter("pdf.requests")
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

func (s *Server) handleMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, logger.GetMetricsSnapshot())
}
