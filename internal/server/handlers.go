package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/matheuskafuri/jsweekly/internal/cache"
	"github.com/matheuskafuri/jsweekly/internal/issue"
	"github.com/matheuskafuri/jsweekly/internal/reader"
)

type Resolver interface {
	Resolve(ctx context.Context, id string) (*cache.Issue, error)
	Latest(ctx context.Context) (*cache.Issue, error)
}

type Sampler interface {
	Sample(ctx context.Context, count int) ([]cache.Article, error)
}

// Handlers serves the JSON API. FetchFailed is the body value used when a
// resolve error carries no placeholder of its own.
type Handlers struct {
	Resolver    Resolver
	Sampler     Sampler
	Reader      reader.Reader
	FetchFailed string
}

// Register mounts every route on r.
func (h *Handlers) Register(r gin.IRoutes) {
	r.GET("/latest", h.latest)
	r.GET("/issue/:issuenumber", h.issue)
	r.GET("/random/:count", h.random)
	r.GET("/getHTML", h.getHTML)
	r.GET("/healthz", h.health)
}

func (h *Handlers) latest(c *gin.Context) {
	found, err := h.Resolver.Latest(c.Request.Context())
	h.respondIssue(c, found, err)
}

func (h *Handlers) issue(c *gin.Context) {
	found, err := h.Resolver.Resolve(c.Request.Context(), c.Param("issuenumber"))
	h.respondIssue(c, found, err)
}

// respondIssue answers fetch failures with 200 and the placeholder, never
// the underlying error.
func (h *Handlers) respondIssue(c *gin.Context, found *cache.Issue, err error) {
	if err != nil {
		_ = c.Error(err)
		msg := h.FetchFailed
		var re *issue.ResolveError
		if errors.As(err, &re) && re.Placeholder != "" {
			msg = re.Placeholder
		}
		c.JSON(http.StatusOK, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, found)
}

func (h *Handlers) random(c *gin.Context) {
	count, err := strconv.Atoi(c.Param("count"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid count"})
		return
	}
	articles, err := h.Sampler.Sample(c.Request.Context(), count)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to read cache"})
		return
	}
	c.JSON(http.StatusOK, articles)
}

func (h *Handlers) getHTML(c *gin.Context) {
	pageURL := c.Query("url")
	if pageURL == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": reader.ErrMissingURL.Error()})
		return
	}
	page, err := h.Reader.Read(c.Request.Context(), pageURL)
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusOK, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
