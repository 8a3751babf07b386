package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	searchapp "github.com/shopscout/backend/internal/application/search"
	"github.com/shopscout/backend/internal/domain/search"
	"github.com/shopscout/backend/internal/interfaces/http/dto"
)

// CallerTokenHeader carries the opaque caller token forwarded to providers
const CallerTokenHeader = "X-Caller-Token"

// SearchHandler serves the aggregated search API
type SearchHandler struct {
	BaseHandler
	service      *searchapp.Service
	debugEnabled bool
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(service *searchapp.Service, debugEnabled bool) *SearchHandler {
	return &SearchHandler{service: service, debugEnabled: debugEnabled}
}

// SearchHTTPRequest is the query string of GET /search.
// An empty q is not a binding error; the service reports it as EMPTY_QUERY.
type SearchHTTPRequest struct {
	Query   string `form:"q" binding:"max=512"`
	Limit   int    `form:"limit" binding:"omitempty,min=1"`
	Country string `form:"country" binding:"omitempty,len=2,alpha"`
	State   string `form:"state" binding:"omitempty,max=64"`
	City    string `form:"city" binding:"omitempty,max=128"`
}

// HistoryHTTPRequest is the query string of GET /search/history
type HistoryHTTPRequest struct {
	Limit int `form:"limit" binding:"omitempty,min=1,max=50"`
}

// ProviderURI is the path parameter of provider management routes
type ProviderURI struct {
	Name string `uri:"name" binding:"required,max=32"`
}

// Search runs an aggregated search across every enabled provider
func (h *SearchHandler) Search(c *gin.Context) {
	var req SearchHTTPRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}

	result, err := h.service.Search(c.Request.Context(), searchapp.SearchQuery{
		Query: req.Query,
		Limit: req.Limit,
		Region: search.Region{
			Country: req.Country,
			State:   req.State,
			City:    req.City,
		},
		CallerToken: c.GetHeader(CallerTokenHeader),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Debug reports the registry state and runs a trial search when q is set
func (h *SearchHandler) Debug(c *gin.Context) {
	if !h.debugEnabled {
		h.ErrorWithCode(c, dto.ErrCodeDebugDisabled, "Debug endpoint is disabled")
		return
	}
	report, err := h.service.Debug(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// CacheStats returns the result cache counters
func (h *SearchHandler) CacheStats(c *gin.Context) {
	h.Success(c, h.service.CacheStats())
}

// History lists recent searches
func (h *SearchHandler) History(c *gin.Context) {
	var req HistoryHTTPRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.ValidationError(c, err)
		return
	}
	entries, err := h.service.RecentSearches(c.Request.Context(), req.Limit)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entries)
}

// ListProviders returns the status of every registered provider
func (h *SearchHandler) ListProviders(c *gin.Context) {
	h.Success(c, h.service.Providers())
}

// RefreshProviders re-evaluates providers from configuration and stored credentials
func (h *SearchHandler) RefreshProviders(c *gin.Context) {
	statuses, err := h.service.RefreshProviders(c.Request.Context())
	if err != nil {
		h.ErrorWithCode(c, dto.ErrCodeCredentialStore, err.Error())
		return
	}
	h.Success(c, statuses)
}

// EnableProvider turns a provider on
func (h *SearchHandler) EnableProvider(c *gin.Context) {
	h.toggle(c, h.service.EnableProvider)
}

// DisableProvider turns a provider off
func (h *SearchHandler) DisableProvider(c *gin.Context) {
	h.toggle(c, h.service.DisableProvider)
}

func (h *SearchHandler) toggle(c *gin.Context, fn func(context.Context, search.ProviderID) (searchapp.ProviderStatus, error)) {
	var uri ProviderURI
	if err := c.ShouldBindUri(&uri); err != nil {
		h.ValidationError(c, err)
		return
	}
	id, ok := search.ParseProviderID(uri.Name)
	if !ok {
		h.ErrorWithCode(c, dto.ErrCodeUnknownProvider, "Unknown provider: "+uri.Name)
		return
	}
	status, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// RegisterRoutes registers the search routes on the versioned API group
func (h *SearchHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/search")
	g.GET("", h.Search)
	g.GET("/cache/stats", h.CacheStats)
	g.GET("/history", h.History)
	g.GET("/providers", h.ListProviders)
	g.POST("/providers/refresh", h.RefreshProviders)
	g.POST("/providers/:name/enable", h.EnableProvider)
	g.POST("/providers/:name/disable", h.DisableProvider)

	rg.GET("/debug/search", h.Debug)
}
