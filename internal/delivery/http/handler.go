package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/infrastructure/session"
	"github.com/pricelens/backend/internal/logger"
	"github.com/pricelens/backend/internal/usecase"
)

// SessionHeader identifies the workflow session a request belongs to. The
// server issues an ID on the first request and echoes the effective ID on
// every response; an expired or unknown ID silently gets a fresh session.
const SessionHeader = "X-Session-ID"

// Handler holds dependencies for HTTP handlers
type Handler struct {
	sessions *session.Store
	log      logger.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(sessions *session.Store, log logger.Logger) *Handler {
	return &Handler{
		sessions: sessions,
		log:      log,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"service":  "pricelens-backend",
		"version":  "1.0.0",
		"sessions": h.sessions.Size(),
	})
}

// workflow resolves the request's session and advertises its ID on the
// response.
func (h *Handler) workflow(c *gin.Context) *usecase.Workflow {
	id, workflow := h.sessions.GetOrCreate(c.GetHeader(SessionHeader))
	c.Header(SessionHeader, id)
	return workflow
}

// Analyze runs feature extraction for the posted input.
func (h *Handler) Analyze(c *gin.Context) {
	var input domain.SearchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	workflow := h.workflow(c)
	result, err := workflow.Analyze(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetLivePrices runs a live-price search for the posted input, enriched with
// any previously extracted features.
func (h *Handler) GetLivePrices(c *gin.Context) {
	var input domain.SearchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	workflow := h.workflow(c)
	result, err := workflow.GetLivePrices(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// AnalyzeAndPrice runs the chained workflow: analysis, then a live-price
// search when analysis succeeded.
func (h *Handler) AnalyzeAndPrice(c *gin.Context) {
	var input domain.SearchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	workflow := h.workflow(c)
	analysis, live, err := workflow.AnalyzeAndPrice(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"analysis":    analysis,
		"live_prices": live,
	})
}

// SearchByImage runs an image-similarity product search.
func (h *Handler) SearchByImage(c *gin.Context) {
	var input domain.SearchInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	workflow := h.workflow(c)
	result, err := workflow.SearchByImage(c.Request.Context(), input)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// filterRequest is the payload for applying a price threshold filter.
type filterRequest struct {
	Threshold float64 `json:"threshold"`
}

// ApplyFilter filters the current live-price result by a target price.
func (h *Handler) ApplyFilter(c *gin.Context) {
	var req filterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	workflow := h.workflow(c)
	filtered, err := workflow.ApplyPriceFilter(req.Threshold)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"threshold":         req.Threshold,
		"filtered_products": filtered,
		"price_stats":       usecase.ComputePriceStats(filtered),
	})
}

// ClearFilter removes the active price filter and returns the restored state.
func (h *Handler) ClearFilter(c *gin.Context) {
	workflow := h.workflow(c)
	workflow.ClearPriceFilter()
	c.JSON(http.StatusOK, workflow.Snapshot())
}

// Clear resets the session's workflow to its initial state.
func (h *Handler) Clear(c *gin.Context) {
	workflow := h.workflow(c)
	workflow.Clear()
	c.JSON(http.StatusOK, workflow.Snapshot())
}

// State returns the session's current workflow snapshot.
func (h *Handler) State(c *gin.Context) {
	workflow := h.workflow(c)
	c.JSON(http.StatusOK, workflow.Snapshot())
}
