package usecase

import (
	"context"
	"errors"
	"sync"

	"github.com/pricelens/backend/internal/domain"
	"github.com/pricelens/backend/internal/logger"
)

// Tab identifies the result view the presentation layer should show.
type Tab string

const (
	TabAnalysis    Tab = "analysis"
	TabPrices      Tab = "prices"
	TabImageSearch Tab = "image-search"
)

// WorkflowState is the snapshot the presentation layer renders. Statistics
// are recomputed over the currently displayed product set on every snapshot;
// there is no cached statistics object to go stale.
//
// FilteredProducts is nil when no filter is active ("show unfiltered") and an
// empty slice when a filter is active but matched nothing — the two cases are
// distinct and both valid.
type WorkflowState struct {
	Analyzing        bool                      `json:"analyzing"`
	Pricing          bool                      `json:"pricing"`
	ImageSearching   bool                      `json:"image_searching"`
	ActiveTab        Tab                       `json:"active_tab"`
	Analysis         *domain.AnalysisResult    `json:"analysis,omitempty"`
	LivePrices       *domain.LivePriceResult   `json:"live_prices,omitempty"`
	ImageSearch      *domain.ImageSearchResult `json:"image_search,omitempty"`
	Threshold        float64                   `json:"threshold"`
	FilteredProducts []domain.Product          `json:"filtered_products"`
	PriceStats       *domain.PriceStatistics   `json:"price_stats,omitempty"`
	LastError        string                    `json:"last_error,omitempty"`
}

// Workflow orchestrates the three independent operations of one session:
// feature analysis, live-price search, and image search. Each operation is
// Idle -> Running -> {Succeeded, Failed} and returns to Idle on its next
// invocation; the three busy flags are independent and may overlap.
//
// Every invocation is tagged with a per-operation generation. Result
// assignment is last-write-wins per operation: a response whose generation
// has been superseded (by a newer call or by Clear) is discarded on arrival.
// In-flight calls are never cancelled.
type Workflow struct {
	analyzer domain.FeatureAnalyzer
	prices   domain.PriceSearcher
	images   domain.ImageSearcher
	builder  *QueryBuilder
	log      logger.Logger

	mu             sync.Mutex
	analyzing      bool
	pricing        bool
	imageSearching bool
	analyzeGen     uint64
	priceGen       uint64
	imageGen       uint64

	analysis    *domain.AnalysisResult
	livePrices  *domain.LivePriceResult
	imageSearch *domain.ImageSearchResult
	activeTab   Tab
	threshold   float64
	filtered    []domain.Product
	lastError   string
}

// NewWorkflow creates a workflow with its external collaborators.
func NewWorkflow(
	analyzer domain.FeatureAnalyzer,
	prices domain.PriceSearcher,
	images domain.ImageSearcher,
	builder *QueryBuilder,
	log logger.Logger,
) *Workflow {
	return &Workflow{
		analyzer:  analyzer,
		prices:    prices,
		images:    images,
		builder:   builder,
		log:       log,
		activeTab: TabAnalysis,
	}
}

// Analyze runs feature extraction over the method-gated raw input. On success
// the feature set replaces any prior one and the analysis tab is revealed; on
// failure the error message is stored and the prior feature set is left
// untouched. Input errors are returned before any external call.
func (w *Workflow) Analyze(ctx context.Context, input domain.SearchInput) (*domain.AnalysisResult, error) {
	if _, _, err := selectInputs(input); err != nil {
		w.storeError(err.Error())
		return nil, err
	}

	gen := w.begin(&w.analyzing, &w.analyzeGen)

	result, err := w.analyzer.Analyze(ctx, input)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.analyzeGen {
		w.log.Debug("discarding superseded analysis result", map[string]interface{}{"generation": gen})
		return staleAnalysis(result, err), nil
	}
	w.analyzing = false

	if err != nil {
		msg := failureMessage(err, "product analysis")
		w.lastError = msg
		w.log.Warn("analysis call failed", map[string]interface{}{"error": err.Error()})
		return &domain.AnalysisResult{Success: false, ErrorMessage: msg}, nil
	}
	if !result.Success {
		w.lastError = result.ErrorMessage
		return result, nil
	}

	w.analysis = result
	w.activeTab = TabAnalysis
	w.lastError = ""
	return result, nil
}

// GetLivePrices runs a live-price search, attaching the current extracted
// feature set when a prior analysis succeeded. On success the result replaces
// the previous one wholesale, any active price filter is cleared, and the
// prices tab becomes active. On failure a degraded empty result is stored so
// presentation code always has a consistent shape to render.
func (w *Workflow) GetLivePrices(ctx context.Context, input domain.SearchInput) (*domain.LivePriceResult, error) {
	req, err := w.builder.BuildLivePriceRequest(input, w.currentFeatures())
	if err != nil {
		w.storeError(err.Error())
		return nil, err
	}

	gen := w.begin(&w.pricing, &w.priceGen)

	result, callErr := w.prices.SearchLivePrices(ctx, *req)

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.priceGen {
		w.log.Debug("discarding superseded live price result", map[string]interface{}{"generation": gen})
		return staleLivePrices(result, callErr), nil
	}
	w.pricing = false

	if callErr != nil || !result.Success {
		msg := ""
		if callErr != nil {
			msg = failureMessage(callErr, "live price search")
			w.log.Warn("live price call failed", map[string]interface{}{"error": callErr.Error()})
		} else {
			msg = result.ErrorMessage
		}
		degraded := &domain.LivePriceResult{
			Success:      false,
			Products:     []domain.Product{},
			TotalFound:   0,
			ErrorMessage: msg,
		}
		w.livePrices = degraded
		w.threshold = 0
		w.filtered = nil
		w.lastError = msg
		return degraded, nil
	}

	w.livePrices = result
	w.threshold = 0
	w.filtered = nil
	w.activeTab = TabPrices
	w.lastError = ""
	return result, nil
}

// AnalyzeAndPrice is the chained workflow variant: analysis first, then a
// live-price search only if analysis succeeded. When analysis fails the
// price-search operation never starts and its state stays idle.
func (w *Workflow) AnalyzeAndPrice(ctx context.Context, input domain.SearchInput) (*domain.AnalysisResult, *domain.LivePriceResult, error) {
	analysis, err := w.Analyze(ctx, input)
	if err != nil {
		return nil, nil, err
	}
	if !analysis.Success {
		return analysis, nil, nil
	}

	live, err := w.GetLivePrices(ctx, input)
	if err != nil {
		return analysis, nil, err
	}
	return analysis, live, nil
}

// SearchByImage runs an image-similarity search. An uploaded image is a hard
// precondition; text-only input is rejected before any external call. On
// success the result replaces the previous one and the image-search tab
// becomes active; on failure the prior result is left untouched.
func (w *Workflow) SearchByImage(ctx context.Context, input domain.SearchInput) (*domain.ImageSearchResult, error) {
	if input.ImageBase64 == "" {
		w.storeError(domain.ErrMissingInput.Error())
		return nil, domain.ErrMissingInput
	}

	gen := w.begin(&w.imageSearching, &w.imageGen)

	result, err := w.images.SearchByImage(ctx, domain.ImageSearchRequest{
		ImageBase64: input.ImageBase64,
		MaxResults:  w.builder.MaxResults(),
	})

	w.mu.Lock()
	defer w.mu.Unlock()
	if gen != w.imageGen {
		w.log.Debug("discarding superseded image search result", map[string]interface{}{"generation": gen})
		return staleImageSearch(result, err), nil
	}
	w.imageSearching = false

	if err != nil {
		msg := failureMessage(err, "image search")
		w.lastError = msg
		w.log.Warn("image search call failed", map[string]interface{}{"error": err.Error()})
		return &domain.ImageSearchResult{Success: false, ErrorMessage: msg}, nil
	}
	if !result.Success {
		w.lastError = result.ErrorMessage
		return result, nil
	}

	w.imageSearch = result
	w.activeTab = TabImageSearch
	w.lastError = ""
	return result, nil
}

// ApplyPriceFilter applies a threshold filter to the current live-price
// products. An invalid threshold or missing result set leaves the displayed
// set untouched and reports an input error.
func (w *Workflow) ApplyPriceFilter(threshold float64) ([]domain.Product, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.livePrices == nil || !w.livePrices.Success {
		w.lastError = domain.ErrNoLiveResults.Error()
		return nil, domain.ErrNoLiveResults
	}

	filtered, err := FilterByThreshold(w.livePrices.Products, threshold)
	if err != nil {
		w.lastError = err.Error()
		return nil, err
	}

	w.threshold = threshold
	w.filtered = filtered
	w.lastError = ""
	return filtered, nil
}

// ClearPriceFilter removes the active threshold filter, restoring the
// unfiltered view.
func (w *Workflow) ClearPriceFilter() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.threshold = 0
	w.filtered = nil
}

// Clear resets all results, the filter, and the active tab. Generation
// counters are bumped so responses still in flight are discarded when they
// eventually arrive.
func (w *Workflow) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.analyzeGen++
	w.priceGen++
	w.imageGen++
	w.analyzing = false
	w.pricing = false
	w.imageSearching = false

	w.analysis = nil
	w.livePrices = nil
	w.imageSearch = nil
	w.threshold = 0
	w.filtered = nil
	w.activeTab = TabAnalysis
	w.lastError = ""
}

// Snapshot returns the current workflow state for the presentation layer,
// with price statistics recomputed over whatever product set is displayed
// (the filtered subset when a filter is active, the full result otherwise).
func (w *Workflow) Snapshot() WorkflowState {
	w.mu.Lock()
	defer w.mu.Unlock()

	var displayed []domain.Product
	if w.filtered != nil {
		displayed = w.filtered
	} else if w.livePrices != nil && w.livePrices.Success {
		displayed = w.livePrices.Products
	}

	return WorkflowState{
		Analyzing:        w.analyzing,
		Pricing:          w.pricing,
		ImageSearching:   w.imageSearching,
		ActiveTab:        w.activeTab,
		Analysis:         w.analysis,
		LivePrices:       w.livePrices,
		ImageSearch:      w.imageSearch,
		Threshold:        w.threshold,
		FilteredProducts: w.filtered,
		PriceStats:       ComputePriceStats(displayed),
		LastError:        w.lastError,
	}
}

// begin marks an operation busy and returns its new generation tag.
func (w *Workflow) begin(busy *bool, gen *uint64) uint64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	*busy = true
	*gen++
	return *gen
}

func (w *Workflow) currentFeatures() *domain.ExtractedFeatures {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.analysis == nil || !w.analysis.Success {
		return nil
	}
	return w.analysis.Features
}

func (w *Workflow) storeError(msg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.lastError = msg
}

// failureMessage maps boundary errors to the message shown to the user.
// Network failures get a generic connectivity message; everything else is a
// service failure.
func failureMessage(err error, operation string) string {
	if errors.Is(err, domain.ErrNetwork) {
		return "could not connect to the " + operation + " service"
	}
	return operation + " failed: " + err.Error()
}

// stale* build the envelope returned to a caller whose result arrived after
// its generation was superseded; workflow state is left untouched.

func staleAnalysis(result *domain.AnalysisResult, err error) *domain.AnalysisResult {
	if err != nil {
		return &domain.AnalysisResult{Success: false, ErrorMessage: failureMessage(err, "product analysis")}
	}
	return result
}

func staleLivePrices(result *domain.LivePriceResult, err error) *domain.LivePriceResult {
	if err != nil {
		return &domain.LivePriceResult{Success: false, Products: []domain.Product{}, ErrorMessage: failureMessage(err, "live price search")}
	}
	return result
}

func staleImageSearch(result *domain.ImageSearchResult, err error) *domain.ImageSearchResult {
	if err != nil {
		return &domain.ImageSearchResult{Success: false, ErrorMessage: failureMessage(err, "image search")}
	}
	return result
}
