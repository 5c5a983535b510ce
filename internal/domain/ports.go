package domain

import "context"

// LivePriceRequest is the payload sent to the live-price search service.
// Built by the feature query builder: raw inputs gated by the extraction
// method, plus every non-empty extracted field so the service can distinguish
// "not provided" from "provided but empty".
type LivePriceRequest struct {
	TextDescription   string            `json:"text_description,omitempty"`
	ImageBase64       string            `json:"image_base64,omitempty"`
	Brand             string            `json:"brand,omitempty"`
	Model             string            `json:"model,omitempty"`
	ProductType       string            `json:"product_type,omitempty"`
	Color             string            `json:"color,omitempty"`
	Size              string            `json:"size,omitempty"`
	Material          string            `json:"material,omitempty"`
	Style             string            `json:"style,omitempty"`
	Category          string            `json:"category,omitempty"`
	KeyFeatures       []string          `json:"key_features,omitempty"`
	Specifications    map[string]string `json:"specifications,omitempty"`
	MaxResults        int               `json:"max_results"`
	IncludePriceStats bool              `json:"include_price_stats"`
}

// ImageSearchRequest is the payload sent to the image-similarity search service.
type ImageSearchRequest struct {
	ImageBase64 string `json:"image_base64"`
	MaxResults  int    `json:"max_results"`
}

// FeatureAnalyzer is the boundary to the external AI feature-extraction service.
type FeatureAnalyzer interface {
	Analyze(ctx context.Context, input SearchInput) (*AnalysisResult, error)
}

// PriceSearcher is the boundary to the external live-shopping search service.
type PriceSearcher interface {
	SearchLivePrices(ctx context.Context, req LivePriceRequest) (*LivePriceResult, error)
}

// ImageSearcher is the boundary to the external image-similarity search service.
type ImageSearcher interface {
	SearchByImage(ctx context.Context, req ImageSearchRequest) (*ImageSearchResult, error)
}
