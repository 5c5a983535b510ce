package usecase

import (
	"strings"

	"github.com/pricelens/backend/internal/domain"
)

// defaultMaxResults caps a live-price search when no cap is configured.
const defaultMaxResults = 10

// QueryBuilder assembles live-price search payloads from raw user input and
// a previously extracted feature set.
type QueryBuilder struct {
	maxResults int
}

// NewQueryBuilder creates a query builder with the given result cap.
func NewQueryBuilder(maxResults int) *QueryBuilder {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	return &QueryBuilder{maxResults: maxResults}
}

// BuildLivePriceRequest builds the payload for the live-price search call.
// Raw inputs are gated by the selected extraction method: fields the method
// does not select are omitted even when present. When a completed analysis is
// supplied, every non-empty extracted scalar, the key-features list, and the
// specifications map are attached individually so the downstream service can
// tell "not provided" apart from "provided but empty". The result cap and the
// price-statistics flag are always set.
//
// Returns ErrMissingInput when the method requires input that was not
// supplied; no request payload is produced in that case.
func (b *QueryBuilder) BuildLivePriceRequest(input domain.SearchInput, features *domain.ExtractedFeatures) (*domain.LivePriceRequest, error) {
	text, image, err := selectInputs(input)
	if err != nil {
		return nil, err
	}

	req := &domain.LivePriceRequest{
		TextDescription:   text,
		ImageBase64:       image,
		MaxResults:        b.maxResults,
		IncludePriceStats: true,
	}

	if features != nil {
		req.Brand = features.Brand
		req.Model = features.Model
		req.ProductType = features.ProductType
		req.Color = features.Color
		req.Size = features.Size
		req.Material = features.Material
		req.Style = features.Style
		req.Category = features.Category
		if len(features.KeyFeatures) > 0 {
			req.KeyFeatures = features.KeyFeatures
		}
		if len(features.Specifications) > 0 {
			req.Specifications = features.Specifications
		}
	}

	return req, nil
}

// MaxResults reports the configured result cap.
func (b *QueryBuilder) MaxResults() int {
	return b.maxResults
}

// selectInputs applies the extraction method gate to the raw inputs and
// verifies that everything the method requires is present.
func selectInputs(input domain.SearchInput) (text, image string, err error) {
	text = strings.TrimSpace(input.TextDescription)
	image = input.ImageBase64

	switch input.Method {
	case domain.MethodText:
		if text == "" {
			return "", "", domain.ErrMissingInput
		}
		return text, "", nil
	case domain.MethodImage:
		if image == "" {
			return "", "", domain.ErrMissingInput
		}
		return "", image, nil
	case domain.MethodBoth:
		if text == "" || image == "" {
			return "", "", domain.ErrMissingInput
		}
		return text, image, nil
	default:
		// Unknown method behaves like "both with whatever is present",
		// but at least one input is still required.
		if text == "" && image == "" {
			return "", "", domain.ErrMissingInput
		}
		return text, image, nil
	}
}
