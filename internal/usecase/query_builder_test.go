package usecase

import (
	"errors"
	"testing"

	"github.com/pricelens/backend/internal/domain"
)

func TestNewQueryBuilder(t *testing.T) {
	t.Run("uses provided cap", func(t *testing.T) {
		b := NewQueryBuilder(25)
		if b.MaxResults() != 25 {
			t.Errorf("MaxResults() = %d, want 25", b.MaxResults())
		}
	})

	t.Run("falls back to default cap", func(t *testing.T) {
		b := NewQueryBuilder(0)
		if b.MaxResults() != defaultMaxResults {
			t.Errorf("MaxResults() = %d, want %d", b.MaxResults(), defaultMaxResults)
		}
	})
}

func TestBuildLivePriceRequest(t *testing.T) {
	b := NewQueryBuilder(10)

	t.Run("text method includes only text", func(t *testing.T) {
		input := domain.SearchInput{
			Method:          domain.MethodText,
			TextDescription: "brushed nickel pendant light",
			ImageBase64:     "aW1hZ2U=",
		}

		req, err := b.BuildLivePriceRequest(input, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.TextDescription != "brushed nickel pendant light" {
			t.Errorf("TextDescription = %q", req.TextDescription)
		}
		if req.ImageBase64 != "" {
			t.Error("ImageBase64 should be omitted for the text method")
		}
	})

	t.Run("image method includes only image", func(t *testing.T) {
		input := domain.SearchInput{
			Method:          domain.MethodImage,
			TextDescription: "ignored",
			ImageBase64:     "aW1hZ2U=",
		}

		req, err := b.BuildLivePriceRequest(input, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.TextDescription != "" {
			t.Error("TextDescription should be omitted for the image method")
		}
		if req.ImageBase64 != "aW1hZ2U=" {
			t.Errorf("ImageBase64 = %q", req.ImageBase64)
		}
	})

	t.Run("refuses when required input is missing", func(t *testing.T) {
		tests := []struct {
			name  string
			input domain.SearchInput
		}{
			{"text method without text", domain.SearchInput{Method: domain.MethodText, ImageBase64: "aW1hZ2U="}},
			{"image method without image", domain.SearchInput{Method: domain.MethodImage, TextDescription: "desk lamp"}},
			{"both method with only text", domain.SearchInput{Method: domain.MethodBoth, TextDescription: "desk lamp"}},
			{"whitespace-only text", domain.SearchInput{Method: domain.MethodText, TextDescription: "   "}},
			{"nothing at all", domain.SearchInput{}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := b.BuildLivePriceRequest(tt.input, nil)
				if !errors.Is(err, domain.ErrMissingInput) {
					t.Errorf("error = %v, want ErrMissingInput", err)
				}
			})
		}
	})

	t.Run("always sets cap and stats flag", func(t *testing.T) {
		input := domain.SearchInput{Method: domain.MethodText, TextDescription: "desk lamp"}

		req, err := b.BuildLivePriceRequest(input, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.MaxResults != 10 {
			t.Errorf("MaxResults = %d, want 10", req.MaxResults)
		}
		if !req.IncludePriceStats {
			t.Error("IncludePriceStats = false, want true")
		}
	})

	t.Run("attaches extracted features when present", func(t *testing.T) {
		input := domain.SearchInput{Method: domain.MethodText, TextDescription: "pendant light"}
		features := &domain.ExtractedFeatures{
			Brand:       "Globe Electric",
			ProductType: "pendant light",
			Color:       "matte black",
			Category:    "lighting",
			KeyFeatures: []string{"dimmable", "adjustable cord"},
			Specifications: map[string]string{
				"Light Source Type": "LED",
				"Finish":            "matte",
			},
		}

		req, err := b.BuildLivePriceRequest(input, features)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.Brand != "Globe Electric" {
			t.Errorf("Brand = %q", req.Brand)
		}
		if req.ProductType != "pendant light" {
			t.Errorf("ProductType = %q", req.ProductType)
		}
		if len(req.KeyFeatures) != 2 {
			t.Errorf("KeyFeatures = %v, want 2 entries", req.KeyFeatures)
		}
		if req.Specifications["Finish"] != "matte" {
			t.Errorf("Specifications = %v", req.Specifications)
		}
	})

	t.Run("empty feature collections stay omitted", func(t *testing.T) {
		input := domain.SearchInput{Method: domain.MethodText, TextDescription: "pendant light"}
		features := &domain.ExtractedFeatures{
			ProductType:    "pendant light",
			KeyFeatures:    []string{},
			Specifications: map[string]string{},
		}

		req, err := b.BuildLivePriceRequest(input, features)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.KeyFeatures != nil {
			t.Errorf("KeyFeatures = %v, want nil", req.KeyFeatures)
		}
		if req.Specifications != nil {
			t.Errorf("Specifications = %v, want nil", req.Specifications)
		}
	})

	t.Run("nil features still builds a raw-input request", func(t *testing.T) {
		input := domain.SearchInput{Method: domain.MethodText, TextDescription: "pendant light"}

		req, err := b.BuildLivePriceRequest(input, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if req.Brand != "" || req.ProductType != "" {
			t.Errorf("feature fields should be empty, got %+v", req)
		}
	})
}
