package domain

import (
	"encoding/json"
	"strconv"
)

// PriceKind discriminates the three shapes a retailer price arrives in.
type PriceKind int

const (
	PriceAbsent PriceKind = iota
	PriceNumber
	PriceString
)

// RawPrice holds a price exactly as it arrived from a retailer feed:
// a JSON number, a currency-formatted string, or nothing at all.
// Normalization into a comparable numeric value happens in the usecase layer.
type RawPrice struct {
	Kind  PriceKind
	Value float64 // set when Kind is PriceNumber
	Text  string  // set when Kind is PriceString
}

// NumericPrice builds a RawPrice from a plain number.
func NumericPrice(v float64) RawPrice {
	return RawPrice{Kind: PriceNumber, Value: v}
}

// StringPrice builds a RawPrice from a currency-formatted string.
func StringPrice(s string) RawPrice {
	return RawPrice{Kind: PriceString, Text: s}
}

func (p *RawPrice) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*p = RawPrice{Kind: PriceAbsent}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = RawPrice{Kind: PriceString, Text: s}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = RawPrice{Kind: PriceNumber, Value: v}
	return nil
}

func (p RawPrice) MarshalJSON() ([]byte, error) {
	switch p.Kind {
	case PriceNumber:
		return []byte(strconv.FormatFloat(p.Value, 'f', -1, 64)), nil
	case PriceString:
		return json.Marshal(p.Text)
	default:
		return []byte("null"), nil
	}
}

// Product is one entry from a live-price or image search. Ephemeral: held
// only in the current result set, replaced wholesale on each new search,
// never mutated in place.
type Product struct {
	Title         string   `json:"title"`
	Price         RawPrice `json:"price"`
	OriginalPrice string   `json:"original_price,omitempty"`
	UnitPrice     RawPrice `json:"unit_price"` // null on the wire when absent
	PackQuantity  int      `json:"pack_quantity,omitempty"`
	Link          string   `json:"link,omitempty"`
	Source        string   `json:"source,omitempty"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
	Rating        float64  `json:"rating,omitempty"`
	Reviews       int      `json:"reviews,omitempty"`
	Shipping      string   `json:"shipping,omitempty"`
	MatchScore    float64  `json:"match_score"`
	Position      int      `json:"position,omitempty"`
}

// PriceStatistics are derived aggregates over a displayed product set.
// Always recomputed, never persisted.
type PriceStatistics struct {
	MinPrice    float64 `json:"min_price"`
	MaxPrice    float64 `json:"max_price"`
	AvgPrice    float64 `json:"avg_price"`
	MedianPrice float64 `json:"median_price"`
	PriceRange  float64 `json:"price_range"`
}

// LivePriceResult is the envelope returned by the live-price search service.
// On failure the orchestrator stores a degraded empty instance (Success false,
// zero products) so presentation code always has a well-defined shape.
type LivePriceResult struct {
	Success        bool             `json:"success"`
	Products       []Product        `json:"products"`
	PriceStats     *PriceStatistics `json:"price_stats,omitempty"`
	TotalFound     int              `json:"total_found"`
	SearchQuery    string           `json:"search_query"`
	ProcessingTime float64          `json:"processing_time"`
	ErrorMessage   string           `json:"error_message,omitempty"`
}

// ImageSearchResult is the envelope returned by the image-similarity search.
type ImageSearchResult struct {
	Success        bool      `json:"success"`
	Products       []Product `json:"products"`
	TotalFound     int       `json:"total_found"`
	SearchQuery    string    `json:"search_query"`
	ProcessingTime float64   `json:"processing_time"`
	ErrorMessage   string    `json:"error_message,omitempty"`
}
