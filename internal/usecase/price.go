package usecase

import (
	"math"
	"regexp"
	"sort"
	"strconv"

	"github.com/pricelens/backend/internal/domain"
)

// nonPriceCharsRegex strips everything that is not a digit or decimal point
// from currency-formatted strings like "$1,299.99" or "USD 45".
var nonPriceCharsRegex = regexp.MustCompile(`[^0-9.]`)

// thresholdTolerance is the fixed band above a target price that the
// threshold filter still accepts. There is no lower bound.
const thresholdTolerance = 1.2

// NormalizePrice converts a heterogeneous retailer price into a comparable
// numeric value. Numeric input passes through unchanged; strings are stripped
// to digits and decimal points and parsed. Absent or unparseable input yields
// ok=false so aggregation can uniformly skip it.
func NormalizePrice(raw domain.RawPrice) (float64, bool) {
	switch raw.Kind {
	case domain.PriceNumber:
		return raw.Value, true
	case domain.PriceString:
		cleaned := nonPriceCharsRegex.ReplaceAllString(raw.Text, "")
		if cleaned == "" {
			return 0, false
		}
		v, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return v, true
	default:
		return 0, false
	}
}

// ComputePriceStats computes aggregate statistics over the normalizable
// prices in the given product set. Returns nil when no price normalizes,
// which callers must treat as "no statistics available", not an error.
//
// The median is the element at index len/2 of the ascending sort. For an
// even-length sequence that is the upper of the two middle values; downstream
// displays depend on this tie-break, so it is deliberate.
func ComputePriceStats(products []domain.Product) *domain.PriceStatistics {
	prices := make([]float64, 0, len(products))
	for _, p := range products {
		if v, ok := NormalizePrice(p.Price); ok {
			prices = append(prices, v)
		}
	}
	if len(prices) == 0 {
		return nil
	}

	sort.Float64s(prices)

	sum := 0.0
	for _, v := range prices {
		sum += v
	}

	return &domain.PriceStatistics{
		MinPrice:    prices[0],
		MaxPrice:    prices[len(prices)-1],
		AvgPrice:    sum / float64(len(prices)),
		MedianPrice: prices[len(prices)/2],
		PriceRange:  prices[len(prices)-1] - prices[0],
	}
}

// FilterByThreshold selects the products whose normalized price is within the
// tolerance band above the target price and returns them sorted ascending by
// price. An empty result is valid. The filter is pure and idempotent; a
// non-finite or non-positive threshold is an input error with no side effects.
func FilterByThreshold(products []domain.Product, threshold float64) ([]domain.Product, error) {
	if math.IsNaN(threshold) || math.IsInf(threshold, 0) || threshold <= 0 {
		return nil, domain.ErrInvalidThreshold
	}

	upperLimit := threshold * thresholdTolerance

	type pricedProduct struct {
		product domain.Product
		price   float64
	}

	kept := make([]pricedProduct, 0, len(products))
	for _, p := range products {
		v, ok := NormalizePrice(p.Price)
		if !ok || v > upperLimit {
			continue
		}
		kept = append(kept, pricedProduct{product: p, price: v})
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].price < kept[j].price
	})

	result := make([]domain.Product, len(kept))
	for i, kp := range kept {
		result[i] = kp.product
	}
	return result, nil
}
