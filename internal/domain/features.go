package domain

// ExtractionMethod selects which raw inputs an operation consumes.
type ExtractionMethod string

const (
	MethodText  ExtractionMethod = "text"
	MethodImage ExtractionMethod = "image"
	MethodBoth  ExtractionMethod = "both"
)

// SearchInput is the raw user-supplied input for analysis and search operations.
type SearchInput struct {
	Method          ExtractionMethod `json:"method"`
	TextDescription string           `json:"text_description,omitempty"`
	ImageBase64     string           `json:"image_base64,omitempty"`
}

// ExtractedFeatures is the structured feature set produced by the external
// analysis service. Immutable once received; replaced wholesale by the next
// analysis or discarded on clear.
type ExtractedFeatures struct {
	Brand          string            `json:"brand,omitempty"`
	Model          string            `json:"model,omitempty"`
	ProductType    string            `json:"product_type,omitempty"`
	Color          string            `json:"color,omitempty"`
	Size           string            `json:"size,omitempty"`
	Material       string            `json:"material,omitempty"`
	Style          string            `json:"style,omitempty"`
	Category       string            `json:"category,omitempty"`
	KeyFeatures    []string          `json:"key_features,omitempty"`
	Specifications map[string]string `json:"specifications,omitempty"`
}

// AnalysisResult is the envelope returned by the feature-extraction service.
// When Success is false, Features must be treated as unusable.
type AnalysisResult struct {
	Success         bool               `json:"success"`
	Features        *ExtractedFeatures `json:"features,omitempty"`
	ConfidenceScore float64            `json:"confidence_score"`
	ProcessingTime  float64            `json:"processing_time"`
	ErrorMessage    string             `json:"error_message,omitempty"`
}
