package analyzer

import "github.com/xeipuuv/gojsonschema"

// analysisResponseSchema describes the envelope the feature-extraction
// service must return. The service is an independently deployed AI component
// whose output drifts more often than a compiled-in struct would catch, so
// responses are validated before decoding.
const analysisResponseSchema = `{
  "type": "object",
  "required": ["success"],
  "properties": {
    "success": {"type": "boolean"},
    "features": {
      "type": "object",
      "properties": {
        "brand": {"type": "string"},
        "model": {"type": "string"},
        "product_type": {"type": "string"},
        "color": {"type": "string"},
        "size": {"type": "string"},
        "material": {"type": "string"},
        "style": {"type": "string"},
        "category": {"type": "string"},
        "key_features": {"type": "array", "items": {"type": "string"}},
        "specifications": {"type": "object", "additionalProperties": {"type": "string"}}
      }
    },
    "confidence_score": {"type": "number"},
    "processing_time": {"type": "number"},
    "error_message": {"type": "string"}
  }
}`

var responseSchema = mustCompileSchema(analysisResponseSchema)

func mustCompileSchema(src string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic("analyzer: invalid response schema: " + err.Error())
	}
	return schema
}
