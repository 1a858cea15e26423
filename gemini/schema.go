package gemini

import (
	"encoding/json"

	"ecowatch/models"
)

func enumOf[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// Response schemas in the Gemini OpenAPI subset
var (
	waterReuseResponseSchema = map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"status":         map[string]interface{}{"type": "STRING", "enum": enumOf(models.RecommendationStatuses)},
			"recommendation": map[string]interface{}{"type": "STRING"},
			"suitableUses":   map[string]interface{}{"type": "ARRAY", "items": map[string]interface{}{"type": "STRING"}},
			"unsuitableUses": map[string]interface{}{"type": "ARRAY", "items": map[string]interface{}{"type": "STRING"}},
			"explanation":    map[string]interface{}{"type": "STRING"},
		},
		"required": []string{"status", "recommendation", "suitableUses", "unsuitableUses", "explanation"},
	}

	predictiveResponseSchema = map[string]interface{}{
		"type": "OBJECT",
		"properties": map[string]interface{}{
			"component":      map[string]interface{}{"type": "STRING"},
			"status":         map[string]interface{}{"type": "STRING", "enum": enumOf(models.SystemHealthStatuses)},
			"prediction":     map[string]interface{}{"type": "STRING"},
			"recommendation": map[string]interface{}{"type": "STRING"},
		},
		"required": []string{"component", "status", "prediction", "recommendation"},
	}
)

// JSON Schema documents the model output is validated against
var (
	waterReuseValidationSchema = mustJSON(map[string]interface{}{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"properties": map[string]interface{}{
			"status":         map[string]interface{}{"type": "string", "enum": enumOf(models.RecommendationStatuses)},
			"recommendation": map[string]interface{}{"type": "string"},
			"suitableUses":   map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
			"unsuitableUses": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
			"explanation":    map[string]interface{}{"type": "string"},
		},
		"required": []string{"status", "recommendation", "suitableUses", "unsuitableUses", "explanation"},
	})

	predictiveValidationSchema = mustJSON(map[string]interface{}{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type":    "object",
		"properties": map[string]interface{}{
			"component":      map[string]interface{}{"type": "string"},
			"status":         map[string]interface{}{"type": "string", "enum": enumOf(models.SystemHealthStatuses)},
			"prediction":     map[string]interface{}{"type": "string"},
			"recommendation": map[string]interface{}{"type": "string"},
		},
		"required": []string{"component", "status", "prediction", "recommendation"},
	})
)

func mustJSON(v interface{}) string {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return string(b)
}
