package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/apex/log"
	"github.com/go-resty/resty/v2"
	"github.com/xeipuuv/gojsonschema"

	"ecowatch/metrics"
	"ecowatch/models"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	DefaultModel   = "gemini-2.5-flash"
)

var (
	ErrAIDisabled      = errors.New("gemini api key not configured")
	ErrEmptyResponse   = errors.New("gemini returned empty response")
	ErrInvalidResponse = errors.New("gemini response does not match schema")
)

type Client struct {
	apiKey string
	model  string
	http   *resty.Client
}

func NewClient(apiKey, model string, timeout time.Duration) *Client {
	model = strings.TrimSpace(model)
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey: strings.TrimSpace(apiKey),
		model:  model,
		http: resty.New().
			SetBaseURL(DefaultBaseURL).
			SetTimeout(timeout).
			SetHeader("Content-Type", "application/json"),
	}
}

// SetBaseURL points the client at another endpoint
func (c *Client) SetBaseURL(url string) *Client {
	c.http.SetBaseURL(url)
	return c
}

func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

type geminiRequest struct {
	Contents         []geminiContent        `json:"contents"`
	GenerationConfig geminiGenerationConfig `json:"generationConfig"`
}

type geminiGenerationConfig struct {
	ResponseMimeType string                 `json:"responseMimeType"`
	ResponseSchema   map[string]interface{} `json:"responseSchema"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []geminiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// WaterReuseInsight grades household greywater and lists suitable uses
func (c *Client) WaterReuseInsight(ctx context.Context, m models.WaterQualityMetrics) (models.AIRecommendation, error) {
	var out models.AIRecommendation
	start := time.Now()
	err := c.generate(ctx, waterReusePrompt(m), waterReuseResponseSchema, waterReuseValidationSchema, &out)
	metrics.ObserveAI("water_reuse_insight", start, err)
	return out, err
}

// PredictiveMaintenanceAlert predicts the component most at risk
func (c *Client) PredictiveMaintenanceAlert(ctx context.Context, h models.SystemHealthData) (models.PredictiveAlert, error) {
	var out models.PredictiveAlert
	start := time.Now()
	err := c.generate(ctx, predictiveMaintenancePrompt(h), predictiveResponseSchema, predictiveValidationSchema, &out)
	metrics.ObserveAI("predictive_maintenance", start, err)
	return out, err
}

// generate sends one request. There are no retries; callers surface the
// failure and the user starts over.
func (c *Client) generate(ctx context.Context, prompt string, responseSchema map[string]interface{}, validation string, out interface{}) error {
	if !c.Enabled() {
		return ErrAIDisabled
	}

	body := geminiRequest{
		Contents: []geminiContent{{Role: "user", Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: geminiGenerationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   responseSchema,
		},
	}

	var parsed geminiResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("model", c.model).
		SetQueryParam("key", c.apiKey).
		SetBody(body).
		SetResult(&parsed).
		SetError(&parsed).
		Post("/v1beta/models/{model}:generateContent")
	if err != nil {
		return fmt.Errorf("gemini request: %w", err)
	}
	if resp.IsError() {
		if parsed.Error != nil && parsed.Error.Message != "" {
			return fmt.Errorf("gemini http %d: %s", resp.StatusCode(), parsed.Error.Message)
		}
		return fmt.Errorf("gemini http %d", resp.StatusCode())
	}

	text := candidateText(parsed)
	if text == "" {
		return ErrEmptyResponse
	}

	result, err := gojsonschema.Validate(gojsonschema.NewStringLoader(validation), gojsonschema.NewStringLoader(text))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		log.Warnf("gemini response failed validation: %s", strings.Join(msgs, "; "))
		return fmt.Errorf("%w: %s", ErrInvalidResponse, strings.Join(msgs, "; "))
	}

	if err := json.Unmarshal([]byte(text), out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	return nil
}

func candidateText(r geminiResponse) string {
	if len(r.Candidates) == 0 {
		return ""
	}
	var b strings.Builder
	for _, p := range r.Candidates[0].Content.Parts {
		b.WriteString(p.Text)
	}
	text := strings.TrimSpace(b.String())
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}
