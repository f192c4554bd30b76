package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/newtown/billsplitter/internal/models"
)

const defaultGeminiModel = "gemini-1.5-flash"

// receiptPrompt instructs the model to return a bare JSON array of line items.
const receiptPrompt = `Analyze this bill/receipt image and extract all items with their prices.

Please return the items in this exact JSON format:
[
    {"name": "Item Name", "price": 0.00},
    {"name": "Another Item", "price": 0.00}
]

Rules:
1. Only include items that have prices
2. Use the exact item names as they appear
3. Convert all prices to decimal format (e.g., £5.99 = 5.99)
4. Ignore totals, taxes, and service charges
5. If you can't read the image clearly, return an empty array []

Return only the JSON array, nothing else.`

// GeminiExtractor extracts receipt items through the Gemini generateContent
// REST endpoint.
type GeminiExtractor struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// NewGemini creates a GeminiExtractor. An empty model selects the default.
func NewGemini(apiKey, model string) *GeminiExtractor {
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiExtractor{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://generativelanguage.googleapis.com/v1beta",
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

// Extract sends the image with the receipt prompt and parses the returned
// JSON array into extracted items. An unparseable but successful response
// yields an empty list, not an error.
func (g *GeminiExtractor) Extract(ctx context.Context, image []byte, mimeType string) ([]models.ExtractedItem, error) {
	if g.apiKey == "" {
		return nil, &ExtractionError{Stage: "request", Err: fmt.Errorf("missing API key")}
	}
	if len(image) == 0 {
		return nil, &ExtractionError{Stage: "decode", Err: fmt.Errorf("empty image")}
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	payload := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"text": receiptPrompt},
					{"inline_data": map[string]string{
						"mime_type": mimeType,
						"data":      base64.StdEncoding.EncodeToString(image),
					}},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":     0.2,
			"maxOutputTokens": 2048,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &ExtractionError{Stage: "request", Err: err}
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &ExtractionError{Stage: "request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, &ExtractionError{Stage: "request", Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ExtractionError{Stage: "response", Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &ExtractionError{Stage: "response", Err: fmt.Errorf("gemini api error: %s", string(raw))}
	}

	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, &ExtractionError{Stage: "response", Err: err}
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, &ExtractionError{Stage: "response", Err: fmt.Errorf("empty gemini response")}
	}

	return ParseItems(result.Candidates[0].Content.Parts[0].Text), nil
}
