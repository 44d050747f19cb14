// Package geminiservice talks to the hosted Gemini API and owns everything
// around that call: composing prompts, sending them, and sanitizing what
// comes back into bounded, display-safe strings.
package geminiservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// --- Gemini API Configuration ---
const (
	geminiAPIURL   = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.5-flash:generateContent?key="
	requestTimeout = 30 * time.Second
	plainMimeType  = "text/plain"
)

// SystemInstruction is the coach persona sent with every generation call.
const SystemInstruction = `You are FitMind AI, an expert fitness and nutrition coach with advanced knowledge in:
- Exercise physiology and program design
- Sports nutrition and meal planning
- Behavioral psychology and motivation
- Data analysis and progress tracking

Always provide evidence-based, personalized recommendations that are:
- Safe and appropriate for the user's fitness level
- Aligned with their specific goals and preferences
- Motivating and encouraging in tone
- Actionable with clear instructions

Format responses to be engaging and structure information clearly for easy reading.`

// Generator is the single blocking prompt-to-text call. Parts are joined in
// order, newline-separated, into one text input. There is no streaming and
// no automatic retry; a failed call is classified and surfaced, never
// replayed.
type Generator interface {
	Generate(ctx context.Context, parts []string) (string, error)
}

// BlockedError reports a content-policy block signalled by the model's
// prompt feedback rather than a transport failure.
type BlockedError struct {
	Reason string
}

func (e *BlockedError) Error() string {
	return fmt.Sprintf("geminiservice: content blocked: %s", e.Reason)
}

// --- Structs for Gemini API Request/Response ---

type geminiPayload struct {
	Contents          []geminiContent  `json:"contents"`
	SystemInstruction *geminiContent   `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationCfg   `json:"generationConfig,omitempty"`
	SafetySettings    []safetySetting  `json:"safetySettings,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text,omitempty"`
}

type generationCfg struct {
	Temperature      float64 `json:"temperature"`
	TopP             float64 `json:"topP"`
	TopK             int     `json:"topK"`
	MaxOutputTokens  int     `json:"maxOutputTokens"`
	ResponseMimeType string  `json:"responseMimeType"`
}

type safetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback"`
}

var defaultSafetySettings = []safetySetting{
	{Category: "HARM_CATEGORY_HARASSMENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_HATE_SPEECH", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_SEXUALLY_EXPLICIT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
	{Category: "HARM_CATEGORY_DANGEROUS_CONTENT", Threshold: "BLOCK_MEDIUM_AND_ABOVE"},
}

// Client is the HTTP Gemini backend.
type Client struct {
	apiKey string
	client *http.Client
}

// NewClient builds a Client from GEMINI_API_KEY.
func NewClient() *Client {
	return &Client{
		apiKey: os.Getenv("GEMINI_API_KEY"),
		client: &http.Client{Timeout: requestTimeout},
	}
}

// Generate implements Generator against the Gemini API. It returns the
// generated text, a *BlockedError when the model reports a content-policy
// block, or a transport/API error otherwise.
func (c *Client) Generate(ctx context.Context, parts []string) (string, error) {
	if c.apiKey == "" {
		log.Error().Msg("GEMINI_API_KEY environment variable is not set")
		return "", fmt.Errorf("geminiservice: server is not configured for AI generation")
	}

	payload := geminiPayload{
		SystemInstruction: &geminiContent{
			Parts: []geminiPart{{Text: SystemInstruction}},
		},
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: strings.Join(parts, "\n")}}},
		},
		GenerationConfig: &generationCfg{
			Temperature:      0.8,
			TopP:             0.95,
			TopK:             64,
			MaxOutputTokens:  3072,
			ResponseMimeType: plainMimeType,
		},
		SafetySettings: defaultSafetySettings,
	}

	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("geminiservice: marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, geminiAPIURL+c.apiKey, bytes.NewReader(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("geminiservice: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("geminiservice: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("geminiservice: API returned %s: %s", resp.Status, string(body))
	}

	var geminiResp geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&geminiResp); err != nil {
		return "", fmt.Errorf("geminiservice: decode response: %w", err)
	}

	if fb := geminiResp.PromptFeedback; fb != nil && fb.BlockReason != "" {
		log.Warn().Str("block_reason", fb.BlockReason).Msg("Gemini blocked the prompt")
		return "", &BlockedError{Reason: fb.BlockReason}
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return strings.TrimSpace(geminiResp.Candidates[0].Content.Parts[0].Text), nil
	}

	// An empty candidate list with no block reason maps to the Empty
	// classification downstream.
	return "", nil
}
