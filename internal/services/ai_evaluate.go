package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strings"
	"time"
)

// ChatEvaluator asks an OpenAI-compatible chat model to rate a prompt and
// maps the rating into the base score range. Any failure falls back to the
// wrapped evaluator so a submission is never lost to the model being down.
type ChatEvaluator struct {
	httpClient *http.Client
	apiKey     string
	apiURL     string
	model      string
	fallback   Evaluator
}

func NewChatEvaluator(apiKey, apiURL, model string, fallback Evaluator) *ChatEvaluator {
	return &ChatEvaluator{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		apiKey:     apiKey,
		apiURL:     strings.TrimRight(apiURL, "/"),
		model:      model,
		fallback:   fallback,
	}
}

func (e *ChatEvaluator) IsAvailable() bool {
	return e.apiKey != ""
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type aiRating struct {
	Quality *float64 `json:"quality"`
}

const ratingPrompt = `You judge an image-recreation contest. The user message contains a REFERENCE description and a PROMPT a contestant wrote to recreate it. Rate how well an image generated from PROMPT would match REFERENCE and how good it is as an image prompt.

Respond with ONLY valid JSON (no markdown, no code fences, no explanations):
{"quality": <integer from 0 to 100>}`

func (e *ChatEvaluator) Evaluate(ctx context.Context, prompt, reference string) (int, error) {
	if !e.IsAvailable() {
		return e.fallback.Evaluate(ctx, prompt, reference)
	}

	quality, err := e.rate(ctx, prompt, reference)
	if err != nil {
		log.Printf("evaluator: chat rating failed, using fallback: %v", err)
		return e.fallback.Evaluate(ctx, prompt, reference)
	}

	return MinBaseScore + int(math.Round(quality*float64(MaxBaseScore-MinBaseScore)/100)), nil
}

func (e *ChatEvaluator) rate(ctx context.Context, prompt, reference string) (float64, error) {
	reqBody := chatRequest{
		Model: e.model,
		Messages: []chatMessage{
			{Role: "system", Content: ratingPrompt},
			{Role: "user", Content: fmt.Sprintf("REFERENCE: %s\nPROMPT: %s", reference, prompt)},
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.apiURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+e.apiKey)

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return 0, fmt.Errorf("failed to parse API response: %w", err)
	}
	if chatResp.Error != nil {
		return 0, fmt.Errorf("API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return 0, fmt.Errorf("empty response from AI")
	}

	var rating aiRating
	if err := json.Unmarshal([]byte(cleanJSONContent(chatResp.Choices[0].Message.Content)), &rating); err != nil {
		return 0, fmt.Errorf("AI returned invalid JSON: %w", err)
	}
	if rating.Quality == nil {
		return 0, fmt.Errorf("AI response missing quality")
	}

	return math.Max(0, math.Min(100, *rating.Quality)), nil
}

func cleanJSONContent(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content)
}
