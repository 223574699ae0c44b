package generate

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const defaultOpenAIBaseURL = "https://api.openai.com"

type openAIChatRequest struct {
	Model     string              `json:"model"`
	Messages  []openAIChatMessage `json:"messages"`
	MaxTokens int                 `json:"max_tokens,omitempty"`
}

type openAIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type openAIImageRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	Size           string `json:"size"`
	ResponseFormat string `json:"response_format"`
}

type openAIImageResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
	} `json:"data"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// OpenAIClient satisfies TextGenerator and ImageGenerator against the
// OpenAI HTTP API.
type OpenAIClient struct {
	apiKey     string
	model      string
	imageModel string
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

func NewOpenAIClient(apiKey, model, imageModel string, log zerolog.Logger) *OpenAIClient {
	return &OpenAIClient{
		apiKey:     strings.TrimSpace(apiKey),
		model:      model,
		imageModel: imageModel,
		baseURL:    defaultOpenAIBaseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// Complete runs one chat completion and returns the raw text.
func (c *OpenAIClient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("OpenAI API key is not configured")
	}
	reqBody := openAIChatRequest{
		Model: c.model,
		Messages: []openAIChatMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens: maxTokens,
	}

	var parsed openAIChatResponse
	if err := c.post(ctx, "/v1/chat/completions", reqBody, &parsed); err != nil {
		return "", err
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return "", fmt.Errorf("OpenAI error: %s: %w", parsed.Error.Message, ErrTransient)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("OpenAI returned no choices: %w", ErrTransient)
	}
	return parsed.Choices[0].Message.Content, nil
}

// Generate synthesizes one 1024x1024 image and returns its bytes.
func (c *OpenAIClient) Generate(ctx context.Context, prompt string) ([]byte, error) {
	if c.apiKey == "" {
		return nil, errors.New("OpenAI API key is not configured")
	}
	reqBody := openAIImageRequest{
		Model:          c.imageModel,
		Prompt:         prompt,
		N:              1,
		Size:           "1024x1024",
		ResponseFormat: "b64_json",
	}

	var parsed openAIImageResponse
	if err := c.post(ctx, "/v1/images/generations", reqBody, &parsed); err != nil {
		return nil, err
	}
	if parsed.Error != nil && parsed.Error.Message != "" {
		return nil, fmt.Errorf("OpenAI error: %s: %w", parsed.Error.Message, ErrTransient)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("OpenAI returned no image data: %w", ErrTransient)
	}
	image, err := base64.StdEncoding.DecodeString(parsed.Data[0].B64JSON)
	if err != nil {
		return nil, fmt.Errorf("failed to decode OpenAI image payload: %w", ErrTransient)
	}
	return image, nil
}

func (c *OpenAIClient) post(ctx context.Context, path string, reqBody, dest any) error {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to build OpenAI request")
	}

	reqCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build OpenAI request")
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach OpenAI: %w", ErrTransient)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read OpenAI response: %w", ErrTransient)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn().Int("status", resp.StatusCode).Str("path", path).Msg("OpenAI request failed")
		return fmt.Errorf("OpenAI request failed (%d): %w", resp.StatusCode, ErrTransient)
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("failed to parse OpenAI response: %w", ErrTransient)
	}
	return nil
}
