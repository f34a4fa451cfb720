package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/korjavin/mathdungeonbot/models"
)

const (
	deepseekAPIURL = "https://api.deepseek.com/v1/chat/completions"
	apiTimeoutSec  = 60
)

// ErrNoChoices indicates the API answered without any completion
var ErrNoChoices = errors.New("no choices in API response")

// DeepseekClient manages interactions with Deepseek API
type DeepseekClient struct {
	apiKey   string
	endpoint string
	http     *http.Client
}

// NewDeepseekClient creates a new Deepseek API client
func NewDeepseekClient(apiKey string) *DeepseekClient {
	return NewDeepseekClientWithEndpoint(apiKey, deepseekAPIURL)
}

// NewDeepseekClientWithEndpoint creates a client talking to a custom endpoint
func NewDeepseekClientWithEndpoint(apiKey, endpoint string) *DeepseekClient {
	return &DeepseekClient{
		apiKey:   apiKey,
		endpoint: endpoint,
		http: &http.Client{
			Timeout: time.Duration(apiTimeoutSec) * time.Second,
		},
	}
}

type deepseekMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type deepseekRequest struct {
	Model    string            `json:"model"`
	Messages []deepseekMessage `json:"messages"`
}

type deepseekResponseChoice struct {
	Message deepseekMessage `json:"message"`
}

type deepseekResponse struct {
	Choices []deepseekResponseChoice `json:"choices"`
	ID      string                   `json:"id,omitempty"`
	Usage   map[string]interface{}   `json:"usage,omitempty"`
}

// ExplainProblem asks Deepseek for a step-by-step solution of a generated problem
func (c *DeepseekClient) ExplainProblem(ctx context.Context, problem *models.Problem) (string, error) {
	startTime := time.Now()
	log.Printf("Requesting explanation for %s problem (difficulty %d)", problem.Category, problem.Difficulty)

	prompt := fmt.Sprintf(`
A student is practising %s. Please help with the following problem:

1. Explain the method needed to solve it, step by step
2. Work through the solution and arrive at the answer
3. Point out the most common mistake students make on this kind of problem

Problem: %s

Expected answer: %s

Be concise and answer in plain text.
`, problem.Category.DisplayName(), problem.Question, problem.Answer)

	reqJSON, err := json.Marshal(deepseekRequest{
		Model: "deepseek-chat",
		Messages: []deepseekMessage{
			{Role: "user", Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, apiTimeoutSec*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewBuffer(reqJSON))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	reqSentTime := time.Now()
	resp, err := c.http.Do(req)
	reqDuration := time.Since(reqSentTime)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			log.Printf("Deepseek API request timed out after %v", reqDuration)
		}
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("Received response from Deepseek API in %v with status code: %d", reqDuration, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var deepseekResp deepseekResponse
	if err := json.Unmarshal(body, &deepseekResp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}

	if len(deepseekResp.Choices) == 0 {
		return "", ErrNoChoices
	}

	content := deepseekResp.Choices[0].Message.Content
	log.Printf("Explanation completed in %v. Content length: %d", time.Since(startTime), len(content))

	return content, nil
}
