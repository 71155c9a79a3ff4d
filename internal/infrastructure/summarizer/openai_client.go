// Copyright The ClassTrack Authors.
// SPDX-License-Identifier: MIT

// Package summarizer generates attendance summaries with an OpenAI-compatible
// chat completions API.
package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"math/rand"
	"net/http"
	"time"

	"golang.org/x/oauth2"

	"github.com/classtrack/attendance-service/internal/domain"
	"github.com/classtrack/attendance-service/internal/domain/models"
	"github.com/classtrack/attendance-service/internal/logging"
)

const (
	// BaseURL is the base URL for the OpenAI API.
	BaseURL = "https://api.openai.com/v1"
	// DefaultModel is the chat completion model used for summaries.
	DefaultModel = "gpt-4o-mini"
	// DefaultClientTimeout is the default HTTP client timeout for API requests.
	DefaultClientTimeout = 60 * time.Second
	// Default retry configuration
	DefaultMaxRetries        = 3
	DefaultInitialBackoff    = 1 * time.Second
	DefaultMaxBackoff        = 30 * time.Second
	DefaultBackoffMultiplier = 2.0
)

const (
	summaryTemperature = 0.7
	summaryMaxTokens   = 1000
)

// Config holds the configuration for the summarizer client.
type Config struct {
	APIKey string
	// Optional: override base URL for testing
	BaseURL string
	// Optional: override the chat completion model
	Model string
	// Optional: override timeout for HTTP requests
	Timeout time.Duration
	// Optional: retry configuration
	MaxRetries        int
	InitialBackoff    time.Duration
	MaxBackoff        time.Duration
	BackoffMultiplier float64
}

// Client calls an OpenAI-compatible chat completions endpoint to produce
// attendance summaries.
type Client struct {
	httpClient *http.Client
	config     Config
}

// Ensure that Client implements domain.SummaryGenerator
var _ domain.SummaryGenerator = (*Client)(nil)

// NewClient creates a new summarizer client.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = BaseURL
	}
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultClientTimeout
	}
	if config.MaxRetries == 0 {
		config.MaxRetries = DefaultMaxRetries
	}
	if config.InitialBackoff == 0 {
		config.InitialBackoff = DefaultInitialBackoff
	}
	if config.MaxBackoff == 0 {
		config.MaxBackoff = DefaultMaxBackoff
	}
	if config.BackoffMultiplier == 0 {
		config.BackoffMultiplier = DefaultBackoffMultiplier
	}

	// The API uses a static bearer token rather than a token exchange flow.
	tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.APIKey})

	return &Client{
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &oauth2.Transport{
				Base:   http.DefaultTransport,
				Source: tokenSource,
			},
		},
		config: config,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GenerateSummary implements [domain.SummaryGenerator]. It builds the analysis
// prompt from the digest and requests a completion, retrying transient
// failures with exponential backoff.
func (c *Client) GenerateSummary(ctx context.Context, digest models.AttendanceDigest) (string, error) {
	prompt, err := buildPrompt(digest)
	if err != nil {
		return "", domain.NewInternalError("failed to build summary prompt", err)
	}

	request := chatCompletionRequest{
		Model: c.config.Model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are an expert educational analyst providing detailed attendance reports."},
			{Role: "user", Content: prompt},
		},
		Temperature: summaryTemperature,
		MaxTokens:   summaryMaxTokens,
	}

	body, err := c.doRequest(ctx, request)
	if err != nil {
		return "", err
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", domain.NewInternalError("failed to parse completion response", err)
	}
	if len(completion.Choices) == 0 {
		return "", domain.NewInternalError("completion response contained no choices")
	}

	return completion.Choices[0].Message.Content, nil
}

// buildPrompt renders the attendance digest into the analysis prompt.
func buildPrompt(digest models.AttendanceDigest) (string, error) {
	recordsJSON, err := json.MarshalIndent(digest.Records, "", "  ")
	if err != nil {
		return "", err
	}

	return fmt.Sprintf(`You are an educational assistant analyzing class attendance data. Generate a detailed, professional attendance summary report.

Call ID: %s
Total Unique Participants: %d
Total Sessions: %d
Average Duration: %d minutes

Attendance Details:
%s

Generate a comprehensive summary that includes:
1. Overall attendance statistics
2. Engagement level analysis (based on duration)
3. Notable patterns (e.g., participants who joined multiple times, early leavers, full attendees)
4. Recommendations for improving attendance/engagement

Keep the tone professional and constructive.`,
		digest.CallID,
		digest.Stats.TotalParticipants,
		digest.Stats.TotalSessions,
		digest.Stats.AverageDurationSeconds/60,
		string(recordsJSON),
	), nil
}

// shouldRetry determines if an error or HTTP status code should be retried
func shouldRetry(statusCode int, err error) bool {
	// Retry on network/connection errors
	if err != nil {
		return true
	}

	// Retry on server errors (5xx)
	if statusCode >= 500 && statusCode < 600 {
		return true
	}

	// Retry on rate limiting (429)
	if statusCode == http.StatusTooManyRequests {
		return true
	}

	// Don't retry on client errors (4xx)
	return false
}

// calculateBackoff calculates the backoff duration for a retry attempt with jitter
func (c *Client) calculateBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		return c.config.InitialBackoff
	}

	backoff := float64(c.config.InitialBackoff) * math.Pow(c.config.BackoffMultiplier, float64(attempt))
	if time.Duration(backoff) > c.config.MaxBackoff {
		backoff = float64(c.config.MaxBackoff)
	}

	// Add jitter (±25% of backoff duration) to prevent thundering herd
	jitter := backoff * 0.25 * (rand.Float64()*2 - 1)
	backoffWithJitter := time.Duration(backoff + jitter)

	if backoffWithJitter < c.config.InitialBackoff {
		backoffWithJitter = c.config.InitialBackoff
	}

	return backoffWithJitter
}

// doRequest performs the chat completion request with retry logic and returns
// the raw response body.
func (c *Client) doRequest(ctx context.Context, request chatCompletionRequest) ([]byte, error) {
	jsonBody, err := json.Marshal(request)
	if err != nil {
		return nil, domain.NewInternalError("failed to marshal completion request", err)
	}

	url := c.config.BaseURL + "/chat/completions"
	var lastErr error
	var lastStatus int
	var lastBody []byte

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
		if err != nil {
			return nil, domain.NewInternalError("failed to create completion request", err)
		}
		req.Header.Set("Content-Type", "application/json")

		startTime := time.Now()
		resp, err := c.httpClient.Do(req)
		duration := time.Since(startTime)

		if err == nil {
			body, readErr := io.ReadAll(resp.Body)
			_ = resp.Body.Close()
			if readErr != nil {
				err = readErr
			} else if resp.StatusCode == http.StatusOK {
				slog.DebugContext(ctx, "completion request succeeded",
					"model", c.config.Model,
					"duration", duration.String(),
					"attempt", attempt+1,
				)
				return body, nil
			} else {
				lastStatus = resp.StatusCode
				lastBody = body
			}
		}
		lastErr = err

		statusCode := 0
		if resp != nil {
			statusCode = resp.StatusCode
		}
		if !shouldRetry(statusCode, err) {
			break
		}

		if attempt < c.config.MaxRetries {
			backoff := c.calculateBackoff(attempt)
			slog.WarnContext(ctx, "completion request failed, retrying",
				"status", statusCode,
				"duration", duration.String(),
				"attempt", attempt+1,
				"max_retries", c.config.MaxRetries,
				"backoff", backoff.String(),
				logging.ErrKey, err)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}
	}

	if lastErr != nil {
		return nil, domain.NewInternalError(
			fmt.Sprintf("completion request failed after %d attempts", c.config.MaxRetries+1), lastErr)
	}

	slog.ErrorContext(ctx, "completion request returned error response",
		"status", lastStatus,
		"body", string(lastBody),
		logging.PriorityCritical())
	return nil, domain.NewInternalError(fmt.Sprintf("completion request failed with status %d", lastStatus))
}
