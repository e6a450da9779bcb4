// Package quiz fetches multiple-choice trivia questions and keeps
// per-user scores.
package quiz

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"time"
)

// optionsPerQuestion is fixed by the wire format: one correct answer
// plus three incorrect ones.
const optionsPerQuestion = 4

// Question is one multiple-choice trivia question.
type Question struct {
	Text       string
	Category   string
	Difficulty string
	Answers    []string // always 4 entries
	Correct    int      // index into Answers
}

// Client is a trivia API client for Open Trivia DB compatible services
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new trivia client
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type triviaResponse struct {
	ResponseCode int `json:"response_code"`
	Results      []struct {
		Category         string   `json:"category"`
		Difficulty       string   `json:"difficulty"`
		Question         string   `json:"question"`
		CorrectAnswer    string   `json:"correct_answer"`
		IncorrectAnswers []string `json:"incorrect_answers"`
	} `json:"results"`
}

// Fetch returns n questions. When the service is unreachable or the
// payload is invalid it falls back to the built-in local set, so the
// caller always gets questions.
func (c *Client) Fetch(ctx context.Context, n int) []Question {
	questions, err := c.fetch(ctx, n)
	if err != nil {
		slog.Warn("Trivia service unavailable, using fallback questions", "error", err)
		return Fallback(n)
	}
	return questions
}

func (c *Client) fetch(ctx context.Context, n int) ([]Question, error) {
	endpoint := fmt.Sprintf("%s/api.php?amount=%d&type=multiple", c.baseURL, n)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	var payload triviaResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if payload.ResponseCode != 0 {
		return nil, fmt.Errorf("API returned response code %d", payload.ResponseCode)
	}
	if len(payload.Results) == 0 {
		return nil, fmt.Errorf("API returned no questions")
	}

	questions := make([]Question, 0, len(payload.Results))
	for _, r := range payload.Results {
		if len(r.IncorrectAnswers) != optionsPerQuestion-1 {
			return nil, fmt.Errorf("expected %d incorrect answers, got %d", optionsPerQuestion-1, len(r.IncorrectAnswers))
		}

		answers := make([]string, 0, optionsPerQuestion)
		answers = append(answers, html.UnescapeString(r.CorrectAnswer))
		for _, a := range r.IncorrectAnswers {
			answers = append(answers, html.UnescapeString(a))
		}

		// Shuffle so the correct answer isn't always first.
		shuffled := make([]string, optionsPerQuestion)
		correct := 0
		for i, j := range rand.Perm(optionsPerQuestion) {
			shuffled[i] = answers[j]
			if j == 0 {
				correct = i
			}
		}

		questions = append(questions, Question{
			Text:       html.UnescapeString(r.Question),
			Category:   html.UnescapeString(r.Category),
			Difficulty: r.Difficulty,
			Answers:    shuffled,
			Correct:    correct,
		})
	}
	return questions, nil
}
