package grader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"homework-grader/internal/models"
)

// ErrAPI indicates the LLM endpoint could not be reached or rejected the request.
var ErrAPI = errors.New("grading api error")

// ErrParse indicates the model reply did not contain a recoverable score.
var ErrParse = errors.New("unparseable grading response")

// The model is instructed to embed its score as <grade:N> in the reply.
var gradeTagRe = regexp.MustCompile(`(?i)<\s*grade\s*:\s*(-?[0-9]+(?:\.[0-9]+)?)\s*>`)

type Client struct {
	cfg        models.GraderConfig
	httpClient *http.Client
}

// NewClient creates a grading client for an OpenAI-style chat-completions endpoint
func NewClient(cfg models.GraderConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Grade sends the submission's question and answer to the LLM with the
// configured grading prompt and parses the score out of the reply.
func (c *Client) Grade(ctx context.Context, sub *models.Submission) (*models.GradeResult, error) {
	reply, err := c.complete(ctx, c.buildPrompt(sub))
	if err != nil {
		return nil, err
	}

	score, err := c.parseScore(reply)
	if err != nil {
		return nil, err
	}

	return &models.GradeResult{
		Score:    score,
		Feedback: reply,
	}, nil
}

func (c *Client) buildPrompt(sub *models.Submission) string {
	return fmt.Sprintf("%s\n\nQuestion:\n%s\n\nAnswer:\n%s",
		c.cfg.Prompt, sub.QuestionText, sub.AnswerText)
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", ErrAPI, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAPI, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAPI, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrAPI, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d: %s", ErrAPI, resp.StatusCode, truncate(string(body), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrAPI, err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("%w: %s", ErrAPI, parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: empty choices", ErrParse)
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}

// parseScore extracts the <grade:N> tag and range-checks it
func (c *Client) parseScore(reply string) (float64, error) {
	match := gradeTagRe.FindStringSubmatch(reply)
	if match == nil {
		return 0, fmt.Errorf("%w: no grade tag in reply %q", ErrParse, truncate(reply, 120))
	}

	score, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if score < 0 || score > c.cfg.MaxScore {
		return 0, fmt.Errorf("%w: score %g outside range [0, %g]", ErrParse, score, c.cfg.MaxScore)
	}

	return score, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
