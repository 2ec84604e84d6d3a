package quizclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/vytor/quizflash/internal/logger"
	"github.com/vytor/quizflash/internal/models"
)

const (
	opRandomQuestion = "fetch question"
	opSubmitAnswer   = "submit answer"
	opStats          = "fetch stats"
	opReset          = "reset session"

	maxErrorBody = 1024
)

type Client struct {
	baseURL    string
	httpClient *http.Client
	validate   *shapeValidator
}

// New returns a client for the Quiz Service rooted at baseURL. A nil
// httpClient gets a default one with a 10s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
		validate:   newShapeValidator(),
	}
}

func (c *Client) RandomQuestion(ctx context.Context) (models.Question, error) {
	var q models.Question
	if err := c.do(ctx, opRandomQuestion, http.MethodGet, "/questions/random", nil, &q); err != nil {
		return models.Question{}, err
	}
	return q, nil
}

func (c *Client) SubmitAnswer(ctx context.Context, questionID models.QuestionID, answer string) (models.AnswerResult, error) {
	req := models.AnswerRequest{QuestionID: questionID, Answer: answer}
	var res models.AnswerResult
	if err := c.do(ctx, opSubmitAnswer, http.MethodPost, "/answer", req, &res); err != nil {
		return models.AnswerResult{}, err
	}
	return res, nil
}

func (c *Client) Stats(ctx context.Context) (models.SessionStats, error) {
	var stats models.SessionStats
	if err := c.do(ctx, opStats, http.MethodGet, "/stats", nil, &stats); err != nil {
		return models.SessionStats{}, err
	}
	return stats, nil
}

// Reset clears the service's counters. The acknowledgement body is ignored.
func (c *Client) Reset(ctx context.Context) error {
	return c.do(ctx, opReset, http.MethodPost, "/reset", nil, nil)
}

func (c *Client) do(ctx context.Context, op, method, path string, reqBody, out any) error {
	url := c.baseURL + path
	log := logger.FromContext(ctx).WithPrefix("quizclient").WithField("op", op)

	log.Debug("%s %s", method, url)
	start := time.Now()

	var body io.Reader
	if reqBody != nil {
		encoded, err := json.Marshal(reqBody)
		if err != nil {
			log.Error("failed to encode request: %v", err)
			return &RequestError{Op: op, Kind: KindEncode, Err: err}
		}
		body = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		log.Error("failed to create request: %v", err)
		return &RequestError{Op: op, Kind: KindTransport, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error("request failed: %v", err)
		return &RequestError{Op: op, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()

	log.Debug("response received in %v, status=%d", time.Since(start), resp.StatusCode)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		log.Error("request failed: status=%d, body=%s", resp.StatusCode, string(snippet))
		return &RequestError{
			Op:         op,
			Kind:       KindStatus,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		log.Error("failed to decode response: %v", err)
		return &RequestError{Op: op, Kind: KindMalformed, StatusCode: resp.StatusCode, Err: err}
	}
	if err := c.validate.check(out); err != nil {
		log.Error("response failed validation: %v", err)
		return &RequestError{Op: op, Kind: KindMalformed, StatusCode: resp.StatusCode, Err: fmt.Errorf("invalid response: %w", err)}
	}
	return nil
}
