package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Sidharth-Chirathazha/order-app-backend/internal/usecase"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/e"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/jitter"
	"github.com/Sidharth-Chirathazha/order-app-backend/pkg/logger"
)

// Classifier клиент zero-shot классификации текста через HTTP inference API
type Classifier struct {
	url        string
	token      string
	httpClient *http.Client
	maxRetries int
	logger     logger.Logger
}

func NewClassifier(url string, token string, maxRetries int, logger logger.Logger) *Classifier {
	return &Classifier{
		url:   url,
		token: token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: maxRetries,
		logger:     logger,
	}
}

type classifyRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters classifyParameters `json:"parameters"`
}

type classifyParameters struct {
	CandidateLabels []string `json:"candidate_labels"`
}

type classifyResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Classify выполняет zero-shot классификацию текста с retry-логикой
// и экспоненциальной задержкой. Метки возвращаются по убыванию score.
func (c *Classifier) Classify(ctx context.Context, text string, labels []string) ([]usecase.LabelScore, error) {
	const (
		op         = "Classifier.Classify"
		baseJitter = 1 * time.Second
		maxJitter  = 30 * time.Second
	)

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		scores, err := c.classifyOnce(ctx, text, labels)
		if err == nil {
			return scores, nil
		}

		if attempt == c.maxRetries-1 {
			return nil, e.Wrap(op, fmt.Errorf("all %d attempts failed", c.maxRetries))
		}

		sleepTime := jitter.ExponentialBackoff(
			baseJitter,
			maxJitter,
			attempt,
			jitter.DefaultJitter,
		)

		c.logger.Warnf("classification failed, retrying in %v (attempt %d): %v", sleepTime, attempt+1, err)
		select {
		case <-time.After(sleepTime):
		case <-ctx.Done():
			return nil, e.Wrap(op, ctx.Err())
		}
	}

	return nil, e.Wrap(op, fmt.Errorf("unreachable"))
}

// classifyOnce отправляет один запрос классификации.
func (c *Classifier) classifyOnce(ctx context.Context, text string, labels []string) ([]usecase.LabelScore, error) {
	const op = "Classifier.classifyOnce"

	body, err := json.Marshal(classifyRequest{
		Inputs: text,
		Parameters: classifyParameters{
			CandidateLabels: labels,
		},
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, e.Wrap(op, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, raw))
	}

	var result classifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, e.Wrap(op, err)
	}

	if len(result.Labels) == 0 || len(result.Labels) != len(result.Scores) {
		return nil, e.Wrap(op, e.ErrEmptyClassification)
	}

	scores := make([]usecase.LabelScore, 0, len(result.Labels))
	for i, label := range result.Labels {
		scores = append(scores, usecase.NewLabelScore(label, result.Scores[i]))
	}

	return scores, nil
}
