package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/sentimind/sentimind/internal/emotion"
	"github.com/sentimind/sentimind/pkg/config"
	"github.com/sentimind/sentimind/pkg/logging"
)

// Backend scores a text against a label set. Implementations must return one
// entry per input label with scores in [0,1], sorted descending. Scores are
// independent per-label confidences and need not sum to 1.
type Backend interface {
	// Name returns the backend identifier
	Name() string
	// Init prepares the backend for scoring (e.g. warms up a cold model
	// server). Called once before the first Score.
	Init(ctx context.Context) error
	// Score classifies the text against the labels
	Score(ctx context.Context, text string, labels []string) ([]emotion.Score, error)
}

// HTTPBackend talks to a zero-shot classification endpoint speaking the
// inference-API convention: POST {inputs, parameters} -> {labels, scores}.
type HTTPBackend struct {
	name               string
	url                string
	model              string
	hypothesisTemplate string
	httpClient         *http.Client
	logger             *zap.Logger
}

// NewHTTPBackend creates an HTTP inference backend from configuration
func NewHTTPBackend(cfg config.BackendConfig, hypothesisTemplate string) *HTTPBackend {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &HTTPBackend{
		name:               cfg.Name,
		url:                cfg.URL,
		model:              cfg.Model,
		hypothesisTemplate: hypothesisTemplate,
		httpClient:         &http.Client{Timeout: timeout},
		logger:             logging.WithComponent("classifier-backend").With(zap.String("backend", cfg.Name)),
	}
}

// Name returns the backend identifier
func (b *HTTPBackend) Name() string {
	return b.name
}

// Init warms up the model server with a minimal scoring request. Inference
// servers load model weights on first use; doing it here keeps the latency
// out of the first user request.
func (b *HTTPBackend) Init(ctx context.Context) error {
	_, err := b.Score(ctx, "hola", []string{"Reflexión"})
	if err != nil {
		return fmt.Errorf("backend %s warmup failed: %w", b.name, err)
	}
	b.logger.Info("Backend initialized", zap.String("model", b.model))
	return nil
}

type scoreRequest struct {
	Inputs     string          `json:"inputs"`
	Parameters scoreParameters `json:"parameters"`
}

type scoreParameters struct {
	CandidateLabels    []string `json:"candidate_labels"`
	MultiLabel         bool     `json:"multi_label"`
	HypothesisTemplate string   `json:"hypothesis_template,omitempty"`
	Model              string   `json:"model,omitempty"`
}

type scoreResponse struct {
	Labels []string  `json:"labels"`
	Scores []float64 `json:"scores"`
}

// Score classifies the text against the labels
func (b *HTTPBackend) Score(ctx context.Context, text string, labels []string) ([]emotion.Score, error) {
	payload, err := json.Marshal(scoreRequest{
		Inputs: text,
		Parameters: scoreParameters{
			CandidateLabels:    labels,
			MultiLabel:         true,
			HypothesisTemplate: b.hypothesisTemplate,
			Model:              b.model,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode scoring request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build scoring request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("scoring request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("scoring request returned %d: %s", resp.StatusCode, string(body))
	}

	var result scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode scoring response: %w", err)
	}

	return normalizeRanking(result, labels)
}

// normalizeRanking validates the backend response against the gateway
// contract: one score per requested label, every score in [0,1], sorted
// descending. A response that cannot be normalized is rejected whole; the
// gateway never passes a partial ranking downstream.
func normalizeRanking(result scoreResponse, labels []string) ([]emotion.Score, error) {
	if len(result.Labels) != len(result.Scores) {
		return nil, fmt.Errorf("malformed ranking: %d labels vs %d scores", len(result.Labels), len(result.Scores))
	}
	if len(result.Labels) != len(labels) {
		return nil, fmt.Errorf("malformed ranking: got %d entries for %d labels", len(result.Labels), len(labels))
	}

	requested := make(map[string]bool, len(labels))
	for _, l := range labels {
		requested[l] = true
	}

	ranked := make([]emotion.Score, len(result.Labels))
	for i, label := range result.Labels {
		score := result.Scores[i]
		if !requested[label] {
			return nil, fmt.Errorf("malformed ranking: unexpected or duplicate label %q", label)
		}
		requested[label] = false
		if score < 0 || score > 1 {
			return nil, fmt.Errorf("malformed ranking: score %f for %q out of range", score, label)
		}
		ranked[i] = emotion.Score{Label: label, Score: score}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked, nil
}
