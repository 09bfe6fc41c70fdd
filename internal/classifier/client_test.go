package classifier

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/sentimind/sentimind/internal/emotion"
)

type fakeBackend struct {
	name      string
	initErr   error
	scoreErr  error
	ranking   []emotion.Score
	initCalls int32
}

func (f *fakeBackend) Name() string { return f.name }

func (f *fakeBackend) Init(ctx context.Context) error {
	atomic.AddInt32(&f.initCalls, 1)
	return f.initErr
}

func (f *fakeBackend) Score(ctx context.Context, text string, labels []string) ([]emotion.Score, error) {
	if f.scoreErr != nil {
		return nil, f.scoreErr
	}
	return f.ranking, nil
}

func TestClientInitOnce(t *testing.T) {
	backend := &fakeBackend{
		name:    "primary",
		ranking: []emotion.Score{{Label: "Alegría", Score: 0.9}},
	}
	client := NewWithBackends([]Backend{backend})

	for i := 0; i < 5; i++ {
		if _, err := client.Score(context.Background(), "hola mundo", []string{"Alegría"}); err != nil {
			t.Fatalf("Score() returned error: %v", err)
		}
	}

	if calls := atomic.LoadInt32(&backend.initCalls); calls != 1 {
		t.Errorf("Expected exactly 1 init call, got %d", calls)
	}
}

func TestClientConcurrentFirstUse(t *testing.T) {
	backend := &fakeBackend{
		name:    "primary",
		ranking: []emotion.Score{{Label: "Amor", Score: 0.8}},
	}
	client := NewWithBackends([]Backend{backend})

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := client.Score(context.Background(), "te quiero", []string{"Amor"}); err != nil {
				t.Errorf("Score() returned error: %v", err)
			}
		}()
	}
	wg.Wait()

	if calls := atomic.LoadInt32(&backend.initCalls); calls != 1 {
		t.Errorf("Expected exactly 1 init call across concurrent callers, got %d", calls)
	}
}

func TestClientBackendFallback(t *testing.T) {
	primary := &fakeBackend{name: "primary", initErr: fmt.Errorf("model load failed")}
	secondary := &fakeBackend{
		name:    "secondary",
		ranking: []emotion.Score{{Label: "Humor", Score: 0.7}},
	}
	client := NewWithBackends([]Backend{primary, secondary})

	ranked, err := client.Score(context.Background(), "jaja", []string{"Humor"})
	if err != nil {
		t.Fatalf("Score() returned error: %v", err)
	}
	if len(ranked) != 1 || ranked[0].Label != "Humor" {
		t.Errorf("Unexpected ranking: %v", ranked)
	}
	if client.ActiveBackend() != "secondary" {
		t.Errorf("Expected secondary backend to be active, got %q", client.ActiveBackend())
	}
}

func TestClientAllBackendsFail(t *testing.T) {
	client := NewWithBackends([]Backend{
		&fakeBackend{name: "primary", initErr: fmt.Errorf("down")},
		&fakeBackend{name: "secondary", initErr: fmt.Errorf("also down")},
	})

	_, err := client.Score(context.Background(), "hola", []string{"Alegría"})
	if !errors.Is(err, ErrInferenceUnavailable) {
		t.Errorf("Expected ErrInferenceUnavailable, got: %v", err)
	}
}

func TestClientInitFailureNotSticky(t *testing.T) {
	backend := &fakeBackend{
		name:    "flaky",
		initErr: fmt.Errorf("cold start"),
		ranking: []emotion.Score{{Label: "Miedo", Score: 0.6}},
	}
	client := NewWithBackends([]Backend{backend})

	if _, err := client.Score(context.Background(), "uy", []string{"Miedo"}); !errors.Is(err, ErrInferenceUnavailable) {
		t.Fatalf("Expected ErrInferenceUnavailable on first attempt, got: %v", err)
	}

	// Backend recovers; the next call should retry initialization
	backend.initErr = nil
	if _, err := client.Score(context.Background(), "uy", []string{"Miedo"}); err != nil {
		t.Fatalf("Expected recovery after backend came back, got: %v", err)
	}
}

func TestClientScoreFailure(t *testing.T) {
	backend := &fakeBackend{
		name:     "primary",
		scoreErr: fmt.Errorf("timeout"),
	}
	client := NewWithBackends([]Backend{backend})

	_, err := client.Score(context.Background(), "hola", []string{"Alegría"})
	if !errors.Is(err, ErrInferenceUnavailable) {
		t.Errorf("Expected ErrInferenceUnavailable, got: %v", err)
	}
}
