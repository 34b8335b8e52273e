package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/streamgoal/match-portal/internal/domain/feedback"
)

type FeedbackRepository struct {
	mu    sync.Mutex
	items []feedback.Feedback
	now   func() time.Time
}

func NewFeedbackRepository() *FeedbackRepository {
	return &FeedbackRepository{now: time.Now}
}

func (r *FeedbackRepository) Create(_ context.Context, fb *feedback.Feedback) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = r.now().UTC()
	}
	if fb.ID == "" {
		fb.ID = fmt.Sprintf("fb-%d-%d", fb.CreatedAt.UnixNano(), len(r.items)+1)
	}
	r.items = append(r.items, *fb)

	return nil
}

// List returns submissions in insertion order. Used by tests and admin
// tooling, not exposed over HTTP.
func (r *FeedbackRepository) List(_ context.Context) ([]feedback.Feedback, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]feedback.Feedback, len(r.items))
	copy(out, r.items)

	return out, nil
}
