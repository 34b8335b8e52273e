package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/streamgoal/match-portal/internal/domain/feedback"
	"github.com/streamgoal/match-portal/internal/infrastructure/repository/memory"
	"github.com/streamgoal/match-portal/internal/platform/logging"
)

func TestFeedbackService_Submit(t *testing.T) {
	repo := memory.NewFeedbackRepository()
	svc := NewFeedbackService(repo, 2000, logging.NewNop())
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 18, 0, 0, 0, time.UTC) }

	fb, err := svc.Submit(context.Background(), "  stream quality on match 123 keeps dropping  ")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if fb.ID == "" {
		t.Fatal("expected generated feedback id")
	}
	if fb.Message != "stream quality on match 123 keeps dropping" {
		t.Fatalf("message = %q, want trimmed input", fb.Message)
	}
	if fb.CreatedAt.IsZero() {
		t.Fatal("expected server-side timestamp")
	}

	stored, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("stored %d entries, want 1", len(stored))
	}
}

func TestFeedbackService_Submit_Validation(t *testing.T) {
	svc := NewFeedbackService(memory.NewFeedbackRepository(), 2000, logging.NewNop())

	if _, err := svc.Submit(context.Background(), "   "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput for blank message", err)
	}

	long := strings.Repeat("x", feedback.MaxMessageLength+1)
	if _, err := svc.Submit(context.Background(), long); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput for oversized message", err)
	}

	exact := strings.Repeat("x", feedback.MaxMessageLength)
	if _, err := svc.Submit(context.Background(), exact); err != nil {
		t.Fatalf("a message at the limit must be accepted: %v", err)
	}
}
