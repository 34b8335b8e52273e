package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/streamgoal/match-portal/internal/domain/feedback"
	"github.com/streamgoal/match-portal/internal/platform/logging"
)

// FeedbackService accepts user feedback submissions.
type FeedbackService struct {
	repo      feedback.Repository
	logger    *logging.Logger
	maxLength int
	now       func() time.Time
}

func NewFeedbackService(repo feedback.Repository, maxLength int, logger *logging.Logger) *FeedbackService {
	if logger == nil {
		logger = logging.Default()
	}
	if maxLength < 1 {
		maxLength = feedback.MaxMessageLength
	}

	return &FeedbackService{
		repo:      repo,
		logger:    logger,
		maxLength: maxLength,
		now:       time.Now,
	}
}

func (s *FeedbackService) Submit(ctx context.Context, message string) (feedback.Feedback, error) {
	ctx, span := startUsecaseSpan(ctx, "FeedbackService.Submit")
	defer span.End()

	message = strings.TrimSpace(message)
	if message == "" {
		return feedback.Feedback{}, fmt.Errorf("%w: message is required", ErrInvalidInput)
	}
	if len(message) > s.maxLength {
		return feedback.Feedback{}, fmt.Errorf("%w: message exceeds %d characters", ErrInvalidInput, s.maxLength)
	}

	fb := feedback.Feedback{
		Message:   message,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, &fb); err != nil {
		return feedback.Feedback{}, fmt.Errorf("store feedback: %w", err)
	}

	s.logger.InfoContext(ctx, "feedback stored", "feedback_id", fb.ID, "length", len(message))

	return fb, nil
}
