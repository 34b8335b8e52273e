package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/streamgoal/match-portal/internal/domain/prediction"
	"github.com/streamgoal/match-portal/internal/platform/logging"
)

// PredictionService reads approved predictions from the week/day/date keyed
// store.
type PredictionService struct {
	repo   prediction.Repository
	logger *logging.Logger
	now    func() time.Time
}

func NewPredictionService(repo prediction.Repository, logger *logging.Logger) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PredictionService{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

// List returns approved predictions. With a date filter only that date
// document is read and results are ordered by time label; without one the
// whole current week is returned ordered by date descending, then time.
func (s *PredictionService) List(ctx context.Context, dateFilter string) ([]prediction.Prediction, error) {
	ctx, span := startUsecaseSpan(ctx, "PredictionService.List")
	defer span.End()

	if dateFilter != "" {
		date, err := prediction.ParseDate(dateFilter)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return s.listDate(ctx, date)
	}

	return s.listCurrentWeek(ctx)
}

func (s *PredictionService) listDate(ctx context.Context, date time.Time) ([]prediction.Prediction, error) {
	dateID := prediction.DateID(date)
	items, err := s.repo.ListByDate(ctx, prediction.WeekID(date), prediction.DayOfWeek(date), dateID)
	if err != nil {
		return nil, fmt.Errorf("list predictions for %s: %w", dateID, err)
	}

	out := approvedOnly(items, dateID)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TimeLabel < out[j].TimeLabel
	})

	return out, nil
}

func (s *PredictionService) listCurrentWeek(ctx context.Context) ([]prediction.Prediction, error) {
	weekID := prediction.WeekID(s.now())
	byDate, err := s.repo.ListWeek(ctx, weekID)
	if err != nil {
		return nil, fmt.Errorf("list predictions for week %s: %w", weekID, err)
	}

	out := make([]prediction.Prediction, 0, 32)
	for dateID, items := range byDate {
		out = append(out, approvedOnly(items, dateID)...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchDate != out[j].MatchDate {
			return out[i].MatchDate > out[j].MatchDate
		}
		return out[i].TimeLabel < out[j].TimeLabel
	})

	return out, nil
}

func approvedOnly(items []prediction.Prediction, dateID string) []prediction.Prediction {
	out := make([]prediction.Prediction, 0, len(items))
	for _, item := range items {
		if !item.IsApproved() {
			continue
		}
		if item.ID == "" {
			item.ID = prediction.GenerateID(item.Home, item.Away, item.TimeLabel)
		}
		item.MatchDate = dateID
		out = append(out, item)
	}
	return out
}
