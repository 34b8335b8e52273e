package memory

import (
	"context"
	"sync"

	"github.com/streamgoal/match-portal/internal/domain/prediction"
)

// PredictionRepository mirrors the week/day/date document layout of the
// production store: weekID -> dayOfWeek -> dateID -> predictions.
type PredictionRepository struct {
	mu    sync.RWMutex
	weeks map[string]map[string]map[string][]prediction.Prediction
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{weeks: make(map[string]map[string]map[string][]prediction.Prediction)}
}

func (r *PredictionRepository) Put(weekID, dayOfWeek, dateID string, items []prediction.Prediction) {
	r.mu.Lock()
	defer r.mu.Unlock()

	week := r.weeks[weekID]
	if week == nil {
		week = make(map[string]map[string][]prediction.Prediction)
		r.weeks[weekID] = week
	}
	day := week[dayOfWeek]
	if day == nil {
		day = make(map[string][]prediction.Prediction)
		week[dayOfWeek] = day
	}
	day[dateID] = append(day[dateID], items...)
}

func (r *PredictionRepository) ListByDate(_ context.Context, weekID, dayOfWeek, dateID string) ([]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.weeks[weekID][dayOfWeek][dateID]
	out := make([]prediction.Prediction, len(items))
	copy(out, items)

	return out, nil
}

func (r *PredictionRepository) ListWeek(_ context.Context, weekID string) (map[string][]prediction.Prediction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string][]prediction.Prediction)
	for _, day := range r.weeks[weekID] {
		for dateID, items := range day {
			copied := make([]prediction.Prediction, len(items))
			copy(copied, items)
			out[dateID] = append(out[dateID], copied...)
		}
	}

	return out, nil
}
