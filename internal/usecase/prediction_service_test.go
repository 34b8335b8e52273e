package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/streamgoal/match-portal/internal/domain/prediction"
	"github.com/streamgoal/match-portal/internal/infrastructure/repository/memory"
	"github.com/streamgoal/match-portal/internal/platform/logging"
)

func TestPredictionService_List_ByDate(t *testing.T) {
	repo := memory.NewPredictionRepository()
	rejected := false

	date := time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)
	repo.Put(prediction.WeekID(date), prediction.DayOfWeek(date), prediction.DateID(date), []prediction.Prediction{
		{Home: "Leeds", Away: "Norwich", TimeLabel: "21:00", Tip: "Over 2.5"},
		{Home: "Arsenal", Away: "Chelsea", TimeLabel: "18:00", Tip: "Over 1.5"},
		{Home: "Spam", Away: "Entry", TimeLabel: "12:00", Approved: &rejected},
	})

	svc := NewPredictionService(repo, logging.NewNop())

	items, err := svc.List(context.Background(), "2026-03-18")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d predictions, want 2 approved", len(items))
	}
	if items[0].TimeLabel != "18:00" || items[1].TimeLabel != "21:00" {
		t.Fatalf("order = %q, %q, want ascending time labels", items[0].TimeLabel, items[1].TimeLabel)
	}
	if items[0].ID != "arsenal-vs-chelsea-18-00" {
		t.Fatalf("generated id = %q", items[0].ID)
	}
	if items[0].MatchDate != "18-03-2026" {
		t.Fatalf("match date = %q", items[0].MatchDate)
	}
}

func TestPredictionService_List_CurrentWeek(t *testing.T) {
	repo := memory.NewPredictionRepository()

	wednesday := time.Date(2026, 3, 18, 0, 0, 0, 0, time.UTC)
	friday := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	weekID := prediction.WeekID(wednesday)

	repo.Put(weekID, prediction.DayOfWeek(wednesday), prediction.DateID(wednesday), []prediction.Prediction{
		{Home: "Arsenal", Away: "Chelsea", TimeLabel: "18:00"},
	})
	repo.Put(weekID, prediction.DayOfWeek(friday), prediction.DateID(friday), []prediction.Prediction{
		{Home: "Leeds", Away: "Norwich", TimeLabel: "12:00"},
	})

	svc := NewPredictionService(repo, logging.NewNop())
	svc.now = func() time.Time { return wednesday }

	items, err := svc.List(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d predictions, want 2", len(items))
	}
	// Newest date first across the week.
	if items[0].MatchDate != "20-03-2026" || items[1].MatchDate != "18-03-2026" {
		t.Fatalf("order = %q, %q", items[0].MatchDate, items[1].MatchDate)
	}
}

func TestPredictionService_List_InvalidDate(t *testing.T) {
	svc := NewPredictionService(memory.NewPredictionRepository(), logging.NewNop())

	if _, err := svc.List(context.Background(), "not-a-date"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput", err)
	}
}
