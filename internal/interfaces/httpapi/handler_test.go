package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/streamgoal/match-portal/internal/infrastructure/repository/memory"
	"github.com/streamgoal/match-portal/internal/platform/logging"
	"github.com/streamgoal/match-portal/internal/usecase"
)

type stubMatchSource struct {
	data map[string][]usecase.UpstreamMatch
}

func (s *stubMatchSource) FetchCollection(_ context.Context, collection string) ([]usecase.UpstreamMatch, error) {
	return s.data[collection], nil
}

type stubImages struct{}

func (stubImages) BadgeURL(path string) string  { return "https://img.example/badge/" + path }
func (stubImages) PosterURL(path string) string { return "https://img.example/poster/" + path }

func newTestRouter(t *testing.T, source usecase.MatchSource) http.Handler {
	t.Helper()

	feed := usecase.NewFeedService(source, stubImages{}, nil, nil, usecase.FeedConfig{Logger: logging.NewNop()})
	fb := usecase.NewFeedbackService(memory.NewFeedbackRepository(), 2000, logging.NewNop())
	preds := usecase.NewPredictionService(memory.NewPredictionRepository(), logging.NewNop())
	handler := NewHandler(feed, fb, preds, logging.NewNop())

	return NewRouter(handler, logging.NewNop(), []string{"*"})
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v", err)
	}
	return body
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t, &stubMatchSource{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	if data["status"] != "ok" {
		t.Fatalf("unexpected health payload: %v", body)
	}
}

func TestRouter_GetDashboard(t *testing.T) {
	upcoming := time.Now().Add(time.Hour).UnixMilli()
	source := &stubMatchSource{data: map[string][]usecase.UpstreamMatch{
		usecase.CollectionAll: {{
			ID:       "arsenal-vs-chelsea",
			Title:    "Arsenal vs Chelsea - Premier League",
			Category: "football",
			Date:     upcoming,
		}},
	}}
	router := newTestRouter(t, source)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	matches, _ := data["matches"].([]any)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %v", data["matches"])
	}
	first, _ := matches[0].(map[string]any)
	if first["home"] != "Arsenal" || first["away"] != "Chelsea" {
		t.Fatalf("unexpected match payload: %v", first)
	}
	if _, ok := data["live"].([]any); !ok {
		t.Fatalf("expected live array in dashboard payload: %v", data)
	}
}

func TestRouter_GetMatch_NotFound(t *testing.T) {
	source := &stubMatchSource{data: map[string][]usecase.UpstreamMatch{
		usecase.CollectionAll: {{
			ID:       "arsenal-vs-chelsea",
			Title:    "Arsenal vs Chelsea",
			Category: "football",
		}},
	}}
	router := newTestRouter(t, source)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/matches/unknown", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	errorObj, _ := body["error"].(map[string]any)
	if got, _ := errorObj["status"].(string); got != "NOT_FOUND" {
		t.Fatalf("expected NOT_FOUND, got %v", errorObj)
	}
}

func TestRouter_SubmitFeedback(t *testing.T) {
	router := newTestRouter(t, &stubMatchSource{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/feedback", strings.NewReader(`{"message":"player keeps buffering"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeEnvelope(t, rec)
	data, _ := body["data"].(map[string]any)
	if data["message"] != "player keeps buffering" {
		t.Fatalf("unexpected feedback payload: %v", data)
	}
	if id, _ := data["id"].(string); id == "" {
		t.Fatalf("expected generated feedback id, got %v", data)
	}
}

func TestRouter_SubmitFeedback_MissingMessage(t *testing.T) {
	router := newTestRouter(t, &stubMatchSource{})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/v1/feedback", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_ListPredictions_InvalidDate(t *testing.T) {
	router := newTestRouter(t, &stubMatchSource{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/predictions?date=not-a-date", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
	}
}
