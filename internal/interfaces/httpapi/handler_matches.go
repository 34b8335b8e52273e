package httpapi

import (
	"net/http"

	"github.com/streamgoal/match-portal/internal/domain/match"
	"github.com/streamgoal/match-portal/internal/domain/sport"
)

type matchListDTO struct {
	Matches  []match.Match `json:"matches"`
	Degraded bool          `json:"degraded"`
}

type matchDetailDTO struct {
	Match    match.Match   `json:"match"`
	Related  []match.Match `json:"related"`
	Degraded bool          `json:"degraded"`
}

type dashboardDTO struct {
	Matches  []match.Match `json:"matches"`
	Live     []match.Match `json:"live"`
	Degraded bool          `json:"degraded"`
}

type sportsDTO struct {
	Sports   []sport.WithCounts `json:"sports"`
	Degraded bool               `json:"degraded"`
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDashboard")
	defer span.End()

	view, err := h.feedService.Dashboard(ctx, r.URL.Query().Get("sport"))
	if err != nil {
		h.logger.ErrorContext(ctx, "get dashboard failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, dashboardDTO{
		Matches:  emptyIfNil(view.Matches),
		Live:     emptyIfNil(view.Live),
		Degraded: view.Degraded,
	})
}

func (h *Handler) SearchMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SearchMatches")
	defer span.End()

	list, err := h.feedService.Search(ctx, r.URL.Query().Get("q"))
	if err != nil {
		h.logger.WarnContext(ctx, "search matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchListDTO{
		Matches:  emptyIfNil(list.Matches),
		Degraded: list.Degraded,
	})
}

func (h *Handler) ListPopularMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPopularMatches")
	defer span.End()

	list, err := h.feedService.Popular(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list popular matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchListDTO{
		Matches:  emptyIfNil(list.Matches),
		Degraded: list.Degraded,
	})
}

func (h *Handler) GetSchedule(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSchedule")
	defer span.End()

	list, err := h.feedService.Schedule(ctx, r.URL.Query().Get("sport"))
	if err != nil {
		h.logger.WarnContext(ctx, "get schedule failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchListDTO{
		Matches:  emptyIfNil(list.Matches),
		Degraded: list.Degraded,
	})
}

func (h *Handler) ListSports(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSports")
	defer span.End()

	view, err := h.feedService.Sports(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "list sports failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, sportsDTO{
		Sports:   emptyIfNil(view.Sports),
		Degraded: view.Degraded,
	})
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	matchID := r.PathValue("matchID")
	detail, err := h.feedService.MatchByID(ctx, matchID)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matchDetailDTO{
		Match:    detail.Match,
		Related:  emptyIfNil(detail.Related),
		Degraded: detail.Degraded,
	})
}

// emptyIfNil keeps empty collections serializing as [] instead of null.
func emptyIfNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
