package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/streamgoal/match-portal/internal/domain/feedback"
	"github.com/streamgoal/match-portal/internal/domain/prediction"
	"github.com/streamgoal/match-portal/internal/usecase"
)

type submitFeedbackRequest struct {
	Message string `json:"message" validate:"required,max=2000"`
}

type feedbackDTO struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	CreatedAt string `json:"createdAt"`
}

type predictionListDTO struct {
	Predictions []prediction.Prediction `json:"predictions"`
}

func (h *Handler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitFeedback")
	defer span.End()

	var req submitFeedbackRequest
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	fb, err := h.feedbackService.Submit(ctx, req.Message)
	if err != nil {
		h.logger.WarnContext(ctx, "submit feedback failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, feedbackToDTO(fb))
}

func (h *Handler) ListPredictions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPredictions")
	defer span.End()

	date := r.URL.Query().Get("date")
	items, err := h.predictionService.List(ctx, date)
	if err != nil {
		h.logger.WarnContext(ctx, "list predictions failed", "date", date, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, predictionListDTO{
		Predictions: emptyIfNil(items),
	})
}

func feedbackToDTO(fb feedback.Feedback) feedbackDTO {
	return feedbackDTO{
		ID:        fb.ID,
		Message:   fb.Message,
		CreatedAt: fb.CreatedAt.UTC().Format(time.RFC3339),
	}
}
