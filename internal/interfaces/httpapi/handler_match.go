package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListEventMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEventMatches")
	defer span.End()

	eventKey := chi.URLParam(r, "eventKey")
	matches, err := h.matchService.AllMatches(ctx, eventKey)
	if err != nil {
		h.logger.ErrorContext(ctx, "list event matches failed", "event_key", eventKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, matches)
}

func (h *Handler) GetEventPlayoffs(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEventPlayoffs")
	defer span.End()

	eventKey := chi.URLParam(r, "eventKey")
	bracket, err := h.matchService.PlayoffBracket(ctx, eventKey)
	if err != nil {
		h.logger.ErrorContext(ctx, "get playoff bracket failed", "event_key", eventKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, bracket)
}

func (h *Handler) GetMatchBreakdown(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchBreakdown")
	defer span.End()

	matchKey := chi.URLParam(r, "matchKey")
	breakdown, err := h.matchService.Breakdown(ctx, matchKey)
	if err != nil {
		h.logger.ErrorContext(ctx, "get match breakdown failed", "match_key", matchKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, breakdown)
}
