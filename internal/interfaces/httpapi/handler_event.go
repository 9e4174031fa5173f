package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListSeasonEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasonEvents")
	defer span.End()

	year, err := pathInt(r, "year")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	events, err := h.eventService.SeasonEvents(ctx, year)
	if err != nil {
		h.logger.ErrorContext(ctx, "list season events failed", "year", year, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, events)
}

func (h *Handler) GetEventInfo(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEventInfo")
	defer span.End()

	eventKey := chi.URLParam(r, "eventKey")
	info, err := h.eventService.Info(ctx, eventKey)
	if err != nil {
		h.logger.ErrorContext(ctx, "get event info failed", "event_key", eventKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, info)
}

func (h *Handler) ListEventTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEventTeams")
	defer span.End()

	eventKey := chi.URLParam(r, "eventKey")
	teams, err := h.eventService.TeamsWithStats(ctx, eventKey)
	if err != nil {
		h.logger.ErrorContext(ctx, "list event teams failed", "event_key", eventKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teams)
}

func (h *Handler) RefreshEventRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshEventRankings")
	defer span.End()

	eventKey := chi.URLParam(r, "eventKey")
	teams, err := h.eventService.RefreshRankings(ctx, eventKey)
	if err != nil {
		h.logger.ErrorContext(ctx, "refresh rankings failed", "event_key", eventKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teams)
}

func (h *Handler) CompareEventTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CompareEventTeams")
	defer span.End()

	eventKey := chi.URLParam(r, "eventKey")
	teamKeys := splitCSV(r.URL.Query().Get("teams"))

	comparison, err := h.eventService.CompareTeams(ctx, eventKey, teamKeys)
	if err != nil {
		h.logger.ErrorContext(ctx, "compare teams failed", "event_key", eventKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, comparison)
}

func (h *Handler) ListEventScores(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEventScores")
	defer span.End()

	eventKey := chi.URLParam(r, "eventKey")
	level := r.URL.Query().Get("level")

	scores, err := h.eventService.OfficialScores(ctx, eventKey, level)
	if err != nil {
		h.logger.ErrorContext(ctx, "list event scores failed", "event_key", eventKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scores)
}

func (h *Handler) GetEventSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEventSummary")
	defer span.End()

	eventKey := chi.URLParam(r, "eventKey")
	summary, err := h.summaryService.EventSummary(ctx, eventKey)
	if err != nil {
		h.logger.ErrorContext(ctx, "get event summary failed", "event_key", eventKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

func (h *Handler) RefreshEventSummaryStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RefreshEventSummaryStats")
	defer span.End()

	eventKey := chi.URLParam(r, "eventKey")
	summaryStats, err := h.summaryService.RefreshStats(ctx, eventKey)
	if err != nil {
		h.logger.ErrorContext(ctx, "refresh summary stats failed", "event_key", eventKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summaryStats)
}

func (h *Handler) ListEventConnections(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEventConnections")
	defer span.End()

	eventKey := chi.URLParam(r, "eventKey")
	allTime := boolQuery(r, "all_time")

	// A specific teams list narrows the scan to the robots on the field.
	if rawTeams := r.URL.Query().Get("teams"); rawTeams != "" {
		teamNumbers, err := parseTeamNumbers(rawTeams)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		connections, err := h.historyService.MatchConnections(ctx, eventKey, teamNumbers, allTime)
		if err != nil {
			h.logger.ErrorContext(ctx, "match connections failed", "event_key", eventKey, "error", err)
			writeError(ctx, w, err)
			return
		}
		writeSuccess(ctx, w, http.StatusOK, connections)
		return
	}

	connections, err := h.historyService.Connections(ctx, eventKey, allTime)
	if err != nil {
		h.logger.ErrorContext(ctx, "event connections failed", "event_key", eventKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, connections)
}

func (h *Handler) ListEventAlliances(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListEventAlliances")
	defer span.End()

	eventKey := chi.URLParam(r, "eventKey")
	alliances, err := h.allianceService.AlliancesWithStats(ctx, eventKey)
	if err != nil {
		h.logger.ErrorContext(ctx, "list alliances failed", "event_key", eventKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, alliances)
}

func (h *Handler) GetEventHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEventHistory")
	defer span.End()

	eventKey := chi.URLParam(r, "eventKey")
	history, err := h.regionService.EventHistory(ctx, eventKey)
	if err != nil {
		h.logger.ErrorContext(ctx, "get event history failed", "event_key", eventKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, history)
}
