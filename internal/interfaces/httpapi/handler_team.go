package httpapi

import (
	"net/http"
)

func (h *Handler) GetTeamStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamStats")
	defer span.End()

	teamNumber, err := pathInt(r, "teamNumber")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	year, err := optionalIntQuery(r, "year")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamStats, err := h.teamService.Stats(ctx, teamNumber, year)
	if err != nil {
		h.logger.ErrorContext(ctx, "get team stats failed", "team_number", teamNumber, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamStats)
}

func (h *Handler) GetTeamAwardsSummary(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamAwardsSummary")
	defer span.End()

	teamNumbers, err := parseTeamNumbers(r.URL.Query().Get("teams"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	summaries, err := h.teamService.AwardsSummary(ctx, teamNumbers)
	if err != nil {
		h.logger.ErrorContext(ctx, "awards summary failed", "team_count", len(teamNumbers), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summaries)
}

func (h *Handler) GetHeadToHead(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetHeadToHead")
	defer span.End()

	teamA, err := pathInt(r, "teamA")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	teamB, err := pathInt(r, "teamB")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	year, err := optionalIntQuery(r, "year")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	allTime := boolQuery(r, "all_time")

	headToHead, err := h.teamService.HeadToHead(ctx, teamA, teamB, year, allTime)
	if err != nil {
		h.logger.ErrorContext(ctx, "head to head failed", "team_a", teamA, "team_b", teamB, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, headToHead)
}
