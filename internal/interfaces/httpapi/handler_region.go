package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListRegions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListRegions")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, h.regionService.List(ctx))
}

func (h *Handler) GetRegionFacts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRegionFacts")
	defer span.End()

	regionName := chi.URLParam(r, "region")
	facts, err := h.regionService.Facts(ctx, regionName)
	if err != nil {
		h.logger.ErrorContext(ctx, "get region facts failed", "region", regionName, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, facts)
}
