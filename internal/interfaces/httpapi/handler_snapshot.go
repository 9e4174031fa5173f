package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kleium/casters-tool/internal/usecase"
)

// maxSnapshotBytes bounds an uploaded snapshot payload.
const maxSnapshotBytes = 32 << 20

type snapshotDTO struct {
	EventKey string          `json:"event_key"`
	Name     string          `json:"name,omitempty"`
	Year     int             `json:"year"`
	SavedAt  time.Time       `json:"saved_at"`
	Data     json.RawMessage `json:"data"`
}

type saveSnapshotRequest struct {
	EventKey string `validate:"required,min=5,max=32"`
	Payload  []byte `validate:"required"`
}

func (h *Handler) SaveEventSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveEventSnapshot")
	defer span.End()

	eventKey := chi.URLParam(r, "eventKey")
	payload, err := io.ReadAll(io.LimitReader(r.Body, maxSnapshotBytes))
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: read snapshot payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, saveSnapshotRequest{EventKey: eventKey, Payload: payload}); err != nil {
		writeError(ctx, w, err)
		return
	}

	meta, err := h.snapshotService.Save(ctx, eventKey, payload)
	if err != nil {
		h.logger.ErrorContext(ctx, "save snapshot failed", "event_key", eventKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, meta)
}

func (h *Handler) GetEventSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetEventSnapshot")
	defer span.End()

	eventKey := chi.URLParam(r, "eventKey")
	snap, err := h.snapshotService.Load(ctx, eventKey)
	if err != nil {
		h.logger.ErrorContext(ctx, "load snapshot failed", "event_key", eventKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotDTO{
		EventKey: snap.EventKey,
		Name:     snap.Name,
		Year:     snap.Year,
		SavedAt:  snap.SavedAt,
		Data:     json.RawMessage(snap.Data),
	})
}

func (h *Handler) DeleteEventSnapshot(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeleteEventSnapshot")
	defer span.End()

	eventKey := chi.URLParam(r, "eventKey")
	if err := h.snapshotService.Delete(ctx, eventKey); err != nil {
		h.logger.ErrorContext(ctx, "delete snapshot failed", "event_key", eventKey, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "deleted", "event_key": eventKey})
}

func (h *Handler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSnapshots")
	defer span.End()

	metas, err := h.snapshotService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list snapshots failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, metas)
}
