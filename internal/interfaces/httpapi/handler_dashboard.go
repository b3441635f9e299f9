package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/statpulse/harvester/internal/usecase"
)

func (h *Handler) GetLiveMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLiveMatches")
	defer span.End()

	view, err := h.dashboardService.LiveMatches(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get live matches failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	// The dashboard frontend consumes the snapshot document shape at the
	// top level, without the response envelope.
	writeJSON(ctx, w, http.StatusOK, view)
}

func (h *Handler) GetAlerts(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetAlerts")
	defer span.End()

	view, err := h.dashboardService.Alerts(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get alerts failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, view)
}

func (h *Handler) GetPrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPrediction")
	defer span.End()

	rawID := strings.TrimSpace(r.PathValue("matchID"))
	matchID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid match id %q", usecase.ErrInvalidInput, rawID))
		return
	}

	prediction, err := h.dashboardService.Prediction(ctx, matchID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, prediction)
}

func (h *Handler) GetSystemStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSystemStatus")
	defer span.End()

	view, err := h.dashboardService.SystemStatus(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "get system status failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, http.StatusOK, view)
}
