package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	sonic "github.com/bytedance/sonic"

	"github.com/statpulse/harvester/internal/usecase"
)

type backfillJobRequest struct {
	MatchIDs []int64 `json:"match_ids" validate:"required,min=1,max=200,dive,gt=0"`
}

func (h *Handler) RunCollectCycleJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunCollectCycleJob")
	defer span.End()

	if h.collectorService == nil {
		writeError(ctx, w, fmt.Errorf("%w: collector is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	report, err := h.collectorService.RunCycle(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run collect cycle job failed", "cycle", report.Number, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func (h *Handler) RunFlushExportsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunFlushExportsJob")
	defer span.End()

	if h.exportService == nil {
		writeError(ctx, w, fmt.Errorf("%w: exporter is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	summary, path, err := h.exportService.Flush(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run flush exports job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]any{
		"path":    path,
		"summary": summary,
	})
}

func (h *Handler) RunBackfillJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunBackfillJob")
	defer span.End()

	if h.backfillService == nil {
		writeError(ctx, w, fmt.Errorf("%w: backfill is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeBackfillJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validator.StructCtx(ctx, req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	report, err := h.backfillService.Backfill(ctx, req.MatchIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "run backfill job failed", "requested", len(req.MatchIDs), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, report)
}

func decodeBackfillJobRequest(r *http.Request) (backfillJobRequest, error) {
	decoder := sonic.ConfigDefault.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req backfillJobRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return backfillJobRequest{}, fmt.Errorf("%w: request body is required", usecase.ErrInvalidInput)
		}
		return backfillJobRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
