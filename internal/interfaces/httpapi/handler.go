package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/statpulse/harvester/internal/usecase"
)

type Handler struct {
	dashboardService *usecase.DashboardService
	collectorService *usecase.CollectorService
	exportService    *usecase.ExportService
	backfillService  *usecase.BackfillService
	logger           *slog.Logger
	validator        *validator.Validate
}

func NewHandler(
	dashboardService *usecase.DashboardService,
	collectorService *usecase.CollectorService,
	exportService *usecase.ExportService,
	backfillService *usecase.BackfillService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		dashboardService: dashboardService,
		collectorService: collectorService,
		exportService:    exportService,
		backfillService:  backfillService,
		logger:           logger,
		validator:        validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}
