package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerDashboardRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /api/live-matches", handler.GetLiveMatches)
	mux.HandleFunc("GET /api/alerts", handler.GetAlerts)
	mux.HandleFunc("GET /api/predictions/{matchID}", handler.GetPrediction)
	mux.HandleFunc("GET /api/system-status", handler.GetSystemStatus)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /api/internal/jobs/collect-cycle", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunCollectCycleJob)))
	mux.Handle("POST /api/internal/jobs/flush-exports", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunFlushExportsJob)))
	mux.Handle("POST /api/internal/jobs/backfill", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunBackfillJob)))
}
