package handlers

import (
	"GluviaAdmin/internal/service"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// DashboardHandler отдаёт данные главного экрана.
type DashboardHandler struct {
	DashboardService *service.DashboardService
	Logger           *zap.SugaredLogger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.SugaredLogger) *DashboardHandler {
	return &DashboardHandler{DashboardService: dashboardService, Logger: logger}
}

func (h *DashboardHandler) Stats(w http.ResponseWriter, r *http.Request) {
	st, err := h.DashboardService.Stats(r.Context())
	if err != nil {
		fail(w, h.Logger, "Stats", err, "Dashboard")
		return
	}
	writeData(w, http.StatusOK, st, "")
}

// Activity отдаёт последние записи журнала; limit необязателен.
func (h *DashboardHandler) Activity(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	feed, err := h.DashboardService.Activity(r.Context(), limit)
	if err != nil {
		fail(w, h.Logger, "Activity", err, "Dashboard")
		return
	}
	writeData(w, http.StatusOK, feed, "")
}
