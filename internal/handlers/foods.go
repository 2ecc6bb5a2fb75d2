package handlers

import (
	"GluviaAdmin/internal/service"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"
)

// FoodBatchHandler принимает пакетную загрузку продуктов.
type FoodBatchHandler struct {
	FoodService *service.FoodService
	Logger      *zap.SugaredLogger
}

func NewFoodBatchHandler(foodService *service.FoodService, logger *zap.SugaredLogger) *FoodBatchHandler {
	return &FoodBatchHandler{FoodService: foodService, Logger: logger}
}

// Upload принимает JSON-массив продуктов. Дубликаты по canonicalName пропускаются.
func (h *FoodBatchHandler) Upload(w http.ResponseWriter, r *http.Request) {
	raw, ok := readBody(w, r)
	if !ok {
		return
	}
	var items []service.FoodInput
	if err := json.Unmarshal(raw, &items); err != nil {
		h.Logger.Warnw("Upload: invalid batch body", "error", err)
		writeError(w, http.StatusUnprocessableEntity, "Validation failed",
			service.FieldError{Field: "foods", Message: "must be a JSON array of foods"})
		return
	}

	res, err := h.FoodService.ImportBatch(r.Context(), actorFrom(r), items)
	if err != nil {
		fail(w, h.Logger, "Upload", err, "Food")
		return
	}
	msg := fmt.Sprintf("Uploaded %d of %d foods", res.SuccessCount, res.TotalCount)
	if res.SkippedCount > 0 {
		msg += fmt.Sprintf(" (%d skipped as duplicates)", res.SkippedCount)
	}
	writeData(w, http.StatusOK, res, msg)
}
