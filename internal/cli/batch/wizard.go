package batch

import (
	"context"
	"fmt"

	"GluviaAdmin/internal/cli/model"
)

// Step is a state of the upload wizard.
type Step int

const (
	StepUpload Step = iota
	StepPreview
	StepComplete
)

func (s Step) String() string {
	switch s {
	case StepUpload:
		return "upload"
	case StepPreview:
		return "preview"
	case StepComplete:
		return "complete"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

const (
	// MaxDisplayedErrors — сколько ошибок валидации показывать пользователю.
	MaxDisplayedErrors = 10
	// MaxItemErrors — сколько ошибок сервера по отдельным продуктам показывать в итоге.
	MaxItemErrors = 3
)

// Uploader submits the validated array in one call. FoodStore.UploadBatch fits.
type Uploader func(ctx context.Context, foods []model.FoodDraft) (model.BatchResult, bool)

// Wizard drives upload → preview → complete. It only moves forward, except
// Back, which returns from preview to upload and drops the parsed foods.
type Wizard struct {
	step   Step
	foods  []model.FoodDraft
	errs   []RowError
	fatal  error
	result model.BatchResult
}

// NewWizard starts at the upload step.
func NewWizard() *Wizard { return &Wizard{} }

// Step returns the current step.
func (w *Wizard) Step() Step { return w.step }

// Foods returns the validated foods (preview and complete steps).
func (w *Wizard) Foods() []model.FoodDraft { return w.foods }

// Errors returns every row error of the last Load.
func (w *Wizard) Errors() []RowError { return w.errs }

// Err returns the top-level rejection of the last Load, if any.
func (w *Wizard) Err() error { return w.fatal }

// Result returns the server's batch result (complete step).
func (w *Wizard) Result() model.BatchResult { return w.result }

// Load validates raw. On success the wizard moves to preview; otherwise it
// stays on upload and exposes the errors. Calls outside the upload step are ignored.
func (w *Wizard) Load(raw []byte) bool {
	if w.step != StepUpload {
		return false
	}
	res, err := Decode(raw)
	w.fatal, w.errs, w.foods = err, res.Errors, nil
	if err != nil || !res.Valid() {
		return false
	}
	w.foods = res.Foods
	w.step = StepPreview
	return true
}

// Back returns from preview to upload and discards the parsed set.
func (w *Wizard) Back() bool {
	if w.step != StepPreview {
		return false
	}
	w.step = StepUpload
	w.foods = nil
	return true
}

// Submit sends the previewed foods. A failed upload keeps the wizard on preview.
func (w *Wizard) Submit(ctx context.Context, upload Uploader) bool {
	if w.step != StepPreview || len(w.foods) == 0 || len(w.errs) > 0 {
		return false
	}
	res, ok := upload(ctx, w.foods)
	if !ok {
		return false
	}
	w.result = res
	w.step = StepComplete
	return true
}

// FormatErrors renders at most limit errors plus a "+N more" line. The
// truncation is display-only.
func FormatErrors(errs []RowError, limit int) []string {
	if limit <= 0 {
		limit = MaxDisplayedErrors
	}
	n := min(len(errs), limit)
	out := make([]string, 0, n+1)
	for _, e := range errs[:n] {
		out = append(out, e.String())
	}
	if rest := len(errs) - n; rest > 0 {
		out = append(out, fmt.Sprintf("+%d more", rest))
	}
	return out
}

// Summary renders the server result: counts plus up to MaxItemErrors item errors.
func Summary(r model.BatchResult) []string {
	out := []string{
		fmt.Sprintf("Uploaded: %d", r.SuccessCount),
		fmt.Sprintf("Skipped (duplicates): %d", r.SkippedCount),
	}
	if failed := r.FailedCount(); failed > 0 {
		out = append(out, fmt.Sprintf("Failed: %d", failed))
	}
	out = append(out, fmt.Sprintf("Total: %d", r.TotalCount))

	n := min(len(r.Errors), MaxItemErrors)
	for _, e := range r.Errors[:n] {
		name := ""
		if e.Name != "" {
			name = " (" + e.Name + ")"
		}
		out = append(out, fmt.Sprintf("Item %d%s: %s", e.Index+1, name, e.Message))
	}
	if rest := len(r.Errors) - n; rest > 0 {
		out = append(out, fmt.Sprintf("+%d more", rest))
	}
	return out
}
