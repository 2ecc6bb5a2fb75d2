package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"GluviaAdmin/internal/cli/batch"
	"GluviaAdmin/internal/cli/model"
	"GluviaAdmin/internal/cli/table"
	"GluviaAdmin/internal/config"
)

type foodsBatchCmd struct{}

func (foodsBatchCmd) Name() string { return "foods-batch" }
func (foodsBatchCmd) Description() string {
	return "Validate a JSON array of foods, preview it and upload with --yes"
}
func (foodsBatchCmd) Usage() string { return "foods-batch [--yes] <file.json|->" }

func (foodsBatchCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("foods-batch", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	yes := fs.Bool("yes", false, "upload after a successful preview")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return ErrUsage
	}
	raw, err := readInput(fs.Arg(0))
	if err != nil {
		return err
	}

	// upload
	w := batch.NewWizard()
	if !w.Load(raw) {
		if err := w.Err(); err != nil {
			fmt.Fprintf(Out, "× %v\n", err)
			return ErrFailed
		}
		fmt.Fprintf(Out, "× %d validation error(s), nothing was uploaded:\n", len(w.Errors()))
		for _, line := range batch.FormatErrors(w.Errors(), batch.MaxDisplayedErrors) {
			fmt.Fprintf(Out, "  %s\n", line)
		}
		return ErrFailed
	}

	// preview
	foods := w.Foods()
	tb := table.New(func(f model.FoodDraft) string { return f.CanonicalName }, draftColumns,
		table.Local{Size: len(foods)}, table.WithResource("foods"))
	tb.SetRows(foods)
	fmt.Fprintf(Out, "Preview: %d food(s) ready to upload\n", len(foods))
	if err := tb.Render(Out); err != nil {
		return err
	}
	if !*yes {
		fmt.Fprintln(Out, "Re-run with --yes to upload.")
		return nil
	}

	// complete
	app, done, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer done()
	if !w.Submit(ctx, app.Foods.UploadBatch) {
		return outcome(app, false)
	}
	for _, line := range batch.Summary(w.Result()) {
		fmt.Fprintln(Out, line)
	}
	return outcome(app, true)
}

func readInput(name string) ([]byte, error) {
	if name == "-" {
		return io.ReadAll(In)
	}
	b, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return b, nil
}

type foodsTemplateCmd struct{}

func (foodsTemplateCmd) Name() string        { return "foods-template" }
func (foodsTemplateCmd) Description() string { return "Write a JSON template for foods-batch" }
func (foodsTemplateCmd) Usage() string       { return "foods-template [file.json]" }

func (foodsTemplateCmd) Run(_ context.Context, _ *config.Config, args []string) error {
	switch len(args) {
	case 0:
		_, err := Out.Write(batch.Template())
		return err
	case 1:
		if err := os.WriteFile(args[0], batch.Template(), 0o644); err != nil {
			return err
		}
		fmt.Fprintf(Out, "Template written to %s\n", args[0])
		return nil
	}
	return ErrUsage
}

func init() {
	RegisterCmd(foodsBatchCmd{})
	RegisterCmd(foodsTemplateCmd{})
}
