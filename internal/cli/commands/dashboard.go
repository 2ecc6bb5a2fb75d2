package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"GluviaAdmin/internal/cli/model"
	"GluviaAdmin/internal/cli/table"
	"GluviaAdmin/internal/config"
)

type dashboardCmd struct{}

func (dashboardCmd) Name() string        { return "dashboard" }
func (dashboardCmd) Description() string { return "Show platform statistics and recent activity" }
func (dashboardCmd) Usage() string       { return "dashboard [--activity N]" }

func (dashboardCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	n := fs.Int("activity", 10, "number of recent activity entries")
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 || *n < 0 {
		return ErrUsage
	}
	app, done, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	if !app.Dashboard.Load(ctx, *n) {
		return outcome(app, false)
	}
	snap := app.Dashboard.Snapshot()
	s := snap.Stats
	fmt.Fprintf(Out, "Users:   %d total, %d active, %d new today\n", s.TotalUsers, s.ActiveUsers, s.NewUsersToday)
	fmt.Fprintf(Out, "Admins:  %d\n", s.TotalAdmins)
	fmt.Fprintf(Out, "Foods:   %d\n", s.TotalFoods)
	fmt.Fprintf(Out, "Rules:   %d (%d active)\n", s.TotalRules, s.ActiveRules)
	fmt.Fprintln(Out)
	fmt.Fprintln(Out, "Recent activity")

	tb := table.New(func(a model.Activity) string { return a.CreatedAt.String() + a.Action },
		activityColumns, table.Local{Size: max(len(snap.Activity), 1)}, table.WithResource("recent activity"))
	tb.SetRows(snap.Activity)
	if err := tb.Render(Out); err != nil {
		return err
	}
	return outcome(app, true)
}

func init() { RegisterCmd(dashboardCmd{}) }
