package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"GluviaAdmin/internal/cli/bootstrap"
	"GluviaAdmin/internal/cli/forms"
	"GluviaAdmin/internal/cli/model"
	"GluviaAdmin/internal/cli/store"
	"GluviaAdmin/internal/cli/table"
	"GluviaAdmin/internal/config"
)

// MaxLocalRows is the page size requested when the table pages locally.
const MaxLocalRows = 1000

// resource describes one CRUD screen.
type resource[T any] struct {
	plural   string // users
	singular string // user
	store    func(*bootstrap.App) *store.Store[T]
	columns  []table.Column[T]
	rowID    func(T) string
	// filters are resource-specific list flags forwarded as query parameters.
	filters map[string]string
	draft   func(args []string) (any, error)
	patch   func(args []string) (string, model.Patch, error)
}

// --- list ---

type listCmd[T any] struct{ r resource[T] }

func (c listCmd[T]) Name() string { return c.r.plural }
func (c listCmd[T]) Description() string {
	return "List " + c.r.plural
}
func (c listCmd[T]) Usage() string {
	u := c.r.plural + " [--page N] [--limit N] [--search q] [--sort key[:desc]] [--hide k1,k2] [--select id1,id2] [--local] [--interactive]"
	names := make([]string, 0, len(c.r.filters))
	for name := range c.r.filters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		u += " [--" + name + " v]"
	}
	return u
}

func (c listCmd[T]) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet(c.r.plural, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	page := fs.Int("page", 1, "page number")
	limit := fs.Int("limit", cfg.PageSize, "rows per page")
	search := fs.String("search", "", "server-side search")
	sortBy := fs.String("sort", "", "column key, optionally :desc")
	hide := fs.String("hide", "", "comma-separated column keys to hide")
	sel := fs.String("select", "", "comma-separated row ids to mark")
	local := fs.Bool("local", false, "fetch everything and page locally")
	interactive := fs.Bool("interactive", false, "read table commands from stdin")
	extra := map[string]*string{}
	for name, help := range c.r.filters {
		extra[name] = fs.String(name, "", help)
	}
	if err := fs.Parse(args); err != nil || fs.NArg() != 0 {
		return ErrUsage
	}
	if *limit <= 0 {
		*limit = config.DefaultPageSize
	}

	app, done, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer done()
	st := c.r.store(app)

	filters := model.ListFilters{Page: *page, Limit: *limit, Search: *search, Extra: map[string]string{}}
	for name, v := range extra {
		if *v != "" {
			filters.Extra[name] = *v
		}
	}

	var tb *table.Table[T]
	if *local {
		filters.Page, filters.Limit = 1, MaxLocalRows
		// страница, которой нет, сбрасывается на первую при SetRows
		tb = table.New(c.r.rowID, c.r.columns, table.Local{Page: *page, Size: *limit}, table.WithResource(st.Names().Plural))
	} else {
		tb = table.New(c.r.rowID, c.r.columns, table.Remote{
			OnPageChange: func(p int) bool {
				f := st.Snapshot().Filters
				f.Page = p
				if !st.List(ctx, f) {
					return false
				}
				snap := st.Snapshot()
				tb.SetRows(snap.Items)
				tb.SetDescriptor(snap.Pagination)
				return true
			},
		}, table.WithResource(st.Names().Plural))
	}

	if !st.List(ctx, filters) {
		return outcome(app, false)
	}
	snap := st.Snapshot()
	tb.SetRows(snap.Items)
	tb.SetDescriptor(snap.Pagination)

	if err := applyView(tb, *sortBy, *hide, *sel); err != nil {
		return err
	}
	if err := tb.Render(Out); err != nil {
		return err
	}
	if *interactive {
		runInteractive(tb, In)
	}
	return outcome(app, true)
}

// applyView applies --sort, --hide and --select to a table.
func applyView[T any](tb *table.Table[T], sortBy, hide, sel string) error {
	if sortBy != "" {
		key, dir, _ := strings.Cut(sortBy, ":")
		tb.ToggleSort(key)
		if _, d := tb.Sort(); d == table.SortNone {
			return fmt.Errorf("column %q is not sortable", key)
		}
		switch dir {
		case "", "asc":
		case "desc":
			tb.ToggleSort(key)
		default:
			return ErrUsage
		}
	}
	for _, key := range splitList(hide) {
		if !tb.ToggleColumn(key) {
			return fmt.Errorf("column %q cannot be hidden", key)
		}
	}
	for _, id := range splitList(sel) {
		tb.ToggleRow(id)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

const interactiveHelp = "n next · p prev · s <key> sort · h <key> hide/show · f <text> filter · x <id> select · a select page · c clear · size <n> · q quit"

// runInteractive reads one table command per line and re-renders after each.
func runInteractive[T any](tb *table.Table[T], in io.Reader) {
	fmt.Fprintln(Out, interactiveHelp)
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		cmd, arg, _ := strings.Cut(strings.TrimSpace(sc.Text()), " ")
		arg = strings.TrimSpace(arg)
		switch cmd {
		case "":
			continue
		case "q", "quit":
			return
		case "n":
			if !tb.CanNext() {
				fmt.Fprintln(Out, "Already on the last page")
				continue
			}
			if !tb.NextPage() {
				continue
			}
		case "p":
			if !tb.CanPrev() {
				fmt.Fprintln(Out, "Already on the first page")
				continue
			}
			if !tb.PrevPage() {
				continue
			}
		case "s":
			tb.ToggleSort(arg)
		case "h":
			tb.ToggleColumn(arg)
		case "f":
			tb.SetFilter(arg)
		case "x":
			tb.ToggleRow(arg)
		case "a":
			tb.SelectAllVisible()
		case "c":
			tb.ClearSelection()
		case "size":
			n, err := strconv.Atoi(arg)
			if err != nil || n <= 0 {
				fmt.Fprintln(Out, "size must be a positive number")
				continue
			}
			tb.SetPageSize(n)
		default:
			fmt.Fprintln(Out, interactiveHelp)
			continue
		}
		_ = tb.Render(Out)
	}
}

// --- get ---

type getCmd[T any] struct{ r resource[T] }

func (c getCmd[T]) Name() string        { return c.r.plural + "-get" }
func (c getCmd[T]) Description() string { return "Show one " + c.r.singular }
func (c getCmd[T]) Usage() string       { return c.r.plural + "-get [--json] <id>" }

func (c getCmd[T]) Run(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	asJSON := fs.Bool("json", false, "print the raw record")
	if err := fs.Parse(args); err != nil || fs.NArg() != 1 {
		return ErrUsage
	}
	app, done, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer done()
	st := c.r.store(app)
	if !st.GetByID(ctx, fs.Arg(0)) {
		return outcome(app, false)
	}
	rec := st.Snapshot().Current
	if *asJSON {
		enc := json.NewEncoder(Out)
		enc.SetIndent("", "  ")
		return enc.Encode(rec)
	}
	for _, col := range c.r.columns {
		fmt.Fprintf(Out, "%-16s %s\n", col.Header+":", col.Cell(*rec))
	}
	return nil
}

// --- create / update / delete ---

type createCmd[T any] struct{ r resource[T] }

func (c createCmd[T]) Name() string        { return c.r.singular + "-create" }
func (c createCmd[T]) Description() string { return "Create a " + c.r.singular }
func (c createCmd[T]) Usage() string       { return c.r.singular + "-create [flags] (see -h)" }

func (c createCmd[T]) Run(ctx context.Context, cfg *config.Config, args []string) error {
	draft, err := c.r.draft(args)
	if errors.Is(err, forms.ErrFlags) {
		return ErrUsage
	}
	app, done, oerr := openApp(cfg)
	if oerr != nil {
		return oerr
	}
	defer done()
	if reportInvalid(app, err) {
		return ErrFailed
	}
	return outcome(app, c.r.store(app).Create(ctx, draft))
}

type updateCmd[T any] struct{ r resource[T] }

func (c updateCmd[T]) Name() string        { return c.r.singular + "-update" }
func (c updateCmd[T]) Description() string { return "Update fields of a " + c.r.singular }
func (c updateCmd[T]) Usage() string       { return c.r.singular + "-update [flags] <id>" }

func (c updateCmd[T]) Run(ctx context.Context, cfg *config.Config, args []string) error {
	id, patch, err := c.r.patch(args)
	if errors.Is(err, forms.ErrFlags) || errors.Is(err, forms.ErrMissingID) || errors.Is(err, forms.ErrNoChanges) {
		return ErrUsage
	}
	app, done, oerr := openApp(cfg)
	if oerr != nil {
		return oerr
	}
	defer done()
	if reportInvalid(app, err) {
		return ErrFailed
	}
	return outcome(app, c.r.store(app).Update(ctx, id, patch))
}

type deleteCmd[T any] struct{ r resource[T] }

func (c deleteCmd[T]) Name() string        { return c.r.singular + "-delete" }
func (c deleteCmd[T]) Description() string { return "Soft-delete a " + c.r.singular }
func (c deleteCmd[T]) Usage() string       { return c.r.singular + "-delete <id>" }

func (c deleteCmd[T]) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return ErrUsage
	}
	app, done, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer done()
	return outcome(app, c.r.store(app).Delete(ctx, args[0]))
}

// reportInvalid shows client-side form errors as toasts. It reports whether err was non-nil.
func reportInvalid(app *bootstrap.App, err error) bool {
	if err == nil {
		return false
	}
	var inv forms.Invalid
	if errors.As(err, &inv) {
		for _, m := range inv.Messages() {
			app.Notifier.Error(m)
		}
		return true
	}
	app.Notifier.Error(err.Error())
	return true
}

// registerResource registers list and get, plus mutations when the resource has forms.
func registerResource[T any](r resource[T]) {
	RegisterCmd(listCmd[T]{r})
	RegisterCmd(getCmd[T]{r})
	if r.draft != nil {
		RegisterCmd(createCmd[T]{r})
	}
	if r.patch != nil {
		RegisterCmd(updateCmd[T]{r})
		RegisterCmd(deleteCmd[T]{r})
	}
}

func anyDraft[D any](fn func([]string) (D, error)) func([]string) (any, error) {
	return func(args []string) (any, error) { return fn(args) }
}

func init() {
	registerResource(resource[model.User]{
		plural:   "users",
		singular: "user",
		store:    func(a *bootstrap.App) *store.Store[model.User] { return a.Users },
		columns:  userColumns,
		rowID:    func(u model.User) string { return u.ID },
		filters:  map[string]string{"diabetesType": "filter by diabetes type", "status": "active|deleted"},
		draft:    anyDraft(forms.UserDraft),
		patch:    forms.UserPatch,
	})
	registerResource(resource[model.Admin]{
		plural:   "admins",
		singular: "admin",
		store:    func(a *bootstrap.App) *store.Store[model.Admin] { return a.Admins },
		columns:  adminColumns,
		rowID:    func(a model.Admin) string { return a.ID },
		filters:  map[string]string{"role": "admin|super_admin"},
		draft:    anyDraft(forms.AdminDraft),
		patch:    forms.AdminPatch,
	})
	registerResource(resource[model.Food]{
		plural:   "foods",
		singular: "food",
		store:    func(a *bootstrap.App) *store.Store[model.Food] { return a.Foods.Store },
		columns:  foodColumns,
		rowID:    func(f model.Food) string { return f.ID },
		filters:  map[string]string{"category": "filter by category", "affordability": "low|medium|high"},
		draft:    anyDraft(forms.FoodDraft),
		patch:    forms.FoodPatch,
	})
	registerResource(resource[model.RuleTemplate]{
		plural:   "rules",
		singular: "rule",
		store:    func(a *bootstrap.App) *store.Store[model.RuleTemplate] { return a.Rules },
		columns:  ruleColumns,
		rowID:    func(r model.RuleTemplate) string { return r.ID },
		filters:  map[string]string{"category": "filter by category", "severity": "info|warning|critical"},
		draft:    anyDraft(forms.RuleDraft),
		patch:    forms.RulePatch,
	})
	registerResource(resource[model.AuditLog]{
		plural:   "audit",
		singular: "audit log",
		store:    func(a *bootstrap.App) *store.Store[model.AuditLog] { return a.Audit },
		columns:  auditColumns,
		rowID:    func(l model.AuditLog) string { return l.ID },
		filters:  map[string]string{"action": "create|update|delete|login", "resource": "users|admins|foods|rules"},
	})
}
