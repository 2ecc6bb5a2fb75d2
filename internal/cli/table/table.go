// Package table is the generic data table used by every list screen.
// Rows are rendered as aligned text; sort, filter, column visibility and
// selection are local UI state layered on top of the rows the caller supplies.
package table

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strings"
	"text/tabwriter"

	"GluviaAdmin/internal/cli/model"
)

// Column describes one column of a table.
type Column[T any] struct {
	Key    string
	Header string
	Cell   func(T) string
	// Less orders two rows; nil means the rendered cells are compared.
	Less     func(a, b T) bool
	Sortable bool
	Hideable bool
}

// SortDir is the direction of the active sort.
type SortDir int

const (
	SortNone SortDir = iota
	SortAsc
	SortDesc
)

func (d SortDir) String() string {
	switch d {
	case SortAsc:
		return "asc"
	case SortDesc:
		return "desc"
	}
	return "none"
}

// Pagination selects how the table pages its rows. It is either Local or Remote.
type Pagination interface {
	isPagination()
}

// Local — таблица сама режет массив строк на страницы.
type Local struct {
	Page int
	Size int
}

// Remote — страницы принадлежат серверу: таблица выводит строки как есть
// и сообщает о смене страницы через OnPageChange. OnPageChange возвращает
// false, если страницу загрузить не удалось.
type Remote struct {
	Descriptor   model.Pagination
	OnPageChange func(page int) bool
}

func (Local) isPagination() {}
func (Remote) isPagination() {}

// DefaultPageSize is used by Local pagination without an explicit size.
const DefaultPageSize = 10

// Option tunes a table.
type Option func(*config)

type config struct {
	resource string
}

// WithResource sets the plural name used in the empty-state row ("No users found.").
func WithResource(plural string) Option { return func(c *config) { c.resource = plural } }

// Table is a generic data table over rows of type T.
type Table[T any] struct {
	rowID    func(T) string
	cols     []Column[T]
	resource string

	rows     []T
	hidden   map[string]bool
	selected map[string]bool
	filter   string
	sortKey  string
	sortDir  SortDir

	// ровно одно из двух не nil
	local  *Local
	remote *Remote
}

// New creates a table. The pagination mode is fixed for the table's lifetime.
func New[T any](rowID func(T) string, cols []Column[T], p Pagination, opts ...Option) *Table[T] {
	cfg := config{resource: "results"}
	for _, o := range opts {
		o(&cfg)
	}
	t := &Table[T]{
		rowID:    rowID,
		cols:     cols,
		resource: cfg.resource,
		hidden:   map[string]bool{},
		selected: map[string]bool{},
	}
	switch v := p.(type) {
	case Remote:
		t.remote = &v
	case Local:
		if v.Size <= 0 {
			v.Size = DefaultPageSize
		}
		if v.Page < 1 {
			v.Page = 1
		}
		t.local = &v
	default:
		t.local = &Local{Page: 1, Size: DefaultPageSize}
	}
	return t
}

// IsRemote reports whether pages are delegated to the caller.
func (t *Table[T]) IsRemote() bool { return t.remote != nil }

// SetRows replaces the rows. Selection is kept; in local mode the page is
// reset to 1 if it no longer exists.
func (t *Table[T]) SetRows(rows []T) {
	t.rows = slices.Clone(rows)
	if t.local != nil && t.local.Page > max(t.TotalPages(), 1) {
		t.local.Page = 1
	}
}

// SetDescriptor updates the server pagination descriptor (remote mode only).
func (t *Table[T]) SetDescriptor(p model.Pagination) {
	if t.remote != nil {
		t.remote.Descriptor = p
	}
}

func (t *Table[T]) column(key string) (Column[T], bool) {
	for _, c := range t.cols {
		if c.Key == key {
			return c, true
		}
	}
	return Column[T]{}, false
}

// --- сортировка ---

// ToggleSort cycles key through asc → desc → none. Switching to another key
// starts at asc. Unknown and non-sortable keys are ignored.
func (t *Table[T]) ToggleSort(key string) {
	c, ok := t.column(key)
	if !ok || !c.Sortable {
		return
	}
	if t.sortKey != key {
		t.sortKey, t.sortDir = key, SortAsc
		return
	}
	switch t.sortDir {
	case SortAsc:
		t.sortDir = SortDesc
	case SortDesc:
		t.sortKey, t.sortDir = "", SortNone
	default:
		t.sortDir = SortAsc
	}
}

// Sort returns the active sort key and direction.
func (t *Table[T]) Sort() (string, SortDir) { return t.sortKey, t.sortDir }

// --- видимость колонок ---

// ToggleColumn hides or shows a hideable column. It reports whether anything changed.
func (t *Table[T]) ToggleColumn(key string) bool {
	c, ok := t.column(key)
	if !ok || !c.Hideable {
		return false
	}
	t.hidden[key] = !t.hidden[key]
	return true
}

// VisibleColumns returns the columns in definition order, minus hidden ones.
func (t *Table[T]) VisibleColumns() []Column[T] {
	out := make([]Column[T], 0, len(t.cols))
	for _, c := range t.cols {
		if !t.hidden[c.Key] {
			out = append(out, c)
		}
	}
	return out
}

// --- фильтр ---

// SetFilter sets a case-insensitive substring filter over visible cells.
// In remote mode the query is only recorded; filtering is the server's job.
func (t *Table[T]) SetFilter(q string) {
	t.filter = strings.TrimSpace(q)
	if t.local != nil {
		t.local.Page = 1
	}
}

// Filter returns the current filter query.
func (t *Table[T]) Filter() string { return t.filter }

func (t *Table[T]) matches(r T, cols []Column[T]) bool {
	if t.filter == "" {
		return true
	}
	q := strings.ToLower(t.filter)
	for _, c := range cols {
		if strings.Contains(strings.ToLower(c.Cell(r)), q) {
			return true
		}
	}
	return false
}

// processed returns filtered and sorted rows before paging.
func (t *Table[T]) processed() []T {
	rows := t.rows
	if t.local != nil && t.filter != "" {
		cols := t.VisibleColumns()
		rows = make([]T, 0, len(t.rows))
		for _, r := range t.rows {
			if t.matches(r, cols) {
				rows = append(rows, r)
			}
		}
	} else {
		rows = slices.Clone(rows)
	}
	if t.sortDir == SortNone {
		return rows
	}
	c, _ := t.column(t.sortKey)
	compare := func(a, b T) int {
		if c.Less != nil {
			switch {
			case c.Less(a, b):
				return -1
			case c.Less(b, a):
				return 1
			}
			return 0
		}
		return cmp.Compare(strings.ToLower(c.Cell(a)), strings.ToLower(c.Cell(b)))
	}
	if t.sortDir == SortDesc {
		asc := compare
		compare = func(a, b T) int { return -asc(a, b) }
	}
	slices.SortStableFunc(rows, compare)
	return rows
}

// --- пагинация ---

// Page returns the current 1-based page.
func (t *Table[T]) Page() int {
	if t.remote != nil {
		return max(t.remote.Descriptor.Page, 1)
	}
	return t.local.Page
}

// PageSize returns the rows per page.
func (t *Table[T]) PageSize() int {
	if t.remote != nil {
		return t.remote.Descriptor.Limit
	}
	return t.local.Size
}

// TotalRows is the number of rows across all pages (after filtering in local mode).
func (t *Table[T]) TotalRows() int {
	if t.remote != nil {
		return t.remote.Descriptor.Total
	}
	return len(t.processed())
}

// TotalPages is ceil(TotalRows / PageSize).
func (t *Table[T]) TotalPages() int {
	if t.remote != nil {
		return model.TotalPages(t.remote.Descriptor.Total, t.remote.Descriptor.Limit)
	}
	return model.TotalPages(t.TotalRows(), t.local.Size)
}

// CanPrev is false exactly on page 1.
func (t *Table[T]) CanPrev() bool { return t.Page() > 1 }

// CanNext is false exactly on the last page (or when there are no pages).
func (t *Table[T]) CanNext() bool { return t.Page() < t.TotalPages() }

// NextPage moves forward one page; on the last page it does nothing.
// It reports whether the move happened.
func (t *Table[T]) NextPage() bool {
	if !t.CanNext() {
		return false
	}
	return t.goTo(t.Page() + 1)
}

// PrevPage moves back one page; on page 1 it does nothing.
func (t *Table[T]) PrevPage() bool {
	if !t.CanPrev() {
		return false
	}
	return t.goTo(t.Page() - 1)
}

func (t *Table[T]) goTo(page int) bool {
	if t.remote != nil {
		if t.remote.OnPageChange == nil {
			return false
		}
		return t.remote.OnPageChange(page)
	}
	t.local.Page = page
	return true
}

// SetPageSize changes the local page size and resets to page 1.
// In remote mode the size belongs to the caller and is ignored.
func (t *Table[T]) SetPageSize(n int) {
	if t.local == nil || n <= 0 {
		return
	}
	t.local.Size = n
	t.local.Page = 1
}

// VisibleRows returns the rows of the current page in display order.
func (t *Table[T]) VisibleRows() []T {
	rows := t.processed()
	if t.remote != nil {
		return rows
	}
	from := (t.local.Page - 1) * t.local.Size
	if from >= len(rows) {
		return []T{}
	}
	to := min(from+t.local.Size, len(rows))
	return rows[from:to]
}

// --- выделение ---

// ToggleRow flips the selection of the row with the given id.
func (t *Table[T]) ToggleRow(id string) {
	if t.selected[id] {
		delete(t.selected, id)
		return
	}
	t.selected[id] = true
}

// IsSelected reports whether id is selected.
func (t *Table[T]) IsSelected(id string) bool { return t.selected[id] }

// SelectAllVisible selects every row on the current page.
func (t *Table[T]) SelectAllVisible() {
	for _, r := range t.VisibleRows() {
		t.selected[t.rowID(r)] = true
	}
}

// ClearSelection deselects everything.
func (t *Table[T]) ClearSelection() { clear(t.selected) }

// Selected returns the selected ids: rows in their original order first,
// then ids that are no longer among the rows.
func (t *Table[T]) Selected() []string {
	out := make([]string, 0, len(t.selected))
	seen := make(map[string]bool, len(t.selected))
	for _, r := range t.rows {
		id := t.rowID(r)
		if t.selected[id] && !seen[id] {
			out = append(out, id)
			seen[id] = true
		}
	}
	var rest []string
	for id := range t.selected {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	slices.Sort(rest)
	return append(out, rest...)
}

// --- вывод ---

// EmptyText is the single row shown when there is nothing to render.
func (t *Table[T]) EmptyText() string { return fmt.Sprintf("No %s found.", t.resource) }

// Render writes the current page as an aligned text table followed by a footer.
func (t *Table[T]) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	cols := t.VisibleColumns()

	header := make([]string, 0, len(cols)+1)
	header = append(header, " ")
	for _, c := range cols {
		h := c.Header
		if c.Key == t.sortKey {
			switch t.sortDir {
			case SortAsc:
				h += " ▲"
			case SortDesc:
				h += " ▼"
			}
		}
		header = append(header, h)
	}
	fmt.Fprintln(tw, strings.Join(header, "\t"))

	rows := t.VisibleRows()
	if len(rows) == 0 {
		fmt.Fprintln(tw, " \t"+t.EmptyText())
	}
	for _, r := range rows {
		mark := " "
		if t.selected[t.rowID(r)] {
			mark = "*"
		}
		cells := make([]string, 0, len(cols)+1)
		cells = append(cells, mark)
		for _, c := range cols {
			cells = append(cells, sanitize(c.Cell(r)))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Page %d of %d · %d rows · %d selected\n",
		t.Page(), max(t.TotalPages(), 1), t.TotalRows(), len(t.selected))
	return err
}

// sanitize keeps a cell on one line and out of the column separator.
func sanitize(s string) string {
	return strings.NewReplacer("\t", " ", "\n", " ", "\r", "").Replace(s)
}
