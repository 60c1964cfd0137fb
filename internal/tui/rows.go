package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/ui"
	"github.com/idilsaglam/tada/internal/view"
)

// todoRowsHeight is how many todos the list screen shows per page.
const todoRowsHeight = 10

// listRow adapts a model.List to bubbles/list.
type listRow struct{ list model.List }

func (r listRow) FilterValue() string { return r.list.Title }

// todoRow adapts a model.Item to bubbles/list.
type todoRow struct{ item model.Item }

func (r todoRow) FilterValue() string { return r.item.Title }

// rowDelegate renders every entry on a single line. The cursor is only drawn
// while the rows have focus.
type rowDelegate struct{ focused bool }

func (d rowDelegate) Height() int                             { return 1 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }
func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	t := ui.Current()
	var line string
	switch r := item.(type) {
	case listRow:
		line = fmt.Sprintf("%s  %s", ui.Truncate(r.list.Title, 60),
			t.Muted.Render(fmt.Sprintf("(%d)", len(r.list.Items))))
	case todoRow:
		line = fmt.Sprintf("%s  %s", ui.Truncate(r.item.Title, 80), t.Muted.Render(r.item.Date))
	default:
		return
	}
	if d.focused && index == m.Index() {
		fmt.Fprint(w, t.Selected.Render(t.Cursor)+line)
		return
	}
	fmt.Fprint(w, "  "+line)
}

// substringFilter keeps targets containing term, ignoring case, in their
// original order. The list's default filter is fuzzy.
func substringFilter(term string, targets []string) []list.Rank {
	ranks := make([]list.Rank, 0, len(targets))
	for i, target := range targets {
		if view.Match(target, term) {
			ranks = append(ranks, list.Rank{Index: i})
		}
	}
	return ranks
}

// newRows builds a bare list showing height rows per page. Title, status bar,
// help and pagination are drawn by the screens themselves, so the list's page
// size is exactly height.
func newRows(height int, name, plural string) list.Model {
	l := list.New(nil, rowDelegate{}, 0, height)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.SetShowFilter(false)
	l.SetFilteringEnabled(true)
	l.DisableQuitKeybindings()
	l.SetStatusBarItemName(name, plural)
	l.Filter = substringFilter
	l.Paginator.PerPage = height
	return l
}

func clampIndex(i, n int) int {
	return max(min(i, n-1), 0)
}
