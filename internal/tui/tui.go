// Package tui is the interactive front end: an overview of lists and a
// per-list todo screen, both backed by a store.Store.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
	"github.com/idilsaglam/tada/internal/ui"
	"github.com/idilsaglam/tada/internal/view"
)

type screen int

const (
	screenOverview screen = iota
	screenList
)

type focus int

const (
	focusInput focus = iota
	focusSearch
	focusRows
)

// listsMsg carries a collection published by the store.
type listsMsg []model.List

// subClosedMsg means the store stopped publishing.
type subClosedMsg struct{}

// Options tune the interactive screens.
type Options struct {
	PageSize int
}

type Model struct {
	store    *store.Store
	sub      <-chan []model.List
	unsub    func()
	now      func() time.Time
	pageSize int

	lists    []model.List
	hydrated bool
	screen   screen
	focus    focus

	input  textinput.Model
	search textinput.Model

	// overview
	rows          list.Model
	editingListID string

	// list screen
	todos         list.Model
	listID        string
	editingTodoID string

	errMsg string
	keys   keyMap
	help   help.Model
	width  int
	height int
}

// New subscribes to st. Call Close (or let Run do it) to unsubscribe.
func New(st *store.Store, opt Options) Model {
	if opt.PageSize <= 0 {
		opt.PageSize = view.DefaultPageSize
	}
	sub, unsub := st.Subscribe()

	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "Enter Title or Name"
	in.CharLimit = 200
	in.Focus()

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search for a list"
	search.CharLimit = 100

	return Model{
		store:    st,
		sub:      sub,
		unsub:    unsub,
		now:      time.Now,
		pageSize: opt.PageSize,
		lists:    []model.List{},
		rows:     newRows(opt.PageSize, "list", "lists"),
		todos:    newRows(todoRowsHeight, "todo", "todos"),
		input:    in,
		search:   search,
		keys:     defaultKeys(),
		help:     help.New(),
	}
}

// Close unsubscribes from the store.
func (m Model) Close() {
	if m.unsub != nil {
		m.unsub()
	}
}

// Run starts the program on the alt screen and blocks until the user quits.
func Run(st *store.Store, opt Options) error {
	m := New(st, opt)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}

func waitForLists(ch <-chan []model.List) tea.Cmd {
	return func() tea.Msg {
		lists, ok := <-ch
		if !ok {
			return subClosedMsg{}
		}
		return listsMsg(lists)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForLists(m.sub), textinput.Blink)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.rows.SetWidth(msg.Width)
		m.todos.SetWidth(msg.Width)
		return m, nil

	case listsMsg:
		m.lists = []model.List(msg)
		m.hydrated = true
		m.syncRows()
		return m, waitForLists(m.sub)

	case subClosedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if !m.hydrated {
			return m, nil
		}
		if m.screen == screenList {
			return m.updateList(msg)
		}
		return m.updateOverview(msg)
	}

	return m.updateInputs(msg)
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	cmds = append(cmds, cmd)
	m.search, cmd = m.search.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m Model) selectedList() (model.List, bool) {
	r, ok := m.rows.SelectedItem().(listRow)
	return r.list, ok
}

func (m Model) updateOverview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Focus) {
		m.cycleFocus(focusInput, focusSearch, focusRows)
		return m, nil
	}

	switch m.focus {
	case focusInput:
		switch {
		case key.Matches(msg, m.keys.Submit):
			m.submitList()
			return m, nil
		case key.Matches(msg, m.keys.Cancel):
			m.cancelEdit()
			m.setFocus(focusRows)
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.errMsg = ""
		return m, cmd

	case focusSearch:
		if key.Matches(msg, m.keys.Cancel) || key.Matches(msg, m.keys.Submit) {
			m.setFocus(focusRows)
			return m, nil
		}
		before := m.search.Value()
		var cmd tea.Cmd
		m.search, cmd = m.search.Update(msg)
		if m.search.Value() != before {
			m.applySearch()
		}
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up, m.keys.Down, m.keys.PrevPage, m.keys.NextPage):
		var cmd tea.Cmd
		m.rows, cmd = m.rows.Update(msg)
		return m, cmd
	case key.Matches(msg, m.keys.Open):
		if l, ok := m.selectedList(); ok {
			m.openList(l)
		}
	case key.Matches(msg, m.keys.Edit):
		if l, ok := m.selectedList(); ok {
			m.editingListID = l.ID
			m.input.SetValue(l.Title)
			m.input.CursorEnd()
			m.setFocus(focusInput)
		}
	case key.Matches(msg, m.keys.Delete):
		if l, ok := m.selectedList(); ok {
			m.store.DeleteList(l.ID)
			m.refresh()
		}
	}
	return m, nil
}

func (m *Model) submitList() {
	title, err := view.ValidateTitle(m.input.Value())
	if err != nil {
		m.errMsg = errorText(err)
		return
	}
	if m.editingListID != "" {
		m.store.UpdateList(m.editingListID, title)
		m.editingListID = ""
	} else {
		m.store.AddList(view.NewList(title))
	}
	m.input.SetValue("")
	m.errMsg = ""
	m.refresh()
}

func (m *Model) openList(l model.List) {
	m.screen = screenList
	m.listID = l.ID
	m.editingListID = ""
	m.editingTodoID = ""
	m.errMsg = ""
	m.input.SetValue("")
	m.input.Placeholder = "Todo title"
	m.todos.Select(0)
	m.syncTodos(l)
	m.setFocus(focusInput)
}

func (m Model) currentList() (model.List, bool) {
	for _, l := range m.lists {
		if l.ID == m.listID {
			return l, true
		}
	}
	return model.List{}, false
}

func (m Model) selectedTodo() (model.Item, bool) {
	r, ok := m.todos.SelectedItem().(todoRow)
	return r.item, ok
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Focus) {
		m.cycleFocus(focusInput, focusRows)
		return m, nil
	}

	if m.focus == focusInput {
		switch {
		case key.Matches(msg, m.keys.Submit):
			m.submitTodo()
			return m, nil
		case key.Matches(msg, m.keys.Cancel):
			if m.editingTodoID != "" {
				m.cancelEdit()
				return m, nil
			}
			m.backToOverview()
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.errMsg = ""
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.backToOverview()
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up, m.keys.Down, m.keys.PrevPage, m.keys.NextPage):
		var cmd tea.Cmd
		m.todos, cmd = m.todos.Update(msg)
		return m, cmd
	case key.Matches(msg, m.keys.Edit):
		if it, ok := m.selectedTodo(); ok {
			m.editingTodoID = it.ID
			m.input.SetValue(it.Title)
			m.input.CursorEnd()
			m.setFocus(focusInput)
		}
	case key.Matches(msg, m.keys.Delete):
		if it, ok := m.selectedTodo(); ok {
			m.store.DeleteTodo(m.listID, it.ID)
			m.refresh()
		}
	}
	return m, nil
}

func (m *Model) submitTodo() {
	title, err := view.ValidateTitle(m.input.Value())
	if err != nil {
		m.errMsg = errorText(err)
		return
	}
	if m.editingTodoID != "" {
		m.store.UpdateTodo(m.listID, m.editingTodoID, title)
		m.editingTodoID = ""
	} else {
		m.store.AddTodo(m.listID, view.NewItem(title, m.now()))
	}
	m.input.SetValue("")
	m.errMsg = ""
	m.refresh()
}

func (m *Model) backToOverview() {
	m.screen = screenOverview
	m.listID = ""
	m.editingTodoID = ""
	m.errMsg = ""
	m.input.SetValue("")
	m.input.Placeholder = "Enter Title or Name"
	m.setFocus(focusRows)
}

// refresh reads the store right after a mutation so the next frame shows it
// without waiting for the subscription.
func (m *Model) refresh() {
	m.lists = m.store.Lists()
	m.syncRows()
}

// syncRows loads m.lists into both row lists, keeping the selection where
// it was as far as the new contents allow.
func (m *Model) syncRows() {
	items := make([]list.Item, len(m.lists))
	for i, l := range m.lists {
		items[i] = listRow{list: l}
	}
	idx := m.rows.Index()
	m.rows.Select(0)
	// A filtered list re-filters asynchronously; applySearch does it now.
	_ = m.rows.SetItems(items)
	m.applySearch()
	m.rows.Select(clampIndex(idx, len(m.rows.VisibleItems())))

	if m.screen != screenList {
		return
	}
	l, ok := m.currentList()
	if !ok {
		// The list was deleted underneath us.
		m.backToOverview()
		return
	}
	m.syncTodos(l)
}

// applySearch filters the rows by the search box and selects the first match.
func (m *Model) applySearch() {
	m.rows.Select(0)
	if q := m.search.Value(); q != "" {
		m.rows.SetFilterText(q)
	} else {
		m.rows.ResetFilter()
	}
	m.rows.Select(0)
}

func (m *Model) syncTodos(l model.List) {
	items := make([]list.Item, len(l.Items))
	for i, it := range l.Items {
		items[i] = todoRow{item: it}
	}
	idx := m.todos.Index()
	m.todos.Select(0)
	_ = m.todos.SetItems(items)
	m.todos.Select(clampIndex(idx, len(items)))
}

func (m *Model) cancelEdit() {
	m.editingListID = ""
	m.editingTodoID = ""
	m.input.SetValue("")
	m.errMsg = ""
}

func (m *Model) setFocus(f focus) {
	m.focus = f
	m.input.Blur()
	m.search.Blur()
	switch f {
	case focusInput:
		m.input.Focus()
	case focusSearch:
		m.search.Focus()
	}
	m.rows.SetDelegate(rowDelegate{focused: f == focusRows && m.screen == screenOverview})
	m.todos.SetDelegate(rowDelegate{focused: f == focusRows && m.screen == screenList})
}

func (m *Model) cycleFocus(order ...focus) {
	for i, f := range order {
		if f == m.focus {
			m.setFocus(order[(i+1)%len(order)])
			return
		}
	}
	m.setFocus(order[0])
}

func errorText(err error) string {
	if errors.Is(err, view.ErrInvalidInput) {
		return "Input Error: " + view.InvalidInputMessage
	}
	return err.Error()
}

func (m Model) View() string {
	t := ui.Current()
	if !m.hydrated {
		return panelString(t.Muted.Render("Loading lists..."))
	}

	var b strings.Builder
	if m.screen == screenList {
		m.viewList(&b)
	} else {
		m.viewOverview(&b)
	}
	if m.errMsg != "" {
		b.WriteString("\n" + t.Error.Render(m.errMsg))
	}
	b.WriteString("\n\n" + m.help.View(m.keys))
	return panelString(b.String())
}

func (m Model) viewOverview(b *strings.Builder) {
	t := ui.Current()
	b.WriteString(t.Title.Render("Your Todo Lists") + "\n\n")
	b.WriteString(m.search.View() + "\n")
	b.WriteString(m.input.View() + "\n")
	action := "Add List"
	if m.editingListID != "" {
		action = "Update List"
	}
	b.WriteString(t.Muted.Render("enter: "+action) + "\n\n")

	b.WriteString(m.rows.View() + "\n")
	pg := m.rows.Paginator
	b.WriteString("\n" + t.Muted.Render(fmt.Sprintf("Page %d of %d", pg.Page+1, pg.TotalPages)))
}

func (m Model) viewList(b *strings.Builder) {
	t := ui.Current()
	l, _ := m.currentList()
	b.WriteString(t.Title.Render(l.Title+" Todos") + "\n\n")
	b.WriteString(m.input.View() + "\n")
	action := "Add Todo"
	if m.editingTodoID != "" {
		action = "Update Todo"
	}
	b.WriteString(t.Muted.Render("enter: "+action) + "\n\n")

	b.WriteString(m.todos.View())
	if pg := m.todos.Paginator; pg.TotalPages > 1 {
		b.WriteString("\n\n" + t.Muted.Render(fmt.Sprintf("Page %d of %d", pg.Page+1, pg.TotalPages)))
	}
}

func panelString(inner string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("8")).
		Padding(0, 1)
	return border.Render(inner)
}
