package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/tada/internal/kv"
	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/store"
)

func newTestModel(t *testing.T, seed ...model.List) (Model, *store.Store) {
	t.Helper()
	st := store.New(context.Background(), kv.NewMemory())
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	if err := st.WaitHydrated(context.Background()); err != nil {
		t.Fatalf("hydrate: %v", err)
	}
	for _, l := range seed {
		st.AddList(l)
	}
	m := New(st, Options{PageSize: 8})
	t.Cleanup(m.Close)
	m.now = func() time.Time { return time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) }

	mAny, _ := m.Update(listsMsg(st.Lists()))
	return mAny.(Model), st
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		mAny, _ := m.Update(k)
		m = mAny.(Model)
	}
	return m
}

func typeText(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func runeKey(r rune) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}} }

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	tab   = tea.KeyMsg{Type: tea.KeyTab}
	esc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestIgnoresKeysUntilHydrated(t *testing.T) {
	st := store.New(context.Background(), kv.NewMemory())
	t.Cleanup(func() { _ = st.Close(context.Background()) })
	m := New(st, Options{})
	t.Cleanup(m.Close)

	m = press(t, m, typeText("x"))
	if m.input.Value() != "" {
		t.Fatalf("input accepted before hydration: %q", m.input.Value())
	}
	if !strings.Contains(m.View(), "Loading") {
		t.Fatalf("expected loading view, got %q", m.View())
	}
}

func TestOverview_AddList(t *testing.T) {
	m, st := newTestModel(t)

	m = press(t, m, typeText("Groceries"), enter)

	lists := st.Lists()
	if len(lists) != 1 || lists[0].Title != "Groceries" || len(lists[0].Items) != 0 {
		t.Fatalf("unexpected lists %#v", lists)
	}
	if m.input.Value() != "" {
		t.Fatalf("input not cleared: %q", m.input.Value())
	}
	if !strings.Contains(m.View(), "Groceries") {
		t.Fatal("new list not rendered")
	}
}

func TestOverview_BlankTitleRejected(t *testing.T) {
	m, st := newTestModel(t)

	m = press(t, m, typeText("   "), enter)

	if len(st.Lists()) != 0 {
		t.Fatal("blank list was added")
	}
	if !strings.Contains(m.errMsg, "Please enter a valid todo") {
		t.Fatalf("expected input error, got %q", m.errMsg)
	}
}

func TestOverview_EditList(t *testing.T) {
	m, st := newTestModel(t, model.List{ID: "1", Title: "Groceries"})

	// tab twice: input -> search -> rows
	m = press(t, m, tab, tab, runeKey('e'))
	if m.focus != focusInput || m.editingListID != "1" || m.input.Value() != "Groceries" {
		t.Fatalf("edit not started: focus=%v editing=%q input=%q", m.focus, m.editingListID, m.input.Value())
	}
	m = press(t, m, typeText(" 2"), enter)

	if l, _ := st.List("1"); l.Title != "Groceries 2" {
		t.Fatalf("title = %q", l.Title)
	}
	if m.editingListID != "" {
		t.Fatal("still in edit mode")
	}
}

func visibleIDs(m Model) []string {
	var ids []string
	for _, it := range m.rows.VisibleItems() {
		ids = append(ids, it.(listRow).list.ID)
	}
	return ids
}

func TestOverview_SearchAndPaginate(t *testing.T) {
	var seed []model.List
	for i := 0; i < 10; i++ {
		seed = append(seed, model.List{ID: string(rune('a' + i)), Title: "List " + string(rune('A'+i))})
	}
	seed = append(seed, model.List{ID: "g", Title: "Groceries"})
	m, _ := newTestModel(t, seed...)

	pg := m.rows.Paginator
	if pg.TotalPages != 2 || pg.ItemsOnPage(len(m.rows.VisibleItems())) != 8 {
		t.Fatalf("unexpected first page: page=%d total=%d", pg.Page, pg.TotalPages)
	}

	m = press(t, m, tab, tab, runeKey('l'))
	pg = m.rows.Paginator
	if pg.Page != 1 || pg.ItemsOnPage(len(m.rows.VisibleItems())) != 3 {
		t.Fatalf("unexpected second page: page=%d", pg.Page)
	}
	if !strings.Contains(m.View(), "Page 2 of 2") {
		t.Fatal("page indicator missing")
	}
	// Next on the last page stays put.
	m = press(t, m, runeKey('l'))
	if m.rows.Paginator.Page != 1 {
		t.Fatalf("page = %d", m.rows.Paginator.Page)
	}

	// Search resets to page 1 and is a case-insensitive substring match.
	m = press(t, m, tab, tab, typeText("GROC"))
	if m.rows.Paginator.Page != 0 {
		t.Fatalf("search should reset page, got %d", m.rows.Paginator.Page)
	}
	if got := visibleIDs(m); len(got) != 1 || got[0] != "g" {
		t.Fatalf("filtered = %v", got)
	}
	if !strings.Contains(m.View(), "Page 1 of 1") {
		t.Fatal("filtered page indicator missing")
	}

	m = press(t, m, tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace},
		tea.KeyMsg{Type: tea.KeyBackspace}, tea.KeyMsg{Type: tea.KeyBackspace}, typeText("gs"))
	// "gs" is a fuzzy match for "Groceries" but not a substring.
	if got := visibleIDs(m); len(got) != 0 {
		t.Fatalf("substring search matched %v", got)
	}
}

func TestOverview_SearchSurvivesStoreUpdates(t *testing.T) {
	m, st := newTestModel(t, model.List{ID: "1", Title: "Groceries"}, model.List{ID: "2", Title: "Work"})

	m = press(t, m, tab, typeText("groc"))
	st.AddList(model.List{ID: "3", Title: "More groceries"})
	mAny, _ := m.Update(listsMsg(st.Lists()))
	m = mAny.(Model)

	if got := visibleIDs(m); len(got) != 2 || got[0] != "1" || got[1] != "3" {
		t.Fatalf("filtered = %v", got)
	}
}

func TestListScreen_AddEditDeleteTodo(t *testing.T) {
	m, st := newTestModel(t, model.List{ID: "1", Title: "Groceries"})

	m = press(t, m, tab, tab, enter)
	if m.screen != screenList || m.listID != "1" {
		t.Fatalf("did not open list: screen=%v id=%q", m.screen, m.listID)
	}
	if !strings.Contains(m.View(), "Groceries Todos") {
		t.Fatal("list title missing")
	}

	m = press(t, m, typeText("Milk"), enter)
	l, _ := st.List("1")
	if len(l.Items) != 1 || l.Items[0].Title != "Milk" || l.Items[0].Date != "1/1/2024" {
		t.Fatalf("unexpected items %#v", l.Items)
	}

	m = press(t, m, tab, runeKey('e'), typeText(" 2%"), enter)
	l, _ = st.List("1")
	if l.Items[0].Title != "Milk 2%" {
		t.Fatalf("title = %q", l.Items[0].Title)
	}

	m = press(t, m, tab, runeKey('d'))
	l, _ = st.List("1")
	if len(l.Items) != 0 {
		t.Fatalf("expected no items, got %#v", l.Items)
	}

	m = press(t, m, esc)
	if m.screen != screenOverview {
		t.Fatal("esc should return to overview")
	}
}

func TestListScreen_BlankTodoShowsInputError(t *testing.T) {
	m, st := newTestModel(t, model.List{ID: "1", Title: "Groceries"})

	m = press(t, m, tab, tab, enter, enter)

	if l, _ := st.List("1"); len(l.Items) != 0 {
		t.Fatal("blank todo added")
	}
	if !strings.Contains(m.View(), "Input Error: Please enter a valid todo") {
		t.Fatal("input error not shown")
	}
}

func TestListScreen_ReturnsWhenListDeletedElsewhere(t *testing.T) {
	m, st := newTestModel(t, model.List{ID: "1", Title: "Groceries"})
	m = press(t, m, tab, tab, enter)

	st.DeleteList("1")
	mAny, _ := m.Update(listsMsg(st.Lists()))
	m = mAny.(Model)

	if m.screen != screenOverview {
		t.Fatal("expected overview after list vanished")
	}
}

func TestOverview_DeleteList(t *testing.T) {
	m, st := newTestModel(t, model.List{ID: "1", Title: "A"}, model.List{ID: "2", Title: "B"})

	m = press(t, m, tab, tab, runeKey('j'), runeKey('d'))

	lists := st.Lists()
	if len(lists) != 1 || lists[0].ID != "1" {
		t.Fatalf("unexpected lists %#v", lists)
	}
	if m.rows.Index() != 0 {
		t.Fatalf("selection not clamped: %d", m.rows.Index())
	}
}
