package store

import (
	"strings"

	"github.com/idilsaglam/tada/internal/model"
)

// The functions below never modify their input. Each returns a fresh
// collection and whether anything matched.

// cleanTitle replaces invalid UTF-8 the same way encoding/json does, so the
// in-memory title equals the persisted one.
func cleanTitle(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}

func addList(lists []model.List, l model.List) ([]model.List, bool) {
	out := make([]model.List, 0, len(lists)+1)
	out = append(out, lists...)
	l = l.Clone()
	l.Title = cleanTitle(l.Title)
	for i := range l.Items {
		l.Items[i].Title = cleanTitle(l.Items[i].Title)
	}
	return append(out, l), true
}

func updateList(lists []model.List, id, title string) ([]model.List, bool) {
	title = cleanTitle(title)
	out := make([]model.List, len(lists))
	matched := false
	for i, l := range lists {
		if l.ID == id {
			l.Title = title
			matched = true
		}
		out[i] = l
	}
	return out, matched
}

func deleteList(lists []model.List, id string) ([]model.List, bool) {
	out := make([]model.List, 0, len(lists))
	for _, l := range lists {
		if l.ID != id {
			out = append(out, l)
		}
	}
	return out, len(out) != len(lists)
}

func addTodo(lists []model.List, listID string, it model.Item) ([]model.List, bool) {
	it.Title = cleanTitle(it.Title)
	out := make([]model.List, len(lists))
	matched := false
	for i, l := range lists {
		if l.ID == listID {
			items := make([]model.Item, 0, len(l.Items)+1)
			items = append(items, l.Items...)
			l.Items = append(items, it)
			matched = true
		}
		out[i] = l
	}
	return out, matched
}

func updateTodo(lists []model.List, listID, itemID, title string) ([]model.List, bool) {
	title = cleanTitle(title)
	out := make([]model.List, len(lists))
	matched := false
	for i, l := range lists {
		if l.ID == listID {
			items := make([]model.Item, len(l.Items))
			for j, it := range l.Items {
				if it.ID == itemID {
					it.Title = title
					matched = true
				}
				items[j] = it
			}
			l.Items = items
		}
		out[i] = l
	}
	return out, matched
}

func deleteTodo(lists []model.List, listID, itemID string) ([]model.List, bool) {
	out := make([]model.List, len(lists))
	matched := false
	for i, l := range lists {
		if l.ID == listID {
			items := make([]model.Item, 0, len(l.Items))
			for _, it := range l.Items {
				if it.ID != itemID {
					items = append(items, it)
				}
			}
			matched = len(items) != len(l.Items)
			l.Items = items
		}
		out[i] = l
	}
	return out, matched
}
