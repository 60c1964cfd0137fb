package model

import "encoding/json"

// List is a named, ordered collection of items.
// Items keep insertion order and are never reordered.
type List struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Items []Item `json:"todos"`
}

// UnmarshalJSON accepts both "todos" and "items" for the item sequence.
func (l *List) UnmarshalJSON(b []byte) error {
	var raw struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Todos []Item `json:"todos"`
		Items []Item `json:"items"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	l.ID = raw.ID
	l.Title = raw.Title
	l.Items = raw.Todos
	if l.Items == nil {
		l.Items = raw.Items
	}
	if l.Items == nil {
		l.Items = []Item{}
	}
	return nil
}

// Clone returns a deep copy whose item sequence is never nil.
func (l List) Clone() List {
	items := make([]Item, len(l.Items))
	copy(items, l.Items)
	l.Items = items
	return l
}

// CloneLists deep-copies a collection. The result is never nil.
func CloneLists(lists []List) []List {
	out := make([]List, len(lists))
	for i, l := range lists {
		out[i] = l.Clone()
	}
	return out
}
