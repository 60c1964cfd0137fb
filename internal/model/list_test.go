package model

import (
	"encoding/json"
	"testing"
)

func TestList_UnmarshalAcceptsItemsAlias(t *testing.T) {
	var l List
	if err := json.Unmarshal([]byte(`{"id":"1","title":"Groceries","items":[{"id":"a","title":"Milk","date":"1/1/2024"}]}`), &l); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(l.Items) != 1 || l.Items[0].Title != "Milk" {
		t.Fatalf("expected one item Milk, got %#v", l.Items)
	}
}

func TestList_UnmarshalMissingTodosIsEmpty(t *testing.T) {
	var l List
	if err := json.Unmarshal([]byte(`{"id":"1","title":"Empty"}`), &l); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if l.Items == nil {
		t.Fatal("expected non-nil item sequence")
	}
}

func TestList_MarshalUsesTodosKey(t *testing.T) {
	b, err := json.Marshal(List{ID: "1", Title: "T", Items: []Item{}})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got, want := string(b), `{"id":"1","title":"T","todos":[]}`; got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestCloneLists_DoesNotShareItems(t *testing.T) {
	orig := []List{{ID: "1", Title: "T", Items: []Item{{ID: "a", Title: "x"}}}}
	cp := CloneLists(orig)
	cp[0].Items[0].Title = "changed"
	if orig[0].Items[0].Title != "x" {
		t.Fatal("clone shares backing array with original")
	}
	if CloneLists(nil) == nil {
		t.Fatal("expected non-nil result for nil input")
	}
}
