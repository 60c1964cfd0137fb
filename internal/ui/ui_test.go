package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/idilsaglam/tada/internal/model"
	"github.com/idilsaglam/tada/internal/view"
)

func TestPanel_FramesLines(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	var buf bytes.Buffer
	Panel(&buf, []string{"ab", "abcd"})
	want := "+------+\n| ab   |\n| abcd |\n+------+\n"
	if buf.String() != want {
		t.Fatalf("got\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestOKAndFail(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	var buf bytes.Buffer
	OK(&buf, "added")
	Fail(&buf, "boom")
	if got := buf.String(); got != "ok added\nerror: boom\n" {
		t.Fatalf("got %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Fatalf("got %q", got)
	}
	if got := Truncate("abcdefghijkl", 8); got != "abcde..." {
		t.Fatalf("got %q", got)
	}
	// Wide runes count as two cells.
	if got := Truncate("日本語のテキスト", 9); got != "日本語..." {
		t.Fatalf("got %q", got)
	}
	if got := Truncate(strings.Repeat("x", 10000), 6); got != "xxx..." {
		t.Fatalf("got %q", got)
	}
}

func TestListLines_ShowsPageIndicator(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	lists := make([]model.List, 10)
	for i := range lists {
		lists[i] = model.List{ID: string(rune('a' + i)), Title: "L" + string(rune('a'+i))}
	}
	lines := ListLines(lists, view.Pages(len(lists), 2, view.DefaultPageSize), "")
	out := strings.Join(lines, "\n")
	if !strings.Contains(out, "Page 2 of 2") {
		t.Fatalf("missing page indicator:\n%s", out)
	}
	if strings.Contains(out, "La ") || !strings.Contains(out, "Li") || !strings.Contains(out, "Lj") {
		t.Fatalf("wrong rows on page 2:\n%s", out)
	}
}

func TestTodoLines_Empty(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	out := strings.Join(TodoLines(model.List{Title: "Groceries"}), "\n")
	if !strings.Contains(out, "Groceries Todos") || !strings.Contains(out, "no todos") {
		t.Fatalf("unexpected output:\n%s", out)
	}
}
