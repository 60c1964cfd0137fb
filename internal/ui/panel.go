package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/idilsaglam/tada/internal/model"
)

// Panel draws a framed box using the current theme.
func Panel(w io.Writer, lines []string) {
	t := Current()
	maxw := 0
	for _, ln := range lines {
		if n := lipgloss.Width(ln); n > maxw {
			maxw = n
		}
	}
	fmt.Fprintln(w, t.CornerTL+strings.Repeat(t.H, maxw+2)+t.CornerTR)
	for _, ln := range lines {
		pad := strings.Repeat(" ", maxw-lipgloss.Width(ln))
		fmt.Fprintln(w, t.V+" "+ln+pad+" "+t.V)
	}
	fmt.Fprintln(w, t.CornerBL+strings.Repeat(t.H, maxw+2)+t.CornerBR)
}

// Truncate shortens s to max display cells, ending in "...".
func Truncate(s string, max int) string {
	if max <= 3 {
		return s
	}
	return ansi.Truncate(s, max, "...")
}

// ListLines renders one overview page: header, rows and page indicator.
func ListLines(lists []model.List, page paginator.Model, query string) []string {
	t := Current()
	header := t.Title.Render("Your Todo Lists")
	if query != "" {
		header += "  " + t.Muted.Render(fmt.Sprintf("search: %q", query))
	}
	lines := []string{header, ""}
	start, end := page.GetSliceBounds(len(lists))
	rows := lists[start:end]
	if len(rows) == 0 {
		lines = append(lines, t.Muted.Render("no lists"))
	}
	for _, l := range rows {
		count := t.Muted.Render(fmt.Sprintf("(%d)", len(l.Items)))
		lines = append(lines, fmt.Sprintf("%s %s %s  %s",
			t.Accent.Render(t.Bullet), Truncate(l.Title, 60), count, t.Muted.Render(l.ID)))
	}
	lines = append(lines, "", t.Muted.Render(fmt.Sprintf("Page %d of %d", page.Page+1, page.TotalPages)))
	return lines
}

// TodoLines renders the items of one list.
func TodoLines(l model.List) []string {
	t := Current()
	lines := []string{t.Title.Render(l.Title + " Todos"), ""}
	if len(l.Items) == 0 {
		lines = append(lines, t.Muted.Render("no todos"))
	}
	for i, it := range l.Items {
		lines = append(lines, fmt.Sprintf("%s %s  %s  %s",
			t.Muted.Render(fmt.Sprintf("%2d.", i+1)), Truncate(it.Title, 80),
			t.Muted.Render(it.Date), t.Muted.Render(it.ID)))
	}
	return lines
}
