// Package view derives what the screens show from the store's collection:
// search, page bounds, input validation and new-entity stamps.
package view

import (
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/paginator"
	"github.com/google/uuid"

	"github.com/idilsaglam/tada/internal/model"
)

// DefaultPageSize is how many lists the overview shows at once.
const DefaultPageSize = 8

// ErrInvalidInput is returned for blank titles.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputMessage is what the screens show for ErrInvalidInput.
const InvalidInputMessage = "Please enter a valid todo"

// ValidateTitle trims s and rejects it if nothing is left. Invalid UTF-8 is
// replaced with U+FFFD so the title survives a snapshot round trip.
func ValidateTitle(s string) (string, error) {
	s = strings.TrimSpace(strings.ToValidUTF8(s, "\uFFFD"))
	if s == "" {
		return "", ErrInvalidInput
	}
	return s, nil
}

// Match reports whether title contains query, ignoring case. An empty query
// matches everything.
func Match(title, query string) bool {
	return strings.Contains(strings.ToLower(title), strings.ToLower(query))
}

// Filter keeps lists whose title matches query.
func Filter(lists []model.List, query string) []model.List {
	out := make([]model.List, 0, len(lists))
	for _, l := range lists {
		if Match(l.Title, query) {
			out = append(out, l)
		}
	}
	return out
}

// Pages returns a paginator over n entries, size per page, positioned on the
// 1-based page clamped into range. There is always at least one page.
func Pages(n, page, size int) paginator.Model {
	if size <= 0 {
		size = DefaultPageSize
	}
	p := paginator.New()
	p.Type = paginator.Arabic
	p.PerPage = size
	p.TotalPages = 1
	p.SetTotalPages(n)
	p.Page = min(max(page-1, 0), p.TotalPages-1)
	return p
}

// NewID returns a time-ordered unique id for a new list or item.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// FormatDate renders a creation timestamp the way items display it.
func FormatDate(t time.Time) string {
	return t.Format("1/2/2006")
}

// NewList builds a list with a fresh id and no items.
func NewList(title string) model.List {
	return model.List{ID: NewID(), Title: title, Items: []model.Item{}}
}

// NewItem builds an item with a fresh id stamped with now.
func NewItem(title string, now time.Time) model.Item {
	return model.Item{ID: NewID(), Title: title, Date: FormatDate(now)}
}
