package model

// Item is a single todo entry. It belongs to exactly one List.
type Item struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
}
