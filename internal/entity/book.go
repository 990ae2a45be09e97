package entity

import "time"

// Book represents a catalog book. AvailableCopies is maintained by the loan
// layer and must stay within [0, TotalCopies].
type Book struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	AuthorID        int64  `json:"author_id"`
	CategoryID      int64  `json:"category_id"`
	EditorialID     int64  `json:"editorial_id"`
	ISBN            string `json:"isbn,omitempty"`
	Year            int    `json:"year,omitempty"`
	TotalCopies     int    `json:"total_copies"`
	AvailableCopies int    `json:"available_copies"`

	// Joined summaries, populated only by detail listings.
	AuthorName    string `json:"author_name,omitempty"`
	CategoryName  string `json:"category_name,omitempty"`
	EditorialName string `json:"editorial_name,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
