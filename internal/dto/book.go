package dto

import "github.com/Additional-Code/orderflow/internal/entity"

// BookResponse represents a catalog book as exposed via transport layers.
type BookResponse struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Featured    bool    `json:"featured"`
}

// FromBook maps a book entity onto its transport shape.
func FromBook(book *entity.Book) BookResponse {
	return BookResponse{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		Description: book.Description(),
		Price:       book.Price,
		Featured:    book.Featured,
	}
}
