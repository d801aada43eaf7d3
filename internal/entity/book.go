package entity

import (
	"errors"

	"github.com/uptrace/bun"
)

// ErrBookNotFound is returned by stores when a book is missing.
var ErrBookNotFound = errors.New("book not found")

// Book is a catalog entry in the library.
type Book struct {
	bun.BaseModel `bun:"table:books"`

	ID       int64   `bun:",pk,autoincrement"`
	Title    string  `bun:"title"`
	Author   string  `bun:"author"`
	Price    float64 `bun:"price"`
	Featured bool    `bun:"featured"`
}

// Description renders the catalog blurb for the book.
func (b *Book) Description() string {
	return b.Title + " by " + b.Author
}
