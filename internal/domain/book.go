package domain

import "errors"

var (
	// ErrBookNotFound is returned when a book id does not resolve.
	ErrBookNotFound = errors.New("book not found")
	// ErrBookUnavailable is returned when borrowing a book that is already lent out.
	ErrBookUnavailable = errors.New("book is already borrowed")
)

// Book is a catalog entry. Available is flipped exclusively by the lending
// ledger's borrow/return transitions; no other path may change it.
type Book struct {
	ID        string `json:"id"`        // Unique identifier
	Title     string `json:"title"`     // Book title
	Author    string `json:"author"`    // Book author
	Category  string `json:"category"`  // Free-text category
	Available bool   `json:"available"` // False while a non-returned borrow record exists
}
