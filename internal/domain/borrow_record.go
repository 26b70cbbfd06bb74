package domain

import (
	"errors"
	"time"
)

var (
	// ErrBorrowRecordNotFound is returned when a borrow record id does not resolve.
	ErrBorrowRecordNotFound = errors.New("borrow record not found")
	// ErrAlreadyReturned is returned when returning a record that is already returned.
	ErrAlreadyReturned = errors.New("book is already returned")
)

// BorrowRecord is one lending transaction. BookTitle, BookAuthor and Category
// are snapshots of the book at borrow time, kept even if the catalog entry
// changes later. Returned/ReturnedAt are set exactly once by a return
// transition; the record is immutable otherwise.
type BorrowRecord struct {
	ID           string     `json:"id"`                   // Unique identifier
	BookID       string     `json:"bookId"`               // Reference to Book.ID
	BookTitle    string     `json:"bookTitle"`            // Title snapshot at borrow time
	BookAuthor   string     `json:"bookAuthor"`           // Author snapshot at borrow time
	Category     string     `json:"category"`             // Category snapshot at borrow time
	BorrowerName string     `json:"borrowerName"`         // Free-text borrower, not necessarily a User
	BorrowedBy   string     `json:"borrowedBy"`           // User.ID of the authenticated caller
	BorrowedAt   time.Time  `json:"borrowedDate"`         // When the borrow was recorded
	DueDate      time.Time  `json:"dueDate"`              // When the book is due back
	Returned     bool       `json:"returned"`             // True once returned
	ReturnedAt   *time.Time `json:"returnDate,omitempty"` // Present iff Returned
}

// Overdue reports whether the record is still out and was due strictly
// before the calendar day of now. Time-of-day is ignored on both sides.
func (r BorrowRecord) Overdue(now time.Time) bool {
	return !r.Returned && startOfDay(r.DueDate).Before(startOfDay(now))
}

// DueOn reports whether the record's due date falls on the same calendar
// day as the given time.
func (r BorrowRecord) DueOn(day time.Time) bool {
	return startOfDay(r.DueDate).Equal(startOfDay(day))
}

// Due dates are stored as UTC midnights, so calendar days are resolved on
// the UTC calendar regardless of the zone the input carries.
func startOfDay(t time.Time) time.Time {
	year, month, day := t.UTC().Date()

	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
