package lendingsvc

import (
	"strings"
	"time"

	"booklending/internal/domain"
)

// BorrowFilter narrows a borrow-record query. Zero-valued fields are no-ops;
// set fields compose conjunctively.
type BorrowFilter struct {
	// Category matches the record's category snapshot exactly.
	Category string

	// BorrowerName matches as a case-insensitive substring of the borrower name.
	BorrowerName string

	// DueDate matches records due on the same calendar day; the zero time
	// disables the filter.
	DueDate time.Time

	// Overdue restricts to records that are not returned and were due
	// strictly before the calendar day of the query.
	Overdue bool
}

// Matches reports whether the record passes every set filter, evaluating
// overdue against now.
func (f BorrowFilter) Matches(record domain.BorrowRecord, now time.Time) bool {
	if f.Category != "" && record.Category != f.Category {
		return false
	}

	if f.BorrowerName != "" &&
		!strings.Contains(strings.ToLower(record.BorrowerName), strings.ToLower(f.BorrowerName)) {
		return false
	}

	if !f.DueDate.IsZero() && !record.DueOn(f.DueDate) {
		return false
	}

	if f.Overdue && !record.Overdue(now) {
		return false
	}

	return true
}
