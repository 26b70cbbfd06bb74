package domain

// Document is the single persisted unit of state. It is always loaded and
// replaced as a whole; a reader never observes a partially written document.
type Document struct {
	Users         []User         `json:"users"`
	Books         []Book         `json:"books"`
	BorrowRecords []BorrowRecord `json:"borrowedBooks"`
}

// NewDocument returns an empty document with all three collections present.
func NewDocument() *Document {
	return &Document{
		Users:         []User{},
		Books:         []Book{},
		BorrowRecords: []BorrowRecord{},
	}
}

// FindUserByUsername returns the user with the given username, if any.
func (d *Document) FindUserByUsername(username string) (*User, bool) {
	for i := range d.Users {
		if d.Users[i].Username == username {
			return &d.Users[i], true
		}
	}

	return nil, false
}

// FindBook returns the book with the given id, if any.
func (d *Document) FindBook(id string) (*Book, bool) {
	for i := range d.Books {
		if d.Books[i].ID == id {
			return &d.Books[i], true
		}
	}

	return nil, false
}

// FindBorrowRecord returns the borrow record with the given id, if any.
func (d *Document) FindBorrowRecord(id string) (*BorrowRecord, bool) {
	for i := range d.BorrowRecords {
		if d.BorrowRecords[i].ID == id {
			return &d.BorrowRecords[i], true
		}
	}

	return nil, false
}

// ActiveBorrowForBook returns the non-returned borrow record referencing the
// given book id, if any. The ledger guarantees at most one exists.
func (d *Document) ActiveBorrowForBook(bookID string) (*BorrowRecord, bool) {
	for i := range d.BorrowRecords {
		if d.BorrowRecords[i].BookID == bookID && !d.BorrowRecords[i].Returned {
			return &d.BorrowRecords[i], true
		}
	}

	return nil, false
}

// Categories returns the distinct category strings across all books, in
// order of first occurrence.
func (d *Document) Categories() []string {
	seen := make(map[string]struct{}, len(d.Books))
	categories := make([]string, 0, len(d.Books))

	for _, book := range d.Books {
		if _, ok := seen[book.Category]; ok {
			continue
		}

		seen[book.Category] = struct{}{}
		categories = append(categories, book.Category)
	}

	return categories
}
