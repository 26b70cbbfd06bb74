package lendingsvc

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"booklending/internal/domain"
	"booklending/internal/infra/logging"
	"booklending/internal/repo/document"
)

// LendingService owns the catalog and the lending ledger. Every operation is
// one load-mutate-save cycle through the store's transactor, so the borrow
// and return transitions mutate the book and the ledger record as a single
// atomic unit: no reader ever observes a record without the matching
// availability flip.
type LendingService struct {
	Store *document.Transactor
	Log   logging.Logger

	// Now supplies the current time; overridable in tests.
	Now func() time.Time
}

// NewLendingService creates a new LendingService backed by the given transactor.
func NewLendingService(store *document.Transactor) *LendingService {
	return &LendingService{
		Store: store,
		Log:   logging.GetLogger("svc.lendingsvc.lending_service"),
		Now:   time.Now,
	}
}

// AddBook inserts a new catalog entry with a fresh id, available for lending.
func (s *LendingService) AddBook(
	ctx context.Context,
	title, author, category string,
) (_ *domain.Book, err error) {
	log := s.Log.With(logging.Group("book", "title", title, "author", author))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "add book failed", "error", err)
		} else {
			log.DebugContext(ctx, "book added")
		}
	}()

	book := domain.Book{
		ID:        uuid.NewString(),
		Title:     title,
		Author:    author,
		Category:  category,
		Available: true,
	}

	if err := s.Store.Update(ctx, func(doc *domain.Document) error {
		doc.Books = append(doc.Books, book)

		return nil
	}); err != nil {
		return nil, fmt.Errorf("add book: %w", err)
	}

	return &book, nil
}

// ListBooks returns catalog entries in insertion order. A non-empty category
// restricts the result to exact category matches.
func (s *LendingService) ListBooks(ctx context.Context, category string) (books []domain.Book, err error) {
	if err := s.Store.View(ctx, func(doc *domain.Document) error {
		books = make([]domain.Book, 0, len(doc.Books))

		for _, book := range doc.Books {
			if category != "" && book.Category != category {
				continue
			}

			books = append(books, book)
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}

	return books, nil
}

// ListCategories returns the distinct categories across all books, in order
// of first occurrence.
func (s *LendingService) ListCategories(ctx context.Context) (categories []string, err error) {
	if err := s.Store.View(ctx, func(doc *domain.Document) error {
		categories = doc.Categories()

		return nil
	}); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

// Borrow records a lending transaction for the given book on behalf of the
// acting user. The borrower name is free text and need not match a
// registered user. Returns domain.ErrBookNotFound if the book id does not
// resolve and domain.ErrBookUnavailable if the book is already lent out;
// in both cases the document is left unchanged.
func (s *LendingService) Borrow(
	ctx context.Context,
	bookID, borrowerName string,
	dueDate time.Time,
	userID string,
) (_ *domain.BorrowRecord, err error) {
	log := s.Log.With(logging.Group("borrow",
		"bookId", bookID,
		"borrowerName", borrowerName,
		"userId", userID,
	))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "borrow failed", "error", err)
		} else {
			log.DebugContext(ctx, "book borrowed")
		}
	}()

	var record domain.BorrowRecord

	if err := s.Store.Update(ctx, func(doc *domain.Document) error {
		book, exists := doc.FindBook(bookID)
		if !exists {
			return domain.ErrBookNotFound
		}

		if !book.Available {
			return domain.ErrBookUnavailable
		}

		record = domain.BorrowRecord{
			ID:           uuid.NewString(),
			BookID:       book.ID,
			BookTitle:    book.Title,
			BookAuthor:   book.Author,
			Category:     book.Category,
			BorrowerName: borrowerName,
			BorrowedBy:   userID,
			BorrowedAt:   s.Now(),
			DueDate:      dueDate,
			Returned:     false,
		}

		book.Available = false
		doc.BorrowRecords = append(doc.BorrowRecords, record)

		return nil
	}); err != nil {
		return nil, fmt.Errorf("borrow book: %w", err)
	}

	return &record, nil
}

// Return closes a lending transaction: marks the record returned, stamps the
// return time and flips the referenced book back to available. A book that
// has disappeared from the catalog is tolerated silently; the ledger update
// still commits. Returns domain.ErrBorrowRecordNotFound if the record id
// does not resolve and domain.ErrAlreadyReturned on a double return; in both
// cases the document is left unchanged.
func (s *LendingService) Return(ctx context.Context, recordID string) (_ *domain.BorrowRecord, err error) {
	log := s.Log.With(logging.Group("return", "recordId", recordID))

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "return failed", "error", err)
		} else {
			log.DebugContext(ctx, "book returned")
		}
	}()

	var record domain.BorrowRecord

	if err := s.Store.Update(ctx, func(doc *domain.Document) error {
		found, exists := doc.FindBorrowRecord(recordID)
		if !exists {
			return domain.ErrBorrowRecordNotFound
		}

		if found.Returned {
			return domain.ErrAlreadyReturned
		}

		returnedAt := s.Now()
		found.Returned = true
		found.ReturnedAt = &returnedAt

		if book, exists := doc.FindBook(found.BookID); exists {
			book.Available = true
		}

		record = *found

		return nil
	}); err != nil {
		return nil, fmt.Errorf("return book: %w", err)
	}

	return &record, nil
}

// QueryBorrowed returns the borrow records created by the given user, in
// ledger insertion order, narrowed by the filter. A caller never sees
// another user's borrow activity through this path.
func (s *LendingService) QueryBorrowed(
	ctx context.Context,
	userID string,
	filter BorrowFilter,
) (records []domain.BorrowRecord, err error) {
	now := s.Now()

	if err := s.Store.View(ctx, func(doc *domain.Document) error {
		records = []domain.BorrowRecord{}

		for _, record := range doc.BorrowRecords {
			if record.BorrowedBy != userID {
				continue
			}

			if filter.Matches(record, now) {
				records = append(records, record)
			}
		}

		return nil
	}); err != nil {
		return nil, fmt.Errorf("query borrowed: %w", err)
	}

	return records, nil
}
