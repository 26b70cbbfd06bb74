package lendingsvc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"booklending/internal/domain"
	context_ "booklending/internal/infra/context"
	"booklending/internal/infra/logging"
	http_ "booklending/internal/infra/transport/http"
)

var (
	// ErrNoTitle is returned when the book title is missing from the request.
	ErrNoTitle = errors.New("no title")
	// ErrNoAuthor is returned when the book author is missing from the request.
	ErrNoAuthor = errors.New("no author")
	// ErrNoCategory is returned when the book category is missing from the request.
	ErrNoCategory = errors.New("no category")
	// ErrNoBookID is returned when the book id is missing from the request.
	ErrNoBookID = errors.New("no book id")
	// ErrNoBorrowerName is returned when the borrower name is missing from the request.
	ErrNoBorrowerName = errors.New("no borrower name")
	// ErrNoBorrowID is returned when the borrow record id is missing from the request.
	ErrNoBorrowID = errors.New("no borrow id")
	// ErrBadDueDate is returned when the due date is missing or unparseable.
	ErrBadDueDate = errors.New("missing or malformed due date")
	// ErrNoSession is returned when a handler runs without a verified session in context.
	ErrNoSession = errors.New("no session in context")
)

// HTTPTransport handles HTTP requests for the catalog and lending ledger.
type HTTPTransport struct {
	lendingSvc *LendingService
	verifier   http_.SessionVerifier
	log        logging.Logger
}

// NewHTTPTransport creates a new HTTPTransport instance.
// It requires a LendingService and a SessionVerifier guarding the
// authenticated endpoints.
func NewHTTPTransport(lendingSvc *LendingService, verifier http_.SessionVerifier) *HTTPTransport {
	return &HTTPTransport{
		lendingSvc: lendingSvc,
		verifier:   verifier,
		log:        logging.GetLogger("svc.lendingsvc.http_transport"),
	}
}

// ServeHTTP implements http.Handler and sets up the lending routes:
// - GET /api/books: List books, optionally filtered by category (public)
// - GET /api/categories: List distinct categories (public)
// - POST /api/books: Add a book (session required)
// - POST /api/borrow: Borrow a book (session required)
// - POST /api/return: Return a borrowed book (session required)
// - GET /api/borrowed: Query the caller's borrow records (session required).
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/books", ht.HandleListBooks)
	mux.HandleFunc("GET /api/categories", ht.HandleListCategories)
	mux.Handle("POST /api/books", ht.authorized(ht.HandleAddBook))
	mux.Handle("POST /api/borrow", ht.authorized(ht.HandleBorrow))
	mux.Handle("POST /api/return", ht.authorized(ht.HandleReturn))
	mux.Handle("GET /api/borrowed", ht.authorized(ht.HandleQueryBorrowed))
	mux.ServeHTTP(w, r)
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

func (ht *HTTPTransport) authorized(next http.HandlerFunc) http.Handler {
	return http_.AuthorizingMiddleware(next, ht.verifier, ht.log)
}

type addBookRequest struct {
	Title    string `json:"title"`
	Author   string `json:"author"`
	Category string `json:"category"`
}

type borrowRequest struct {
	BookID       string `json:"bookId"`
	BorrowerName string `json:"borrowerName"`
	DueDate      string `json:"dueDate"`
}

type returnRequest struct {
	BorrowID string `json:"borrowId"`
}

// HandleListBooks lists catalog entries, optionally restricted to the
// category given in the query string.
func (ht *HTTPTransport) HandleListBooks(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleListBooks(w, r)
}

func (ht *HTTPTransport) handleListBooks(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "list books failed", "error", err)
		} else {
			log.DebugContext(ctx, "books listed")
		}
	}(r.Context())

	books, err := ht.lendingSvc.ListBooks(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return fmt.Errorf("list books: %w", err)
	}

	return writeJSON(w, http.StatusOK, books)
}

// HandleListCategories lists the distinct book categories.
func (ht *HTTPTransport) HandleListCategories(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleListCategories(w, r)
}

func (ht *HTTPTransport) handleListCategories(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "list categories failed", "error", err)
		} else {
			log.DebugContext(ctx, "categories listed")
		}
	}(r.Context())

	categories, err := ht.lendingSvc.ListCategories(r.Context())
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return fmt.Errorf("list categories: %w", err)
	}

	return writeJSON(w, http.StatusOK, categories)
}

// HandleAddBook inserts a new catalog entry.
// Expects a JSON body with title, author and category.
func (ht *HTTPTransport) HandleAddBook(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleAddBook(w, r)
}

func (ht *HTTPTransport) handleAddBook(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "add book failed", "error", err)
		} else {
			log.DebugContext(ctx, "book added")
		}
	}(r.Context())

	var req addBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return fmt.Errorf("decode request: %w", err)
	}

	if err := validateAddBookRequest(req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return err
	}

	book, err := ht.lendingSvc.AddBook(r.Context(), req.Title, req.Author, req.Category)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return fmt.Errorf("add book: %w", err)
	}

	return writeJSON(w, http.StatusCreated, book)
}

func validateAddBookRequest(req addBookRequest) error {
	switch {
	case req.Title == "":
		return ErrNoTitle
	case req.Author == "":
		return ErrNoAuthor
	case req.Category == "":
		return ErrNoCategory
	default:
		return nil
	}
}

// HandleBorrow records a lending transaction for the session user.
// Expects a JSON body with bookId, borrowerName and dueDate.
func (ht *HTTPTransport) HandleBorrow(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleBorrow(w, r)
}

func (ht *HTTPTransport) handleBorrow(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "borrow failed", "error", err)
		} else {
			log.DebugContext(ctx, "book borrowed")
		}
	}(r.Context())

	session, ok := context_.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)

		return ErrNoSession
	}

	var req borrowRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return fmt.Errorf("decode request: %w", err)
	}

	if req.BookID == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return ErrNoBookID
	}

	if req.BorrowerName == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return ErrNoBorrowerName
	}

	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return err
	}

	record, err := ht.lendingSvc.Borrow(r.Context(), req.BookID, req.BorrowerName, dueDate, session.UserID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBookNotFound):
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		case errors.Is(err, domain.ErrBookUnavailable):
			http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
		default:
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}

		return fmt.Errorf("borrow request: %w", err)
	}

	return writeJSON(w, http.StatusCreated, record)
}

// HandleReturn closes a lending transaction.
// Expects a JSON body with borrowId.
func (ht *HTTPTransport) HandleReturn(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleReturn(w, r)
}

func (ht *HTTPTransport) handleReturn(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "return failed", "error", err)
		} else {
			log.DebugContext(ctx, "book returned")
		}
	}(r.Context())

	var req returnRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return fmt.Errorf("decode request: %w", err)
	}

	if req.BorrowID == "" {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

		return ErrNoBorrowID
	}

	record, err := ht.lendingSvc.Return(r.Context(), req.BorrowID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBorrowRecordNotFound):
			http.Error(w, http.StatusText(http.StatusNotFound), http.StatusNotFound)
		case errors.Is(err, domain.ErrAlreadyReturned):
			http.Error(w, http.StatusText(http.StatusConflict), http.StatusConflict)
		default:
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}

		return fmt.Errorf("return request: %w", err)
	}

	return writeJSON(w, http.StatusOK, record)
}

// HandleQueryBorrowed lists the session user's borrow records, narrowed by
// the category, borrowerName, dueDate and overdue query parameters.
func (ht *HTTPTransport) HandleQueryBorrowed(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleQueryBorrowed(w, r)
}

func (ht *HTTPTransport) handleQueryBorrowed(w http.ResponseWriter, r *http.Request) (err error) {
	log := ht.log.With(logging.Group("http", "method", r.Method, "url", r.URL.String()))

	defer func(ctx context.Context) {
		if err != nil {
			log.ErrorContext(ctx, "query borrowed failed", "error", err)
		} else {
			log.DebugContext(ctx, "borrowed queried")
		}
	}(r.Context())

	session, ok := context_.SessionFromContext(r.Context())
	if !ok {
		http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)

		return ErrNoSession
	}

	query := r.URL.Query()
	filter := BorrowFilter{
		Category:     query.Get("category"),
		BorrowerName: query.Get("borrowerName"),
		Overdue:      query.Get("overdue") == "true",
	}

	if dueDateParam := query.Get("dueDate"); dueDateParam != "" {
		dueDate, err := parseDate(dueDateParam)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)

			return err
		}

		filter.DueDate = dueDate
	}

	records, err := ht.lendingSvc.QueryBorrowed(r.Context(), session.UserID, filter)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return fmt.Errorf("query borrowed: %w", err)
	}

	return writeJSON(w, http.StatusOK, records)
}

// parseDate accepts RFC3339 timestamps and bare dates, the two formats
// clients send for due dates.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, ErrBadDueDate
	}

	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return time.Time{}, errors.Join(ErrBadDueDate, err)
	}

	return t, nil
}

func writeJSON(w http.ResponseWriter, status int, body any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		return fmt.Errorf("encode response: %w", err)
	}

	return nil
}
