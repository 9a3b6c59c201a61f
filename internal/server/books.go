package server

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Tomlord1122/todoapp/internal/config"
	"github.com/Tomlord1122/todoapp/internal/metrics"
	"github.com/Tomlord1122/todoapp/internal/repository"
	"github.com/Tomlord1122/todoapp/internal/service"
)

// minBookID is the smallest id the by-id lookup accepts.
const minBookID = 101

// BooksServer is the stateless library catalog. Each instance owns its own
// in-memory store.
type BooksServer struct {
	books          *service.BookService
	metrics        *metrics.Metrics
	allowedOrigins []string
}

func NewBooksServer(cfg *config.Config) *BooksServer {
	return &BooksServer{
		books:          service.NewBookService(repository.NewMemoryBookRepository(repository.SeedBooks())),
		metrics:        metrics.New("books"),
		allowedOrigins: cfg.AllowedOrigins,
	}
}

func (b *BooksServer) HTTPServer(addr string) *http.Server {
	return newHTTPServer(addr, b.RegisterRoutes())
}

func (b *BooksServer) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	useCommonMiddleware(r, b.allowedOrigins)
	r.Use(b.metrics.Middleware)

	r.Get("/", b.welcomeHandler)
	r.Handle("/metrics", b.metrics.Handler())

	r.Get("/books", b.listBooksHandler)
	r.Get("/books/{book_id}", b.getBookHandler)
	r.Get("/books/title/{book_title}", b.getBookByTitleHandler)
	r.Post("/create_book", b.createBookHandler)
	r.Put("/books/update_book", b.updateBookHandler)
	r.Delete("/books/delete_book/{book_id}", b.deleteBookHandler)

	return r
}

func (b *BooksServer) welcomeHandler(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Welcome to library"})
}

func (b *BooksServer) listBooksHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	respondWithJSON(w, http.StatusOK, b.books.List(q.Get("author"), q.Get("category")))
}

func (b *BooksServer) getBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "book_id"))
	if err != nil || id < minBookID {
		respondWithServiceError(w, r, &service.ValidationError{
			Fields: map[string]string{"book_id": "should be greater than 100"},
		})
		return
	}
	book, err := b.books.Get(id)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, book)
}

func (b *BooksServer) getBookByTitleHandler(w http.ResponseWriter, r *http.Request) {
	title, err := url.PathUnescape(chi.URLParam(r, "book_title"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid book title")
		return
	}
	book, err := b.books.GetByTitle(title)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, book)
}

func (b *BooksServer) createBookHandler(w http.ResponseWriter, r *http.Request) {
	var req service.BookRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	book, err := b.books.Create(req)
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, book)
}

func (b *BooksServer) updateBookHandler(w http.ResponseWriter, r *http.Request) {
	var req service.BookRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := b.books.Update(req); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (b *BooksServer) deleteBookHandler(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "book_id"))
	if err != nil {
		respondWithServiceError(w, r, &service.ValidationError{
			Fields: map[string]string{"book_id": "should be an integer"},
		})
		return
	}
	if err := b.books.Delete(id); err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
