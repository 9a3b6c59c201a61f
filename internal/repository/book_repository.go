package repository

import (
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/Tomlord1122/todoapp/internal/domain"
)

// BookRepository stores the books catalog.
type BookRepository interface {
	List() []domain.Book
	FindByID(id int) (domain.Book, bool)
	FindByTitle(title string) (domain.Book, bool)
	Filter(author, category string) []domain.Book
	Create(book domain.Book) domain.Book
	Update(book domain.Book) bool
	Delete(id int) bool
}

// firstBookID is assigned when the catalog is empty.
const firstBookID = 101

// SeedBooks is the catalog a fresh books server starts with.
func SeedBooks() []domain.Book {
	return []domain.Book{
		{ID: 101, Name: "ikigai", Author: "ram", Category: "self-help", Rating: 4, PublishedDate: 2000},
		{ID: 102, Name: "titanic", Author: "sita", Category: "adventure", Rating: 5, PublishedDate: 2001},
		{ID: 103, Name: "life of pi", Author: "ram", Category: "adventure", Rating: 5, PublishedDate: 2001},
	}
}

// memoryBookRepository keeps books in insertion order behind a RWMutex.
type memoryBookRepository struct {
	mu    sync.RWMutex
	books []domain.Book
}

func NewMemoryBookRepository(seed []domain.Book) BookRepository {
	books := make([]domain.Book, len(seed))
	copy(books, seed)
	return &memoryBookRepository{books: books}
}

func (r *memoryBookRepository) List() []domain.Book {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Book, len(r.books))
	copy(out, r.books)
	return out
}

func (r *memoryBookRepository) FindByID(id int) (domain.Book, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.books {
		if b.ID == id {
			return b, true
		}
	}
	return domain.Book{}, false
}

func (r *memoryBookRepository) FindByTitle(title string) (domain.Book, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, b := range r.books {
		if b.Name == title {
			return b, true
		}
	}
	return domain.Book{}, false
}

// Filter matches author and category after capitalizing both sides. An
// empty argument matches everything.
func (r *memoryBookRepository) Filter(author, category string) []domain.Book {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.Book, 0)
	for _, b := range r.books {
		if author != "" && capitalize(b.Author) != capitalize(author) {
			continue
		}
		if category != "" && capitalize(b.Category) != capitalize(category) {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Create assigns the id following the last book in the catalog.
func (r *memoryBookRepository) Create(book domain.Book) domain.Book {
	r.mu.Lock()
	defer r.mu.Unlock()

	book.ID = firstBookID
	if n := len(r.books); n > 0 {
		book.ID = r.books[n-1].ID + 1
	}
	r.books = append(r.books, book)
	return book
}

func (r *memoryBookRepository) Update(book domain.Book) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	updated := false
	for i := range r.books {
		if r.books[i].ID == book.ID {
			r.books[i] = book
			updated = true
		}
	}
	return updated
}

func (r *memoryBookRepository) Delete(id int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.books {
		if r.books[i].ID == id {
			r.books = append(r.books[:i], r.books[i+1:]...)
			return true
		}
	}
	return false
}

// capitalize upper-cases the first rune and lower-cases the rest.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(first)) + strings.ToLower(s[size:])
}
