package service

import (
	"github.com/Tomlord1122/todoapp/internal/domain"
	"github.com/Tomlord1122/todoapp/internal/repository"
)

// BookRequest is the JSON body for create and update. ID is ignored on
// create and required on update.
type BookRequest struct {
	ID            *int   `json:"id"`
	Name          string `json:"name" validate:"required,min=3"`
	Author        string `json:"author" validate:"required,min=3,max=100"`
	Category      string `json:"category" validate:"required,min=3,max=100"`
	Rating        int    `json:"rating" validate:"gt=0,max=5"`
	PublishedDate int    `json:"published_date" validate:"required"`
}

func (r BookRequest) book() domain.Book {
	b := domain.Book{
		Name:          r.Name,
		Author:        r.Author,
		Category:      r.Category,
		Rating:        r.Rating,
		PublishedDate: r.PublishedDate,
	}
	if r.ID != nil {
		b.ID = *r.ID
	}
	return b
}

// BookService validates requests against the books catalog.
type BookService struct {
	repo repository.BookRepository
}

func NewBookService(repo repository.BookRepository) *BookService {
	return &BookService{repo: repo}
}

// List returns every book, or only those matching author and category
// when either is set.
func (s *BookService) List(author, category string) []domain.Book {
	if author == "" && category == "" {
		return s.repo.List()
	}
	return s.repo.Filter(author, category)
}

func (s *BookService) Get(id int) (domain.Book, error) {
	b, ok := s.repo.FindByID(id)
	if !ok {
		return domain.Book{}, ErrBookNotFound
	}
	return b, nil
}

func (s *BookService) GetByTitle(title string) (domain.Book, error) {
	b, ok := s.repo.FindByTitle(title)
	if !ok {
		return domain.Book{}, ErrBookNotFound
	}
	return b, nil
}

func (s *BookService) Create(req BookRequest) (domain.Book, error) {
	if err := Validate(req); err != nil {
		return domain.Book{}, err
	}
	return s.repo.Create(req.book()), nil
}

func (s *BookService) Update(req BookRequest) error {
	if err := Validate(req); err != nil {
		return err
	}
	if req.ID == nil {
		return &ValidationError{Fields: map[string]string{"id": "field required"}}
	}
	if !s.repo.Update(req.book()) {
		return ErrBookNotFound
	}
	return nil
}

func (s *BookService) Delete(id int) error {
	if !s.repo.Delete(id) {
		return ErrBookNotFound
	}
	return nil
}
