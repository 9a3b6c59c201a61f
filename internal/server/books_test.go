package server

import (
	"net/http"
	"testing"

	"github.com/steinfletcher/apitest"
	jsonpath "github.com/steinfletcher/apitest-jsonpath"
)

func newBooksAPI(t *testing.T) func() *apitest.APITest {
	t.Helper()
	handler := NewBooksServer(testConfig()).RegisterRoutes()
	return func() *apitest.APITest {
		return apitest.New().Handler(handler)
	}
}

func TestBooks_Read(t *testing.T) {
	api := newBooksAPI(t)

	api().Get("/").
		Expect(t).
		Status(http.StatusOK).
		Body(`{"message":"Welcome to library"}`).
		End()

	api().Get("/books").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len("$", 3)).
		Assert(jsonpath.Equal("$[0].name", "ikigai")).
		End()

	api().Get("/books").
		Query("author", "RAM").
		Query("category", "adventure").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len("$", 1)).
		Assert(jsonpath.Equal("$[0].name", "life of pi")).
		End()

	api().Get("/books/102").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.name", "titanic")).
		Assert(jsonpath.Equal("$.published_date", float64(2001))).
		End()

	api().Get("/books/100").
		Expect(t).
		Status(http.StatusUnprocessableEntity).
		Assert(jsonpath.Present("$.fields.book_id")).
		End()

	api().Get("/books/999").
		Expect(t).
		Status(http.StatusNotFound).
		Assert(jsonpath.Equal("$.error", "Item not found")).
		End()

	api().Get("/books/title/life%20of%20pi").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.id", float64(103))).
		End()

	api().Get("/books/title/unknown").
		Expect(t).
		Status(http.StatusNotFound).
		End()
}

func TestBooks_Write(t *testing.T) {
	api := newBooksAPI(t)

	api().Post("/create_book").
		JSON(`{"name":"dune","author":"frank","category":"scifi","rating":5,"published_date":1965}`).
		Expect(t).
		Status(http.StatusCreated).
		Assert(jsonpath.Equal("$.id", float64(104))).
		End()

	api().Post("/create_book").
		JSON(`{"name":"no","author":"x","category":"y","rating":6,"published_date":1}`).
		Expect(t).
		Status(http.StatusUnprocessableEntity).
		Assert(jsonpath.Present("$.fields.name")).
		Assert(jsonpath.Present("$.fields.rating")).
		End()

	api().Put("/books/update_book").
		JSON(`{"id":104,"name":"dune messiah","author":"frank","category":"scifi","rating":4,"published_date":1969}`).
		Expect(t).
		Status(http.StatusNoContent).
		End()

	api().Get("/books/104").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Equal("$.name", "dune messiah")).
		End()

	api().Put("/books/update_book").
		JSON(`{"id":500,"name":"ghost","author":"nobody","category":"none","rating":1,"published_date":2000}`).
		Expect(t).
		Status(http.StatusNotFound).
		End()

	api().Delete("/books/delete_book/104").
		Expect(t).
		Status(http.StatusNoContent).
		End()

	api().Delete("/books/delete_book/104").
		Expect(t).
		Status(http.StatusNotFound).
		End()
}

func TestBooks_InstancesAreIndependent(t *testing.T) {
	first := newBooksAPI(t)
	second := newBooksAPI(t)

	first().Delete("/books/delete_book/101").
		Expect(t).
		Status(http.StatusNoContent).
		End()

	second().Get("/books").
		Expect(t).
		Status(http.StatusOK).
		Assert(jsonpath.Len("$", 3)).
		End()
}
