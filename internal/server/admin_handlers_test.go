package server

import (
	"fmt"
	"net/http"
	"testing"

	jsonpath "github.com/steinfletcher/apitest-jsonpath"

	"github.com/Tomlord1122/todoapp/internal/auth"
)

func TestAdminRoutes(t *testing.T) {
	app := newTestApp(t, testConfig())
	_, adminToken := app.createUser(t, "admin@example.com", "secret1", strPtr("admin"))
	userID, userToken := app.createUser(t, "user@example.com", "secret1", strPtr("user"))
	_, upperToken := app.createUser(t, "upper@example.com", "secret1", strPtr("Admin"))
	todoID := app.createTodo(t, userID, "user task")

	t.Run("admin", func(t *testing.T) {
		app.api().
			Get("/admin/all_users").
			Cookie(auth.AccessTokenCookie, adminToken).
			Expect(t).
			Status(http.StatusOK).
			Assert(jsonpath.Len("$", 3)).
			Assert(jsonpath.NotPresent("$[0].hashed_password")).
			End()

		app.api().
			Get("/admin/all_todos").
			Cookie(auth.AccessTokenCookie, adminToken).
			Expect(t).
			Status(http.StatusOK).
			Assert(jsonpath.Len("$", 1)).
			End()

		app.api().
			Get(fmt.Sprintf("/admin/all_todos/%d", userID)).
			Cookie(auth.AccessTokenCookie, adminToken).
			Expect(t).
			Status(http.StatusOK).
			Assert(jsonpath.Equal("$[0].task", "user task")).
			End()

		app.api().
			Get(fmt.Sprintf("/admin/todo/%d", todoID)).
			Cookie(auth.AccessTokenCookie, adminToken).
			Expect(t).
			Status(http.StatusOK).
			Assert(jsonpath.Equal("$.task", "user task")).
			End()
	})

	for name, token := range map[string]string{"regular user": userToken, "case mismatch role": upperToken} {
		t.Run(name, func(t *testing.T) {
			for _, p := range []string{"/admin/all_users", "/admin/all_todos", fmt.Sprintf("/admin/all_todos/%d", userID)} {
				app.api().
					Get(p).
					Cookie(auth.AccessTokenCookie, token).
					Expect(t).
					Status(http.StatusOK).
					Body(`{"message":"Not Authorized to access this url"}`).
					End()
			}
		})
	}

	t.Run("owner reads own todo through admin path", func(t *testing.T) {
		app.api().
			Get(fmt.Sprintf("/admin/todo/%d", todoID)).
			Cookie(auth.AccessTokenCookie, userToken).
			Expect(t).
			Status(http.StatusOK).
			End()

		app.api().
			Get(fmt.Sprintf("/admin/todo/%d", todoID)).
			Cookie(auth.AccessTokenCookie, upperToken).
			Expect(t).
			Status(http.StatusNotFound).
			End()
	})

	t.Run("anonymous", func(t *testing.T) {
		app.api().
			Get("/admin/all_users").
			Expect(t).
			Status(http.StatusUnauthorized).
			End()
	})

	t.Run("deleted user fails closed", func(t *testing.T) {
		ghost, err := app.codec.Issue("ghost@example.com", 999)
		if err != nil {
			t.Fatal(err)
		}
		app.api().
			Get("/admin/all_users").
			Cookie(auth.AccessTokenCookie, ghost).
			Expect(t).
			Status(http.StatusOK).
			Body(`{"message":"Not Authorized to access this url"}`).
			End()
	})
}

func TestAdminDenialStatusConfigurable(t *testing.T) {
	cfg := testConfig()
	cfg.AdminDenialStatus = http.StatusForbidden
	app := newTestApp(t, cfg)
	_, token := app.createUser(t, "user@example.com", "secret1", nil)

	app.api().
		Get("/admin/all_todos").
		Cookie(auth.AccessTokenCookie, token).
		Expect(t).
		Status(http.StatusForbidden).
		Assert(jsonpath.Equal("$.message", "Not Authorized to access this url")).
		End()
}
