package server

import (
	"context"
	"net/http"
	"testing"

	jsonpath "github.com/steinfletcher/apitest-jsonpath"
	"github.com/stretchr/testify/assert"

	"github.com/Tomlord1122/todoapp/internal/auth"
)

func TestUpdatePasswordAPI(t *testing.T) {
	app := newTestApp(t, testConfig())
	_, token := app.createUser(t, "pw@example.com", "secret1", nil)

	app.api().
		Put("/user/update_password").
		Cookie(auth.AccessTokenCookie, token).
		JSON(`{"old_password":"wrong1","new_password":"secret2"}`).
		Expect(t).
		Status(http.StatusBadRequest).
		Assert(jsonpath.Equal("$.error", "Invalid old password")).
		End()

	app.api().
		Put("/user/update_password").
		Cookie(auth.AccessTokenCookie, token).
		JSON(`{"old_password":"secret1","new_password":"abc"}`).
		Expect(t).
		Status(http.StatusUnprocessableEntity).
		Assert(jsonpath.Present("$.fields.new_password")).
		End()

	app.api().
		Put("/user/update_password").
		Cookie(auth.AccessTokenCookie, token).
		JSON(`{"old_password":"secret1","new_password":"secret2"}`).
		Expect(t).
		Status(http.StatusCreated).
		End()

	_, err := app.server.users.Authenticate(context.Background(), "pw@example.com", "secret2")
	assert.NoError(t, err)

	app.api().
		Put("/user/update_password").
		JSON(`{"old_password":"secret2","new_password":"secret3"}`).
		Expect(t).
		Status(http.StatusUnauthorized).
		End()
}

func TestProfilePage(t *testing.T) {
	app := newTestApp(t, testConfig())
	_, token := app.createUser(t, "profile@example.com", "secret1", strPtr("admin"))

	app.api().
		Get("/user/profile").
		Cookie(auth.AccessTokenCookie, token).
		Expect(t).
		Status(http.StatusOK).
		Assert(bodyContains("profile@example.com", "Tester", "admin")).
		End()
}

func TestProfilePage_MissingUserRedirects(t *testing.T) {
	app := newTestApp(t, testConfig())
	token, err := app.codec.Issue("ghost@example.com", 999)
	if err != nil {
		t.Fatal(err)
	}

	app.api().
		Get("/user/profile").
		Cookie(auth.AccessTokenCookie, token).
		Expect(t).
		Status(http.StatusFound).
		Header("Location", "/auth/login").
		End()
}

func TestChangePasswordPage(t *testing.T) {
	app := newTestApp(t, testConfig())
	_, token := app.createUser(t, "change@example.com", "secret1", nil)

	change := func(oldPassword, newPassword, confirm, want string) {
		app.api().
			Post("/user/change_password").
			Cookie(auth.AccessTokenCookie, token).
			FormData("old_password", oldPassword).
			FormData("new_password", newPassword).
			FormData("confirm_password", confirm).
			Expect(t).
			Status(http.StatusOK).
			Assert(bodyContains(want)).
			End()
	}

	change("wrong", "newpass", "newpass", "Incorrect old password")
	change("secret1", "newpass", "other", "Password mismatch new and confirm")
	change("secret1", "newpass", "newpass", "Password changed")

	_, err := app.server.users.Authenticate(context.Background(), "change@example.com", "newpass")
	assert.NoError(t, err)
}
