package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requestWithCookie(value string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: value})
	return req
}

func TestResolve_NoCookieIsAnonymous(t *testing.T) {
	resolver := NewResolver(newTestCodec(t, newFakeClock()), false)

	identity, err := resolver.Resolve(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NoError(t, err)
	assert.Nil(t, identity)
}

func TestResolve_EmptyCookieIsAnonymous(t *testing.T) {
	resolver := NewResolver(newTestCodec(t, newFakeClock()), false)

	identity, err := resolver.Resolve(requestWithCookie(""))
	assert.NoError(t, err)
	assert.Nil(t, identity)
}

func TestResolve_ValidToken(t *testing.T) {
	codec := newTestCodec(t, newFakeClock())
	resolver := NewResolver(codec, false)

	token, err := codec.Issue("sanjeev@example.com", 3)
	require.NoError(t, err)

	identity, err := resolver.Resolve(requestWithCookie(token))
	require.NoError(t, err)
	assert.Equal(t, &Identity{Username: "sanjeev@example.com", UserID: 3}, identity)
}

func TestResolve_RejectedToken(t *testing.T) {
	clock := newFakeClock()
	codec := newTestCodec(t, clock)
	resolver := NewResolver(codec, false)

	token, err := codec.Issue("sanjeev", 1)
	require.NoError(t, err)
	clock.Advance(21 * time.Minute)

	identity, err := resolver.Resolve(requestWithCookie(token))
	assert.Nil(t, identity)
	assert.ErrorIs(t, err, ErrUnauthorized)

	identity, err = resolver.Resolve(requestWithCookie("garbage"))
	assert.Nil(t, identity)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestResolve_SignedWithoutIdentityIsAnonymous(t *testing.T) {
	clock := newFakeClock()
	resolver := NewResolver(newTestCodec(t, clock), false)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "sanjeev",
		"exp": clock.Now().Add(time.Minute).Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)

	identity, err := resolver.Resolve(requestWithCookie(signed))
	assert.NoError(t, err)
	assert.Nil(t, identity)
}

func TestIssueSetsHTTPOnlyCookie(t *testing.T) {
	codec := newTestCodec(t, newFakeClock())
	resolver := NewResolver(codec, true)

	w := httptest.NewRecorder()
	require.NoError(t, resolver.Issue(w, "sanjeev", 9))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, AccessTokenCookie, c.Name)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, int(testTTL.Seconds()), c.MaxAge)

	identity, err := codec.Decode(c.Value)
	require.NoError(t, err)
	assert.Equal(t, uint(9), identity.UserID)
}

func TestClearSessionCookie(t *testing.T) {
	resolver := NewResolver(newTestCodec(t, newFakeClock()), false)

	w := httptest.NewRecorder()
	resolver.ClearSessionCookie(w)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, AccessTokenCookie, cookies[0].Name)
	assert.Equal(t, -1, cookies[0].MaxAge)
	assert.Empty(t, cookies[0].Value)
}

func TestIdentityContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, IdentityFrom(req.Context()))

	identity := &Identity{Username: "sanjeev", UserID: 1}
	ctx := WithIdentity(req.Context(), identity)
	assert.Same(t, identity, IdentityFrom(ctx))
}
