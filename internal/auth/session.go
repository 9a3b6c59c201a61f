package auth

import (
	"context"
	"errors"
	"net/http"
	"time"
)

// AccessTokenCookie carries the signed token between requests.
const AccessTokenCookie = "access_token"

// ErrUnauthorized is returned by Resolve when a token is present but rejected.
var ErrUnauthorized = errors.New("unauthorized")

// Resolver turns the access_token cookie of a request into an Identity.
type Resolver struct {
	codec  *TokenCodec
	secure bool
}

func NewResolver(codec *TokenCodec, secureCookie bool) *Resolver {
	return &Resolver{codec: codec, secure: secureCookie}
}

// Resolve returns (nil, nil) for an anonymous request: no cookie, an empty
// cookie, or a valid token without identity fields. A rejected token is
// ErrUnauthorized.
func (r *Resolver) Resolve(req *http.Request) (*Identity, error) {
	cookie, err := req.Cookie(AccessTokenCookie)
	if err != nil || cookie.Value == "" {
		return nil, nil
	}

	identity, err := r.codec.Decode(cookie.Value)
	switch {
	case errors.Is(err, ErrNoIdentity):
		return nil, nil
	case err != nil:
		return nil, ErrUnauthorized
	}
	return identity, nil
}

// Issue signs a token for the user and sets it as the session cookie.
func (r *Resolver) Issue(w http.ResponseWriter, username string, userID uint) error {
	token, err := r.codec.Issue(username, userID)
	if err != nil {
		return err
	}
	r.SetSessionCookie(w, token)
	return nil
}

func (r *Resolver) SetSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(r.codec.TTL() / time.Second),
		HttpOnly: true,
		Secure:   r.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (r *Resolver) ClearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     AccessTokenCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

type identityKey struct{}

func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, identity)
}

// IdentityFrom returns the identity stored by WithIdentity, or nil.
func IdentityFrom(ctx context.Context) *Identity {
	identity, _ := ctx.Value(identityKey{}).(*Identity)
	return identity
}
