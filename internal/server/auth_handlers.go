package server

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/Tomlord1122/todoapp/internal/service"
)

// tokenHandler is the password-grant endpoint. It answers JSON true and
// sets the session cookie, or JSON false. The token never appears in the
// body.
func (s *Server) tokenHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid form body")
		return
	}
	ok := s.login(w, r, r.PostForm.Get("username"), r.PostForm.Get("password"))
	respondWithJSON(w, http.StatusOK, ok)
}

// login authenticates and, on success, sets the session cookie on w.
func (s *Server) login(w http.ResponseWriter, r *http.Request, email, password string) bool {
	user, err := s.users.Authenticate(r.Context(), email, password)
	if err != nil {
		if !errors.Is(err, service.ErrInvalidCredentials) {
			hlog.FromRequest(r).Error().Err(err).Msg("Error authenticating user")
		}
		s.metrics.ObserveLogin(false)
		return false
	}
	if err := s.resolver.Issue(w, user.Email, user.ID); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("Error issuing session token")
		s.metrics.ObserveLogin(false)
		return false
	}
	s.metrics.ObserveLogin(true)
	hlog.FromRequest(r).Info().Uint("user_id", user.ID).Msg("User logged in")
	return true
}

func (s *Server) createUserHandler(w http.ResponseWriter, r *http.Request) {
	var req service.UserRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := s.users.CreateUser(r.Context(), req)
	if errors.Is(err, service.ErrEmailTaken) {
		respondWithError(w, http.StatusConflict, "Email already exist")
		return
	}
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, user)
}

func (s *Server) loginPageHandler(w http.ResponseWriter, r *http.Request) {
	s.renderer.Render(w, r, http.StatusOK, pageLogin, PageData{})
}

// loginHandler never answers 401; a failed login re-renders the form.
func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderer.Render(w, r, http.StatusOK, pageLogin, PageData{Msg: "Unknown Error"})
		return
	}
	if !s.login(w, r, r.PostForm.Get("email"), r.PostForm.Get("password")) {
		s.renderer.Render(w, r, http.StatusOK, pageLogin, PageData{Msg: "Incorrect username or password"})
		return
	}
	http.Redirect(w, r, "/home", http.StatusFound)
}

func (s *Server) logoutHandler(w http.ResponseWriter, r *http.Request) {
	s.resolver.ClearSessionCookie(w)
	s.renderer.Render(w, r, http.StatusOK, pageLogin, PageData{Msg: "Logout Successful"})
}

func (s *Server) registerPageHandler(w http.ResponseWriter, r *http.Request) {
	s.renderer.Render(w, r, http.StatusOK, pageRegister, PageData{})
}

func (s *Server) registerHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		s.renderer.Render(w, r, http.StatusOK, pageRegister, PageData{Msg: "Unknown Error"})
		return
	}
	form := service.RegistrationForm{
		Email:     r.PostForm.Get("email"),
		Role:      r.PostForm.Get("role"),
		FirstName: r.PostForm.Get("firstname"),
		LastName:  r.PostForm.Get("lastname"),
		Password:  r.PostForm.Get("password"),
		Password2: r.PostForm.Get("password2"),
	}

	_, err := s.users.Register(r.Context(), form)
	var verr *service.ValidationError
	switch {
	case err == nil:
		s.renderer.Render(w, r, http.StatusOK, pageLogin, PageData{Msg: "User successfully created"})
	case errors.Is(err, service.ErrPasswordMismatch):
		s.renderer.Render(w, r, http.StatusOK, pageRegister, PageData{Msg: "Password mismatch"})
	case errors.Is(err, service.ErrEmailTaken):
		s.renderer.Render(w, r, http.StatusOK, pageRegister, PageData{Msg: "Email already exist"})
	case errors.As(err, &verr):
		s.renderer.Render(w, r, http.StatusOK, pageRegister, PageData{Msg: "Email and password are required"})
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("Error registering user")
		s.renderer.Render(w, r, http.StatusOK, pageRegister, PageData{Msg: "Unknown Error"})
	}
}
