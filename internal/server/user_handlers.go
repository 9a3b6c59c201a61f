package server

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/hlog"

	"github.com/Tomlord1122/todoapp/internal/auth"
	"github.com/Tomlord1122/todoapp/internal/service"
)

func (s *Server) updatePasswordHandler(w http.ResponseWriter, r *http.Request) {
	var req service.UpdatePasswordRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	identity := auth.IdentityFrom(r.Context())
	err := s.users.UpdatePassword(r.Context(), identity.UserID, req)
	if errors.Is(err, service.ErrIncorrectPassword) {
		respondWithError(w, http.StatusBadRequest, "Invalid old password")
		return
	}
	if err != nil {
		respondWithServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (s *Server) profilePageHandler(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())
	profile, err := s.users.Profile(r.Context(), identity.UserID)
	if err != nil {
		if !errors.Is(err, service.ErrUserNotFound) {
			hlog.FromRequest(r).Error().Err(err).Msg("Error loading profile")
		}
		http.Redirect(w, r, "/auth/login", http.StatusFound)
		return
	}
	s.renderer.Render(w, r, http.StatusOK, pageProfile, PageData{User: identity, Profile: profile})
}

func (s *Server) changePasswordPageHandler(w http.ResponseWriter, r *http.Request) {
	s.renderer.Render(w, r, http.StatusOK, pageChangePassword, PageData{User: auth.IdentityFrom(r.Context())})
}

func (s *Server) changePasswordHandler(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFrom(r.Context())
	if err := r.ParseForm(); err != nil {
		s.renderer.Render(w, r, http.StatusOK, pageChangePassword, PageData{User: identity, Msg: "Unknown Error"})
		return
	}

	err := s.users.ChangePassword(r.Context(), identity.UserID,
		r.PostForm.Get("old_password"),
		r.PostForm.Get("new_password"),
		r.PostForm.Get("confirm_password"),
	)
	switch {
	case err == nil:
		s.renderer.Render(w, r, http.StatusOK, pageLogin, PageData{Msg: "Password changed"})
	case errors.Is(err, service.ErrIncorrectPassword):
		s.renderer.Render(w, r, http.StatusOK, pageChangePassword, PageData{User: identity, Msg: "Incorrect old password"})
	case errors.Is(err, service.ErrPasswordMismatch):
		s.renderer.Render(w, r, http.StatusOK, pageChangePassword, PageData{User: identity, Msg: "Password mismatch new and confirm"})
	case errors.Is(err, service.ErrUserNotFound):
		http.Redirect(w, r, "/auth/login", http.StatusFound)
	default:
		hlog.FromRequest(r).Error().Err(err).Msg("Error changing password")
		s.renderer.Render(w, r, http.StatusOK, pageChangePassword, PageData{User: identity, Msg: "Unknown Error"})
	}
}
